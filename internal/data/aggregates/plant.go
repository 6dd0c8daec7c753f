package aggregates

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/mzflora/plantario-backend/internal/data/repos/locations"
	"github.com/mzflora/plantario-backend/internal/data/repos/plants"
	"github.com/mzflora/plantario-backend/internal/data/repos/refs"
	"github.com/mzflora/plantario-backend/internal/data/repos/usage"
	"github.com/mzflora/plantario-backend/internal/domain"
	"github.com/mzflora/plantario-backend/internal/platform/apierr"
	"github.com/mzflora/plantario-backend/internal/platform/dbctx"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
)

// ProvinceInput names a collection site inside an existing province.
type ProvinceInput struct {
	IDProvincia uint   `json:"id_provincia"`
	Local       string `json:"local"`
}

// PartInput carries a used part with its indications and methods. Parts,
// indications and methods are shared rows, found or created by text.
type PartInput struct {
	NomeParte         string   `json:"nome_parte"`
	Indicacoes        []string `json:"indicacoes"`
	MetodosPreparacao []string `json:"metodos_preparacao"`
	MetodosExtracao   []string `json:"metodos_extracao"`
}

type AffiliationInput struct {
	Nome  string `json:"nome_afiliacao"`
	Sigla string `json:"sigla_afiliacao"`
}

type AuthorInput struct {
	Nome       string             `json:"nome_autor"`
	Afiliacoes []AffiliationInput `json:"afiliacoes"`
}

type ReferenceInput struct {
	Titulo        string        `json:"titulo"`
	Link          string        `json:"link"`
	AnoPublicacao *int          `json:"ano"`
	Autores       []AuthorInput `json:"autores"`
}

// PlantInput is the full write shape accepted by the wizard and the
// admin plant endpoints.
type PlantInput struct {
	NomeCientifico    string           `json:"nome_cientifico"`
	Familia           string           `json:"familia"`
	InfosAdicionais   string           `json:"infos_adicionais"`
	CompQuimica       string           `json:"comp_quimica"`
	PropFarmacologica string           `json:"prop_farmacologica"`
	NomesComuns       []string         `json:"nomes_comuns"`
	Provincias        []ProvinceInput  `json:"provincias"`
	Partes            []PartInput      `json:"partes_usadas"`
	Referencias       []ReferenceInput `json:"referencias"`
}

// PlantUpdate is the partial write shape of the plant edit endpoint.
// Absent keys keep the stored value. A present nomes_comuns replaces
// the name list wholesale; the rest of the relation graph is managed
// through its own endpoints and is never touched by an edit.
type PlantUpdate struct {
	NomeCientifico    *string   `json:"nome_cientifico"`
	Familia           *string   `json:"familia"`
	InfosAdicionais   *string   `json:"infos_adicionais"`
	CompQuimica       *string   `json:"comp_quimica"`
	PropFarmacologica *string   `json:"prop_farmacologica"`
	NomesComuns       *[]string `json:"nomes_comuns"`
}

// PlantAggregate coordinates multi-table writes around a plant so the
// whole graph lands or nothing does.
type PlantAggregate struct {
	tx          TxRunner
	plantRepo   plants.PlantRepo
	nameRepo    plants.CommonNameRepo
	imageRepo   plants.ImageRepo
	provRepo    locations.ProvinceRepo
	siteRepo    locations.SiteRepo
	partRepo    usage.PartRepo
	indRepo     usage.IndicationRepo
	methodRepo  usage.MethodRepo
	refRepo     refs.ReferenceRepo
	authorRepo  refs.AuthorRepo
	affRepo     refs.AffiliationRepo
	log         *logger.Logger
}

func NewPlantAggregate(
	tx TxRunner,
	plantRepo plants.PlantRepo,
	nameRepo plants.CommonNameRepo,
	imageRepo plants.ImageRepo,
	provRepo locations.ProvinceRepo,
	siteRepo locations.SiteRepo,
	partRepo usage.PartRepo,
	indRepo usage.IndicationRepo,
	methodRepo usage.MethodRepo,
	refRepo refs.ReferenceRepo,
	authorRepo refs.AuthorRepo,
	affRepo refs.AffiliationRepo,
	baseLog *logger.Logger,
) *PlantAggregate {
	return &PlantAggregate{
		tx:         tx,
		plantRepo:  plantRepo,
		nameRepo:   nameRepo,
		imageRepo:  imageRepo,
		provRepo:   provRepo,
		siteRepo:   siteRepo,
		partRepo:   partRepo,
		indRepo:    indRepo,
		methodRepo: methodRepo,
		refRepo:    refRepo,
		authorRepo: authorRepo,
		affRepo:    affRepo,
		log:        baseLog.With("aggregate", "plant"),
	}
}

func (a *PlantAggregate) validate(in *PlantInput) error {
	in.NomeCientifico = strings.TrimSpace(in.NomeCientifico)
	in.Familia = strings.TrimSpace(in.Familia)
	if in.NomeCientifico == "" {
		return apierr.Validation("missing_nome_cientifico", "nome_cientifico é obrigatório")
	}
	if in.Familia == "" {
		return apierr.Validation("missing_familia", "familia é obrigatória")
	}
	return nil
}

// CreateFull creates the plant and its entire relation graph in one
// transaction. The scientific name must be new.
func (a *PlantAggregate) CreateFull(ctx context.Context, in PlantInput) (*domain.Planta, error) {
	if err := a.validate(&in); err != nil {
		return nil, err
	}
	var created *domain.Planta
	err := a.tx.InTx(ctx, func(dbc dbctx.Context) error {
		if _, err := a.plantRepo.GetByScientificName(dbc, in.NomeCientifico); err == nil {
			return apierr.Conflict("duplicate_plant", "já existe uma planta com esse nome científico")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		p := &domain.Planta{
			NomeCientifico:    in.NomeCientifico,
			Familia:           in.Familia,
			InfosAdicionais:   in.InfosAdicionais,
			CompQuimica:       in.CompQuimica,
			PropFarmacologica: in.PropFarmacologica,
		}
		if err := a.plantRepo.Create(dbc, p); err != nil {
			return err
		}
		if err := a.applyRelations(dbc, p.ID, in); err != nil {
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		return nil, MapError("plant.create", err)
	}
	a.log.Info("plant created", "id_planta", created.ID, "nome_cientifico", created.NomeCientifico)
	return created, nil
}

// Update applies a partial edit to the plant row. Only the fields the
// request carried change; sites, parts and references are left alone.
func (a *PlantAggregate) Update(ctx context.Context, id uint, in PlantUpdate) error {
	err := a.tx.InTx(ctx, func(dbc dbctx.Context) error {
		existing, err := a.plantRepo.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if in.NomeCientifico != nil {
			nome := strings.TrimSpace(*in.NomeCientifico)
			if nome == "" {
				return apierr.Validation("missing_nome_cientifico", "nome_cientifico é obrigatório")
			}
			if other, err := a.plantRepo.GetByScientificName(dbc, nome); err == nil && other.ID != existing.ID {
				return apierr.Conflict("duplicate_plant", "já existe uma planta com esse nome científico")
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			existing.NomeCientifico = nome
		}
		if in.Familia != nil {
			familia := strings.TrimSpace(*in.Familia)
			if familia == "" {
				return apierr.Validation("missing_familia", "familia é obrigatória")
			}
			existing.Familia = familia
		}
		if in.InfosAdicionais != nil {
			existing.InfosAdicionais = *in.InfosAdicionais
		}
		if in.CompQuimica != nil {
			existing.CompQuimica = *in.CompQuimica
		}
		if in.PropFarmacologica != nil {
			existing.PropFarmacologica = *in.PropFarmacologica
		}
		if err := a.plantRepo.Update(dbc, existing); err != nil {
			return err
		}

		if in.NomesComuns != nil {
			return a.nameRepo.ReplaceForPlant(dbc, id, *in.NomesComuns)
		}
		return nil
	})
	if err != nil {
		return MapError("plant.update", err)
	}
	a.log.Info("plant updated", "id_planta", id)
	return nil
}

// Delete removes the plant with its names, links and image rows. The
// stored image URLs are returned so the caller can clean up files after
// the transaction commits.
func (a *PlantAggregate) Delete(ctx context.Context, id uint) ([]string, error) {
	var urls []string
	err := a.tx.InTx(ctx, func(dbc dbctx.Context) error {
		if _, err := a.plantRepo.GetByID(dbc, id); err != nil {
			return err
		}
		imgs, err := a.imageRepo.ListByPlant(dbc, id)
		if err != nil {
			return err
		}
		for _, img := range imgs {
			urls = append(urls, img.URLArmazenamento)
		}
		if err := a.clearRelations(dbc, id); err != nil {
			return err
		}
		if err := a.nameRepo.DeleteByPlant(dbc, id); err != nil {
			return err
		}
		if err := a.imageRepo.DeleteByPlant(dbc, id); err != nil {
			return err
		}
		return a.plantRepo.Delete(dbc, id)
	})
	if err != nil {
		return nil, MapError("plant.delete", err)
	}
	a.log.Info("plant deleted", "id_planta", id)
	return urls, nil
}

// clearRelations drops the plant's link rows. Shared rows (parts,
// indications, methods, references, authors) stay, other plants may use
// them.
func (a *PlantAggregate) clearRelations(dbc dbctx.Context, plantID uint) error {
	if err := a.siteRepo.UnlinkPlant(dbc, plantID); err != nil {
		return err
	}
	if err := a.partRepo.UnlinkPlant(dbc, plantID); err != nil {
		return err
	}
	return a.refRepo.UnlinkPlant(dbc, plantID)
}

func (a *PlantAggregate) applyRelations(dbc dbctx.Context, plantID uint, in PlantInput) error {
	if err := a.nameRepo.ReplaceForPlant(dbc, plantID, in.NomesComuns); err != nil {
		return err
	}

	for _, pv := range in.Provincias {
		local := strings.TrimSpace(pv.Local)
		if pv.IDProvincia == 0 || local == "" {
			continue
		}
		if _, err := a.provRepo.GetByID(dbc, pv.IDProvincia); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.Validation("unknown_province", "província inexistente")
			}
			return err
		}
		site, err := a.siteRepo.FindOrCreate(dbc, pv.IDProvincia, local)
		if err != nil {
			return err
		}
		if err := a.siteRepo.LinkPlant(dbc, plantID, site.ID); err != nil {
			return err
		}
	}

	for _, pp := range in.Partes {
		if strings.TrimSpace(pp.NomeParte) == "" {
			continue
		}
		part, err := a.partRepo.FindOrCreate(dbc, pp.NomeParte)
		if err != nil {
			return err
		}
		if err := a.partRepo.LinkPlant(dbc, plantID, part.ID); err != nil {
			return err
		}
		for _, desc := range pp.Indicacoes {
			if strings.TrimSpace(desc) == "" {
				continue
			}
			ind, err := a.indRepo.FindOrCreate(dbc, desc)
			if err != nil {
				return err
			}
			if err := a.indRepo.LinkPart(dbc, part.ID, ind.ID); err != nil {
				return err
			}
		}
		for _, desc := range pp.MetodosPreparacao {
			if strings.TrimSpace(desc) == "" {
				continue
			}
			m, err := a.methodRepo.FindOrCreatePreparation(dbc, desc)
			if err != nil {
				return err
			}
			if err := a.methodRepo.LinkPreparation(dbc, part.ID, m.ID); err != nil {
				return err
			}
		}
		for _, desc := range pp.MetodosExtracao {
			if strings.TrimSpace(desc) == "" {
				continue
			}
			m, err := a.methodRepo.FindOrCreateExtraction(dbc, desc)
			if err != nil {
				return err
			}
			if err := a.methodRepo.LinkExtraction(dbc, part.ID, m.ID); err != nil {
				return err
			}
		}
	}

	for _, rr := range in.Referencias {
		titulo := strings.TrimSpace(rr.Titulo)
		if titulo == "" {
			continue
		}
		ref, err := a.findOrCreateReference(dbc, titulo, rr)
		if err != nil {
			return err
		}
		if err := a.refRepo.LinkPlant(dbc, plantID, ref.ID); err != nil {
			return err
		}
	}
	return nil
}

func (a *PlantAggregate) findOrCreateReference(dbc dbctx.Context, titulo string, in ReferenceInput) (*domain.Referencia, error) {
	link := strings.TrimSpace(in.Link)
	if link != "" {
		if ref, err := a.refRepo.FindByLink(dbc, link); err == nil {
			return ref, nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	ref := &domain.Referencia{Titulo: titulo, AnoPublicacao: in.AnoPublicacao}
	if link != "" {
		ref.Link = &link
	}
	if err := a.refRepo.Create(dbc, ref); err != nil {
		return nil, err
	}

	var authorIDs []uint
	for _, au := range in.Autores {
		if strings.TrimSpace(au.Nome) == "" {
			continue
		}
		author, err := a.authorRepo.FindOrCreate(dbc, au.Nome)
		if err != nil {
			return nil, err
		}
		var affIDs []uint
		for _, af := range au.Afiliacoes {
			if strings.TrimSpace(af.Nome) == "" {
				continue
			}
			aff, err := a.affRepo.FindOrCreate(dbc, af.Nome, af.Sigla)
			if err != nil {
				return nil, err
			}
			affIDs = append(affIDs, aff.ID)
		}
		if len(affIDs) > 0 {
			existing, err := a.authorRepo.Affiliations(dbc, author.ID)
			if err != nil {
				return nil, err
			}
			for _, e := range existing {
				affIDs = append(affIDs, e.ID)
			}
			if err := a.authorRepo.ReplaceAffiliations(dbc, author.ID, affIDs); err != nil {
				return nil, err
			}
		}
		authorIDs = append(authorIDs, author.ID)
	}
	if len(authorIDs) > 0 {
		if err := a.refRepo.ReplaceAuthors(dbc, ref.ID, authorIDs); err != nil {
			return nil, err
		}
	}
	return ref, nil
}
