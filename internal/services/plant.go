package services

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/mzflora/plantario-backend/internal/data/aggregates"
	"github.com/mzflora/plantario-backend/internal/data/repos/locations"
	"github.com/mzflora/plantario-backend/internal/data/repos/logs"
	"github.com/mzflora/plantario-backend/internal/data/repos/plants"
	"github.com/mzflora/plantario-backend/internal/data/repos/refs"
	"github.com/mzflora/plantario-backend/internal/data/repos/usage"
	"github.com/mzflora/plantario-backend/internal/domain"
	"github.com/mzflora/plantario-backend/internal/plantdoc"
	"github.com/mzflora/plantario-backend/internal/platform/dbctx"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
)

// PlantPage is one page of the plant listing.
type PlantPage struct {
	Plantas []plantdoc.Summary `json:"plantas"`
	Total   int64              `json:"total"`
	Page    int                `json:"page"`
	PerPage int                `json:"per_page"`
}

type PlantService interface {
	List(ctx context.Context, f plants.ListFilter, page int) (*PlantPage, error)
	GetDocument(ctx context.Context, id uint) (*plantdoc.Document, error)
	ViewDocument(ctx context.Context, id uint) (*plantdoc.Document, error)
	GetDocumentByName(ctx context.Context, nomeCientifico string) (*plantdoc.Document, error)
	Create(ctx context.Context, in aggregates.PlantInput, actor *Actor) (*plantdoc.Document, error)
	Update(ctx context.Context, id uint, in aggregates.PlantUpdate, actor *Actor) (*plantdoc.Document, error)
	Delete(ctx context.Context, id uint, actor *Actor) error
}

type plantService struct {
	agg        *aggregates.PlantAggregate
	plantRepo  plants.PlantRepo
	nameRepo   plants.CommonNameRepo
	imageRepo  plants.ImageRepo
	siteRepo   locations.SiteRepo
	partRepo   usage.PartRepo
	indRepo    usage.IndicationRepo
	methodRepo usage.MethodRepo
	refRepo    refs.ReferenceRepo
	authorRepo refs.AuthorRepo
	logRepo    logs.SearchLogRepo
	audit      *AuditRecorder
	uploadRoot string
	log        *logger.Logger
}

func NewPlantService(
	agg *aggregates.PlantAggregate,
	plantRepo plants.PlantRepo,
	nameRepo plants.CommonNameRepo,
	imageRepo plants.ImageRepo,
	siteRepo locations.SiteRepo,
	partRepo usage.PartRepo,
	indRepo usage.IndicationRepo,
	methodRepo usage.MethodRepo,
	refRepo refs.ReferenceRepo,
	authorRepo refs.AuthorRepo,
	logRepo logs.SearchLogRepo,
	audit *AuditRecorder,
	uploadRoot string,
	baseLog *logger.Logger,
) PlantService {
	return &plantService{
		agg:        agg,
		plantRepo:  plantRepo,
		nameRepo:   nameRepo,
		imageRepo:  imageRepo,
		siteRepo:   siteRepo,
		partRepo:   partRepo,
		indRepo:    indRepo,
		methodRepo: methodRepo,
		refRepo:    refRepo,
		authorRepo: authorRepo,
		logRepo:    logRepo,
		audit:      audit,
		uploadRoot: uploadRoot,
		log:        baseLog.With("service", "plant"),
	}
}

func (s *plantService) List(ctx context.Context, f plants.ListFilter, page int) (*PlantPage, error) {
	dbc := dbctx.Context{Ctx: ctx}
	rows, total, err := s.plantRepo.List(dbc, f)
	if err != nil {
		return nil, aggregates.MapError("plant.list", err)
	}
	out := &PlantPage{
		Plantas: make([]plantdoc.Summary, 0, len(rows)),
		Total:   total,
		Page:    page,
		PerPage: f.Limit,
	}
	for i := range rows {
		out.Plantas = append(out.Plantas, plantdoc.NewSummary(&rows[i]))
	}
	return out, nil
}

func (s *plantService) GetDocument(ctx context.Context, id uint) (*plantdoc.Document, error) {
	dbc := dbctx.Context{Ctx: ctx}
	p, err := s.plantRepo.GetByID(dbc, id)
	if err != nil {
		return nil, aggregates.MapError("plant.get", err)
	}
	return s.assemble(dbc, p)
}

// ViewDocument is GetDocument plus a detail-view log entry. The public
// detail endpoint uses it; internal reads (update/delete snapshots,
// placeholder rendering) go through GetDocument and stay out of the log.
func (s *plantService) ViewDocument(ctx context.Context, id uint) (*plantdoc.Document, error) {
	dbc := dbctx.Context{Ctx: ctx}
	p, err := s.plantRepo.GetByID(dbc, id)
	if err != nil {
		return nil, aggregates.MapError("plant.get", err)
	}
	s.logView(dbc, p)
	return s.assemble(dbc, p)
}

// logView records a detail-page hit. Best-effort, same as search logs.
func (s *plantService) logView(dbc dbctx.Context, p *domain.Planta) {
	entry := &domain.LogPesquisa{
		TermoPesquisa:         p.NomeCientifico,
		TipoPesquisa:          "visualizacao_detalhes",
		ResultadosEncontrados: 1,
	}
	if err := s.logRepo.Insert(dbc, entry); err != nil {
		s.log.Warn("view log insert failed", "id_planta", p.ID, "error", err)
	}
}

func (s *plantService) GetDocumentByName(ctx context.Context, nomeCientifico string) (*plantdoc.Document, error) {
	dbc := dbctx.Context{Ctx: ctx}
	p, err := s.plantRepo.GetByScientificName(dbc, nomeCientifico)
	if err != nil {
		return nil, aggregates.MapError("plant.get_by_name", err)
	}
	return s.assemble(dbc, p)
}

// assemble loads the plant's relation graph and builds the document.
// Relation loads are part of the read: a failure fails the request
// instead of silently dropping a collection.
func (s *plantService) assemble(dbc dbctx.Context, p *domain.Planta) (*plantdoc.Document, error) {
	names, err := s.nameRepo.ListByPlant(dbc, p.ID)
	if err != nil {
		return nil, aggregates.MapError("plant.assemble.names", err)
	}
	sites, err := s.siteRepo.ListByPlant(dbc, p.ID)
	if err != nil {
		return nil, aggregates.MapError("plant.assemble.sites", err)
	}
	images, err := s.imageRepo.ListByPlant(dbc, p.ID)
	if err != nil {
		return nil, aggregates.MapError("plant.assemble.images", err)
	}

	var partSources []plantdoc.PartSource
	partIDs, err := s.partRepo.PartIDsByPlant(dbc, p.ID)
	if err != nil {
		return nil, aggregates.MapError("plant.assemble.parts", err)
	}
	for _, partID := range partIDs {
		part, err := s.partRepo.GetByID(dbc, partID)
		if err != nil {
			return nil, aggregates.MapError("plant.assemble.part", err)
		}
		// Per-part text lookups degrade to empty lists so one broken
		// join table does not take the whole document down.
		inds, err := s.indRepo.ListByPart(dbc, partID)
		if err != nil {
			s.log.Warn("indications load failed", "id_parte", partID, "error", err)
			inds = nil
		}
		preps, err := s.methodRepo.PreparationsByPart(dbc, partID)
		if err != nil {
			s.log.Warn("preparation methods load failed", "id_parte", partID, "error", err)
			preps = nil
		}
		exts, err := s.methodRepo.ExtractionsByPart(dbc, partID)
		if err != nil {
			s.log.Warn("extraction methods load failed", "id_parte", partID, "error", err)
			exts = nil
		}
		partSources = append(partSources, plantdoc.PartSource{
			Part:              *part,
			Indicacoes:        inds,
			MetodosPreparacao: preps,
			MetodosExtracao:   exts,
		})
	}

	var refSources []plantdoc.ReferenceSource
	references, err := s.refRepo.ReferencesByPlant(dbc, p.ID)
	if err != nil {
		return nil, aggregates.MapError("plant.assemble.references", err)
	}
	for _, ref := range references {
		authors, err := s.refRepo.AuthorsByReference(dbc, ref.ID)
		if err != nil {
			return nil, aggregates.MapError("plant.assemble.authors", err)
		}
		var authorSources []plantdoc.AuthorSource
		for _, au := range authors {
			affs, err := s.authorRepo.Affiliations(dbc, au.ID)
			if err != nil {
				return nil, aggregates.MapError("plant.assemble.affiliations", err)
			}
			authorSources = append(authorSources, plantdoc.AuthorSource{Autor: au, Afiliacoes: affs})
		}
		refSources = append(refSources, plantdoc.ReferenceSource{Ref: ref, Autores: authorSources})
	}

	return plantdoc.Assemble(p, names, sites, partSources, refSources, images), nil
}

func (s *plantService) Create(ctx context.Context, in aggregates.PlantInput, actor *Actor) (*plantdoc.Document, error) {
	p, err := s.agg.CreateFull(ctx, in)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, "criar_planta", "planta_medicinal", p.ID, nil, snapshot(in))
	return s.GetDocument(ctx, p.ID)
}

func (s *plantService) Update(ctx context.Context, id uint, in aggregates.PlantUpdate, actor *Actor) (*plantdoc.Document, error) {
	before, err := s.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.agg.Update(ctx, id, in); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, "editar_planta", "planta_medicinal", id, snapshot(before), snapshot(in))
	return s.GetDocument(ctx, id)
}

func (s *plantService) Delete(ctx context.Context, id uint, actor *Actor) error {
	before, err := s.GetDocument(ctx, id)
	if err != nil {
		return err
	}
	urls, err := s.agg.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.audit.Record(ctx, actor, "remover_planta", "planta_medicinal", id, snapshot(before), nil)
	s.removeFiles(urls)
	return nil
}

// removeFiles is best-effort cleanup of stored image files after the
// plant rows are gone.
func (s *plantService) removeFiles(urls []string) {
	for _, u := range urls {
		rel := strings.TrimPrefix(u, "/uploads/plantas_imagens/")
		if rel == u || rel == "" {
			continue
		}
		path := filepath.Join(s.uploadRoot, filepath.FromSlash(rel))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.log.Warn("image file removal failed", "path", path, "error", err)
		}
	}
}

func snapshot(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return raw
}
