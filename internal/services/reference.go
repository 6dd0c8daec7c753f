package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mzflora/plantario-backend/internal/data/aggregates"
	"github.com/mzflora/plantario-backend/internal/data/repos/refs"
	"github.com/mzflora/plantario-backend/internal/domain"
	"github.com/mzflora/plantario-backend/internal/plantdoc"
	"github.com/mzflora/plantario-backend/internal/platform/apierr"
	"github.com/mzflora/plantario-backend/internal/platform/dbctx"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
)

// ReferenceListItem is a reference with the number of plants citing it,
// for the admin listing.
type ReferenceListItem struct {
	plantdoc.ReferenceEntry
	TotalPlantas int64 `json:"total_plantas"`
}

type ReferencePage struct {
	Referencias []ReferenceListItem `json:"referencias"`
	Total       int64               `json:"total"`
	Page        int                 `json:"page"`
	PerPage     int                 `json:"per_page"`
}

type ReferenceWrite struct {
	Titulo        string `json:"titulo_referencia"`
	Link          string `json:"link_referencia"`
	AnoPublicacao *int   `json:"ano_publicacao"`
	AutorIDs      []uint `json:"autores"`
}

type ReferenceService interface {
	List(ctx context.Context, search string, page, perPage int) (*ReferencePage, error)
	Get(ctx context.Context, id uint) (*ReferenceListItem, error)
	Create(ctx context.Context, in ReferenceWrite, actor *Actor) (*ReferenceListItem, error)
	Update(ctx context.Context, id uint, in ReferenceWrite, actor *Actor) (*ReferenceListItem, error)
	Delete(ctx context.Context, id uint, actor *Actor) error
}

type referenceService struct {
	tx         aggregates.TxRunner
	refRepo    refs.ReferenceRepo
	authorRepo refs.AuthorRepo
	audit      *AuditRecorder
	log        *logger.Logger
}

func NewReferenceService(tx aggregates.TxRunner, refRepo refs.ReferenceRepo, authorRepo refs.AuthorRepo, audit *AuditRecorder, baseLog *logger.Logger) ReferenceService {
	return &referenceService{
		tx:         tx,
		refRepo:    refRepo,
		authorRepo: authorRepo,
		audit:      audit,
		log:        baseLog.With("service", "reference"),
	}
}

func (s *referenceService) item(dbc dbctx.Context, ref *domain.Referencia) (ReferenceListItem, error) {
	authors, err := s.refRepo.AuthorsByReference(dbc, ref.ID)
	if err != nil {
		return ReferenceListItem{}, err
	}
	src := plantdoc.ReferenceSource{Ref: *ref}
	for _, au := range authors {
		affs, err := s.authorRepo.Affiliations(dbc, au.ID)
		if err != nil {
			affs = nil
		}
		src.Autores = append(src.Autores, plantdoc.AuthorSource{Autor: au, Afiliacoes: affs})
	}
	doc := plantdoc.Assemble(&domain.Planta{}, nil, nil, nil, []plantdoc.ReferenceSource{src}, nil)
	item := ReferenceListItem{ReferenceEntry: doc.Referencias[0]}
	if item.TotalPlantas, err = s.refRepo.CountPlants(dbc, ref.ID); err != nil {
		return item, err
	}
	return item, nil
}

func (s *referenceService) List(ctx context.Context, search string, page, perPage int) (*ReferencePage, error) {
	dbc := dbctx.Context{Ctx: ctx}
	rows, total, err := s.refRepo.List(dbc, search, (page-1)*perPage, perPage)
	if err != nil {
		return nil, aggregates.MapError("reference.list", err)
	}
	out := &ReferencePage{
		Referencias: make([]ReferenceListItem, 0, len(rows)),
		Total:       total,
		Page:        page,
		PerPage:     perPage,
	}
	for i := range rows {
		e, err := s.item(dbc, &rows[i])
		if err != nil {
			return nil, aggregates.MapError("reference.list", err)
		}
		out.Referencias = append(out.Referencias, e)
	}
	return out, nil
}

func (s *referenceService) Get(ctx context.Context, id uint) (*ReferenceListItem, error) {
	dbc := dbctx.Context{Ctx: ctx}
	ref, err := s.refRepo.GetByID(dbc, id)
	if err != nil {
		return nil, aggregates.MapError("reference.get", err)
	}
	e, err := s.item(dbc, ref)
	if err != nil {
		return nil, aggregates.MapError("reference.get", err)
	}
	return &e, nil
}

func (s *referenceService) validate(in *ReferenceWrite) error {
	in.Titulo = strings.TrimSpace(in.Titulo)
	in.Link = strings.TrimSpace(in.Link)
	if in.Titulo == "" {
		return apierr.Validation("missing_titulo", "titulo_referencia é obrigatório")
	}
	if len(in.Titulo) > 255 {
		return apierr.Validation("titulo_too_long", "titulo_referencia excede 255 caracteres")
	}
	if in.AnoPublicacao != nil && (*in.AnoPublicacao < 1900 || *in.AnoPublicacao > time.Now().Year()+1) {
		return apierr.Validation("invalid_ano", "ano de publicação inválido")
	}
	return nil
}

func (s *referenceService) Create(ctx context.Context, in ReferenceWrite, actor *Actor) (*ReferenceListItem, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}
	var id uint
	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		if err := s.checkAuthors(dbc, in.AutorIDs); err != nil {
			return err
		}
		ref := &domain.Referencia{Titulo: in.Titulo, AnoPublicacao: in.AnoPublicacao}
		if in.Link != "" {
			link := in.Link
			ref.Link = &link
		}
		if err := s.refRepo.Create(dbc, ref); err != nil {
			return err
		}
		if len(in.AutorIDs) > 0 {
			if err := s.refRepo.ReplaceAuthors(dbc, ref.ID, in.AutorIDs); err != nil {
				return err
			}
		}
		id = ref.ID
		return nil
	})
	if err != nil {
		return nil, aggregates.MapError("reference.create", err)
	}
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, "criar_referencia", "referencia", id, nil, snapshot(e))
	return e, nil
}

func (s *referenceService) Update(ctx context.Context, id uint, in ReferenceWrite, actor *Actor) (*ReferenceListItem, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}
	before, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	err = s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		if err := s.checkAuthors(dbc, in.AutorIDs); err != nil {
			return err
		}
		ref := &domain.Referencia{ID: id, Titulo: in.Titulo, AnoPublicacao: in.AnoPublicacao}
		if in.Link != "" {
			link := in.Link
			ref.Link = &link
		}
		if err := s.refRepo.Update(dbc, ref); err != nil {
			return err
		}
		return s.refRepo.ReplaceAuthors(dbc, id, in.AutorIDs)
	})
	if err != nil {
		return nil, aggregates.MapError("reference.update", err)
	}
	after, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, "editar_referencia", "referencia", id, snapshot(before), snapshot(after))
	return after, nil
}

// Delete refuses while plants still cite the reference.
func (s *referenceService) Delete(ctx context.Context, id uint, actor *Actor) error {
	dbc := dbctx.Context{Ctx: ctx}
	before, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	n, err := s.refRepo.CountPlants(dbc, id)
	if err != nil {
		return aggregates.MapError("reference.delete", err)
	}
	if n > 0 {
		return apierr.Conflict("reference_in_use",
			fmt.Sprintf("referência está vinculada a %d planta(s)", n))
	}
	if err := s.refRepo.Delete(dbc, id); err != nil {
		return aggregates.MapError("reference.delete", err)
	}
	s.audit.Record(ctx, actor, "remover_referencia", "referencia", id, snapshot(before), nil)
	return nil
}

func (s *referenceService) checkAuthors(dbc dbctx.Context, ids []uint) error {
	for _, authorID := range ids {
		if _, err := s.authorRepo.GetByID(dbc, authorID); err != nil {
			return apierr.Validation("unknown_autor", fmt.Sprintf("autor %d inexistente", authorID))
		}
	}
	return nil
}
