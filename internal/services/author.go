package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/mzflora/plantario-backend/internal/data/aggregates"
	"github.com/mzflora/plantario-backend/internal/data/repos/refs"
	"github.com/mzflora/plantario-backend/internal/domain"
	"github.com/mzflora/plantario-backend/internal/plantdoc"
	"github.com/mzflora/plantario-backend/internal/platform/apierr"
	"github.com/mzflora/plantario-backend/internal/platform/dbctx"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
)

// AuthorListItem is an author with usage totals for the admin listing.
type AuthorListItem struct {
	plantdoc.AuthorEntry
	TotalPlantas     int64 `json:"total_plantas"`
	TotalReferencias int64 `json:"total_referencias"`
}

// AuthorDetail adds the author's newest references to the list item.
type AuthorDetail struct {
	AuthorListItem
	ReferenciasRecentes []domain.Referencia `json:"referencias_recentes"`
}

type AuthorPage struct {
	Autores []AuthorListItem `json:"autores"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	PerPage int              `json:"per_page"`
}

type AuthorService interface {
	List(ctx context.Context, search string, page, perPage int) (*AuthorPage, error)
	Get(ctx context.Context, id uint) (*AuthorDetail, error)
	Create(ctx context.Context, nome string, affiliationIDs []uint, actor *Actor) (*AuthorDetail, error)
	Update(ctx context.Context, id uint, nome string, affiliationIDs []uint, actor *Actor) (*AuthorDetail, error)
	Delete(ctx context.Context, id uint, actor *Actor) error
	AttachAffiliation(ctx context.Context, id, affiliationID uint, actor *Actor) (*AuthorDetail, error)
	DetachAffiliation(ctx context.Context, id, affiliationID uint, actor *Actor) (*AuthorDetail, error)
}

type authorService struct {
	tx         aggregates.TxRunner
	authorRepo refs.AuthorRepo
	affRepo    refs.AffiliationRepo
	audit      *AuditRecorder
	log        *logger.Logger
}

func NewAuthorService(tx aggregates.TxRunner, authorRepo refs.AuthorRepo, affRepo refs.AffiliationRepo, audit *AuditRecorder, baseLog *logger.Logger) AuthorService {
	return &authorService{
		tx:         tx,
		authorRepo: authorRepo,
		affRepo:    affRepo,
		audit:      audit,
		log:        baseLog.With("service", "author"),
	}
}

func (s *authorService) entry(dbc dbctx.Context, id uint) (*plantdoc.AuthorEntry, error) {
	author, err := s.authorRepo.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	affs, err := s.authorRepo.Affiliations(dbc, id)
	if err != nil {
		return nil, err
	}
	e := plantdoc.NewAuthorEntry(plantdoc.AuthorSource{Autor: *author, Afiliacoes: affs})
	return &e, nil
}

func (s *authorService) item(dbc dbctx.Context, e plantdoc.AuthorEntry) (AuthorListItem, error) {
	item := AuthorListItem{AuthorEntry: e}
	var err error
	if item.TotalReferencias, err = s.authorRepo.CountReferences(dbc, e.IDAutor); err != nil {
		return item, err
	}
	if item.TotalPlantas, err = s.authorRepo.CountPlants(dbc, e.IDAutor); err != nil {
		return item, err
	}
	return item, nil
}

func (s *authorService) List(ctx context.Context, search string, page, perPage int) (*AuthorPage, error) {
	dbc := dbctx.Context{Ctx: ctx}
	rows, total, err := s.authorRepo.List(dbc, search, (page-1)*perPage, perPage)
	if err != nil {
		return nil, aggregates.MapError("author.list", err)
	}
	out := &AuthorPage{
		Autores: make([]AuthorListItem, 0, len(rows)),
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}
	for _, a := range rows {
		affs, err := s.authorRepo.Affiliations(dbc, a.ID)
		if err != nil {
			affs = nil
		}
		item, err := s.item(dbc, plantdoc.NewAuthorEntry(plantdoc.AuthorSource{Autor: a, Afiliacoes: affs}))
		if err != nil {
			return nil, aggregates.MapError("author.list", err)
		}
		out.Autores = append(out.Autores, item)
	}
	return out, nil
}

func (s *authorService) Get(ctx context.Context, id uint) (*AuthorDetail, error) {
	dbc := dbctx.Context{Ctx: ctx}
	e, err := s.entry(dbc, id)
	if err != nil {
		return nil, aggregates.MapError("author.get", err)
	}
	item, err := s.item(dbc, *e)
	if err != nil {
		return nil, aggregates.MapError("author.get", err)
	}
	recents, err := s.authorRepo.RecentReferences(dbc, id, 10)
	if err != nil {
		return nil, aggregates.MapError("author.get", err)
	}
	if recents == nil {
		recents = []domain.Referencia{}
	}
	return &AuthorDetail{AuthorListItem: item, ReferenciasRecentes: recents}, nil
}

func (s *authorService) Create(ctx context.Context, nome string, affiliationIDs []uint, actor *Actor) (*AuthorDetail, error) {
	nome = strings.TrimSpace(nome)
	if nome == "" {
		return nil, apierr.Validation("missing_nome_autor", "nome_autor é obrigatório")
	}
	var id uint
	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		if err := s.checkAffiliations(dbc, affiliationIDs); err != nil {
			return err
		}
		author, err := s.authorRepo.FindOrCreate(dbc, nome)
		if err != nil {
			return err
		}
		if len(affiliationIDs) > 0 {
			if err := s.authorRepo.ReplaceAffiliations(dbc, author.ID, affiliationIDs); err != nil {
				return err
			}
		}
		id = author.ID
		return nil
	})
	if err != nil {
		return nil, aggregates.MapError("author.create", err)
	}
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, "criar_autor", "autor", id, nil, snapshot(e))
	return e, nil
}

func (s *authorService) Update(ctx context.Context, id uint, nome string, affiliationIDs []uint, actor *Actor) (*AuthorDetail, error) {
	nome = strings.TrimSpace(nome)
	if nome == "" {
		return nil, apierr.Validation("missing_nome_autor", "nome_autor é obrigatório")
	}
	before, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing, err := s.authorRepo.GetByName(dbctx.Context{Ctx: ctx}, nome); err == nil && existing.ID != id {
		return nil, apierr.Conflict("duplicate_autor", "já existe autor com esse nome")
	}
	err = s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		if err := s.checkAffiliations(dbc, affiliationIDs); err != nil {
			return err
		}
		if err := s.authorRepo.UpdateName(dbc, id, nome); err != nil {
			return err
		}
		return s.authorRepo.ReplaceAffiliations(dbc, id, affiliationIDs)
	})
	if err != nil {
		return nil, aggregates.MapError("author.update", err)
	}
	after, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, "editar_autor", "autor", id, snapshot(before), snapshot(after))
	return after, nil
}

// Delete refuses while the author is still linked to references, and
// reports how many in the error message.
func (s *authorService) Delete(ctx context.Context, id uint, actor *Actor) error {
	dbc := dbctx.Context{Ctx: ctx}
	before, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	n, err := s.authorRepo.CountReferences(dbc, id)
	if err != nil {
		return aggregates.MapError("author.delete", err)
	}
	if n > 0 {
		return apierr.Conflict("author_in_use",
			fmt.Sprintf("autor está vinculado a %d referência(s)", n))
	}
	if err := s.authorRepo.Delete(dbc, id); err != nil {
		return aggregates.MapError("author.delete", err)
	}
	s.audit.Record(ctx, actor, "remover_autor", "autor", id, snapshot(before), nil)
	return nil
}

// AttachAffiliation links one affiliation to the author. Linking twice
// is a conflict, not an idempotent no-op, matching the admin UI's
// expectation of an explicit warning.
func (s *authorService) AttachAffiliation(ctx context.Context, id, affiliationID uint, actor *Actor) (*AuthorDetail, error) {
	dbc := dbctx.Context{Ctx: ctx}
	if _, err := s.authorRepo.GetByID(dbc, id); err != nil {
		return nil, aggregates.MapError("author.attach_affiliation", err)
	}
	if _, err := s.affRepo.GetByID(dbc, affiliationID); err != nil {
		return nil, aggregates.MapError("author.attach_affiliation", err)
	}
	linked, err := s.authorRepo.HasAffiliation(dbc, id, affiliationID)
	if err != nil {
		return nil, aggregates.MapError("author.attach_affiliation", err)
	}
	if linked {
		return nil, apierr.Conflict("afiliacao_already_attached", "autor já tem essa afiliação")
	}
	if err := s.authorRepo.AddAffiliation(dbc, id, affiliationID); err != nil {
		return nil, aggregates.MapError("author.attach_affiliation", err)
	}
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, "vincular_afiliacao", "autor", id, nil, snapshot(e))
	return e, nil
}

func (s *authorService) DetachAffiliation(ctx context.Context, id, affiliationID uint, actor *Actor) (*AuthorDetail, error) {
	dbc := dbctx.Context{Ctx: ctx}
	before, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorRepo.RemoveAffiliation(dbc, id, affiliationID); err != nil {
		if apierr.StatusOf(aggregates.MapError("author.detach_affiliation", err)) == 404 {
			return nil, apierr.NotFound("afiliacao_not_attached", "autor não tem essa afiliação")
		}
		return nil, aggregates.MapError("author.detach_affiliation", err)
	}
	after, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, "desvincular_afiliacao", "autor", id, snapshot(before), snapshot(after))
	return after, nil
}

func (s *authorService) checkAffiliations(dbc dbctx.Context, ids []uint) error {
	for _, affID := range ids {
		if _, err := s.affRepo.GetByID(dbc, affID); err != nil {
			return apierr.Validation("unknown_afiliacao", fmt.Sprintf("afiliação %d inexistente", affID))
		}
	}
	return nil
}
