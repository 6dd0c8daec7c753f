package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/mzflora/plantario-backend/internal/data/aggregates"
	"github.com/mzflora/plantario-backend/internal/data/repos/refs"
	"github.com/mzflora/plantario-backend/internal/domain"
	"github.com/mzflora/plantario-backend/internal/platform/apierr"
	"github.com/mzflora/plantario-backend/internal/platform/dbctx"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
)

type AffiliationService interface {
	List(ctx context.Context) ([]domain.Afiliacao, error)
	Create(ctx context.Context, nome, sigla string, actor *Actor) (*domain.Afiliacao, error)
	Update(ctx context.Context, id uint, nome, sigla string, actor *Actor) (*domain.Afiliacao, error)
	Delete(ctx context.Context, id uint, actor *Actor) error
}

type affiliationService struct {
	affRepo refs.AffiliationRepo
	audit   *AuditRecorder
	log     *logger.Logger
}

func NewAffiliationService(affRepo refs.AffiliationRepo, audit *AuditRecorder, baseLog *logger.Logger) AffiliationService {
	return &affiliationService{
		affRepo: affRepo,
		audit:   audit,
		log:     baseLog.With("service", "affiliation"),
	}
}

func (s *affiliationService) List(ctx context.Context) ([]domain.Afiliacao, error) {
	out, err := s.affRepo.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, aggregates.MapError("affiliation.list", err)
	}
	if out == nil {
		out = []domain.Afiliacao{}
	}
	return out, nil
}

func (s *affiliationService) Create(ctx context.Context, nome, sigla string, actor *Actor) (*domain.Afiliacao, error) {
	if strings.TrimSpace(nome) == "" {
		return nil, apierr.Validation("missing_nome_afiliacao", "nome_afiliacao é obrigatório")
	}
	aff, err := s.affRepo.FindOrCreate(dbctx.Context{Ctx: ctx}, nome, sigla)
	if err != nil {
		return nil, aggregates.MapError("affiliation.create", err)
	}
	s.audit.Record(ctx, actor, "criar_afiliacao", "afiliacao", aff.ID, nil, snapshot(aff))
	return aff, nil
}

func (s *affiliationService) Update(ctx context.Context, id uint, nome, sigla string, actor *Actor) (*domain.Afiliacao, error) {
	if strings.TrimSpace(nome) == "" {
		return nil, apierr.Validation("missing_nome_afiliacao", "nome_afiliacao é obrigatório")
	}
	dbc := dbctx.Context{Ctx: ctx}
	before, err := s.affRepo.GetByID(dbc, id)
	if err != nil {
		return nil, aggregates.MapError("affiliation.update", err)
	}
	if err := s.affRepo.Update(dbc, id, nome, sigla); err != nil {
		return nil, aggregates.MapError("affiliation.update", err)
	}
	after, err := s.affRepo.GetByID(dbc, id)
	if err != nil {
		return nil, aggregates.MapError("affiliation.update", err)
	}
	s.audit.Record(ctx, actor, "editar_afiliacao", "afiliacao", id, snapshot(before), snapshot(after))
	return after, nil
}

func (s *affiliationService) Delete(ctx context.Context, id uint, actor *Actor) error {
	dbc := dbctx.Context{Ctx: ctx}
	before, err := s.affRepo.GetByID(dbc, id)
	if err != nil {
		return aggregates.MapError("affiliation.delete", err)
	}
	n, err := s.affRepo.CountAuthors(dbc, id)
	if err != nil {
		return aggregates.MapError("affiliation.delete", err)
	}
	if n > 0 {
		return apierr.Conflict("affiliation_in_use",
			fmt.Sprintf("afiliação está vinculada a %d autor(es)", n))
	}
	if err := s.affRepo.Delete(dbc, id); err != nil {
		return aggregates.MapError("affiliation.delete", err)
	}
	s.audit.Record(ctx, actor, "remover_afiliacao", "afiliacao", id, snapshot(before), nil)
	return nil
}
