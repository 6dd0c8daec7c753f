package refs

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mzflora/plantario-backend/internal/domain"
	"github.com/mzflora/plantario-backend/internal/platform/dbctx"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
)

type AffiliationRepo interface {
	List(dbc dbctx.Context) ([]domain.Afiliacao, error)
	GetByID(dbc dbctx.Context, id uint) (*domain.Afiliacao, error)
	FindOrCreate(dbc dbctx.Context, nome, sigla string) (*domain.Afiliacao, error)
	Update(dbc dbctx.Context, id uint, nome, sigla string) error
	Delete(dbc dbctx.Context, id uint) error
	CountAuthors(dbc dbctx.Context, affiliationID uint) (int64, error)
}

type affiliationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAffiliationRepo(db *gorm.DB, baseLog *logger.Logger) AffiliationRepo {
	return &affiliationRepo{db: db, log: baseLog.With("repo", "affiliation")}
}

func (r *affiliationRepo) handle(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *affiliationRepo) List(dbc dbctx.Context) ([]domain.Afiliacao, error) {
	var out []domain.Afiliacao
	if err := r.handle(dbc).Order("nome_afiliacao ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list affiliations: %w", err)
	}
	return out, nil
}

func (r *affiliationRepo) GetByID(dbc dbctx.Context, id uint) (*domain.Afiliacao, error) {
	var a domain.Afiliacao
	if err := r.handle(dbc).First(&a, "id_afiliacao = ?", id).Error; err != nil {
		return nil, fmt.Errorf("get affiliation %d: %w", id, err)
	}
	return &a, nil
}

func (r *affiliationRepo) FindOrCreate(dbc dbctx.Context, nome, sigla string) (*domain.Afiliacao, error) {
	nome = strings.TrimSpace(nome)
	h := r.handle(dbc)

	var a domain.Afiliacao
	err := h.Where("LOWER(nome_afiliacao) = LOWER(?)", nome).First(&a).Error
	if err == nil {
		return &a, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup affiliation: %w", err)
	}

	a = domain.Afiliacao{Nome: nome, Sigla: strings.TrimSpace(sigla)}
	if err := h.Create(&a).Error; err != nil {
		return nil, fmt.Errorf("create affiliation: %w", err)
	}
	return &a, nil
}

func (r *affiliationRepo) Update(dbc dbctx.Context, id uint, nome, sigla string) error {
	res := r.handle(dbc).Model(&domain.Afiliacao{}).
		Where("id_afiliacao = ?", id).
		Updates(map[string]any{
			"nome_afiliacao":  strings.TrimSpace(nome),
			"sigla_afiliacao": strings.TrimSpace(sigla),
		})
	if res.Error != nil {
		return fmt.Errorf("update affiliation %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *affiliationRepo) Delete(dbc dbctx.Context, id uint) error {
	res := r.handle(dbc).Delete(&domain.Afiliacao{}, "id_afiliacao = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete affiliation %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *affiliationRepo) CountAuthors(dbc dbctx.Context, affiliationID uint) (int64, error) {
	var n int64
	err := r.handle(dbc).Model(&domain.AutorAfiliacao{}).
		Where("id_afiliacao = ?", affiliationID).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count authors of affiliation %d: %w", affiliationID, err)
	}
	return n, nil
}
