package usage

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mzflora/plantario-backend/internal/domain"
	"github.com/mzflora/plantario-backend/internal/platform/dbctx"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
)

type IndicationRepo interface {
	List(dbc dbctx.Context) ([]domain.Indicacao, error)
	FindOrCreate(dbc dbctx.Context, descricao string) (*domain.Indicacao, error)
	ListByPart(dbc dbctx.Context, partID uint) ([]string, error)
	LinkPart(dbc dbctx.Context, partID, usoID uint) error
	UnlinkPart(dbc dbctx.Context, partID uint) error
	CountAll(dbc dbctx.Context) (int64, error)
	TopIndications(dbc dbctx.Context, limit int) ([]IndicationCount, error)
}

type IndicationCount struct {
	DescricaoUso string `json:"descricao_uso"`
	Total        int64  `json:"total"`
}

type indicationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIndicationRepo(db *gorm.DB, baseLog *logger.Logger) IndicationRepo {
	return &indicationRepo{db: db, log: baseLog.With("repo", "indication")}
}

func (r *indicationRepo) handle(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *indicationRepo) List(dbc dbctx.Context) ([]domain.Indicacao, error) {
	var out []domain.Indicacao
	if err := r.handle(dbc).Order("descricao_uso ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list indications: %w", err)
	}
	return out, nil
}

func (r *indicationRepo) FindOrCreate(dbc dbctx.Context, descricao string) (*domain.Indicacao, error) {
	descricao = strings.TrimSpace(descricao)
	h := r.handle(dbc)

	var ind domain.Indicacao
	err := h.Where("LOWER(descricao_uso) = LOWER(?)", descricao).First(&ind).Error
	if err == nil {
		return &ind, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup indication: %w", err)
	}

	ind = domain.Indicacao{DescricaoUso: descricao}
	if err := h.Create(&ind).Error; err != nil {
		return nil, fmt.Errorf("create indication: %w", err)
	}
	return &ind, nil
}

func (r *indicationRepo) ListByPart(dbc dbctx.Context, partID uint) ([]string, error) {
	var out []string
	err := r.handle(dbc).Model(&domain.ParteIndicacao{}).
		Joins("JOIN indicacao ON indicacao.id_uso = parte_indicacao.id_uso").
		Where("parte_indicacao.id_parte = ?", partID).
		Order("indicacao.id_uso ASC").
		Pluck("indicacao.descricao_uso", &out).Error
	if err != nil {
		return nil, fmt.Errorf("indications of part %d: %w", partID, err)
	}
	return out, nil
}

func (r *indicationRepo) LinkPart(dbc dbctx.Context, partID, usoID uint) error {
	link := domain.ParteIndicacao{ParteID: partID, UsoID: usoID}
	err := r.handle(dbc).
		Where("id_parte = ? AND id_uso = ?", partID, usoID).
		FirstOrCreate(&link).Error
	if err != nil {
		return fmt.Errorf("link part %d to indication %d: %w", partID, usoID, err)
	}
	return nil
}

func (r *indicationRepo) UnlinkPart(dbc dbctx.Context, partID uint) error {
	if err := r.handle(dbc).Where("id_parte = ?", partID).Delete(&domain.ParteIndicacao{}).Error; err != nil {
		return fmt.Errorf("unlink indications for part %d: %w", partID, err)
	}
	return nil
}

func (r *indicationRepo) CountAll(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := r.handle(dbc).Model(&domain.Indicacao{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count indications: %w", err)
	}
	return n, nil
}

func (r *indicationRepo) TopIndications(dbc dbctx.Context, limit int) ([]IndicationCount, error) {
	var out []IndicationCount
	err := r.handle(dbc).Model(&domain.ParteIndicacao{}).
		Select("indicacao.descricao_uso, COUNT(*) AS total").
		Joins("JOIN indicacao ON indicacao.id_uso = parte_indicacao.id_uso").
		Group("indicacao.descricao_uso").
		Order("total DESC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("top indications: %w", err)
	}
	return out, nil
}
