package plants

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mzflora/plantario-backend/internal/domain"
	"github.com/mzflora/plantario-backend/internal/platform/dbctx"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
)

type CommonNameRepo interface {
	ListByPlant(dbc dbctx.Context, plantID uint) ([]domain.NomeComum, error)
	ReplaceForPlant(dbc dbctx.Context, plantID uint, names []string) error
	DeleteByPlant(dbc dbctx.Context, plantID uint) error
	CountAll(dbc dbctx.Context) (int64, error)
	SearchByPrefix(dbc dbctx.Context, prefix string, limit int) ([]string, error)
}

type commonNameRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommonNameRepo(db *gorm.DB, baseLog *logger.Logger) CommonNameRepo {
	return &commonNameRepo{db: db, log: baseLog.With("repo", "common_name")}
}

func (r *commonNameRepo) handle(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *commonNameRepo) ListByPlant(dbc dbctx.Context, plantID uint) ([]domain.NomeComum, error) {
	var out []domain.NomeComum
	err := r.handle(dbc).
		Where("id_planta = ?", plantID).
		Order("id_nome ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list common names for plant %d: %w", plantID, err)
	}
	return out, nil
}

// ReplaceForPlant swaps the whole common-name set of a plant. Names are
// trimmed and deduplicated case-insensitively, keeping first spelling.
func (r *commonNameRepo) ReplaceForPlant(dbc dbctx.Context, plantID uint, names []string) error {
	h := r.handle(dbc)
	if err := h.Where("id_planta = ?", plantID).Delete(&domain.NomeComum{}).Error; err != nil {
		return fmt.Errorf("clear common names for plant %d: %w", plantID, err)
	}
	seen := make(map[string]struct{}, len(names))
	rows := make([]domain.NomeComum, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		key := strings.ToLower(n)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		rows = append(rows, domain.NomeComum{Nome: n, PlantaID: plantID})
	}
	if len(rows) == 0 {
		return nil
	}
	if err := h.Create(&rows).Error; err != nil {
		return fmt.Errorf("insert common names for plant %d: %w", plantID, err)
	}
	return nil
}

func (r *commonNameRepo) DeleteByPlant(dbc dbctx.Context, plantID uint) error {
	if err := r.handle(dbc).Where("id_planta = ?", plantID).Delete(&domain.NomeComum{}).Error; err != nil {
		return fmt.Errorf("delete common names for plant %d: %w", plantID, err)
	}
	return nil
}

func (r *commonNameRepo) CountAll(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := r.handle(dbc).Model(&domain.NomeComum{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count common names: %w", err)
	}
	return n, nil
}

func (r *commonNameRepo) SearchByPrefix(dbc dbctx.Context, prefix string, limit int) ([]string, error) {
	var out []string
	err := r.handle(dbc).Model(&domain.NomeComum{}).
		Distinct("nome").
		Where("LOWER(nome) LIKE ?", strings.ToLower(prefix)+"%").
		Order("nome ASC").
		Limit(limit).
		Pluck("nome", &out).Error
	if err != nil {
		return nil, fmt.Errorf("autocomplete common names: %w", err)
	}
	return out, nil
}
