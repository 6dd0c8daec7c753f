package logs

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/mzflora/plantario-backend/internal/domain"
	"github.com/mzflora/plantario-backend/internal/platform/dbctx"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
)

type TermCount struct {
	TermoPesquisa string `json:"termo_pesquisa"`
	Total         int64  `json:"total"`
}

type SearchLogRepo interface {
	Insert(dbc dbctx.Context, entry *domain.LogPesquisa) error
	CountAll(dbc dbctx.Context) (int64, error)
	CountSince(dbc dbctx.Context, days int) (int64, error)
	TopTerms(dbc dbctx.Context, limit int) ([]TermCount, error)
	Recent(dbc dbctx.Context, limit int) ([]domain.LogPesquisa, error)
}

type searchLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSearchLogRepo(db *gorm.DB, baseLog *logger.Logger) SearchLogRepo {
	return &searchLogRepo{db: db, log: baseLog.With("repo", "search_log")}
}

func (r *searchLogRepo) handle(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *searchLogRepo) Insert(dbc dbctx.Context, entry *domain.LogPesquisa) error {
	if err := r.handle(dbc).Create(entry).Error; err != nil {
		return fmt.Errorf("insert search log: %w", err)
	}
	return nil
}

func (r *searchLogRepo) CountAll(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := r.handle(dbc).Model(&domain.LogPesquisa{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count search logs: %w", err)
	}
	return n, nil
}

func (r *searchLogRepo) CountSince(dbc dbctx.Context, days int) (int64, error) {
	var n int64
	err := r.handle(dbc).Model(&domain.LogPesquisa{}).
		Where("data_pesquisa >= CURRENT_TIMESTAMP - ? * INTERVAL '1 day'", days).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count search logs since %d days: %w", days, err)
	}
	return n, nil
}

func (r *searchLogRepo) TopTerms(dbc dbctx.Context, limit int) ([]TermCount, error) {
	var out []TermCount
	err := r.handle(dbc).Model(&domain.LogPesquisa{}).
		Select("LOWER(termo_pesquisa) AS termo_pesquisa, COUNT(*) AS total").
		Where("termo_pesquisa <> ''").
		Group("LOWER(termo_pesquisa)").
		Order("total DESC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("top search terms: %w", err)
	}
	return out, nil
}

func (r *searchLogRepo) Recent(dbc dbctx.Context, limit int) ([]domain.LogPesquisa, error) {
	var out []domain.LogPesquisa
	err := r.handle(dbc).
		Order("data_pesquisa DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("recent search logs: %w", err)
	}
	return out, nil
}
