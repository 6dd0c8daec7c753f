package locations

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mzflora/plantario-backend/internal/domain"
	"github.com/mzflora/plantario-backend/internal/platform/dbctx"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
)

// ProvincePlantCount is one row of the per-province plant breakdown.
type ProvincePlantCount struct {
	IDProvincia uint   `json:"id_provincia"`
	Provincia   string `json:"nome_provincia"`
	Total       int64  `json:"total_plantas"`
}

type ProvinceRepo interface {
	List(dbc dbctx.Context) ([]domain.Provincia, error)
	GetByID(dbc dbctx.Context, id uint) (*domain.Provincia, error)
	GetByName(dbc dbctx.Context, name string) (*domain.Provincia, error)
	Create(dbc dbctx.Context, p *domain.Provincia) error
	SearchByName(dbc dbctx.Context, term string, limit int) ([]domain.Provincia, error)
	CountAll(dbc dbctx.Context) (int64, error)
	CountPlants(dbc dbctx.Context, provinceID uint) (int64, error)
	PlantCounts(dbc dbctx.Context) ([]ProvincePlantCount, error)
	ListRegions(dbc dbctx.Context) ([]domain.Regiao, error)
}

type provinceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProvinceRepo(db *gorm.DB, baseLog *logger.Logger) ProvinceRepo {
	return &provinceRepo{db: db, log: baseLog.With("repo", "province")}
}

func (r *provinceRepo) handle(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *provinceRepo) List(dbc dbctx.Context) ([]domain.Provincia, error) {
	var out []domain.Provincia
	if err := r.handle(dbc).Order("provincia ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list provinces: %w", err)
	}
	return out, nil
}

func (r *provinceRepo) GetByID(dbc dbctx.Context, id uint) (*domain.Provincia, error) {
	var p domain.Provincia
	if err := r.handle(dbc).First(&p, "id_provincia = ?", id).Error; err != nil {
		return nil, fmt.Errorf("get province %d: %w", id, err)
	}
	return &p, nil
}

func (r *provinceRepo) GetByName(dbc dbctx.Context, name string) (*domain.Provincia, error) {
	var p domain.Provincia
	err := r.handle(dbc).
		Where("LOWER(provincia) = LOWER(?)", strings.TrimSpace(name)).
		First(&p).Error
	if err != nil {
		return nil, fmt.Errorf("get province %q: %w", name, err)
	}
	return &p, nil
}

func (r *provinceRepo) Create(dbc dbctx.Context, p *domain.Provincia) error {
	if err := r.handle(dbc).Create(p).Error; err != nil {
		return fmt.Errorf("create province: %w", err)
	}
	return nil
}

func (r *provinceRepo) SearchByName(dbc dbctx.Context, term string, limit int) ([]domain.Provincia, error) {
	var out []domain.Provincia
	err := r.handle(dbc).
		Where("LOWER(provincia) LIKE ?", "%"+strings.ToLower(term)+"%").
		Order("provincia ASC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("search provinces: %w", err)
	}
	return out, nil
}

func (r *provinceRepo) ListRegions(dbc dbctx.Context) ([]domain.Regiao, error) {
	var out []domain.Regiao
	if err := r.handle(dbc).Order("nome_regiao ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	return out, nil
}

func (r *provinceRepo) CountAll(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := r.handle(dbc).Model(&domain.Provincia{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count provinces: %w", err)
	}
	return n, nil
}

// CountPlants counts distinct plants collected anywhere in the province.
func (r *provinceRepo) CountPlants(dbc dbctx.Context, provinceID uint) (int64, error) {
	var n int64
	err := r.handle(dbc).Model(&domain.PlantaLocal{}).
		Distinct("planta_local.id_planta").
		Joins("JOIN local_colheita ON local_colheita.id_local = planta_local.id_local").
		Where("local_colheita.id_provincia = ?", provinceID).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count plants in province %d: %w", provinceID, err)
	}
	return n, nil
}

// PlantCounts returns every province with its distinct plant count,
// busiest first. Provinces without collections still appear with zero.
func (r *provinceRepo) PlantCounts(dbc dbctx.Context) ([]ProvincePlantCount, error) {
	var out []ProvincePlantCount
	err := r.handle(dbc).Model(&domain.Provincia{}).
		Select("provincia.id_provincia, provincia.provincia, COUNT(DISTINCT planta_local.id_planta) AS total").
		Joins("LEFT JOIN local_colheita ON local_colheita.id_provincia = provincia.id_provincia").
		Joins("LEFT JOIN planta_local ON planta_local.id_local = local_colheita.id_local").
		Group("provincia.id_provincia, provincia.provincia").
		Order("total DESC, provincia.provincia ASC").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("plant counts by province: %w", err)
	}
	return out, nil
}
