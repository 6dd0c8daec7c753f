package locations

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mzflora/plantario-backend/internal/domain"
	"github.com/mzflora/plantario-backend/internal/platform/dbctx"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
)

// SiteWithProvince is a flattened collection-site row used by the plant
// document assembler.
type SiteWithProvince struct {
	IDLocal     uint   `json:"id_local"`
	NomeLocal   string `json:"nome_local"`
	IDProvincia uint   `json:"id_provincia"`
	Provincia   string `json:"provincia"`
}

type SiteRepo interface {
	FindOrCreate(dbc dbctx.Context, provinceID uint, nomeLocal string) (*domain.LocalColheita, error)
	List(dbc dbctx.Context, provinceID uint) ([]domain.LocalColheita, error)
	ListByPlant(dbc dbctx.Context, plantID uint) ([]SiteWithProvince, error)
	LinkPlant(dbc dbctx.Context, plantID, siteID uint) error
	UnlinkPlant(dbc dbctx.Context, plantID uint) error
}

type siteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSiteRepo(db *gorm.DB, baseLog *logger.Logger) SiteRepo {
	return &siteRepo{db: db, log: baseLog.With("repo", "site")}
}

func (r *siteRepo) handle(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

// FindOrCreate reuses an existing site with the same name in the same
// province (case-insensitive) rather than piling up duplicates.
func (r *siteRepo) FindOrCreate(dbc dbctx.Context, provinceID uint, nomeLocal string) (*domain.LocalColheita, error) {
	nomeLocal = strings.TrimSpace(nomeLocal)
	h := r.handle(dbc)

	var site domain.LocalColheita
	err := h.Where("id_provincia = ? AND LOWER(nome_local) = LOWER(?)", provinceID, nomeLocal).
		First(&site).Error
	if err == nil {
		return &site, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup site: %w", err)
	}

	site = domain.LocalColheita{NomeLocal: nomeLocal, ProvinciaID: provinceID}
	if err := h.Create(&site).Error; err != nil {
		return nil, fmt.Errorf("create site: %w", err)
	}
	return &site, nil
}

// List returns every collection site, optionally narrowed to one
// province (provinceID 0 means all).
func (r *siteRepo) List(dbc dbctx.Context, provinceID uint) ([]domain.LocalColheita, error) {
	q := r.handle(dbc).Order("nome_local ASC")
	if provinceID != 0 {
		q = q.Where("id_provincia = ?", provinceID)
	}
	var out []domain.LocalColheita
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	return out, nil
}

func (r *siteRepo) ListByPlant(dbc dbctx.Context, plantID uint) ([]SiteWithProvince, error) {
	var out []SiteWithProvince
	err := r.handle(dbc).Model(&domain.PlantaLocal{}).
		Select("local_colheita.id_local, local_colheita.nome_local, provincia.id_provincia, provincia.provincia").
		Joins("JOIN local_colheita ON local_colheita.id_local = planta_local.id_local").
		Joins("JOIN provincia ON provincia.id_provincia = local_colheita.id_provincia").
		Where("planta_local.id_planta = ?", plantID).
		Order("provincia.provincia ASC, local_colheita.nome_local ASC").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list sites for plant %d: %w", plantID, err)
	}
	return out, nil
}

func (r *siteRepo) LinkPlant(dbc dbctx.Context, plantID, siteID uint) error {
	link := domain.PlantaLocal{PlantaID: plantID, LocalID: siteID}
	err := r.handle(dbc).
		Where("id_planta = ? AND id_local = ?", plantID, siteID).
		FirstOrCreate(&link).Error
	if err != nil {
		return fmt.Errorf("link plant %d to site %d: %w", plantID, siteID, err)
	}
	return nil
}

func (r *siteRepo) UnlinkPlant(dbc dbctx.Context, plantID uint) error {
	if err := r.handle(dbc).Where("id_planta = ?", plantID).Delete(&domain.PlantaLocal{}).Error; err != nil {
		return fmt.Errorf("unlink sites for plant %d: %w", plantID, err)
	}
	return nil
}
