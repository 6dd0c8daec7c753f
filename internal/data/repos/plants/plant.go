package plants

import (
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/mzflora/plantario-backend/internal/domain"
	"github.com/mzflora/plantario-backend/internal/platform/dbctx"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
)

// ListFilter narrows and pages the plant listing. Search matches the
// scientific name, family, or any common name, case-insensitively;
// SearchPopular and SearchCientifico restrict the match to common and
// scientific names respectively. ParteUsada takes a numeric id or a
// part name.
type ListFilter struct {
	Familia          string
	Search           string
	SearchPopular    string
	SearchCientifico string
	ProvinciaID      uint
	ParteUsada       string
	IndicacaoID      uint
	AutorID          uint
	Offset           int
	Limit            int
}

type FamilyCount struct {
	Familia string `json:"familia"`
	Total   int64  `json:"total_plantas"`
}

type PlantRepo interface {
	Create(dbc dbctx.Context, p *domain.Planta) error
	GetByID(dbc dbctx.Context, id uint) (*domain.Planta, error)
	GetByScientificName(dbc dbctx.Context, name string) (*domain.Planta, error)
	List(dbc dbctx.Context, f ListFilter) ([]domain.Planta, int64, error)
	Update(dbc dbctx.Context, p *domain.Planta) error
	Delete(dbc dbctx.Context, id uint) error
	CountAll(dbc dbctx.Context) (int64, error)
	Recent(dbc dbctx.Context, limit int) ([]domain.Planta, error)
	ListFamilies(dbc dbctx.Context, search string) ([]FamilyCount, error)
	ListByFamily(dbc dbctx.Context, familia string) ([]domain.Planta, error)
	RenameFamily(dbc dbctx.Context, from, to string) (int64, error)
	SearchByName(dbc dbctx.Context, term string, limit int) ([]domain.Planta, error)
}

type plantRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlantRepo(db *gorm.DB, baseLog *logger.Logger) PlantRepo {
	return &plantRepo{db: db, log: baseLog.With("repo", "plant")}
}

func (r *plantRepo) handle(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *plantRepo) Create(dbc dbctx.Context, p *domain.Planta) error {
	if err := r.handle(dbc).Create(p).Error; err != nil {
		return fmt.Errorf("create plant: %w", err)
	}
	return nil
}

func (r *plantRepo) GetByID(dbc dbctx.Context, id uint) (*domain.Planta, error) {
	var p domain.Planta
	if err := r.handle(dbc).First(&p, "id_planta = ?", id).Error; err != nil {
		return nil, fmt.Errorf("get plant %d: %w", id, err)
	}
	return &p, nil
}

func (r *plantRepo) GetByScientificName(dbc dbctx.Context, name string) (*domain.Planta, error) {
	var p domain.Planta
	err := r.handle(dbc).
		Where("LOWER(nome_cientifico) = LOWER(?)", strings.TrimSpace(name)).
		First(&p).Error
	if err != nil {
		return nil, fmt.Errorf("get plant by name: %w", err)
	}
	return &p, nil
}

func (r *plantRepo) List(dbc dbctx.Context, f ListFilter) ([]domain.Planta, int64, error) {
	q := r.handle(dbc).Model(&domain.Planta{})
	if f.Familia != "" {
		q = q.Where("LOWER(familia) LIKE ?", "%"+strings.ToLower(f.Familia)+"%")
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where(
			"LOWER(nome_cientifico) LIKE ? OR LOWER(familia) LIKE ? OR id_planta IN (?)",
			like, like,
			r.handle(dbc).Model(&domain.NomeComum{}).
				Select("id_planta").
				Where("LOWER(nome) LIKE ?", like),
		)
	}
	if f.SearchPopular != "" {
		q = q.Where("id_planta IN (?)",
			r.handle(dbc).Model(&domain.NomeComum{}).
				Select("id_planta").
				Where("LOWER(nome) LIKE ?", "%"+strings.ToLower(f.SearchPopular)+"%"))
	}
	if f.SearchCientifico != "" {
		q = q.Where("LOWER(nome_cientifico) LIKE ?", "%"+strings.ToLower(f.SearchCientifico)+"%")
	}
	if f.ProvinciaID != 0 {
		q = q.Where("id_planta IN (?)",
			r.handle(dbc).Model(&domain.PlantaLocal{}).
				Select("planta_local.id_planta").
				Joins("JOIN local_colheita ON local_colheita.id_local = planta_local.id_local").
				Where("local_colheita.id_provincia = ?", f.ProvinciaID))
	}
	if f.ParteUsada != "" {
		sub := r.handle(dbc).Model(&domain.PlantaParte{}).
			Select("planta_parte.id_planta")
		if id, err := strconv.ParseUint(f.ParteUsada, 10, 32); err == nil {
			sub = sub.Where("planta_parte.id_parte = ?", uint(id))
		} else {
			sub = sub.
				Joins("JOIN parte_usada ON parte_usada.id_parte = planta_parte.id_parte").
				Where("LOWER(parte_usada.nome_parte) = LOWER(?)", strings.TrimSpace(f.ParteUsada))
		}
		q = q.Where("id_planta IN (?)", sub)
	}
	if f.IndicacaoID != 0 {
		q = q.Where("id_planta IN (?)",
			r.handle(dbc).Model(&domain.PlantaParte{}).
				Select("planta_parte.id_planta").
				Joins("JOIN parte_indicacao ON parte_indicacao.id_parte = planta_parte.id_parte").
				Where("parte_indicacao.id_uso = ?", f.IndicacaoID))
	}
	if f.AutorID != 0 {
		q = q.Where("id_planta IN (?)",
			r.handle(dbc).Model(&domain.PlantaReferencia{}).
				Select("planta_referencia.id_planta").
				Joins("JOIN referencia_autor ON referencia_autor.id_referencia = planta_referencia.id_referencia").
				Where("referencia_autor.id_autor = ?", f.AutorID))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count plants: %w", err)
	}

	var out []domain.Planta
	err := q.Order("nome_cientifico ASC").
		Offset(f.Offset).
		Limit(f.Limit).
		Find(&out).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list plants: %w", err)
	}
	return out, total, nil
}

func (r *plantRepo) Update(dbc dbctx.Context, p *domain.Planta) error {
	res := r.handle(dbc).Model(&domain.Planta{}).
		Where("id_planta = ?", p.ID).
		Updates(map[string]any{
			"nome_cientifico":    p.NomeCientifico,
			"familia":            p.Familia,
			"infos_adicionais":   p.InfosAdicionais,
			"comp_quimica":       p.CompQuimica,
			"prop_farmacologica": p.PropFarmacologica,
		})
	if res.Error != nil {
		return fmt.Errorf("update plant %d: %w", p.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *plantRepo) Delete(dbc dbctx.Context, id uint) error {
	res := r.handle(dbc).Delete(&domain.Planta{}, "id_planta = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete plant %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *plantRepo) CountAll(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := r.handle(dbc).Model(&domain.Planta{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count plants: %w", err)
	}
	return n, nil
}

// Recent returns the newest plants, newest first.
func (r *plantRepo) Recent(dbc dbctx.Context, limit int) ([]domain.Planta, error) {
	var out []domain.Planta
	if err := r.handle(dbc).Order("id_planta DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("recent plants: %w", err)
	}
	return out, nil
}

func (r *plantRepo) ListFamilies(dbc dbctx.Context, search string) ([]FamilyCount, error) {
	q := r.handle(dbc).Model(&domain.Planta{}).
		Select("familia, COUNT(*) AS total").
		Group("familia").
		Order("familia ASC")
	if search != "" {
		q = q.Where("LOWER(familia) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	var out []FamilyCount
	if err := q.Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("list families: %w", err)
	}
	return out, nil
}

func (r *plantRepo) ListByFamily(dbc dbctx.Context, familia string) ([]domain.Planta, error) {
	var out []domain.Planta
	err := r.handle(dbc).
		Where("LOWER(familia) = LOWER(?)", familia).
		Order("nome_cientifico ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list family %q: %w", familia, err)
	}
	return out, nil
}

// RenameFamily moves every plant whose family matches from (exact match)
// to the new spelling and reports how many rows moved.
func (r *plantRepo) RenameFamily(dbc dbctx.Context, from, to string) (int64, error) {
	res := r.handle(dbc).Model(&domain.Planta{}).
		Where("familia = ?", from).
		Update("familia", to)
	if res.Error != nil {
		return 0, fmt.Errorf("rename family %q: %w", from, res.Error)
	}
	return res.RowsAffected, nil
}

func (r *plantRepo) SearchByName(dbc dbctx.Context, term string, limit int) ([]domain.Planta, error) {
	like := "%" + strings.ToLower(term) + "%"
	var out []domain.Planta
	err := r.handle(dbc).
		Where(
			"LOWER(nome_cientifico) LIKE ? OR id_planta IN (?)",
			like,
			r.handle(dbc).Model(&domain.NomeComum{}).
				Select("id_planta").
				Where("LOWER(nome) LIKE ?", like),
		).
		Order("nome_cientifico ASC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("search plants: %w", err)
	}
	return out, nil
}
