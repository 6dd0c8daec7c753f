package plants

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/mzflora/plantario-backend/internal/domain"
	"github.com/mzflora/plantario-backend/internal/platform/dbctx"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
)

type ImageRepo interface {
	Create(dbc dbctx.Context, img *domain.Imagem) error
	GetByID(dbc dbctx.Context, id uint) (*domain.Imagem, error)
	ListByPlant(dbc dbctx.Context, plantID uint) ([]domain.Imagem, error)
	UpdateMeta(dbc dbctx.Context, id uint, legenda, referencia string) error
	Delete(dbc dbctx.Context, id uint) error
	DeleteByPlant(dbc dbctx.Context, plantID uint) error
	CountAll(dbc dbctx.Context) (int64, error)
	PlantIDsWithout(dbc dbctx.Context) ([]uint, error)
}

type imageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewImageRepo(db *gorm.DB, baseLog *logger.Logger) ImageRepo {
	return &imageRepo{db: db, log: baseLog.With("repo", "image")}
}

func (r *imageRepo) handle(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *imageRepo) Create(dbc dbctx.Context, img *domain.Imagem) error {
	if err := r.handle(dbc).Create(img).Error; err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	return nil
}

func (r *imageRepo) GetByID(dbc dbctx.Context, id uint) (*domain.Imagem, error) {
	var img domain.Imagem
	if err := r.handle(dbc).First(&img, "id_imagem = ?", id).Error; err != nil {
		return nil, fmt.Errorf("get image %d: %w", id, err)
	}
	return &img, nil
}

func (r *imageRepo) ListByPlant(dbc dbctx.Context, plantID uint) ([]domain.Imagem, error) {
	var out []domain.Imagem
	err := r.handle(dbc).
		Where("id_planta = ?", plantID).
		Order("id_imagem ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list images for plant %d: %w", plantID, err)
	}
	return out, nil
}

func (r *imageRepo) UpdateMeta(dbc dbctx.Context, id uint, legenda, referencia string) error {
	res := r.handle(dbc).Model(&domain.Imagem{}).
		Where("id_imagem = ?", id).
		Updates(map[string]any{"legenda": legenda, "referencia_img": referencia})
	if res.Error != nil {
		return fmt.Errorf("update image %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *imageRepo) Delete(dbc dbctx.Context, id uint) error {
	res := r.handle(dbc).Delete(&domain.Imagem{}, "id_imagem = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete image %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *imageRepo) DeleteByPlant(dbc dbctx.Context, plantID uint) error {
	if err := r.handle(dbc).Where("id_planta = ?", plantID).Delete(&domain.Imagem{}).Error; err != nil {
		return fmt.Errorf("delete images for plant %d: %w", plantID, err)
	}
	return nil
}

func (r *imageRepo) CountAll(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := r.handle(dbc).Model(&domain.Imagem{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count images: %w", err)
	}
	return n, nil
}

// PlantIDsWithout lists plants that have no stored image, used by the
// dashboard to flag gaps in photographic coverage.
func (r *imageRepo) PlantIDsWithout(dbc dbctx.Context) ([]uint, error) {
	var ids []uint
	err := r.handle(dbc).Model(&domain.Planta{}).
		Where("id_planta NOT IN (?)",
			r.handle(dbc).Model(&domain.Imagem{}).Select("id_planta")).
		Order("id_planta ASC").
		Pluck("id_planta", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("plants without images: %w", err)
	}
	return ids, nil
}
