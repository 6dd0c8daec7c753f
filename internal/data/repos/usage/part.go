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

type PartRepo interface {
	List(dbc dbctx.Context) ([]domain.ParteUsada, error)
	GetByID(dbc dbctx.Context, id uint) (*domain.ParteUsada, error)
	FindOrCreate(dbc dbctx.Context, nomeParte string) (*domain.ParteUsada, error)
	PartIDsByPlant(dbc dbctx.Context, plantID uint) ([]uint, error)
	LinkPlant(dbc dbctx.Context, plantID, partID uint) error
	UnlinkPlant(dbc dbctx.Context, plantID uint) error
}

type partRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPartRepo(db *gorm.DB, baseLog *logger.Logger) PartRepo {
	return &partRepo{db: db, log: baseLog.With("repo", "part")}
}

func (r *partRepo) handle(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *partRepo) List(dbc dbctx.Context) ([]domain.ParteUsada, error) {
	var out []domain.ParteUsada
	if err := r.handle(dbc).Order("nome_parte ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list parts: %w", err)
	}
	return out, nil
}

func (r *partRepo) GetByID(dbc dbctx.Context, id uint) (*domain.ParteUsada, error) {
	var p domain.ParteUsada
	if err := r.handle(dbc).First(&p, "id_parte = ?", id).Error; err != nil {
		return nil, fmt.Errorf("get part %d: %w", id, err)
	}
	return &p, nil
}

func (r *partRepo) FindOrCreate(dbc dbctx.Context, nomeParte string) (*domain.ParteUsada, error) {
	nomeParte = strings.TrimSpace(nomeParte)
	h := r.handle(dbc)

	var p domain.ParteUsada
	err := h.Where("LOWER(nome_parte) = LOWER(?)", nomeParte).First(&p).Error
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup part: %w", err)
	}

	p = domain.ParteUsada{NomeParte: nomeParte}
	if err := h.Create(&p).Error; err != nil {
		return nil, fmt.Errorf("create part: %w", err)
	}
	return &p, nil
}

func (r *partRepo) PartIDsByPlant(dbc dbctx.Context, plantID uint) ([]uint, error) {
	var ids []uint
	err := r.handle(dbc).Model(&domain.PlantaParte{}).
		Where("id_planta = ?", plantID).
		Order("id_parte ASC").
		Pluck("id_parte", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("parts of plant %d: %w", plantID, err)
	}
	return ids, nil
}

func (r *partRepo) LinkPlant(dbc dbctx.Context, plantID, partID uint) error {
	link := domain.PlantaParte{PlantaID: plantID, ParteID: partID}
	err := r.handle(dbc).
		Where("id_planta = ? AND id_parte = ?", plantID, partID).
		FirstOrCreate(&link).Error
	if err != nil {
		return fmt.Errorf("link plant %d to part %d: %w", plantID, partID, err)
	}
	return nil
}

func (r *partRepo) UnlinkPlant(dbc dbctx.Context, plantID uint) error {
	if err := r.handle(dbc).Where("id_planta = ?", plantID).Delete(&domain.PlantaParte{}).Error; err != nil {
		return fmt.Errorf("unlink parts for plant %d: %w", plantID, err)
	}
	return nil
}
