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

// MethodRepo covers both method families: traditional preparation and
// scientific extraction. Both hang off a used part.
type MethodRepo interface {
	ListPreparations(dbc dbctx.Context) ([]domain.MetodoPreparacaoTrad, error)
	ListExtractions(dbc dbctx.Context) ([]domain.MetodoExtracaoCientif, error)
	FindOrCreatePreparation(dbc dbctx.Context, descricao string) (*domain.MetodoPreparacaoTrad, error)
	FindOrCreateExtraction(dbc dbctx.Context, descricao string) (*domain.MetodoExtracaoCientif, error)
	PreparationsByPart(dbc dbctx.Context, partID uint) ([]string, error)
	ExtractionsByPart(dbc dbctx.Context, partID uint) ([]string, error)
	LinkPreparation(dbc dbctx.Context, partID, methodID uint) error
	LinkExtraction(dbc dbctx.Context, partID, methodID uint) error
	UnlinkPart(dbc dbctx.Context, partID uint) error
}

type methodRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMethodRepo(db *gorm.DB, baseLog *logger.Logger) MethodRepo {
	return &methodRepo{db: db, log: baseLog.With("repo", "method")}
}

func (r *methodRepo) handle(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *methodRepo) ListPreparations(dbc dbctx.Context) ([]domain.MetodoPreparacaoTrad, error) {
	var out []domain.MetodoPreparacaoTrad
	if err := r.handle(dbc).Order("descricao_metodo_preparacao ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list preparation methods: %w", err)
	}
	return out, nil
}

func (r *methodRepo) ListExtractions(dbc dbctx.Context) ([]domain.MetodoExtracaoCientif, error) {
	var out []domain.MetodoExtracaoCientif
	if err := r.handle(dbc).Order("descricao_metodo_extraccao ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list extraction methods: %w", err)
	}
	return out, nil
}

func (r *methodRepo) FindOrCreatePreparation(dbc dbctx.Context, descricao string) (*domain.MetodoPreparacaoTrad, error) {
	descricao = strings.TrimSpace(descricao)
	h := r.handle(dbc)

	var m domain.MetodoPreparacaoTrad
	err := h.Where("LOWER(descricao_metodo_preparacao) = LOWER(?)", descricao).First(&m).Error
	if err == nil {
		return &m, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup preparation method: %w", err)
	}

	m = domain.MetodoPreparacaoTrad{Descricao: descricao}
	if err := h.Create(&m).Error; err != nil {
		return nil, fmt.Errorf("create preparation method: %w", err)
	}
	return &m, nil
}

func (r *methodRepo) FindOrCreateExtraction(dbc dbctx.Context, descricao string) (*domain.MetodoExtracaoCientif, error) {
	descricao = strings.TrimSpace(descricao)
	h := r.handle(dbc)

	var m domain.MetodoExtracaoCientif
	err := h.Where("LOWER(descricao_metodo_extraccao) = LOWER(?)", descricao).First(&m).Error
	if err == nil {
		return &m, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup extraction method: %w", err)
	}

	m = domain.MetodoExtracaoCientif{Descricao: descricao}
	if err := h.Create(&m).Error; err != nil {
		return nil, fmt.Errorf("create extraction method: %w", err)
	}
	return &m, nil
}

func (r *methodRepo) PreparationsByPart(dbc dbctx.Context, partID uint) ([]string, error) {
	var out []string
	err := r.handle(dbc).Model(&domain.ParteMetodoTrad{}).
		Joins("JOIN metodo_preparacao_trad ON metodo_preparacao_trad.id_metodo_preparacao = planta_metodo_trad.id_metodo_preparacao").
		Where("planta_metodo_trad.id_parte = ?", partID).
		Order("metodo_preparacao_trad.id_metodo_preparacao ASC").
		Pluck("metodo_preparacao_trad.descricao_metodo_preparacao", &out).Error
	if err != nil {
		return nil, fmt.Errorf("preparation methods of part %d: %w", partID, err)
	}
	return out, nil
}

func (r *methodRepo) ExtractionsByPart(dbc dbctx.Context, partID uint) ([]string, error) {
	var out []string
	err := r.handle(dbc).Model(&domain.ParteMetodo{}).
		Joins("JOIN metodo_extraccao_cientif ON metodo_extraccao_cientif.id_metodo_extraccao = parte_metodo.id_metodo_extraccao").
		Where("parte_metodo.id_parte = ?", partID).
		Order("metodo_extraccao_cientif.id_metodo_extraccao ASC").
		Pluck("metodo_extraccao_cientif.descricao_metodo_extraccao", &out).Error
	if err != nil {
		return nil, fmt.Errorf("extraction methods of part %d: %w", partID, err)
	}
	return out, nil
}

func (r *methodRepo) LinkPreparation(dbc dbctx.Context, partID, methodID uint) error {
	link := domain.ParteMetodoTrad{ParteID: partID, MetodoID: methodID}
	err := r.handle(dbc).
		Where("id_parte = ? AND id_metodo_preparacao = ?", partID, methodID).
		FirstOrCreate(&link).Error
	if err != nil {
		return fmt.Errorf("link part %d to preparation %d: %w", partID, methodID, err)
	}
	return nil
}

func (r *methodRepo) LinkExtraction(dbc dbctx.Context, partID, methodID uint) error {
	link := domain.ParteMetodo{ParteID: partID, MetodoID: methodID}
	err := r.handle(dbc).
		Where("id_parte = ? AND id_metodo_extraccao = ?", partID, methodID).
		FirstOrCreate(&link).Error
	if err != nil {
		return fmt.Errorf("link part %d to extraction %d: %w", partID, methodID, err)
	}
	return nil
}

func (r *methodRepo) UnlinkPart(dbc dbctx.Context, partID uint) error {
	h := r.handle(dbc)
	if err := h.Where("id_parte = ?", partID).Delete(&domain.ParteMetodoTrad{}).Error; err != nil {
		return fmt.Errorf("unlink preparations for part %d: %w", partID, err)
	}
	if err := h.Where("id_parte = ?", partID).Delete(&domain.ParteMetodo{}).Error; err != nil {
		return fmt.Errorf("unlink extractions for part %d: %w", partID, err)
	}
	return nil
}
