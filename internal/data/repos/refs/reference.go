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

type ReferenceRepo interface {
	Create(dbc dbctx.Context, ref *domain.Referencia) error
	GetByID(dbc dbctx.Context, id uint) (*domain.Referencia, error)
	FindByLink(dbc dbctx.Context, link string) (*domain.Referencia, error)
	List(dbc dbctx.Context, search string, offset, limit int) ([]domain.Referencia, int64, error)
	Update(dbc dbctx.Context, ref *domain.Referencia) error
	Delete(dbc dbctx.Context, id uint) error
	CountAll(dbc dbctx.Context) (int64, error)
	CountWithLink(dbc dbctx.Context) (int64, error)
	CountWithYear(dbc dbctx.Context) (int64, error)
	CountPlants(dbc dbctx.Context, refID uint) (int64, error)
	Recent(dbc dbctx.Context, limit int) ([]domain.Referencia, error)
	ReferencesByPlant(dbc dbctx.Context, plantID uint) ([]domain.Referencia, error)
	AuthorsByReference(dbc dbctx.Context, refID uint) ([]domain.Autor, error)
	ReplaceAuthors(dbc dbctx.Context, refID uint, authorIDs []uint) error
	LinkPlant(dbc dbctx.Context, plantID, refID uint) error
	UnlinkPlant(dbc dbctx.Context, plantID uint) error
}

type referenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReferenceRepo(db *gorm.DB, baseLog *logger.Logger) ReferenceRepo {
	return &referenceRepo{db: db, log: baseLog.With("repo", "reference")}
}

func (r *referenceRepo) handle(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *referenceRepo) Create(dbc dbctx.Context, ref *domain.Referencia) error {
	if err := r.handle(dbc).Create(ref).Error; err != nil {
		return fmt.Errorf("create reference: %w", err)
	}
	return nil
}

func (r *referenceRepo) GetByID(dbc dbctx.Context, id uint) (*domain.Referencia, error) {
	var ref domain.Referencia
	if err := r.handle(dbc).First(&ref, "id_referencia = ?", id).Error; err != nil {
		return nil, fmt.Errorf("get reference %d: %w", id, err)
	}
	return &ref, nil
}

// FindByLink deduplicates references by URL during wizard imports.
func (r *referenceRepo) FindByLink(dbc dbctx.Context, link string) (*domain.Referencia, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var ref domain.Referencia
	err := r.handle(dbc).Where("link_referencia = ?", link).First(&ref).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find reference by link: %w", err)
	}
	return &ref, nil
}

func (r *referenceRepo) List(dbc dbctx.Context, search string, offset, limit int) ([]domain.Referencia, int64, error) {
	q := r.handle(dbc).Model(&domain.Referencia{})
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(titulo_referencia) LIKE ? OR LOWER(link_referencia) LIKE ?", like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count references: %w", err)
	}
	var out []domain.Referencia
	if err := q.Order("id_referencia DESC").Offset(offset).Limit(limit).Find(&out).Error; err != nil {
		return nil, 0, fmt.Errorf("list references: %w", err)
	}
	return out, total, nil
}

func (r *referenceRepo) Update(dbc dbctx.Context, ref *domain.Referencia) error {
	res := r.handle(dbc).Model(&domain.Referencia{}).
		Where("id_referencia = ?", ref.ID).
		Updates(map[string]any{
			"titulo_referencia": ref.Titulo,
			"link_referencia":   ref.Link,
			"ano_publicacao":    ref.AnoPublicacao,
		})
	if res.Error != nil {
		return fmt.Errorf("update reference %d: %w", ref.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *referenceRepo) Delete(dbc dbctx.Context, id uint) error {
	h := r.handle(dbc)
	if err := h.Where("id_referencia = ?", id).Delete(&domain.ReferenciaAutor{}).Error; err != nil {
		return fmt.Errorf("clear reference authors %d: %w", id, err)
	}
	res := h.Delete(&domain.Referencia{}, "id_referencia = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete reference %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *referenceRepo) CountAll(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := r.handle(dbc).Model(&domain.Referencia{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count references: %w", err)
	}
	return n, nil
}

func (r *referenceRepo) CountWithLink(dbc dbctx.Context) (int64, error) {
	var n int64
	err := r.handle(dbc).Model(&domain.Referencia{}).
		Where("link_referencia IS NOT NULL AND link_referencia <> ''").
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count linked references: %w", err)
	}
	return n, nil
}

func (r *referenceRepo) CountWithYear(dbc dbctx.Context) (int64, error) {
	var n int64
	err := r.handle(dbc).Model(&domain.Referencia{}).
		Where("ano_publicacao IS NOT NULL").
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count dated references: %w", err)
	}
	return n, nil
}

// Recent returns the newest references, newest first.
func (r *referenceRepo) Recent(dbc dbctx.Context, limit int) ([]domain.Referencia, error) {
	var out []domain.Referencia
	if err := r.handle(dbc).Order("id_referencia DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("recent references: %w", err)
	}
	return out, nil
}

// CountPlants counts plants still citing the reference; deletion is
// refused while this is non-zero.
func (r *referenceRepo) CountPlants(dbc dbctx.Context, refID uint) (int64, error) {
	var n int64
	err := r.handle(dbc).Model(&domain.PlantaReferencia{}).
		Where("id_referencia = ?", refID).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count plants of reference %d: %w", refID, err)
	}
	return n, nil
}

func (r *referenceRepo) ReferencesByPlant(dbc dbctx.Context, plantID uint) ([]domain.Referencia, error) {
	var out []domain.Referencia
	err := r.handle(dbc).Model(&domain.PlantaReferencia{}).
		Select("referencia.id_referencia, referencia.titulo_referencia, referencia.link_referencia, referencia.ano_publicacao").
		Joins("JOIN referencia ON referencia.id_referencia = planta_referencia.id_referencia").
		Where("planta_referencia.id_planta = ?", plantID).
		Order("referencia.id_referencia ASC").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("references of plant %d: %w", plantID, err)
	}
	return out, nil
}

func (r *referenceRepo) AuthorsByReference(dbc dbctx.Context, refID uint) ([]domain.Autor, error) {
	var out []domain.Autor
	err := r.handle(dbc).Model(&domain.ReferenciaAutor{}).
		Select("autor.id_autor, autor.nome_autor").
		Joins("JOIN autor ON autor.id_autor = referencia_autor.id_autor").
		Where("referencia_autor.id_referencia = ?", refID).
		Order("autor.id_autor ASC").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("authors of reference %d: %w", refID, err)
	}
	return out, nil
}

func (r *referenceRepo) ReplaceAuthors(dbc dbctx.Context, refID uint, authorIDs []uint) error {
	h := r.handle(dbc)
	if err := h.Where("id_referencia = ?", refID).Delete(&domain.ReferenciaAutor{}).Error; err != nil {
		return fmt.Errorf("clear authors of reference %d: %w", refID, err)
	}
	seen := make(map[uint]struct{}, len(authorIDs))
	rows := make([]domain.ReferenciaAutor, 0, len(authorIDs))
	for _, id := range authorIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		rows = append(rows, domain.ReferenciaAutor{ReferenciaID: refID, AutorID: id})
	}
	if len(rows) == 0 {
		return nil
	}
	if err := h.Create(&rows).Error; err != nil {
		return fmt.Errorf("link authors of reference %d: %w", refID, err)
	}
	return nil
}

func (r *referenceRepo) LinkPlant(dbc dbctx.Context, plantID, refID uint) error {
	link := domain.PlantaReferencia{PlantaID: plantID, ReferenciaID: refID}
	err := r.handle(dbc).
		Where("id_planta = ? AND id_referencia = ?", plantID, refID).
		FirstOrCreate(&link).Error
	if err != nil {
		return fmt.Errorf("link plant %d to reference %d: %w", plantID, refID, err)
	}
	return nil
}

func (r *referenceRepo) UnlinkPlant(dbc dbctx.Context, plantID uint) error {
	if err := r.handle(dbc).Where("id_planta = ?", plantID).Delete(&domain.PlantaReferencia{}).Error; err != nil {
		return fmt.Errorf("unlink references for plant %d: %w", plantID, err)
	}
	return nil
}
