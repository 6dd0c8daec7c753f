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

type AuthorRepo interface {
	Create(dbc dbctx.Context, a *domain.Autor) error
	GetByID(dbc dbctx.Context, id uint) (*domain.Autor, error)
	GetByName(dbc dbctx.Context, nome string) (*domain.Autor, error)
	FindOrCreate(dbc dbctx.Context, nome string) (*domain.Autor, error)
	List(dbc dbctx.Context, search string, offset, limit int) ([]domain.Autor, int64, error)
	CountAll(dbc dbctx.Context) (int64, error)
	CountWithAffiliation(dbc dbctx.Context) (int64, error)
	Recent(dbc dbctx.Context, limit int) ([]domain.Autor, error)
	UpdateName(dbc dbctx.Context, id uint, nome string) error
	Delete(dbc dbctx.Context, id uint) error
	CountReferences(dbc dbctx.Context, authorID uint) (int64, error)
	CountPlants(dbc dbctx.Context, authorID uint) (int64, error)
	RecentReferences(dbc dbctx.Context, authorID uint, limit int) ([]domain.Referencia, error)
	Affiliations(dbc dbctx.Context, authorID uint) ([]domain.Afiliacao, error)
	ReplaceAffiliations(dbc dbctx.Context, authorID uint, affiliationIDs []uint) error
	HasAffiliation(dbc dbctx.Context, authorID, affiliationID uint) (bool, error)
	AddAffiliation(dbc dbctx.Context, authorID, affiliationID uint) error
	RemoveAffiliation(dbc dbctx.Context, authorID, affiliationID uint) error
	SearchByName(dbc dbctx.Context, term string, limit int) ([]domain.Autor, error)
}

type authorRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAuthorRepo(db *gorm.DB, baseLog *logger.Logger) AuthorRepo {
	return &authorRepo{db: db, log: baseLog.With("repo", "author")}
}

func (r *authorRepo) handle(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *authorRepo) Create(dbc dbctx.Context, a *domain.Autor) error {
	if err := r.handle(dbc).Create(a).Error; err != nil {
		return fmt.Errorf("create author: %w", err)
	}
	return nil
}

func (r *authorRepo) GetByID(dbc dbctx.Context, id uint) (*domain.Autor, error) {
	var a domain.Autor
	if err := r.handle(dbc).First(&a, "id_autor = ?", id).Error; err != nil {
		return nil, fmt.Errorf("get author %d: %w", id, err)
	}
	return &a, nil
}

func (r *authorRepo) GetByName(dbc dbctx.Context, nome string) (*domain.Autor, error) {
	var a domain.Autor
	err := r.handle(dbc).
		Where("LOWER(nome_autor) = LOWER(?)", strings.TrimSpace(nome)).
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get author %q: %w", nome, err)
	}
	return &a, nil
}

func (r *authorRepo) FindOrCreate(dbc dbctx.Context, nome string) (*domain.Autor, error) {
	nome = strings.TrimSpace(nome)
	h := r.handle(dbc)

	var a domain.Autor
	err := h.Where("LOWER(nome_autor) = LOWER(?)", nome).First(&a).Error
	if err == nil {
		return &a, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup author: %w", err)
	}

	a = domain.Autor{Nome: nome}
	if err := h.Create(&a).Error; err != nil {
		return nil, fmt.Errorf("create author: %w", err)
	}
	return &a, nil
}

func (r *authorRepo) List(dbc dbctx.Context, search string, offset, limit int) ([]domain.Autor, int64, error) {
	q := r.handle(dbc).Model(&domain.Autor{})
	if search != "" {
		q = q.Where("LOWER(nome_autor) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count authors: %w", err)
	}
	var out []domain.Autor
	if err := q.Order("nome_autor ASC").Offset(offset).Limit(limit).Find(&out).Error; err != nil {
		return nil, 0, fmt.Errorf("list authors: %w", err)
	}
	return out, total, nil
}

func (r *authorRepo) CountAll(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := r.handle(dbc).Model(&domain.Autor{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count authors: %w", err)
	}
	return n, nil
}

// CountWithAffiliation counts authors linked to at least one affiliation.
func (r *authorRepo) CountWithAffiliation(dbc dbctx.Context) (int64, error) {
	var n int64
	err := r.handle(dbc).Model(&domain.AutorAfiliacao{}).
		Distinct("id_autor").
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count affiliated authors: %w", err)
	}
	return n, nil
}

// Recent returns the newest authors, newest first.
func (r *authorRepo) Recent(dbc dbctx.Context, limit int) ([]domain.Autor, error) {
	var out []domain.Autor
	if err := r.handle(dbc).Order("id_autor DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("recent authors: %w", err)
	}
	return out, nil
}

func (r *authorRepo) UpdateName(dbc dbctx.Context, id uint, nome string) error {
	res := r.handle(dbc).Model(&domain.Autor{}).
		Where("id_autor = ?", id).
		Update("nome_autor", strings.TrimSpace(nome))
	if res.Error != nil {
		return fmt.Errorf("update author %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *authorRepo) Delete(dbc dbctx.Context, id uint) error {
	h := r.handle(dbc)
	if err := h.Where("id_autor = ?", id).Delete(&domain.AutorAfiliacao{}).Error; err != nil {
		return fmt.Errorf("clear author affiliations %d: %w", id, err)
	}
	res := h.Delete(&domain.Autor{}, "id_autor = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete author %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountReferences counts references still linked to the author; deletion
// is refused while this is non-zero.
func (r *authorRepo) CountReferences(dbc dbctx.Context, authorID uint) (int64, error) {
	var n int64
	err := r.handle(dbc).Model(&domain.ReferenciaAutor{}).
		Where("id_autor = ?", authorID).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count references of author %d: %w", authorID, err)
	}
	return n, nil
}

// CountPlants counts distinct plants that cite any of the author's
// references.
func (r *authorRepo) CountPlants(dbc dbctx.Context, authorID uint) (int64, error) {
	var n int64
	err := r.handle(dbc).Model(&domain.PlantaReferencia{}).
		Distinct("planta_referencia.id_planta").
		Joins("JOIN referencia_autor ON referencia_autor.id_referencia = planta_referencia.id_referencia").
		Where("referencia_autor.id_autor = ?", authorID).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count plants of author %d: %w", authorID, err)
	}
	return n, nil
}

// RecentReferences returns the author's newest references, newest first.
func (r *authorRepo) RecentReferences(dbc dbctx.Context, authorID uint, limit int) ([]domain.Referencia, error) {
	var out []domain.Referencia
	err := r.handle(dbc).Model(&domain.Referencia{}).
		Joins("JOIN referencia_autor ON referencia_autor.id_referencia = referencia.id_referencia").
		Where("referencia_autor.id_autor = ?", authorID).
		Order("referencia.id_referencia DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("recent references of author %d: %w", authorID, err)
	}
	return out, nil
}

// Affiliations returns the author's affiliations ordered by id. The first
// row doubles as the legacy singular afiliacao in API payloads.
func (r *authorRepo) Affiliations(dbc dbctx.Context, authorID uint) ([]domain.Afiliacao, error) {
	var out []domain.Afiliacao
	err := r.handle(dbc).Model(&domain.AutorAfiliacao{}).
		Select("afiliacao.id_afiliacao, afiliacao.nome_afiliacao, afiliacao.sigla_afiliacao").
		Joins("JOIN afiliacao ON afiliacao.id_afiliacao = autor_afiliacao.id_afiliacao").
		Where("autor_afiliacao.id_autor = ?", authorID).
		Order("afiliacao.id_afiliacao ASC").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("affiliations of author %d: %w", authorID, err)
	}
	return out, nil
}

func (r *authorRepo) ReplaceAffiliations(dbc dbctx.Context, authorID uint, affiliationIDs []uint) error {
	h := r.handle(dbc)
	if err := h.Where("id_autor = ?", authorID).Delete(&domain.AutorAfiliacao{}).Error; err != nil {
		return fmt.Errorf("clear affiliations of author %d: %w", authorID, err)
	}
	seen := make(map[uint]struct{}, len(affiliationIDs))
	rows := make([]domain.AutorAfiliacao, 0, len(affiliationIDs))
	for _, id := range affiliationIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		rows = append(rows, domain.AutorAfiliacao{AutorID: authorID, AfiliacaoID: id})
	}
	if len(rows) == 0 {
		return nil
	}
	if err := h.Create(&rows).Error; err != nil {
		return fmt.Errorf("link affiliations of author %d: %w", authorID, err)
	}
	return nil
}

func (r *authorRepo) HasAffiliation(dbc dbctx.Context, authorID, affiliationID uint) (bool, error) {
	var n int64
	err := r.handle(dbc).Model(&domain.AutorAfiliacao{}).
		Where("id_autor = ? AND id_afiliacao = ?", authorID, affiliationID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check affiliation link: %w", err)
	}
	return n > 0, nil
}

func (r *authorRepo) AddAffiliation(dbc dbctx.Context, authorID, affiliationID uint) error {
	row := domain.AutorAfiliacao{AutorID: authorID, AfiliacaoID: affiliationID}
	if err := r.handle(dbc).Create(&row).Error; err != nil {
		return fmt.Errorf("link affiliation %d to author %d: %w", affiliationID, authorID, err)
	}
	return nil
}

func (r *authorRepo) RemoveAffiliation(dbc dbctx.Context, authorID, affiliationID uint) error {
	res := r.handle(dbc).
		Where("id_autor = ? AND id_afiliacao = ?", authorID, affiliationID).
		Delete(&domain.AutorAfiliacao{})
	if res.Error != nil {
		return fmt.Errorf("unlink affiliation %d from author %d: %w", affiliationID, authorID, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *authorRepo) SearchByName(dbc dbctx.Context, term string, limit int) ([]domain.Autor, error) {
	var out []domain.Autor
	err := r.handle(dbc).
		Where("LOWER(nome_autor) LIKE ?", "%"+strings.ToLower(term)+"%").
		Order("nome_autor ASC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("search authors: %w", err)
	}
	return out, nil
}
