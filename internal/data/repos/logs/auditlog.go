package logs

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/mzflora/plantario-backend/internal/domain"
	"github.com/mzflora/plantario-backend/internal/platform/dbctx"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
)

type AuditFilter struct {
	UsuarioID uint
	Acao      string
	Tabela    string
	Offset    int
	Limit     int
}

type AuditLogRepo interface {
	Insert(dbc dbctx.Context, entry *domain.LogAcoesUsuario) error
	List(dbc dbctx.Context, f AuditFilter) ([]domain.LogAcoesUsuario, int64, error)
}

type auditLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAuditLogRepo(db *gorm.DB, baseLog *logger.Logger) AuditLogRepo {
	return &auditLogRepo{db: db, log: baseLog.With("repo", "audit_log")}
}

func (r *auditLogRepo) handle(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *auditLogRepo) Insert(dbc dbctx.Context, entry *domain.LogAcoesUsuario) error {
	if err := r.handle(dbc).Create(entry).Error; err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

func (r *auditLogRepo) List(dbc dbctx.Context, f AuditFilter) ([]domain.LogAcoesUsuario, int64, error) {
	q := r.handle(dbc).Model(&domain.LogAcoesUsuario{})
	if f.UsuarioID != 0 {
		q = q.Where("id_usuario = ?", f.UsuarioID)
	}
	if f.Acao != "" {
		q = q.Where("acao = ?", f.Acao)
	}
	if f.Tabela != "" {
		q = q.Where("tabela_afetada = ?", f.Tabela)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}
	var out []domain.LogAcoesUsuario
	if err := q.Order("data_acao DESC").Offset(f.Offset).Limit(f.Limit).Find(&out).Error; err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}
	return out, total, nil
}
