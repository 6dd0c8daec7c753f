package services

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/mzflora/plantario-backend/internal/data/repos/logs"
	"github.com/mzflora/plantario-backend/internal/domain"
	"github.com/mzflora/plantario-backend/internal/platform/dbctx"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
)

// Actor identifies the admin user behind a write, for the audit trail.
type Actor struct {
	UsuarioID uint
	IP        string
}

// AuditRecorder writes admin audit entries. Failures are logged and
// swallowed: the audit trail never fails the primary operation.
type AuditRecorder struct {
	repo logs.AuditLogRepo
	log  *logger.Logger
}

func NewAuditRecorder(repo logs.AuditLogRepo, baseLog *logger.Logger) *AuditRecorder {
	return &AuditRecorder{repo: repo, log: baseLog.With("service", "audit")}
}

func (a *AuditRecorder) Record(ctx context.Context, actor *Actor, acao, tabela string, registro uint, before, after json.RawMessage) {
	if a == nil || a.repo == nil || actor == nil {
		return
	}
	entry := &domain.LogAcoesUsuario{
		UsuarioID:       actor.UsuarioID,
		Acao:            acao,
		TabelaAfetada:   tabela,
		RegistroAfetado: registro,
		DadosAnteriores: datatypes.JSON(before),
		DadosNovos:      datatypes.JSON(after),
		IPOrigem:        actor.IP,
	}
	if err := a.repo.Insert(dbctx.Context{Ctx: ctx}, entry); err != nil {
		a.log.Warn("audit insert failed", "acao", acao, "tabela", tabela, "error", err)
	}
}

func (a *AuditRecorder) List(ctx context.Context, f logs.AuditFilter) ([]domain.LogAcoesUsuario, int64, error) {
	return a.repo.List(dbctx.Context{Ctx: ctx}, f)
}
