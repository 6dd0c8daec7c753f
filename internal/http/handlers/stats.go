package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mzflora/plantario-backend/internal/data/aggregates"
	"github.com/mzflora/plantario-backend/internal/data/repos/logs"
	"github.com/mzflora/plantario-backend/internal/http/response"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
	"github.com/mzflora/plantario-backend/internal/services"
)

type StatsHandler struct {
	statsSvc services.StatsService
	audit    *services.AuditRecorder
	log      *logger.Logger
}

func NewStatsHandler(statsSvc services.StatsService, audit *services.AuditRecorder, log *logger.Logger) *StatsHandler {
	return &StatsHandler{statsSvc: statsSvc, audit: audit, log: log.With("handler", "stats")}
}

// Dashboard handles GET /api/admin/dashboard/stats.
func (h *StatsHandler) Dashboard(c *gin.Context) {
	out, err := h.statsSvc.Dashboard(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

// AuditLog handles GET /api/admin/logs/acoes.
func (h *StatsHandler) AuditLog(c *gin.Context) {
	page, perPage := pagination(c)
	userID, _ := strconv.ParseUint(c.Query("id_usuario"), 10, 32)
	f := logs.AuditFilter{
		UsuarioID: uint(userID),
		Acao:      c.Query("acao"),
		Tabela:    c.Query("tabela"),
		Offset:    (page - 1) * perPage,
		Limit:     perPage,
	}
	rows, total, err := h.audit.List(c.Request.Context(), f)
	if err != nil {
		response.RespondErr(c, aggregates.MapError("audit.list", err))
		return
	}
	response.RespondOK(c, gin.H{
		"logs":     rows,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}
