package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mzflora/plantario-backend/internal/http/middleware"
	"github.com/mzflora/plantario-backend/internal/http/response"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
	"github.com/mzflora/plantario-backend/internal/services"
)

type FamilyHandler struct {
	familySvc services.FamilyService
	log       *logger.Logger
}

func NewFamilyHandler(familySvc services.FamilyService, log *logger.Logger) *FamilyHandler {
	return &FamilyHandler{familySvc: familySvc, log: log.With("handler", "family")}
}

// List handles GET /api/familias and its /api/admin twin.
func (h *FamilyHandler) List(c *gin.Context) {
	page, perPage := pagination(c)
	sortBy := c.Query("ordenar")
	if sortBy == "" {
		sortBy = c.Query("sort_by")
	}
	out, err := h.familySvc.List(c.Request.Context(), c.Query("busca"), sortBy, page, perPage)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

// Detail handles GET /api/familias/:nome.
func (h *FamilyHandler) Detail(c *gin.Context) {
	out, err := h.familySvc.Detail(c.Request.Context(), c.Param("nome"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

// Validate handles GET /api/admin/familias/validar?familia=.
func (h *FamilyHandler) Validate(c *gin.Context) {
	out, err := h.familySvc.Validate(c.Request.Context(), c.Query("familia"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

// Stats handles GET /api/admin/familias/stats.
func (h *FamilyHandler) Stats(c *gin.Context) {
	out, err := h.familySvc.Stats(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

type renameRequest struct {
	FamiliaAtual string `json:"familia_atual"`
	FamiliaNova  string `json:"familia_nova"`
}

// Rename handles POST /api/admin/familias/renomear. Renaming onto an
// existing family merges the two.
func (h *FamilyHandler) Rename(c *gin.Context) {
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	out, err := h.familySvc.Rename(c.Request.Context(), req.FamiliaAtual, req.FamiliaNova, middleware.Actor(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}
