package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mzflora/plantario-backend/internal/http/middleware"
	"github.com/mzflora/plantario-backend/internal/http/response"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
	"github.com/mzflora/plantario-backend/internal/services"
)

type AffiliationHandler struct {
	affSvc services.AffiliationService
	log    *logger.Logger
}

func NewAffiliationHandler(affSvc services.AffiliationService, log *logger.Logger) *AffiliationHandler {
	return &AffiliationHandler{affSvc: affSvc, log: log.With("handler", "affiliation")}
}

// List handles GET /api/afiliacoes.
func (h *AffiliationHandler) List(c *gin.Context) {
	out, err := h.affSvc.List(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"afiliacoes": out})
}

type affiliationRequest struct {
	NomeAfiliacao  string `json:"nome_afiliacao"`
	SiglaAfiliacao string `json:"sigla_afiliacao"`
}

// Create handles POST /api/admin/afiliacoes.
func (h *AffiliationHandler) Create(c *gin.Context) {
	var req affiliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	out, err := h.affSvc.Create(c.Request.Context(), req.NomeAfiliacao, req.SiglaAfiliacao, middleware.Actor(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, out)
}

// Update handles PUT /api/admin/afiliacoes/:id.
func (h *AffiliationHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("id inválido"))
		return
	}
	var req affiliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	out, err := h.affSvc.Update(c.Request.Context(), id, req.NomeAfiliacao, req.SiglaAfiliacao, middleware.Actor(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

// Delete handles DELETE /api/admin/afiliacoes/:id. Refused with 409
// while authors still hold the affiliation.
func (h *AffiliationHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("id inválido"))
		return
	}
	if err := h.affSvc.Delete(c.Request.Context(), id, middleware.Actor(c)); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"mensagem": "afiliação removida", "id_afiliacao": id})
}
