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

type ReferenceHandler struct {
	refSvc services.ReferenceService
	log    *logger.Logger
}

func NewReferenceHandler(refSvc services.ReferenceService, log *logger.Logger) *ReferenceHandler {
	return &ReferenceHandler{refSvc: refSvc, log: log.With("handler", "reference")}
}

// List handles GET /api/admin/referencias.
func (h *ReferenceHandler) List(c *gin.Context) {
	page, perPage := pagination(c)
	out, err := h.refSvc.List(c.Request.Context(), c.Query("busca"), page, perPage)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

// Get handles GET /api/admin/referencias/:id.
func (h *ReferenceHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("id inválido"))
		return
	}
	out, err := h.refSvc.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

// Create handles POST /api/admin/referencias.
func (h *ReferenceHandler) Create(c *gin.Context) {
	var req services.ReferenceWrite
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	out, err := h.refSvc.Create(c.Request.Context(), req, middleware.Actor(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, out)
}

// Update handles PUT /api/admin/referencias/:id.
func (h *ReferenceHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("id inválido"))
		return
	}
	var req services.ReferenceWrite
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	out, err := h.refSvc.Update(c.Request.Context(), id, req, middleware.Actor(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

// Delete handles DELETE /api/admin/referencias/:id. Refused with 409
// while plants still cite the reference.
func (h *ReferenceHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("id inválido"))
		return
	}
	if err := h.refSvc.Delete(c.Request.Context(), id, middleware.Actor(c)); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"mensagem": "referência removida", "id_referencia": id})
}
