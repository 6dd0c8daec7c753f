package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mzflora/plantario-backend/internal/data/aggregates"
	"github.com/mzflora/plantario-backend/internal/http/middleware"
	"github.com/mzflora/plantario-backend/internal/http/response"
	"github.com/mzflora/plantario-backend/internal/plantdoc"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
	"github.com/mzflora/plantario-backend/internal/services"
)

type WizardHandler struct {
	wizardSvc services.WizardService
	log       *logger.Logger
}

func NewWizardHandler(wizardSvc services.WizardService, log *logger.Logger) *WizardHandler {
	return &WizardHandler{wizardSvc: wizardSvc, log: log.With("handler", "wizard")}
}

type wizardStepRequest struct {
	DraftID string                `json:"draft_id"`
	Etapa   int                   `json:"etapa"`
	Dados   aggregates.PlantInput `json:"dados"`
}

// SaveStep handles POST /api/admin/wizard/draft/save.
func (h *WizardHandler) SaveStep(c *gin.Context) {
	var req wizardStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	draft, err := h.wizardSvc.SaveStep(c.Request.Context(), req.DraftID, req.Etapa, req.Dados)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, draft)
}

// GetDraft handles GET /api/admin/wizard/draft/:draft_id.
func (h *WizardHandler) GetDraft(c *gin.Context) {
	draft, err := h.wizardSvc.GetDraft(c.Request.Context(), c.Param("draft_id"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, draft)
}

// DeleteDraft handles DELETE /api/admin/wizard/draft/:draft_id.
func (h *WizardHandler) DeleteDraft(c *gin.Context) {
	if err := h.wizardSvc.DeleteDraft(c.Request.Context(), c.Param("draft_id")); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"mensagem": "rascunho descartado"})
}

// ValidateStep handles POST /api/admin/wizard/validate/step. Invalid
// input answers 400 with the per-field error map in the body.
func (h *WizardHandler) ValidateStep(c *gin.Context) {
	var req wizardStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	out, err := h.wizardSvc.ValidateStep(c.Request.Context(), req.Etapa, req.Dados)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if !out.Valid {
		c.JSON(http.StatusBadRequest, out)
		return
	}
	response.RespondOK(c, out)
}

// Health handles GET /api/admin/wizard/health.
func (h *WizardHandler) Health(c *gin.Context) {
	response.RespondOK(c, h.wizardSvc.Health(c.Request.Context()))
}

type wizardCreateRequest struct {
	DraftID string `json:"draft_id"`
	aggregates.PlantInput
}

// Finalize handles POST /api/admin/wizard/plantas. A body carrying a
// draft_id turns the accumulated draft into a plant; otherwise the body
// itself is the full plant payload.
func (h *WizardHandler) Finalize(c *gin.Context) {
	var req wizardCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	var (
		doc *plantdoc.Document
		err error
	)
	if req.DraftID != "" {
		doc, err = h.wizardSvc.Finalize(c.Request.Context(), req.DraftID, middleware.Actor(c))
	} else {
		doc, err = h.wizardSvc.CreatePlant(c.Request.Context(), req.PlantInput, middleware.Actor(c))
	}
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, doc)
}
