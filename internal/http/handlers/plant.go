package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mzflora/plantario-backend/internal/data/aggregates"
	"github.com/mzflora/plantario-backend/internal/data/repos/plants"
	"github.com/mzflora/plantario-backend/internal/http/middleware"
	"github.com/mzflora/plantario-backend/internal/http/response"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
	"github.com/mzflora/plantario-backend/internal/services"
)

type PlantHandler struct {
	plantSvc       services.PlantService
	placeholderSvc services.PlaceholderService
	log            *logger.Logger
}

func NewPlantHandler(plantSvc services.PlantService, placeholderSvc services.PlaceholderService, log *logger.Logger) *PlantHandler {
	return &PlantHandler{
		plantSvc:       plantSvc,
		placeholderSvc: placeholderSvc,
		log:            log.With("handler", "plant"),
	}
}

// List handles GET /api/plantas.
func (h *PlantHandler) List(c *gin.Context) {
	page, perPage := pagination(c)
	busca := c.Query("busca")
	if busca == "" {
		busca = c.Query("search")
	}
	f := plants.ListFilter{
		Familia:          c.Query("familia"),
		Search:           busca,
		SearchPopular:    c.Query("search_popular"),
		SearchCientifico: c.Query("search_cientifico"),
		ProvinciaID:      uintQuery(c, "provincia_id"),
		ParteUsada:       c.Query("parte_usada"),
		IndicacaoID:      uintQuery(c, "indicacao_id"),
		AutorID:          uintQuery(c, "autor_id"),
		Offset:           (page - 1) * perPage,
		Limit:            perPage,
	}
	out, err := h.plantSvc.List(c.Request.Context(), f, page)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

// Get handles GET /api/plantas/:id.
func (h *PlantHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("id inválido"))
		return
	}
	doc, err := h.plantSvc.ViewDocument(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, doc)
}

// GetByName handles GET /api/plantas/nome/:nome.
func (h *PlantHandler) GetByName(c *gin.Context) {
	nome := c.Param("nome")
	doc, err := h.plantSvc.GetDocumentByName(c.Request.Context(), nome)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, doc)
}

// Placeholder handles GET /api/admin/plantas/:id/placeholder for plants
// still waiting on a photograph.
func (h *PlantHandler) Placeholder(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("id inválido"))
		return
	}
	doc, err := h.plantSvc.GetDocument(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	png, err := h.placeholderSvc.Render(doc.NomeCientifico, doc.Familia)
	if err != nil {
		h.log.Error("placeholder render failed", "id_planta", id, "error", err)
		response.RespondError(c, http.StatusInternalServerError, "render_failed", err)
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/png", png)
}

// Create handles POST /api/plantas and its /api/admin twin.
func (h *PlantHandler) Create(c *gin.Context) {
	var in aggregates.PlantInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	doc, err := h.plantSvc.Create(c.Request.Context(), in, middleware.Actor(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, doc)
}

// Update handles PUT /api/plantas/:id and its /api/admin twin.
func (h *PlantHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("id inválido"))
		return
	}
	var in aggregates.PlantUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	doc, err := h.plantSvc.Update(c.Request.Context(), id, in, middleware.Actor(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, doc)
}

// Delete handles DELETE /api/plantas/:id and its /api/admin twin.
func (h *PlantHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("id inválido"))
		return
	}
	if err := h.plantSvc.Delete(c.Request.Context(), id, middleware.Actor(c)); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"mensagem": "planta removida", "id_planta": id})
}
