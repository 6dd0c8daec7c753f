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

type AuthorHandler struct {
	authorSvc services.AuthorService
	log       *logger.Logger
}

func NewAuthorHandler(authorSvc services.AuthorService, log *logger.Logger) *AuthorHandler {
	return &AuthorHandler{authorSvc: authorSvc, log: log.With("handler", "author")}
}

// List handles GET /api/admin/autores.
func (h *AuthorHandler) List(c *gin.Context) {
	page, perPage := pagination(c)
	out, err := h.authorSvc.List(c.Request.Context(), c.Query("busca"), page, perPage)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

// Get handles GET /api/admin/autores/:id.
func (h *AuthorHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("id inválido"))
		return
	}
	out, err := h.authorSvc.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

type authorRequest struct {
	NomeAutor  string `json:"nome_autor"`
	Afiliacoes []uint `json:"afiliacoes"`
}

// Create handles POST /api/admin/autores.
func (h *AuthorHandler) Create(c *gin.Context) {
	var req authorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	out, err := h.authorSvc.Create(c.Request.Context(), req.NomeAutor, req.Afiliacoes, middleware.Actor(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, out)
}

// Update handles PUT /api/admin/autores/:id.
func (h *AuthorHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("id inválido"))
		return
	}
	var req authorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	out, err := h.authorSvc.Update(c.Request.Context(), id, req.NomeAutor, req.Afiliacoes, middleware.Actor(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

// Delete handles DELETE /api/admin/autores/:id. Refused with 409 while
// references still cite the author.
func (h *AuthorHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("id inválido"))
		return
	}
	if err := h.authorSvc.Delete(c.Request.Context(), id, middleware.Actor(c)); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"mensagem": "autor removido", "id_autor": id})
}

// AttachAffiliation handles POST /api/admin/autores/:id/afiliacoes/:aff_id.
// 409 when the author already carries the affiliation.
func (h *AuthorHandler) AttachAffiliation(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("id inválido"))
		return
	}
	affID, ok := uintParam(c, "aff_id")
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("aff_id inválido"))
		return
	}
	out, err := h.authorSvc.AttachAffiliation(c.Request.Context(), id, affID, middleware.Actor(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

// DetachAffiliation handles DELETE /api/admin/autores/:id/afiliacoes/:aff_id.
// 404 when the link does not exist.
func (h *AuthorHandler) DetachAffiliation(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("id inválido"))
		return
	}
	affID, ok := uintParam(c, "aff_id")
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("aff_id inválido"))
		return
	}
	out, err := h.authorSvc.DetachAffiliation(c.Request.Context(), id, affID, middleware.Actor(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}
