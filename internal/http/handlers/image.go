package handlers

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mzflora/plantario-backend/internal/http/middleware"
	"github.com/mzflora/plantario-backend/internal/http/response"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
	"github.com/mzflora/plantario-backend/internal/services"
)

type ImageHandler struct {
	imageSvc services.ImageService
	log      *logger.Logger
}

func NewImageHandler(imageSvc services.ImageService, log *logger.Logger) *ImageHandler {
	return &ImageHandler{imageSvc: imageSvc, log: log.With("handler", "image")}
}

// ListByPlant handles GET /api/plantas/:id/imagens.
func (h *ImageHandler) ListByPlant(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("id inválido"))
		return
	}
	out, err := h.imageSvc.ListByPlant(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"imagens": out})
}

type base64ImageRequest struct {
	NomeArquivo string `json:"nome_arquivo"`
	Conteudo    string `json:"conteudo"`
	Legenda     string `json:"legenda"`
	Referencia  string `json:"referencia"`
}

// Upload handles POST /api/plantas/:id/imagens and its /api/admin twin.
// The photo arrives either as a multipart file field "imagem" or as
// base64 JSON.
func (h *ImageHandler) Upload(c *gin.Context) {
	plantID, ok := uintParam(c, "id")
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("id inválido"))
		return
	}

	up, err := h.readUpload(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_upload", err)
		return
	}

	img, err := h.imageSvc.Upload(c.Request.Context(), plantID, *up, middleware.Actor(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, img)
}

func (h *ImageHandler) readUpload(c *gin.Context) (*services.ImageUpload, error) {
	contentType := c.GetHeader("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		fileHeader, err := c.FormFile("imagem")
		if err != nil {
			return nil, errors.New("campo de arquivo 'imagem' ausente")
		}
		f, err := fileHeader.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, err
		}
		return &services.ImageUpload{
			Filename:   fileHeader.Filename,
			Data:       data,
			Legenda:    c.PostForm("legenda"),
			Referencia: c.PostForm("referencia"),
		}, nil
	}

	var req base64ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, err
	}
	// Tolerate data-URI prefixes from browser clients.
	payload := req.Conteudo
	if idx := strings.Index(payload, ";base64,"); idx >= 0 {
		payload = payload[idx+len(";base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, errors.New("conteúdo base64 inválido")
	}
	return &services.ImageUpload{
		Filename:   req.NomeArquivo,
		Data:       data,
		Legenda:    req.Legenda,
		Referencia: req.Referencia,
	}, nil
}

type imageMetaRequest struct {
	Legenda    string `json:"legenda"`
	Referencia string `json:"referencia"`
}

// UpdateMeta handles PUT /api/imagens/:id and its /api/admin twin.
func (h *ImageHandler) UpdateMeta(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("id inválido"))
		return
	}
	var req imageMetaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	img, err := h.imageSvc.UpdateMeta(c.Request.Context(), id, req.Legenda, req.Referencia, middleware.Actor(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, img)
}

// Delete handles DELETE /api/imagens/:id and its /api/admin twin.
func (h *ImageHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("id inválido"))
		return
	}
	if err := h.imageSvc.Delete(c.Request.Context(), id, middleware.Actor(c)); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"mensagem": "imagem removida", "id_imagem": id})
}
