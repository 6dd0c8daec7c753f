package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mzflora/plantario-backend/internal/http/response"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
	"github.com/mzflora/plantario-backend/internal/services"
)

type AuthHandler struct {
	authSvc services.AuthService
	log     *logger.Logger
}

func NewAuthHandler(authSvc services.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, log: log.With("handler", "auth")}
}

type loginRequest struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	out, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Senha, c.ClientIP(), c.GetHeader("User-Agent"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

type logoutRequest struct {
	SessaoID string `json:"id_sessao"`
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req logoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := h.authSvc.Logout(c.Request.Context(), req.SessaoID); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"mensagem": "sessão encerrada"})
}
