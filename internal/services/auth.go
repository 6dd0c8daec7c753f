package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mzflora/plantario-backend/internal/data/repos/users"
	"github.com/mzflora/plantario-backend/internal/domain"
	"github.com/mzflora/plantario-backend/internal/platform/apierr"
	"github.com/mzflora/plantario-backend/internal/platform/dbctx"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
)

const sessionTTL = 24 * time.Hour

// LoginResult carries the issued token plus the public user fields.
type LoginResult struct {
	Token   string          `json:"token"`
	Usuario *domain.Usuario `json:"usuario"`
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Login(ctx context.Context, email, senha, ip, userAgent string) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	Validate(ctx context.Context, token string) (*Actor, error)
	Register(ctx context.Context, nome, email, senha string) (*domain.Usuario, error)
}

type authService struct {
	userRepo users.UserRepo
	secret   []byte
	log      *logger.Logger
}

func NewAuthService(userRepo users.UserRepo, secret string, baseLog *logger.Logger) (AuthService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("auth: JWT_SECRET is empty")
	}
	return &authService{
		userRepo: userRepo,
		secret:   []byte(secret),
		log:      baseLog.With("service", "auth"),
	}, nil
}

func (s *authService) Login(ctx context.Context, email, senha, ip, userAgent string) (*LoginResult, error) {
	dbc := dbctx.Context{Ctx: ctx}
	user, err := s.userRepo.GetByEmail(dbc, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.New(http.StatusUnauthorized, "invalid_credentials", errors.New("credenciais inválidas"))
		}
		return nil, err
	}
	if !user.Ativo {
		return nil, apierr.New(http.StatusUnauthorized, "user_inactive", errors.New("usuário desativado"))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.SenhaHash), []byte(senha)); err != nil {
		return nil, apierr.New(http.StatusUnauthorized, "invalid_credentials", errors.New("credenciais inválidas"))
	}

	now := time.Now().UTC()
	expires := now.Add(sessionTTL)
	sessionID := uuid.NewString()

	claims := sessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("auth: sign token: %w", err)
	}

	session := &domain.SessaoUsuario{
		ID:            sessionID,
		UsuarioID:     user.ID,
		TokenAcesso:   token,
		IPOrigem:      ip,
		UserAgent:     userAgent,
		DataExpiracao: &expires,
		Ativo:         true,
	}
	if err := s.userRepo.CreateSession(dbc, session); err != nil {
		return nil, err
	}
	if err := s.userRepo.TouchLogin(dbc, user.ID); err != nil {
		s.log.Warn("last login update failed", "id_usuario", user.ID, "error", err)
	}

	s.log.Info("login", "id_usuario", user.ID)
	return &LoginResult{Token: token, Usuario: user}, nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	return s.userRepo.RevokeSession(dbctx.Context{Ctx: ctx}, sessionID)
}

// Validate checks signature, expiry and that the session is still
// active, then returns the acting user.
func (s *authService) Validate(ctx context.Context, token string) (*Actor, error) {
	unauthorized := func(msg string) error {
		return apierr.New(http.StatusUnauthorized, "unauthorized", errors.New(msg))
	}

	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, unauthorized("token inválido ou expirado")
	}

	dbc := dbctx.Context{Ctx: ctx}
	session, err := s.userRepo.GetSession(dbc, claims.SessionID)
	if err != nil {
		return nil, unauthorized("sessão não encontrada")
	}
	if !session.Ativo {
		return nil, unauthorized("sessão encerrada")
	}
	if session.DataExpiracao != nil && time.Now().After(*session.DataExpiracao) {
		return nil, unauthorized("sessão expirada")
	}
	user, err := s.userRepo.GetByID(dbc, session.UsuarioID)
	if err != nil || !user.Ativo {
		return nil, unauthorized("usuário desativado")
	}
	return &Actor{UsuarioID: user.ID, IP: session.IPOrigem}, nil
}

func (s *authService) Register(ctx context.Context, nome, email, senha string) (*domain.Usuario, error) {
	nome = strings.TrimSpace(nome)
	email = strings.ToLower(strings.TrimSpace(email))
	if nome == "" || email == "" {
		return nil, apierr.Validation("missing_fields", "nome_completo e email são obrigatórios")
	}
	if len(senha) < 8 {
		return nil, apierr.Validation("weak_password", "a senha precisa de pelo menos 8 caracteres")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	user := &domain.Usuario{
		NomeCompleto: nome,
		Email:        email,
		SenhaHash:    string(hash),
		Ativo:        true,
	}
	if err := s.userRepo.Create(dbctx.Context{Ctx: ctx}, user); err != nil {
		return nil, err
	}
	return user, nil
}
