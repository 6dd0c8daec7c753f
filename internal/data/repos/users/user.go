package users

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mzflora/plantario-backend/internal/domain"
	"github.com/mzflora/plantario-backend/internal/platform/dbctx"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, u *domain.Usuario) error
	GetByID(dbc dbctx.Context, id uint) (*domain.Usuario, error)
	GetByEmail(dbc dbctx.Context, email string) (*domain.Usuario, error)
	TouchLogin(dbc dbctx.Context, id uint) error
	CreateSession(dbc dbctx.Context, s *domain.SessaoUsuario) error
	GetSession(dbc dbctx.Context, sessionID string) (*domain.SessaoUsuario, error)
	RevokeSession(dbc dbctx.Context, sessionID string) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "user")}
}

func (r *userRepo) handle(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *userRepo) Create(dbc dbctx.Context, u *domain.Usuario) error {
	if err := r.handle(dbc).Create(u).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *userRepo) GetByID(dbc dbctx.Context, id uint) (*domain.Usuario, error) {
	var u domain.Usuario
	if err := r.handle(dbc).First(&u, "id_usuario = ?", id).Error; err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(dbc dbctx.Context, email string) (*domain.Usuario, error) {
	var u domain.Usuario
	err := r.handle(dbc).
		Where("LOWER(email) = LOWER(?)", strings.TrimSpace(email)).
		First(&u).Error
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

func (r *userRepo) TouchLogin(dbc dbctx.Context, id uint) error {
	now := time.Now().UTC()
	err := r.handle(dbc).Model(&domain.Usuario{}).
		Where("id_usuario = ?", id).
		Update("ultimo_login", now).Error
	if err != nil {
		return fmt.Errorf("touch login for user %d: %w", id, err)
	}
	return nil
}

func (r *userRepo) CreateSession(dbc dbctx.Context, s *domain.SessaoUsuario) error {
	if err := r.handle(dbc).Create(s).Error; err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *userRepo) GetSession(dbc dbctx.Context, sessionID string) (*domain.SessaoUsuario, error) {
	var s domain.SessaoUsuario
	if err := r.handle(dbc).First(&s, "id_sessao = ?", sessionID).Error; err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &s, nil
}

func (r *userRepo) RevokeSession(dbc dbctx.Context, sessionID string) error {
	err := r.handle(dbc).Model(&domain.SessaoUsuario{}).
		Where("id_sessao = ?", sessionID).
		Update("ativo", false).Error
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
