// Package app assembles the whole service: configuration, database,
// repositories, services and the HTTP router.
package app

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mzflora/plantario-backend/internal/data/db"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg := LoadConfig(log)

	gdb, err := db.Connect(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.AutoMigrateAll(gdb); err != nil {
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	if err := os.MkdirAll(cfg.UploadRoot, 0o755); err != nil {
		log.Sync()
		return nil, fmt.Errorf("create upload root: %w", err)
	}

	reposet := wireRepos(gdb, log)
	serviceset, err := wireServices(gdb, log, cfg, reposet)
	if err != nil {
		log.Sync()
		return nil, err
	}
	handlerset := wireHandlers(log, serviceset, reposet)
	middleware := wireMiddleware(log, serviceset)
	router := wireRouter(log, cfg, handlerset, middleware)

	return &App{
		Log:      log,
		DB:       gdb,
		Router:   router,
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
	}, nil
}

func (a *App) Run() error {
	addr := ":" + a.Cfg.Port
	a.Log.Info("listening", "addr", addr)
	return a.Router.Run(addr)
}

func (a *App) Close() {
	a.Log.Sync()
}
