package app

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/mzflora/plantario-backend/internal/data/aggregates"
	"github.com/mzflora/plantario-backend/internal/platform/draftstore"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
	"github.com/mzflora/plantario-backend/internal/services"
)

type Services struct {
	Audit       *services.AuditRecorder
	Plant       services.PlantService
	Family      services.FamilyService
	Search      services.SearchService
	Image       services.ImageService
	Placeholder services.PlaceholderService
	Wizard      services.WizardService
	Author      services.AuthorService
	Reference   services.ReferenceService
	Affiliation services.AffiliationService
	Stats       services.StatsService
	Auth        services.AuthService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos) (Services, error) {
	tx := aggregates.NewGormTxRunner(db)
	agg := aggregates.NewPlantAggregate(
		tx,
		r.Plant, r.CommonName, r.Image,
		r.Province, r.Site,
		r.Part, r.Indication, r.Method,
		r.Reference, r.Author, r.Affiliation,
		log,
	)

	audit := services.NewAuditRecorder(r.AuditLog, log)

	plantSvc := services.NewPlantService(
		agg,
		r.Plant, r.CommonName, r.Image,
		r.Site,
		r.Part, r.Indication, r.Method,
		r.Reference, r.Author,
		r.SearchLog,
		audit,
		cfg.UploadRoot,
		log,
	)

	authSvc, err := services.NewAuthService(r.User, cfg.JWTSecretKey, log)
	if err != nil {
		return Services{}, err
	}

	return Services{
		Audit:       audit,
		Plant:       plantSvc,
		Family:      services.NewFamilyService(tx, r.Plant, audit, log),
		Search:      services.NewSearchService(r.Plant, r.CommonName, r.Author, r.Province, r.SearchLog, log),
		Image:       services.NewImageService(r.Plant, r.Image, audit, cfg.UploadRoot, log),
		Placeholder: services.NewPlaceholderService(cfg.PlaceholderFont, log),
		Wizard:      services.NewWizardService(newDraftStore(cfg, log), plantSvc, r.Plant, log),
		Author:      services.NewAuthorService(tx, r.Author, r.Affiliation, audit, log),
		Reference:   services.NewReferenceService(tx, r.Reference, r.Author, audit, log),
		Affiliation: services.NewAffiliationService(r.Affiliation, audit, log),
		Stats:       services.NewStatsService(r.Plant, r.CommonName, r.Image, r.Province, r.Reference, r.Author, r.Indication, r.SearchLog, log),
		Auth:        authSvc,
	}, nil
}

// newDraftStore picks the wizard draft backend: Redis when configured,
// otherwise the in-process map.
func newDraftStore(cfg Config, log *logger.Logger) draftstore.Store {
	if cfg.RedisAddr == "" {
		log.Info("wizard drafts backed by in-memory store")
		return draftstore.NewMemory()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	log.Info("wizard drafts backed by redis", "addr", cfg.RedisAddr)
	return draftstore.NewRedis(client)
}
