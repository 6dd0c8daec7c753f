package app

import (
	"github.com/gin-gonic/gin"

	apihttp "github.com/mzflora/plantario-backend/internal/http"
	httpH "github.com/mzflora/plantario-backend/internal/http/handlers"
	httpMW "github.com/mzflora/plantario-backend/internal/http/middleware"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
)

type Handlers struct {
	Health      *httpH.HealthHandler
	Auth        *httpH.AuthHandler
	Plant       *httpH.PlantHandler
	Family      *httpH.FamilyHandler
	Search      *httpH.SearchHandler
	Aux         *httpH.AuxHandler
	Image       *httpH.ImageHandler
	Author      *httpH.AuthorHandler
	Reference   *httpH.ReferenceHandler
	Affiliation *httpH.AffiliationHandler
	Wizard      *httpH.WizardHandler
	WizardData  *httpH.WizardDataHandler
	Stats       *httpH.StatsHandler
}

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

func wireHandlers(log *logger.Logger, s Services, r Repos) Handlers {
	return Handlers{
		Health:      httpH.NewHealthHandler(),
		Auth:        httpH.NewAuthHandler(s.Auth, log),
		Plant:       httpH.NewPlantHandler(s.Plant, s.Placeholder, log),
		Family:      httpH.NewFamilyHandler(s.Family, log),
		Search:      httpH.NewSearchHandler(s.Search, log),
		Aux:         httpH.NewAuxHandler(r.Province, r.Site, r.Part, r.Indication, r.Method, log),
		Image:       httpH.NewImageHandler(s.Image, log),
		Author:      httpH.NewAuthorHandler(s.Author, log),
		Reference:   httpH.NewReferenceHandler(s.Reference, log),
		Affiliation: httpH.NewAffiliationHandler(s.Affiliation, log),
		Wizard:      httpH.NewWizardHandler(s.Wizard, log),
		WizardData:  httpH.NewWizardDataHandler(r.Plant, r.Province, r.Site, r.Part, r.Indication, r.Method, r.Author, r.Reference, log),
		Stats:       httpH.NewStatsHandler(s.Stats, s.Audit, log),
	}
}

func wireMiddleware(log *logger.Logger, s Services) Middleware {
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, s.Auth),
	}
}

func wireRouter(log *logger.Logger, cfg Config, h Handlers, mw Middleware) *gin.Engine {
	return apihttp.NewRouter(apihttp.RouterConfig{
		Log:            log,
		AuthMiddleware: mw.Auth,
		CORSOrigins:    cfg.CORSOrigins,
		UploadRoot:     cfg.UploadRoot,

		HealthHandler:      h.Health,
		AuthHandler:        h.Auth,
		PlantHandler:       h.Plant,
		FamilyHandler:      h.Family,
		SearchHandler:      h.Search,
		AuxHandler:         h.Aux,
		ImageHandler:       h.Image,
		AuthorHandler:      h.Author,
		ReferenceHandler:   h.Reference,
		AffiliationHandler: h.Affiliation,
		WizardHandler:      h.Wizard,
		WizardDataHandler:  h.WizardData,
		StatsHandler:       h.Stats,
	})
}
