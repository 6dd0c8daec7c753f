package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpH "github.com/mzflora/plantario-backend/internal/http/handlers"
	httpMW "github.com/mzflora/plantario-backend/internal/http/middleware"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AuthMiddleware *httpMW.AuthMiddleware
	CORSOrigins    []string
	UploadRoot     string

	HealthHandler      *httpH.HealthHandler
	AuthHandler        *httpH.AuthHandler
	PlantHandler       *httpH.PlantHandler
	FamilyHandler      *httpH.FamilyHandler
	SearchHandler      *httpH.SearchHandler
	AuxHandler         *httpH.AuxHandler
	ImageHandler       *httpH.ImageHandler
	AuthorHandler      *httpH.AuthorHandler
	ReferenceHandler   *httpH.ReferenceHandler
	AffiliationHandler *httpH.AffiliationHandler
	WizardHandler      *httpH.WizardHandler
	WizardDataHandler  *httpH.WizardDataHandler
	StatsHandler       *httpH.StatsHandler
}

// NewRouter wires every route of the API: the public catalog, the
// admin group behind JWT auth and the static uploads tree.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	r.GET("/", cfg.HealthHandler.Root)
	r.GET("/health", cfg.HealthHandler.Health)
	r.Static("/uploads/plantas_imagens", cfg.UploadRoot)

	api := r.Group("/api")
	{
		api.GET("/plantas", cfg.PlantHandler.List)
		api.GET("/plantas/:id", cfg.PlantHandler.Get)
		api.GET("/plantas/nome/:nome", cfg.PlantHandler.GetByName)
		api.GET("/plantas/:id/imagens", cfg.ImageHandler.ListByPlant)

		api.GET("/familias", cfg.FamilyHandler.List)
		api.GET("/familias/:nome", cfg.FamilyHandler.Detail)

		api.GET("/busca", cfg.SearchHandler.Search)
		api.GET("/busca/autocomplete", cfg.SearchHandler.Autocomplete)
		api.GET("/busca/stats", cfg.SearchHandler.Stats)

		api.GET("/provincias", cfg.AuxHandler.Provinces)
		api.GET("/regioes", cfg.AuxHandler.Regions)
		api.GET("/locais-colheita", cfg.AuxHandler.Sites)
		api.GET("/partes", cfg.AuxHandler.Parts)
		api.GET("/indicacoes", cfg.AuxHandler.Indications)
		api.GET("/metodos-preparacao", cfg.AuxHandler.PreparationMethods)
		api.GET("/metodos-extracao", cfg.AuxHandler.ExtractionMethods)
		api.GET("/afiliacoes", cfg.AffiliationHandler.List)

		api.POST("/plantas", cfg.PlantHandler.Create)
		api.PUT("/plantas/:id", cfg.PlantHandler.Update)
		api.DELETE("/plantas/:id", cfg.PlantHandler.Delete)

		api.POST("/plantas/:id/imagens", cfg.ImageHandler.Upload)
		api.PUT("/imagens/:id", cfg.ImageHandler.UpdateMeta)
		api.DELETE("/imagens/:id", cfg.ImageHandler.Delete)

		api.POST("/auth/login", cfg.AuthHandler.Login)
		api.POST("/auth/logout", cfg.AuthHandler.Logout)
		// Legacy admin login path kept for older frontends.
		api.POST("/admin/login", cfg.AuthHandler.Login)
	}

	admin := api.Group("/admin")
	admin.Use(cfg.AuthMiddleware.RequireAuth())
	{
		admin.GET("/plantas", cfg.PlantHandler.List)
		admin.POST("/plantas", cfg.PlantHandler.Create)
		admin.PUT("/plantas/:id", cfg.PlantHandler.Update)
		admin.DELETE("/plantas/:id", cfg.PlantHandler.Delete)
		admin.GET("/plantas/:id/placeholder", cfg.PlantHandler.Placeholder)
		admin.POST("/plantas/:id/imagens", cfg.ImageHandler.Upload)
		admin.PUT("/imagens/:id", cfg.ImageHandler.UpdateMeta)
		admin.DELETE("/imagens/:id", cfg.ImageHandler.Delete)

		admin.GET("/familias", cfg.FamilyHandler.List)
		admin.GET("/familias/stats", cfg.FamilyHandler.Stats)
		admin.GET("/familias/validar", cfg.FamilyHandler.Validate)
		admin.POST("/familias/renomear", cfg.FamilyHandler.Rename)

		admin.GET("/autores", cfg.AuthorHandler.List)
		admin.GET("/autores/:id", cfg.AuthorHandler.Get)
		admin.POST("/autores", cfg.AuthorHandler.Create)
		admin.PUT("/autores/:id", cfg.AuthorHandler.Update)
		admin.DELETE("/autores/:id", cfg.AuthorHandler.Delete)
		admin.POST("/autores/:id/afiliacoes/:aff_id", cfg.AuthorHandler.AttachAffiliation)
		admin.DELETE("/autores/:id/afiliacoes/:aff_id", cfg.AuthorHandler.DetachAffiliation)

		admin.GET("/referencias", cfg.ReferenceHandler.List)
		admin.GET("/referencias/:id", cfg.ReferenceHandler.Get)
		admin.POST("/referencias", cfg.ReferenceHandler.Create)
		admin.PUT("/referencias/:id", cfg.ReferenceHandler.Update)
		admin.DELETE("/referencias/:id", cfg.ReferenceHandler.Delete)

		admin.POST("/provincias", cfg.AuxHandler.CreateProvince)
		admin.POST("/locais-colheita", cfg.AuxHandler.CreateSite)

		admin.POST("/afiliacoes", cfg.AffiliationHandler.Create)
		admin.PUT("/afiliacoes/:id", cfg.AffiliationHandler.Update)
		admin.DELETE("/afiliacoes/:id", cfg.AffiliationHandler.Delete)

		admin.GET("/wizard/data/familias", cfg.WizardDataHandler.Familias)
		admin.GET("/wizard/data/provincias", cfg.WizardDataHandler.Provincias)
		admin.GET("/wizard/data/locais", cfg.WizardDataHandler.Locais)
		admin.GET("/wizard/data/partes-usadas", cfg.WizardDataHandler.PartesUsadas)
		admin.GET("/wizard/data/indicacoes", cfg.WizardDataHandler.Indicacoes)
		admin.GET("/wizard/data/metodos-preparacao", cfg.WizardDataHandler.MetodosPreparacao)
		admin.GET("/wizard/data/metodos-extracao", cfg.WizardDataHandler.MetodosExtracao)
		admin.GET("/wizard/data/autores", cfg.WizardDataHandler.Autores)
		admin.GET("/wizard/data/referencias", cfg.WizardDataHandler.Referencias)

		admin.POST("/wizard/draft/save", cfg.WizardHandler.SaveStep)
		admin.GET("/wizard/draft/:draft_id", cfg.WizardHandler.GetDraft)
		admin.DELETE("/wizard/draft/:draft_id", cfg.WizardHandler.DeleteDraft)
		admin.POST("/wizard/validate/step", cfg.WizardHandler.ValidateStep)
		admin.POST("/wizard/plantas", cfg.WizardHandler.Finalize)
		admin.GET("/wizard/health", cfg.WizardHandler.Health)

		admin.GET("/dashboard/stats", cfg.StatsHandler.Dashboard)
		admin.GET("/logs/acoes", cfg.StatsHandler.AuditLog)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
		c.AllowCredentials = false
	} else {
		c.AllowOrigins = origins
	}
	return c
}
