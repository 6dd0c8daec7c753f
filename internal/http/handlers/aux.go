package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mzflora/plantario-backend/internal/data/aggregates"
	"github.com/mzflora/plantario-backend/internal/data/repos/locations"
	"github.com/mzflora/plantario-backend/internal/data/repos/usage"
	"github.com/mzflora/plantario-backend/internal/domain"
	"github.com/mzflora/plantario-backend/internal/http/response"
	"github.com/mzflora/plantario-backend/internal/platform/dbctx"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
)

// AuxHandler serves the small lookup lists the wizard forms feed from.
type AuxHandler struct {
	provRepo   locations.ProvinceRepo
	siteRepo   locations.SiteRepo
	partRepo   usage.PartRepo
	indRepo    usage.IndicationRepo
	methodRepo usage.MethodRepo
	log        *logger.Logger
}

func NewAuxHandler(
	provRepo locations.ProvinceRepo,
	siteRepo locations.SiteRepo,
	partRepo usage.PartRepo,
	indRepo usage.IndicationRepo,
	methodRepo usage.MethodRepo,
	log *logger.Logger,
) *AuxHandler {
	return &AuxHandler{
		provRepo:   provRepo,
		siteRepo:   siteRepo,
		partRepo:   partRepo,
		indRepo:    indRepo,
		methodRepo: methodRepo,
		log:        log.With("handler", "aux"),
	}
}

// Provinces handles GET /api/provincias.
func (h *AuxHandler) Provinces(c *gin.Context) {
	out, err := h.provRepo.List(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		response.RespondErr(c, aggregates.MapError("aux.provinces", err))
		return
	}
	response.RespondOK(c, gin.H{"provincias": out})
}

// Regions handles GET /api/regioes.
func (h *AuxHandler) Regions(c *gin.Context) {
	out, err := h.provRepo.ListRegions(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		response.RespondErr(c, aggregates.MapError("aux.regions", err))
		return
	}
	response.RespondOK(c, gin.H{"regioes": out})
}

// CreateProvince handles POST /api/admin/provincias.
func (h *AuxHandler) CreateProvince(c *gin.Context) {
	var req struct {
		Nome string `json:"nome_provincia"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	nome := strings.TrimSpace(req.Nome)
	if nome == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_provincia", errors.New("nome_provincia é obrigatório"))
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	if existing, err := h.provRepo.GetByName(dbc, nome); err == nil && existing != nil {
		response.RespondError(c, http.StatusConflict, "duplicate_provincia", errors.New("província já existe"))
		return
	}
	p := domain.Provincia{Nome: nome}
	if err := h.provRepo.Create(dbc, &p); err != nil {
		response.RespondErr(c, aggregates.MapError("aux.create_province", err))
		return
	}
	response.RespondCreated(c, p)
}

// Sites handles GET /api/locais-colheita?provincia_id=.
func (h *AuxHandler) Sites(c *gin.Context) {
	provID, _ := strconv.ParseUint(c.Query("provincia_id"), 10, 32)
	out, err := h.siteRepo.List(dbctx.Context{Ctx: c.Request.Context()}, uint(provID))
	if err != nil {
		response.RespondErr(c, aggregates.MapError("aux.sites", err))
		return
	}
	response.RespondOK(c, gin.H{"locais_colheita": out})
}

// CreateSite handles POST /api/admin/locais-colheita. Reuses an
// existing site with the same name in the same province.
func (h *AuxHandler) CreateSite(c *gin.Context) {
	var req struct {
		ProvinciaID uint   `json:"id_provincia"`
		NomeLocal   string `json:"nome_local"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if strings.TrimSpace(req.NomeLocal) == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_local", errors.New("nome_local é obrigatório"))
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	if _, err := h.provRepo.GetByID(dbc, req.ProvinciaID); err != nil {
		response.RespondError(c, http.StatusBadRequest, "unknown_province", errors.New("província inexistente"))
		return
	}
	site, err := h.siteRepo.FindOrCreate(dbc, req.ProvinciaID, strings.TrimSpace(req.NomeLocal))
	if err != nil {
		response.RespondErr(c, aggregates.MapError("aux.create_site", err))
		return
	}
	response.RespondCreated(c, site)
}

// Parts handles GET /api/partes.
func (h *AuxHandler) Parts(c *gin.Context) {
	out, err := h.partRepo.List(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		response.RespondErr(c, aggregates.MapError("aux.parts", err))
		return
	}
	response.RespondOK(c, gin.H{"partes_usadas": out})
}

// Indications handles GET /api/indicacoes.
func (h *AuxHandler) Indications(c *gin.Context) {
	out, err := h.indRepo.List(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		response.RespondErr(c, aggregates.MapError("aux.indications", err))
		return
	}
	response.RespondOK(c, gin.H{"indicacoes": out})
}

// PreparationMethods handles GET /api/metodos-preparacao.
func (h *AuxHandler) PreparationMethods(c *gin.Context) {
	out, err := h.methodRepo.ListPreparations(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		response.RespondErr(c, aggregates.MapError("aux.preparation_methods", err))
		return
	}
	response.RespondOK(c, gin.H{"metodos_preparacao": out})
}

// ExtractionMethods handles GET /api/metodos-extracao.
func (h *AuxHandler) ExtractionMethods(c *gin.Context) {
	out, err := h.methodRepo.ListExtractions(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		response.RespondErr(c, aggregates.MapError("aux.extraction_methods", err))
		return
	}
	response.RespondOK(c, gin.H{"metodos_extracao": out})
}
