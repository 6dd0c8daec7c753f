package handlers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mzflora/plantario-backend/internal/data/aggregates"
	"github.com/mzflora/plantario-backend/internal/data/repos/locations"
	"github.com/mzflora/plantario-backend/internal/data/repos/plants"
	"github.com/mzflora/plantario-backend/internal/data/repos/refs"
	"github.com/mzflora/plantario-backend/internal/data/repos/usage"
	"github.com/mzflora/plantario-backend/internal/http/response"
	"github.com/mzflora/plantario-backend/internal/platform/dbctx"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
)

// Select fields load the whole list at once; the catalog is small.
const wizardDataLimit = 1000

// WizardDataHandler serves the select-option lists the wizard forms
// feed from, under /api/admin/wizard/data. Each row carries label and
// value keys next to its entity fields.
type WizardDataHandler struct {
	plantRepo  plants.PlantRepo
	provRepo   locations.ProvinceRepo
	siteRepo   locations.SiteRepo
	partRepo   usage.PartRepo
	indRepo    usage.IndicationRepo
	methodRepo usage.MethodRepo
	authorRepo refs.AuthorRepo
	refRepo    refs.ReferenceRepo
	log        *logger.Logger
}

func NewWizardDataHandler(
	plantRepo plants.PlantRepo,
	provRepo locations.ProvinceRepo,
	siteRepo locations.SiteRepo,
	partRepo usage.PartRepo,
	indRepo usage.IndicationRepo,
	methodRepo usage.MethodRepo,
	authorRepo refs.AuthorRepo,
	refRepo refs.ReferenceRepo,
	log *logger.Logger,
) *WizardDataHandler {
	return &WizardDataHandler{
		plantRepo:  plantRepo,
		provRepo:   provRepo,
		siteRepo:   siteRepo,
		partRepo:   partRepo,
		indRepo:    indRepo,
		methodRepo: methodRepo,
		authorRepo: authorRepo,
		refRepo:    refRepo,
		log:        log.With("handler", "wizard_data"),
	}
}

// Familias handles GET /api/admin/wizard/data/familias. Families are a
// text column, so value is the name itself.
func (h *WizardDataHandler) Familias(c *gin.Context) {
	fams, err := h.plantRepo.ListFamilies(dbctx.Context{Ctx: c.Request.Context()}, "")
	if err != nil {
		response.RespondErr(c, aggregates.MapError("wizard_data.familias", err))
		return
	}
	out := make([]gin.H, 0, len(fams))
	for i, f := range fams {
		out = append(out, gin.H{
			"id":           i + 1,
			"nome_familia": f.Familia,
			"label":        f.Familia,
			"value":        f.Familia,
		})
	}
	response.RespondOK(c, out)
}

// Provincias handles GET /api/admin/wizard/data/provincias.
func (h *WizardDataHandler) Provincias(c *gin.Context) {
	provs, err := h.provRepo.List(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		response.RespondErr(c, aggregates.MapError("wizard_data.provincias", err))
		return
	}
	out := make([]gin.H, 0, len(provs))
	for _, p := range provs {
		out = append(out, gin.H{
			"id_provincia":   p.ID,
			"nome_provincia": p.Nome,
			"label":          p.Nome,
			"value":          p.ID,
		})
	}
	response.RespondOK(c, out)
}

// Locais handles GET /api/admin/wizard/data/locais?provincia_id=.
func (h *WizardDataHandler) Locais(c *gin.Context) {
	provID, _ := strconv.ParseUint(c.Query("provincia_id"), 10, 32)
	sites, err := h.siteRepo.List(dbctx.Context{Ctx: c.Request.Context()}, uint(provID))
	if err != nil {
		response.RespondErr(c, aggregates.MapError("wizard_data.locais", err))
		return
	}
	out := make([]gin.H, 0, len(sites))
	for _, s := range sites {
		out = append(out, gin.H{
			"id_local":     s.ID,
			"nome_local":   s.NomeLocal,
			"id_provincia": s.ProvinciaID,
			"label":        s.NomeLocal,
			"value":        s.ID,
		})
	}
	response.RespondOK(c, out)
}

// PartesUsadas handles GET /api/admin/wizard/data/partes-usadas.
func (h *WizardDataHandler) PartesUsadas(c *gin.Context) {
	parts, err := h.partRepo.List(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		response.RespondErr(c, aggregates.MapError("wizard_data.partes", err))
		return
	}
	out := make([]gin.H, 0, len(parts))
	for _, p := range parts {
		out = append(out, gin.H{
			"id_parte":   p.ID,
			"nome_parte": p.NomeParte,
			"label":      p.NomeParte,
			"value":      p.ID,
		})
	}
	response.RespondOK(c, out)
}

// Indicacoes handles GET /api/admin/wizard/data/indicacoes. Long
// descriptions are clipped for the label; the full text stays in
// descricao_uso.
func (h *WizardDataHandler) Indicacoes(c *gin.Context) {
	inds, err := h.indRepo.List(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		response.RespondErr(c, aggregates.MapError("wizard_data.indicacoes", err))
		return
	}
	out := make([]gin.H, 0, len(inds))
	for _, ind := range inds {
		out = append(out, gin.H{
			"id_uso":        ind.ID,
			"descricao_uso": ind.DescricaoUso,
			"label":         clipLabel(ind.DescricaoUso),
			"value":         ind.ID,
		})
	}
	response.RespondOK(c, out)
}

// MetodosPreparacao handles GET /api/admin/wizard/data/metodos-preparacao.
func (h *WizardDataHandler) MetodosPreparacao(c *gin.Context) {
	metodos, err := h.methodRepo.ListPreparations(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		response.RespondErr(c, aggregates.MapError("wizard_data.metodos_preparacao", err))
		return
	}
	out := make([]gin.H, 0, len(metodos))
	for _, m := range metodos {
		out = append(out, gin.H{
			"id_preparacao": m.ID,
			"descricao":     m.Descricao,
			"label":         m.Descricao,
			"value":         m.ID,
		})
	}
	response.RespondOK(c, out)
}

// MetodosExtracao handles GET /api/admin/wizard/data/metodos-extracao.
func (h *WizardDataHandler) MetodosExtracao(c *gin.Context) {
	metodos, err := h.methodRepo.ListExtractions(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		response.RespondErr(c, aggregates.MapError("wizard_data.metodos_extracao", err))
		return
	}
	out := make([]gin.H, 0, len(metodos))
	for _, m := range metodos {
		out = append(out, gin.H{
			"id_extraccao": m.ID,
			"descricao":    m.Descricao,
			"label":        m.Descricao,
			"value":        m.ID,
		})
	}
	response.RespondOK(c, out)
}

// Autores handles GET /api/admin/wizard/data/autores.
func (h *WizardDataHandler) Autores(c *gin.Context) {
	authors, _, err := h.authorRepo.List(dbctx.Context{Ctx: c.Request.Context()}, "", 0, wizardDataLimit)
	if err != nil {
		response.RespondErr(c, aggregates.MapError("wizard_data.autores", err))
		return
	}
	out := make([]gin.H, 0, len(authors))
	for _, a := range authors {
		out = append(out, gin.H{
			"id_autor":   a.ID,
			"nome_autor": a.Nome,
			"label":      a.Nome,
			"value":      a.ID,
		})
	}
	response.RespondOK(c, out)
}

// Referencias handles GET /api/admin/wizard/data/referencias. Each
// option carries its authors so the form can show them inline.
func (h *WizardDataHandler) Referencias(c *gin.Context) {
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	references, _, err := h.refRepo.List(dbc, "", 0, wizardDataLimit)
	if err != nil {
		response.RespondErr(c, aggregates.MapError("wizard_data.referencias", err))
		return
	}
	out := make([]gin.H, 0, len(references))
	for _, r := range references {
		authors, err := h.refRepo.AuthorsByReference(dbc, r.ID)
		if err != nil {
			response.RespondErr(c, aggregates.MapError("wizard_data.referencias", err))
			return
		}
		autores := make([]gin.H, 0, len(authors))
		for _, a := range authors {
			autores = append(autores, gin.H{"id_autor": a.ID, "nome_autor": a.Nome})
		}
		label := r.Titulo
		if r.AnoPublicacao != nil {
			label = fmt.Sprintf("%s (%d)", r.Titulo, *r.AnoPublicacao)
		}
		var link string
		if r.Link != nil {
			link = *r.Link
		}
		out = append(out, gin.H{
			"id_referencia": r.ID,
			"titulo":        r.Titulo,
			"ano":           r.AnoPublicacao,
			"link":          link,
			"autores":       autores,
			"label":         label,
			"value":         r.ID,
		})
	}
	response.RespondOK(c, out)
}

func clipLabel(s string) string {
	const max = 100
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
