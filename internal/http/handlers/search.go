package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/mzflora/plantario-backend/internal/http/response"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
	"github.com/mzflora/plantario-backend/internal/services"
)

type SearchHandler struct {
	searchSvc services.SearchService
	log       *logger.Logger
}

func NewSearchHandler(searchSvc services.SearchService, log *logger.Logger) *SearchHandler {
	return &SearchHandler{searchSvc: searchSvc, log: log.With("handler", "search")}
}

// Search handles GET /api/busca?q=&tipo=.
func (h *SearchHandler) Search(c *gin.Context) {
	client := services.SearchClient{
		IP:        c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}
	out, err := h.searchSvc.Search(c.Request.Context(), c.Query("q"), c.Query("tipo"), client)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

// Autocomplete handles GET /api/busca/autocomplete?q=&tipo=. Short
// prefixes return an empty list rather than an error.
func (h *SearchHandler) Autocomplete(c *gin.Context) {
	out, err := h.searchSvc.Autocomplete(c.Request.Context(), c.Query("q"), c.Query("tipo"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sugestoes": out})
}

// Stats handles GET /api/busca/stats.
func (h *SearchHandler) Stats(c *gin.Context) {
	out, err := h.searchSvc.Stats(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}
