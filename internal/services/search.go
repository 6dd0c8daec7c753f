package services

import (
	"context"
	"strings"

	"github.com/mzflora/plantario-backend/internal/data/aggregates"
	"github.com/mzflora/plantario-backend/internal/data/repos/locations"
	"github.com/mzflora/plantario-backend/internal/data/repos/logs"
	"github.com/mzflora/plantario-backend/internal/data/repos/plants"
	"github.com/mzflora/plantario-backend/internal/data/repos/refs"
	"github.com/mzflora/plantario-backend/internal/domain"
	"github.com/mzflora/plantario-backend/internal/plantdoc"
	"github.com/mzflora/plantario-backend/internal/platform/apierr"
	"github.com/mzflora/plantario-backend/internal/platform/dbctx"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
)

const (
	minTermLen     = 2
	maxSearchHits  = 50
	maxSuggestions = 10
)

// SearchClient carries request metadata for the search log.
type SearchClient struct {
	IP        string
	UserAgent string
}

type SearchResult struct {
	Termo      string               `json:"termo"`
	Tipo       string               `json:"tipo"`
	Plantas    []plantdoc.Summary   `json:"plantas"`
	Familias   []plants.FamilyCount `json:"familias"`
	Autores    []domain.Autor       `json:"autores"`
	Provincias []domain.Provincia   `json:"provincias"`
	Total      int                  `json:"total"`
}

// SearchStats summarizes recent search activity.
type SearchStats struct {
	TotalPesquisas    int64                `json:"total_pesquisas"`
	PesquisasSemana   int64                `json:"pesquisas_ultima_semana"`
	TermosPopulares   []logs.TermCount     `json:"termos_populares"`
	PesquisasRecentes []domain.LogPesquisa `json:"pesquisas_recentes"`
}

type SearchService interface {
	Search(ctx context.Context, termo, tipo string, client SearchClient) (*SearchResult, error)
	Autocomplete(ctx context.Context, prefix, tipo string) ([]string, error)
	Stats(ctx context.Context) (*SearchStats, error)
}

type searchService struct {
	plantRepo plants.PlantRepo
	nameRepo  plants.CommonNameRepo
	authRepo  refs.AuthorRepo
	provRepo  locations.ProvinceRepo
	logRepo   logs.SearchLogRepo
	log       *logger.Logger
}

func NewSearchService(
	plantRepo plants.PlantRepo,
	nameRepo plants.CommonNameRepo,
	authRepo refs.AuthorRepo,
	provRepo locations.ProvinceRepo,
	logRepo logs.SearchLogRepo,
	baseLog *logger.Logger,
) SearchService {
	return &searchService{
		plantRepo: plantRepo,
		nameRepo:  nameRepo,
		authRepo:  authRepo,
		provRepo:  provRepo,
		logRepo:   logRepo,
		log:       baseLog.With("service", "search"),
	}
}

func (s *searchService) Search(ctx context.Context, termo, tipo string, client SearchClient) (*SearchResult, error) {
	termo = strings.TrimSpace(termo)
	if len([]rune(termo)) < minTermLen {
		return nil, apierr.Validation("short_term", "o termo de busca precisa de pelo menos 2 caracteres")
	}
	tipo = strings.ToLower(strings.TrimSpace(tipo))
	if tipo == "" {
		tipo = "todos"
	}
	switch tipo {
	case "plantas", "familias", "autores", "provincias", "todos":
	default:
		return nil, apierr.Validation("invalid_tipo", "tipo de busca inválido")
	}

	dbc := dbctx.Context{Ctx: ctx}
	// Every collection starts empty so a filtered search still answers
	// arrays for the kinds it skipped.
	result := &SearchResult{
		Termo:      termo,
		Tipo:       tipo,
		Plantas:    []plantdoc.Summary{},
		Familias:   []plants.FamilyCount{},
		Autores:    []domain.Autor{},
		Provincias: []domain.Provincia{},
	}

	if tipo == "plantas" || tipo == "todos" {
		rows, err := s.plantRepo.SearchByName(dbc, termo, maxSearchHits)
		if err != nil {
			return nil, aggregates.MapError("search.plants", err)
		}
		result.Plantas = make([]plantdoc.Summary, 0, len(rows))
		for i := range rows {
			result.Plantas = append(result.Plantas, plantdoc.NewSummary(&rows[i]))
		}
		result.Total += len(rows)
	}
	if tipo == "familias" || tipo == "todos" {
		fams, err := s.plantRepo.ListFamilies(dbc, termo)
		if err != nil {
			return nil, aggregates.MapError("search.families", err)
		}
		result.Familias = append(result.Familias, fams...)
		result.Total += len(fams)
	}
	if tipo == "autores" || tipo == "todos" {
		authors, err := s.authRepo.SearchByName(dbc, termo, maxSearchHits)
		if err != nil {
			return nil, aggregates.MapError("search.authors", err)
		}
		result.Autores = append(result.Autores, authors...)
		result.Total += len(authors)
	}
	if tipo == "provincias" || tipo == "todos" {
		provs, err := s.provRepo.SearchByName(dbc, termo, maxSearchHits)
		if err != nil {
			return nil, aggregates.MapError("search.provinces", err)
		}
		result.Provincias = append(result.Provincias, provs...)
		result.Total += len(provs)
	}

	s.logSearch(ctx, termo, tipo, client, result.Total)
	return result, nil
}

// Autocomplete suggests completions for one entity kind. The default
// kind is planta, which matches common-name prefixes.
func (s *searchService) Autocomplete(ctx context.Context, prefix, tipo string) ([]string, error) {
	prefix = strings.TrimSpace(prefix)
	if len([]rune(prefix)) < minTermLen {
		return []string{}, nil
	}
	dbc := dbctx.Context{Ctx: ctx}

	var (
		out []string
		err error
	)
	switch strings.ToLower(strings.TrimSpace(tipo)) {
	case "", "planta":
		out, err = s.nameRepo.SearchByPrefix(dbc, prefix, maxSuggestions)
	case "familia":
		var fams []plants.FamilyCount
		fams, err = s.plantRepo.ListFamilies(dbc, prefix)
		for _, f := range fams {
			out = append(out, f.Familia)
		}
		if len(out) > maxSuggestions {
			out = out[:maxSuggestions]
		}
	case "autor":
		var authors []domain.Autor
		authors, err = s.authRepo.SearchByName(dbc, prefix, maxSuggestions)
		for _, a := range authors {
			out = append(out, a.Nome)
		}
	case "provincia":
		var provs []domain.Provincia
		provs, err = s.provRepo.SearchByName(dbc, prefix, maxSuggestions)
		for _, p := range provs {
			out = append(out, p.Nome)
		}
	default:
		return nil, apierr.Validation("invalid_tipo", "tipo de sugestão inválido")
	}
	if err != nil {
		return nil, aggregates.MapError("search.autocomplete", err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func (s *searchService) Stats(ctx context.Context) (*SearchStats, error) {
	dbc := dbctx.Context{Ctx: ctx}
	total, err := s.logRepo.CountAll(dbc)
	if err != nil {
		return nil, aggregates.MapError("search.stats", err)
	}
	week, err := s.logRepo.CountSince(dbc, 7)
	if err != nil {
		return nil, aggregates.MapError("search.stats", err)
	}
	top, err := s.logRepo.TopTerms(dbc, maxSuggestions)
	if err != nil {
		return nil, aggregates.MapError("search.stats", err)
	}
	recent, err := s.logRepo.Recent(dbc, maxSuggestions)
	if err != nil {
		return nil, aggregates.MapError("search.stats", err)
	}
	if top == nil {
		top = []logs.TermCount{}
	}
	if recent == nil {
		recent = []domain.LogPesquisa{}
	}
	return &SearchStats{
		TotalPesquisas:    total,
		PesquisasSemana:   week,
		TermosPopulares:   top,
		PesquisasRecentes: recent,
	}, nil
}

// logSearch is best-effort: a failed insert never fails the search.
func (s *searchService) logSearch(ctx context.Context, termo, tipo string, client SearchClient, total int) {
	entry := &domain.LogPesquisa{
		TermoPesquisa:         termo,
		TipoPesquisa:          tipo,
		IPUsuario:             client.IP,
		UserAgent:             client.UserAgent,
		ResultadosEncontrados: total,
	}
	if err := s.logRepo.Insert(dbctx.Context{Ctx: ctx}, entry); err != nil {
		s.log.Warn("search log insert failed", "termo", termo, "error", err)
	}
}
