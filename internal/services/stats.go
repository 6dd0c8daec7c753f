package services

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/mzflora/plantario-backend/internal/data/aggregates"
	"github.com/mzflora/plantario-backend/internal/data/repos/locations"
	"github.com/mzflora/plantario-backend/internal/data/repos/logs"
	"github.com/mzflora/plantario-backend/internal/data/repos/plants"
	"github.com/mzflora/plantario-backend/internal/data/repos/refs"
	"github.com/mzflora/plantario-backend/internal/data/repos/usage"
	"github.com/mzflora/plantario-backend/internal/domain"
	"github.com/mzflora/plantario-backend/internal/plantdoc"
	"github.com/mzflora/plantario-backend/internal/platform/dbctx"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
)

const (
	statsTopN    = 10
	statsRecentN = 5
)

// ProvinceShare is a province count with its share of the catalog.
type ProvinceShare struct {
	locations.ProvincePlantCount
	Percentual float64 `json:"percentual"`
}

type ReferenceStats struct {
	Total   int64 `json:"total"`
	ComLink int64 `json:"com_link"`
	ComAno  int64 `json:"com_ano"`
}

type AuthorStats struct {
	Total        int64 `json:"total"`
	ComAfiliacao int64 `json:"com_afiliacao"`
	SemAfiliacao int64 `json:"sem_afiliacao"`
}

// DashboardStats is the admin landing payload.
type DashboardStats struct {
	TotalPlantas        int64                   `json:"total_plantas"`
	TotalFamilias       int64                   `json:"total_familias"`
	TotalImagens        int64                   `json:"total_imagens"`
	TotalReferencias    int64                   `json:"total_referencias"`
	TotalAutores        int64                   `json:"total_autores"`
	TotalProvincias     int64                   `json:"total_provincias"`
	TotalIndicacoes     int64                   `json:"total_indicacoes"`
	TotalNomesComuns    int64                   `json:"total_nomes_comuns"`
	TotalPesquisas      int64                   `json:"total_pesquisas"`
	PesquisasSemana     int64                   `json:"pesquisas_ultimos_7_dias"`
	TopFamilias         []plants.FamilyCount    `json:"top_familias"`
	PlantasPorProvincia []ProvinceShare         `json:"plantas_por_provincia"`
	TopIndicacoes       []usage.IndicationCount `json:"top_indicacoes"`
	TermosMaisBuscados  []logs.TermCount        `json:"termos_mais_buscados"`
	PlantasRecentes     []plantdoc.Summary      `json:"plantas_recentes"`
	ReferenciasRecentes []domain.Referencia     `json:"referencias_recentes"`
	AutoresRecentes     []domain.Autor          `json:"autores_recentes"`
	ReferenciasStats    ReferenceStats          `json:"referencias_stats"`
	AutoresStats        AuthorStats             `json:"autores_stats"`
	PlantasSemImagem    []uint                  `json:"plantas_sem_imagem"`
}

type StatsService interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
}

type statsService struct {
	plantRepo  plants.PlantRepo
	nameRepo   plants.CommonNameRepo
	imageRepo  plants.ImageRepo
	provRepo   locations.ProvinceRepo
	refRepo    refs.ReferenceRepo
	authorRepo refs.AuthorRepo
	indRepo    usage.IndicationRepo
	logRepo    logs.SearchLogRepo
	log        *logger.Logger
}

func NewStatsService(
	plantRepo plants.PlantRepo,
	nameRepo plants.CommonNameRepo,
	imageRepo plants.ImageRepo,
	provRepo locations.ProvinceRepo,
	refRepo refs.ReferenceRepo,
	authorRepo refs.AuthorRepo,
	indRepo usage.IndicationRepo,
	logRepo logs.SearchLogRepo,
	baseLog *logger.Logger,
) StatsService {
	return &statsService{
		plantRepo:  plantRepo,
		nameRepo:   nameRepo,
		imageRepo:  imageRepo,
		provRepo:   provRepo,
		refRepo:    refRepo,
		authorRepo: authorRepo,
		indRepo:    indRepo,
		logRepo:    logRepo,
		log:        baseLog.With("service", "stats"),
	}
}

// Dashboard gathers the counters concurrently; each query is
// independent, so the slowest one bounds the response time.
func (s *statsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	var provCounts []locations.ProvincePlantCount
	g, gctx := errgroup.WithContext(ctx)
	dbc := func() dbctx.Context { return dbctx.Context{Ctx: gctx} }

	g.Go(func() error {
		n, err := s.plantRepo.CountAll(dbc())
		stats.TotalPlantas = n
		return err
	})
	g.Go(func() error {
		fams, err := s.plantRepo.ListFamilies(dbc(), "")
		if err != nil {
			return err
		}
		stats.TotalFamilias = int64(len(fams))
		if len(fams) > statsTopN {
			fams = topFamilies(fams, statsTopN)
		}
		stats.TopFamilias = fams
		return nil
	})
	g.Go(func() error {
		n, err := s.imageRepo.CountAll(dbc())
		stats.TotalImagens = n
		return err
	})
	g.Go(func() error {
		n, err := s.refRepo.CountAll(dbc())
		stats.TotalReferencias = n
		stats.ReferenciasStats.Total = n
		return err
	})
	g.Go(func() error {
		n, err := s.refRepo.CountWithLink(dbc())
		stats.ReferenciasStats.ComLink = n
		return err
	})
	g.Go(func() error {
		n, err := s.refRepo.CountWithYear(dbc())
		stats.ReferenciasStats.ComAno = n
		return err
	})
	g.Go(func() error {
		n, err := s.authorRepo.CountAll(dbc())
		stats.TotalAutores = n
		stats.AutoresStats.Total = n
		return err
	})
	g.Go(func() error {
		n, err := s.authorRepo.CountWithAffiliation(dbc())
		stats.AutoresStats.ComAfiliacao = n
		return err
	})
	g.Go(func() error {
		n, err := s.provRepo.CountAll(dbc())
		stats.TotalProvincias = n
		return err
	})
	g.Go(func() error {
		n, err := s.indRepo.CountAll(dbc())
		stats.TotalIndicacoes = n
		return err
	})
	g.Go(func() error {
		n, err := s.nameRepo.CountAll(dbc())
		stats.TotalNomesComuns = n
		return err
	})
	g.Go(func() error {
		n, err := s.logRepo.CountAll(dbc())
		stats.TotalPesquisas = n
		return err
	})
	g.Go(func() error {
		n, err := s.logRepo.CountSince(dbc(), 7)
		stats.PesquisasSemana = n
		return err
	})
	g.Go(func() error {
		counts, err := s.provRepo.PlantCounts(dbc())
		provCounts = counts
		return err
	})
	g.Go(func() error {
		top, err := s.indRepo.TopIndications(dbc(), statsTopN)
		stats.TopIndicacoes = top
		return err
	})
	g.Go(func() error {
		terms, err := s.logRepo.TopTerms(dbc(), statsTopN)
		stats.TermosMaisBuscados = terms
		return err
	})
	g.Go(func() error {
		recent, err := s.plantRepo.Recent(dbc(), statsRecentN)
		if err != nil {
			return err
		}
		stats.PlantasRecentes = make([]plantdoc.Summary, 0, len(recent))
		for i := range recent {
			stats.PlantasRecentes = append(stats.PlantasRecentes, plantdoc.NewSummary(&recent[i]))
		}
		return nil
	})
	g.Go(func() error {
		recent, err := s.refRepo.Recent(dbc(), statsRecentN)
		stats.ReferenciasRecentes = recent
		return err
	})
	g.Go(func() error {
		recent, err := s.authorRepo.Recent(dbc(), statsRecentN)
		stats.AutoresRecentes = recent
		return err
	})
	g.Go(func() error {
		ids, err := s.imageRepo.PlantIDsWithout(dbc())
		stats.PlantasSemImagem = ids
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, aggregates.MapError("stats.dashboard", err)
	}

	stats.AutoresStats.SemAfiliacao = stats.AutoresStats.Total - stats.AutoresStats.ComAfiliacao
	// Shares are over the whole catalog; a plant collected in two
	// provinces counts toward both, so combined they can pass 100.
	stats.PlantasPorProvincia = make([]ProvinceShare, 0, len(provCounts))
	for _, pc := range provCounts {
		share := ProvinceShare{ProvincePlantCount: pc}
		if stats.TotalPlantas > 0 {
			share.Percentual = math.Round(float64(pc.Total)/float64(stats.TotalPlantas)*10000) / 100
		}
		stats.PlantasPorProvincia = append(stats.PlantasPorProvincia, share)
	}

	if stats.TopFamilias == nil {
		stats.TopFamilias = []plants.FamilyCount{}
	}
	if stats.TopIndicacoes == nil {
		stats.TopIndicacoes = []usage.IndicationCount{}
	}
	if stats.TermosMaisBuscados == nil {
		stats.TermosMaisBuscados = []logs.TermCount{}
	}
	if stats.ReferenciasRecentes == nil {
		stats.ReferenciasRecentes = []domain.Referencia{}
	}
	if stats.AutoresRecentes == nil {
		stats.AutoresRecentes = []domain.Autor{}
	}
	if stats.PlantasSemImagem == nil {
		stats.PlantasSemImagem = []uint{}
	}
	return stats, nil
}

func topFamilies(fams []plants.FamilyCount, n int) []plants.FamilyCount {
	out := make([]plants.FamilyCount, len(fams))
	copy(out, fams)
	// Small slice, selection is fine.
	for i := 0; i < n && i < len(out); i++ {
		best := i
		for j := i + 1; j < len(out); j++ {
			if out[j].Total > out[best].Total {
				best = j
			}
		}
		out[i], out[best] = out[best], out[i]
	}
	if len(out) > n {
		out = out[:n]
	}
	return out
}
