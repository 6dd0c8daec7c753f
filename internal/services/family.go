package services

import (
	"context"
	"sort"
	"strings"

	"github.com/mzflora/plantario-backend/internal/data/aggregates"
	"github.com/mzflora/plantario-backend/internal/data/repos/plants"
	"github.com/mzflora/plantario-backend/internal/plantdoc"
	"github.com/mzflora/plantario-backend/internal/platform/apierr"
	"github.com/mzflora/plantario-backend/internal/platform/dbctx"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
)

// RenameResult reports what a family rename did. Operation is "merge"
// when the target family already had plants, "rename" otherwise.
type RenameResult struct {
	Operation       string `json:"operation"`
	FamiliaAnterior string `json:"familia_anterior"`
	FamiliaNova     string `json:"familia_nova"`
	PlantasAfetadas int64  `json:"plantas_afetadas"`
	TotalNaFamilia  int64  `json:"total_na_familia"`
}

type FamilyDetail struct {
	Familia      string             `json:"familia"`
	TotalPlantas int64              `json:"total_plantas"`
	Plantas      []plantdoc.Summary `json:"plantas"`
}

type FamilyValidation struct {
	Familia      string `json:"familia"`
	Existe       bool   `json:"existe"`
	TotalPlantas int64  `json:"total_plantas"`
}

type FamilyPage struct {
	Familias []plants.FamilyCount `json:"familias"`
	Total    int                  `json:"total"`
	Page     int                  `json:"page"`
	PerPage  int                  `json:"per_page"`
}

type FamilyStats struct {
	TotalFamilias   int64               `json:"total_familias"`
	TotalPlantas    int64               `json:"total_plantas"`
	MediaPorFamilia float64             `json:"media_plantas_por_familia"`
	MaiorFamilia    *plants.FamilyCount `json:"maior_familia"`
}

type FamilyService interface {
	List(ctx context.Context, search, sortBy string, page, perPage int) (*FamilyPage, error)
	Detail(ctx context.Context, familia string) (*FamilyDetail, error)
	Validate(ctx context.Context, familia string) (*FamilyValidation, error)
	Stats(ctx context.Context) (*FamilyStats, error)
	Rename(ctx context.Context, atual, nova string, actor *Actor) (*RenameResult, error)
}

type familyService struct {
	tx        aggregates.TxRunner
	plantRepo plants.PlantRepo
	audit     *AuditRecorder
	log       *logger.Logger
}

func NewFamilyService(tx aggregates.TxRunner, plantRepo plants.PlantRepo, audit *AuditRecorder, baseLog *logger.Logger) FamilyService {
	return &familyService{
		tx:        tx,
		plantRepo: plantRepo,
		audit:     audit,
		log:       baseLog.With("service", "family"),
	}
}

// List returns the aggregated family counts, sorted by name or, when
// sortBy is total_plantas, by plant count descending.
func (s *familyService) List(ctx context.Context, search, sortBy string, page, perPage int) (*FamilyPage, error) {
	switch sortBy {
	case "", "nome_familia":
	case "total_plantas":
	default:
		return nil, apierr.Validation("invalid_ordenar", "ordenação inválida")
	}
	fams, err := s.plantRepo.ListFamilies(dbctx.Context{Ctx: ctx}, search)
	if err != nil {
		return nil, aggregates.MapError("family.list", err)
	}
	if sortBy == "total_plantas" {
		sort.SliceStable(fams, func(i, j int) bool { return fams[i].Total > fams[j].Total })
	}
	out := &FamilyPage{Total: len(fams), Page: page, PerPage: perPage}
	start := (page - 1) * perPage
	if start > len(fams) {
		start = len(fams)
	}
	end := start + perPage
	if end > len(fams) {
		end = len(fams)
	}
	out.Familias = append([]plants.FamilyCount{}, fams[start:end]...)
	return out, nil
}

func (s *familyService) Detail(ctx context.Context, familia string) (*FamilyDetail, error) {
	familia = strings.TrimSpace(familia)
	if familia == "" {
		return nil, apierr.Validation("missing_familia", "familia é obrigatória")
	}
	rows, err := s.plantRepo.ListByFamily(dbctx.Context{Ctx: ctx}, familia)
	if err != nil {
		return nil, aggregates.MapError("family.detail", err)
	}
	if len(rows) == 0 {
		return nil, apierr.NotFound("family_not_found", "família não encontrada")
	}
	detail := &FamilyDetail{
		Familia:      rows[0].Familia,
		TotalPlantas: int64(len(rows)),
		Plantas:      make([]plantdoc.Summary, 0, len(rows)),
	}
	for i := range rows {
		detail.Plantas = append(detail.Plantas, plantdoc.NewSummary(&rows[i]))
	}
	return detail, nil
}

func (s *familyService) Validate(ctx context.Context, familia string) (*FamilyValidation, error) {
	familia = strings.TrimSpace(familia)
	if familia == "" {
		return nil, apierr.Validation("missing_familia", "familia é obrigatória")
	}
	rows, err := s.plantRepo.ListByFamily(dbctx.Context{Ctx: ctx}, familia)
	if err != nil {
		return nil, aggregates.MapError("family.validate", err)
	}
	v := &FamilyValidation{Familia: familia, TotalPlantas: int64(len(rows))}
	if len(rows) > 0 {
		v.Existe = true
		v.Familia = rows[0].Familia
	}
	return v, nil
}

func (s *familyService) Stats(ctx context.Context) (*FamilyStats, error) {
	fams, err := s.plantRepo.ListFamilies(dbctx.Context{Ctx: ctx}, "")
	if err != nil {
		return nil, aggregates.MapError("family.stats", err)
	}
	stats := &FamilyStats{TotalFamilias: int64(len(fams))}
	for i := range fams {
		stats.TotalPlantas += fams[i].Total
		if stats.MaiorFamilia == nil || fams[i].Total > stats.MaiorFamilia.Total {
			stats.MaiorFamilia = &fams[i]
		}
	}
	if len(fams) > 0 {
		stats.MediaPorFamilia = float64(stats.TotalPlantas) / float64(len(fams))
	}
	return stats, nil
}

// Rename moves every plant of one family to a new spelling. Renaming a
// family onto itself (ignoring case) is rejected; renaming onto another
// existing family merges the two.
func (s *familyService) Rename(ctx context.Context, atual, nova string, actor *Actor) (*RenameResult, error) {
	atual = strings.TrimSpace(atual)
	nova = strings.TrimSpace(nova)
	if atual == "" || nova == "" {
		return nil, apierr.Validation("missing_familia", "familia_atual e familia_nova são obrigatórias")
	}
	if strings.EqualFold(atual, nova) {
		return nil, apierr.Validation("same_familia", "o novo nome é igual ao atual")
	}

	var result RenameResult
	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		source, err := s.plantRepo.ListByFamily(dbc, atual)
		if err != nil {
			return err
		}
		if len(source) == 0 {
			return apierr.NotFound("family_not_found", "família não encontrada")
		}
		// Exact spelling carried by the rows, not by the request.
		exact := source[0].Familia

		target, err := s.plantRepo.ListByFamily(dbc, nova)
		if err != nil {
			return err
		}

		moved, err := s.plantRepo.RenameFamily(dbc, exact, nova)
		if err != nil {
			return err
		}

		result = RenameResult{
			Operation:       "rename",
			FamiliaAnterior: exact,
			FamiliaNova:     nova,
			PlantasAfetadas: moved,
			TotalNaFamilia:  moved + int64(len(target)),
		}
		if len(target) > 0 {
			result.Operation = "merge"
		}
		return nil
	})
	if err != nil {
		return nil, aggregates.MapError("family.rename", err)
	}

	s.audit.Record(ctx, actor, "renomear_familia", "planta_medicinal", 0, snapshot(map[string]string{"familia": result.FamiliaAnterior}), snapshot(result))
	s.log.Info("family renamed",
		"operation", result.Operation,
		"familia_anterior", result.FamiliaAnterior,
		"familia_nova", result.FamiliaNova,
		"plantas_afetadas", result.PlantasAfetadas)
	return &result, nil
}
