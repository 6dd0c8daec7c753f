package services

import (
	"context"
	"testing"

	"github.com/mzflora/plantario-backend/internal/data/aggregates"
	"github.com/mzflora/plantario-backend/internal/data/repos/plants"
	"github.com/mzflora/plantario-backend/internal/data/repos/testutil"
	"github.com/mzflora/plantario-backend/internal/platform/apierr"
)

func TestFamilyService_RenameRejectsSameName(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	svc := NewFamilyService(aggregates.NewGormTxRunner(tx), plants.NewPlantRepo(tx, log), nil, log)

	_, err := svc.Rename(context.Background(), "Fabaceae", "  fabaceae ", nil)
	if apierr.StatusOf(err) != 400 || apierr.CodeOf(err) != "same_familia" {
		t.Fatalf("expected same_familia 400, got %v", err)
	}
}

func TestFamilyService_RenameUnknownSourceIs404(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	svc := NewFamilyService(aggregates.NewGormTxRunner(tx), plants.NewPlantRepo(tx, log), nil, log)

	_, err := svc.Rename(context.Background(), "Naoexiste", "Fabaceae", nil)
	if apierr.StatusOf(err) != 404 {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestFamilyService_RenameVersusMerge(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)
	svc := NewFamilyService(aggregates.NewGormTxRunner(tx), plants.NewPlantRepo(tx, log), nil, log)

	testutil.SeedPlant(t, ctx, tx, "Senna alata", "Leguminosae")
	testutil.SeedPlant(t, ctx, tx, "Senna occidentalis", "Leguminosae")

	out, err := svc.Rename(ctx, "leguminosae", "Fabaceae", nil)
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if out.Operation != "rename" || out.PlantasAfetadas != 2 || out.TotalNaFamilia != 2 {
		t.Fatalf("unexpected rename result: %+v", out)
	}
	// Exact spelling comes from the rows, not from the request casing.
	if out.FamiliaAnterior != "Leguminosae" {
		t.Fatalf("expected stored spelling, got %q", out.FamiliaAnterior)
	}

	// A second family moving onto Fabaceae is a merge.
	testutil.SeedPlant(t, ctx, tx, "Acacia nilotica", "Mimosaceae")
	out, err = svc.Rename(ctx, "Mimosaceae", "Fabaceae", nil)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if out.Operation != "merge" || out.PlantasAfetadas != 1 || out.TotalNaFamilia != 3 {
		t.Fatalf("unexpected merge result: %+v", out)
	}
}

func TestFamilyService_ListSortsByPlantCount(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)
	svc := NewFamilyService(aggregates.NewGormTxRunner(tx), plants.NewPlantRepo(tx, log), nil, log)

	testutil.SeedPlant(t, ctx, tx, "Senna alata", "Leguminosae")
	testutil.SeedPlant(t, ctx, tx, "Senna occidentalis", "Leguminosae")
	testutil.SeedPlant(t, ctx, tx, "Aloe vera", "Asphodelaceae")

	page, err := svc.List(ctx, "", "total_plantas", 1, 20)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 2 || len(page.Familias) != 2 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if page.Familias[0].Familia != "Leguminosae" || page.Familias[0].Total != 2 {
		t.Fatalf("expected biggest family first, got %+v", page.Familias)
	}

	if _, err := svc.List(ctx, "", "bogus", 1, 20); apierr.CodeOf(err) != "invalid_ordenar" {
		t.Fatalf("expected invalid_ordenar, got %v", err)
	}
}

func TestFamilyService_StatsAggregates(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)
	svc := NewFamilyService(aggregates.NewGormTxRunner(tx), plants.NewPlantRepo(tx, log), nil, log)

	testutil.SeedPlant(t, ctx, tx, "Senna alata", "Leguminosae")
	testutil.SeedPlant(t, ctx, tx, "Senna occidentalis", "Leguminosae")
	testutil.SeedPlant(t, ctx, tx, "Aloe vera", "Asphodelaceae")

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalFamilias != 2 || stats.TotalPlantas != 3 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
	if stats.MaiorFamilia == nil || stats.MaiorFamilia.Familia != "Leguminosae" {
		t.Fatalf("unexpected biggest family: %+v", stats.MaiorFamilia)
	}
	if stats.MediaPorFamilia != 1.5 {
		t.Fatalf("unexpected average: %v", stats.MediaPorFamilia)
	}
}

func TestFamilyService_ValidateReportsExistence(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)
	svc := NewFamilyService(aggregates.NewGormTxRunner(tx), plants.NewPlantRepo(tx, log), nil, log)

	testutil.SeedPlant(t, ctx, tx, "Aloe vera", "Asphodelaceae")

	v, err := svc.Validate(ctx, "asphodelaceae")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !v.Existe || v.TotalPlantas != 1 || v.Familia != "Asphodelaceae" {
		t.Fatalf("unexpected validation: %+v", v)
	}

	v, err = svc.Validate(ctx, "Naoexiste")
	if err != nil {
		t.Fatalf("validate missing: %v", err)
	}
	if v.Existe || v.TotalPlantas != 0 {
		t.Fatalf("expected absent family, got %+v", v)
	}
}
