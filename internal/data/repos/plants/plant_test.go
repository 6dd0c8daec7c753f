package plants

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/mzflora/plantario-backend/internal/data/repos/testutil"
	"github.com/mzflora/plantario-backend/internal/domain"
	"github.com/mzflora/plantario-backend/internal/platform/dbctx"
)

func TestPlantRepo_ListFiltersBySearchAndFamily(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewPlantRepo(db, testutil.Logger(t))

	moringa := testutil.SeedPlant(t, ctx, tx, "Moringa oleifera", "Moringaceae")
	testutil.SeedPlant(t, ctx, tx, "Aloe vera", "Asphodelaceae")
	testutil.SeedCommonName(t, ctx, tx, moringa.ID, "árvore da vida")

	rows, total, err := repo.List(dbc, ListFilter{Search: "moringa", Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].NomeCientifico != "Moringa oleifera" {
		t.Fatalf("unexpected search result: total=%d rows=%+v", total, rows)
	}

	// Common names feed the same search.
	rows, total, err = repo.List(dbc, ListFilter{Search: "árvore da vida", Limit: 10})
	if err != nil {
		t.Fatalf("list by common name: %v", err)
	}
	if total != 1 || rows[0].ID != moringa.ID {
		t.Fatalf("expected hit via common name, got total=%d", total)
	}

	rows, total, err = repo.List(dbc, ListFilter{Familia: "asphodelaceae", Limit: 10})
	if err != nil {
		t.Fatalf("list by family: %v", err)
	}
	if total != 1 || rows[0].NomeCientifico != "Aloe vera" {
		t.Fatalf("unexpected family filter result: %+v", rows)
	}
}

func TestPlantRepo_UpdateMissingRowIsNotFound(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewPlantRepo(db, testutil.Logger(t))

	err := repo.Update(dbc, &domain.Planta{ID: 999999, NomeCientifico: "x", Familia: "y"})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestPlantRepo_RenameFamilyMovesEveryRow(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewPlantRepo(db, testutil.Logger(t))

	testutil.SeedPlant(t, ctx, tx, "Senna alata", "Leguminosae")
	testutil.SeedPlant(t, ctx, tx, "Senna occidentalis", "Leguminosae")
	testutil.SeedPlant(t, ctx, tx, "Aloe vera", "Asphodelaceae")

	moved, err := repo.RenameFamily(dbc, "Leguminosae", "Fabaceae")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if moved != 2 {
		t.Fatalf("expected 2 rows moved, got %d", moved)
	}

	left, err := repo.ListByFamily(dbc, "Leguminosae")
	if err != nil {
		t.Fatalf("list old family: %v", err)
	}
	if len(left) != 0 {
		t.Fatalf("expected old family empty, got %d rows", len(left))
	}
	now, err := repo.ListByFamily(dbc, "Fabaceae")
	if err != nil {
		t.Fatalf("list new family: %v", err)
	}
	if len(now) != 2 {
		t.Fatalf("expected 2 rows in new family, got %d", len(now))
	}
}

func TestPlantRepo_RenameFamilyZeroMatches(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewPlantRepo(db, testutil.Logger(t))

	moved, err := repo.RenameFamily(dbc, "Naoexiste", "Fabaceae")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if moved != 0 {
		t.Fatalf("expected 0 rows, got %d", moved)
	}
}

func TestPlantRepo_ListFamiliesAggregates(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewPlantRepo(db, testutil.Logger(t))

	testutil.SeedPlant(t, ctx, tx, "Senna alata", "Fabaceae")
	testutil.SeedPlant(t, ctx, tx, "Senna occidentalis", "Fabaceae")

	fams, err := repo.ListFamilies(dbc, "faba")
	if err != nil {
		t.Fatalf("list families: %v", err)
	}
	if len(fams) != 1 || fams[0].Familia != "Fabaceae" || fams[0].Total != 2 {
		t.Fatalf("unexpected aggregation: %+v", fams)
	}
}

func TestCommonNameRepo_ReplaceDedupes(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewCommonNameRepo(db, testutil.Logger(t))

	p := testutil.SeedPlant(t, ctx, tx, "Moringa oleifera", "Moringaceae")
	if err := repo.ReplaceForPlant(dbc, p.ID, []string{" moringa ", "Moringa", "acácia-branca", "  "}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	names, err := repo.ListByPlant(dbc, p.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("expected 2 deduped names, got %+v", names)
	}
}
