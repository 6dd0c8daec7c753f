package refs

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/mzflora/plantario-backend/internal/data/repos/testutil"
	"github.com/mzflora/plantario-backend/internal/platform/dbctx"
)

func TestAuthorRepo_CountReferences(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewAuthorRepo(db, testutil.Logger(t))

	author := testutil.SeedAuthor(t, ctx, tx, "A. Bandeira")
	ref1 := testutil.SeedReference(t, ctx, tx, "Flora de Moçambique I")
	ref2 := testutil.SeedReference(t, ctx, tx, "Flora de Moçambique II")
	testutil.LinkReferenceAuthor(t, ctx, tx, ref1.ID, author.ID)
	testutil.LinkReferenceAuthor(t, ctx, tx, ref2.ID, author.ID)

	n, err := repo.CountReferences(dbc, author.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 references, got %d", n)
	}
}

func TestAuthorRepo_ReplaceAffiliationsDedupesAndOrders(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewAuthorRepo(db, testutil.Logger(t))

	author := testutil.SeedAuthor(t, ctx, tx, "C. Cumbane")
	uem := testutil.SeedAffiliation(t, ctx, tx, "Universidade Eduardo Mondlane", "UEM")
	lurio := testutil.SeedAffiliation(t, ctx, tx, "Universidade Lúrio", "UniLúrio")

	if err := repo.ReplaceAffiliations(dbc, author.ID, []uint{lurio.ID, uem.ID, lurio.ID}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	affs, err := repo.Affiliations(dbc, author.ID)
	if err != nil {
		t.Fatalf("affiliations: %v", err)
	}
	if len(affs) != 2 {
		t.Fatalf("expected 2 affiliations, got %d", len(affs))
	}
	// Ordered by id ASC: the singular legacy fields in the document
	// mirror the first one.
	if affs[0].ID != uem.ID || affs[1].ID != lurio.ID {
		t.Fatalf("unexpected order: %+v", affs)
	}

	// Replacing with fewer ids drops the rest.
	if err := repo.ReplaceAffiliations(dbc, author.ID, []uint{lurio.ID}); err != nil {
		t.Fatalf("second replace: %v", err)
	}
	affs, err = repo.Affiliations(dbc, author.ID)
	if err != nil {
		t.Fatalf("affiliations: %v", err)
	}
	if len(affs) != 1 || affs[0].ID != lurio.ID {
		t.Fatalf("expected only the second affiliation, got %+v", affs)
	}
}

func TestAuthorRepo_AffiliationLinkLifecycle(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewAuthorRepo(db, testutil.Logger(t))

	author := testutil.SeedAuthor(t, ctx, tx, "E. Matusse")
	aff := testutil.SeedAffiliation(t, ctx, tx, "Instituto Nacional de Saúde", "INS")

	linked, err := repo.HasAffiliation(dbc, author.ID, aff.ID)
	if err != nil {
		t.Fatalf("has: %v", err)
	}
	if linked {
		t.Fatalf("expected no link yet")
	}

	if err := repo.AddAffiliation(dbc, author.ID, aff.ID); err != nil {
		t.Fatalf("add: %v", err)
	}
	linked, err = repo.HasAffiliation(dbc, author.ID, aff.ID)
	if err != nil {
		t.Fatalf("has after add: %v", err)
	}
	if !linked {
		t.Fatalf("expected link after add")
	}

	if err := repo.RemoveAffiliation(dbc, author.ID, aff.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := repo.RemoveAffiliation(dbc, author.ID, aff.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("second remove should report missing link, got %v", err)
	}
}

func TestReferenceRepo_CountPlants(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewReferenceRepo(db, testutil.Logger(t))

	ref := testutil.SeedReference(t, ctx, tx, "Plantas medicinais de Inhambane")
	p1 := testutil.SeedPlant(t, ctx, tx, "Senna alata", "Fabaceae")
	p2 := testutil.SeedPlant(t, ctx, tx, "Aloe vera", "Asphodelaceae")
	testutil.LinkPlantReference(t, ctx, tx, p1.ID, ref.ID)
	testutil.LinkPlantReference(t, ctx, tx, p2.ID, ref.ID)

	n, err := repo.CountPlants(dbc, ref.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 plants, got %d", n)
	}
}

func TestAffiliationRepo_FindOrCreateIsCaseInsensitive(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewAffiliationRepo(db, testutil.Logger(t))

	first, err := repo.FindOrCreate(dbc, "Universidade Eduardo Mondlane", "UEM")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	again, err := repo.FindOrCreate(dbc, "universidade eduardo mondlane", "UEM")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if first.ID != again.ID {
		t.Fatalf("expected reuse, got %d and %d", first.ID, again.ID)
	}
}
