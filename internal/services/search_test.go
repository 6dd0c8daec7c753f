package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mzflora/plantario-backend/internal/data/repos/locations"
	"github.com/mzflora/plantario-backend/internal/data/repos/logs"
	"github.com/mzflora/plantario-backend/internal/data/repos/plants"
	"github.com/mzflora/plantario-backend/internal/data/repos/refs"
	"github.com/mzflora/plantario-backend/internal/data/repos/testutil"
	"github.com/mzflora/plantario-backend/internal/platform/apierr"
)

func newSearchForTest(t *testing.T) SearchService {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	return NewSearchService(
		plants.NewPlantRepo(tx, log),
		plants.NewCommonNameRepo(tx, log),
		refs.NewAuthorRepo(tx, log),
		locations.NewProvinceRepo(tx, log),
		logs.NewSearchLogRepo(tx, log),
		log,
	)
}

func TestSearchValidation(t *testing.T) {
	svc := &searchService{}
	ctx := context.Background()

	if _, err := svc.Search(ctx, " x ", "todos", SearchClient{}); apierr.CodeOf(err) != "short_term" {
		t.Fatalf("expected short_term, got %v", err)
	}
	if _, err := svc.Search(ctx, "moringa", "bogus", SearchClient{}); apierr.CodeOf(err) != "invalid_tipo" {
		t.Fatalf("expected invalid_tipo, got %v", err)
	}
}

func TestSearch_EmptyGroupsStillMarshalAsArrays(t *testing.T) {
	svc := newSearchForTest(t)

	out, err := svc.Search(context.Background(), "zzzz-nada", "todos", SearchClient{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if out.Total != 0 {
		t.Fatalf("expected no hits, got %d", out.Total)
	}
	raw, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(raw)
	for _, key := range []string{`"plantas":[]`, `"familias":[]`, `"autores":[]`, `"provincias":[]`} {
		if !strings.Contains(body, key) {
			t.Fatalf("expected %s in %s", key, body)
		}
	}
}

func TestSearch_FilteredTypeKeepsOtherArraysPresent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)
	svc := NewSearchService(
		plants.NewPlantRepo(tx, log),
		plants.NewCommonNameRepo(tx, log),
		refs.NewAuthorRepo(tx, log),
		locations.NewProvinceRepo(tx, log),
		logs.NewSearchLogRepo(tx, log),
		log,
	)

	testutil.SeedPlant(t, ctx, tx, "Moringa oleifera", "Moringaceae")

	out, err := svc.Search(ctx, "moringa", "plantas", SearchClient{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(out.Plantas) != 1 || out.Total != 1 {
		t.Fatalf("unexpected result: %+v", out)
	}
	raw, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(raw)
	for _, key := range []string{`"familias":[]`, `"autores":[]`, `"provincias":[]`} {
		if !strings.Contains(body, key) {
			t.Fatalf("expected %s in %s", key, body)
		}
	}
}
