package services

import (
	"context"
	"strings"
	"testing"

	"github.com/mzflora/plantario-backend/internal/data/aggregates"
	"github.com/mzflora/plantario-backend/internal/data/repos/refs"
	"github.com/mzflora/plantario-backend/internal/data/repos/testutil"
	"github.com/mzflora/plantario-backend/internal/domain"
	"github.com/mzflora/plantario-backend/internal/platform/apierr"
)

func TestReferenceValidation(t *testing.T) {
	svc := &referenceService{}

	if err := svc.validate(&ReferenceWrite{Titulo: "  "}); apierr.CodeOf(err) != "missing_titulo" {
		t.Fatalf("expected missing_titulo, got %v", err)
	}
	long := strings.Repeat("a", 256)
	if err := svc.validate(&ReferenceWrite{Titulo: long}); apierr.CodeOf(err) != "titulo_too_long" {
		t.Fatalf("expected titulo_too_long, got %v", err)
	}
	ano := 1899
	if err := svc.validate(&ReferenceWrite{Titulo: "ok", AnoPublicacao: &ano}); apierr.CodeOf(err) != "invalid_ano" {
		t.Fatalf("expected invalid_ano, got %v", err)
	}
	ano = 1999
	if err := svc.validate(&ReferenceWrite{Titulo: "ok", AnoPublicacao: &ano}); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}
}

func TestReferenceService_GetCarriesTotalsAndType(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)
	svc := NewReferenceService(aggregates.NewGormTxRunner(tx), refs.NewReferenceRepo(tx, log), refs.NewAuthorRepo(tx, log), nil, log)

	plant := testutil.SeedPlant(t, ctx, tx, "Moringa oleifera", "Moringaceae")
	ref := &domain.Referencia{Titulo: "Ethnobotany of Moringa", Link: testutil.PtrStr("https://doi.org/10.1000/xyz")}
	if err := tx.WithContext(ctx).Create(ref).Error; err != nil {
		t.Fatalf("seed reference: %v", err)
	}
	author := testutil.SeedAuthor(t, ctx, tx, "A. Macuácua")
	testutil.LinkReferenceAuthor(t, ctx, tx, ref.ID, author.ID)
	testutil.LinkPlantReference(t, ctx, tx, plant.ID, ref.ID)

	out, err := svc.Get(ctx, ref.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if out.TotalPlantas != 1 {
		t.Fatalf("expected 1 citing plant, got %d", out.TotalPlantas)
	}
	if out.TipoReferencia != "Artigo" {
		t.Fatalf("expected DOI link classified as Artigo, got %q", out.TipoReferencia)
	}
	if len(out.Autores) != 1 || out.Autores[0].NomeAutor != "A. Macuácua" {
		t.Fatalf("unexpected authors: %+v", out.Autores)
	}
}

func TestReferenceService_DeleteRefusedWhileCited(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)
	svc := NewReferenceService(aggregates.NewGormTxRunner(tx), refs.NewReferenceRepo(tx, log), refs.NewAuthorRepo(tx, log), nil, log)

	plant := testutil.SeedPlant(t, ctx, tx, "Aloe vera", "Asphodelaceae")
	ref := testutil.SeedReference(t, ctx, tx, "Healing plants survey")
	testutil.LinkPlantReference(t, ctx, tx, plant.ID, ref.ID)

	err := svc.Delete(ctx, ref.ID, nil)
	if apierr.StatusOf(err) != 409 || apierr.CodeOf(err) != "reference_in_use" {
		t.Fatalf("expected reference_in_use 409, got %v", err)
	}

	if err := tx.WithContext(ctx).Where("id_referencia = ?", ref.ID).Delete(&domain.PlantaReferencia{}).Error; err != nil {
		t.Fatalf("unlink: %v", err)
	}
	if err := svc.Delete(ctx, ref.ID, nil); err != nil {
		t.Fatalf("delete after unlink: %v", err)
	}
}
