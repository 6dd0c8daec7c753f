package services

import (
	"context"
	"testing"

	"github.com/mzflora/plantario-backend/internal/data/aggregates"
	"github.com/mzflora/plantario-backend/internal/platform/apierr"
	"github.com/mzflora/plantario-backend/internal/platform/draftstore"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
)

func newWizardForTest(t *testing.T) WizardService {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return NewWizardService(draftstore.NewMemory(), nil, nil, log)
}

func TestSaveStep_NewDraftStartsAtStepOne(t *testing.T) {
	svc := newWizardForTest(t)
	ctx := context.Background()

	draft, err := svc.SaveStep(ctx, "", 1, aggregates.PlantInput{
		NomeCientifico: "Moringa oleifera",
		Familia:        "Moringaceae",
	})
	if err != nil {
		t.Fatalf("save step: %v", err)
	}
	if draft.DraftID == "" {
		t.Fatalf("expected a minted draft id")
	}
	if draft.Etapa != 1 {
		t.Fatalf("expected etapa 1, got %d", draft.Etapa)
	}
	if draft.Dados.NomeCientifico != "Moringa oleifera" {
		t.Fatalf("unexpected dados: %+v", draft.Dados)
	}
	if draft.ExpiraEm.Before(draft.CriadoEm) {
		t.Fatalf("expiry before creation: %+v", draft)
	}
}

func TestSaveStep_LaterStepNeedsDraftID(t *testing.T) {
	svc := newWizardForTest(t)
	_, err := svc.SaveStep(context.Background(), "", 2, aggregates.PlantInput{
		NomesComuns: []string{"moringa"},
	})
	if apierr.StatusOf(err) != 400 {
		t.Fatalf("expected 400, got %v", err)
	}
	if apierr.CodeOf(err) != "missing_draft" {
		t.Fatalf("expected missing_draft, got %q", apierr.CodeOf(err))
	}
}

func TestSaveStep_InvalidStepNumber(t *testing.T) {
	svc := newWizardForTest(t)
	_, err := svc.SaveStep(context.Background(), "", 7, aggregates.PlantInput{})
	if apierr.CodeOf(err) != "invalid_step" {
		t.Fatalf("expected invalid_step, got %v", err)
	}
}

func TestSaveStep_StepOneRequiresNameAndFamily(t *testing.T) {
	svc := newWizardForTest(t)
	_, err := svc.SaveStep(context.Background(), "", 1, aggregates.PlantInput{Familia: "Fabaceae"})
	if apierr.CodeOf(err) != "missing_nome_cientifico" {
		t.Fatalf("expected missing_nome_cientifico, got %v", err)
	}
}

func TestSaveStep_RevisitDoesNotClobberOtherSteps(t *testing.T) {
	svc := newWizardForTest(t)
	ctx := context.Background()

	draft, err := svc.SaveStep(ctx, "", 1, aggregates.PlantInput{
		NomeCientifico: "Aloe vera",
		Familia:        "Asphodelaceae",
	})
	if err != nil {
		t.Fatalf("step 1: %v", err)
	}
	if _, err := svc.SaveStep(ctx, draft.DraftID, 2, aggregates.PlantInput{
		NomesComuns: []string{"babosa"},
	}); err != nil {
		t.Fatalf("step 2: %v", err)
	}

	// Going back to step 1 must leave the common names intact.
	updated, err := svc.SaveStep(ctx, draft.DraftID, 1, aggregates.PlantInput{
		NomeCientifico: "Aloe vera",
		Familia:        "Asphodelaceae",
		CompQuimica:    "aloína",
	})
	if err != nil {
		t.Fatalf("revisit step 1: %v", err)
	}
	if updated.Dados.CompQuimica != "aloína" {
		t.Fatalf("step 1 field not updated: %+v", updated.Dados)
	}
	if len(updated.Dados.NomesComuns) != 1 || updated.Dados.NomesComuns[0] != "babosa" {
		t.Fatalf("step 2 data lost on revisit: %+v", updated.Dados)
	}
}

func TestGetDraft_MissingIs404(t *testing.T) {
	svc := newWizardForTest(t)
	_, err := svc.GetDraft(context.Background(), "unknown")
	if apierr.StatusOf(err) != 404 {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestDeleteDraft_RemovesIt(t *testing.T) {
	svc := newWizardForTest(t)
	ctx := context.Background()

	draft, err := svc.SaveStep(ctx, "", 1, aggregates.PlantInput{
		NomeCientifico: "Catharanthus roseus",
		Familia:        "Apocynaceae",
	})
	if err != nil {
		t.Fatalf("save step: %v", err)
	}
	if err := svc.DeleteDraft(ctx, draft.DraftID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetDraft(ctx, draft.DraftID); apierr.StatusOf(err) != 404 {
		t.Fatalf("expected 404 after delete, got %v", err)
	}
}

func TestCollectStepErrors_ReportsEveryField(t *testing.T) {
	errs := collectStepErrors(1, &aggregates.PlantInput{})
	if errs["nome_cientifico"] == "" || errs["familia"] == "" {
		t.Fatalf("expected both fields flagged, got %v", errs)
	}
}

func TestCollectStepErrors_ProvinceStep(t *testing.T) {
	errs := collectStepErrors(3, &aggregates.PlantInput{
		Provincias: []aggregates.ProvinceInput{{IDProvincia: 0, Local: "  "}},
	})
	if errs["provincias"] == "" || errs["local"] == "" {
		t.Fatalf("expected province errors, got %v", errs)
	}
}

func TestCollectStepErrors_ReferenceYearBounds(t *testing.T) {
	ano := 1200
	errs := collectStepErrors(5, &aggregates.PlantInput{
		Referencias: []aggregates.ReferenceInput{{Titulo: "ok", AnoPublicacao: &ano}},
	})
	if errs["ano_publicacao"] == "" {
		t.Fatalf("expected year flagged, got %v", errs)
	}
}

func TestMergeStep_ReviewStepCarriesNothing(t *testing.T) {
	data := aggregates.PlantInput{NomeCientifico: "x", NomesComuns: []string{"a"}}
	mergeStep(6, &data, aggregates.PlantInput{NomeCientifico: "y", NomesComuns: []string{"b"}})
	if data.NomeCientifico != "x" || data.NomesComuns[0] != "a" {
		t.Fatalf("review step must not mutate data: %+v", data)
	}
}

func TestWizardHealth_CountsDrafts(t *testing.T) {
	svc := newWizardForTest(t)
	ctx := context.Background()

	if h := svc.Health(ctx); h.Status != "ok" || h.ActiveDrafts != 0 {
		t.Fatalf("unexpected empty health: %+v", h)
	}
	if _, err := svc.SaveStep(ctx, "", 1, aggregates.PlantInput{
		NomeCientifico: "Zingiber officinale",
		Familia:        "Zingiberaceae",
	}); err != nil {
		t.Fatalf("save step: %v", err)
	}
	if h := svc.Health(ctx); h.ActiveDrafts != 1 {
		t.Fatalf("expected 1 active draft, got %+v", h)
	}
}
