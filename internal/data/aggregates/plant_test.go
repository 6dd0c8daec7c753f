package aggregates

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/mzflora/plantario-backend/internal/data/repos/locations"
	"github.com/mzflora/plantario-backend/internal/data/repos/plants"
	"github.com/mzflora/plantario-backend/internal/data/repos/refs"
	"github.com/mzflora/plantario-backend/internal/data/repos/testutil"
	"github.com/mzflora/plantario-backend/internal/data/repos/usage"
	"github.com/mzflora/plantario-backend/internal/domain"
	"github.com/mzflora/plantario-backend/internal/platform/apierr"
	"github.com/mzflora/plantario-backend/internal/platform/dbctx"
)

func newAggregateForTest(t *testing.T, db, tx *gorm.DB) *PlantAggregate {
	t.Helper()
	log := testutil.Logger(t)
	return NewPlantAggregate(
		NewGormTxRunner(tx),
		plants.NewPlantRepo(db, log),
		plants.NewCommonNameRepo(db, log),
		plants.NewImageRepo(db, log),
		locations.NewProvinceRepo(db, log),
		locations.NewSiteRepo(db, log),
		usage.NewPartRepo(db, log),
		usage.NewIndicationRepo(db, log),
		usage.NewMethodRepo(db, log),
		refs.NewReferenceRepo(db, log),
		refs.NewAuthorRepo(db, log),
		refs.NewAffiliationRepo(db, log),
		log,
	)
}

func TestPlantAggregate_CreateFullBuildsWholeGraph(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	agg := newAggregateForTest(t, db, tx)

	prov := testutil.SeedProvince(t, ctx, tx, "Nampula")
	ano := 2015

	created, err := agg.CreateFull(ctx, PlantInput{
		NomeCientifico: "Moringa oleifera",
		Familia:        "Moringaceae",
		NomesComuns:    []string{"moringa", "acácia-branca"},
		Provincias: []ProvinceInput{
			{IDProvincia: prov.ID, Local: "Monapo"},
		},
		Partes: []PartInput{
			{
				NomeParte:         "Folha",
				Indicacoes:        []string{"Febre"},
				MetodosPreparacao: []string{"Infusão"},
				MetodosExtracao:   []string{"Decocção aquosa"},
			},
		},
		Referencias: []ReferenceInput{
			{
				Titulo:        "Flora de Moçambique",
				Link:          "https://example.org/flora",
				AnoPublicacao: &ano,
				Autores: []AuthorInput{
					{
						Nome: "A. Bandeira",
						Afiliacoes: []AffiliationInput{
							{Nome: "Universidade Eduardo Mondlane", Sigla: "UEM"},
						},
					},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("create full: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected plant id assigned")
	}

	log := testutil.Logger(t)
	names, err := plants.NewCommonNameRepo(db, log).ListByPlant(dbc, created.ID)
	if err != nil {
		t.Fatalf("list names: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("expected 2 common names, got %d", len(names))
	}

	sites, err := locations.NewSiteRepo(db, log).ListByPlant(dbc, created.ID)
	if err != nil {
		t.Fatalf("list sites: %v", err)
	}
	if len(sites) != 1 || sites[0].Provincia != "Nampula" || sites[0].NomeLocal != "Monapo" {
		t.Fatalf("unexpected sites: %+v", sites)
	}

	partIDs, err := usage.NewPartRepo(db, log).PartIDsByPlant(dbc, created.ID)
	if err != nil {
		t.Fatalf("part ids: %v", err)
	}
	if len(partIDs) != 1 {
		t.Fatalf("expected 1 part, got %d", len(partIDs))
	}
	inds, err := usage.NewIndicationRepo(db, log).ListByPart(dbc, partIDs[0])
	if err != nil {
		t.Fatalf("indications: %v", err)
	}
	if len(inds) != 1 || inds[0] != "Febre" {
		t.Fatalf("unexpected indications: %+v", inds)
	}

	refRows, err := refs.NewReferenceRepo(db, log).ReferencesByPlant(dbc, created.ID)
	if err != nil {
		t.Fatalf("references: %v", err)
	}
	if len(refRows) != 1 || refRows[0].Titulo != "Flora de Moçambique" {
		t.Fatalf("unexpected references: %+v", refRows)
	}
}

func TestPlantAggregate_CreateFullRejectsDuplicateName(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	agg := newAggregateForTest(t, db, tx)

	testutil.SeedPlant(t, ctx, tx, "Aloe vera", "Asphodelaceae")

	_, err := agg.CreateFull(ctx, PlantInput{NomeCientifico: "aloe VERA", Familia: "Asphodelaceae"})
	if apierr.StatusOf(err) != 409 {
		t.Fatalf("expected 409, got %v", err)
	}
	if apierr.CodeOf(err) != "duplicate_plant" {
		t.Fatalf("expected duplicate_plant, got %q", apierr.CodeOf(err))
	}
}

func TestPlantAggregate_CreateFullUnknownProvince(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	agg := newAggregateForTest(t, db, tx)

	_, err := agg.CreateFull(context.Background(), PlantInput{
		NomeCientifico: "Senna alata",
		Familia:        "Fabaceae",
		Provincias:     []ProvinceInput{{IDProvincia: 999999, Local: "x"}},
	})
	if apierr.CodeOf(err) != "unknown_province" {
		t.Fatalf("expected unknown_province, got %v", err)
	}
}

func TestPlantAggregate_UpdateScalarOnlyKeepsRelations(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	log := testutil.Logger(t)
	agg := newAggregateForTest(t, db, tx)

	prov := testutil.SeedProvince(t, ctx, tx, "Sofala")
	created, err := agg.CreateFull(ctx, PlantInput{
		NomeCientifico: "Zingiber officinale",
		Familia:        "Zingiberaceae",
		NomesComuns:    []string{"gengibre"},
		Provincias:     []ProvinceInput{{IDProvincia: prov.ID, Local: "Dondo"}},
		Partes:         []PartInput{{NomeParte: "Rizoma", Indicacoes: []string{"Náusea"}}},
		Referencias:    []ReferenceInput{{Titulo: "Plantas aromáticas"}},
	})
	if err != nil {
		t.Fatalf("create full: %v", err)
	}

	quimica := "gingerol"
	if err := agg.Update(ctx, created.ID, PlantUpdate{CompQuimica: &quimica}); err != nil {
		t.Fatalf("update: %v", err)
	}

	updated, err := plants.NewPlantRepo(db, log).GetByID(dbc, created.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if updated.CompQuimica != "gingerol" {
		t.Fatalf("expected comp_quimica updated, got %q", updated.CompQuimica)
	}
	if updated.NomeCientifico != "Zingiber officinale" || updated.Familia != "Zingiberaceae" {
		t.Fatalf("untouched scalars changed: %+v", updated)
	}

	names, err := plants.NewCommonNameRepo(db, log).ListByPlant(dbc, created.ID)
	if err != nil || len(names) != 1 {
		t.Fatalf("common names lost on scalar edit: %v %+v", err, names)
	}
	sites, err := locations.NewSiteRepo(db, log).ListByPlant(dbc, created.ID)
	if err != nil || len(sites) != 1 {
		t.Fatalf("sites lost on scalar edit: %v %+v", err, sites)
	}
	partIDs, err := usage.NewPartRepo(db, log).PartIDsByPlant(dbc, created.ID)
	if err != nil || len(partIDs) != 1 {
		t.Fatalf("parts lost on scalar edit: %v %+v", err, partIDs)
	}
	refRows, err := refs.NewReferenceRepo(db, log).ReferencesByPlant(dbc, created.ID)
	if err != nil || len(refRows) != 1 {
		t.Fatalf("references lost on scalar edit: %v %+v", err, refRows)
	}

	// A present nomes_comuns replaces the list; sites stay put.
	novos := []string{"gengibre", "ginger"}
	if err := agg.Update(ctx, created.ID, PlantUpdate{NomesComuns: &novos}); err != nil {
		t.Fatalf("update names: %v", err)
	}
	names, err = plants.NewCommonNameRepo(db, log).ListByPlant(dbc, created.ID)
	if err != nil || len(names) != 2 {
		t.Fatalf("expected replaced names, got %v %+v", err, names)
	}
	sites, err = locations.NewSiteRepo(db, log).ListByPlant(dbc, created.ID)
	if err != nil || len(sites) != 1 {
		t.Fatalf("sites lost on name edit: %v %+v", err, sites)
	}
}

func TestPlantAggregate_UpdateValidatesPresentFields(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	agg := newAggregateForTest(t, db, tx)

	testutil.SeedPlant(t, ctx, tx, "Aloe vera", "Asphodelaceae")
	p := testutil.SeedPlant(t, ctx, tx, "Senna alata", "Fabaceae")

	blank := "  "
	if err := agg.Update(ctx, p.ID, PlantUpdate{NomeCientifico: &blank}); apierr.CodeOf(err) != "missing_nome_cientifico" {
		t.Fatalf("expected missing_nome_cientifico, got %v", err)
	}
	taken := "Aloe vera"
	if err := agg.Update(ctx, p.ID, PlantUpdate{NomeCientifico: &taken}); apierr.CodeOf(err) != "duplicate_plant" {
		t.Fatalf("expected duplicate_plant, got %v", err)
	}
}

func TestPlantAggregate_DeleteReturnsImageURLs(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	log := testutil.Logger(t)
	agg := newAggregateForTest(t, db, tx)

	p := testutil.SeedPlant(t, ctx, tx, "Catharanthus roseus", "Apocynaceae")
	img := &domain.Imagem{
		PlantaID:         p.ID,
		NomeArquivo:      "foto.jpg",
		URLArmazenamento: "/uploads/plantas_imagens/1/abc.jpg",
	}
	if err := plants.NewImageRepo(db, log).Create(dbc, img); err != nil {
		t.Fatalf("seed image: %v", err)
	}

	urls, err := agg.Delete(ctx, p.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(urls) != 1 || urls[0] != "/uploads/plantas_imagens/1/abc.jpg" {
		t.Fatalf("unexpected urls: %+v", urls)
	}
	if _, err := plants.NewPlantRepo(db, log).GetByID(dbc, p.ID); apierr.StatusOf(MapError("t", err)) != 404 {
		t.Fatalf("expected plant gone, got %v", err)
	}
}

func TestMapError_Classification(t *testing.T) {
	if apierr.StatusOf(MapError("op", gorm.ErrRecordNotFound)) != 404 {
		t.Fatalf("record-not-found should map to 404")
	}
	wrapped := apierr.Conflict("duplicate", "x")
	if MapError("op", wrapped) != wrapped {
		t.Fatalf("existing api errors must pass through")
	}
	if MapError("op", nil) != nil {
		t.Fatalf("nil stays nil")
	}
}
