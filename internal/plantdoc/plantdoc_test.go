package plantdoc

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/mzflora/plantario-backend/internal/data/repos/locations"
	"github.com/mzflora/plantario-backend/internal/domain"
)

func TestAssemble_EmptyRelationsMarshalAsArrays(t *testing.T) {
	p := &domain.Planta{ID: 7, NomeCientifico: "Moringa oleifera", Familia: "Moringaceae"}

	doc := Assemble(p, nil, nil, nil, nil, nil)

	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(raw)
	if strings.Contains(body, "null") {
		t.Fatalf("expected no null collections, got %s", body)
	}
	for _, key := range []string{`"nomes_comuns":[]`, `"provincias":[]`, `"partes_usadas":[]`, `"referencias":[]`, `"autores":[]`, `"imagens":[]`} {
		if !strings.Contains(body, key) {
			t.Fatalf("expected %s in %s", key, body)
		}
	}
}

func TestAssemble_PartCollectionsNeverNull(t *testing.T) {
	p := &domain.Planta{ID: 1, NomeCientifico: "x", Familia: "y"}
	doc := Assemble(p, nil, nil, []PartSource{
		{Part: domain.ParteUsada{ID: 3, NomeParte: "Folha"}},
	}, nil, nil)

	part := doc.PartesUsadas[0]
	if part.Indicacoes == nil || part.MetodosPreparacao == nil || part.MetodosExtracao == nil {
		t.Fatalf("expected empty slices, got %+v", part)
	}
	if part.IDParte != 3 || part.NomeParte != "Folha" {
		t.Fatalf("unexpected part entry: %+v", part)
	}
}

func TestAssemble_SitesCarryProvinceAndLocal(t *testing.T) {
	p := &domain.Planta{ID: 1, NomeCientifico: "x", Familia: "y"}
	doc := Assemble(p, nil, []locations.SiteWithProvince{
		{IDLocal: 4, NomeLocal: "Matutuíne", IDProvincia: 2, Provincia: "Maputo"},
	}, nil, nil, nil)

	got := doc.Provincias[0]
	if got.IDProvincia != 2 || got.NomeProvincia != "Maputo" || got.Local != "Matutuíne" {
		t.Fatalf("unexpected site entry: %+v", got)
	}
}

func TestNewAuthorEntry_LegacyFieldsMirrorLowestIDAffiliation(t *testing.T) {
	entry := NewAuthorEntry(AuthorSource{
		Autor: domain.Autor{ID: 9, Nome: "A. Bandeira"},
		Afiliacoes: []domain.Afiliacao{
			{ID: 30, Nome: "Universidade Lúrio", Sigla: "UniLúrio"},
			{ID: 12, Nome: "Universidade Eduardo Mondlane", Sigla: "UEM"},
		},
	})

	if entry.Afiliacao != "Universidade Eduardo Mondlane" || entry.SiglaAfiliacao != "UEM" {
		t.Fatalf("expected lowest-id affiliation mirrored, got %q/%q", entry.Afiliacao, entry.SiglaAfiliacao)
	}
	if entry.Afiliacoes[0].IDAfiliacao != 12 || entry.Afiliacoes[1].IDAfiliacao != 30 {
		t.Fatalf("expected affiliations sorted by id, got %+v", entry.Afiliacoes)
	}
}

func TestNewAuthorEntry_NoAffiliations(t *testing.T) {
	entry := NewAuthorEntry(AuthorSource{Autor: domain.Autor{ID: 1, Nome: "B"}})
	if entry.Afiliacao != "" || entry.SiglaAfiliacao != "" {
		t.Fatalf("expected empty legacy fields, got %q/%q", entry.Afiliacao, entry.SiglaAfiliacao)
	}
	if entry.Afiliacoes == nil || len(entry.Afiliacoes) != 0 {
		t.Fatalf("expected empty affiliation list, got %+v", entry.Afiliacoes)
	}
}

func TestAssemble_ReferenceLinkAndYear(t *testing.T) {
	link := "https://doi.org/10.1000/x"
	ano := 2018
	p := &domain.Planta{ID: 1, NomeCientifico: "x", Familia: "y"}
	doc := Assemble(p, nil, nil, nil, []ReferenceSource{
		{
			Ref: domain.Referencia{ID: 5, Titulo: "Plantas medicinais", Link: &link, AnoPublicacao: &ano},
			Autores: []AuthorSource{
				{Autor: domain.Autor{ID: 2, Nome: "C. Cumbane"}},
			},
		},
	}, nil)

	ref := doc.Referencias[0]
	if ref.Link != link {
		t.Fatalf("expected link %q, got %q", link, ref.Link)
	}
	if ref.AnoPublicacao == nil || *ref.AnoPublicacao != 2018 {
		t.Fatalf("expected ano 2018, got %v", ref.AnoPublicacao)
	}
	if len(ref.Autores) != 1 || ref.Autores[0].NomeAutor != "C. Cumbane" {
		t.Fatalf("unexpected authors: %+v", ref.Autores)
	}
	if ref.TipoReferencia != "Artigo" {
		t.Fatalf("expected DOI link typed as Artigo, got %q", ref.TipoReferencia)
	}
}

func TestAssemble_AuthorRollupDeduplicatesAcrossReferences(t *testing.T) {
	p := &domain.Planta{ID: 1, NomeCientifico: "x", Familia: "y"}
	shared := AuthorSource{Autor: domain.Autor{ID: 2, Nome: "C. Cumbane"}}
	doc := Assemble(p, nil, nil, nil, []ReferenceSource{
		{Ref: domain.Referencia{ID: 5, Titulo: "Primeiro estudo"}, Autores: []AuthorSource{shared}},
		{
			Ref: domain.Referencia{ID: 6, Titulo: "Segundo estudo"},
			Autores: []AuthorSource{
				shared,
				{Autor: domain.Autor{ID: 9, Nome: "A. Bandeira"}},
			},
		},
	}, nil)

	if len(doc.Autores) != 2 {
		t.Fatalf("expected 2 distinct authors, got %+v", doc.Autores)
	}
	if doc.Autores[0].IDAutor != 2 || doc.Autores[1].IDAutor != 9 {
		t.Fatalf("unexpected rollup order: %+v", doc.Autores)
	}
	if doc.Referencias[1].Autores[0].IDAutor != 2 {
		t.Fatalf("per-reference authors must keep the duplicate: %+v", doc.Referencias[1].Autores)
	}
}

func TestReferenceType(t *testing.T) {
	cases := map[string]string{
		"https://doi.org/10.1000/x":  "Artigo",
		"http://example.org/article": "URL",
		"acervo interno, caixa 12":   "Outro",
		"":                           "Outro",
	}
	for link, want := range cases {
		if got := ReferenceType(link); got != want {
			t.Fatalf("ReferenceType(%q) = %q, want %q", link, got, want)
		}
	}
}
