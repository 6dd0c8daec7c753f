// Package plantdoc assembles the public JSON document of a plant from
// already-loaded rows. It is pure: no database access, so the exact
// wire shape is testable in isolation.
package plantdoc

import (
	"sort"
	"strings"

	"github.com/mzflora/plantario-backend/internal/data/repos/locations"
	"github.com/mzflora/plantario-backend/internal/domain"
)

type SiteEntry struct {
	IDProvincia   uint   `json:"id_provincia"`
	NomeProvincia string `json:"nome_provincia"`
	Local         string `json:"local"`
}

type PartEntry struct {
	IDParte           uint     `json:"id_parte"`
	NomeParte         string   `json:"nome_parte"`
	Indicacoes        []string `json:"indicacoes"`
	MetodosPreparacao []string `json:"metodos_preparacao"`
	MetodosExtracao   []string `json:"metodos_extracao"`
}

type AffiliationEntry struct {
	IDAfiliacao    uint   `json:"id_afiliacao"`
	NomeAfiliacao  string `json:"nome_afiliacao"`
	SiglaAfiliacao string `json:"sigla_afiliacao"`
}

// AuthorEntry keeps the legacy singular afiliacao fields alongside the
// full list. They mirror the affiliation with the lowest id.
type AuthorEntry struct {
	IDAutor        uint               `json:"id_autor"`
	NomeAutor      string             `json:"nome_autor"`
	Afiliacoes     []AffiliationEntry `json:"afiliacoes"`
	Afiliacao      string             `json:"afiliacao"`
	SiglaAfiliacao string             `json:"sigla_afiliacao"`
}

type ReferenceEntry struct {
	IDReferencia   uint          `json:"id_referencia"`
	Titulo         string        `json:"titulo"`
	Link           string        `json:"link"`
	AnoPublicacao  *int          `json:"ano_publicacao"`
	TipoReferencia string        `json:"tipo_referencia"`
	Autores        []AuthorEntry `json:"autores"`
}

type ImageEntry struct {
	IDImagem    uint   `json:"id_imagem"`
	NomeArquivo string `json:"nome_arquivo"`
	URL         string `json:"url"`
	Legenda     string `json:"legenda"`
	Referencia  string `json:"referencia"`
}

type Document struct {
	IDPlanta          uint             `json:"id_planta"`
	NomeCientifico    string           `json:"nome_cientifico"`
	Familia           string           `json:"familia"`
	InfosAdicionais   string           `json:"infos_adicionais"`
	CompQuimica       string           `json:"comp_quimica"`
	PropFarmacologica string           `json:"prop_farmacologica"`
	NomesComuns       []string         `json:"nomes_comuns"`
	Provincias        []SiteEntry      `json:"provincias"`
	PartesUsadas      []PartEntry      `json:"partes_usadas"`
	Referencias       []ReferenceEntry `json:"referencias"`
	Autores           []AuthorEntry    `json:"autores"`
	Imagens           []ImageEntry     `json:"imagens"`
}

// Summary is the flat listing shape, without relations.
type Summary struct {
	IDPlanta          uint   `json:"id_planta"`
	NomeCientifico    string `json:"nome_cientifico"`
	Familia           string `json:"familia"`
	InfosAdicionais   string `json:"infos_adicionais"`
	CompQuimica       string `json:"comp_quimica"`
	PropFarmacologica string `json:"prop_farmacologica"`
}

// PartSource is a used part with its text collections, as loaded by the
// service layer.
type PartSource struct {
	Part              domain.ParteUsada
	Indicacoes        []string
	MetodosPreparacao []string
	MetodosExtracao   []string
}

type AuthorSource struct {
	Autor      domain.Autor
	Afiliacoes []domain.Afiliacao
}

type ReferenceSource struct {
	Ref     domain.Referencia
	Autores []AuthorSource
}

func NewSummary(p *domain.Planta) Summary {
	return Summary{
		IDPlanta:          p.ID,
		NomeCientifico:    p.NomeCientifico,
		Familia:           p.Familia,
		InfosAdicionais:   p.InfosAdicionais,
		CompQuimica:       p.CompQuimica,
		PropFarmacologica: p.PropFarmacologica,
	}
}

// Assemble builds the full document. Every collection is non-nil so the
// JSON always carries arrays, never null.
func Assemble(
	p *domain.Planta,
	names []domain.NomeComum,
	sites []locations.SiteWithProvince,
	parts []PartSource,
	references []ReferenceSource,
	images []domain.Imagem,
) *Document {
	doc := &Document{
		IDPlanta:          p.ID,
		NomeCientifico:    p.NomeCientifico,
		Familia:           p.Familia,
		InfosAdicionais:   p.InfosAdicionais,
		CompQuimica:       p.CompQuimica,
		PropFarmacologica: p.PropFarmacologica,
		NomesComuns:       make([]string, 0, len(names)),
		Provincias:        make([]SiteEntry, 0, len(sites)),
		PartesUsadas:      make([]PartEntry, 0, len(parts)),
		Referencias:       make([]ReferenceEntry, 0, len(references)),
		Autores:           []AuthorEntry{},
		Imagens:           make([]ImageEntry, 0, len(images)),
	}

	for _, n := range names {
		doc.NomesComuns = append(doc.NomesComuns, n.Nome)
	}
	for _, s := range sites {
		doc.Provincias = append(doc.Provincias, SiteEntry{
			IDProvincia:   s.IDProvincia,
			NomeProvincia: s.Provincia,
			Local:         s.NomeLocal,
		})
	}
	for _, ps := range parts {
		doc.PartesUsadas = append(doc.PartesUsadas, PartEntry{
			IDParte:           ps.Part.ID,
			NomeParte:         ps.Part.NomeParte,
			Indicacoes:        nonNil(ps.Indicacoes),
			MetodosPreparacao: nonNil(ps.MetodosPreparacao),
			MetodosExtracao:   nonNil(ps.MetodosExtracao),
		})
	}
	// The top-level author list rolls up the reference authors, each
	// author once even when cited by several references.
	seenAuthors := map[uint]bool{}
	for _, rs := range references {
		entry := newReferenceEntry(rs)
		doc.Referencias = append(doc.Referencias, entry)
		for _, a := range entry.Autores {
			if seenAuthors[a.IDAutor] {
				continue
			}
			seenAuthors[a.IDAutor] = true
			doc.Autores = append(doc.Autores, a)
		}
	}
	for _, img := range images {
		doc.Imagens = append(doc.Imagens, ImageEntry{
			IDImagem:    img.ID,
			NomeArquivo: img.NomeArquivo,
			URL:         img.URLArmazenamento,
			Legenda:     img.Legenda,
			Referencia:  img.ReferenciaImg,
		})
	}
	return doc
}

func newReferenceEntry(rs ReferenceSource) ReferenceEntry {
	entry := ReferenceEntry{
		IDReferencia:  rs.Ref.ID,
		Titulo:        rs.Ref.Titulo,
		AnoPublicacao: rs.Ref.AnoPublicacao,
		Autores:       make([]AuthorEntry, 0, len(rs.Autores)),
	}
	if rs.Ref.Link != nil {
		entry.Link = *rs.Ref.Link
	}
	entry.TipoReferencia = ReferenceType(entry.Link)
	for _, as := range rs.Autores {
		entry.Autores = append(entry.Autores, NewAuthorEntry(as))
	}
	return entry
}

// ReferenceType classifies a reference by its link: DOI links are
// articles, other URLs are plain links, anything else is Outro.
func ReferenceType(link string) string {
	switch {
	case strings.Contains(link, "doi.org"):
		return "Artigo"
	case strings.HasPrefix(link, "http"):
		return "URL"
	default:
		return "Outro"
	}
}

// NewAuthorEntry flattens an author, filling the legacy singular fields
// from the lowest-id affiliation.
func NewAuthorEntry(as AuthorSource) AuthorEntry {
	entry := AuthorEntry{
		IDAutor:    as.Autor.ID,
		NomeAutor:  as.Autor.Nome,
		Afiliacoes: make([]AffiliationEntry, 0, len(as.Afiliacoes)),
	}
	affs := make([]domain.Afiliacao, len(as.Afiliacoes))
	copy(affs, as.Afiliacoes)
	sort.Slice(affs, func(i, j int) bool { return affs[i].ID < affs[j].ID })
	for _, af := range affs {
		entry.Afiliacoes = append(entry.Afiliacoes, AffiliationEntry{
			IDAfiliacao:    af.ID,
			NomeAfiliacao:  af.Nome,
			SiglaAfiliacao: af.Sigla,
		})
	}
	if len(affs) > 0 {
		entry.Afiliacao = affs[0].Nome
		entry.SiglaAfiliacao = affs[0].Sigla
	}
	return entry
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
