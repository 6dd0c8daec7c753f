package testutil

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/mzflora/plantario-backend/internal/domain"
)

func SeedPlant(tb testing.TB, ctx context.Context, tx *gorm.DB, nome, familia string) *domain.Planta {
	tb.Helper()
	p := &domain.Planta{
		NomeCientifico: nome,
		Familia:        familia,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed plant: %v", err)
	}
	return p
}

func SeedCommonName(tb testing.TB, ctx context.Context, tx *gorm.DB, plantID uint, nome string) *domain.NomeComum {
	tb.Helper()
	n := &domain.NomeComum{Nome: nome, PlantaID: plantID}
	if err := tx.WithContext(ctx).Create(n).Error; err != nil {
		tb.Fatalf("seed common name: %v", err)
	}
	return n
}

func SeedProvince(tb testing.TB, ctx context.Context, tx *gorm.DB, nome string) *domain.Provincia {
	tb.Helper()
	p := &domain.Provincia{Nome: nome}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed province: %v", err)
	}
	return p
}

func SeedSite(tb testing.TB, ctx context.Context, tx *gorm.DB, provinceID uint, nome string) *domain.LocalColheita {
	tb.Helper()
	s := &domain.LocalColheita{NomeLocal: nome, ProvinciaID: provinceID}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed site: %v", err)
	}
	return s
}

func LinkPlantSite(tb testing.TB, ctx context.Context, tx *gorm.DB, plantID, siteID uint) {
	tb.Helper()
	link := &domain.PlantaLocal{PlantaID: plantID, LocalID: siteID}
	if err := tx.WithContext(ctx).Create(link).Error; err != nil {
		tb.Fatalf("link plant site: %v", err)
	}
}

func SeedPart(tb testing.TB, ctx context.Context, tx *gorm.DB, nome string) *domain.ParteUsada {
	tb.Helper()
	p := &domain.ParteUsada{NomeParte: nome}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed part: %v", err)
	}
	return p
}

func LinkPlantPart(tb testing.TB, ctx context.Context, tx *gorm.DB, plantID, partID uint) {
	tb.Helper()
	link := &domain.PlantaParte{PlantaID: plantID, ParteID: partID}
	if err := tx.WithContext(ctx).Create(link).Error; err != nil {
		tb.Fatalf("link plant part: %v", err)
	}
}

func SeedAuthor(tb testing.TB, ctx context.Context, tx *gorm.DB, nome string) *domain.Autor {
	tb.Helper()
	a := &domain.Autor{Nome: nome}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed author: %v", err)
	}
	return a
}

func SeedAffiliation(tb testing.TB, ctx context.Context, tx *gorm.DB, nome, sigla string) *domain.Afiliacao {
	tb.Helper()
	a := &domain.Afiliacao{Nome: nome, Sigla: sigla}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed affiliation: %v", err)
	}
	return a
}

func SeedReference(tb testing.TB, ctx context.Context, tx *gorm.DB, titulo string) *domain.Referencia {
	tb.Helper()
	r := &domain.Referencia{Titulo: titulo}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed reference: %v", err)
	}
	return r
}

func LinkReferenceAuthor(tb testing.TB, ctx context.Context, tx *gorm.DB, refID, authorID uint) {
	tb.Helper()
	link := &domain.ReferenciaAutor{ReferenciaID: refID, AutorID: authorID}
	if err := tx.WithContext(ctx).Create(link).Error; err != nil {
		tb.Fatalf("link reference author: %v", err)
	}
}

func LinkPlantReference(tb testing.TB, ctx context.Context, tx *gorm.DB, plantID, refID uint) {
	tb.Helper()
	link := &domain.PlantaReferencia{PlantaID: plantID, ReferenciaID: refID}
	if err := tx.WithContext(ctx).Create(link).Error; err != nil {
		tb.Fatalf("link plant reference: %v", err)
	}
}

func PtrStr(v string) *string { return &v }

func PtrInt(v int) *int { return &v }
