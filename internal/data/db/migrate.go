package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/mzflora/plantario-backend/internal/domain"
)

// AutoMigrateAll creates or updates every catalog table. Order matters
// for the association tables: referenced tables first.
func AutoMigrateAll(gdb *gorm.DB) error {
	models := []any{
		&domain.Planta{},
		&domain.NomeComum{},
		&domain.Imagem{},
		&domain.Provincia{},
		&domain.LocalColheita{},
		&domain.Regiao{},
		&domain.ParteUsada{},
		&domain.Indicacao{},
		&domain.MetodoPreparacaoTrad{},
		&domain.MetodoExtracaoCientif{},
		&domain.Autor{},
		&domain.Afiliacao{},
		&domain.Referencia{},
		&domain.PlantaLocal{},
		&domain.PlantaParte{},
		&domain.ParteIndicacao{},
		&domain.ParteMetodoTrad{},
		&domain.ParteMetodo{},
		&domain.AutorAfiliacao{},
		&domain.ReferenciaAutor{},
		&domain.PlantaReferencia{},
		&domain.Usuario{},
		&domain.SessaoUsuario{},
		&domain.LogAcoesUsuario{},
		&domain.LogPesquisa{},
	}
	if err := gdb.AutoMigrate(models...); err != nil {
		return fmt.Errorf("db: automigrate: %w", err)
	}
	return nil
}
