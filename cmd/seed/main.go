// Seeds the catalog with baseline reference data (provinces, plant
// parts) and an initial admin account. Safe to run repeatedly: rows
// that already exist are left alone.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mzflora/plantario-backend/internal/app"
	"github.com/mzflora/plantario-backend/internal/domain"
	"github.com/mzflora/plantario-backend/internal/platform/dbctx"
)

type seedFile struct {
	Provincias   []string `yaml:"provincias"`
	PartesUsadas []string `yaml:"partes_usadas"`
	Indicacoes   []string `yaml:"indicacoes"`
	// Admin is created only when absent; the seeder never rotates
	// an existing password.
	Admin struct {
		Nome  string `yaml:"nome"`
		Email string `yaml:"email"`
		Senha string `yaml:"senha"`
	} `yaml:"admin"`
}

func main() {
	path := flag.String("f", "seed.yml", "seed file")
	flag.Parse()

	raw, err := os.ReadFile(*path)
	if err != nil {
		fmt.Printf("read seed file: %v\n", err)
		os.Exit(1)
	}
	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		fmt.Printf("parse seed file: %v\n", err)
		os.Exit(1)
	}

	a, err := app.New()
	if err != nil {
		fmt.Printf("failed to start: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}

	for _, nome := range seed.Provincias {
		if existing, err := a.Repos.Province.GetByName(dbc, nome); err == nil && existing != nil {
			continue
		}
		if err := a.Repos.Province.Create(dbc, &domain.Provincia{Nome: nome}); err != nil {
			a.Log.Error("seed province failed", "provincia", nome, "error", err)
			os.Exit(1)
		}
		a.Log.Info("province seeded", "provincia", nome)
	}

	for _, nome := range seed.PartesUsadas {
		if _, err := a.Repos.Part.FindOrCreate(dbc, nome); err != nil {
			a.Log.Error("seed part failed", "parte", nome, "error", err)
			os.Exit(1)
		}
	}

	for _, descricao := range seed.Indicacoes {
		if _, err := a.Repos.Indication.FindOrCreate(dbc, descricao); err != nil {
			a.Log.Error("seed indication failed", "indicacao", descricao, "error", err)
			os.Exit(1)
		}
	}

	if seed.Admin.Email != "" {
		if existing, err := a.Repos.User.GetByEmail(dbc, seed.Admin.Email); err == nil && existing != nil {
			a.Log.Info("admin account already present", "email", seed.Admin.Email)
		} else if _, err := a.Services.Auth.Register(ctx, seed.Admin.Nome, seed.Admin.Email, seed.Admin.Senha); err != nil {
			a.Log.Error("seed admin failed", "error", err)
			os.Exit(1)
		} else {
			a.Log.Info("admin account created", "email", seed.Admin.Email)
		}
	}

	a.Log.Info("seed complete")
}
