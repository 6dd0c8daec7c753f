package app

import (
	"gorm.io/gorm"

	"github.com/mzflora/plantario-backend/internal/data/repos/locations"
	"github.com/mzflora/plantario-backend/internal/data/repos/logs"
	"github.com/mzflora/plantario-backend/internal/data/repos/plants"
	"github.com/mzflora/plantario-backend/internal/data/repos/refs"
	"github.com/mzflora/plantario-backend/internal/data/repos/usage"
	"github.com/mzflora/plantario-backend/internal/data/repos/users"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
)

type Repos struct {
	Plant      plants.PlantRepo
	CommonName plants.CommonNameRepo
	Image      plants.ImageRepo

	Province locations.ProvinceRepo
	Site     locations.SiteRepo

	Part       usage.PartRepo
	Indication usage.IndicationRepo
	Method     usage.MethodRepo

	Author      refs.AuthorRepo
	Affiliation refs.AffiliationRepo
	Reference   refs.ReferenceRepo

	SearchLog logs.SearchLogRepo
	AuditLog  logs.AuditLogRepo

	User users.UserRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		Plant:      plants.NewPlantRepo(db, log),
		CommonName: plants.NewCommonNameRepo(db, log),
		Image:      plants.NewImageRepo(db, log),

		Province: locations.NewProvinceRepo(db, log),
		Site:     locations.NewSiteRepo(db, log),

		Part:       usage.NewPartRepo(db, log),
		Indication: usage.NewIndicationRepo(db, log),
		Method:     usage.NewMethodRepo(db, log),

		Author:      refs.NewAuthorRepo(db, log),
		Affiliation: refs.NewAffiliationRepo(db, log),
		Reference:   refs.NewReferenceRepo(db, log),

		SearchLog: logs.NewSearchLogRepo(db, log),
		AuditLog:  logs.NewAuditLogRepo(db, log),

		User: users.NewUserRepo(db, log),
	}
}
