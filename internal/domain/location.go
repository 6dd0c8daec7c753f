package domain

type Provincia struct {
	ID   uint   `gorm:"column:id_provincia;primaryKey;autoIncrement" json:"id_provincia"`
	Nome string `gorm:"column:provincia;size:20;not null;uniqueIndex" json:"nome_provincia"`
}

func (Provincia) TableName() string { return "provincia" }

type LocalColheita struct {
	ID          uint       `gorm:"column:id_local;primaryKey;autoIncrement" json:"id_local"`
	NomeLocal   string     `gorm:"column:nome_local;size:255;not null" json:"nome_local"`
	ProvinciaID uint       `gorm:"column:id_provincia;not null;index" json:"id_provincia"`
	Provincia   *Provincia `gorm:"foreignKey:ProvinciaID" json:"-"`
}

func (LocalColheita) TableName() string { return "local_colheita" }

type Regiao struct {
	ID          uint       `gorm:"column:id_regiao;primaryKey;autoIncrement" json:"id_regiao"`
	NomeRegiao  string     `gorm:"column:nome_regiao;size:100" json:"nome_regiao"`
	ProvinciaID uint       `gorm:"column:id_provincia;index" json:"id_provincia"`
	Provincia   *Provincia `gorm:"foreignKey:ProvinciaID" json:"-"`
}

func (Regiao) TableName() string { return "regiao" }

// PlantaLocal associates a plant with a collection site. Composite key,
// no identity of its own.
type PlantaLocal struct {
	PlantaID uint           `gorm:"column:id_planta;primaryKey" json:"id_planta"`
	LocalID  uint           `gorm:"column:id_local;primaryKey" json:"id_local"`
	Local    *LocalColheita `gorm:"foreignKey:LocalID" json:"-"`
}

func (PlantaLocal) TableName() string { return "planta_local" }
