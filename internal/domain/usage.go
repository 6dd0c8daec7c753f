package domain

type ParteUsada struct {
	ID        uint   `gorm:"column:id_parte;primaryKey;autoIncrement" json:"id_parte"`
	NomeParte string `gorm:"column:nome_parte;size:50;not null;uniqueIndex" json:"nome_parte"`

	Indicacoes []ParteIndicacao `gorm:"foreignKey:ParteID" json:"-"`
}

func (ParteUsada) TableName() string { return "parte_usada" }

type Indicacao struct {
	ID           uint   `gorm:"column:id_uso;primaryKey;autoIncrement" json:"id_uso"`
	DescricaoUso string `gorm:"column:descricao_uso;type:text;not null" json:"descricao_uso"`
}

func (Indicacao) TableName() string { return "indicacao" }

type MetodoPreparacaoTrad struct {
	ID        uint   `gorm:"column:id_metodo_preparacao;primaryKey;autoIncrement" json:"id_metodo_preparacao"`
	Descricao string `gorm:"column:descricao_metodo_preparacao;type:text;not null" json:"descricao"`
}

func (MetodoPreparacaoTrad) TableName() string { return "metodo_preparacao_trad" }

type MetodoExtracaoCientif struct {
	ID        uint   `gorm:"column:id_metodo_extraccao;primaryKey;autoIncrement" json:"id_metodo_extraccao"`
	Descricao string `gorm:"column:descricao_metodo_extraccao;type:text;not null" json:"descricao"`
}

func (MetodoExtracaoCientif) TableName() string { return "metodo_extraccao_cientif" }

type PlantaParte struct {
	PlantaID uint        `gorm:"column:id_planta;primaryKey" json:"id_planta"`
	ParteID  uint        `gorm:"column:id_parte;primaryKey" json:"id_parte"`
	Parte    *ParteUsada `gorm:"foreignKey:ParteID" json:"-"`
}

func (PlantaParte) TableName() string { return "planta_parte" }

type ParteIndicacao struct {
	ParteID   uint       `gorm:"column:id_parte;primaryKey" json:"id_parte"`
	UsoID     uint       `gorm:"column:id_uso;primaryKey" json:"id_uso"`
	Indicacao *Indicacao `gorm:"foreignKey:UsoID" json:"-"`
}

func (ParteIndicacao) TableName() string { return "parte_indicacao" }

// ParteMetodoTrad links a used part to a traditional preparation method.
type ParteMetodoTrad struct {
	ParteID  uint `gorm:"column:id_parte;primaryKey" json:"id_parte"`
	MetodoID uint `gorm:"column:id_metodo_preparacao;primaryKey" json:"id_metodo_preparacao"`
}

func (ParteMetodoTrad) TableName() string { return "planta_metodo_trad" }

// ParteMetodo links a used part to a scientific extraction method.
type ParteMetodo struct {
	ParteID  uint `gorm:"column:id_parte;primaryKey" json:"id_parte"`
	MetodoID uint `gorm:"column:id_metodo_extraccao;primaryKey" json:"id_metodo_extraccao"`
}

func (ParteMetodo) TableName() string { return "parte_metodo" }
