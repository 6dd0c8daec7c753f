package domain

type Autor struct {
	ID   uint   `gorm:"column:id_autor;primaryKey;autoIncrement" json:"id_autor"`
	Nome string `gorm:"column:nome_autor;size:255;not null" json:"nome_autor"`

	Afiliacoes []AutorAfiliacao `gorm:"foreignKey:AutorID" json:"-"`
}

func (Autor) TableName() string { return "autor" }

type Afiliacao struct {
	ID    uint   `gorm:"column:id_afiliacao;primaryKey;autoIncrement" json:"id_afiliacao"`
	Nome  string `gorm:"column:nome_afiliacao;size:255;not null" json:"nome_afiliacao"`
	Sigla string `gorm:"column:sigla_afiliacao;size:20" json:"sigla_afiliacao"`
}

func (Afiliacao) TableName() string { return "afiliacao" }

type AutorAfiliacao struct {
	AutorID     uint       `gorm:"column:id_autor;primaryKey" json:"id_autor"`
	AfiliacaoID uint       `gorm:"column:id_afiliacao;primaryKey" json:"id_afiliacao"`
	Afiliacao   *Afiliacao `gorm:"foreignKey:AfiliacaoID" json:"-"`
}

func (AutorAfiliacao) TableName() string { return "autor_afiliacao" }

type Referencia struct {
	ID            uint    `gorm:"column:id_referencia;primaryKey;autoIncrement" json:"id_referencia"`
	Titulo        string  `gorm:"column:titulo_referencia;size:255;not null" json:"titulo_referencia"`
	Link          *string `gorm:"column:link_referencia;size:255;uniqueIndex" json:"link_referencia"`
	AnoPublicacao *int    `gorm:"column:ano_publicacao" json:"ano_publicacao"`

	Autores []ReferenciaAutor `gorm:"foreignKey:ReferenciaID" json:"-"`
}

func (Referencia) TableName() string { return "referencia" }

type ReferenciaAutor struct {
	ReferenciaID uint   `gorm:"column:id_referencia;primaryKey" json:"id_referencia"`
	AutorID      uint   `gorm:"column:id_autor;primaryKey" json:"id_autor"`
	Autor        *Autor `gorm:"foreignKey:AutorID" json:"-"`
}

func (ReferenciaAutor) TableName() string { return "referencia_autor" }

type PlantaReferencia struct {
	PlantaID     uint        `gorm:"column:id_planta;primaryKey" json:"id_planta"`
	ReferenciaID uint        `gorm:"column:id_referencia;primaryKey" json:"id_referencia"`
	Referencia   *Referencia `gorm:"foreignKey:ReferenciaID" json:"-"`
}

func (PlantaReferencia) TableName() string { return "planta_referencia" }
