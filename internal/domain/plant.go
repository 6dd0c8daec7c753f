package domain

// Planta is the root aggregate of the catalog. Familia is free text by a
// deliberate schema decision: it is not a foreign key into any family
// table, and family-level operations aggregate over this column.
type Planta struct {
	ID               uint   `gorm:"column:id_planta;primaryKey;autoIncrement" json:"id_planta"`
	NomeCientifico   string `gorm:"column:nome_cientifico;size:100;not null;uniqueIndex" json:"nome_cientifico"`
	Familia          string `gorm:"column:familia;size:100;not null" json:"familia"`
	InfosAdicionais  string `gorm:"column:infos_adicionais;type:text" json:"infos_adicionais"`
	CompQuimica      string `gorm:"column:comp_quimica;type:text" json:"comp_quimica"`
	PropFarmacologica string `gorm:"column:prop_farmacologica;type:text" json:"prop_farmacologica"`

	NomesComuns []NomeComum         `gorm:"foreignKey:PlantaID;constraint:OnDelete:CASCADE" json:"-"`
	Imagens     []Imagem            `gorm:"foreignKey:PlantaID;constraint:OnDelete:CASCADE" json:"-"`
	Locais      []PlantaLocal       `gorm:"foreignKey:PlantaID;constraint:OnDelete:CASCADE" json:"-"`
	Partes      []PlantaParte       `gorm:"foreignKey:PlantaID;constraint:OnDelete:CASCADE" json:"-"`
	Referencias []PlantaReferencia  `gorm:"foreignKey:PlantaID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Planta) TableName() string { return "planta_medicinal" }

type NomeComum struct {
	ID       uint   `gorm:"column:id_nome;primaryKey;autoIncrement" json:"id_nome"`
	Nome     string `gorm:"column:nome;size:255;not null" json:"nome"`
	PlantaID uint   `gorm:"column:id_planta;not null;index" json:"id_planta"`
}

func (NomeComum) TableName() string { return "nome_comum" }

type Imagem struct {
	ID               uint   `gorm:"column:id_imagem;primaryKey;autoIncrement" json:"id_imagem"`
	NomeArquivo      string `gorm:"column:nome_arquivo;size:255;not null" json:"nome_arquivo"`
	URLArmazenamento string `gorm:"column:url_armazenamento;size:255;not null;uniqueIndex" json:"url"`
	Legenda          string `gorm:"column:legenda;size:255" json:"legenda"`
	ReferenciaImg    string `gorm:"column:referencia_img;size:255" json:"referencia"`
	PlantaID         uint   `gorm:"column:id_planta;not null;index" json:"id_planta"`
}

func (Imagem) TableName() string { return "imagem" }
