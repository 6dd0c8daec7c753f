package domain

import (
	"time"

	"gorm.io/datatypes"
)

type Usuario struct {
	ID            uint       `gorm:"column:id_usuario;primaryKey;autoIncrement" json:"id_usuario"`
	NomeCompleto  string     `gorm:"column:nome_completo;size:150;not null" json:"nome_completo"`
	Email         string     `gorm:"column:email;size:150;not null;uniqueIndex" json:"email"`
	SenhaHash     string     `gorm:"column:senha_hash;size:255;not null" json:"-"`
	Ativo         bool       `gorm:"column:ativo;default:true" json:"ativo"`
	UltimoLogin   *time.Time `gorm:"column:ultimo_login" json:"ultimo_login"`
	DataRegistro  time.Time  `gorm:"column:data_registro;autoCreateTime" json:"data_registro"`
}

func (Usuario) TableName() string { return "usuario" }

type SessaoUsuario struct {
	ID            string     `gorm:"column:id_sessao;size:255;primaryKey" json:"id_sessao"`
	UsuarioID     uint       `gorm:"column:id_usuario;not null;index" json:"id_usuario"`
	TokenAcesso   string     `gorm:"column:token_acesso;type:text;not null" json:"-"`
	IPOrigem      string     `gorm:"column:ip_origem;size:45" json:"ip_origem"`
	UserAgent     string     `gorm:"column:user_agent;type:text" json:"user_agent"`
	DataCriacao   time.Time  `gorm:"column:data_criacao;autoCreateTime" json:"data_criacao"`
	DataExpiracao *time.Time `gorm:"column:data_expiracao" json:"data_expiracao"`
	Ativo         bool       `gorm:"column:ativo;default:true" json:"ativo"`
}

func (SessaoUsuario) TableName() string { return "sessao_usuario" }

// LogAcoesUsuario is the admin audit trail. Before/after snapshots are
// stored as JSON documents.
type LogAcoesUsuario struct {
	ID              uint           `gorm:"column:id_log;primaryKey;autoIncrement" json:"id_log"`
	UsuarioID       uint           `gorm:"column:id_usuario;not null;index" json:"id_usuario"`
	Acao            string         `gorm:"column:acao;size:100;not null" json:"acao"`
	Descricao       string         `gorm:"column:descricao;type:text" json:"descricao"`
	TabelaAfetada   string         `gorm:"column:tabela_afetada;size:100" json:"tabela_afetada"`
	RegistroAfetado uint           `gorm:"column:id_registro_afetado" json:"id_registro_afetado"`
	DadosAnteriores datatypes.JSON `gorm:"column:dados_anteriores" json:"dados_anteriores"`
	DadosNovos      datatypes.JSON `gorm:"column:dados_novos" json:"dados_novos"`
	IPOrigem        string         `gorm:"column:ip_origem;size:45" json:"ip_origem"`
	DataAcao        time.Time      `gorm:"column:data_acao;autoCreateTime" json:"data_acao"`
}

func (LogAcoesUsuario) TableName() string { return "log_acoes_usuario" }

type LogPesquisa struct {
	ID                    uint      `gorm:"column:id_pesquisa;primaryKey;autoIncrement" json:"id_pesquisa"`
	TermoPesquisa         string    `gorm:"column:termo_pesquisa;size:255" json:"termo_pesquisa"`
	TipoPesquisa          string    `gorm:"column:tipo_pesquisa;size:50;default:'nome_popular'" json:"tipo_pesquisa"`
	IPUsuario             string    `gorm:"column:ip_usuario;size:45" json:"-"`
	UserAgent             string    `gorm:"column:user_agent;type:text" json:"-"`
	DataPesquisa          time.Time `gorm:"column:data_pesquisa;autoCreateTime" json:"data_pesquisa"`
	ResultadosEncontrados int       `gorm:"column:resultados_encontrados;default:0" json:"resultados_encontrados"`
}

func (LogPesquisa) TableName() string { return "log_pesquisas" }
