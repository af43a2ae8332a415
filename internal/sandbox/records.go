package sandbox

import (
	"time"

	"github.com/devpureza/liga-expo/internal/model"
	"github.com/devpureza/liga-expo/internal/status"
)

// Account is a seeded operator with a bcrypt password hash.
type Account struct {
	ID             string
	Name           string
	Email          string
	CPF            string
	Avatar         string
	ApprovalStatus string
	Groups         []string
	CreatedAt      time.Time
	PasswordHash   []byte
}

// User converts the account to the client-side identity, role included.
func (a Account) User() model.User {
	return model.User{
		ID:             a.ID,
		Name:           a.Name,
		Email:          a.Email,
		CPF:            a.CPF,
		AvatarRef:      a.Avatar,
		CreatedAt:      a.CreatedAt,
		ApprovalStatus: a.ApprovalStatus,
		Groups:         a.Groups,
		Role:           status.Role(a.Groups),
	}
}

// UserRecord is the wire form of a user.
type UserRecord struct {
	ID              string   `json:"id"`
	Nome            string   `json:"nome"`
	Email           string   `json:"email"`
	CPF             string   `json:"cpf,omitempty"`
	PathAvatar      string   `json:"path_avatar,omitempty"`
	CreatedAt       string   `json:"created_at"`
	StatusAprovacao string   `json:"status_aprovacao"`
	GruposUsuario   []string `json:"grupos_usuario"`
}

// Record is the wire form of the account.
func (a Account) Record() UserRecord {
	return UserRecord{
		ID:              a.ID,
		Nome:            a.Name,
		Email:           a.Email,
		CPF:             a.CPF,
		PathAvatar:      a.Avatar,
		CreatedAt:       a.CreatedAt.UTC().Format(time.RFC3339),
		StatusAprovacao: a.ApprovalStatus,
		GruposUsuario:   append([]string(nil), a.Groups...),
	}
}

// EventRecord is the wire form of an event.
type EventRecord struct {
	ID            int    `json:"id"`
	Nome          string `json:"nome"`
	DataEvento    string `json:"data_evento"`
	Status        string `json:"status"`
	NomeLocal     string `json:"nome_local"`
	Cidade        string `json:"cidade"`
	Estado        string `json:"estado"`
	Descricao     string `json:"descricao,omitempty"`
	DataInicio    string `json:"data_inicio,omitempty"`
	DataFim       string `json:"data_fim,omitempty"`
	HorarioInicio string `json:"horario_inicio,omitempty"`
	HorarioFim    string `json:"horario_fim,omitempty"`
	Capacidade    int    `json:"capacidade_maxima,omitempty"`
	VendasAtivas  bool   `json:"vendas_ativas"`
	ImagemURL     string `json:"imagem_url,omitempty"`
}

// CouponRecord is the wire form of a coupon.
type CouponRecord struct {
	ID                  string  `json:"id"`
	Codigo              string  `json:"codigo"`
	Valor               float64 `json:"valor"`
	TipoDesconto        string  `json:"tipo_desconto"`
	Status              int     `json:"status"`
	DataExpiracao       string  `json:"data_expiracao"`
	LimiteUsoPorCupom   *int    `json:"limite_uso_por_cupom"`
	LimiteUsoPorCliente int     `json:"limite_uso_por_cliente"`
	Usos                int     `json:"usos"`
	EventoID            int     `json:"evento_id"`
	EventoNome          string  `json:"evento_nome"`
	Descricao           string  `json:"descricao"`
}

// NewCoupon is the body of a coupon creation request.
type NewCoupon struct {
	EventoID            string  `json:"evento_id"`
	Codigo              string  `json:"codigo"`
	Valor               float64 `json:"valor"`
	TipoDesconto        string  `json:"tipo_desconto"`
	DataExpiracao       string  `json:"data_expiracao"`
	LimiteUsoPorCupom   int     `json:"limite_uso_por_cupom"`
	LimiteUsoPorCliente int     `json:"limite_uso_por_cliente"`
	Descricao           string  `json:"descricao"`
}

// RefRecord is a nested {id, nome} reference.
type RefRecord struct {
	ID   int    `json:"id"`
	Nome string `json:"nome"`
}

// CourtesyRecord is the wire form of a courtesy.
type CourtesyRecord struct {
	ID             int        `json:"id"`
	Evento         RefRecord  `json:"evento"`
	Ingresso       RefRecord  `json:"ingresso"`
	Lote           RefRecord  `json:"lote"`
	Usuario        *RefRecord `json:"usuario"`
	Status         string     `json:"status,omitempty"`
	DataCriacao    string     `json:"data_criacao"`
	DataUtilizacao string     `json:"data_utilizacao,omitempty"`
	DataExpiracao  string     `json:"data_expiracao,omitempty"`
	Quantidade     int        `json:"quantidade"`
	Observacoes    string     `json:"observacoes,omitempty"`
}

// Sale is one ticket sale used to build reports.
type Sale struct {
	EventID  int
	Quantity int
	Revenue  float64
	SoldAt   time.Time
}

// Dispatch records a courtesy sent to recipients.
type Dispatch struct {
	CourtesyID int
	Quantity   int
	Recipients []string
	SentBy     string
	SentAt     time.Time
}
