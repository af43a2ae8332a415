package model

import "time"

// DefaultRole is reported for users without any group.
const DefaultRole = "Usuário"

// DefaultUserName is used when the backend sends a user without a name.
const DefaultUserName = "Usuário"

// DefaultAvatar is the bundled avatar asset used when the backend sends none.
const DefaultAvatar = "assets/profile/121321221.png"

// DefaultApprovalStatus is assumed when the backend omits status_aprovacao.
const DefaultApprovalStatus = "aprovado"

// Group identifiers as sent in grupos_usuario.
const (
	GroupAdmin     = "administradores"
	GroupProducer  = "produtor"
	GroupAthletic  = "atletica"
	GroupCommissar = "comissario"
	GroupPOS       = "pdv-local"
)

// RoleHierarchy lists groups from highest to lowest precedence.
var RoleHierarchy = []string{GroupAdmin, GroupProducer, GroupAthletic, GroupCommissar, GroupPOS}

// RoleDisplayNames maps known groups to their display role.
var RoleDisplayNames = map[string]string{
	GroupAdmin:     "Administrador",
	GroupProducer:  "Produtor",
	GroupAthletic:  "Atlética",
	GroupCommissar: "Comissário",
	GroupPOS:       "PDV Local",
}

// User is the normalized identity of an operator.
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	CPF            string    `json:"cpf,omitempty"`
	AvatarRef      string    `json:"avatar,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	ApprovalStatus string    `json:"status_aprovacao"`
	Groups         []string  `json:"grupos_usuario"`
	Role           string    `json:"role"`
}

// UserFilter holds optional search criteria for the users endpoint.
type UserFilter struct {
	Name  string
	Email string
	CPF   string
	Limit int
}
