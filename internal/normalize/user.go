package normalize

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/devpureza/liga-expo/internal/model"
	"github.com/devpureza/liga-expo/internal/status"
)

type userDTO struct {
	ID                 flexString `json:"id"`
	UserID             flexString `json:"user_id"`
	Name               string     `json:"name"`
	Nome               string     `json:"nome"`
	Email              string     `json:"email"`
	CPF                flexString `json:"cpf"`
	PathAvatar         string     `json:"path_avatar"`
	PathAvatarAprovado string     `json:"path_avatar_aprovado"`
	Avatar             string     `json:"avatar"`
	CreatedAt          string     `json:"created_at"`
	StatusAprovacao    string     `json:"status_aprovacao"`
	Groups             []*string  `json:"grupos_usuario"`
}

var userShape = HasAnyField("id", "user_id", "email")

// identityFields mark a login response that carries the user at top level.
var identityFields = HasAnyField("id", "user_id", "name", "nome")

func (d userDTO) toModel(now time.Time) model.User {
	u := model.User{
		ID:             firstNonEmpty(string(d.ID), string(d.UserID), "unknown"),
		Name:           firstNonEmpty(d.Name, d.Nome, model.DefaultUserName),
		Email:          d.Email,
		CPF:            string(d.CPF),
		AvatarRef:      firstNonEmpty(d.PathAvatar, d.PathAvatarAprovado, d.Avatar, model.DefaultAvatar),
		ApprovalStatus: firstNonEmpty(d.StatusAprovacao, model.DefaultApprovalStatus),
		Groups:         dedupe(d.Groups),
	}
	if t := parseTime(d.CreatedAt); t != nil {
		u.CreatedAt = *t
	} else {
		u.CreatedAt = now
	}
	u.Role = status.Role(u.Groups)
	return u
}

// User normalizes a single user object.
func User(raw json.RawMessage, now time.Time) (model.User, error) {
	var dto userDTO
	if err := decodeLenient(raw, &dto); err != nil {
		return model.User{}, model.NewShapeError(model.MsgInvalidShape)
	}
	return dto.toModel(now), nil
}

// Users normalizes a user search response.
func Users(raw json.RawMessage, now time.Time) ([]model.User, error) {
	items, err := List(raw, "usuarios", userShape, "Erro ao buscar usuários")
	if err != nil {
		return nil, err
	}
	users := make([]model.User, 0, len(items))
	for _, item := range items {
		u, err := User(item, now)
		if err != nil {
			continue
		}
		users = append(users, u)
	}
	return users, nil
}

// LoginToken returns the first non-empty token of api_token, data.api_token,
// token and data.token.
func LoginToken(raw json.RawMessage) (string, bool) {
	fields, ok := objectFields(raw)
	if !ok {
		return "", false
	}
	nested, _ := objectFields(fields["data"])

	candidates := []string{
		stringField(fields, "api_token"),
		stringField(nested, "api_token"),
		stringField(fields, "token"),
		stringField(nested, "token"),
	}
	for _, c := range candidates {
		if c != "" {
			return c, true
		}
	}
	return "", false
}

// LoginUser extracts the user from a login response. It looks at user,
// usuario, data.user and data.usuario, then synthesizes one from top-level
// fields when those carry an identity. email fills a missing email.
func LoginUser(raw json.RawMessage, email string, now time.Time) (model.User, bool) {
	fields, ok := objectFields(raw)
	if !ok {
		return model.User{}, false
	}
	nested, _ := objectFields(fields["data"])

	for _, candidate := range []json.RawMessage{
		fields["user"],
		fields["usuario"],
		nested["user"],
		nested["usuario"],
	} {
		if _, ok := objectFields(candidate); !ok {
			continue
		}
		u, err := User(candidate, now)
		if err != nil {
			continue
		}
		if u.Email == "" {
			u.Email = email
		}
		return u, true
	}

	if !identityFields(fields) {
		return model.User{}, false
	}
	u, err := User(raw, now)
	if err != nil {
		return model.User{}, false
	}
	if u.Email == "" {
		u.Email = email
	}
	return u, true
}

// PlaceholderUser is the last-resort user recorded when the backend gives no identity.
func PlaceholderUser(email string, now time.Time) model.User {
	email = strings.TrimSpace(email)
	name, _, _ := strings.Cut(email, "@")
	return model.User{
		ID:             "unknown",
		Name:           name,
		Email:          email,
		AvatarRef:      model.DefaultAvatar,
		CreatedAt:      now,
		ApprovalStatus: model.DefaultApprovalStatus,
		Groups:         []string{},
		Role:           model.DefaultRole,
	}
}

func dedupe(groups []*string) []string {
	out := make([]string, 0, len(groups))
	seen := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		if g == nil {
			continue
		}
		name := strings.TrimSpace(*g)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
