package service

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/devpureza/liga-expo/internal/logger"
	"github.com/devpureza/liga-expo/internal/model"
	"github.com/devpureza/liga-expo/internal/normalize"
)

// Users looks up operators through the admin user search endpoint.
type Users struct {
	api    model.Requester
	logger *logger.Logger
	now    func() time.Time
}

func NewUsers(api model.Requester, logger *logger.Logger) *Users {
	return &Users{api: api, logger: logger, now: time.Now}
}

// Search returns every user matching filter. Empty criteria are not sent.
func (u *Users) Search(ctx context.Context, filter model.UserFilter) ([]model.User, error) {
	return u.search(ctx, filter, "")
}

// FindByEmail returns the first user registered with email.
func (u *Users) FindByEmail(ctx context.Context, email string) (model.User, error) {
	return u.findByEmail(ctx, email, "")
}

// FindByCPF returns the first user registered with cpf, as the point of sale does.
func (u *Users) FindByCPF(ctx context.Context, cpf string) (model.User, error) {
	return u.first(ctx, model.UserFilter{CPF: cpf, Limit: 1}, "")
}

func (u *Users) findByEmail(ctx context.Context, email, token string) (model.User, error) {
	return u.first(ctx, model.UserFilter{Email: strings.TrimSpace(email), Limit: 1}, token)
}

func (u *Users) first(ctx context.Context, filter model.UserFilter, token string) (model.User, error) {
	users, err := u.search(ctx, filter, token)
	if err != nil {
		return model.User{}, err
	}
	if len(users) == 0 {
		u.logger.Debug("Users service: no user matched",
			"email", filter.Email,
			"cpf_set", filter.CPF != "")
		return model.User{}, model.ErrUserNotFound
	}
	return users[0], nil
}

func (u *Users) search(ctx context.Context, filter model.UserFilter, token string) ([]model.User, error) {
	query := url.Values{}
	if filter.Name != "" {
		query.Set("nome", filter.Name)
	}
	if filter.Email != "" {
		query.Set("email", filter.Email)
	}
	if filter.CPF != "" {
		query.Set("cpf", filter.CPF)
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}

	raw, err := u.api.Do(ctx, model.EndpointUsers, model.APIRequest{Query: query, Token: token})
	if err != nil {
		u.logger.Error("Users service: search failed",
			"error", err.Error())
		return nil, err
	}

	users, err := normalize.Users(raw, u.now())
	if err != nil {
		u.logger.Error("Users service: backend rejected search",
			"error", err.Error())
		return nil, err
	}
	return users, nil
}
