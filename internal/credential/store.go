// Package credential persists the session token and the last known user.
package credential

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/devpureza/liga-expo/internal/logger"
	"github.com/devpureza/liga-expo/internal/model"
)

var (
	_ model.CredentialStore = (*Store)(nil)
	_ model.TokenSource     = (*Store)(nil)
)

// Store keeps the auth_token and user_data slots on top of a SlotStore.
// Readers fail soft: any backend or decode error is logged and reported as absent.
type Store struct {
	slots  model.SlotStore
	logger *logger.Logger
}

// NewStore creates a Store over slots.
func NewStore(slots model.SlotStore, logger *logger.Logger) *Store {
	return &Store{slots: slots, logger: logger}
}

// SaveToken overwrites the token slot.
func (s *Store) SaveToken(ctx context.Context, token string) error {
	if err := s.slots.Put(ctx, model.SlotToken, []byte(token)); err != nil {
		s.logger.Error("Credential store: failed to save token",
			"error", err.Error())
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// Token returns the stored token.
func (s *Store) Token(ctx context.Context) (string, bool) {
	data, err := s.slots.Get(ctx, model.SlotToken)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			s.logger.Error("Credential store: failed to read token",
				"error", err.Error())
		}
		return "", false
	}
	if len(data) == 0 {
		return "", false
	}
	return string(data), true
}

// SaveUser overwrites the user slot with the JSON encoding of user.
func (s *Store) SaveUser(ctx context.Context, user model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		s.logger.Error("Credential store: failed to encode user",
			"user_id", user.ID,
			"error", err.Error())
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := s.slots.Put(ctx, model.SlotUser, data); err != nil {
		s.logger.Error("Credential store: failed to save user",
			"user_id", user.ID,
			"error", err.Error())
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// User returns the stored user.
func (s *Store) User(ctx context.Context) (model.User, bool) {
	data, err := s.slots.Get(ctx, model.SlotUser)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			s.logger.Error("Credential store: failed to read user",
				"error", err.Error())
		}
		return model.User{}, false
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		s.logger.Warn("Credential store: stored user is not valid JSON",
			"error", err.Error())
		return model.User{}, false
	}
	return user, true
}

// Clear removes the token and the user together.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.slots.Delete(ctx, model.SlotToken, model.SlotUser); err != nil {
		s.logger.Error("Credential store: failed to clear session",
			"error", err.Error())
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
