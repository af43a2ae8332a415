package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/devpureza/liga-expo/internal/logger"
	"github.com/devpureza/liga-expo/internal/model"
	"github.com/devpureza/liga-expo/internal/normalize"
)

const (
	flightLogin   = "login"
	flightLogout  = "logout"
	flightRefresh = "refresh"
	flightRestore = "restore"
)

type loginRequest struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

type loginResult struct {
	token string
	user  model.User
}

// Session owns the live operator session. The durable copy lives in the
// credential store.
//
// Mutating operations are collapsed per kind with singleflight and applied
// only when the generation observed at start is still current.
type Session struct {
	api    model.Requester
	creds  model.CredentialStore
	users  *Users
	logger *logger.Logger
	now    func() time.Time

	mu    sync.RWMutex
	state model.SessionState
	user  model.User

	group      singleflight.Group
	generation atomic.Uint64
	loading    atomic.Int32
}

func NewSession(api model.Requester, creds model.CredentialStore, logger *logger.Logger) *Session {
	return &Session{
		api:    api,
		creds:  creds,
		users:  NewUsers(api, logger),
		logger: logger,
		now:    time.Now,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() model.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User returns the signed-in user, if any.
func (s *Session) User() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != model.StateAuthenticated {
		return model.User{}, false
	}
	return s.user, true
}

// Loading reports whether any session operation is in flight.
func (s *Session) Loading() bool {
	return s.loading.Load() > 0
}

func (s *Session) track() func() {
	s.loading.Add(1)
	return func() { s.loading.Add(-1) }
}

// Restore rebuilds the session from the credential store.
func (s *Session) Restore(ctx context.Context) (model.SessionState, error) {
	v, err, _ := s.group.Do(flightRestore, func() (any, error) {
		defer s.track()()
		return s.restore(ctx)
	})
	if err != nil {
		return s.State(), err
	}
	return v.(model.SessionState), nil
}

func (s *Session) restore(ctx context.Context) (model.SessionState, error) {
	gen := s.generation.Load()

	token, hasToken := s.creds.Token(ctx)
	user, hasUser := s.creds.User(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.stale(ctx, gen); err != nil {
		return s.state, err
	}

	switch {
	case hasToken && token != "" && hasUser:
		s.user = user
		s.state = model.StateAuthenticated
		s.logger.Info("Session service: session restored",
			"user_id", user.ID)
	case hasToken && token != "":
		s.logger.Warn("Session service: token without cached user, clearing session")
		s.clearStore(ctx)
		s.user = model.User{}
		s.state = model.StateAnonymous
	default:
		if hasUser {
			s.clearStore(ctx)
		}
		s.user = model.User{}
		s.state = model.StateAnonymous
	}
	return s.state, nil
}

// Login authenticates against the backend and persists the session.
// Concurrent logins share the first caller's attempt.
func (s *Session) Login(ctx context.Context, email, password string) (model.User, error) {
	v, err, _ := s.group.Do(flightLogin, func() (any, error) {
		defer s.track()()
		return s.login(ctx, email, password)
	})
	if err != nil {
		return model.User{}, err
	}
	return v.(model.User), nil
}

func (s *Session) login(ctx context.Context, email, password string) (model.User, error) {
	gen := s.generation.Load()
	email = strings.TrimSpace(email)

	s.logger.Debug("Session service: starting login",
		"email", email)

	res, err := s.authenticate(ctx, email, password)
	if err != nil {
		s.fail(ctx, gen)
		return model.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.stale(ctx, gen); err != nil {
		return model.User{}, err
	}

	if err := s.creds.SaveToken(ctx, res.token); err != nil {
		s.abort(ctx, "failed to persist token", err)
		return model.User{}, fmt.Errorf("failed to persist session: %w", err)
	}
	if err := s.creds.SaveUser(ctx, res.user); err != nil {
		s.abort(ctx, "failed to persist user", err)
		return model.User{}, fmt.Errorf("failed to persist session: %w", err)
	}

	s.user = res.user
	s.state = model.StateAuthenticated
	s.generation.Add(1)

	s.logger.Info("Session service: login succeeded",
		"user_id", res.user.ID,
		"role", res.user.Role)
	return res.user, nil
}

func (s *Session) authenticate(ctx context.Context, email, password string) (loginResult, error) {
	raw, err := s.api.Do(ctx, model.EndpointLogin, model.APIRequest{
		Method:   http.MethodPost,
		Body:     loginRequest{User: email, Password: password},
		SkipAuth: true,
	})
	if err != nil {
		s.logger.Error("Session service: login request failed",
			"email", email,
			"error", err.Error())
		return loginResult{}, err
	}
	if err := normalize.CheckFailure(raw, "Erro ao fazer login"); err != nil {
		s.logger.Info("Session service: login rejected",
			"email", email,
			"error", err.Error())
		return loginResult{}, err
	}

	token, ok := normalize.LoginToken(raw)
	if !ok {
		s.logger.Error("Session service: login response carried no token",
			"email", email)
		return loginResult{}, model.ErrTokenMissing
	}

	now := s.now()
	user, ok := normalize.LoginUser(raw, email, now)
	if !ok {
		user, err = s.users.findByEmail(ctx, email, token)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return loginResult{}, ctxErr
			}
			s.logger.Warn("Session service: user lookup failed, using placeholder",
				"email", email,
				"error", err.Error())
			user = normalize.PlaceholderUser(email, now)
		}
	}
	return loginResult{token: token, user: user}, nil
}

// Logout clears both credential slots. It never fails.
func (s *Session) Logout(ctx context.Context) error {
	_, _, _ = s.group.Do(flightLogout, func() (any, error) {
		defer s.track()()

		s.mu.Lock()
		defer s.mu.Unlock()

		s.generation.Add(1)
		s.clearStore(context.WithoutCancel(ctx))
		s.user = model.User{}
		s.state = model.StateAnonymous

		s.logger.Info("Session service: logged out")
		return nil, nil
	})
	return nil
}

// Refresh re-fetches the signed-in user by email. Failures leave the
// session as it was.
func (s *Session) Refresh(ctx context.Context) (model.User, error) {
	v, err, _ := s.group.Do(flightRefresh, func() (any, error) {
		defer s.track()()
		return s.refresh(ctx)
	})
	if err != nil {
		return model.User{}, err
	}
	return v.(model.User), nil
}

func (s *Session) refresh(ctx context.Context) (model.User, error) {
	gen := s.generation.Load()

	current, ok := s.User()
	if !ok {
		return model.User{}, model.ErrNotAuthenticated
	}

	fresh, err := s.users.FindByEmail(ctx, current.Email)
	if err != nil {
		s.logger.Warn("Session service: refresh failed",
			"user_id", current.ID,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to refresh user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.stale(ctx, gen); err != nil {
		return model.User{}, err
	}
	if err := s.creds.SaveUser(ctx, fresh); err != nil {
		s.logger.Error("Session service: failed to persist refreshed user",
			"user_id", fresh.ID,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to persist user: %w", err)
	}
	s.user = fresh

	s.logger.Debug("Session service: user refreshed",
		"user_id", fresh.ID)
	return fresh, nil
}

// stale must be called with mu held.
func (s *Session) stale(ctx context.Context, gen uint64) error {
	if err := ctx.Err(); err != nil {
		s.logger.Debug("Session service: discarding result of cancelled operation")
		return err
	}
	if s.generation.Load() != gen {
		s.logger.Debug("Session service: discarding stale result",
			"started_at", gen,
			"current", s.generation.Load())
		return model.ErrSessionChanged
	}
	return nil
}

// fail drops any session after a failed login, unless something newer
// already replaced it.
func (s *Session) fail(ctx context.Context, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation.Load() != gen {
		return
	}
	s.clearStore(context.WithoutCancel(ctx))
	s.user = model.User{}
	s.state = model.StateAnonymous
	s.generation.Add(1)
}

// abort must be called with mu held.
func (s *Session) abort(ctx context.Context, msg string, err error) {
	s.logger.Error("Session service: "+msg,
		"error", err.Error())
	s.clearStore(context.WithoutCancel(ctx))
	s.user = model.User{}
	s.state = model.StateAnonymous
	s.generation.Add(1)
}

func (s *Session) clearStore(ctx context.Context) {
	if err := s.creds.Clear(ctx); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("Session service: failed to clear credentials",
			"error", err.Error())
	}
}
