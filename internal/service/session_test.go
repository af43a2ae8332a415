package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/devpureza/liga-expo/internal/credential"
	"github.com/devpureza/liga-expo/internal/mocks"
	"github.com/devpureza/liga-expo/internal/model"
	"github.com/devpureza/liga-expo/internal/storage/memory"
	"github.com/devpureza/liga-expo/internal/testutil"
)

var fixedNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func newTestSession(t *testing.T, api model.Requester) (*Session, *credential.Store) {
	t.Helper()
	log := testutil.MakeNoopLogger()
	creds := credential.NewStore(memory.New(), log)
	s := NewSession(api, creds, log)
	s.now = func() time.Time { return fixedNow }
	s.users.now = s.now
	return s, creds
}

func loginCall(api *mocks.Requester) *mock.Call {
	return api.On("Do", mock.Anything, model.EndpointLogin, mock.MatchedBy(func(req model.APIRequest) bool {
		return req.SkipAuth && req.Method == "POST"
	}))
}

func TestSession_LoginProducer(t *testing.T) {
	ctx := context.Background()
	api := mocks.NewRequester(t)
	loginCall(api).Return(json.RawMessage(`{"api_token":"abc","user":{"id":"1","email":"a@b.com","grupos_usuario":["produtor"]}}`), nil).Once()

	s, creds := newTestSession(t, api)

	user, err := s.Login(ctx, " a@b.com ", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Produtor", user.Role)
	assert.Equal(t, model.StateAuthenticated, s.State())

	token, ok := creds.Token(ctx)
	require.True(t, ok)
	assert.Equal(t, "abc", token)

	stored, ok := creds.User(ctx)
	require.True(t, ok)
	assert.Equal(t, user, stored)

	current, ok := s.User()
	require.True(t, ok)
	assert.Equal(t, "1", current.ID)
	assert.False(t, s.Loading())
}

func TestSession_LoginSendsCredentials(t *testing.T) {
	api := mocks.NewRequester(t)
	api.On("Do", mock.Anything, model.EndpointLogin, mock.Anything).
		Run(func(args mock.Arguments) {
			req := args.Get(2).(model.APIRequest)
			body, err := json.Marshal(req.Body)
			require.NoError(t, err)
			assert.JSONEq(t, `{"user":"ana@liga.com","password":"pw"}`, string(body))
		}).
		Return(json.RawMessage(`{"token":"t1","usuario":{"id":7,"nome":"Ana"}}`), nil).Once()

	s, _ := newTestSession(t, api)
	user, err := s.Login(context.Background(), "ana@liga.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "7", user.ID)
	assert.Equal(t, "ana@liga.com", user.Email)
}

func TestSession_LoginWithoutToken(t *testing.T) {
	ctx := context.Background()
	api := mocks.NewRequester(t)
	loginCall(api).Return(json.RawMessage(`{"user":{"id":"1","email":"a@b.com"}}`), nil).Once()

	s, creds := newTestSession(t, api)

	_, err := s.Login(ctx, "a@b.com", "secret")
	require.ErrorIs(t, err, model.ErrTokenMissing)
	assert.Equal(t, model.StateAnonymous, s.State())

	_, ok := creds.Token(ctx)
	assert.False(t, ok)
	_, ok = creds.User(ctx)
	assert.False(t, ok)
}

func TestSession_LoginRejected(t *testing.T) {
	api := mocks.NewRequester(t)
	loginCall(api).Return(json.RawMessage(`{"erro":true,"mensagem":"Credenciais inválidas"}`), nil).Once()

	s, _ := newTestSession(t, api)
	_, err := s.Login(context.Background(), "a@b.com", "bad")
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindApplication))
	assert.Equal(t, "Credenciais inválidas", err.Error())
	assert.Equal(t, model.StateAnonymous, s.State())
}

func TestSession_LoginFailureDropsPreviousSession(t *testing.T) {
	ctx := context.Background()
	api := mocks.NewRequester(t)
	loginCall(api).Return(nil, model.NewTransportError(errors.New("dial tcp"))).Once()

	s, creds := newTestSession(t, api)
	require.NoError(t, creds.SaveToken(ctx, "old"))
	require.NoError(t, creds.SaveUser(ctx, model.User{ID: "9", Email: "old@b.com"}))
	state, err := s.Restore(ctx)
	require.NoError(t, err)
	require.Equal(t, model.StateAuthenticated, state)

	_, err = s.Login(ctx, "a@b.com", "secret")
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindTransport))
	assert.Equal(t, model.StateAnonymous, s.State())
	_, ok := creds.Token(ctx)
	assert.False(t, ok)
}

func TestSession_LoginLooksUpUser(t *testing.T) {
	api := mocks.NewRequester(t)
	loginCall(api).Return(json.RawMessage(`{"data":{"api_token":"xyz"}}`), nil).Once()
	api.On("Do", mock.Anything, model.EndpointUsers, mock.MatchedBy(func(req model.APIRequest) bool {
		return req.Token == "xyz" && req.Query.Get("email") == "ana@liga.com" && req.Query.Get("limit") == "1"
	})).Return(json.RawMessage(`{"usuarios":[{"id":3,"nome":"Ana","email":"ana@liga.com","grupos_usuario":["comissario","administradores"]}]}`), nil).Once()

	s, _ := newTestSession(t, api)
	user, err := s.Login(context.Background(), "ana@liga.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "3", user.ID)
	assert.Equal(t, "Administrador", user.Role)
}

func TestSession_LoginPlaceholderUser(t *testing.T) {
	api := mocks.NewRequester(t)
	loginCall(api).Return(json.RawMessage(`{"api_token":"xyz"}`), nil).Once()
	api.On("Do", mock.Anything, model.EndpointUsers, mock.Anything).
		Return(json.RawMessage(`{"usuarios":[]}`), nil).Once()

	s, creds := newTestSession(t, api)
	user, err := s.Login(context.Background(), "maria@liga.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "maria", user.Name)
	assert.Equal(t, model.DefaultRole, user.Role)
	assert.Equal(t, model.DefaultAvatar, user.AvatarRef)

	stored, ok := creds.User(context.Background())
	require.True(t, ok)
	assert.Equal(t, "maria@liga.com", stored.Email)
}

func TestSession_LoginPersistFailure(t *testing.T) {
	ctx := context.Background()
	api := mocks.NewRequester(t)
	loginCall(api).Return(json.RawMessage(`{"api_token":"abc","user":{"id":"1"}}`), nil).Once()

	creds := mocks.NewCredentialStore(t)
	creds.On("SaveToken", mock.Anything, "abc").Return(nil).Once()
	creds.On("SaveUser", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()
	creds.On("Clear", mock.Anything).Return(nil).Once()

	log := testutil.MakeNoopLogger()
	s := NewSession(api, creds, log)

	_, err := s.Login(ctx, "a@b.com", "pw")
	require.Error(t, err)
	assert.Equal(t, model.StateAnonymous, s.State())
}

func TestSession_Restore(t *testing.T) {
	ctx := context.Background()
	user := model.User{ID: "1", Email: "a@b.com", Groups: []string{"produtor"}, Role: "Produtor"}

	tests := []struct {
		name      string
		token     string
		user      *model.User
		wantState model.SessionState
		wantToken bool
		wantUser  bool
	}{
		{name: "empty store", wantState: model.StateAnonymous},
		{name: "token and user", token: "abc", user: &user, wantState: model.StateAuthenticated, wantToken: true, wantUser: true},
		{name: "token without user", token: "abc", wantState: model.StateAnonymous},
		{name: "user without token", user: &user, wantState: model.StateAnonymous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, creds := newTestSession(t, mocks.NewRequester(t))
			assert.Equal(t, model.StateUnknown, s.State())

			if tt.token != "" {
				require.NoError(t, creds.SaveToken(ctx, tt.token))
			}
			if tt.user != nil {
				require.NoError(t, creds.SaveUser(ctx, *tt.user))
			}

			state, err := s.Restore(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.wantState, state)
			assert.Equal(t, tt.wantState, s.State())

			_, ok := creds.Token(ctx)
			assert.Equal(t, tt.wantToken, ok)
			_, ok = creds.User(ctx)
			assert.Equal(t, tt.wantUser, ok)

			got, ok := s.User()
			assert.Equal(t, tt.wantUser, ok)
			if tt.wantUser {
				assert.Equal(t, user, got)
			}
		})
	}
}

func TestSession_Logout(t *testing.T) {
	ctx := context.Background()
	api := mocks.NewRequester(t)
	loginCall(api).Return(json.RawMessage(`{"api_token":"abc","user":{"id":"1"}}`), nil).Once()

	s, creds := newTestSession(t, api)
	_, err := s.Login(ctx, "a@b.com", "pw")
	require.NoError(t, err)

	require.NoError(t, s.Logout(ctx))
	assert.Equal(t, model.StateAnonymous, s.State())
	_, ok := s.User()
	assert.False(t, ok)
	_, ok = creds.Token(ctx)
	assert.False(t, ok)
	_, ok = creds.User(ctx)
	assert.False(t, ok)
}

func TestSession_LogoutIgnoresStoreErrors(t *testing.T) {
	creds := mocks.NewCredentialStore(t)
	creds.On("Clear", mock.Anything).Return(errors.New("read-only fs")).Once()

	s := NewSession(mocks.NewRequester(t), creds, testutil.MakeNoopLogger())
	require.NoError(t, s.Logout(context.Background()))
	assert.Equal(t, model.StateAnonymous, s.State())
}

func TestSession_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("not authenticated", func(t *testing.T) {
		s, _ := newTestSession(t, mocks.NewRequester(t))
		_, err := s.Refresh(ctx)
		require.ErrorIs(t, err, model.ErrNotAuthenticated)
	})

	t.Run("replaces user", func(t *testing.T) {
		api := mocks.NewRequester(t)
		loginCall(api).Return(json.RawMessage(`{"api_token":"abc","user":{"id":"1","email":"a@b.com","grupos_usuario":["pdv-local"]}}`), nil).Once()
		api.On("Do", mock.Anything, model.EndpointUsers, mock.MatchedBy(func(req model.APIRequest) bool {
			return req.Query.Get("email") == "a@b.com" && req.Token == ""
		})).Return(json.RawMessage(`{"dados":[{"id":"1","email":"a@b.com","nome":"Ana","grupos_usuario":["pdv-local","produtor"]}]}`), nil).Once()

		s, creds := newTestSession(t, api)
		_, err := s.Login(ctx, "a@b.com", "pw")
		require.NoError(t, err)

		user, err := s.Refresh(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Produtor", user.Role)

		current, _ := s.User()
		assert.Equal(t, "Ana", current.Name)
		stored, _ := creds.User(ctx)
		assert.Equal(t, "Ana", stored.Name)
		assert.Equal(t, model.StateAuthenticated, s.State())
	})

	t.Run("failure keeps session", func(t *testing.T) {
		api := mocks.NewRequester(t)
		loginCall(api).Return(json.RawMessage(`{"api_token":"abc","user":{"id":"1","email":"a@b.com","nome":"Ana"}}`), nil).Once()
		api.On("Do", mock.Anything, model.EndpointUsers, mock.Anything).
			Return(nil, model.NewHTTPError(500, "")).Once()

		s, creds := newTestSession(t, api)
		_, err := s.Login(ctx, "a@b.com", "pw")
		require.NoError(t, err)

		_, err = s.Refresh(ctx)
		require.Error(t, err)
		assert.True(t, model.IsKind(err, model.KindHTTP))

		current, ok := s.User()
		require.True(t, ok)
		assert.Equal(t, "Ana", current.Name)
		_, ok = creds.Token(ctx)
		assert.True(t, ok)
	})
}

func TestSession_StaleLoginDiscarded(t *testing.T) {
	ctx := context.Background()
	api := mocks.NewRequester(t)

	release := make(chan struct{})
	started := make(chan struct{})
	loginCall(api).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(json.RawMessage(`{"api_token":"abc","user":{"id":"1"}}`), nil).Once()

	s, creds := newTestSession(t, api)

	var (
		wg       sync.WaitGroup
		loginErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, loginErr = s.Login(ctx, "a@b.com", "pw")
	}()

	<-started
	assert.True(t, s.Loading())
	require.NoError(t, s.Logout(ctx))
	close(release)
	wg.Wait()

	require.ErrorIs(t, loginErr, model.ErrSessionChanged)
	assert.Equal(t, model.StateAnonymous, s.State())
	_, ok := creds.Token(ctx)
	assert.False(t, ok)
}

func TestSession_CancelledLoginDiscarded(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	api := mocks.NewRequester(t)
	loginCall(api).
		Run(func(mock.Arguments) { cancel() }).
		Return(json.RawMessage(`{"api_token":"abc","user":{"id":"1"}}`), nil).Once()

	s, creds := newTestSession(t, api)
	_, err := s.Login(ctx, "a@b.com", "pw")
	require.ErrorIs(t, err, context.Canceled)
	assert.NotEqual(t, model.StateAuthenticated, s.State())

	_, ok := creds.Token(context.Background())
	assert.False(t, ok)
}

func TestSession_ConcurrentLoginsShareFlight(t *testing.T) {
	api := mocks.NewRequester(t)
	release := make(chan struct{})
	loginCall(api).
		Run(func(mock.Arguments) { <-release }).
		Return(json.RawMessage(`{"api_token":"abc","user":{"id":"1"}}`), nil).Once()

	s, _ := newTestSession(t, api)

	const callers = 4
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Login(context.Background(), "a@b.com", "pw")
		}(i)
	}

	require.Eventually(t, s.Loading, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, model.StateAuthenticated, s.State())
}
