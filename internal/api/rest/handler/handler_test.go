package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/devpureza/liga-expo/internal/api/rest/middleware"
	"github.com/devpureza/liga-expo/internal/model"
	"github.com/devpureza/liga-expo/internal/sandbox"
	"github.com/devpureza/liga-expo/internal/testutil"
	"github.com/devpureza/liga-expo/internal/token"
)

func setup(t *testing.T) (*sandbox.Backend, *token.JWT) {
	t.Helper()
	backend, err := sandbox.New(bcrypt.MinCost, testutil.MakeNoopLogger())
	require.NoError(t, err)
	return backend, token.NewJWT("secret", time.Hour)
}

func TestAuth_Login(t *testing.T) {
	backend, jwt := setup(t)
	h := NewAuth(backend, jwt, testutil.MakeNoopLogger())

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "success", body: `{"user":"admin@deualiga.com.br","password":"liga-admin"}`, wantStatus: http.StatusOK},
		{name: "wrong password", body: `{"user":"admin@deualiga.com.br","password":"x"}`, wantStatus: http.StatusUnauthorized},
		{name: "missing fields", body: `{"user":""}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "malformed body", body: `{`, wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/appadmin/auth/login", strings.NewReader(tt.body)))
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, true, body["erro"])
				assert.NotEmpty(t, body["mensagem"])
				return
			}

			claims, err := jwt.Parse(body["api_token"].(string))
			require.NoError(t, err)
			assert.Equal(t, "1", claims.UserID)
			user := body["user"].(map[string]any)
			assert.Equal(t, []any{model.GroupAdmin}, user["grupos_usuario"])
		})
	}
}

type failingIssuer struct{}

func (failingIssuer) Issue(string, string) (string, error) { return "", errors.New("no key") }

func TestAuth_Login_IssueFailure(t *testing.T) {
	backend, _ := setup(t)
	h := NewAuth(backend, failingIssuer{}, testutil.MakeNoopLogger())

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"user":"admin@deualiga.com.br","password":"liga-admin"}`)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"erro":true,"mensagem":"Erro interno do servidor"}`, rec.Body.String())
}

func adminMux(t *testing.T, backend *sandbox.Backend, jwt *token.JWT) http.Handler {
	t.Helper()
	h := NewAdmin(backend, testutil.MakeNoopLogger())
	mux := chi.NewRouter()
	mux.Use(middleware.NewAuthenticate(jwt, testutil.MakeNoopLogger()).Handler)
	mux.Get("/usuarios", h.SearchUsers)
	mux.Get("/eventos/ativos", h.ActiveEvents)
	mux.Get("/eventos/{id}", h.Event)
	mux.Put("/eventos/{id}", h.UpdateEvent)
	mux.Post("/cupons", h.CreateCoupon)
	mux.Get("/cortesias", h.Courtesies)
	mux.Get("/relatorios/vendas", h.SalesReport)
	return mux
}

func call(t *testing.T, h http.Handler, tok, method, path, body string) (int, string) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code, rec.Body.String()
}

func TestAdmin_Envelopes(t *testing.T) {
	backend, jwt := setup(t)
	h := adminMux(t, backend, jwt)
	tok, err := jwt.Issue("1", sandbox.AdminEmail)
	require.NoError(t, err)

	code, body := call(t, h, tok, http.MethodGet, "/eventos/ativos", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"dados":[`)

	code, body = call(t, h, tok, http.MethodGet, "/eventos/1", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"evento":{`)

	code, body = call(t, h, tok, http.MethodGet, "/eventos/404", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.JSONEq(t, `{"erro":true,"mensagem":"Evento não encontrado"}`, body)

	code, body = call(t, h, tok, http.MethodGet, "/cortesias", "")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, strings.HasPrefix(body, "["))

	code, _ = call(t, h, tok, http.MethodGet, "/usuarios?limit=abc", "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = call(t, h, tok, http.MethodGet, "/relatorios/vendas?data_inicio=x&data_fim=y", "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = call(t, h, tok, http.MethodPut, "/eventos/1", `{"data_evento":"10/03/2025"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestAdmin_CreateCoupon(t *testing.T) {
	backend, jwt := setup(t)
	h := adminMux(t, backend, jwt)
	expiry := time.Now().AddDate(0, 0, 5).Format("2006-01-02")
	body := `{"evento_id":"1","codigo":"NOVO","valor":10,"tipo_desconto":"percentual","data_expiracao":"` + expiry + `","descricao":"d"}`

	producer, err := jwt.Issue("2", sandbox.ProducerEmail)
	require.NoError(t, err)
	code, resp := call(t, h, producer, http.MethodPost, "/cupons", body)
	assert.Equal(t, http.StatusCreated, code)
	assert.Contains(t, resp, `"cupom":{`)

	code, resp = call(t, h, producer, http.MethodPost, "/cupons", body)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"erro":true,"mensagem":"Código de cupom já cadastrado"}`, resp)

	pos, err := jwt.Issue("3", sandbox.POSEmail)
	require.NoError(t, err)
	code, _ = call(t, h, pos, http.MethodPost, "/cupons", body)
	assert.Equal(t, http.StatusForbidden, code)

	ghost, err := jwt.Issue("999", "ghost@deualiga.com.br")
	require.NoError(t, err)
	code, _ = call(t, h, ghost, http.MethodPost, "/cupons", body)
	assert.Equal(t, http.StatusUnauthorized, code)
}
