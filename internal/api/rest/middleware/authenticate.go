package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/devpureza/liga-expo/internal/logger"
	"github.com/devpureza/liga-expo/internal/token"
)

type contextKey string

const claimsKey contextKey = "api_token_claims"

// TokenParser validates bearer tokens.
type TokenParser interface {
	Parse(tokenString string) (token.Claims, error)
}

// Authenticate validates bearer tokens and injects their claims into the request context.
type Authenticate struct {
	tokens TokenParser
	logger *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokens TokenParser, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokens: tokens, logger: logger}
}

// Handler rejects requests without a valid Authorization: Bearer header.
func (m *Authenticate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
			m.logger.Debug("Authenticate middleware: missing bearer token",
				"path", r.URL.Path)
			writeFailure(w, http.StatusUnauthorized, "Token de acesso não informado")
			return
		}

		claims, err := m.tokens.Parse(strings.TrimSpace(header[7:]))
		if err != nil {
			m.logger.Info("Authenticate middleware: rejected token",
				"path", r.URL.Path,
				"error", err.Error())
			writeFailure(w, http.StatusUnauthorized, "Token inválido ou expirado")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext returns the claims stored by Authenticate.
func ClaimsFromContext(ctx context.Context) (token.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(token.Claims)
	return claims, ok
}
