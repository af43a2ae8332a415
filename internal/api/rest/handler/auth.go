package handler

import (
	"net/http"
	"strings"

	"github.com/devpureza/liga-expo/internal/logger"
	"github.com/devpureza/liga-expo/internal/sandbox"
)

// AccountStore authenticates operators.
type AccountStore interface {
	Authenticate(email, password string) (sandbox.Account, error)
}

// TokenIssuer signs api tokens.
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

type loginRequest struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

type loginResponse struct {
	Erro     bool               `json:"erro"`
	APIToken string             `json:"api_token"`
	User     sandbox.UserRecord `json:"user"`
}

// Auth handles the login endpoint.
type Auth struct {
	accounts AccountStore
	tokens   TokenIssuer
	logger   *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(accounts AccountStore, tokens TokenIssuer, logger *logger.Logger) *Auth {
	return &Auth{accounts: accounts, tokens: tokens, logger: logger}
}

// Login exchanges email and password for an api_token and the user record.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(w, r, &req); err != nil {
		handleError(w, err, h.logger)
		return
	}
	if strings.TrimSpace(req.User) == "" || req.Password == "" {
		writeFailure(w, http.StatusUnprocessableEntity, "Informe usuário e senha")
		return
	}

	h.logger.Debug("Auth handler: processing login",
		"email", req.User)

	account, err := h.accounts.Authenticate(req.User, req.Password)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	tok, err := h.tokens.Issue(account.ID, account.Email)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	h.logger.Info("Auth handler: login succeeded",
		"user_id", account.ID)
	writeJSON(w, http.StatusOK, loginResponse{APIToken: tok, User: account.Record()})
}
