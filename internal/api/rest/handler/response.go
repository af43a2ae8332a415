package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/devpureza/liga-expo/internal/logger"
	"github.com/devpureza/liga-expo/internal/model"
	"github.com/devpureza/liga-expo/internal/sandbox"
)

type failure struct {
	Erro     bool   `json:"erro"`
	Mensagem string `json:"mensagem"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, failure{Erro: true, Mensagem: message})
}

// handleError writes the LIGA error envelope for err. Business rule
// rejections are reported with status 200 and erro: true, as the real
// backend does.
func handleError(w http.ResponseWriter, err error, logger *logger.Logger) {
	switch {
	case errors.Is(err, sandbox.ErrInvalidCredentials):
		writeFailure(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, sandbox.ErrForbidden):
		writeFailure(w, http.StatusForbidden, err.Error())
	case errors.Is(err, model.ErrEventNotFound),
		errors.Is(err, model.ErrUserNotFound),
		errors.Is(err, sandbox.ErrCourtesyNotFound):
		writeFailure(w, http.StatusNotFound, err.Error())
	case errors.Is(err, model.ErrInvalidInput):
		writeFailure(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, sandbox.ErrDuplicateCode),
		errors.Is(err, sandbox.ErrCourtesyUsed):
		writeFailure(w, http.StatusOK, err.Error())
	default:
		logger.Error("Handler: unexpected error",
			"error", err.Error())
		writeFailure(w, http.StatusInternalServerError, "Erro interno do servidor")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		return errors.Join(model.ErrInvalidInput, errors.New("corpo da requisição inválido"))
	}
	return nil
}
