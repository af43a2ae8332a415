package middleware

import (
	"encoding/json"
	"net/http"
)

type failure struct {
	Erro     bool   `json:"erro"`
	Mensagem string `json:"mensagem"`
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(failure{Erro: true, Mensagem: message})
}
