package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/devpureza/liga-expo/internal/api/rest/middleware"
	"github.com/devpureza/liga-expo/internal/logger"
	"github.com/devpureza/liga-expo/internal/model"
	"github.com/devpureza/liga-expo/internal/sandbox"
	"github.com/devpureza/liga-expo/internal/status"
)

// Backend defines the admin data operations served over HTTP.
type Backend interface {
	Account(id string) (sandbox.Account, error)
	SearchUsers(filter model.UserFilter) []sandbox.UserRecord
	ActiveEvents() []sandbox.EventRecord
	Event(id string) (sandbox.EventRecord, error)
	UpdateEvent(id string, params model.UpdateEventParams) (sandbox.EventRecord, error)
	EntryTotals(id string) (model.EntryTotals, error)
	Coupons() []sandbox.CouponRecord
	CreateCoupon(req sandbox.NewCoupon) (sandbox.CouponRecord, error)
	Courtesies() []sandbox.CourtesyRecord
	SendCourtesy(sentBy string, params model.SendCourtesyParams) (sandbox.Dispatch, error)
	SalesReport(start, end string) (model.SalesReport, error)
}

// Admin handles the authenticated admin endpoints. Each resource answers
// with a different LIGA envelope, as the production API does.
type Admin struct {
	backend Backend
	logger  *logger.Logger
}

// NewAdmin creates a new Admin handler.
func NewAdmin(backend Backend, logger *logger.Logger) *Admin {
	return &Admin{backend: backend, logger: logger}
}

// SearchUsers answers {usuarios: [...]}.
func (h *Admin) SearchUsers(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	if !status.CanUsePOS(caller) {
		handleError(w, sandbox.ErrForbidden, h.logger)
		return
	}

	q := r.URL.Query()
	filter := model.UserFilter{
		Name:  q.Get("nome"),
		Email: q.Get("email"),
		CPF:   q.Get("cpf"),
	}
	if limit := q.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			writeFailure(w, http.StatusUnprocessableEntity, "limit inválido")
			return
		}
		filter.Limit = n
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"erro":     false,
		"usuarios": h.backend.SearchUsers(filter),
	})
}

// ActiveEvents answers {dados: [...]}.
func (h *Admin) ActiveEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"erro":  false,
		"dados": h.backend.ActiveEvents(),
	})
}

// Event answers {evento: {...}}.
func (h *Admin) Event(w http.ResponseWriter, r *http.Request) {
	event, err := h.backend.Event(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"erro": false, "evento": event})
}

// UpdateEvent answers {mensagem, evento}.
func (h *Admin) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var params model.UpdateEventParams
	if err := decodeBody(w, r, &params); err != nil {
		handleError(w, err, h.logger)
		return
	}

	event, err := h.backend.UpdateEvent(chi.URLParam(r, "id"), params)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"erro":     false,
		"mensagem": "Evento atualizado com sucesso",
		"evento":   event,
	})
}

// EntryTotals answers {totalizadores: {...}}.
func (h *Admin) EntryTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.backend.EntryTotals(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"erro": false, "totalizadores": totals})
}

// Coupons answers {data: [...]}.
func (h *Admin) Coupons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"erro": false,
		"data": h.backend.Coupons(),
	})
}

// CreateCoupon answers {mensagem, cupom}. Only producers and administrators
// may create coupons.
func (h *Admin) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	if !status.IsAdmin(caller) && !status.HasRole(caller, model.GroupProducer) {
		handleError(w, sandbox.ErrForbidden, h.logger)
		return
	}

	var req sandbox.NewCoupon
	if err := decodeBody(w, r, &req); err != nil {
		handleError(w, err, h.logger)
		return
	}

	coupon, err := h.backend.CreateCoupon(req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	h.logger.Info("Admin handler: coupon created",
		"code", coupon.Codigo,
		"user_id", caller.ID)
	writeJSON(w, http.StatusCreated, map[string]any{
		"erro":     false,
		"mensagem": "Cupom criado com sucesso",
		"cupom":    coupon,
	})
}

// Courtesies answers a bare array.
func (h *Admin) Courtesies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.backend.Courtesies())
}

// SendCourtesy answers {mensagem}.
func (h *Admin) SendCourtesy(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var params model.SendCourtesyParams
	if err := decodeBody(w, r, &params); err != nil {
		handleError(w, err, h.logger)
		return
	}

	d, err := h.backend.SendCourtesy(caller.ID, params)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"erro":     false,
		"mensagem": fmt.Sprintf("Cortesia enviada para %d destinatário(s)", len(d.Recipients)),
	})
}

// SalesReport answers {relatorio: {...}}.
func (h *Admin) SalesReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	report, err := h.backend.SalesReport(q.Get("data_inicio"), q.Get("data_fim"))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"erro": false, "relatorio": report})
}

func (h *Admin) caller(w http.ResponseWriter, r *http.Request) (model.User, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "Token de acesso não informado")
		return model.User{}, false
	}
	account, err := h.backend.Account(claims.UserID)
	if err != nil {
		h.logger.Warn("Admin handler: token for unknown account",
			"user_id", claims.UserID)
		writeFailure(w, http.StatusUnauthorized, "Token inválido ou expirado")
		return model.User{}, false
	}
	return account.User(), true
}
