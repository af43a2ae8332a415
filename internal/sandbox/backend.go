package sandbox

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/devpureza/liga-expo/internal/logger"
	"github.com/devpureza/liga-expo/internal/model"
)

const dateLayout = "2006-01-02"

var (
	ErrInvalidCredentials = errors.New("Credenciais inválidas")
	ErrForbidden          = errors.New("Acesso negado")
	ErrDuplicateCode      = errors.New("Código de cupom já cadastrado")
	ErrCourtesyUsed       = errors.New("Cortesia já utilizada")
	ErrCourtesyNotFound   = errors.New("Cortesia não encontrada")
)

// Backend is an in-memory stand-in for the LIGA admin API data.
type Backend struct {
	mu         sync.RWMutex
	accounts   []Account
	events     []EventRecord
	totals     map[int]model.EntryTotals
	coupons    []CouponRecord
	courtesies []CourtesyRecord
	sales      []Sale
	dispatches []Dispatch

	hashCost int
	now      func() time.Time
	logger   *logger.Logger
}

// New creates a Backend seeded with demo data. hashCost is the bcrypt cost of
// the seeded passwords.
func New(hashCost int, logger *logger.Logger) (*Backend, error) {
	b := &Backend{
		totals:   map[int]model.EntryTotals{},
		hashCost: hashCost,
		now:      time.Now,
		logger:   logger,
	}
	if err := b.seed(); err != nil {
		return nil, fmt.Errorf("failed to seed sandbox: %w", err)
	}
	return b, nil
}

// AddAccount registers an operator with a plain-text password.
func (b *Backend) AddAccount(a Account, password string) (Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.hashCost)
	if err != nil {
		return Account{}, fmt.Errorf("failed to hash password: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = b.now()
	}
	if a.ApprovalStatus == "" {
		a.ApprovalStatus = model.DefaultApprovalStatus
	}
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	a.PasswordHash = hash
	b.accounts = append(b.accounts, a)
	return a, nil
}

// Authenticate checks email and password.
func (b *Backend) Authenticate(email, password string) (Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, a := range b.accounts {
		if a.Email != email {
			continue
		}
		if err := bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(password)); err != nil {
			b.logger.Info("Sandbox: password mismatch", "email", email)
			return Account{}, ErrInvalidCredentials
		}
		return a, nil
	}
	b.logger.Info("Sandbox: unknown login", "email", email)
	return Account{}, ErrInvalidCredentials
}

// Account returns the operator with id.
func (b *Backend) Account(id string) (Account, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, a := range b.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return Account{}, model.ErrUserNotFound
}

// SearchUsers matches name by substring and email and cpf exactly, ignoring case.
func (b *Backend) SearchUsers(filter model.UserFilter) []UserRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()

	name := strings.ToLower(strings.TrimSpace(filter.Name))
	email := strings.ToLower(strings.TrimSpace(filter.Email))
	cpf := onlyDigits(filter.CPF)

	out := []UserRecord{}
	for _, a := range b.accounts {
		if name != "" && !strings.Contains(strings.ToLower(a.Name), name) {
			continue
		}
		if email != "" && a.Email != email {
			continue
		}
		if cpf != "" && onlyDigits(a.CPF) != cpf {
			continue
		}
		out = append(out, a.Record())
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out
}

// ActiveEvents lists events with status ativo.
func (b *Backend) ActiveEvents() []EventRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := []EventRecord{}
	for _, e := range b.events {
		if e.Status == "ativo" {
			out = append(out, e)
		}
	}
	return out
}

// Event returns the event with id.
func (b *Backend) Event(id string) (EventRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	i, err := b.eventIndex(id)
	if err != nil {
		return EventRecord{}, err
	}
	return b.events[i], nil
}

// UpdateEvent applies the non-empty fields of params.
func (b *Backend) UpdateEvent(id string, params model.UpdateEventParams) (EventRecord, error) {
	if params.Date != "" {
		if _, err := time.Parse(dateLayout, params.Date); err != nil {
			return EventRecord{}, fmt.Errorf("%w: data do evento inválida", model.ErrInvalidInput)
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	i, err := b.eventIndex(id)
	if err != nil {
		return EventRecord{}, err
	}
	e := &b.events[i]
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&e.Nome, params.Name)
	set(&e.Descricao, params.Description)
	set(&e.DataEvento, params.Date)
	set(&e.NomeLocal, params.Venue)
	set(&e.Cidade, params.City)
	set(&e.Estado, params.State)
	return *e, nil
}

// EntryTotals returns gate counters of an event.
func (b *Backend) EntryTotals(id string) (model.EntryTotals, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	i, err := b.eventIndex(id)
	if err != nil {
		return model.EntryTotals{}, err
	}
	return b.totals[b.events[i].ID], nil
}

// Coupons lists every coupon.
func (b *Backend) Coupons() []CouponRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]CouponRecord{}, b.coupons...)
}

// CreateCoupon validates and stores a coupon.
func (b *Backend) CreateCoupon(req NewCoupon) (CouponRecord, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Codigo))
	if code == "" {
		return CouponRecord{}, fmt.Errorf("%w: código do cupom é obrigatório", model.ErrInvalidInput)
	}
	if req.Valor <= 0 {
		return CouponRecord{}, fmt.Errorf("%w: valor do desconto deve ser maior que zero", model.ErrInvalidInput)
	}
	kind := strings.ToLower(strings.TrimSpace(req.TipoDesconto))
	switch kind {
	case "":
		kind = "percentual"
	case "percentual", "fixo":
	default:
		return CouponRecord{}, fmt.Errorf("%w: tipo de desconto inválido", model.ErrInvalidInput)
	}
	if kind == "percentual" && req.Valor > 100 {
		return CouponRecord{}, fmt.Errorf("%w: percentual acima de 100", model.ErrInvalidInput)
	}
	if _, err := time.Parse(dateLayout, req.DataExpiracao); err != nil {
		return CouponRecord{}, fmt.Errorf("%w: data de expiração inválida", model.ErrInvalidInput)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	i, err := b.eventIndex(req.EventoID)
	if err != nil {
		return CouponRecord{}, err
	}
	for _, c := range b.coupons {
		if strings.EqualFold(c.Codigo, code) {
			return CouponRecord{}, ErrDuplicateCode
		}
	}

	coupon := CouponRecord{
		ID:                  uuid.NewString(),
		Codigo:              code,
		Valor:               req.Valor,
		TipoDesconto:        kind,
		Status:              1,
		DataExpiracao:       req.DataExpiracao,
		LimiteUsoPorCliente: max(req.LimiteUsoPorCliente, 1),
		EventoID:            b.events[i].ID,
		EventoNome:          b.events[i].Nome,
		Descricao:           strings.TrimSpace(req.Descricao),
	}
	if req.LimiteUsoPorCupom > 0 {
		limit := req.LimiteUsoPorCupom
		coupon.LimiteUsoPorCupom = &limit
	}
	b.coupons = append(b.coupons, coupon)
	return coupon, nil
}

// Courtesies lists every courtesy.
func (b *Backend) Courtesies() []CourtesyRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]CourtesyRecord{}, b.courtesies...)
}

// SendCourtesy records a dispatch of an unused courtesy.
func (b *Backend) SendCourtesy(sentBy string, params model.SendCourtesyParams) (Dispatch, error) {
	if params.Quantity <= 0 || len(params.Recipients) == 0 {
		return Dispatch{}, fmt.Errorf("%w: quantidade e destinatários são obrigatórios", model.ErrInvalidInput)
	}
	id, err := strconv.Atoi(strings.TrimSpace(params.CourtesyID))
	if err != nil {
		return Dispatch{}, ErrCourtesyNotFound
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.courtesies {
		c := &b.courtesies[i]
		if c.ID != id {
			continue
		}
		if c.Status == "utilizada" || c.DataUtilizacao != "" {
			return Dispatch{}, ErrCourtesyUsed
		}
		d := Dispatch{
			CourtesyID: id,
			Quantity:   params.Quantity,
			Recipients: append([]string(nil), params.Recipients...),
			SentBy:     sentBy,
			SentAt:     b.now(),
		}
		b.dispatches = append(b.dispatches, d)
		return d, nil
	}
	return Dispatch{}, ErrCourtesyNotFound
}

// Dispatches lists recorded courtesy dispatches.
func (b *Backend) Dispatches() []Dispatch {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Dispatch{}, b.dispatches...)
}

// SalesReport aggregates sales between start and end, both inclusive days.
func (b *Backend) SalesReport(start, end string) (model.SalesReport, error) {
	from, err := time.Parse(dateLayout, start)
	if err != nil {
		return model.SalesReport{}, fmt.Errorf("%w: data_inicio inválida", model.ErrInvalidInput)
	}
	to, err := time.Parse(dateLayout, end)
	if err != nil {
		return model.SalesReport{}, fmt.Errorf("%w: data_fim inválida", model.ErrInvalidInput)
	}
	if to.Before(from) {
		return model.SalesReport{}, fmt.Errorf("%w: período inválido", model.ErrInvalidInput)
	}
	to = to.AddDate(0, 0, 1)

	b.mu.RLock()
	defer b.mu.RUnlock()

	rows := map[int]*model.EventSales{}
	report := model.SalesReport{
		ByEvent: []model.EventSales{},
		Period:  model.ReportPeriod{Start: start, End: end},
	}
	for _, s := range b.sales {
		if s.SoldAt.Before(from) || !s.SoldAt.Before(to) {
			continue
		}
		row, ok := rows[s.EventID]
		if !ok {
			row = &model.EventSales{Event: b.eventName(s.EventID)}
			rows[s.EventID] = row
		}
		row.Quantity += s.Quantity
		row.Revenue += s.Revenue
		report.TotalSales += s.Quantity
		report.TotalRevenue += s.Revenue
	}
	for _, row := range rows {
		report.ByEvent = append(report.ByEvent, *row)
	}
	sort.Slice(report.ByEvent, func(i, j int) bool {
		return report.ByEvent[i].Revenue > report.ByEvent[j].Revenue
	})
	return report, nil
}

func (b *Backend) eventIndex(id string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil {
		return 0, model.ErrEventNotFound
	}
	for i, e := range b.events {
		if e.ID == n {
			return i, nil
		}
	}
	return 0, model.ErrEventNotFound
}

func (b *Backend) eventName(id int) string {
	for _, e := range b.events {
		if e.ID == id {
			return e.Nome
		}
	}
	return strconv.Itoa(id)
}

func onlyDigits(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
