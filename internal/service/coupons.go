package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/devpureza/liga-expo/internal/logger"
	"github.com/devpureza/liga-expo/internal/model"
	"github.com/devpureza/liga-expo/internal/normalize"
	"github.com/devpureza/liga-expo/internal/status"
)

const apiDateLayout = "2006-01-02"

type couponRequest struct {
	EventID      string  `json:"evento_id"`
	Code         string  `json:"codigo"`
	Value        float64 `json:"valor"`
	DiscountKind string  `json:"tipo_desconto"`
	ExpiresAt    string  `json:"data_expiracao"`
	UsageLimit   int     `json:"limite_uso_por_cupom"`
	ClientLimit  int     `json:"limite_uso_por_cliente"`
	Description  string  `json:"descricao"`
}

// Coupons manages discount coupons.
type Coupons struct {
	api    model.Requester
	logger *logger.Logger
	now    func() time.Time
}

func NewCoupons(api model.Requester, logger *logger.Logger) *Coupons {
	return &Coupons{api: api, logger: logger, now: time.Now}
}

// All lists every coupon visible to the operator.
func (c *Coupons) All(ctx context.Context) ([]model.Coupon, error) {
	raw, err := c.api.Do(ctx, model.EndpointCoupons, model.APIRequest{})
	if err != nil {
		c.logger.Error("Coupons service: failed to list coupons",
			"error", err.Error())
		return nil, err
	}
	return normalize.Coupons(raw)
}

// ByEvent lists the coupons of one event.
func (c *Coupons) ByEvent(ctx context.Context, eventID string) ([]model.Coupon, error) {
	all, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Coupon, 0, len(all))
	for _, coupon := range all {
		if coupon.EventID == eventID {
			out = append(out, coupon)
		}
	}
	return out, nil
}

// Summaries lists coupons with their status resolved now. An empty eventID
// means every event.
func (c *Coupons) Summaries(ctx context.Context, eventID string) ([]model.CouponSummary, error) {
	var (
		coupons []model.Coupon
		err     error
	)
	if eventID == "" {
		coupons, err = c.All(ctx)
	} else {
		coupons, err = c.ByEvent(ctx, eventID)
	}
	if err != nil {
		return nil, err
	}

	now := c.now()
	out := make([]model.CouponSummary, 0, len(coupons))
	for _, coupon := range coupons {
		out = append(out, model.CouponSummary{
			Coupon:       coupon,
			Status:       status.Coupon(coupon, now),
			UsagePercent: status.UsagePercentage(coupon.UsageCount, coupon.PerCouponLimit),
		})
	}
	return out, nil
}

// Create validates params and creates a coupon. When the backend does not
// echo the coupon, it is built from params.
func (c *Coupons) Create(ctx context.Context, params model.CreateCouponParams) (model.Coupon, error) {
	if err := c.validate(params); err != nil {
		return model.Coupon{}, err
	}

	clientLimit := params.ClientLimit
	if clientLimit <= 0 {
		clientLimit = 1
	}
	req := couponRequest{
		EventID:      params.EventID,
		Code:         strings.TrimSpace(params.Code),
		Value:        params.Value,
		DiscountKind: normalize.DiscountKindWire(params.DiscountKind),
		ExpiresAt:    params.ExpiresAt.Format(apiDateLayout),
		UsageLimit:   params.UsageLimit,
		ClientLimit:  clientLimit,
		Description:  strings.TrimSpace(params.Description),
	}

	raw, err := c.api.Do(ctx, model.EndpointCoupons, model.APIRequest{Method: http.MethodPost, Body: req})
	if err != nil {
		c.logger.Error("Coupons service: failed to create coupon",
			"code", req.Code,
			"error", err.Error())
		return model.Coupon{}, err
	}
	if err := normalize.CheckFailure(raw, "Erro ao criar cupom"); err != nil {
		return model.Coupon{}, err
	}

	created, err := normalize.Coupon(raw)
	if err == nil {
		return created, nil
	}

	c.logger.Debug("Coupons service: create response carried no coupon",
		"code", req.Code)
	expires := params.ExpiresAt
	coupon := model.Coupon{
		Code:         req.Code,
		Value:        params.Value,
		DiscountKind: params.DiscountKind,
		RawStatus:    "1",
		ExpiresAt:    &expires,
		EventID:      params.EventID,
		Description:  req.Description,
	}
	if params.UsageLimit > 0 {
		limit := params.UsageLimit
		coupon.PerCouponLimit = &limit
	}
	if coupon.DiscountKind == "" {
		coupon.DiscountKind = model.DiscountPercentage
	}
	return coupon, nil
}

func (c *Coupons) validate(params model.CreateCouponParams) error {
	switch {
	case strings.TrimSpace(params.EventID) == "":
		return fmt.Errorf("%w: evento é obrigatório", model.ErrInvalidInput)
	case strings.TrimSpace(params.Code) == "":
		return fmt.Errorf("%w: código do cupom é obrigatório", model.ErrInvalidInput)
	case params.Value <= 0:
		return fmt.Errorf("%w: valor do desconto deve ser maior que zero", model.ErrInvalidInput)
	case params.ExpiresAt.IsZero():
		return fmt.Errorf("%w: data de expiração é obrigatória", model.ErrInvalidInput)
	case strings.TrimSpace(params.Description) == "":
		return fmt.Errorf("%w: descrição é obrigatória", model.ErrInvalidInput)
	}

	y, m, d := c.now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, params.ExpiresAt.Location())
	if params.ExpiresAt.Before(today) {
		return fmt.Errorf("%w: data de expiração no passado", model.ErrInvalidInput)
	}
	return nil
}
