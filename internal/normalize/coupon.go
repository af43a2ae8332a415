package normalize

import (
	"encoding/json"
	"strings"

	"github.com/devpureza/liga-expo/internal/model"
)

type couponDTO struct {
	ID           flexString `json:"id"`
	Code         string     `json:"codigo"`
	Value        flexFloat  `json:"valor"`
	DiscountKind string     `json:"tipo_desconto"`
	Status       flexString `json:"status"`
	ExpiresAt    string     `json:"data_expiracao"`
	Limit        flexInt    `json:"limite_uso_por_cupom"`
	Usage        flexInt    `json:"usos"`
	EventID      flexString `json:"evento_id"`
	EventName    string     `json:"evento_nome"`
	Description  string     `json:"descricao"`
}

var couponShape = HasFields("id", "codigo")

func (d couponDTO) toModel() model.Coupon {
	c := model.Coupon{
		ID:           string(d.ID),
		Code:         d.Code,
		Value:        float64(d.Value),
		DiscountKind: discountKind(d.DiscountKind),
		RawStatus:    string(d.Status),
		ExpiresAt:    parseTime(d.ExpiresAt),
		UsageCount:   d.Usage.value,
		EventID:      string(d.EventID),
		EventName:    d.EventName,
		Description:  d.Description,
	}
	if limit := d.Limit.ptr(); limit != nil && *limit > 0 {
		c.PerCouponLimit = limit
	}
	return c
}

func discountKind(raw string) model.DiscountKind {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "fixo", "fixed", "valor":
		return model.DiscountFixed
	default:
		return model.DiscountPercentage
	}
}

// DiscountKindWire is the backend spelling of a discount kind.
func DiscountKindWire(k model.DiscountKind) string {
	if k == model.DiscountFixed {
		return "fixo"
	}
	return "percentual"
}

// Coupons normalizes a coupon list response.
func Coupons(raw json.RawMessage) ([]model.Coupon, error) {
	items, err := List(raw, "cupons", couponShape, "Erro ao carregar cupons")
	if err != nil {
		return nil, err
	}
	coupons := make([]model.Coupon, 0, len(items))
	for _, item := range items {
		var dto couponDTO
		if err := decodeLenient(item, &dto); err != nil {
			continue
		}
		coupons = append(coupons, dto.toModel())
	}
	return coupons, nil
}

// Coupon normalizes a single coupon response, as returned by creation.
func Coupon(raw json.RawMessage) (model.Coupon, error) {
	item, err := One(raw, "cupom", couponShape, "Erro ao criar cupom")
	if err != nil {
		return model.Coupon{}, err
	}
	var dto couponDTO
	if err := decodeLenient(item, &dto); err != nil {
		return model.Coupon{}, model.NewShapeError(model.MsgInvalidShape)
	}
	return dto.toModel(), nil
}
