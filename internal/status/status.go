// Package status derives lifecycle status and role for domain entities.
// Every function is pure and takes the reference time explicitly.
package status

import (
	"math"
	"strings"
	"time"

	"github.com/devpureza/liga-expo/internal/model"
)

var inactiveCouponStatuses = map[string]struct{}{
	"0":        {},
	"inativo":  {},
	"inactive": {},
}

// Coupon resolves the status of a coupon at time now.
func Coupon(c model.Coupon, now time.Time) model.CouponStatus {
	if _, ok := inactiveCouponStatuses[strings.ToLower(strings.TrimSpace(c.RawStatus))]; ok {
		return model.CouponInactive
	}
	if c.ExpiresAt != nil && c.ExpiresAt.Before(now) {
		return model.CouponExpired
	}
	if c.PerCouponLimit != nil && *c.PerCouponLimit > 0 && c.UsageCount >= *c.PerCouponLimit {
		return model.CouponExhausted
	}
	return model.CouponActive
}

var courtesyStatuses = map[string]model.CourtesyStatus{
	"ativa":     model.CourtesyActive,
	"ativo":     model.CourtesyActive,
	"active":    model.CourtesyActive,
	"utilizada": model.CourtesyUsed,
	"utilizado": model.CourtesyUsed,
	"usada":     model.CourtesyUsed,
	"used":      model.CourtesyUsed,
	"expirada":  model.CourtesyExpired,
	"expirado":  model.CourtesyExpired,
	"expired":   model.CourtesyExpired,
	"pendente":  model.CourtesyPending,
	"pending":   model.CourtesyPending,
}

// Courtesy resolves the status of a courtesy at time now.
// An explicit status from the backend always wins; unknown values pass through lowercased.
func Courtesy(c model.Courtesy, now time.Time) model.CourtesyStatus {
	if raw := strings.ToLower(strings.TrimSpace(c.Status)); raw != "" {
		if s, ok := courtesyStatuses[raw]; ok {
			return s
		}
		return model.CourtesyStatus(raw)
	}
	if c.UsedAt != nil {
		return model.CourtesyUsed
	}
	if c.ExpiresAt != nil && c.ExpiresAt.Before(now) {
		return model.CourtesyExpired
	}
	return model.CourtesyActive
}

// UsagePercentage returns used/limit as a percentage capped at 100, or 0 without a limit.
func UsagePercentage(used int, limit *int) float64 {
	if limit == nil || *limit <= 0 {
		return 0
	}
	return math.Min(float64(used)/float64(*limit)*100, 100)
}
