package model

import "time"

// DiscountKind tells how a coupon value is applied.
type DiscountKind string

const (
	DiscountPercentage DiscountKind = "percentage"
	DiscountFixed      DiscountKind = "fixed"
)

// CouponStatus is derived from coupon fields on every read.
type CouponStatus string

const (
	CouponActive    CouponStatus = "active"
	CouponExpired   CouponStatus = "expired"
	CouponExhausted CouponStatus = "exhausted"
	CouponInactive  CouponStatus = "inactive"
)

// Coupon is a discount code bound to an event.
type Coupon struct {
	ID             string
	Code           string
	Value          float64
	DiscountKind   DiscountKind
	RawStatus      string
	ExpiresAt      *time.Time
	PerCouponLimit *int
	UsageCount     int
	EventID        string
	EventName      string
	Description    string
}

// CouponSummary pairs a coupon with its derived status for list screens.
type CouponSummary struct {
	Coupon       Coupon
	Status       CouponStatus
	UsagePercent float64
}

// CreateCouponParams is the input for coupon creation.
type CreateCouponParams struct {
	EventID      string
	Code         string
	Value        float64
	DiscountKind DiscountKind
	ExpiresAt    time.Time
	UsageLimit   int
	// ClientLimit caps uses per customer. Zero sends 1.
	ClientLimit int
	Description string
}
