package models

import "time"

// PromoCode is a discount voucher. Codes are stored uppercase and
// matched case-insensitively. Exactly one of DiscountPercent or
// DiscountFixed is the active mode; a code with neither still passes
// validation and contributes zero discount.
type PromoCode struct {
	ID              int64     `json:"id"`
	Code            string    `json:"code"`
	DiscountPercent float64   `json:"discount_percent"`
	DiscountFixed   float64   `json:"discount_fixed"`
	MaxDiscount     float64   `json:"max_discount"` // caps percent mode; 0 = uncapped
	ValidFrom       time.Time `json:"valid_from"`
	ValidUntil      time.Time `json:"valid_until"`
	UsageLimit      int64     `json:"usage_limit"` // 0 = unlimited
	UsageCount      int64     `json:"usage_count"`
	Active          bool      `json:"active"`
}

// Exhausted reports whether the usage cap has been reached.
func (p PromoCode) Exhausted() bool {
	return p.UsageLimit > 0 && p.UsageCount >= p.UsageLimit
}

// WithinWindow reports whether now falls inside the inclusive
// [ValidFrom, ValidUntil] validity window.
func (p PromoCode) WithinWindow(now time.Time) bool {
	return !now.Before(p.ValidFrom) && !now.After(p.ValidUntil)
}
