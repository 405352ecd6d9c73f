package services

import (
	"strings"

	"coachtickets/internal/domain"
	"coachtickets/internal/domain/models"
	"coachtickets/internal/utils"
)

const (
	serviceFeeRate  = 0.015
	serviceFeeFloor = 3.0
)

// PriceBreakdown is the result of pricing a candidate booking. Every
// field is rounded to 2 decimals so stored values line up with the
// provider's minor-unit amounts.
type PriceBreakdown struct {
	Subtotal        float64 `json:"subtotal"`
	Fees            float64 `json:"fees"`
	Discount        float64 `json:"discount"`
	StudentDiscount float64 `json:"student_discount"`
	Total           float64 `json:"total"`
	Currency        string  `json:"currency"`

	// PromoCode is the code actually applied (uppercase); empty when no
	// code was given or the code was rejected. PromoReason carries the
	// rejection reason for previews.
	PromoCode   string `json:"promo_code,omitempty"`
	PromoReason string `json:"promo_reason,omitempty"`
}

// PricingService computes subtotal, service fee, promo and student
// discounts, and the final total for a route.
type PricingService struct {
	Promo PromoService
}

// Quote prices a candidate booking. An invalid promo code contributes
// zero discount rather than failing the quote; the rejection reason is
// reported on the breakdown. The caller-requested student discount is
// never trusted beyond the route's configured ceiling.
func (s PricingService) Quote(route models.Route, promoCode string, studentRequested float64) PriceBreakdown {
	out := PriceBreakdown{
		Subtotal: utils.Round2(route.BasePrice),
		Currency: route.Currency,
	}

	out.Fees = utils.Round2(out.Subtotal * serviceFeeRate)
	if out.Fees < serviceFeeFloor {
		out.Fees = serviceFeeFloor
	}

	if code := strings.ToUpper(strings.TrimSpace(promoCode)); code != "" {
		discount, err := s.Promo.Validate(code, out.Subtotal)
		switch {
		case err == nil:
			out.Discount = utils.Round2(discount)
			out.PromoCode = code
		case domain.IsBusiness(err):
			out.PromoReason = domain.BusinessReason(err)
		default:
			// Lookup failures degrade to "no discount"; pricing never
			// blocks on the promo store.
			out.PromoReason = domain.ReasonPromoInvalid
		}
	}

	if studentRequested > 0 && route.StudentDiscount > 0 {
		applied := studentRequested
		if applied > route.StudentDiscount {
			applied = route.StudentDiscount
		}
		out.StudentDiscount = utils.Round2(applied)
	}

	total := out.Subtotal + out.Fees - out.Discount - out.StudentDiscount
	if total < 0 {
		// Discounts beyond the payable amount are absorbed, never
		// refunded as credit.
		total = 0
	}
	out.Total = utils.Round2(total)
	return out
}
