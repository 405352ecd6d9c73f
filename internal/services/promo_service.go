package services

import (
	"time"

	"coachtickets/internal/domain"
	"coachtickets/internal/repositories"
	"coachtickets/internal/utils"
)

// PromoService validates promo codes and computes their discount
// contribution. Validation is side-effect-free: the usage counter is
// only incremented by a confirmed payment, so live price previews can
// call Validate repeatedly without exhausting the cap.
type PromoService struct {
	PromoRepo repositories.PromoRepository
	Now       func() time.Time
}

func (s PromoService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

// Validate returns the discount a code contributes against the given
// subtotal. Rejections are BusinessErrors carrying a stable reason.
func (s PromoService) Validate(code string, subtotal float64) (float64, error) {
	p, err := s.PromoRepo.GetByCode(code)
	if err != nil {
		if domain.IsNotFound(err) {
			return 0, domain.BusinessError{Reason: domain.ReasonPromoInvalid, Msg: "promo code not found"}
		}
		return 0, err
	}

	if !p.Active {
		return 0, domain.BusinessError{Reason: domain.ReasonPromoInvalid, Msg: "promo code is not active"}
	}
	if !p.WithinWindow(s.now()) {
		return 0, domain.BusinessError{Reason: domain.ReasonPromoExpired, Msg: "promo code is outside its validity window"}
	}
	if p.Exhausted() {
		return 0, domain.BusinessError{Reason: domain.ReasonPromoExhausted, Msg: "promo code usage limit reached"}
	}

	switch {
	case p.DiscountPercent > 0:
		discount := utils.Round2(subtotal * p.DiscountPercent / 100)
		if p.MaxDiscount > 0 && discount > p.MaxDiscount {
			discount = p.MaxDiscount
		}
		return discount, nil
	case p.DiscountFixed > 0:
		return p.DiscountFixed, nil
	default:
		// A code with neither mode set is still valid, it just grants
		// nothing.
		return 0, nil
	}
}
