package handlers

import (
	"net/http"
	"time"

	"coachtickets/internal/domain"
	"coachtickets/internal/domain/models"
	"coachtickets/internal/utils"

	"github.com/gin-gonic/gin"
)

type validatePromoPayload struct {
	Code     string  `json:"code"`
	Subtotal float64 `json:"subtotal"`
}

// ValidatePromo previews a code's discount against a subtotal. The
// check is side-effect-free, so clients may call it on every keystroke.
// POST /api/promos/validate
func (h Handler) ValidatePromo(c *gin.Context) {
	var req validatePromoPayload
	if !BindJSONOrError(c, &req) {
		return
	}

	discount, err := h.Promos.Validate(req.Code, utils.Round2(req.Subtotal))
	if err != nil {
		if domain.IsBusiness(err) {
			c.JSON(http.StatusOK, gin.H{
				"valid":  false,
				"reason": domain.BusinessReason(err),
			})
			return
		}
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true, "discount": discount})
}

// --- Admin promo management ---

type promoPayload struct {
	Code            string  `json:"code"`
	DiscountPercent float64 `json:"discount_percent"`
	DiscountFixed   float64 `json:"discount_fixed"`
	MaxDiscount     float64 `json:"max_discount"`
	ValidFrom       string  `json:"valid_from"`
	ValidUntil      string  `json:"valid_until"`
	UsageLimit      int64   `json:"usage_limit"`
	Active          *bool   `json:"active"`
}

// GET /api/admin/promos
func (h Handler) ListPromos(c *gin.Context) {
	promos, err := h.Promos.PromoRepo.List()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"promo_codes": promos})
}

// POST /api/admin/promos
func (h Handler) CreatePromo(c *gin.Context) {
	var req promoPayload
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.Code == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "code is required", nil)
		return
	}
	if req.DiscountPercent < 0 || req.DiscountPercent > 100 {
		respondError(c, http.StatusBadRequest, "validation_error", "discount_percent must be 0-100", nil)
		return
	}
	if req.DiscountPercent > 0 && req.DiscountFixed > 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "percent and fixed discounts are exclusive", nil)
		return
	}

	from, err := time.Parse(time.RFC3339, req.ValidFrom)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "valid_from must be RFC3339", nil)
		return
	}
	until, err := time.Parse(time.RFC3339, req.ValidUntil)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "valid_until must be RFC3339", nil)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	promo := models.PromoCode{
		Code:            req.Code,
		DiscountPercent: req.DiscountPercent,
		DiscountFixed:   req.DiscountFixed,
		MaxDiscount:     req.MaxDiscount,
		ValidFrom:       from.UTC(),
		ValidUntil:      until.UTC(),
		UsageLimit:      req.UsageLimit,
		Active:          active,
	}

	id, err := h.Promos.PromoRepo.Insert(promo)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	promo.ID = id
	c.JSON(http.StatusCreated, promo)
}
