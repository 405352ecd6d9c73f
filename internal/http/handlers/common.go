package handlers

import (
	"net/http"

	"coachtickets/internal/config"
	"coachtickets/internal/payments"
	"coachtickets/internal/services"

	"github.com/gin-gonic/gin"
)

// Handler groups the injected services behind the HTTP surface.
// Services are value structs; request handlers copy them and stamp the
// request id before use.
type Handler struct {
	Env      config.Env
	Bookings services.BookingService
	Tickets  services.TicketService
	Pricing  services.PricingService
	Promos   services.PromoService
	Routes   services.RouteAdminService
	Avail    services.AvailabilityService
	Stripe   *payments.StripeClient
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		respondError(c, http.StatusBadRequest, "invalid_body", "empty body", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_json", "invalid payload", err.Error())
		return false
	}
	return true
}
