package handlers

import (
	"io"
	"net/http"

	"coachtickets/internal/http/middleware"
	"coachtickets/internal/utils"

	"github.com/gin-gonic/gin"
)

// Webhook receives Stripe payment-outcome notifications. Deliveries
// are at-least-once: the lifecycle manager makes redelivery a no-op.
// After the signature verifies, the handler always acknowledges with
// 200 so the provider does not retry forever over a processing failure
// we have already logged.
// POST /api/payments/webhook
func (h Handler) Webhook(c *gin.Context) {
	reqID := middleware.GetRequestID(c)

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<16))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_body", "failed to read payload", nil)
		return
	}

	event, err := h.Stripe.ParseWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		utils.LogEvent(reqID, "webhook", "verify", err.Error())
		respondError(c, http.StatusBadRequest, "invalid_signature", "webhook verification failed", nil)
		return
	}

	switch {
	case event.Succeeded, event.Failed:
	default:
		c.JSON(http.StatusOK, gin.H{"received": true, "ignored": event.Type})
		return
	}

	if event.BookingRef == "" {
		utils.LogEvent(reqID, "webhook", "process", "event "+event.Type+" missing booking_id metadata")
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	svc := h.Bookings
	svc.RequestID = reqID

	if event.Succeeded {
		err = svc.ConfirmPayment(event.IntentID, event.BookingRef, event.AmountMinor, event.Currency)
	} else {
		err = svc.FailPayment(event.BookingRef)
	}
	if err != nil {
		// Acknowledged anyway; redelivery cannot fix what the logs are
		// for.
		utils.LogEvent(reqID, "webhook", "process",
			"event="+event.Type+" booking_ref="+event.BookingRef+" error: "+err.Error())
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
