package handlers

import (
	"net/http"

	"coachtickets/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// GetTicket returns the ticket of a paid booking.
// GET /api/tickets/:ref
func (h Handler) GetTicket(c *gin.Context) {
	t, err := h.Tickets.GetForBooking(c.Param("ref"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

type qrTokenPayload struct {
	QRToken string `json:"qr_token"`
}

// ValidateTicket checks a redemption token without consuming it.
// POST /api/tickets/validate
func (h Handler) ValidateTicket(c *gin.Context) {
	var req qrTokenPayload
	if !BindJSONOrError(c, &req) {
		return
	}

	svc := h.Tickets
	svc.RequestID = middleware.GetRequestID(c)

	status, err := svc.Validate(req.QRToken)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	resp := gin.H{"valid": status.Valid}
	if status.Reason != "" {
		resp["reason"] = status.Reason
	}
	if status.UsedAt != nil {
		resp["used_at"] = status.UsedAt
	}
	if status.Ticket != nil {
		resp["ticket"] = status.Ticket
	}
	c.JSON(http.StatusOK, resp)
}

// UseTicket consumes a ticket at boarding. The second call for the
// same token fails with ticket_already_used.
// POST /api/tickets/use
func (h Handler) UseTicket(c *gin.Context) {
	var req qrTokenPayload
	if !BindJSONOrError(c, &req) {
		return
	}

	svc := h.Tickets
	svc.RequestID = middleware.GetRequestID(c)

	t, err := svc.Use(req.QRToken)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"used": true, "used_at": t.UsedAt, "ticket_id": t.TicketID})
}
