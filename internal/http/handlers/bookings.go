package handlers

import (
	"net/http"

	"coachtickets/internal/domain/models"
	"coachtickets/internal/http/middleware"
	"coachtickets/internal/services"

	"github.com/gin-gonic/gin"
)

type createBookingPayload struct {
	RouteID         int64   `json:"route_id"`
	Date            string  `json:"date"`
	Name            string  `json:"name"`
	Surname         string  `json:"surname"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	PromoCode       string  `json:"promo_code"`
	StudentDiscount float64 `json:"student_discount"`
}

// CreateBooking creates a pending booking for a route and travel day.
// POST /api/bookings
func (h Handler) CreateBooking(c *gin.Context) {
	var req createBookingPayload
	if !BindJSONOrError(c, &req) {
		return
	}

	svc := h.Bookings
	svc.RequestID = middleware.GetRequestID(c)

	booking, err := svc.Create(services.CreateBookingRequest{
		RouteID: req.RouteID,
		Date:    req.Date,
		Passenger: models.Passenger{
			FirstName: req.Name,
			LastName:  req.Surname,
			Email:     req.Email,
			Phone:     req.Phone,
		},
		PromoCode:                req.PromoCode,
		StudentDiscountRequested: req.StudentDiscount,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// GetBooking returns a booking snapshot by reference.
// GET /api/bookings/:ref
func (h Handler) GetBooking(c *gin.Context) {
	booking, err := h.Bookings.GetByRef(c.Param("ref"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

type paymentSheetPayload struct {
	// Amount optionally overrides the stored total; see the lifecycle
	// manager for the epsilon rules.
	Amount *float64 `json:"amount"`
}

// CreatePaymentSheet associates a payment intent with a pending
// booking and returns the client secret material.
// POST /api/bookings/:ref/payment-sheet
func (h Handler) CreatePaymentSheet(c *gin.Context) {
	var req paymentSheetPayload
	if c.Request.ContentLength > 0 {
		if !BindJSONOrError(c, &req) {
			return
		}
	}

	svc := h.Bookings
	svc.RequestID = middleware.GetRequestID(c)

	sheet, err := svc.AttachPaymentIntent(c.Param("ref"), req.Amount)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, sheet)
}
