package services

import (
	"fmt"
	"strings"

	"coachtickets/internal/domain"
	"coachtickets/internal/domain/models"
	"coachtickets/internal/repositories"
	"coachtickets/internal/utils"
)

// minorUnitsApart measures the distance between two amounts in minor
// units. Overrides within one minor unit of the stored total are
// ignored; comparing in integer minor units keeps float representation
// error away from the boundary.
func minorUnitsApart(a, b float64) int64 {
	d := utils.ToMinorUnits(a) - utils.ToMinorUnits(b)
	if d < 0 {
		return -d
	}
	return d
}

// PaymentIntent is the provider-side authorization-to-charge record
// created per booking attempt.
type PaymentIntent struct {
	ID           string
	ClientSecret string
}

// PaymentProvider is the payment collaborator the lifecycle manager
// depends on. It is injected at construction; there is no package-level
// client.
type PaymentProvider interface {
	EnsureCustomer(name, email, phone string) (string, error)
	CreatePaymentIntent(amountMinor int64, currency, customerID, bookingRef string) (PaymentIntent, error)
	CreateEphemeralKey(customerID string) (string, error)
}

// CreateBookingRequest carries the client input for a new booking.
type CreateBookingRequest struct {
	RouteID                  int64
	Date                     string
	Passenger                models.Passenger
	PromoCode                string
	StudentDiscountRequested float64
}

// PaymentSheet is the client secret material a payer's client needs to
// complete payment.
type PaymentSheet struct {
	BookingRef      string  `json:"booking_id"`
	PaymentIntentID string  `json:"payment_intent_id"`
	ClientSecret    string  `json:"client_secret"`
	EphemeralKey    string  `json:"ephemeral_key"`
	CustomerID      string  `json:"customer_id"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
}

// BookingService owns the booking state machine: pending → paid on the
// success path, pending → cancelled on failure. Both terminal
// transitions are driven by webhook events that may be redelivered, so
// every mutation here is written to be safe under duplicate delivery.
type BookingService struct {
	RouteRepo    repositories.RouteRepository
	BookingRepo  repositories.BookingRepository
	PromoRepo    repositories.PromoRepository
	Availability AvailabilityService
	Pricing      PricingService
	Tickets      TicketService
	Payments     PaymentProvider

	// Deliver renders and sends the ticket after issuance. It runs
	// detached; its failure never affects the confirmation result.
	Deliver func(models.Ticket, models.Booking)

	// NewRef overrides booking reference generation in tests.
	NewRef func() string

	RequestID string
}

func (s BookingService) newRef() string {
	if s.NewRef != nil {
		return s.NewRef()
	}
	return utils.NewBookingRef()
}

// Create validates route and travel day, prices the trip, and persists
// a pending booking snapshot.
func (s BookingService) Create(req CreateBookingRequest) (models.Booking, error) {
	route, err := s.RouteRepo.GetByID(req.RouteID)
	if err != nil {
		return models.Booking{}, err
	}
	if !route.Active {
		return models.Booking{}, domain.BusinessError{
			Reason: domain.ReasonRouteInactive,
			Msg:    "route is not active",
		}
	}

	if strings.TrimSpace(req.Passenger.FirstName) == "" {
		return models.Booking{}, domain.ValidationError{Field: "name", Msg: "passenger name is required"}
	}
	if strings.TrimSpace(req.Passenger.Email) == "" {
		return models.Booking{}, domain.ValidationError{Field: "email", Msg: "passenger email is required"}
	}

	travelDay, err := utils.NormalizeTravelDate(req.Date)
	if err != nil {
		return models.Booking{}, err
	}
	if err := s.Availability.CheckAvailability(route, travelDay); err != nil {
		return models.Booking{}, err
	}

	quote := s.Pricing.Quote(route, req.PromoCode, req.StudentDiscountRequested)

	b := models.Booking{
		Ref:             s.newRef(),
		RouteID:         route.ID,
		From:            route.From,
		To:              route.To,
		DateKey:         utils.DateKey(travelDay),
		DepartureTime:   route.DepartureTime,
		ArrivalTime:     route.ArrivalTime,
		FirstName:       strings.TrimSpace(req.Passenger.FirstName),
		LastName:        strings.TrimSpace(req.Passenger.LastName),
		Email:           strings.TrimSpace(req.Passenger.Email),
		Phone:           strings.TrimSpace(req.Passenger.Phone),
		Subtotal:        quote.Subtotal,
		Fees:            quote.Fees,
		Discount:        quote.Discount,
		StudentDiscount: quote.StudentDiscount,
		Total:           quote.Total,
		Currency:        quote.Currency,
		PromoCode:       quote.PromoCode,
		Status:          models.BookingPending,
	}

	id, err := s.BookingRepo.Insert(b)
	if err != nil {
		return models.Booking{}, err
	}
	b.ID = id

	utils.LogEvent(s.RequestID, "booking", "create",
		fmt.Sprintf("booking_ref=%s route_id=%d date=%s total=%s %s",
			b.Ref, b.RouteID, b.DateKey, utils.FormatMoney(b.Total), b.Currency))
	return b, nil
}

// GetByRef returns a booking snapshot.
func (s BookingService) GetByRef(ref string) (models.Booking, error) {
	return s.BookingRepo.GetByRef(ref)
}

// AttachPaymentIntent prepares provider-side payment for a pending
// booking: it ensures a provider customer exists for the passenger,
// creates an intent for the booking total and returns the client
// secret material.
//
// A non-nil amountOverride differing from the stored total by more
// than one minor unit corrects the stored total; discounts are NOT
// re-validated on this path.
func (s BookingService) AttachPaymentIntent(ref string, amountOverride *float64) (PaymentSheet, error) {
	b, err := s.BookingRepo.GetByRef(ref)
	if err != nil {
		return PaymentSheet{}, err
	}
	if b.Status != models.BookingPending {
		return PaymentSheet{}, domain.ConflictError{Resource: "booking", Msg: "already processed"}
	}

	if amountOverride != nil {
		corrected := utils.Round2(*amountOverride)
		if corrected > 0 && minorUnitsApart(corrected, b.Total) > 1 {
			utils.LogEvent(s.RequestID, "booking", "amount_override",
				fmt.Sprintf("booking_ref=%s stored=%s override=%s",
					b.Ref, utils.FormatMoney(b.Total), utils.FormatMoney(corrected)))
			if err := s.BookingRepo.UpdateTotal(b.Ref, corrected); err != nil {
				return PaymentSheet{}, err
			}
			b.Total = corrected
		}
	}

	customerID := b.StripeCustomerID
	if customerID == "" {
		passenger := models.Passenger{FirstName: b.FirstName, LastName: b.LastName}
		customerID, err = s.Payments.EnsureCustomer(passenger.FullName(), b.Email, b.Phone)
		if err != nil {
			return PaymentSheet{}, domain.InternalError{Msg: "payment provider: create customer failed", Err: err}
		}
	}

	intent, err := s.Payments.CreatePaymentIntent(utils.ToMinorUnits(b.Total), b.Currency, customerID, b.Ref)
	if err != nil {
		return PaymentSheet{}, domain.InternalError{Msg: "payment provider: create intent failed", Err: err}
	}

	if err := s.BookingRepo.SetPaymentRefs(b.Ref, intent.ID, customerID); err != nil {
		return PaymentSheet{}, err
	}

	ephemeralKey, err := s.Payments.CreateEphemeralKey(customerID)
	if err != nil {
		return PaymentSheet{}, domain.InternalError{Msg: "payment provider: ephemeral key failed", Err: err}
	}

	return PaymentSheet{
		BookingRef:      b.Ref,
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		EphemeralKey:    ephemeralKey,
		CustomerID:      customerID,
		Amount:          b.Total,
		Currency:        b.Currency,
	}, nil
}

// ConfirmPayment is the authoritative pending→paid transition, driven
// by the provider's success notification. Delivery is at-least-once:
// an already-paid booking makes this a no-op so a redelivered event
// cannot double-issue tickets or double-count promo usage. The settled
// amount reported by the provider wins over the originally computed
// total.
func (s BookingService) ConfirmPayment(intentID, ref string, amountMinor int64, currency string) error {
	b, err := s.BookingRepo.GetByRef(ref)
	if err != nil {
		return err
	}
	if b.Status == models.BookingPaid {
		utils.LogEvent(s.RequestID, "booking", "confirm", "booking_ref="+ref+" already paid, no-op")
		return nil
	}

	settled := b.Total
	if amountMinor > 0 {
		settled = utils.Round2(float64(amountMinor) / 100)
	}
	settledCurrency := strings.ToUpper(strings.TrimSpace(currency))
	if settledCurrency == "" {
		settledCurrency = b.Currency
	}

	won, err := s.BookingRepo.MarkPaid(ref, intentID, settled, settledCurrency)
	if err != nil {
		return err
	}
	if !won {
		// Lost against a concurrent delivery or a prior cancellation.
		// Either way the transition already happened; acknowledge.
		utils.LogEvent(s.RequestID, "booking", "confirm", "booking_ref="+ref+" transition already settled elsewhere")
		return nil
	}

	if b.PromoCode != "" {
		if err := s.PromoRepo.IncrementUsage(b.PromoCode); err != nil {
			// The payment is confirmed; a failed counter bump is logged,
			// not surfaced.
			utils.LogEvent(s.RequestID, "booking", "confirm", "promo increment failed: "+err.Error())
		}
	}

	b.Status = models.BookingPaid
	b.Total = settled
	b.Currency = settledCurrency
	b.PaymentIntentID = intentID

	ticket, err := s.Tickets.Issue(b)
	if err != nil {
		return err
	}

	if s.Deliver != nil {
		// Fire and forget: rendering/email failures are the delivery
		// path's problem, never the confirmation's.
		go s.Deliver(ticket, b)
	}

	utils.LogEvent(s.RequestID, "booking", "confirm",
		fmt.Sprintf("booking_ref=%s intent=%s settled=%s %s", ref, intentID, utils.FormatMoney(settled), settledCurrency))
	return nil
}

// FailPayment transitions pending → cancelled. Redelivered failure
// events and failures racing a confirmation are no-ops.
func (s BookingService) FailPayment(ref string) error {
	b, err := s.BookingRepo.GetByRef(ref)
	if err != nil {
		return err
	}
	if b.Status != models.BookingPending {
		utils.LogEvent(s.RequestID, "booking", "fail", "booking_ref="+ref+" already "+b.Status+", no-op")
		return nil
	}

	if _, err := s.BookingRepo.MarkCancelled(ref); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "booking", "fail", "booking_ref="+ref+" cancelled")
	return nil
}
