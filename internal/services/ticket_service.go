package services

import (
	"time"

	"coachtickets/internal/domain"
	"coachtickets/internal/domain/models"
	"coachtickets/internal/repositories"
	"coachtickets/internal/utils"
)

// TicketService issues tickets for paid bookings and handles
// redemption at boarding.
type TicketService struct {
	TicketRepo  repositories.TicketRepository
	BookingRepo repositories.BookingRepository
	Now         func() time.Time
	RequestID   string
}

func (s TicketService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

// Issue derives a ticket from a paid booking, exactly once. A ticket
// that already exists for the booking is returned untouched, so the
// call is safe under webhook redelivery. The unique key on booking_ref
// backstops concurrent first-time issuance.
func (s TicketService) Issue(b models.Booking) (models.Ticket, error) {
	if b.Status != models.BookingPaid {
		return models.Ticket{}, domain.BusinessError{
			Reason: domain.ReasonNotConfirmed,
			Msg:    "ticket can only be issued for a paid booking",
		}
	}

	existing, err := s.TicketRepo.GetByBookingRef(b.Ref)
	if err == nil {
		return existing, nil
	}
	if !domain.IsNotFound(err) {
		return models.Ticket{}, err
	}

	t := models.Ticket{
		TicketID:      utils.NewTicketID(),
		BookingRef:    b.Ref,
		QRToken:       utils.NewQRToken(),
		From:          b.From,
		To:            b.To,
		DateKey:       b.DateKey,
		DepartureTime: b.DepartureTime,
		ArrivalTime:   b.ArrivalTime,
		Passenger:     models.Passenger{FirstName: b.FirstName, LastName: b.LastName}.FullName(),
		Price:         b.Total,
		Currency:      b.Currency,
	}

	id, err := s.TicketRepo.Insert(t)
	if err != nil {
		if domain.IsConflict(err) {
			// Lost the issuance race; the winner's ticket is the ticket.
			return s.TicketRepo.GetByBookingRef(b.Ref)
		}
		return models.Ticket{}, err
	}
	t.ID = id
	t.CreatedAt = s.now()
	utils.LogEvent(s.RequestID, "ticket", "issue", "booking_ref="+b.Ref+" ticket_id="+t.TicketID)
	return t, nil
}

// GetForBooking returns the ticket of a paid booking.
func (s TicketService) GetForBooking(ref string) (models.Ticket, error) {
	b, err := s.BookingRepo.GetByRef(ref)
	if err != nil {
		return models.Ticket{}, err
	}
	if b.Status != models.BookingPaid {
		return models.Ticket{}, domain.BusinessError{
			Reason: domain.ReasonNotConfirmed,
			Msg:    "booking is not paid",
		}
	}
	return s.TicketRepo.GetByBookingRef(ref)
}

// RedemptionStatus reports the outcome of a validate call. AlreadyUsed
// and expired are statuses, not errors: the scanner needs the detail.
type RedemptionStatus struct {
	Valid  bool       `json:"valid"`
	Reason string     `json:"reason,omitempty"`
	UsedAt *time.Time `json:"used_at,omitempty"`
	Ticket *models.Ticket
}

// Validate checks a qrToken without consuming it.
func (s TicketService) Validate(token string) (RedemptionStatus, error) {
	t, err := s.TicketRepo.GetByQRToken(token)
	if err != nil {
		return RedemptionStatus{}, err
	}

	b, err := s.BookingRepo.GetByRef(t.BookingRef)
	if err != nil {
		return RedemptionStatus{}, err
	}
	if b.Status != models.BookingPaid {
		return RedemptionStatus{}, domain.BusinessError{
			Reason: domain.ReasonNotConfirmed,
			Msg:    "booking is not paid",
		}
	}

	if t.IsUsed {
		return RedemptionStatus{Reason: domain.ReasonTicketUsed, UsedAt: t.UsedAt, Ticket: &t}, nil
	}

	// Day-granularity comparison: a ticket is good for its whole travel
	// day regardless of departure time.
	if t.DateKey < utils.DateKey(s.now()) {
		return RedemptionStatus{Reason: domain.ReasonTicketExpired, Ticket: &t}, nil
	}

	return RedemptionStatus{Valid: true, Ticket: &t}, nil
}

// Use consumes a ticket. The conditional update on is_used makes this a
// one-way latch: exactly one call can ever succeed.
func (s TicketService) Use(token string) (models.Ticket, error) {
	t, err := s.TicketRepo.GetByQRToken(token)
	if err != nil {
		return models.Ticket{}, err
	}

	usedAt := s.now()
	won, err := s.TicketRepo.MarkUsed(token, usedAt)
	if err != nil {
		return models.Ticket{}, err
	}
	if !won {
		return models.Ticket{}, domain.BusinessError{
			Reason: domain.ReasonTicketUsed,
			Msg:    "ticket already used",
		}
	}

	t.IsUsed = true
	t.UsedAt = &usedAt
	utils.LogEvent(s.RequestID, "ticket", "use", "ticket_id="+t.TicketID)
	return t, nil
}
