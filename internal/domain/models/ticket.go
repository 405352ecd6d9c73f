package models

import "time"

// Ticket is an immutable projection of a paid booking, except for the
// one-way used latch. QRToken is the sole redemption credential and
// must be treated as a bearer secret.
type Ticket struct {
	ID         int64  `json:"-"`
	TicketID   string `json:"ticket_id"`
	BookingRef string `json:"booking_id"`
	QRToken    string `json:"qr_token"`

	From          string `json:"from"`
	To            string `json:"to"`
	DateKey       string `json:"date"`
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
	Passenger     string `json:"passenger"`

	Price    float64 `json:"price"`
	Currency string  `json:"currency"`

	IsUsed bool       `json:"is_used"`
	UsedAt *time.Time `json:"used_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
