package models

import "time"

// Booking statuses. Transitions are monotonic: pending may become paid
// or cancelled, nothing leaves paid or cancelled inside this core
// (refunded is reached only by out-of-band administration).
const (
	BookingPending   = "pending"
	BookingPaid      = "paid"
	BookingCancelled = "cancelled"
	BookingRefunded  = "refunded"
)

// Booking is the source of truth for price and status. Route and
// schedule fields are a snapshot taken at creation time, not a live
// join against the route.
type Booking struct {
	ID            int64  `json:"-"`
	Ref           string `json:"booking_id"`
	RouteID       int64  `json:"route_id"`
	From          string `json:"from"`
	To            string `json:"to"`
	DateKey       string `json:"date"`
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`

	FirstName string `json:"name"`
	LastName  string `json:"surname"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`

	Subtotal        float64 `json:"subtotal"`
	Fees            float64 `json:"fees"`
	Discount        float64 `json:"discount"`
	StudentDiscount float64 `json:"student_discount"`
	Total           float64 `json:"total"`
	Currency        string  `json:"currency"`
	PromoCode       string  `json:"promo_code,omitempty"`

	Status           string `json:"status"`
	PaymentIntentID  string `json:"-"`
	StripeCustomerID string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Passenger carries the traveler identity captured on a booking.
type Passenger struct {
	FirstName string `json:"name"`
	LastName  string `json:"surname"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

func (p Passenger) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
