package models

// Route is a scheduled coach line between two cities. Pricing and
// availability fields are read-only to the booking core; they are
// managed through the admin endpoints.
type Route struct {
	ID            int64    `json:"id"`
	From          string   `json:"from"`
	To            string   `json:"to"`
	BasePrice     float64  `json:"base_price"`
	Currency      string   `json:"currency"` // RON or EUR
	DepartureTime string   `json:"departure_time"`
	ArrivalTime   string   `json:"arrival_time"`
	Stations      []string `json:"stations,omitempty"`
	Active        bool     `json:"active"`

	// AvailableDays holds UTC weekdays (0=Sunday) the route runs on.
	// Empty means every day.
	AvailableDays []int `json:"available_days,omitempty"`

	// StudentDiscount is the maximum fixed amount a student request may
	// deduct. Zero means the route offers none.
	StudentDiscount float64 `json:"student_discount"`

	// ClosedDates holds canonical date-keys (YYYY-MM-DD) on which the
	// route cannot be booked regardless of weekday.
	ClosedDates []string `json:"closed_dates,omitempty"`
}

// RunsOn reports whether the route operates on the given UTC weekday.
func (r Route) RunsOn(weekday int) bool {
	if len(r.AvailableDays) == 0 {
		return true
	}
	for _, d := range r.AvailableDays {
		if d == weekday {
			return true
		}
	}
	return false
}

// ClosedOn reports whether the given date-key is explicitly closed.
func (r Route) ClosedOn(dateKey string) bool {
	for _, d := range r.ClosedDates {
		if d == dateKey {
			return true
		}
	}
	return false
}
