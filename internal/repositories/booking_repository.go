package repositories

import (
	"database/sql"
	"strings"

	"coachtickets/internal/domain"
	"coachtickets/internal/domain/models"
)

type BookingRepository struct {
	DB *sql.DB
}

const bookingColumns = `id, booking_ref, route_id, from_city, to_city, date_key,
	departure_time, arrival_time, first_name, last_name, email, phone,
	subtotal, fees, discount, student_discount, total, currency, promo_code,
	status, payment_intent_id, stripe_customer_id, created_at, updated_at`

func scanBooking(row *sql.Row) (models.Booking, error) {
	var b models.Booking
	err := row.Scan(&b.ID, &b.Ref, &b.RouteID, &b.From, &b.To, &b.DateKey,
		&b.DepartureTime, &b.ArrivalTime, &b.FirstName, &b.LastName, &b.Email, &b.Phone,
		&b.Subtotal, &b.Fees, &b.Discount, &b.StudentDiscount, &b.Total, &b.Currency, &b.PromoCode,
		&b.Status, &b.PaymentIntentID, &b.StripeCustomerID, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return b, domain.NotFoundError{Resource: "booking"}
	}
	if err != nil {
		return b, domain.InternalError{Err: err}
	}
	return b, nil
}

func (r BookingRepository) Insert(b models.Booking) (int64, error) {
	res, err := r.DB.Exec(`INSERT INTO bookings
		(booking_ref, route_id, from_city, to_city, date_key, departure_time, arrival_time,
		 first_name, last_name, email, phone,
		 subtotal, fees, discount, student_discount, total, currency, promo_code, status)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		b.Ref, b.RouteID, b.From, b.To, b.DateKey, b.DepartureTime, b.ArrivalTime,
		b.FirstName, b.LastName, b.Email, b.Phone,
		b.Subtotal, b.Fees, b.Discount, b.StudentDiscount, b.Total, b.Currency, b.PromoCode, b.Status)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	return id, nil
}

func (r BookingRepository) GetByRef(ref string) (models.Booking, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Booking{}, domain.ValidationError{Field: "booking_id", Msg: "reference is required"}
	}
	row := r.DB.QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE booking_ref=? LIMIT 1`, ref)
	return scanBooking(row)
}

// UpdateTotal corrects the stored total (amount-override path).
func (r BookingRepository) UpdateTotal(ref string, total float64) error {
	_, err := r.DB.Exec(`UPDATE bookings SET total=? WHERE booking_ref=?`, total, ref)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

// SetPaymentRefs memoizes the provider customer id and the payment
// intent created for this attempt.
func (r BookingRepository) SetPaymentRefs(ref, intentID, customerID string) error {
	_, err := r.DB.Exec(`UPDATE bookings SET payment_intent_id=?, stripe_customer_id=? WHERE booking_ref=?`,
		intentID, customerID, ref)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

// MarkPaid performs the conditional pending→paid transition and records
// the settled amount and currency as reported by the provider. The
// WHERE clause on the current status is the idempotency guard: under
// duplicate concurrent deliveries exactly one caller sees a row
// affected.
func (r BookingRepository) MarkPaid(ref, intentID string, settledTotal float64, currency string) (bool, error) {
	res, err := r.DB.Exec(`UPDATE bookings
		SET status=?, payment_intent_id=?, total=?, currency=?
		WHERE booking_ref=? AND status=?`,
		models.BookingPaid, intentID, settledTotal, currency, ref, models.BookingPending)
	if err != nil {
		return false, domain.InternalError{Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, domain.InternalError{Err: err}
	}
	return n > 0, nil
}

// MarkCancelled performs the conditional pending→cancelled transition.
func (r BookingRepository) MarkCancelled(ref string) (bool, error) {
	res, err := r.DB.Exec(`UPDATE bookings SET status=? WHERE booking_ref=? AND status=?`,
		models.BookingCancelled, ref, models.BookingPending)
	if err != nil {
		return false, domain.InternalError{Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, domain.InternalError{Err: err}
	}
	return n > 0, nil
}
