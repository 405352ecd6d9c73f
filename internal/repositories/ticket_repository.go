package repositories

import (
	"database/sql"
	"strings"
	"time"

	"coachtickets/internal/domain"
	"coachtickets/internal/domain/models"
)

type TicketRepository struct {
	DB *sql.DB
}

const ticketColumns = `id, ticket_id, booking_ref, qr_token, from_city, to_city, date_key,
	departure_time, arrival_time, passenger, price, currency, is_used, used_at, created_at`

func scanTicket(row *sql.Row) (models.Ticket, error) {
	var (
		t      models.Ticket
		usedAt sql.NullTime
	)
	err := row.Scan(&t.ID, &t.TicketID, &t.BookingRef, &t.QRToken, &t.From, &t.To, &t.DateKey,
		&t.DepartureTime, &t.ArrivalTime, &t.Passenger, &t.Price, &t.Currency, &t.IsUsed, &usedAt, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return t, domain.NotFoundError{Resource: "ticket"}
	}
	if err != nil {
		return t, domain.InternalError{Err: err}
	}
	if usedAt.Valid {
		ts := usedAt.Time
		t.UsedAt = &ts
	}
	return t, nil
}

func (r TicketRepository) Insert(t models.Ticket) (int64, error) {
	res, err := r.DB.Exec(`INSERT INTO tickets
		(ticket_id, booking_ref, qr_token, from_city, to_city, date_key,
		 departure_time, arrival_time, passenger, price, currency, is_used)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,0)`,
		t.TicketID, t.BookingRef, t.QRToken, t.From, t.To, t.DateKey,
		t.DepartureTime, t.ArrivalTime, t.Passenger, t.Price, t.Currency)
	if err != nil {
		// The unique key on booking_ref backstops concurrent issuance.
		if isDuplicateKey(err) {
			return 0, domain.ConflictError{Resource: "ticket", Msg: "already issued", Err: err}
		}
		return 0, domain.InternalError{Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	return id, nil
}

func (r TicketRepository) GetByBookingRef(ref string) (models.Ticket, error) {
	row := r.DB.QueryRow(`SELECT `+ticketColumns+` FROM tickets WHERE booking_ref=? LIMIT 1`, strings.TrimSpace(ref))
	return scanTicket(row)
}

func (r TicketRepository) GetByQRToken(token string) (models.Ticket, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return models.Ticket{}, domain.ValidationError{Field: "qr_token", Msg: "token is required"}
	}
	row := r.DB.QueryRow(`SELECT `+ticketColumns+` FROM tickets WHERE qr_token=? LIMIT 1`, token)
	return scanTicket(row)
}

// MarkUsed flips the one-way used latch. The is_used=0 condition makes
// the check-and-set atomic: only one caller can ever succeed.
func (r TicketRepository) MarkUsed(token string, usedAt time.Time) (bool, error) {
	res, err := r.DB.Exec(`UPDATE tickets SET is_used=1, used_at=? WHERE qr_token=? AND is_used=0`,
		usedAt, token)
	if err != nil {
		return false, domain.InternalError{Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, domain.InternalError{Err: err}
	}
	return n > 0, nil
}

func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Duplicate entry")
}
