package services

import (
	"testing"
	"time"

	"coachtickets/internal/domain"
	"coachtickets/internal/domain/models"
	"coachtickets/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

var ticketCols = []string{"id", "ticket_id", "booking_ref", "qr_token", "from_city", "to_city",
	"date_key", "departure_time", "arrival_time", "passenger", "price", "currency",
	"is_used", "used_at", "created_at"}

var bookingCols = []string{"id", "booking_ref", "route_id", "from_city", "to_city", "date_key",
	"departure_time", "arrival_time", "first_name", "last_name", "email", "phone",
	"subtotal", "fees", "discount", "student_discount", "total", "currency", "promo_code",
	"status", "payment_intent_id", "stripe_customer_id", "created_at", "updated_at"}

func ticketNow() time.Time {
	return time.Date(2024, 12, 20, 9, 30, 0, 0, time.UTC)
}

func ticketSvc(t *testing.T) (TicketService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return TicketService{
		TicketRepo:  repositories.TicketRepository{DB: db},
		BookingRepo: repositories.BookingRepository{DB: db},
		Now:         ticketNow,
	}, mock
}

func ticketRow(used bool, usedAt interface{}, dateKey string) *sqlmock.Rows {
	return sqlmock.NewRows(ticketCols).AddRow(
		7, "TK-abc", "BK-TEST123456", "tok-123", "Chisinau", "Brasov",
		dateKey, "08:00", "16:30", "Ana Pop", 115.5, "RON",
		used, usedAt, ticketNow())
}

func bookingRowWithStatus(status string) *sqlmock.Rows {
	return sqlmock.NewRows(bookingCols).AddRow(
		3, "BK-TEST123456", 1, "Chisinau", "Brasov", "2024-12-20",
		"08:00", "16:30", "Ana", "Pop", "ana@example.com", "+40700000000",
		125.0, 3.0, 12.5, 0.0, 115.5, "RON", "WELCOME10",
		status, "", "", ticketNow(), ticketNow())
}

func TestIssue_RequiresPaidBooking(t *testing.T) {
	svc, _ := ticketSvc(t)

	_, err := svc.Issue(models.Booking{Ref: "BK-TEST123456", Status: models.BookingPending})
	if domain.BusinessReason(err) != domain.ReasonNotConfirmed {
		t.Fatalf("expected booking_not_confirmed, got %v", err)
	}
}

func TestIssue_ExistingTicketReturnedUntouched(t *testing.T) {
	svc, mock := ticketSvc(t)

	mock.ExpectQuery("SELECT (.+) FROM tickets").WithArgs("BK-TEST123456").
		WillReturnRows(ticketRow(false, nil, "2024-12-20"))

	got, err := svc.Issue(models.Booking{Ref: "BK-TEST123456", Status: models.BookingPaid})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TicketID != "TK-abc" {
		t.Fatalf("ticket = %q, want the existing TK-abc", got.TicketID)
	}
	// No INSERT may run for a booking that already has a ticket.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected statements ran: %v", err)
	}
}

func TestIssue_FirstTime(t *testing.T) {
	svc, mock := ticketSvc(t)

	mock.ExpectQuery("SELECT (.+) FROM tickets").WithArgs("BK-TEST123456").
		WillReturnRows(sqlmock.NewRows(ticketCols))
	mock.ExpectExec("INSERT INTO tickets").
		WillReturnResult(sqlmock.NewResult(11, 1))

	b := models.Booking{
		Ref: "BK-TEST123456", Status: models.BookingPaid,
		From: "Chisinau", To: "Brasov", DateKey: "2024-12-20",
		FirstName: "Ana", LastName: "Pop", Total: 115.5, Currency: "RON",
	}
	got, err := svc.Issue(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != 11 {
		t.Fatalf("id = %d, want 11", got.ID)
	}
	if got.Passenger != "Ana Pop" {
		t.Fatalf("passenger = %q", got.Passenger)
	}
	if len(got.QRToken) != 64 {
		t.Fatalf("qr token length = %d, want 64", len(got.QRToken))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestIssue_LostRaceReturnsWinner(t *testing.T) {
	svc, mock := ticketSvc(t)

	mock.ExpectQuery("SELECT (.+) FROM tickets").WithArgs("BK-TEST123456").
		WillReturnRows(sqlmock.NewRows(ticketCols))
	mock.ExpectExec("INSERT INTO tickets").
		WillReturnError(errDuplicateEntry{})
	mock.ExpectQuery("SELECT (.+) FROM tickets").WithArgs("BK-TEST123456").
		WillReturnRows(ticketRow(false, nil, "2024-12-20"))

	got, err := svc.Issue(models.Booking{Ref: "BK-TEST123456", Status: models.BookingPaid})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TicketID != "TK-abc" {
		t.Fatalf("ticket = %q, want the winner's TK-abc", got.TicketID)
	}
}

type errDuplicateEntry struct{}

func (errDuplicateEntry) Error() string { return "Error 1062: Duplicate entry 'BK-TEST123456'" }

func TestValidate_FreshTicket(t *testing.T) {
	svc, mock := ticketSvc(t)

	mock.ExpectQuery("SELECT (.+) FROM tickets").WithArgs("tok-123").
		WillReturnRows(ticketRow(false, nil, "2024-12-20"))
	mock.ExpectQuery("SELECT (.+) FROM bookings").WithArgs("BK-TEST123456").
		WillReturnRows(bookingRowWithStatus(models.BookingPaid))

	st, err := svc.Validate("tok-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !st.Valid {
		t.Fatalf("status = %+v, want valid", st)
	}
	if st.Ticket == nil || st.Ticket.TicketID != "TK-abc" {
		t.Fatal("ticket detail missing from status")
	}
}

func TestValidate_DoesNotConsume(t *testing.T) {
	svc, mock := ticketSvc(t)

	for i := 0; i < 3; i++ {
		mock.ExpectQuery("SELECT (.+) FROM tickets").WithArgs("tok-123").
			WillReturnRows(ticketRow(false, nil, "2024-12-20"))
		mock.ExpectQuery("SELECT (.+) FROM bookings").WithArgs("BK-TEST123456").
			WillReturnRows(bookingRowWithStatus(models.BookingPaid))
	}

	for i := 0; i < 3; i++ {
		st, err := svc.Validate("tok-123")
		if err != nil || !st.Valid {
			t.Fatalf("call %d: status=%+v err=%v", i, st, err)
		}
	}
	// Any UPDATE on the ticket would be an unexpected statement.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("validate wrote to the store: %v", err)
	}
}

func TestValidate_AlreadyUsedReportsOriginalTime(t *testing.T) {
	svc, mock := ticketSvc(t)

	usedAt := time.Date(2024, 12, 20, 7, 45, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM tickets").WithArgs("tok-123").
		WillReturnRows(ticketRow(true, usedAt, "2024-12-20"))
	mock.ExpectQuery("SELECT (.+) FROM bookings").WithArgs("BK-TEST123456").
		WillReturnRows(bookingRowWithStatus(models.BookingPaid))

	st, err := svc.Validate("tok-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Valid || st.Reason != domain.ReasonTicketUsed {
		t.Fatalf("status = %+v, want already-used", st)
	}
	if st.UsedAt == nil || !st.UsedAt.Equal(usedAt) {
		t.Fatalf("used_at = %v, want the original %v", st.UsedAt, usedAt)
	}
}

func TestValidate_ExpiredAfterTravelDay(t *testing.T) {
	svc, mock := ticketSvc(t)

	mock.ExpectQuery("SELECT (.+) FROM tickets").WithArgs("tok-123").
		WillReturnRows(ticketRow(false, nil, "2024-12-19"))
	mock.ExpectQuery("SELECT (.+) FROM bookings").WithArgs("BK-TEST123456").
		WillReturnRows(bookingRowWithStatus(models.BookingPaid))

	st, err := svc.Validate("tok-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Valid || st.Reason != domain.ReasonTicketExpired {
		t.Fatalf("status = %+v, want expired", st)
	}
}

func TestValidate_BookingNotPaid(t *testing.T) {
	svc, mock := ticketSvc(t)

	mock.ExpectQuery("SELECT (.+) FROM tickets").WithArgs("tok-123").
		WillReturnRows(ticketRow(false, nil, "2024-12-20"))
	mock.ExpectQuery("SELECT (.+) FROM bookings").WithArgs("BK-TEST123456").
		WillReturnRows(bookingRowWithStatus(models.BookingRefunded))

	_, err := svc.Validate("tok-123")
	if domain.BusinessReason(err) != domain.ReasonNotConfirmed {
		t.Fatalf("expected booking_not_confirmed, got %v", err)
	}
}

func TestUse_OneWayLatch(t *testing.T) {
	svc, mock := ticketSvc(t)

	mock.ExpectQuery("SELECT (.+) FROM tickets").WithArgs("tok-123").
		WillReturnRows(ticketRow(false, nil, "2024-12-20"))
	mock.ExpectExec("UPDATE tickets SET is_used=1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := svc.Use("tok-123")
	if err != nil {
		t.Fatalf("first use failed: %v", err)
	}
	if !got.IsUsed || got.UsedAt == nil || !got.UsedAt.Equal(ticketNow()) {
		t.Fatalf("used ticket = %+v", got)
	}

	// Second attempt: the conditional update matches nothing.
	mock.ExpectQuery("SELECT (.+) FROM tickets").WithArgs("tok-123").
		WillReturnRows(ticketRow(true, ticketNow(), "2024-12-20"))
	mock.ExpectExec("UPDATE tickets SET is_used=1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err = svc.Use("tok-123")
	if domain.BusinessReason(err) != domain.ReasonTicketUsed {
		t.Fatalf("expected ticket_already_used, got %v", err)
	}
}

func TestUse_UnknownToken(t *testing.T) {
	svc, mock := ticketSvc(t)

	mock.ExpectQuery("SELECT (.+) FROM tickets").WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(ticketCols))

	_, err := svc.Use("nope")
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
