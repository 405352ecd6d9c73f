package services

import (
	"testing"

	"coachtickets/internal/domain"
	"coachtickets/internal/domain/models"
	"coachtickets/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func routeAdminSvc(t *testing.T) (RouteAdminService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return RouteAdminService{RouteRepo: repositories.RouteRepository{DB: db}}, mock
}

func expectRouteLookup(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("SELECT (.+) FROM routes").WithArgs(int64(1)).
		WillReturnRows(routeRow(true))
	mock.ExpectQuery("SELECT date_key FROM route_closed_dates").WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"date_key"}))
}

func TestAddClosedDate_RollsAfternoonTimestamp(t *testing.T) {
	svc, mock := routeAdminSvc(t)

	expectRouteLookup(mock)
	// 14:00 UTC on the 25th means the next travel day.
	mock.ExpectExec("INSERT IGNORE INTO route_closed_dates").
		WithArgs(int64(1), "2024-12-26").
		WillReturnResult(sqlmock.NewResult(1, 1))

	key, err := svc.AddClosedDate(1, "2024-12-25T14:00:00Z")
	if err != nil {
		t.Fatalf("add closed date failed: %v", err)
	}
	if key != "2024-12-26" {
		t.Fatalf("stored key = %q, want the rolled 2024-12-26", key)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAddClosedDate_BareDateStaysPut(t *testing.T) {
	svc, mock := routeAdminSvc(t)

	expectRouteLookup(mock)
	mock.ExpectExec("INSERT IGNORE INTO route_closed_dates").
		WithArgs(int64(1), "2024-12-25").
		WillReturnResult(sqlmock.NewResult(1, 1))

	key, err := svc.AddClosedDate(1, "2024-12-25")
	if err != nil {
		t.Fatalf("add closed date failed: %v", err)
	}
	if key != "2024-12-25" {
		t.Fatalf("stored key = %q", key)
	}
}

func TestRemoveClosedDate_NormalizesLikeAdd(t *testing.T) {
	svc, mock := routeAdminSvc(t)

	expectRouteLookup(mock)
	// The timestamp form removes the key its normalization stored.
	mock.ExpectExec("DELETE FROM route_closed_dates").
		WithArgs(int64(1), "2024-12-26").
		WillReturnResult(sqlmock.NewResult(0, 1))

	key, err := svc.RemoveClosedDate(1, "2024-12-25T14:00:00Z")
	if err != nil {
		t.Fatalf("remove closed date failed: %v", err)
	}
	if key != "2024-12-26" {
		t.Fatalf("removed key = %q, want 2024-12-26", key)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAddClosedDate_UnknownRoute(t *testing.T) {
	svc, mock := routeAdminSvc(t)

	mock.ExpectQuery("SELECT (.+) FROM routes").WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(routeCols))

	_, err := svc.AddClosedDate(9, "2024-12-25")
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRouteValidate_Currency(t *testing.T) {
	svc, _ := routeAdminSvc(t)

	rt := models.Route{From: "Chisinau", To: "Brasov", BasePrice: 125, Currency: "USD"}
	if _, err := svc.Create(rt); !domain.IsValidation(err) {
		t.Fatalf("USD must be rejected, got %v", err)
	}
}

func TestListRoutes(t *testing.T) {
	svc, mock := routeAdminSvc(t)

	mock.ExpectQuery("SELECT (.+) FROM routes").
		WillReturnRows(routeRow(true))
	mock.ExpectQuery("SELECT date_key FROM route_closed_dates").WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"date_key"}).AddRow("2024-12-26"))

	routes, err := svc.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(routes) != 1 || routes[0].From != "Chisinau" {
		t.Fatalf("routes = %#v", routes)
	}
	if len(routes[0].ClosedDates) != 1 || routes[0].ClosedDates[0] != "2024-12-26" {
		t.Fatalf("closed dates = %#v", routes[0].ClosedDates)
	}
}
