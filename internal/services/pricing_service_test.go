package services

import (
	"testing"

	"coachtickets/internal/domain"
	"coachtickets/internal/domain/models"
	"coachtickets/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestQuote_FeeFloor(t *testing.T) {
	var svc PricingService

	// 125 * 1.5% = 1.875 → 1.88, below the floor of 3.
	q := svc.Quote(models.Route{BasePrice: 125, Currency: "RON"}, "", 0)
	if q.Fees != 3 {
		t.Fatalf("fees = %v, want floor 3", q.Fees)
	}
	if q.Total != 128 {
		t.Fatalf("total = %v, want 128", q.Total)
	}

	// 300 * 1.5% = 4.50, above the floor.
	q = svc.Quote(models.Route{BasePrice: 300, Currency: "RON"}, "", 0)
	if q.Fees != 4.5 {
		t.Fatalf("fees = %v, want 4.5", q.Fees)
	}
}

func TestQuote_ChisinauBrasovScenario(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	from := promoNow().AddDate(0, -1, 0)
	until := promoNow().AddDate(0, 1, 0)
	mock.ExpectQuery("SELECT (.+) FROM promo_codes").WithArgs("WELCOME10").
		WillReturnRows(sqlmock.NewRows(promoCols).
			AddRow(1, "WELCOME10", 10.0, 0.0, 20.0, from, until, 0, 0, true))

	svc := PricingService{Promo: PromoService{
		PromoRepo: repositories.PromoRepository{DB: db},
		Now:       promoNow,
	}}

	route := models.Route{From: "Chisinau", To: "Brasov", BasePrice: 125, Currency: "RON"}
	q := svc.Quote(route, "WELCOME10", 0)

	if q.Subtotal != 125 {
		t.Fatalf("subtotal = %v", q.Subtotal)
	}
	if q.Fees != 3 {
		t.Fatalf("fees = %v, want 3 (floor over 1.88)", q.Fees)
	}
	if q.Discount != 12.5 {
		t.Fatalf("discount = %v, want 12.5", q.Discount)
	}
	if q.StudentDiscount != 0 {
		t.Fatalf("student discount = %v, want 0", q.StudentDiscount)
	}
	if q.Total != 115.5 {
		t.Fatalf("total = %v, want 115.50", q.Total)
	}
	if q.PromoCode != "WELCOME10" {
		t.Fatalf("applied code = %q", q.PromoCode)
	}
}

func TestQuote_StudentDiscountClamped(t *testing.T) {
	var svc PricingService
	route := models.Route{BasePrice: 200, Currency: "RON", StudentDiscount: 10}

	q := svc.Quote(route, "", 50)
	if q.StudentDiscount != 10 {
		t.Fatalf("student discount = %v, want clamp to 10", q.StudentDiscount)
	}

	q = svc.Quote(route, "", 7)
	if q.StudentDiscount != 7 {
		t.Fatalf("student discount = %v, want requested 7", q.StudentDiscount)
	}
}

func TestQuote_StudentDiscountZeroWhenRouteHasNone(t *testing.T) {
	var svc PricingService
	q := svc.Quote(models.Route{BasePrice: 200, Currency: "RON"}, "", 50)
	if q.StudentDiscount != 0 {
		t.Fatalf("student discount = %v, want 0 for unconfigured route", q.StudentDiscount)
	}
}

func TestQuote_TotalNeverNegative(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	from := promoNow().AddDate(0, -1, 0)
	until := promoNow().AddDate(0, 1, 0)
	mock.ExpectQuery("SELECT (.+) FROM promo_codes").WithArgs("HUGE").
		WillReturnRows(sqlmock.NewRows(promoCols).
			AddRow(1, "HUGE", 0.0, 500.0, 0.0, from, until, 0, 0, true))

	svc := PricingService{Promo: PromoService{PromoRepo: repositories.PromoRepository{DB: db}, Now: promoNow}}
	q := svc.Quote(models.Route{BasePrice: 50, Currency: "RON", StudentDiscount: 100}, "HUGE", 100)

	if q.Total != 0 {
		t.Fatalf("total = %v, want 0 (excess discount absorbed)", q.Total)
	}
}

func TestQuote_InvalidPromoContributesZero(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM promo_codes").WithArgs("NOPE").
		WillReturnRows(sqlmock.NewRows(promoCols))

	svc := PricingService{Promo: PromoService{PromoRepo: repositories.PromoRepository{DB: db}, Now: promoNow}}
	q := svc.Quote(models.Route{BasePrice: 200, Currency: "RON"}, "nope", 0)

	if q.Discount != 0 {
		t.Fatalf("discount = %v, want 0 for invalid code", q.Discount)
	}
	if q.PromoCode != "" {
		t.Fatalf("invalid code must not be recorded as applied, got %q", q.PromoCode)
	}
	if q.PromoReason != domain.ReasonPromoInvalid {
		t.Fatalf("promo reason = %q", q.PromoReason)
	}
	if q.Total != 203 {
		t.Fatalf("total = %v, want 203", q.Total)
	}
}
