package handlers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coachtickets/internal/payments"
	"coachtickets/internal/repositories"
	"coachtickets/internal/services"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v76"
)

const testWebhookSecret = "whsec_test"

func signWebhookPayload(payload []byte) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func webhookHandler(t *testing.T) (Handler, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	stripeClient, err := payments.NewStripeClient("sk_test_x", testWebhookSecret)
	if err != nil {
		t.Fatalf("stripe client init error: %v", err)
	}

	return Handler{
		Bookings: services.BookingService{
			BookingRepo: repositories.BookingRepository{DB: db},
		},
		Stripe: stripeClient,
	}, mock
}

func postWebhook(h Handler, payload []byte, signature string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/payments/webhook", bytes.NewReader(payload))
	c.Request.Header.Set("Stripe-Signature", signature)
	h.Webhook(c)
	return w
}

func successEventPayload() []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_1",
		"api_version": %q,
		"type": "payment_intent.succeeded",
		"data": {
			"object": {
				"id": "pi_1",
				"amount_received": 11550,
				"currency": "ron",
				"metadata": {"booking_id": "BK-TEST123456"}
			}
		}
	}`, stripe.APIVersion))
}

func TestWebhook_BadSignatureRejected(t *testing.T) {
	h, _ := webhookHandler(t)

	w := postWebhook(h, successEventPayload(), "t=1,v1=deadbeef")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for a bad signature", w.Code)
	}
}

func TestWebhook_ProcessingFailureStillAcknowledged(t *testing.T) {
	h, mock := webhookHandler(t)

	// The referenced booking does not exist; confirmation fails, the
	// delivery is acknowledged anyway.
	mock.ExpectQuery("SELECT (.+) FROM bookings").WithArgs("BK-TEST123456").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	payload := successEventPayload()
	w := postWebhook(h, payload, signWebhookPayload(payload))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 after a verified signature", w.Code)
	}
}

func TestWebhook_UnrelatedEventIgnored(t *testing.T) {
	h, mock := webhookHandler(t)

	payload := []byte(fmt.Sprintf(`{
		"id": "evt_2",
		"api_version": %q,
		"type": "customer.created",
		"data": {"object": {"id": "cus_1"}}
	}`, stripe.APIVersion))

	w := postWebhook(h, payload, signWebhookPayload(payload))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for an ignored event type", w.Code)
	}
	// No booking statements may run for an unrelated event.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected statements ran: %v", err)
	}
}
