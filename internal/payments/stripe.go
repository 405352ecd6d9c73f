// Package payments wraps the Stripe SDK behind the provider interface
// the booking lifecycle depends on. The client is constructed once at
// startup with its credential validated up front; nothing here is a
// package-level global.
package payments

import (
	"encoding/json"
	"fmt"
	"strings"

	"coachtickets/internal/services"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// ephemeralKeyAPIVersion must match the mobile SDK version the payer's
// client runs.
const ephemeralKeyAPIVersion = "2023-10-16"

type StripeClient struct {
	api           *client.API
	webhookSecret string
}

// NewStripeClient fails fast when the secret key is absent so a
// misconfigured process never reaches serving state.
func NewStripeClient(secretKey, webhookSecret string) (*StripeClient, error) {
	if strings.TrimSpace(secretKey) == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY is required")
	}
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeClient{api: api, webhookSecret: webhookSecret}, nil
}

func (c *StripeClient) EnsureCustomer(name, email, phone string) (string, error) {
	params := &stripe.CustomerParams{
		Name:  stripe.String(name),
		Email: stripe.String(email),
	}
	if phone != "" {
		params.Phone = stripe.String(phone)
	}
	cust, err := c.api.Customers.New(params)
	if err != nil {
		return "", err
	}
	return cust.ID, nil
}

func (c *StripeClient) CreatePaymentIntent(amountMinor int64, currency, customerID, bookingRef string) (services.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountMinor),
		Currency: stripe.String(strings.ToLower(currency)),
		Customer: stripe.String(customerID),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("booking_id", bookingRef)

	pi, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return services.PaymentIntent{}, err
	}
	return services.PaymentIntent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func (c *StripeClient) CreateEphemeralKey(customerID string) (string, error) {
	key, err := c.api.EphemeralKeys.New(&stripe.EphemeralKeyParams{
		Customer:      stripe.String(customerID),
		StripeVersion: stripe.String(ephemeralKeyAPIVersion),
	})
	if err != nil {
		return "", err
	}
	return key.Secret, nil
}

// WebhookEvent is the distilled payment-outcome notification.
type WebhookEvent struct {
	Type        string // raw Stripe event type
	Succeeded   bool
	Failed      bool
	IntentID    string
	BookingRef  string
	AmountMinor int64
	Currency    string
}

// ParseWebhook authenticates a webhook delivery against its signature
// and extracts the fields the lifecycle manager needs. Events other
// than payment outcomes come back with Succeeded and Failed both
// false; callers acknowledge and ignore them.
func (c *StripeClient) ParseWebhook(payload []byte, signatureHeader string) (WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signatureHeader, c.webhookSecret)
	if err != nil {
		return WebhookEvent{}, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	out := WebhookEvent{Type: string(event.Type)}
	switch event.Type {
	case "payment_intent.succeeded":
		out.Succeeded = true
	case "payment_intent.payment_failed":
		out.Failed = true
	default:
		return out, nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return WebhookEvent{}, fmt.Errorf("webhook payload decode failed: %w", err)
	}

	out.IntentID = pi.ID
	out.BookingRef = pi.Metadata["booking_id"]
	out.Currency = strings.ToUpper(string(pi.Currency))
	out.AmountMinor = pi.AmountReceived
	if out.AmountMinor == 0 {
		out.AmountMinor = pi.Amount
	}
	return out, nil
}
