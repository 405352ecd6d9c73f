package services

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"coachtickets/internal/domain/models"
	"coachtickets/internal/utils"
)

const resendAPI = "https://api.resend.com/emails"

type mailAttachment struct {
	Filename string `json:"filename"`
	// Resend expects base64-encoded content
	Content string `json:"content"`
}

type resendEmail struct {
	From        string           `json:"from"`
	To          string           `json:"to"`
	Subject     string           `json:"subject"`
	Html        string           `json:"html"`
	Attachments []mailAttachment `json:"attachments,omitempty"`
}

// MailService delivers rendered tickets via the Resend HTTP API. With
// no API key configured it prints a mock summary instead of sending,
// which keeps local environments working.
type MailService struct {
	APIKey    string
	From      string
	Client    *http.Client
	RequestID string
}

func (s MailService) client() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	return &http.Client{Timeout: 15 * time.Second}
}

// SendTicket emails the e-ticket PDF to the passenger.
func (s MailService) SendTicket(toEmail string, t models.Ticket, pdfBytes []byte, filename string) error {
	if s.APIKey == "" {
		utils.LogEvent(s.RequestID, "mail", "send_ticket", "RESEND_API_KEY missing, mock delivery to "+toEmail)
		return nil
	}

	html := fmt.Sprintf(`
		<h2>Your coach ticket is ready</h2>
		<p>Booking <b>%s</b> is confirmed.</p>
		<p>%s &rarr; %s on %s, departure %s.</p>
		<p>Your e-ticket PDF is attached. Present the QR code at boarding.</p>
	`, t.BookingRef, t.From, t.To, t.DateKey, t.DepartureTime)

	payload := resendEmail{
		From:    s.From,
		To:      toEmail,
		Subject: fmt.Sprintf("Your e-ticket [%s]", t.BookingRef),
		Html:    html,
		Attachments: []mailAttachment{{
			Filename: filename,
			Content:  base64.StdEncoding.EncodeToString(pdfBytes),
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, resendAPI, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client().Do(req)
	if err != nil {
		return fmt.Errorf("resend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("resend API error: %s", resp.Status)
	}

	utils.LogEvent(s.RequestID, "mail", "send_ticket", "delivered booking_ref="+t.BookingRef)
	return nil
}
