package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v3"
)

// NewBookingRef returns a compact, human-shareable booking reference.
func NewBookingRef() string {
	return "BK-" + strings.ToUpper(shortuuid.New()[:10])
}

// NewTicketID returns a globally unique ticket identifier.
func NewTicketID() string {
	return "TK-" + uuid.NewString()
}

// NewQRToken returns an unguessable bearer token used as the sole
// redemption credential for a ticket.
func NewQRToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process cannot safely mint
		// credentials at all.
		panic("qr token entropy unavailable: " + err.Error())
	}
	return hex.EncodeToString(buf)
}
