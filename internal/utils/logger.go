package utils

import (
	"log"
	"strings"
)

// LogEvent writes one line per domain event. The module tag groups
// lines by subsystem (booking, ticket, webhook, ...) and request_id
// ties them to the access log. Messages carry identifiers only, never
// payload bodies or bearer tokens.
func LogEvent(requestID, module, action, message string) {
	log.Printf("[%s] action=%s request_id=%s msg=%s",
		strings.ToUpper(module), action, strings.TrimSpace(requestID), message)
}
