package utils

import (
	"strings"
	"time"

	"coachtickets/internal/domain"
)

const layoutDateKey = "2006-01-02"

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// NormalizeTravelDate canonicalizes a client-supplied date into the
// travel-day identity: a UTC midnight instant.
//
// Accepts a bare YYYY-MM-DD (taken as midnight UTC) or a full RFC3339
// timestamp. When the parsed instant's UTC hour is 12 or later the
// date rolls forward one calendar day: clients whose local midnight
// already crossed UTC noon mean the next travel day. The same function
// runs at search, booking creation and closed-date mutation so
// date-keys compare equal across entry points.
func NormalizeTravelDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, domain.ValidationError{Field: "date", Msg: "date is required"}
	}

	t, err := time.Parse(layoutDateKey, raw)
	if err != nil {
		t, err = time.Parse(time.RFC3339, raw)
	}
	if err != nil {
		return time.Time{}, domain.ValidationError{Field: "date", Msg: "invalid date", Err: err}
	}

	t = t.UTC()
	if t.Hour() >= 12 {
		t = t.AddDate(0, 0, 1)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// DateKey derives the YYYY-MM-DD string form of a travel day, used for
// closed-date membership checks.
func DateKey(t time.Time) string {
	return t.UTC().Format(layoutDateKey)
}

// WeekdayUTC returns the travel day's weekday with 0=Sunday, matching
// the encoding of Route.AvailableDays.
func WeekdayUTC(t time.Time) int {
	return int(t.UTC().Weekday())
}

// WeekdayNames maps AvailableDays entries to human-readable names for
// rejection details. Unknown values are skipped.
func WeekdayNames(days []int) []string {
	names := []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	out := make([]string, 0, len(days))
	for _, d := range days {
		if d >= 0 && d < len(names) {
			out = append(out, names[d])
		}
	}
	return out
}
