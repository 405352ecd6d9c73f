package utils

import (
	"testing"
	"time"

	"coachtickets/internal/domain"
)

func TestNormalizeTravelDate_BareDate(t *testing.T) {
	day, err := NormalizeTravelDate("2024-12-25")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := DateKey(day); got != "2024-12-25" {
		t.Fatalf("date key = %s, want 2024-12-25", got)
	}
	if day.Hour() != 0 || day.Location() != time.UTC {
		t.Fatalf("travel day not truncated to UTC midnight: %v", day)
	}
}

func TestNormalizeTravelDate_AfternoonRollsForward(t *testing.T) {
	cases := map[string]string{
		"2024-12-25T14:00:00Z": "2024-12-26",
		"2024-12-25T23:00:00Z": "2024-12-26",
		"2024-12-25T12:00:00Z": "2024-12-26",
		"2024-12-25T11:59:59Z": "2024-12-25",
		"2024-12-25T09:30:00Z": "2024-12-25",
	}
	for raw, want := range cases {
		day, err := NormalizeTravelDate(raw)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", raw, err)
		}
		if got := DateKey(day); got != want {
			t.Fatalf("%s: date key = %s, want %s", raw, got, want)
		}
	}
}

func TestNormalizeTravelDate_RollCrossesMonth(t *testing.T) {
	day, err := NormalizeTravelDate("2024-01-31T18:00:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := DateKey(day); got != "2024-02-01" {
		t.Fatalf("date key = %s, want 2024-02-01", got)
	}
}

func TestNormalizeTravelDate_Invalid(t *testing.T) {
	for _, raw := range []string{"", "   ", "25-12-2024", "not-a-date"} {
		if _, err := NormalizeTravelDate(raw); !domain.IsValidation(err) {
			t.Fatalf("%q: expected validation error, got %v", raw, err)
		}
	}
}

func TestWeekdayUTC(t *testing.T) {
	// 2024-12-25 was a Wednesday.
	day, err := NormalizeTravelDate("2024-12-25")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := WeekdayUTC(day); got != 3 {
		t.Fatalf("weekday = %d, want 3", got)
	}
}

func TestWeekdayNames(t *testing.T) {
	got := WeekdayNames([]int{0, 6, 9})
	if len(got) != 2 || got[0] != "Sunday" || got[1] != "Saturday" {
		t.Fatalf("unexpected names: %v", got)
	}
}
