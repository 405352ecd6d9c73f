package utils

import "testing"

func TestRound2HalfAwayFromZero(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{1.875, 1.88},
		{1.874, 1.87},
		{12.5, 12.5},
		{0.005, 0.01},
		{-1.875, -1.88},
		{114.375, 114.38},
	}
	for _, tc := range cases {
		if got := Round2(tc.in); got != tc.want {
			t.Fatalf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestToMinorUnits(t *testing.T) {
	if got := ToMinorUnits(115.50); got != 11550 {
		t.Fatalf("minor units = %d, want 11550", got)
	}
	if got := ToMinorUnits(0.01); got != 1 {
		t.Fatalf("minor units = %d, want 1", got)
	}
}

func TestFormatMoney(t *testing.T) {
	if got := FormatMoney(115.5); got != "115.50" {
		t.Fatalf("formatted = %s, want 115.50", got)
	}
}
