package utils

import (
	"strings"
	"testing"
)

func TestNewBookingRefShape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		ref := NewBookingRef()
		if !strings.HasPrefix(ref, "BK-") || len(ref) != 13 {
			t.Fatalf("unexpected ref shape: %q", ref)
		}
		if seen[ref] {
			t.Fatalf("duplicate ref generated: %q", ref)
		}
		seen[ref] = true
	}
}

func TestNewQRTokenEntropy(t *testing.T) {
	a, b := NewQRToken(), NewQRToken()
	if len(a) != 64 || len(b) != 64 {
		t.Fatalf("token length %d/%d, want 64 hex chars", len(a), len(b))
	}
	if a == b {
		t.Fatal("two tokens collided")
	}
}
