package numerator

import (
	"strings"
	"testing"
	"time"
)

func TestNext_Format(t *testing.T) {
	svc := New(DefaultConfig("VND"))
	svc.now = func() time.Time {
		return time.Date(2026, 9, 1, 14, 32, 5, 0, time.UTC)
	}

	num, err := svc.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(num, "VND20260901143205") {
		t.Errorf("expected prefix VND20260901143205, got %s", num)
	}
	if len(num) != len("VND")+14+4 {
		t.Errorf("expected length %d, got %d (%s)", len("VND")+14+4, len(num), num)
	}

	suffix := num[len(num)-4:]
	for _, c := range suffix {
		if !strings.ContainsRune(suffixAlphabet, c) {
			t.Errorf("suffix character %q outside alphabet in %s", c, num)
		}
	}
}

func TestNext_UTCNormalization(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	svc := New(DefaultConfig("VND"))
	svc.now = func() time.Time {
		return time.Date(2026, 9, 1, 21, 0, 0, 0, loc)
	}

	num, err := svc.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 21:00 BRT is 00:00 UTC next day.
	if !strings.HasPrefix(num, "VND20260902000000") {
		t.Errorf("expected UTC timestamp 20260902000000, got %s", num)
	}
}

func TestNext_SuffixVaries(t *testing.T) {
	svc := New(DefaultConfig("ORD"))
	fixed := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		num, err := svc.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		seen[num] = true
	}

	// 50 draws from a 36^4 space virtually never all collide.
	if len(seen) < 2 {
		t.Errorf("expected varying suffixes within the same second, got %d distinct", len(seen))
	}
}

func TestNew_DefaultsSuffixLen(t *testing.T) {
	svc := New(Config{Prefix: "X"})

	num, err := svc.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(num) != 1+14+4 {
		t.Errorf("expected default suffix length 4, got number %s", num)
	}
}
