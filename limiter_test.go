package rango

import (
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	l := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("expected attempt %d to be allowed", i+1)
		}
	}
	if l.Allow("1.2.3.4") {
		t.Error("expected fourth attempt to be blocked")
	}
}

func TestRateLimiterPerKey(t *testing.T) {
	l := NewRateLimiter(1, time.Minute)

	if !l.Allow("1.2.3.4") {
		t.Fatal("expected first attempt to be allowed")
	}
	if l.Allow("1.2.3.4") {
		t.Error("expected second attempt from same key to be blocked")
	}
	if !l.Allow("5.6.7.8") {
		t.Error("expected attempt from different key to be allowed")
	}
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	l := NewRateLimiter(1, 50*time.Millisecond)

	if !l.Allow("1.2.3.4") {
		t.Fatal("expected first attempt to be allowed")
	}
	if l.Allow("1.2.3.4") {
		t.Error("expected second attempt to be blocked")
	}

	time.Sleep(60 * time.Millisecond)

	if !l.Allow("1.2.3.4") {
		t.Error("expected attempt after window to be allowed")
	}
}

func TestRateLimiterCheckDoesNotRecord(t *testing.T) {
	l := NewRateLimiter(2, time.Minute)

	for i := 0; i < 5; i++ {
		if !l.Check("1.2.3.4") {
			t.Fatalf("Check %d blocked despite no recorded hits", i+1)
		}
	}

	l.Record("1.2.3.4")
	l.Record("1.2.3.4")

	if l.Check("1.2.3.4") {
		t.Error("expected Check to block after max recorded hits")
	}
}
