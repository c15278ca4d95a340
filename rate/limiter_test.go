package rate

import (
	"testing"
	"time"
)

func TestLimiter(t *testing.T) {
	burst := 1

	interval := 10 * time.Millisecond
	r := NewLimiter(burst, interval, time.Hour)
	defer r.Stop()

	tooshort := 1 * time.Millisecond

	client := "198.51.100.7"
	expected := []bool{true, false, true, true, false, false}
	waits := []time.Duration{tooshort, interval, interval, tooshort, tooshort, tooshort}
	for i, exp := range expected {
		if got := r.Allow(client); got != exp {
			t.Fatalf("iteration %d: expected %v, but got %v", i, exp, got)
		}
		time.Sleep(waits[i])
	}
}

func TestLimiterWithBurst(t *testing.T) {
	client := "198.51.100.7"
	burst := 10

	interval := 100 * time.Millisecond

	tooshort := 10 * time.Millisecond

	shortest := 1 * time.Millisecond

	expected := []bool{true, true, true, true, true, true, true, true, true, true}
	waits := []time.Duration{0, 0, 0, 0, 0, 0, 0, 0, 0, 0}

	expected = append(expected, false, true, true, false, false, false)
	waits = append(waits, interval, interval, tooshort, tooshort, shortest, shortest)

	rr := NewLimiter(burst, interval, time.Hour)
	defer rr.Stop()
	for i, exp := range expected {
		if got := rr.Allow(client); got != exp {
			t.Fatalf("iteration %d: expected %v, but got %v", i, exp, got)
		}
		time.Sleep(waits[i])
	}
}

func TestLimiterSeparatesClients(t *testing.T) {
	r := NewLimiter(1, time.Hour, time.Hour)
	defer r.Stop()

	if !r.Allow("a") {
		t.Fatal("first request of a should pass")
	}
	if r.Allow("a") {
		t.Fatal("second request of a should be limited")
	}
	if !r.Allow("b") {
		t.Fatal("b has its own bucket")
	}
}
