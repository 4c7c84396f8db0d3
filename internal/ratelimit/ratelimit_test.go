package ratelimit

import (
	"testing"
	"time"
)

func TestKeyedRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		rps      float64
		burst    int
		calls    int
		wantPass int
	}{
		{name: "burst allows initial requests", rps: 1, burst: 3, calls: 3, wantPass: 3},
		{name: "exceeding burst blocks", rps: 1, burst: 2, calls: 5, wantPass: 2},
		{name: "per-minute budget", rps: PerMinute(60), burst: 1, calls: 4, wantPass: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			krl := New(tt.rps, tt.burst, time.Minute)
			defer krl.Stop()

			passed := 0
			for range tt.calls {
				if krl.Allow("203.0.113.7") {
					passed++
				}
			}

			if passed != tt.wantPass {
				t.Errorf("passed = %d, want %d", passed, tt.wantPass)
			}
		})
	}
}

func TestKeyedRateLimiter_IndependentKeys(t *testing.T) {
	krl := New(1, 1, time.Minute)
	defer krl.Stop()

	if !krl.Allow("a") {
		t.Fatal("first request for key a should pass")
	}
	if krl.Allow("a") {
		t.Error("second request for key a should be limited")
	}
	if !krl.Allow("b") {
		t.Error("key b should have its own bucket")
	}
	if got := krl.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}

func TestKeyedRateLimiter_Sweep(t *testing.T) {
	krl := New(1, 1, time.Minute)
	defer krl.Stop()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	krl.now = func() time.Time { return now }

	krl.Allow("stale")
	now = now.Add(2 * time.Minute)
	krl.Allow("fresh")

	if removed := krl.Sweep(); removed != 1 {
		t.Errorf("Sweep() removed %d, want 1", removed)
	}
	if got := krl.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}

func TestKeyedRateLimiter_StopIdempotent(t *testing.T) {
	krl := New(1, 1, 0)
	krl.Stop()
	krl.Stop()
	if krl.idleTTL != DefaultIdleTTL {
		t.Errorf("idleTTL = %v, want %v", krl.idleTTL, DefaultIdleTTL)
	}
}
