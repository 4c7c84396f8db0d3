// Package ratelimit provides a per-key token bucket limiter for inbound API traffic.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultIdleTTL is how long an unused key keeps its bucket before eviction.
const DefaultIdleTTL = 10 * time.Minute

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedRateLimiter manages one independent limiter per key (typically a client IP).
type KeyedRateLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a keyed limiter allowing rps requests per second with the given burst.
// Idle keys are swept every idleTTL; pass 0 for DefaultIdleTTL.
func New(rps float64, burst int, idleTTL time.Duration) *KeyedRateLimiter {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	krl := &KeyedRateLimiter{
		entries: make(map[string]*entry),
		limit:   rate.Limit(rps),
		burst:   burst,
		idleTTL: idleTTL,
		now:     time.Now,
		done:    make(chan struct{}),
	}

	go krl.cleanupLoop()

	return krl
}

// PerMinute converts a requests-per-minute budget into New's rps argument.
func PerMinute(n int) float64 {
	return float64(n) / 60
}

// Allow reports whether a request for key may proceed. It never blocks.
func (krl *KeyedRateLimiter) Allow(key string) bool {
	krl.mu.Lock()
	e, ok := krl.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(krl.limit, krl.burst)}
		krl.entries[key] = e
	}
	e.lastSeen = krl.now()
	krl.mu.Unlock()

	return e.limiter.Allow()
}

// Len returns the number of tracked keys.
func (krl *KeyedRateLimiter) Len() int {
	krl.mu.Lock()
	defer krl.mu.Unlock()
	return len(krl.entries)
}

// Sweep drops keys not seen for longer than the idle TTL.
func (krl *KeyedRateLimiter) Sweep() int {
	cutoff := krl.now().Add(-krl.idleTTL)

	krl.mu.Lock()
	defer krl.mu.Unlock()

	removed := 0
	for key, e := range krl.entries {
		if e.lastSeen.Before(cutoff) {
			delete(krl.entries, key)
			removed++
		}
	}
	return removed
}

// Stop shuts down the cleanup goroutine.
func (krl *KeyedRateLimiter) Stop() {
	krl.stopOnce.Do(func() {
		close(krl.done)
	})
}

func (krl *KeyedRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(krl.idleTTL)
	defer ticker.Stop()

	for {
		select {
		case <-krl.done:
			return
		case <-ticker.C:
			krl.Sweep()
		}
	}
}
