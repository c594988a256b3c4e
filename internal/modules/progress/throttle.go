package progress

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	throttleIdleTTL   = 10 * time.Minute
	throttleSweepSize = 4096
)

type throttleEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// writeThrottle holds one token bucket per (email, lesson) key.
type writeThrottle struct {
	mu      sync.Mutex
	every   time.Duration
	entries map[string]*throttleEntry
}

func newWriteThrottle(every time.Duration) *writeThrottle {
	return &writeThrottle{every: every, entries: make(map[string]*throttleEntry)}
}

// Allow reports whether a write for key may go through at now.
func (t *writeThrottle) Allow(key string, now time.Time) bool {
	if t.every <= 0 {
		return true
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.entries) >= throttleSweepSize {
		for k, e := range t.entries {
			if now.Sub(e.lastSeen) > throttleIdleTTL {
				delete(t.entries, k)
			}
		}
	}

	e, ok := t.entries[key]
	if !ok {
		e = &throttleEntry{limiter: rate.NewLimiter(rate.Every(t.every), 1)}
		t.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}
