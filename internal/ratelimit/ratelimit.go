// Package ratelimit throttles API clients with golang.org/x/time/rate
// token buckets, one bucket per client key.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter is a single token bucket.
type Limiter struct {
	limiter *rate.Limiter
}

// New refills requestsPerMinute tokens a minute. The bucket holds a
// tenth of that, and at least one.
func New(requestsPerMinute int) *Limiter {
	rps := float64(requestsPerMinute) / 60.0
	burst := max(requestsPerMinute/10, 1)

	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Allow reports whether an event may happen now.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// AllowAt reports whether an event may happen at t.
func (l *Limiter) AllowAt(t time.Time) bool {
	return l.limiter.AllowN(t, 1)
}

// RetryAfter is how long a rejected caller should wait for one token.
func (l *Limiter) RetryAfter() time.Duration {
	limit := l.limiter.Limit()
	if limit <= 0 {
		return time.Minute
	}
	return time.Duration(float64(time.Second) / float64(limit)).Round(time.Millisecond)
}

// KeyedLimiter keeps one Limiter per key, e.g. per client IP. Idle keys
// are dropped by Prune.
type KeyedLimiter struct {
	requestsPerMinute int
	now               func() time.Time

	mu      sync.Mutex
	entries map[string]*keyedEntry
}

type keyedEntry struct {
	limiter  *Limiter
	lastSeen time.Time
}

// NewKeyed creates a KeyedLimiter. now may be nil.
func NewKeyed(requestsPerMinute int, now func() time.Time) *KeyedLimiter {
	if now == nil {
		now = time.Now
	}
	return &KeyedLimiter{
		requestsPerMinute: requestsPerMinute,
		now:               now,
		entries:           make(map[string]*keyedEntry),
	}
}

// Allow reports whether key may make a request now. It also returns the
// suggested wait when it may not.
func (k *KeyedLimiter) Allow(key string) (bool, time.Duration) {
	now := k.now()

	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &keyedEntry{limiter: New(k.requestsPerMinute)}
		k.entries[key] = e
	}
	e.lastSeen = now
	k.mu.Unlock()

	if e.limiter.AllowAt(now) {
		return true, 0
	}
	return false, e.limiter.RetryAfter()
}

// Prune drops keys not seen for idle and returns how many were dropped.
func (k *KeyedLimiter) Prune(idle time.Duration) int {
	cutoff := k.now().Add(-idle)

	k.mu.Lock()
	defer k.mu.Unlock()

	dropped := 0
	for key, e := range k.entries {
		if e.lastSeen.Before(cutoff) {
			delete(k.entries, key)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of tracked keys.
func (k *KeyedLimiter) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}
