// Package ratelimit provides a fixed-window request limiter keyed by caller
// identity, plus the HTTP middleware that enforces it.
package ratelimit

import (
	"sync"
	"time"
)

// Limit is the request budget for one window.
type Limit struct {
	Requests int
	Window   time.Duration
}

// Decision is the outcome of a single admission check.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter returns how long the caller should wait, zero when admitted.
func (d Decision) RetryAfter(now time.Time) time.Duration {
	if d.Allowed {
		return 0
	}
	return d.ResetAt.Sub(now)
}

type window struct {
	startedAt time.Time
	count     int
}

// Limiter admits requests against a per-key fixed window. Windows open on the
// first request for a key and reset wholesale when they elapse.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   Limit
	now     func() time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock overrides the limiter's clock.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// New constructs a Limiter for the given budget.
func New(limit Limit, opts ...Option) *Limiter {
	l := &Limiter{
		windows: make(map[string]*window),
		limit:   limit,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow consumes one request from the key's current window and reports whether
// it fits the budget. An empty key is never limited.
func (l *Limiter) Allow(key string) Decision {
	if key == "" {
		return Decision{Allowed: true, Limit: l.limit.Requests, Remaining: l.limit.Requests}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || !now.Before(w.startedAt.Add(l.limit.Window)) {
		w = &window{startedAt: now}
		l.windows[key] = w
	}

	w.count++
	remaining := l.limit.Requests - w.count
	return Decision{
		Allowed:   remaining >= 0,
		Limit:     l.limit.Requests,
		Remaining: max(remaining, 0),
		ResetAt:   w.startedAt.Add(l.limit.Window),
	}
}

// Reset drops the window for a key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

// Prune removes windows that elapsed before the given reference time. Callers
// run it periodically to keep memory bounded.
func (l *Limiter) Prune(reference time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, w := range l.windows {
		if !reference.Before(w.startedAt.Add(l.limit.Window)) {
			delete(l.windows, key)
		}
	}
}
