// Package ratelimit implements a fixed-window request counter keyed by
// client address. Counters live only in process memory and are lost on
// restart.
package ratelimit

import (
	"sync"
	"time"

	"passport/config"
)

// maxTrackedKeys caps the counter map so long-running processes don't grow
// it without bound. When exceeded, all counters reset.
const maxTrackedKeys = 10000

type window struct {
	count int
	start time.Time
}

// Limiter counts requests per key within a fixed window. Once the window
// duration has elapsed since the first request in the window, the counter
// resets.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
	now     func() time.Time
}

// NewLimiter is the constructor for Limiter.
func NewLimiter(cfg *config.Config) *Limiter {
	return NewLimiterWithClock(cfg.Throttle.Limit, cfg.Throttle.Window, time.Now)
}

// NewLimiterWithClock creates a limiter with an explicit clock, so tests can
// step through window boundaries deterministically.
func NewLimiterWithClock(limit int, period time.Duration, now func() time.Time) *Limiter {
	return &Limiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     now,
	}
}

// Allow records a request for the given key and reports whether it is within
// the limit for the current window. The increment and the window reset happen
// atomically relative to concurrent callers.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	if len(l.windows) > maxTrackedKeys {
		l.windows = make(map[string]*window)
	}

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.period {
		l.windows[key] = &window{count: 1, start: now}

		return true
	}

	w.count++

	return w.count <= l.limit
}

// Limit returns the configured per-window request limit.
func (l *Limiter) Limit() int {
	return l.limit
}
