// Package mem provides in-process implementations of volatile state, such
// as the per-credential rate limiter. Nothing in this package survives a
// restart, and nothing is shared across instances: a deployment running
// multiple replicas needs an external store behind the same interfaces.
package mem

import (
	"sync"
	"time"

	"github.com/koomastudio/postvault"
)

// Default rate-limit configuration: 30 requests per fixed 60-second window.
const (
	DefaultRateLimit  = 30
	DefaultRateWindow = 60 * time.Second
)

// Ensure RateLimiter implements postvault.RateLimiter at compile time.
var _ postvault.RateLimiter = (*RateLimiter)(nil)

// bucket tracks one credential's requests within the current window.
type bucket struct {
	count   int
	resetAt time.Time
}

// RateLimiter is a fixed-window rate limiter keyed by credential hash.
// Buckets live only in process memory and are overwritten on expiry.
// RateLimiter is safe for concurrent use.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket

	limit  int
	window time.Duration
	now    func() time.Time
}

// Option configures a RateLimiter.
type Option func(*RateLimiter)

// WithLimit sets the per-window request limit. Defaults to DefaultRateLimit.
func WithLimit(n int) Option {
	return func(l *RateLimiter) {
		l.limit = n
	}
}

// WithWindow sets the window length. Defaults to DefaultRateWindow.
func WithWindow(d time.Duration) Option {
	return func(l *RateLimiter) {
		l.window = d
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *RateLimiter) {
		l.now = now
	}
}

// NewRateLimiter creates a RateLimiter.
func NewRateLimiter(opts ...Option) *RateLimiter {
	l := &RateLimiter{
		buckets: make(map[string]*bucket),
		limit:   DefaultRateLimit,
		window:  DefaultRateWindow,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow reports whether a request for the key fits within the current
// window, counting it if so. A fresh or expired bucket starts a new window.
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	b, ok := l.buckets[key]
	if !ok || now.After(b.resetAt) {
		l.buckets[key] = &bucket{count: 1, resetAt: now.Add(l.window)}
		return true
	}

	if b.count >= l.limit {
		return false
	}

	b.count++
	return true
}

// Sweep drops expired buckets so long-idle credentials don't pin memory.
// Callers typically run it on a timer.
func (l *RateLimiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, b := range l.buckets {
		if now.After(b.resetAt) {
			delete(l.buckets, key)
		}
	}
}

// Len returns the number of live buckets.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
