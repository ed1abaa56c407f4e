package slog

import (
	"log/slog"

	"github.com/koomastudio/postvault"
)

// Ensure LoggingRateLimiter implements postvault.RateLimiter.
var _ postvault.RateLimiter = (*LoggingRateLimiter)(nil)

// LoggingRateLimiter wraps a RateLimiter and logs denials. Allowed requests
// are not logged; they are the overwhelmingly common case.
type LoggingRateLimiter struct {
	next   postvault.RateLimiter
	logger *slog.Logger
}

// NewLoggingRateLimiter creates a new LoggingRateLimiter.
func NewLoggingRateLimiter(next postvault.RateLimiter, logger *slog.Logger) *LoggingRateLimiter {
	return &LoggingRateLimiter{next: next, logger: logger}
}

// Allow delegates to the wrapped limiter and logs when a request is denied.
// The key is a credential hash, so logging it leaks nothing usable.
func (l *LoggingRateLimiter) Allow(key string) bool {
	allowed := l.next.Allow(key)
	if !allowed {
		l.logger.Warn("rate limit exceeded", "key", key)
	}
	return allowed
}
