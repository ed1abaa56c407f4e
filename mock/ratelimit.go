package mock

import "github.com/koomastudio/postvault"

var _ postvault.RateLimiter = (*RateLimiter)(nil)

// RateLimiter is a mock implementation of postvault.RateLimiter.
type RateLimiter struct {
	AllowFn func(key string) bool
}

func (l *RateLimiter) Allow(key string) bool {
	return l.AllowFn(key)
}
