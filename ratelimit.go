package postvault

// RateLimiter throttles requests per credential within a fixed time window.
// Implementations are constructed and injected explicitly rather than held
// in package-level state, so multiple limiters (or a shared external one)
// can coexist in a single process.
type RateLimiter interface {
	// Allow reports whether a request for the given key (a credential
	// hash) fits within the current window, counting it if so.
	Allow(key string) bool
}
