package postvault

import "context"

// Fetcher retrieves HTML from URLs.
// Implementations may use plain HTTP requests or browser automation.
type Fetcher interface {
	// Fetch retrieves the page at url and returns its HTML.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}
