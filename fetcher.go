package isocert

import "context"

// Fetcher retrieves the HTML of a page.
// Implementations may render JavaScript before returning.
type Fetcher interface {
	// Fetch returns the HTML served at url.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}
