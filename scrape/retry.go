package scrape

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/isocert"
)

// DefaultRetryDelays returns the backoff delays for fetch retries. They are
// short because every lookup runs under a deadline of a few seconds.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{200 * time.Millisecond, 400 * time.Millisecond}
}

// Ensure RetryFetcher implements isocert.Fetcher at compile time.
var _ isocert.Fetcher = (*RetryFetcher)(nil)

// RetryFetcher retries failed fetches with backoff until the delays are
// exhausted or the context ends.
type RetryFetcher struct {
	next   isocert.Fetcher
	delays []time.Duration
	logger *slog.Logger
}

// NewRetryFetcher wraps next. A nil delays slice uses DefaultRetryDelays.
// A nil logger disables retry logging.
func NewRetryFetcher(next isocert.Fetcher, delays []time.Duration, logger *slog.Logger) *RetryFetcher {
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	return &RetryFetcher{next: next, delays: delays, logger: logger}
}

// Fetch attempts the fetch once plus one retry per configured delay.
func (f *RetryFetcher) Fetch(ctx context.Context, url string) (string, error) {
	maxAttempts := len(f.delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		html, err := f.next.Fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 {
			break
		}

		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		if f.logger != nil {
			f.logger.Debug("retry fetch", "url", url, "attempt", attempt+2, "err", err)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(f.delays[attempt]):
		}
	}

	return "", lastErr
}

// Close closes the wrapped fetcher.
func (f *RetryFetcher) Close() error {
	return f.next.Close()
}
