// Package rod provides a headless Chrome fetcher for company pages that
// render their content with JavaScript.
package rod

import (
	"context"
	"time"

	"github.com/fwojciec/isocert"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds one page render.
const DefaultFetchTimeout = 4 * time.Second

// Ensure Fetcher implements isocert.Fetcher at compile time.
var _ isocert.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using a headless browser.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	pool           *browserPool
	timeout        time.Duration
	maxPages       int
	userAgent      string
	acceptLanguage string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-page timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.timeout = d }
}

// WithMaxPages sets how many pages are rendered before the browser is replaced.
func WithMaxPages(n int) Option {
	return func(f *Fetcher) { f.maxPages = n }
}

// WithUserAgent overrides the browser's User-Agent and Accept-Language.
func WithUserAgent(userAgent, acceptLanguage string) Option {
	return func(f *Fetcher) {
		f.userAgent = userAgent
		f.acceptLanguage = acceptLanguage
	}
}

// NewFetcher launches a headless browser. Close must be called when the
// Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout, maxPages: DefaultMaxPages}
	for _, opt := range opts {
		opt(f)
	}

	pool, err := newBrowserPool(f.maxPages)
	if err != nil {
		return nil, err
	}
	f.pool = pool
	return f, nil
}

// Fetch navigates to url, waits for the load event and returns the
// rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	browser, ok := f.pool.acquire()
	if !ok {
		return "", isocert.Errorf(isocert.EINVALID, "fetcher is closed")
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()
	page = page.Context(ctx)

	if f.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent:      f.userAgent,
			AcceptLanguage: f.acceptLanguage,
		}); err != nil {
			return "", err
		}
	}

	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}
	return page.HTML()
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	return f.pool.close()
}
