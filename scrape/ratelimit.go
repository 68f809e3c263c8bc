package scrape

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/fwojciec/isocert"
	"golang.org/x/time/rate"
)

// DomainLimiter provides per-domain rate limiting using token buckets.
// Requests to different domains proceed independently.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewDomainLimiter creates a new DomainLimiter allowing rps requests per
// second to each domain, with a burst of 1.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until the rate limit allows a request to the domain.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}

// Ensure LimitedFetcher implements isocert.Fetcher at compile time.
var _ isocert.Fetcher = (*LimitedFetcher)(nil)

// LimitedFetcher waits on a DomainLimiter before every fetch.
type LimitedFetcher struct {
	next    isocert.Fetcher
	limiter *DomainLimiter
}

// NewLimitedFetcher wraps next with per-domain rate limiting.
func NewLimitedFetcher(next isocert.Fetcher, limiter *DomainLimiter) *LimitedFetcher {
	return &LimitedFetcher{next: next, limiter: limiter}
}

// Fetch waits for the target host's limiter and delegates to the wrapped fetcher.
func (f *LimitedFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if err := f.limiter.Wait(ctx, u.Hostname()); err != nil {
		return "", err
	}
	return f.next.Fetch(ctx, rawURL)
}

// Close closes the wrapped fetcher.
func (f *LimitedFetcher) Close() error {
	return f.next.Close()
}
