package mock

import (
	"context"

	"github.com/fwojciec/isocert"
)

var _ isocert.Scraper = (*Scraper)(nil)

// Scraper is a mock implementation of isocert.Scraper.
type Scraper struct {
	NameFn   func() string
	ScrapeFn func(ctx context.Context, companyName string) ([]*isocert.RawCertification, error)
}

func (s *Scraper) Name() string {
	return s.NameFn()
}

func (s *Scraper) Scrape(ctx context.Context, companyName string) ([]*isocert.RawCertification, error) {
	return s.ScrapeFn(ctx, companyName)
}

var _ isocert.ScraperPool = (*ScraperPool)(nil)

// ScraperPool is a mock implementation of isocert.ScraperPool.
type ScraperPool struct {
	FetchAllFn func(ctx context.Context, companyName string) ([]*isocert.RawCertification, error)
}

func (p *ScraperPool) FetchAll(ctx context.Context, companyName string) ([]*isocert.RawCertification, error) {
	return p.FetchAllFn(ctx, companyName)
}
