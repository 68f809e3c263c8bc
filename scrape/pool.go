// Package scrape runs the web scrapers for a company lookup and provides
// fetch politeness wrappers shared by them.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/isocert"
	"golang.org/x/sync/errgroup"
)

// Ensure Pool implements isocert.ScraperPool at compile time.
var _ isocert.ScraperPool = (*Pool)(nil)

// Pool runs a fixed set of scrapers concurrently with per-scraper fault
// isolation.
type Pool struct {
	Scrapers []isocert.Scraper
	Logger   *slog.Logger
}

// NewPool creates a Pool over scrapers. Output order follows the order given.
func NewPool(logger *slog.Logger, scrapers ...isocert.Scraper) *Pool {
	return &Pool{Scrapers: scrapers, Logger: logger}
}

// scrapeResult holds the outcome of one scraper.
type scrapeResult struct {
	records []*isocert.RawCertification
	err     error
}

// FetchAll runs every scraper and joins their findings in registration
// order. Every finding is kept, repeats included, so that merging can keep
// the latest dates and strongest status among them. Failed scrapers are reported as a joined error of
// *isocert.SourceError values alongside the findings of the others.
func (p *Pool) FetchAll(ctx context.Context, companyName string) ([]*isocert.RawCertification, error) {
	logger := p.logger()
	results := make([]scrapeResult, len(p.Scrapers))

	var g errgroup.Group
	for i, s := range p.Scrapers {
		g.Go(func() error {
			results[i] = p.run(ctx, s, companyName)
			return nil
		})
	}
	_ = g.Wait()

	var records []*isocert.RawCertification
	var errs []error
	for i, res := range results {
		name := p.Scrapers[i].Name()
		if res.err != nil {
			logger.Warn("scraper failed", "scraper", name, "err", res.err)
			errs = append(errs, isocert.NewSourceError(isocert.FamilyScraped, name, res.err))
		}
		for _, rec := range res.records {
			if rec != nil {
				records = append(records, rec)
			}
		}
	}

	return records, errors.Join(errs...)
}

func (p *Pool) run(ctx context.Context, s isocert.Scraper, companyName string) (res scrapeResult) {
	defer func() {
		if r := recover(); r != nil {
			res = scrapeResult{err: fmt.Errorf("scraper panicked: %v", r)}
		}
	}()

	begin := time.Now()
	records, err := s.Scrape(ctx, companyName)
	p.logger().Debug("scrape",
		"scraper", s.Name(),
		"records", len(records),
		"duration", time.Since(begin),
	)
	return scrapeResult{records: records, err: err}
}

func (p *Pool) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return p.Logger
}
