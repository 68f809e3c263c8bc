package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/isocert"
)

var _ isocert.Scraper = (*LoggingScraper)(nil)

// LoggingScraper wraps a Scraper with logging.
type LoggingScraper struct {
	next   isocert.Scraper
	logger *slog.Logger
}

// NewLoggingScraper creates a new LoggingScraper.
func NewLoggingScraper(next isocert.Scraper, logger *slog.Logger) *LoggingScraper {
	return &LoggingScraper{next: next, logger: logger}
}

// Name returns the wrapped scraper's name.
func (s *LoggingScraper) Name() string {
	return s.next.Name()
}

// Scrape delegates to the wrapped scraper and logs the outcome.
func (s *LoggingScraper) Scrape(ctx context.Context, companyName string) (raws []*isocert.RawCertification, err error) {
	defer func(begin time.Time) {
		s.logger.Info("scrape",
			"scraper", s.next.Name(),
			"company", companyName,
			"count", len(raws),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Scrape(ctx, companyName)
}
