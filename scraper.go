package isocert

import "context"

// Scraper retrieves certification evidence for a company from one web source.
type Scraper interface {
	// Name identifies the source, e.g. "KSA" or "Naver News".
	Name() string

	// Scrape returns the findings for companyName. Network and parse
	// failures are returned as errors; the caller decides how to degrade.
	Scrape(ctx context.Context, companyName string) ([]*RawCertification, error)
}

// ScraperPool runs a set of scrapers for one company name.
type ScraperPool interface {
	// FetchAll runs every scraper and returns the findings of those that
	// succeeded, in scraper registration order. A non-nil error reports the
	// scrapers that failed; it never invalidates the returned findings.
	FetchAll(ctx context.Context, companyName string) ([]*RawCertification, error)
}
