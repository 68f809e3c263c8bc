package isocert

import (
	"context"
	"time"
)

// SearchResult is the answer to one company lookup.
type SearchResult struct {
	Results   []*Certification `json:"results"`
	FromCache bool             `json:"fromCache"`
	Timestamp time.Time        `json:"timestamp"`
}

// SearchService is the query entry point used by the CLI and HTTP server.
type SearchService interface {
	// Search returns the certifications known for companyName. Source
	// failures never surface here; only EINVALID for a blank name does.
	Search(ctx context.Context, companyName string) (*SearchResult, error)
}

// Aggregator produces one merged, ranked certification list from all source
// families for a company name.
type Aggregator interface {
	Aggregate(ctx context.Context, companyName string) ([]*Certification, error)
}
