package mock

import (
	"context"
	"time"

	"github.com/fwojciec/isocert"
)

var _ isocert.SearchService = (*SearchService)(nil)

// SearchService is a mock implementation of isocert.SearchService.
type SearchService struct {
	SearchFn func(ctx context.Context, companyName string) (*isocert.SearchResult, error)
}

func (s *SearchService) Search(ctx context.Context, companyName string) (*isocert.SearchResult, error) {
	return s.SearchFn(ctx, companyName)
}

var _ isocert.Aggregator = (*Aggregator)(nil)

// Aggregator is a mock implementation of isocert.Aggregator.
type Aggregator struct {
	AggregateFn func(ctx context.Context, companyName string) ([]*isocert.Certification, error)
}

func (a *Aggregator) Aggregate(ctx context.Context, companyName string) ([]*isocert.Certification, error) {
	return a.AggregateFn(ctx, companyName)
}

var _ isocert.Metrics = (*Metrics)(nil)

// Metrics is a mock implementation of isocert.Metrics.
// Nil function fields are ignored.
type Metrics struct {
	ObserveSourceFn      func(family isocert.SourceFamily, d time.Duration, records int, err error)
	ObserveCacheLookupFn func(hit bool)
}

func (m *Metrics) ObserveSource(family isocert.SourceFamily, d time.Duration, records int, err error) {
	if m.ObserveSourceFn != nil {
		m.ObserveSourceFn(family, d, records, err)
	}
}

func (m *Metrics) ObserveCacheLookup(hit bool) {
	if m.ObserveCacheLookupFn != nil {
		m.ObserveCacheLookupFn(hit)
	}
}
