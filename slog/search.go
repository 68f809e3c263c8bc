package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/isocert"
)

var _ isocert.SearchService = (*LoggingSearchService)(nil)

// LoggingSearchService wraps a SearchService with logging.
type LoggingSearchService struct {
	next   isocert.SearchService
	logger *slog.Logger
}

// NewLoggingSearchService creates a new LoggingSearchService.
func NewLoggingSearchService(next isocert.SearchService, logger *slog.Logger) *LoggingSearchService {
	return &LoggingSearchService{next: next, logger: logger}
}

// Search delegates to the wrapped service and logs the outcome.
func (s *LoggingSearchService) Search(ctx context.Context, companyName string) (res *isocert.SearchResult, err error) {
	defer func(begin time.Time) {
		var count int
		var fromCache bool
		if res != nil {
			count, fromCache = len(res.Results), res.FromCache
		}
		s.logger.Info("search",
			"company", companyName,
			"count", count,
			"from_cache", fromCache,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, companyName)
}
