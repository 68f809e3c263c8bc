package search

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/isocert"
	"github.com/google/uuid"
)

// Ensure Service implements isocert.SearchService at compile time.
var _ isocert.SearchService = (*Service)(nil)

// Service is the cache gate in front of an Aggregator. Fresh cached results
// are returned without touching any source; misses are aggregated and,
// when non-empty, written back.
type Service struct {
	Cache      isocert.CacheService
	Aggregator isocert.Aggregator

	// TTL of written cache entries. Zero uses isocert.DefaultCacheTTL.
	TTL time.Duration

	Logger  *slog.Logger
	Metrics isocert.Metrics

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewService creates a new Service with default TTL and clock.
func NewService(cache isocert.CacheService, aggregator isocert.Aggregator, logger *slog.Logger) *Service {
	return &Service{Cache: cache, Aggregator: aggregator, Logger: logger}
}

// Search returns the certifications for companyName. The only error it
// returns is EINVALID for a blank name: cache failures are treated as misses
// and aggregation failures as empty results.
func (s *Service) Search(ctx context.Context, companyName string) (*isocert.SearchResult, error) {
	name := strings.TrimSpace(companyName)
	if name == "" {
		return nil, isocert.Errorf(isocert.EINVALID, "company name required")
	}

	key := isocert.NormalizeQuery(name)
	logger := s.logger().With("search_id", uuid.NewString(), "key", key)
	now := s.now()

	if cached, ok := s.findCached(ctx, logger, key, now); ok {
		s.observeCache(true)
		logger.Info("search", "from_cache", true, "results", len(cached))
		return &isocert.SearchResult{Results: cached, FromCache: true, Timestamp: now}, nil
	}
	s.observeCache(false)

	results, err := s.Aggregator.Aggregate(ctx, name)
	if err != nil {
		logger.Warn("aggregation failed", "err", err)
		results = nil
	}
	if results == nil {
		results = []*isocert.Certification{}
	}

	if len(results) > 0 && s.Cache != nil {
		if err := s.Cache.SaveCachedResult(ctx, key, results, s.ttl()); err != nil {
			logger.Warn("cache write failed", "err", err)
		}
	}

	logger.Info("search", "from_cache", false, "results", len(results))
	return &isocert.SearchResult{Results: results, FromCache: false, Timestamp: s.now()}, nil
}

// findCached returns the fresh cached results for key. Any cache failure
// is logged and reported as a miss.
func (s *Service) findCached(ctx context.Context, logger *slog.Logger, key string, now time.Time) ([]*isocert.Certification, bool) {
	if s.Cache == nil {
		return nil, false
	}
	cached, err := s.Cache.FindCachedResult(ctx, key)
	if err != nil {
		if isocert.ErrorCode(err) != isocert.ENOTFOUND {
			logger.Warn("cache read failed", "err", err)
		}
		return nil, false
	}
	if cached == nil || cached.Expired(now) {
		return nil, false
	}
	if cached.Results == nil {
		return []*isocert.Certification{}, true
	}
	return cached.Results, true
}

func (s *Service) observeCache(hit bool) {
	if s.Metrics != nil {
		s.Metrics.ObserveCacheLookup(hit)
	}
}

func (s *Service) ttl() time.Duration {
	if s.TTL <= 0 {
		return isocert.DefaultCacheTTL
	}
	return s.TTL
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return discardLogger
	}
	return s.Logger
}
