package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/isocert"
)

var _ isocert.CacheService = (*LoggingCacheService)(nil)

// LoggingCacheService wraps a CacheService with logging. Misses are logged
// as hit=false without an error.
type LoggingCacheService struct {
	next   isocert.CacheService
	logger *slog.Logger
}

// NewLoggingCacheService creates a new LoggingCacheService.
func NewLoggingCacheService(next isocert.CacheService, logger *slog.Logger) *LoggingCacheService {
	return &LoggingCacheService{next: next, logger: logger}
}

// FindCachedResult delegates to the wrapped service and logs the lookup.
func (s *LoggingCacheService) FindCachedResult(ctx context.Context, key string) (entry *isocert.CachedResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"key", key,
			"hit", err == nil,
			"duration", time.Since(begin),
		}
		if err != nil && isocert.ErrorCode(err) != isocert.ENOTFOUND {
			attrs = append(attrs, "err", err)
		}
		s.logger.Info("cache lookup", attrs...)
	}(time.Now())
	return s.next.FindCachedResult(ctx, key)
}

// SaveCachedResult delegates to the wrapped service and logs the write.
func (s *LoggingCacheService) SaveCachedResult(ctx context.Context, key string, results []*isocert.Certification, ttl time.Duration) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("cache save",
			"key", key,
			"count", len(results),
			"ttl", ttl,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SaveCachedResult(ctx, key, results, ttl)
}
