package mock

import (
	"context"
	"time"

	"github.com/fwojciec/isocert"
)

var _ isocert.CacheService = (*CacheService)(nil)

// CacheService is a mock implementation of isocert.CacheService.
type CacheService struct {
	FindCachedResultFn func(ctx context.Context, key string) (*isocert.CachedResult, error)
	SaveCachedResultFn func(ctx context.Context, key string, results []*isocert.Certification, ttl time.Duration) error
}

func (s *CacheService) FindCachedResult(ctx context.Context, key string) (*isocert.CachedResult, error) {
	return s.FindCachedResultFn(ctx, key)
}

func (s *CacheService) SaveCachedResult(ctx context.Context, key string, results []*isocert.Certification, ttl time.Duration) error {
	return s.SaveCachedResultFn(ctx, key, results, ttl)
}
