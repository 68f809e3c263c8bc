package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/isocert"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces cache entries.
const KeyPrefix = "isocert:cache:"

var _ isocert.CacheService = (*CacheService)(nil)

// CacheService implements isocert.CacheService on Redis. Entries carry a
// Redis TTL; the stored expiry is checked on read as well.
type CacheService struct {
	client redis.Cmdable

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewCacheService creates a new CacheService.
func NewCacheService(client redis.Cmdable) *CacheService {
	return &CacheService{client: client, Now: time.Now}
}

// Key returns the Redis key for a normalized query. Queries are hashed so
// arbitrary input yields a bounded key.
func Key(query string) string {
	return KeyPrefix + strconv.FormatUint(xxhash.Sum64String(query), 16)
}

// FindCachedResult returns the fresh entry for key.
func (s *CacheService) FindCachedResult(ctx context.Context, key string) (*isocert.CachedResult, error) {
	data, err := s.client.Get(ctx, Key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, isocert.Errorf(isocert.ENOTFOUND, "cached result not found")
	}
	if err != nil {
		return nil, err
	}

	var entry isocert.CachedResult
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	// Distinct queries may share a hash.
	if entry.Key != key || entry.Expired(s.Now()) {
		return nil, isocert.Errorf(isocert.ENOTFOUND, "cached result not found")
	}
	if entry.Results == nil {
		entry.Results = []*isocert.Certification{}
	}
	return &entry, nil
}

// SaveCachedResult stores results under key, replacing any previous entry.
func (s *CacheService) SaveCachedResult(ctx context.Context, key string, results []*isocert.Certification, ttl time.Duration) error {
	if key == "" {
		return isocert.Errorf(isocert.EINVALID, "cache key required")
	}
	if ttl <= 0 {
		return isocert.Errorf(isocert.EINVALID, "cache ttl must be positive")
	}
	if results == nil {
		results = []*isocert.Certification{}
	}

	now := s.Now()
	data, err := json.Marshal(&isocert.CachedResult{
		Key:       key,
		Results:   results,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, Key(key), data, ttl).Err()
}
