package isocert

import (
	"context"
	"strings"
	"time"
)

// DefaultCacheTTL is how long an aggregated result set stays fresh.
const DefaultCacheTTL = 24 * time.Hour

// CachedResult is a stored result set for one normalized query.
type CachedResult struct {
	Key       string           `json:"key"`
	Results   []*Certification `json:"results"`
	CreatedAt time.Time        `json:"createdAt"`
	ExpiresAt time.Time        `json:"expiresAt"`
}

// Expired reports whether the entry is stale at now.
func (r *CachedResult) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// CacheService represents a store of aggregated result sets keyed by
// normalized query. Entries are never deleted; stale ones are ignored.
type CacheService interface {
	// FindCachedResult returns the fresh entry for key.
	// Returns ENOTFOUND if no entry exists or the entry has expired.
	FindCachedResult(ctx context.Context, key string) (*CachedResult, error)

	// SaveCachedResult stores results under key with the given TTL,
	// fully replacing any previous entry for that key.
	SaveCachedResult(ctx context.Context, key string, results []*Certification, ttl time.Duration) error
}

// NormalizeQuery returns the cache key for a company-name query: trimmed,
// internal whitespace collapsed and lowercased.
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.Join(strings.Fields(q), " "))
}
