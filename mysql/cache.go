package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/fwojciec/isocert"
)

var _ isocert.CacheService = (*CacheService)(nil)

// CacheService implements isocert.CacheService using MySQL.
type CacheService struct {
	db *sql.DB

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewCacheService creates a new CacheService.
func NewCacheService(db *sql.DB) *CacheService {
	return &CacheService{db: db, Now: time.Now}
}

// FindCachedResult returns the fresh entry for key.
func (s *CacheService) FindCachedResult(ctx context.Context, key string) (*isocert.CachedResult, error) {
	const q = `
SELECT results, created_at, expires_at
FROM search_cache
WHERE search_query=? AND expires_at > ?
LIMIT 1;
`
	var results []byte
	entry := &isocert.CachedResult{Key: key}
	err := s.db.QueryRowContext(ctx, q, key, s.Now().UTC()).Scan(&results, &entry.CreatedAt, &entry.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, isocert.Errorf(isocert.ENOTFOUND, "cached result not found")
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(results, &entry.Results); err != nil {
		return nil, err
	}
	if entry.Results == nil {
		entry.Results = []*isocert.Certification{}
	}
	return entry, nil
}

// SaveCachedResult stores results under key, replacing any previous entry.
func (s *CacheService) SaveCachedResult(ctx context.Context, key string, results []*isocert.Certification, ttl time.Duration) error {
	if key == "" {
		return isocert.Errorf(isocert.EINVALID, "cache key required")
	}
	if results == nil {
		results = []*isocert.Certification{}
	}
	data, err := json.Marshal(results)
	if err != nil {
		return err
	}

	const q = `
INSERT INTO search_cache (search_query, results, created_at, expires_at)
VALUES (?,?,?,?)
ON DUPLICATE KEY UPDATE
  results=VALUES(results), created_at=VALUES(created_at), expires_at=VALUES(expires_at);
`
	now := s.Now().UTC()
	_, err = s.db.ExecContext(ctx, q, key, string(data), now, now.Add(ttl))
	return err
}
