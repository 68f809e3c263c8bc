package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fwojciec/isocert"
)

// Compile-time interface verification.
var _ isocert.CacheService = (*CacheService)(nil)

// CacheService implements isocert.CacheService using SQLite. Entries are
// never deleted; stale rows are filtered out on read.
type CacheService struct {
	db *DB

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewCacheService creates a new CacheService.
func NewCacheService(db *DB) *CacheService {
	return &CacheService{db: db, Now: time.Now}
}

// FindCachedResult returns the fresh entry for key.
func (s *CacheService) FindCachedResult(ctx context.Context, key string) (*isocert.CachedResult, error) {
	var results, createdAt, expiresAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT results, created_at, expires_at
		FROM search_cache
		WHERE search_query = ? AND expires_at > ?
	`, key, formatTime(s.Now())).Scan(&results, &createdAt, &expiresAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, isocert.Errorf(isocert.ENOTFOUND, "cached result not found")
	}
	if err != nil {
		return nil, err
	}

	entry := &isocert.CachedResult{Key: key}
	if err := decodeJSON(results, "results", &entry.Results); err != nil {
		return nil, err
	}
	if entry.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if entry.ExpiresAt, err = parseTime(expiresAt, "expires_at"); err != nil {
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

	data, err := encodeJSON(results, "results")
	if err != nil {
		return err
	}

	now := s.Now()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO search_cache (search_query, results, created_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(search_query) DO UPDATE SET
			results = excluded.results,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at
	`, key, data, formatTime(now), formatTime(now.Add(ttl)))

	return err
}
