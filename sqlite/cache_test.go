package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/isocert"
	"github.com/fwojciec/isocert/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheService(t *testing.T) {
	t.Parallel()

	t.Run("returns what was saved", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewCacheService(db)
		ctx := context.Background()
		results := []*isocert.Certification{samsung()}

		require.NoError(t, svc.SaveCachedResult(ctx, "삼성전자", results, time.Hour))

		got, err := svc.FindCachedResult(ctx, "삼성전자")
		require.NoError(t, err)
		assert.Equal(t, "삼성전자", got.Key)
		require.Len(t, got.Results, 1)
		assert.Equal(t, results[0].CertificationTypes, got.Results[0].CertificationTypes)
		assert.WithinDuration(t, got.CreatedAt.Add(time.Hour), got.ExpiresAt, time.Millisecond)
	})

	t.Run("returns ENOTFOUND for missing key", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewCacheService(db)

		_, err := svc.FindCachedResult(context.Background(), "missing")
		require.Error(t, err)
		assert.Equal(t, isocert.ENOTFOUND, isocert.ErrorCode(err))
	})

	t.Run("ignores expired entries", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewCacheService(db)
		ctx := context.Background()
		now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
		svc.Now = func() time.Time { return now }

		require.NoError(t, svc.SaveCachedResult(ctx, "key", []*isocert.Certification{samsung()}, time.Hour))

		now = now.Add(time.Hour)
		_, err := svc.FindCachedResult(ctx, "key")
		require.Error(t, err)
		assert.Equal(t, isocert.ENOTFOUND, isocert.ErrorCode(err))
	})

	t.Run("last write replaces previous entry", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewCacheService(db)
		ctx := context.Background()

		require.NoError(t, svc.SaveCachedResult(ctx, "key", []*isocert.Certification{samsung()}, time.Hour))
		require.NoError(t, svc.SaveCachedResult(ctx, "key", nil, time.Hour))

		got, err := svc.FindCachedResult(ctx, "key")
		require.NoError(t, err)
		assert.NotNil(t, got.Results)
		assert.Empty(t, got.Results)

		var rows int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM search_cache").Scan(&rows))
		assert.Equal(t, 1, rows)
	})

	t.Run("rejects empty key", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewCacheService(db)

		err := svc.SaveCachedResult(context.Background(), "", nil, time.Hour)
		require.Error(t, err)
		assert.Equal(t, isocert.EINVALID, isocert.ErrorCode(err))
	})
}
