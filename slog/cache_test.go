package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/fwojciec/isocert"
	"github.com/fwojciec/isocert/mock"
	isoslog "github.com/fwojciec/isocert/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingCacheService_FindCachedResult(t *testing.T) {
	t.Parallel()

	t.Run("logs hit", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.CacheService{
			FindCachedResultFn: func(_ context.Context, key string) (*isocert.CachedResult, error) {
				return &isocert.CachedResult{Key: key}, nil
			},
		}

		_, err := isoslog.NewLoggingCacheService(inner, logger).FindCachedResult(context.Background(), "삼성전자")

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "hit=true")
	})

	t.Run("logs miss without error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.CacheService{
			FindCachedResultFn: func(context.Context, string) (*isocert.CachedResult, error) {
				return nil, isocert.Errorf(isocert.ENOTFOUND, "cached result not found")
			},
		}

		_, err := isoslog.NewLoggingCacheService(inner, logger).FindCachedResult(context.Background(), "key")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "hit=false")
		assert.NotContains(t, output, "err=")
	})

	t.Run("logs store failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.CacheService{
			FindCachedResultFn: func(context.Context, string) (*isocert.CachedResult, error) {
				return nil, errors.New("disk full")
			},
		}

		_, err := isoslog.NewLoggingCacheService(inner, logger).FindCachedResult(context.Background(), "key")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=\"disk full\"")
	})
}

func TestLoggingCacheService_SaveCachedResult(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.CacheService{
		SaveCachedResultFn: func(context.Context, string, []*isocert.Certification, time.Duration) error {
			return nil
		},
	}

	err := isoslog.NewLoggingCacheService(inner, logger).SaveCachedResult(context.Background(), "key", []*isocert.Certification{{}}, time.Hour)

	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "cache save")
	assert.Contains(t, output, "count=1")
	assert.Contains(t, output, "ttl=1h0m0s")
}
