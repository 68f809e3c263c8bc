package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/isocert"
	"github.com/fwojciec/isocert/mock"
	isoslog "github.com/fwojciec/isocert/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingSearchService_Search(t *testing.T) {
	t.Parallel()

	t.Run("logs result size and origin", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.SearchService{
			SearchFn: func(context.Context, string) (*isocert.SearchResult, error) {
				return &isocert.SearchResult{
					Results:   []*isocert.Certification{{CompanyName: "네이버"}},
					FromCache: true,
				}, nil
			},
		}

		res, err := isoslog.NewLoggingSearchService(inner, logger).Search(context.Background(), "네이버")

		require.NoError(t, err)
		assert.Len(t, res.Results, 1)
		output := buf.String()
		assert.Contains(t, output, "msg=search")
		assert.Contains(t, output, "count=1")
		assert.Contains(t, output, "from_cache=true")
	})

	t.Run("logs error without result", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.SearchService{
			SearchFn: func(context.Context, string) (*isocert.SearchResult, error) {
				return nil, isocert.Errorf(isocert.EINVALID, "company name required")
			},
		}

		_, err := isoslog.NewLoggingSearchService(inner, logger).Search(context.Background(), "")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "count=0")
		assert.Contains(t, output, "company name required")
	})
}
