package scrape_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/isocert"
	"github.com/fwojciec/isocert/mock"
	"github.com/fwojciec/isocert/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scraper(name string, delay time.Duration, records []*isocert.RawCertification, err error) *mock.Scraper {
	return &mock.Scraper{
		NameFn: func() string { return name },
		ScrapeFn: func(ctx context.Context, _ string) ([]*isocert.RawCertification, error) {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			return records, err
		},
	}
}

func raw(source, url string, types ...string) *isocert.RawCertification {
	return &isocert.RawCertification{
		CompanyName:        "삼성전자",
		CertificationTypes: types,
		Source:             source,
		SourceURL:          url,
	}
}

func TestPool_FetchAll(t *testing.T) {
	t.Parallel()

	t.Run("joins results in registration order", func(t *testing.T) {
		t.Parallel()

		pool := scrape.NewPool(nil,
			scraper("KSA", 30*time.Millisecond, []*isocert.RawCertification{raw("KSA", "https://ksa", "ISO 9001:2015")}, nil),
			scraper("Naver News", 0, []*isocert.RawCertification{raw("Naver News", "https://news", "ISO 14001:2015")}, nil),
		)

		got, err := pool.FetchAll(context.Background(), "삼성전자")

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "KSA", got[0].Source)
		assert.Equal(t, "Naver News", got[1].Source)
	})

	t.Run("isolates failing scrapers", func(t *testing.T) {
		t.Parallel()

		pool := scrape.NewPool(nil,
			scraper("KSA", 0, nil, errors.New("HTTP 500")),
			scraper("Naver Blog", 0, []*isocert.RawCertification{raw("Naver Blog", "https://blog", "ISO 9001:2015")}, nil),
		)

		got, err := pool.FetchAll(context.Background(), "삼성전자")

		require.Len(t, got, 1)
		assert.Equal(t, "Naver Blog", got[0].Source)
		require.Error(t, err)
		var se *isocert.SourceError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "KSA", se.Source)
		assert.Equal(t, isocert.FamilyScraped, se.Family)
		assert.Equal(t, isocert.KindUnavailable, se.Kind)
	})

	t.Run("recovers from panics", func(t *testing.T) {
		t.Parallel()

		pool := scrape.NewPool(nil,
			&mock.Scraper{
				NameFn: func() string { return "Company Website" },
				ScrapeFn: func(context.Context, string) ([]*isocert.RawCertification, error) {
					panic("nil selection")
				},
			},
			scraper("KSA", 0, []*isocert.RawCertification{raw("KSA", "https://ksa", "ISO 9001:2015")}, nil),
		)

		got, err := pool.FetchAll(context.Background(), "삼성전자")

		assert.Len(t, got, 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "panicked")
	})

	t.Run("keeps repeated findings for merging", func(t *testing.T) {
		t.Parallel()

		expired := raw("KSA", "https://ksa.or.kr/list", "ISO 9001:2015")
		expired.ExpiryDate = "2020-01-01"
		expired.Status = isocert.StatusExpired
		renewed := raw("KSA", "https://ksa.or.kr/list", "ISO 9001:2015")
		renewed.ExpiryDate = "2030-01-01"
		renewed.Status = isocert.StatusValid
		pool := scrape.NewPool(nil, scraper("KSA", 0, []*isocert.RawCertification{expired, renewed}, nil))

		got, err := pool.FetchAll(context.Background(), "삼성전자")

		require.NoError(t, err)
		require.Len(t, got, 2)
		merged := isocert.MergeCertifications(isocert.ConvertRaw(got))
		require.Len(t, merged, 1)
		assert.Equal(t, "2030-01-01", merged[0].ExpiryDate)
		assert.Equal(t, isocert.StatusValid, merged[0].Status)
		assert.Len(t, merged[0].Sources, 1)
	})

	t.Run("reports timeouts when the context expires", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		pool := scrape.NewPool(nil, scraper("KSA", time.Second, nil, nil))

		got, err := pool.FetchAll(ctx, "삼성전자")

		assert.Empty(t, got)
		var se *isocert.SourceError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, isocert.KindTimeout, se.Kind)
	})

	t.Run("no scrapers yields nothing", func(t *testing.T) {
		t.Parallel()

		got, err := scrape.NewPool(nil).FetchAll(context.Background(), "x")

		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
