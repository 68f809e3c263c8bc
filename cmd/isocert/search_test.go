package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/fwojciec/isocert"
	main "github.com/fwojciec/isocert/cmd/isocert"
	"github.com/fwojciec/isocert/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchResult(fromCache bool, certs ...*isocert.Certification) *mock.SearchService {
	return &mock.SearchService{
		SearchFn: func(context.Context, string) (*isocert.SearchResult, error) {
			return &isocert.SearchResult{
				Results:   certs,
				FromCache: fromCache,
				Timestamp: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			}, nil
		},
	}
}

func TestSearchCmd_Run(t *testing.T) {
	t.Parallel()

	samsung := &isocert.Certification{
		CompanyName:         "삼성전자",
		CompanyNameEn:       "Samsung Electronics",
		CertificationTypes:  []string{"ISO 9001:2015", "ISO 14001:2015"},
		CertificationBodies: []isocert.Body{{Name: "한국표준협회", Code: "KSA"}},
		IssuedDate:          "2022-06-10",
		ExpiryDate:          "2025-06-09",
		Status:              isocert.StatusValid,
		Sources:             []isocert.Source{{URL: "https://ksa.or.kr/search", Source: "KSA Certification Database"}},
	}

	t.Run("prints certifications", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Search: searchResult(true, samsung),
		}

		err := (&main.SearchCmd{Company: "삼성전자"}).Run(deps)

		require.NoError(t, err)
		output := stdout.String()
		assert.Contains(t, output, "1 result(s)")
		assert.Contains(t, output, "(cache)")
		assert.Contains(t, output, "삼성전자 (Samsung Electronics)  [valid]")
		assert.Contains(t, output, "ISO 9001:2015, ISO 14001:2015")
		assert.Contains(t, output, "한국표준협회(KSA)")
		assert.Contains(t, output, "2022-06-10 ~ 2025-06-09")
		assert.Contains(t, output, "https://ksa.or.kr/search")
	})

	t.Run("prints JSON", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Search: searchResult(false, samsung),
		}

		err := (&main.SearchCmd{Company: "삼성전자", JSON: true}).Run(deps)

		require.NoError(t, err)
		var got struct {
			Results   []map[string]any `json:"results"`
			FromCache bool             `json:"fromCache"`
		}
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
		assert.Len(t, got.Results, 1)
		assert.False(t, got.FromCache)
	})

	t.Run("reports no results", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Search: searchResult(false),
		}

		err := (&main.SearchCmd{Company: "없는회사"}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No certifications found")
	})

	t.Run("reports invalid input", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Search: &mock.SearchService{
				SearchFn: func(context.Context, string) (*isocert.SearchResult, error) {
					return nil, isocert.Errorf(isocert.EINVALID, "company name required")
				},
			},
		}

		err := (&main.SearchCmd{Company: " "}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "company name required")
	})
}
