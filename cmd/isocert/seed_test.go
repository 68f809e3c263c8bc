package main_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/fwojciec/isocert"
	main "github.com/fwojciec/isocert/cmd/isocert"
	"github.com/fwojciec/isocert/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedCertifications(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	certs, err := main.SeedCertifications(now)

	require.NoError(t, err)
	require.Len(t, certs, 10)
	for _, c := range certs {
		require.NoError(t, c.Validate(), c.CompanyName)
		for _, s := range c.Sources {
			assert.Equal(t, now, s.RetrievedAt)
		}
	}

	samsung := certs[1]
	assert.Equal(t, "삼성전자", samsung.CompanyName)
	assert.Equal(t, isocert.StatusValid, samsung.Status)
	assert.Equal(t, []isocert.Body{{Name: "한국표준협회", Code: "KSA"}, {Name: "DQS"}}, samsung.CertificationBodies)
}

func TestSeedCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("seeds empty database", func(t *testing.T) {
		t.Parallel()

		var created []*isocert.Certification
		certs := &mock.CertificationService{
			CountCertificationsFn: func(context.Context) (int, error) { return 0, nil },
			CreateCertificationFn: func(_ context.Context, c *isocert.Certification) error {
				created = append(created, c)
				return nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:            context.Background(),
			Stdout:         stdout,
			Stderr:         &bytes.Buffer{},
			Certifications: certs,
		}

		err := (&main.SeedCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Len(t, created, 10)
		assert.Contains(t, stdout.String(), "Seeded 10 certification(s)")
	})

	t.Run("skips populated database", func(t *testing.T) {
		t.Parallel()

		certs := &mock.CertificationService{
			CountCertificationsFn: func(context.Context) (int, error) { return 3, nil },
			CreateCertificationFn: func(context.Context, *isocert.Certification) error {
				t.Fatal("unexpected insert")
				return nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:            context.Background(),
			Stdout:         stdout,
			Stderr:         &bytes.Buffer{},
			Certifications: certs,
		}

		err := (&main.SeedCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "--force")
	})

	t.Run("force seeds populated database", func(t *testing.T) {
		t.Parallel()

		var n int
		certs := &mock.CertificationService{
			CountCertificationsFn: func(context.Context) (int, error) { return 3, nil },
			CreateCertificationFn: func(context.Context, *isocert.Certification) error {
				n++
				return nil
			},
		}
		deps := &main.Dependencies{
			Ctx:            context.Background(),
			Stdout:         &bytes.Buffer{},
			Stderr:         &bytes.Buffer{},
			Certifications: certs,
		}

		err := (&main.SeedCmd{Force: true}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, 10, n)
	})
}
