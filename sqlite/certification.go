package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/isocert"
	"github.com/google/uuid"
)

// MaxMatches caps the rows returned by FindCertifications.
const MaxMatches = 20

// Compile-time interface verification.
var _ isocert.CertificationService = (*CertificationService)(nil)

// CertificationService implements isocert.CertificationService using SQLite.
type CertificationService struct {
	db *DB
}

// NewCertificationService creates a new CertificationService.
func NewCertificationService(db *DB) *CertificationService {
	return &CertificationService{db: db}
}

// CreateCertification stores a new certification record.
func (s *CertificationService) CreateCertification(ctx context.Context, cert *isocert.Certification) error {
	if err := cert.Validate(); err != nil {
		return err
	}
	if cert.Status == "" {
		cert.Status = isocert.StatusUnknown
	}

	types, err := encodeJSON(cert.CertificationTypes, "certification_types")
	if err != nil {
		return err
	}
	bodies, err := encodeJSON(nonNilBodies(cert.CertificationBodies), "certification_bodies")
	if err != nil {
		return err
	}
	sources, err := encodeJSON(cert.Sources, "sources")
	if err != nil {
		return err
	}

	now := formatTime(time.Now())
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO iso_certifications (id, company_name, company_name_en, certification_types,
			certification_bodies, issued_date, expiry_date, status, sources, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), cert.CompanyName, cert.CompanyNameEn, types,
		bodies, cert.IssuedDate, cert.ExpiryDate, string(cert.Status), sources, now, now)

	return err
}

// FindCertifications returns up to MaxMatches records whose Korean or
// English company name contains companyName, case-insensitively, most
// recently updated first.
func (s *CertificationService) FindCertifications(ctx context.Context, companyName string) ([]*isocert.Certification, error) {
	pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(companyName))) + "%"

	rows, err := s.db.QueryContext(ctx, `
		SELECT company_name, company_name_en, certification_types, certification_bodies,
			issued_date, expiry_date, status, sources
		FROM iso_certifications
		WHERE LOWER(company_name) LIKE ? ESCAPE '\'
			OR LOWER(company_name_en) LIKE ? ESCAPE '\'
		ORDER BY updated_at DESC
		LIMIT ?
	`, pattern, pattern, MaxMatches)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	certs := []*isocert.Certification{}
	for rows.Next() {
		var cert isocert.Certification
		var types, bodies, sources, status string

		if err := rows.Scan(&cert.CompanyName, &cert.CompanyNameEn, &types, &bodies,
			&cert.IssuedDate, &cert.ExpiryDate, &status, &sources); err != nil {
			return nil, err
		}
		if err := decodeJSON(types, "certification_types", &cert.CertificationTypes); err != nil {
			return nil, err
		}
		if err := decodeJSON(bodies, "certification_bodies", &cert.CertificationBodies); err != nil {
			return nil, err
		}
		if err := decodeJSON(sources, "sources", &cert.Sources); err != nil {
			return nil, err
		}
		cert.Status = isocert.ParseStatus(status)

		certs = append(certs, &cert)
	}

	return certs, rows.Err()
}

// CountCertifications returns the number of stored records.
func (s *CertificationService) CountCertifications(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM iso_certifications").Scan(&n)
	return n, err
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func nonNilBodies(b []isocert.Body) []isocert.Body {
	if b == nil {
		return []isocert.Body{}
	}
	return b
}
