package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/fwojciec/isocert"
	"github.com/google/uuid"
)

// MaxMatches caps the rows returned by FindCertifications.
const MaxMatches = 20

var _ isocert.CertificationService = (*CertificationService)(nil)

// CertificationService implements isocert.CertificationService using MySQL.
type CertificationService struct {
	db *sql.DB
}

// NewCertificationService creates a new CertificationService.
func NewCertificationService(db *sql.DB) *CertificationService {
	return &CertificationService{db: db}
}

// CreateCertification stores a new certification record.
func (s *CertificationService) CreateCertification(ctx context.Context, cert *isocert.Certification) error {
	if err := cert.Validate(); err != nil {
		return err
	}
	status := cert.Status
	if status == "" {
		status = isocert.StatusUnknown
	}
	bodies := cert.CertificationBodies
	if bodies == nil {
		bodies = []isocert.Body{}
	}

	types, err := json.Marshal(cert.CertificationTypes)
	if err != nil {
		return err
	}
	bodiesJSON, err := json.Marshal(bodies)
	if err != nil {
		return err
	}
	sources, err := json.Marshal(cert.Sources)
	if err != nil {
		return err
	}

	const q = `
INSERT INTO iso_certifications
  (id, company_name, company_name_en, certification_types, certification_bodies,
   issued_date, expiry_date, status, sources, created_at, updated_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?);
`
	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, q, uuid.New().String(), cert.CompanyName, cert.CompanyNameEn,
		string(types), string(bodiesJSON), cert.IssuedDate, cert.ExpiryDate, string(status),
		string(sources), now, now)
	return err
}

// FindCertifications returns up to MaxMatches records whose Korean or
// English name contains companyName, most recently updated first.
func (s *CertificationService) FindCertifications(ctx context.Context, companyName string) ([]*isocert.Certification, error) {
	pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(companyName))) + "%"

	const q = `
SELECT company_name, company_name_en, certification_types, certification_bodies,
       issued_date, expiry_date, status, sources
FROM iso_certifications
WHERE LOWER(company_name) LIKE ? OR LOWER(company_name_en) LIKE ?
ORDER BY updated_at DESC
LIMIT ?;
`
	rows, err := s.db.QueryContext(ctx, q, pattern, pattern, MaxMatches)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*isocert.Certification{}
	for rows.Next() {
		var c isocert.Certification
		var types, bodies, sources []byte
		var status string
		if err := rows.Scan(&c.CompanyName, &c.CompanyNameEn, &types, &bodies,
			&c.IssuedDate, &c.ExpiryDate, &status, &sources); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(types, &c.CertificationTypes); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(bodies, &c.CertificationBodies); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(sources, &c.Sources); err != nil {
			return nil, err
		}
		c.Status = isocert.ParseStatus(status)
		out = append(out, &c)
	}
	return out, rows.Err()
}

// CountCertifications returns the number of stored records.
func (s *CertificationService) CountCertifications(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM iso_certifications`).Scan(&n)
	return n, err
}

// escapeLike escapes LIKE wildcards; backslash is MySQL's default escape.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
