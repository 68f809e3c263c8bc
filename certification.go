package isocert

import (
	"context"
	"sort"
	"strings"
	"time"
)

// Status is the validity state of a certification.
type Status string

// Certification statuses.
const (
	StatusValid   Status = "valid"
	StatusExpired Status = "expired"
	StatusUnknown Status = "unknown"
)

// ParseStatus maps s onto a Status. Anything unrecognised is StatusUnknown.
func ParseStatus(s string) Status {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusValid:
		return StatusValid
	case StatusExpired:
		return StatusExpired
	default:
		return StatusUnknown
	}
}

// rank orders statuses for merging: valid > unknown > expired.
func (s Status) rank() int {
	switch s {
	case StatusValid:
		return 2
	case StatusExpired:
		return 0
	default:
		return 1
	}
}

// Overrides reports whether s should replace existing when two claims about
// the same certification are merged. A valid claim overrides anything; an
// unknown claim overrides only an expired one.
func (s Status) Overrides(existing Status) bool {
	return s.rank() > existing.rank()
}

// Body is a certifying body, e.g. KSA or DQS.
type Body struct {
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// ParseBody parses a body written as "Name(CODE)" or a bare name.
func ParseBody(s string) Body {
	s = strings.TrimSpace(s)
	open := strings.LastIndex(s, "(")
	if open > 0 && strings.HasSuffix(s, ")") {
		return Body{
			Name: strings.TrimSpace(s[:open]),
			Code: strings.TrimSpace(s[open+1 : len(s)-1]),
		}
	}
	return Body{Name: s}
}

// Source is a provenance entry for a certification record.
type Source struct {
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	RetrievedAt time.Time `json:"retrievedAt"`
}

// Certification is a normalized ISO certification record for one company and
// one set of standards. Records from different sources describing the same
// certification share a merge key.
type Certification struct {
	CompanyName         string   `json:"companyName"`
	CompanyNameEn       string   `json:"companyNameEn,omitempty"`
	CertificationTypes  []string `json:"certificationTypes"`
	CertificationBodies []Body   `json:"certificationBodies"`
	IssuedDate          string   `json:"issuedDate,omitempty"`
	ExpiryDate          string   `json:"expiryDate,omitempty"`
	Status              Status   `json:"status"`
	Sources             []Source `json:"sources"`
}

// Validate returns an error if the certification contains invalid fields.
func (c *Certification) Validate() error {
	if strings.TrimSpace(c.CompanyName) == "" {
		return Errorf(EINVALID, "certification company name required")
	}
	if len(c.CertificationTypes) == 0 {
		return Errorf(EINVALID, "certification types required")
	}
	if len(c.Sources) == 0 {
		return Errorf(EINVALID, "certification source required")
	}
	return nil
}

// MergeKey returns the identity of the certification across sources: the
// lowercased company name and the sorted, comma-joined certification types.
func (c *Certification) MergeKey() string {
	types := make([]string, len(c.CertificationTypes))
	copy(types, c.CertificationTypes)
	sort.Strings(types)
	return strings.ToLower(c.CompanyName) + "|" + strings.Join(types, ",")
}

// Clone returns a deep copy of c.
func (c *Certification) Clone() *Certification {
	other := *c
	other.CertificationTypes = append([]string(nil), c.CertificationTypes...)
	other.CertificationBodies = append([]Body(nil), c.CertificationBodies...)
	other.Sources = append([]Source(nil), c.Sources...)
	return &other
}

// RawCertification is a single finding reported by one scraper. It carries
// one provenance entry instead of a list.
type RawCertification struct {
	CompanyName         string
	CertificationTypes  []string
	CertificationBodies []Body
	IssuedDate          string
	ExpiryDate          string
	Status              Status
	Source              string
	SourceURL           string
	RetrievedAt         time.Time
}

// ToCertification converts the finding into the standard record form.
func (r *RawCertification) ToCertification() *Certification {
	status := r.Status
	if status == "" {
		status = StatusUnknown
	}
	return &Certification{
		CompanyName:         r.CompanyName,
		CertificationTypes:  append([]string(nil), r.CertificationTypes...),
		CertificationBodies: append([]Body(nil), r.CertificationBodies...),
		IssuedDate:          r.IssuedDate,
		ExpiryDate:          r.ExpiryDate,
		Status:              status,
		Sources: []Source{{
			URL:         r.SourceURL,
			Source:      r.Source,
			RetrievedAt: r.RetrievedAt,
		}},
	}
}

// ConvertRaw converts scraper findings into standard records, preserving order.
func ConvertRaw(raws []*RawCertification) []*Certification {
	certs := make([]*Certification, 0, len(raws))
	for _, r := range raws {
		if r == nil {
			continue
		}
		certs = append(certs, r.ToCertification())
	}
	return certs
}

// CertificationFinder finds certification records by company name.
type CertificationFinder interface {
	// FindCertifications returns records whose company name matches
	// companyName. An empty result is not an error.
	FindCertifications(ctx context.Context, companyName string) ([]*Certification, error)
}

// CertificationService represents a service for managing curated
// certification records.
type CertificationService interface {
	CertificationFinder

	// CreateCertification stores a new certification record.
	CreateCertification(ctx context.Context, cert *Certification) error

	// CountCertifications returns the number of stored records.
	CountCertifications(ctx context.Context) (int, error)
}
