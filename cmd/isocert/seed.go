package main

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fwojciec/isocert"
)

//go:embed seed.json
var seedJSON []byte

// seedRecord is the on-disk form of a sample certification. Bodies are
// written as "Name(CODE)".
type seedRecord struct {
	CompanyName         string   `json:"companyName"`
	CompanyNameEn       string   `json:"companyNameEn"`
	CertificationTypes  []string `json:"certificationTypes"`
	CertificationBodies []string `json:"certificationBodies"`
	IssuedDate          string   `json:"issuedDate"`
	ExpiryDate          string   `json:"expiryDate"`
	Status              string   `json:"status"`
	Sources             []struct {
		URL    string `json:"url"`
		Source string `json:"source"`
	} `json:"sources"`
}

// SeedCertifications decodes the embedded sample data, stamping sources
// with now.
func SeedCertifications(now time.Time) ([]*isocert.Certification, error) {
	var records []seedRecord
	if err := json.Unmarshal(seedJSON, &records); err != nil {
		return nil, fmt.Errorf("failed to decode seed data: %w", err)
	}

	certs := make([]*isocert.Certification, 0, len(records))
	for _, r := range records {
		c := &isocert.Certification{
			CompanyName:        r.CompanyName,
			CompanyNameEn:      r.CompanyNameEn,
			CertificationTypes: r.CertificationTypes,
			IssuedDate:         r.IssuedDate,
			ExpiryDate:         r.ExpiryDate,
			Status:             isocert.ParseStatus(r.Status),
		}
		for _, b := range r.CertificationBodies {
			c.CertificationBodies = append(c.CertificationBodies, isocert.ParseBody(b))
		}
		for _, s := range r.Sources {
			c.Sources = append(c.Sources, isocert.Source{URL: s.URL, Source: s.Source, RetrievedAt: now})
		}
		certs = append(certs, c)
	}
	return certs, nil
}

// Run executes the seed command.
func (c *SeedCmd) Run(deps *Dependencies) error {
	n, err := deps.Certifications.CountCertifications(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", isocert.ErrorMessage(err))
		return err
	}
	if n > 0 && !c.Force {
		fmt.Fprintf(deps.Stdout, "Database already has %d record(s). Use --force to seed anyway.\n", n)
		return nil
	}

	certs, err := SeedCertifications(time.Now().UTC())
	if err != nil {
		return err
	}
	for _, cert := range certs {
		if err := deps.Certifications.CreateCertification(deps.Ctx, cert); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", cert.CompanyName, isocert.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Added %s (%s)\n", cert.CompanyName, cert.CompanyNameEn)
	}
	fmt.Fprintf(deps.Stdout, "Seeded %d certification(s)\n", len(certs))
	return nil
}
