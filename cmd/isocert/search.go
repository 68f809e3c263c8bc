package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/isocert"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	res, err := deps.Search.Search(deps.Ctx, c.Company)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", isocert.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	if len(res.Results) == 0 {
		fmt.Fprintf(deps.Stdout, "No certifications found for %q.\n", c.Company)
		return nil
	}

	origin := "live"
	if res.FromCache {
		origin = "cache"
	}
	fmt.Fprintf(deps.Stdout, "%d result(s) for %q (%s)\n", len(res.Results), c.Company, origin)
	for _, cert := range res.Results {
		fmt.Fprintln(deps.Stdout)
		printCertification(deps, cert)
	}
	return nil
}

func printCertification(deps *Dependencies, c *isocert.Certification) {
	name := c.CompanyName
	if c.CompanyNameEn != "" {
		name += " (" + c.CompanyNameEn + ")"
	}
	fmt.Fprintf(deps.Stdout, "%s  [%s]\n", name, c.Status)
	fmt.Fprintf(deps.Stdout, "  standards: %s\n", strings.Join(c.CertificationTypes, ", "))

	if len(c.CertificationBodies) > 0 {
		bodies := make([]string, len(c.CertificationBodies))
		for i, b := range c.CertificationBodies {
			bodies[i] = b.Name
			if b.Code != "" {
				bodies[i] += "(" + b.Code + ")"
			}
		}
		fmt.Fprintf(deps.Stdout, "  bodies:    %s\n", strings.Join(bodies, ", "))
	}
	if c.IssuedDate != "" || c.ExpiryDate != "" {
		fmt.Fprintf(deps.Stdout, "  valid:     %s ~ %s\n", orDash(c.IssuedDate), orDash(c.ExpiryDate))
	}
	for _, s := range c.Sources {
		if s.URL == "" {
			fmt.Fprintf(deps.Stdout, "  source:    %s\n", s.Source)
			continue
		}
		fmt.Fprintf(deps.Stdout, "  source:    %s %s\n", s.Source, s.URL)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
