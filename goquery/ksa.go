package goquery

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/isocert"
)

// KSAURL is the certified-company listing of the Korean Standards Association.
const KSAURL = "https://ksa.or.kr/ksa_kr/876/subview.do"

// Ensure KSAScraper implements isocert.Scraper at compile time.
var _ isocert.Scraper = (*KSAScraper)(nil)

// KSAScraper reads the KSA certified-company listing.
type KSAScraper struct {
	fetcher isocert.Fetcher
	opts    options
}

// NewKSAScraper creates a new KSAScraper.
func NewKSAScraper(fetcher isocert.Fetcher, opts ...Option) *KSAScraper {
	return &KSAScraper{fetcher: fetcher, opts: newOptions(KSAURL, opts)}
}

// Name returns the source name.
func (s *KSAScraper) Name() string { return SourceKSA }

// Scrape returns the listing rows whose company contains companyName.
func (s *KSAScraper) Scrape(ctx context.Context, companyName string) ([]*isocert.RawCertification, error) {
	html, err := s.fetcher.Fetch(ctx, s.opts.baseURL)
	if err != nil {
		return nil, err
	}

	rows, err := ExtractKSARows(html)
	if err != nil {
		return nil, err
	}

	now := s.opts.now()
	query := strings.ToLower(strings.TrimSpace(companyName))
	var records []*isocert.RawCertification
	for _, row := range rows {
		if row.Company == "" || !strings.Contains(strings.ToLower(row.Company), query) {
			continue
		}
		types := isocert.ExtractISOTypes(row.Types)
		if len(types) == 0 {
			continue
		}
		expiry := isocert.NormalizeDate(row.Expiry)
		records = append(records, &isocert.RawCertification{
			CompanyName:         row.Company,
			CertificationTypes:  types,
			CertificationBodies: isocert.MatchBodies(row.Body),
			IssuedDate:          isocert.NormalizeDate(row.Issued),
			ExpiryDate:          expiry,
			Status:              isocert.DetermineStatus(expiry, now),
			Source:              SourceKSA,
			SourceURL:           s.opts.baseURL,
			RetrievedAt:         now,
		})
	}
	return records, nil
}

// KSARow is one entry of the KSA listing as raw text.
type KSARow struct {
	Company string
	Types   string
	Body    string
	Issued  string
	Expiry  string
}

// ksaItems matches listing entries in both the table and card layouts.
const ksaItems = "table tbody tr, .cert-list li, .certification-item, [data-certification]"

// ExtractKSARows parses the KSA listing. Table rows are read by column
// position (company, types, body, issued, expiry); card layouts by class.
func ExtractKSARows(html string) ([]KSARow, error) {
	doc, err := parseHTML(html)
	if err != nil {
		return nil, err
	}

	var rows []KSARow
	doc.Find(ksaItems).Each(func(_ int, item *goquery.Selection) {
		rows = append(rows, KSARow{
			Company: firstText(item, "td:nth-child(1)", ".company-name", "[data-company]", "strong"),
			Types:   firstText(item, "td:nth-child(2)", ".cert-type", "[data-cert-type]", ".iso-type"),
			Body:    firstText(item, "td:nth-child(3)", ".cert-body", "[data-cert-body]", ".cert-agency"),
			Issued:  firstText(item, "td:nth-child(4)", ".issued-date", "[data-issued]"),
			Expiry:  firstText(item, "td:nth-child(5)", ".expiry-date", "[data-expiry]"),
		})
	})
	return rows, nil
}
