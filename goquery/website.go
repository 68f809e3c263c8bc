package goquery

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/isocert"
	"github.com/fwojciec/isocert/bloom"
)

// certSections matches page regions that usually list certifications.
const certSections = ".certification, .cert-section, [data-certification], .quality, .iso-info"

var hostLabel = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?$`)

// CandidateURLs guesses the company's website from its name. Names that do
// not form a valid ASCII host label, such as Korean names, yield no guesses.
func CandidateURLs(companyName string) []string {
	label := strings.ToLower(strings.Join(strings.Fields(companyName), ""))
	if !hostLabel.MatchString(label) {
		return nil
	}
	return []string{
		"https://www." + label + ".com",
		"https://" + label + ".co.kr",
		"https://www." + label + ".co.kr",
	}
}

// Ensure CompanyWebsiteScraper implements isocert.Scraper at compile time.
var _ isocert.Scraper = (*CompanyWebsiteScraper)(nil)

// CompanyWebsiteScraper probes guessed company websites for certification
// sections. It stops at the first site that yields findings.
type CompanyWebsiteScraper struct {
	fetcher isocert.Fetcher
	opts    options
}

// NewCompanyWebsiteScraper creates a new CompanyWebsiteScraper.
func NewCompanyWebsiteScraper(fetcher isocert.Fetcher, opts ...Option) *CompanyWebsiteScraper {
	o := newOptions("", opts)
	if o.candidates == nil {
		o.candidates = CandidateURLs
	}
	return &CompanyWebsiteScraper{fetcher: fetcher, opts: o}
}

// Name returns the source name.
func (s *CompanyWebsiteScraper) Name() string { return SourceCompanyWebsite }

// Scrape tries each candidate site in turn, fetching each page at most once.
// Unreachable guesses are skipped; only cancellation of ctx is reported as an
// error.
func (s *CompanyWebsiteScraper) Scrape(ctx context.Context, companyName string) ([]*isocert.RawCertification, error) {
	visited := bloom.NewFilter(64, 1e-6)
	for _, u := range s.opts.candidates(companyName) {
		if visited.TestAndAdd(pageKey(u)) {
			continue
		}
		html, err := s.fetcher.Fetch(ctx, u)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}

		texts, err := SectionTexts(html)
		if err != nil {
			continue
		}
		if len(texts) == 0 {
			if text := s.mainContent(html); text != "" {
				texts = []string{text}
			}
		}

		records := s.findings(companyName, u, texts)
		if len(records) > 0 {
			return records, nil
		}
	}
	return nil, nil
}

// pageKey fingerprints a page address ignoring fragment, host case and a
// trailing slash.
func pageKey(raw string) uint64 {
	u, err := url.Parse(raw)
	if err != nil {
		return xxhash.Sum64String(raw)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawPath = ""
	return xxhash.Sum64String(u.String())
}

// SectionTexts returns the whitespace-collapsed text of every certification
// section of a page.
func SectionTexts(html string) ([]string, error) {
	doc, err := parseHTML(html)
	if err != nil {
		return nil, err
	}
	var texts []string
	doc.Find(certSections).Each(func(_ int, sel *goquery.Selection) {
		if text := strings.Join(strings.Fields(sel.Text()), " "); text != "" {
			texts = append(texts, text)
		}
	})
	return texts, nil
}

// mainContent extracts the page's main content as Markdown using the first
// extractor that succeeds. It returns "" when none is configured or all fail.
func (s *CompanyWebsiteScraper) mainContent(html string) string {
	for _, ext := range s.opts.extractors {
		res, err := ext.Extract(html)
		if err != nil || strings.TrimSpace(res.ContentHTML) == "" {
			continue
		}
		if s.opts.converter == nil {
			return res.ContentHTML
		}
		md, err := s.opts.converter.Convert(res.ContentHTML)
		if err != nil {
			continue
		}
		return md
	}
	return ""
}

func (s *CompanyWebsiteScraper) findings(companyName, pageURL string, texts []string) []*isocert.RawCertification {
	now := s.opts.now()
	var records []*isocert.RawCertification
	for _, text := range texts {
		types := isocert.ExtractISOTypes(text)
		if len(types) == 0 {
			continue
		}
		records = append(records, &isocert.RawCertification{
			CompanyName:         companyName,
			CertificationTypes:  types,
			CertificationBodies: isocert.MatchBodies(text),
			Status:              isocert.StatusUnknown,
			Source:              SourceCompanyWebsite,
			SourceURL:           pageURL,
			RetrievedAt:         now,
		})
	}
	return records
}
