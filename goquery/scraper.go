// Package goquery implements the HTML scrapers of the certification lookup
// using CSS selectors.
package goquery

import (
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/isocert"
)

// Source names reported by the scrapers in this package.
const (
	SourceKSA            = "KSA"
	SourceNaverNews      = "Naver News"
	SourceNaverBlog      = "Naver Blog"
	SourceCompanyWebsite = "Company Website"
)

// options holds the settings shared by the scrapers.
type options struct {
	baseURL    string
	now        func() time.Time
	extractors []isocert.Extractor
	converter  isocert.Converter
	candidates func(companyName string) []string
}

// Option configures a scraper.
type Option func(*options)

// WithBaseURL replaces the scraper's search endpoint.
func WithBaseURL(u string) Option {
	return func(o *options) {
		o.baseURL = u
	}
}

// WithClock sets the time source used for retrieval timestamps and status.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithExtractors sets the main-content extractors the company website
// scraper falls back to, tried in order.
func WithExtractors(extractors ...isocert.Extractor) Option {
	return func(o *options) {
		o.extractors = extractors
	}
}

// WithConverter sets the HTML to Markdown converter used with extractors.
func WithConverter(c isocert.Converter) Option {
	return func(o *options) {
		o.converter = c
	}
}

// WithCandidates replaces the company website URL guesser.
func WithCandidates(fn func(companyName string) []string) Option {
	return func(o *options) {
		o.candidates = fn
	}
}

func newOptions(baseURL string, opts []Option) options {
	o := options{baseURL: baseURL, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func parseHTML(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, isocert.Errorf(isocert.EINVALID, "failed to parse HTML: %v", err)
	}
	return doc, nil
}

// firstText returns the trimmed text of the first element matching any of
// selectors, tried in order.
func firstText(sel *goquery.Selection, selectors ...string) string {
	for _, s := range selectors {
		if text := strings.TrimSpace(sel.Find(s).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// resolveURL resolves href against base. It returns "" for links that are
// not http(s) or cannot be parsed.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	lower := strings.ToLower(href)
	if href == "" || strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "#") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	resolved.Fragment = ""
	return resolved.String()
}

// searchQuery is the query every search engine scraper sends.
func searchQuery(companyName string) string {
	return url.QueryEscape(companyName + " ISO 인증")
}
