package http

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/fwojciec/isocert"
)

// GoogleNewsURL is the Google News RSS search endpoint for Korean results.
const GoogleNewsURL = "https://news.google.com/rss/search?hl=ko&gl=KR&ceid=KR:ko&q="

// SourceGoogleNews is the source name reported for Google News findings.
const SourceGoogleNews = "Google News"

// Ensure GoogleNewsScraper implements isocert.Scraper at compile time.
var _ isocert.Scraper = (*GoogleNewsScraper)(nil)

// GoogleNewsScraper searches the Google News RSS feed. Every article whose
// title names an ISO standard becomes one finding.
type GoogleNewsScraper struct {
	fetcher isocert.Fetcher

	// BaseURL is the search endpoint the escaped query is appended to.
	BaseURL string

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewGoogleNewsScraper creates a new GoogleNewsScraper.
func NewGoogleNewsScraper(fetcher isocert.Fetcher) *GoogleNewsScraper {
	return &GoogleNewsScraper{fetcher: fetcher, BaseURL: GoogleNewsURL, Now: time.Now}
}

// Name returns the source name.
func (s *GoogleNewsScraper) Name() string { return SourceGoogleNews }

// Scrape searches the feed for companyName.
func (s *GoogleNewsScraper) Scrape(ctx context.Context, companyName string) ([]*isocert.RawCertification, error) {
	feedURL := s.BaseURL + url.QueryEscape(companyName+" ISO 인증")
	body, err := s.fetcher.Fetch(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	items, err := ParseFeed(body)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	var records []*isocert.RawCertification
	for _, item := range items {
		if !strings.Contains(item.Title, "ISO") {
			continue
		}
		types := isocert.ExtractISOTypes(item.Title)
		if len(types) == 0 {
			continue
		}
		link := item.Link
		if link == "" {
			link = feedURL
		}
		records = append(records, &isocert.RawCertification{
			CompanyName:         companyName,
			CertificationTypes:  types,
			CertificationBodies: isocert.MatchBodies(item.Title),
			Status:              isocert.StatusUnknown,
			Source:              SourceGoogleNews,
			SourceURL:           link,
			RetrievedAt:         now,
		})
	}
	return records, nil
}

// FeedItem is one RSS item.
type FeedItem struct {
	Title string
	Link  string
}

// ParseFeed reads the items of an RSS 2.0 document.
func ParseFeed(body string) ([]FeedItem, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(body); err != nil {
		return nil, isocert.Errorf(isocert.EINVALID, "parsing feed XML: %v", err)
	}

	root := doc.Root()
	if root == nil || root.Tag != "rss" {
		return nil, isocert.Errorf(isocert.EINVALID, "not an RSS feed")
	}
	channel := root.SelectElement("channel")
	if channel == nil {
		return nil, isocert.Errorf(isocert.EINVALID, "RSS feed has no channel")
	}

	var items []FeedItem
	for _, el := range channel.SelectElements("item") {
		var item FeedItem
		if title := el.SelectElement("title"); title != nil {
			item.Title = strings.Join(strings.Fields(title.Text()), " ")
		}
		if link := el.SelectElement("link"); link != nil {
			item.Link = strings.TrimSpace(link.Text())
		}
		if item.Title == "" {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

