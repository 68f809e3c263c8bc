package goquery

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/isocert"
)

// Search endpoints of the listing scrapers.
const (
	NaverNewsURL = "https://search.naver.com/search.naver?where=news&query="
	NaverBlogURL = "https://section.blog.naver.com/Search/Post.naver?pageNo=1&rangeType=ALL&orderBy=sim&keyword="
)

// ListingSelectors describe how to read a search result listing.
type ListingSelectors struct {
	// Item matches each result.
	Item string

	// Title matches the result title inside an item.
	Title string

	// Link matches the element carrying the result href inside an item.
	Link string
}

// NaverNewsSelectors read the Naver news search listing.
var NaverNewsSelectors = ListingSelectors{
	Item:  ".news_item, .news-item, .api_list_item, [data-news-item]",
	Title: ".news_tit, .title, h3, [data-title]",
	Link:  ".news_tit, a",
}

// NaverBlogSelectors read the Naver blog search listing.
var NaverBlogSelectors = ListingSelectors{
	Item:  ".post_item, .blog_item, [data-post-item], .search_result_item",
	Title: ".post_tit, .title, h3, [data-title]",
	Link:  ".post_tit, a",
}

// ListingItem is one search result.
type ListingItem struct {
	Title string
	URL   string
}

// ExtractListing returns the results of a listing page in document order.
// Relative links are resolved against pageURL; results without a title are
// skipped.
func ExtractListing(html, pageURL string, sel ListingSelectors) ([]ListingItem, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, isocert.Errorf(isocert.EINVALID, "invalid page URL: %v", err)
	}
	doc, err := parseHTML(html)
	if err != nil {
		return nil, err
	}

	var items []ListingItem
	doc.Find(sel.Item).Each(func(_ int, item *goquery.Selection) {
		title := firstText(item, sel.Title, "a")
		if title == "" {
			return
		}
		var link string
		if href, ok := item.Find(sel.Link).First().Attr("href"); ok {
			link = resolveURL(base, href)
		}
		if link == "" {
			if href, ok := item.Find("[data-url]").First().Attr("data-url"); ok {
				link = resolveURL(base, href)
			}
		}
		items = append(items, ListingItem{Title: strings.Join(strings.Fields(title), " "), URL: link})
	})
	return items, nil
}

// Ensure ListingScraper implements isocert.Scraper at compile time.
var _ isocert.Scraper = (*ListingScraper)(nil)

// ListingScraper scrapes a search engine result listing. Every result whose
// title names an ISO standard becomes one finding.
type ListingScraper struct {
	name      string
	fetcher   isocert.Fetcher
	selectors ListingSelectors
	opts      options
}

// NewNaverNewsScraper creates a scraper for Naver news search.
func NewNaverNewsScraper(fetcher isocert.Fetcher, opts ...Option) *ListingScraper {
	return &ListingScraper{
		name:      SourceNaverNews,
		fetcher:   fetcher,
		selectors: NaverNewsSelectors,
		opts:      newOptions(NaverNewsURL, opts),
	}
}

// NewNaverBlogScraper creates a scraper for Naver blog search. The listing
// is rendered client-side, so fetcher should render JavaScript.
func NewNaverBlogScraper(fetcher isocert.Fetcher, opts ...Option) *ListingScraper {
	return &ListingScraper{
		name:      SourceNaverBlog,
		fetcher:   fetcher,
		selectors: NaverBlogSelectors,
		opts:      newOptions(NaverBlogURL, opts),
	}
}

// Name returns the source name.
func (s *ListingScraper) Name() string { return s.name }

// Scrape searches for companyName and returns one finding per matching result.
func (s *ListingScraper) Scrape(ctx context.Context, companyName string) ([]*isocert.RawCertification, error) {
	pageURL := s.opts.baseURL + searchQuery(companyName)
	html, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	items, err := ExtractListing(html, pageURL, s.selectors)
	if err != nil {
		return nil, err
	}

	now := s.opts.now()
	var records []*isocert.RawCertification
	for _, item := range items {
		if !strings.Contains(item.Title, "ISO") {
			continue
		}
		types := isocert.ExtractISOTypes(item.Title)
		if len(types) == 0 {
			continue
		}
		link := item.URL
		if link == "" {
			link = pageURL
		}
		records = append(records, &isocert.RawCertification{
			CompanyName:         companyName,
			CertificationTypes:  types,
			CertificationBodies: isocert.MatchBodies(item.Title),
			Status:              isocert.StatusUnknown,
			Source:              s.name,
			SourceURL:           link,
			RetrievedAt:         now,
		})
	}
	return records, nil
}
