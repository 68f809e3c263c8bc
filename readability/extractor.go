// Package readability extracts the main content of company pages with
// go-readability. It serves as the fallback when trafilatura finds nothing.
package readability

import (
	"strings"

	"github.com/fwojciec/isocert"
	"github.com/go-shiori/go-readability"
)

var _ isocert.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the page's title and main article HTML.
func (e *Extractor) Extract(rawHTML string) (*isocert.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, isocert.Errorf(isocert.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &isocert.ExtractResult{
		Title:       strings.TrimSpace(article.Title),
		ContentHTML: article.Content,
	}, nil
}
