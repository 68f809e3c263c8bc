// Package trafilatura extracts the main content of company pages with
// go-trafilatura, so certification mentions outside marked-up sections can
// still be found.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/isocert"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

var _ isocert.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura. Tables are kept since certificate lists
// are often tabular.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the page's title and main content as HTML.
func (e *Extractor) Extract(rawHTML string) (*isocert.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, isocert.Errorf(isocert.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
	})
	if err != nil {
		return nil, err
	}

	res := &isocert.ExtractResult{Title: result.Metadata.Title}
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, err
		}
		res.ContentHTML = buf.String()
	}
	return res, nil
}
