package mock

import "github.com/fwojciec/isocert"

var _ isocert.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of isocert.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*isocert.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*isocert.ExtractResult, error) {
	return e.ExtractFn(html)
}
