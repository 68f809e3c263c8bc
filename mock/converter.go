package mock

import "github.com/fwojciec/isocert"

var _ isocert.Converter = (*Converter)(nil)

// Converter is a mock implementation of isocert.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
