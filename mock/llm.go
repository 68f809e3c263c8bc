package mock

import (
	"context"

	"github.com/fwojciec/isocert"
)

var _ isocert.LLM = (*LLM)(nil)

// LLM is a mock implementation of isocert.LLM.
type LLM struct {
	CompleteFn func(ctx context.Context, system, prompt string) (string, error)
}

func (l *LLM) Complete(ctx context.Context, system, prompt string) (string, error) {
	return l.CompleteFn(ctx, system, prompt)
}
