package isocert

import "context"

// LLM performs a single prompt/response round trip with a language model.
type LLM interface {
	// Complete sends the system instruction and prompt and returns the raw
	// model text. The text may be empty or not the format asked for.
	Complete(ctx context.Context, system, prompt string) (string, error)
}
