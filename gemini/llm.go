// Package gemini implements isocert.LLM on top of Google Gemini.
package gemini

import (
	"context"

	"github.com/fwojciec/isocert"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure LLM implements isocert.LLM at compile time.
var _ isocert.LLM = (*LLM)(nil)

// LLM implements isocert.LLM using the Gemini API.
type LLM struct {
	client *genai.Client
	model  string
}

// NewLLM creates a new LLM. An empty model selects DefaultModel.
func NewLLM(client *genai.Client, model string) *LLM {
	if model == "" {
		model = DefaultModel
	}
	return &LLM{client: client, model: model}
}

// Complete sends one prompt and returns the model's text.
func (l *LLM) Complete(ctx context.Context, system, prompt string) (string, error) {
	if prompt == "" {
		return "", isocert.Errorf(isocert.EINVALID, "prompt required")
	}

	result, err := l.client.Models.GenerateContent(ctx, l.model,
		[]*genai.Content{{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildConfig(system),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", isocert.Errorf(isocert.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for a lookup call. The
// response is requested as JSON at a low temperature.
func BuildConfig(system string) *genai.GenerateContentConfig {
	temp := float32(0.1)
	config := &genai.GenerateContentConfig{
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}
	return config
}
