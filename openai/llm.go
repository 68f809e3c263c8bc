// Package openai implements isocert.LLM on top of the OpenAI chat
// completions API.
package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/isocert"
	"github.com/sashabaranov/go-openai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

const (
	maxTokens   = 2048
	temperature = 0.1
)

// Ensure LLM implements isocert.LLM at compile time.
var _ isocert.LLM = (*LLM)(nil)

// LLM implements isocert.LLM using OpenAI chat completions.
type LLM struct {
	client *openai.Client
	model  string
}

// NewLLM creates a new LLM for apiKey. An empty model selects DefaultModel.
func NewLLM(apiKey, model string) *LLM {
	return NewLLMWithConfig(openai.DefaultConfig(apiKey), model)
}

// NewLLMWithConfig creates a new LLM from a client config, which allows
// pointing it at a compatible endpoint.
func NewLLMWithConfig(config openai.ClientConfig, model string) *LLM {
	if model == "" {
		model = DefaultModel
	}
	return &LLM{client: openai.NewClientWithConfig(config), model: model}
}

// Complete sends one prompt and returns the first choice's content.
func (l *LLM) Complete(ctx context.Context, system, prompt string) (string, error) {
	if prompt == "" {
		return "", isocert.Errorf(isocert.EINVALID, "prompt required")
	}

	resp, err := l.client.CreateChatCompletion(ctx, BuildRequest(l.model, system, prompt))
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", isocert.Errorf(isocert.EINTERNAL, "openai returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// BuildRequest returns the chat completion request for one lookup.
func BuildRequest(model, system, prompt string) openai.ChatCompletionRequest {
	var messages []openai.ChatCompletionMessage
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt})

	req := openai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
	}
	// Reasoning models take MaxCompletionTokens and reject temperature.
	if isReasoningModel(model) {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
		req.Temperature = temperature
	}
	return req
}

func isReasoningModel(model string) bool {
	for _, prefix := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}
