//go:build integration

package gemini_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/fwojciec/isocert/gemini"
	"github.com/fwojciec/isocert/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestLLM_Integration_ReturnsJSON(t *testing.T) {
	t.Parallel()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	require.NoError(t, err)

	llm := gemini.NewLLM(client, "")

	text, err := llm.Complete(ctx, search.SystemPrompt, search.BuildPrompt("삼성전자"))

	require.NoError(t, err)
	assert.Contains(t, text, "[")
}
