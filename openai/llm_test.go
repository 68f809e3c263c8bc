package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/isocert"
	isoopenai "github.com/fwojciec/isocert/openai"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLLM(t *testing.T, handler http.HandlerFunc) *isoopenai.LLM {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"
	return isoopenai.NewLLMWithConfig(config, "")
}

func TestLLM_Complete(t *testing.T) {
	t.Parallel()

	t.Run("returns first choice content", func(t *testing.T) {
		t.Parallel()

		var got openai.ChatCompletionRequest
		llm := newTestLLM(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			_ = json.NewDecoder(r.Body).Decode(&got)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"[]"}}]}`))
		})

		text, err := llm.Complete(context.Background(), "system text", "user text")

		require.NoError(t, err)
		assert.Equal(t, "[]", text)
		assert.Equal(t, isoopenai.DefaultModel, got.Model)
		require.Len(t, got.Messages, 2)
		assert.Equal(t, openai.ChatMessageRoleSystem, got.Messages[0].Role)
		assert.Equal(t, "system text", got.Messages[0].Content)
		assert.Equal(t, "user text", got.Messages[1].Content)
	})

	t.Run("returns error when no choices", func(t *testing.T) {
		t.Parallel()

		llm := newTestLLM(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"choices":[]}`))
		})

		_, err := llm.Complete(context.Background(), "", "user text")

		require.Error(t, err)
		assert.Equal(t, isocert.EINTERNAL, isocert.ErrorCode(err))
	})

	t.Run("returns error on API failure", func(t *testing.T) {
		t.Parallel()

		llm := newTestLLM(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit"}}`))
		})

		_, err := llm.Complete(context.Background(), "", "user text")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "chat completion")
	})

	t.Run("rejects empty prompt", func(t *testing.T) {
		t.Parallel()

		llm := isoopenai.NewLLM("test-key", "")

		_, err := llm.Complete(context.Background(), "system", "")

		require.Error(t, err)
		assert.Equal(t, isocert.EINVALID, isocert.ErrorCode(err))
	})
}

func TestBuildRequest(t *testing.T) {
	t.Parallel()

	t.Run("chat models use max tokens and temperature", func(t *testing.T) {
		t.Parallel()

		req := isoopenai.BuildRequest("gpt-4o-mini", "sys", "prompt")

		assert.Positive(t, req.MaxTokens)
		assert.Zero(t, req.MaxCompletionTokens)
		assert.InDelta(t, 0.1, req.Temperature, 0.001)
	})

	t.Run("reasoning models use max completion tokens", func(t *testing.T) {
		t.Parallel()

		for _, model := range []string{"o1-mini", "o3-2025-04-16", "o4-mini", "gpt-5"} {
			req := isoopenai.BuildRequest(model, "sys", "prompt")
			assert.Zero(t, req.MaxTokens, model)
			assert.Positive(t, req.MaxCompletionTokens, model)
			assert.Zero(t, req.Temperature, model)
		}
	})

	t.Run("omits empty system message", func(t *testing.T) {
		t.Parallel()

		req := isoopenai.BuildRequest("gpt-4o-mini", "", "prompt")

		require.Len(t, req.Messages, 1)
		assert.Equal(t, openai.ChatMessageRoleUser, req.Messages[0].Role)
	})
}
