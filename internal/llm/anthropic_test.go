package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testgen/api/internal/llm"
)

func anthropicServer(t *testing.T, status int, body string, got *map[string]any, apiKey *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v1/messages"), r.URL.Path)
		if apiKey != nil {
			*apiKey = r.Header.Get("X-Api-Key")
		}
		if got != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(got))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAnthropicProvider_Complete(t *testing.T) {
	var got map[string]any
	var key string
	srv := anthropicServer(t, http.StatusOK, `{
		"id": "msg_1",
		"type": "message",
		"role": "assistant",
		"model": "claude-test",
		"content": [
			{"type": "text", "text": "def test_a(): pass\n"},
			{"type": "text", "text": "def test_b(): pass"}
		],
		"stop_reason": "end_turn",
		"stop_sequence": null,
		"usage": {"input_tokens": 12, "output_tokens": 7}
	}`, &got, &key)

	p := llm.NewAnthropicProvider(
		llm.WithAnthropicKey(staticKey("sk-ant-test")),
		llm.WithAnthropicModel("claude-test"),
		llm.WithAnthropicBaseURL(srv.URL),
	)

	resp, err := p.Complete(context.Background(), llm.Request{
		Prompt:       "write tests",
		SystemPrompt: "you write tests",
		MaxTokens:    2000,
		Temperature:  llm.Float(0.7),
	})
	require.NoError(t, err)

	assert.Equal(t, "def test_a(): pass\ndef test_b(): pass", resp.Content)
	assert.Equal(t, "claude-test", resp.Model)
	assert.Equal(t, 12, resp.Usage.InputTokens)
	assert.Equal(t, 7, resp.Usage.OutputTokens)

	assert.Equal(t, "sk-ant-test", key)
	assert.Equal(t, "claude-test", got["model"])
	assert.EqualValues(t, 2000, got["max_tokens"])
	assert.InDelta(t, 0.7, got["temperature"], 1e-6)

	system, ok := got["system"].([]any)
	require.True(t, ok)
	require.Len(t, system, 1)
	assert.Equal(t, "you write tests", system[0].(map[string]any)["text"])

	messages, ok := got["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	assert.Equal(t, "user", messages[0].(map[string]any)["role"])
}

func TestAnthropicProvider_APIErrorMessageSurfaced(t *testing.T) {
	srv := anthropicServer(t, http.StatusTooManyRequests,
		`{"type":"error","error":{"type":"rate_limit_error","message":"rate limit exceeded"}}`, nil, nil)

	p := llm.NewAnthropicProvider(
		llm.WithAnthropicKey(staticKey("sk-ant-test")),
		llm.WithAnthropicBaseURL(srv.URL),
	)

	_, err := p.Complete(context.Background(), llm.Request{Prompt: "x"})
	require.Error(t, err)

	var apiErr *llm.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, "rate limit exceeded", err.Error())
}

func TestAnthropicProvider_ErrorWithoutMessage(t *testing.T) {
	srv := anthropicServer(t, http.StatusBadRequest, `{"type":"error"}`, nil, nil)

	p := llm.NewAnthropicProvider(
		llm.WithAnthropicKey(staticKey("sk-ant-test")),
		llm.WithAnthropicBaseURL(srv.URL),
	)

	_, err := p.Complete(context.Background(), llm.Request{Prompt: "x"})
	require.Error(t, err)
	assert.Equal(t, "anthropic: request failed with status 400", err.Error())
}

func TestAnthropicProvider_MissingKey(t *testing.T) {
	t.Setenv(llm.AnthropicKeyEnv, "")

	p := llm.NewAnthropicProvider()
	assert.False(t, p.Configured())

	_, err := p.Complete(context.Background(), llm.Request{Prompt: "x"})
	require.Error(t, err)
	assert.Equal(t, "ANTHROPIC_API_KEY is not set", err.Error())

	t.Setenv(llm.AnthropicKeyEnv, "sk-ant-later")
	assert.True(t, p.Configured())
}
