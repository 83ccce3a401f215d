package llm_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testgen/api/internal/llm"
)

func TestMockProvider_SequentialResponses(t *testing.T) {
	m := llm.NewMockProvider(
		llm.MockResponse{Content: "first"},
		llm.MockResponse{Content: "second"},
	)
	ctx := context.Background()

	resp, err := m.Complete(ctx, llm.Request{Prompt: "a"})
	require.NoError(t, err)
	assert.Equal(t, "first", resp.Content)

	for i := 0; i < 3; i++ {
		resp, err = m.Complete(ctx, llm.Request{Prompt: "b"})
		require.NoError(t, err)
		assert.Equal(t, "second", resp.Content)
	}

	assert.Len(t, m.Calls(), 4)
}

func TestMockProvider_Error(t *testing.T) {
	want := errors.New("rate limit exceeded")
	m := llm.NewMockProvider(llm.MockResponse{Err: want})

	resp, err := m.Complete(context.Background(), llm.Request{})
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, want)
}

func TestMockProvider_BlocksUntilDeadline(t *testing.T) {
	m := llm.NewMockProvider(llm.MockResponse{Content: llm.BlockUntilDone})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := m.Complete(ctx, llm.Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAPIError_Message(t *testing.T) {
	err := &llm.APIError{Provider: "openai", StatusCode: 500}
	assert.Equal(t, "openai: request failed with status 500", err.Error())

	err.Message = "boom"
	assert.Equal(t, "boom", err.Error())
}
