// Package llm wraps the text-completion services that generate test code
// behind a single provider interface.
package llm

import (
	"context"
	"fmt"
)

// Provider abstracts a completion API behind one synchronous call.
type Provider interface {
	// Complete sends a prompt and returns the generated text. Implementations
	// must respect context cancellation and deadlines and must not retry.
	Complete(ctx context.Context, req Request) (*Response, error)

	// Name identifies the backend, e.g. "openai".
	Name() string

	// Configured reports whether credentials are currently available.
	Configured() bool
}

// Request describes a single completion request.
type Request struct {
	Prompt       string
	SystemPrompt string

	// Model overrides the provider default when set.
	Model string

	// MaxTokens limits the response length; zero uses the provider default.
	MaxTokens int

	// Temperature is left to the provider when nil.
	Temperature *float64
}

// Response holds the result of a completion call.
type Response struct {
	Content string
	Model   string
	Usage   Usage
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Float returns a pointer to v, for Request.Temperature.
func Float(v float64) *float64 {
	return &v
}

// APIError is a non-2xx answer from the completion service. Error returns
// the service's own message so callers can surface it verbatim.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s: request failed with status %d", e.Provider, e.StatusCode)
}
