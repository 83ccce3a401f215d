package llm

import (
	"context"
	"sync"
)

// MockResponse defines a canned response for the mock provider.
type MockResponse struct {
	Content string
	Err     error
}

// MockProvider is a test double that returns pre-configured responses in
// sequence, repeating the last one once exhausted. It records every request.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	calls     []Request
	idx       int

	// Unconfigured makes Configured report false.
	Unconfigured bool
}

var _ Provider = (*MockProvider)(nil)

// NewMockProvider creates a mock that returns the given responses in order.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// Name implements Provider.
func (m *MockProvider) Name() string { return "mock" }

// Configured implements Provider.
func (m *MockProvider) Configured() bool { return !m.Unconfigured }

// Complete returns the next canned response. A response with Content
// "<block>" waits for the context to end, which lets tests exercise
// deadlines.
func (m *MockProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.calls = append(m.calls, req)

	if len(m.responses) == 0 {
		m.mu.Unlock()
		return &Response{Model: "mock"}, nil
	}

	r := m.responses[m.idx]
	if m.idx < len(m.responses)-1 {
		m.idx++
	}
	m.mu.Unlock()

	if r.Content == BlockUntilDone {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if r.Err != nil {
		return nil, r.Err
	}

	return &Response{
		Content: r.Content,
		Model:   "mock",
		Usage:   Usage{InputTokens: len(req.Prompt), OutputTokens: len(r.Content)},
	}, nil
}

// BlockUntilDone is a MockResponse content that blocks until cancellation.
const BlockUntilDone = "<block>"

// Calls returns a copy of all requests received.
func (m *MockProvider) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Request, len(m.calls))
	copy(out, m.calls)
	return out
}
