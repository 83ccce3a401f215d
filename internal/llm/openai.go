package llm

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultOpenAIModel is the model used when no override is provided.
	DefaultOpenAIModel = "gpt-4"

	// OpenAIKeyEnv names the environment variable holding the API key.
	OpenAIKeyEnv = "OPENAI_API_KEY"

	defaultOpenAIMaxTokens = 2000
)

// KeySource returns the credential to use for the next call.
type KeySource func() string

// EnvKey reads the named environment variable on every call.
func EnvKey(name string) KeySource {
	return func() string {
		return os.Getenv(name)
	}
}

// OpenAIProvider implements Provider against the OpenAI chat completions API.
// A client is built per call from the current key; connections are pooled by
// the shared http.Client.
type OpenAIProvider struct {
	key        KeySource
	model      string
	baseURL    string
	httpClient *http.Client
}

var _ Provider = (*OpenAIProvider)(nil)

// OpenAIOption configures an OpenAIProvider.
type OpenAIOption func(*OpenAIProvider)

// WithOpenAIKey overrides the key source. The default reads OPENAI_API_KEY.
func WithOpenAIKey(src KeySource) OpenAIOption {
	return func(p *OpenAIProvider) {
		p.key = src
	}
}

// WithOpenAIModel sets the default model.
func WithOpenAIModel(model string) OpenAIOption {
	return func(p *OpenAIProvider) {
		if model != "" {
			p.model = model
		}
	}
}

// WithOpenAIBaseURL points the client at a compatible endpoint, e.g. a proxy
// or a test server. The URL must include the API version path ("/v1").
func WithOpenAIBaseURL(url string) OpenAIOption {
	return func(p *OpenAIProvider) {
		p.baseURL = strings.TrimRight(url, "/")
	}
}

// WithOpenAIHTTPClient sets the underlying HTTP client.
func WithOpenAIHTTPClient(c *http.Client) OpenAIOption {
	return func(p *OpenAIProvider) {
		p.httpClient = c
	}
}

// NewOpenAIProvider creates a provider. The key is not checked here; a
// missing key surfaces when Complete is called.
func NewOpenAIProvider(opts ...OpenAIOption) *OpenAIProvider {
	p := &OpenAIProvider{
		key:        EnvKey(OpenAIKeyEnv),
		model:      DefaultOpenAIModel,
		httpClient: &http.Client{},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Name implements Provider.
func (p *OpenAIProvider) Name() string { return "openai" }

// Configured implements Provider.
func (p *OpenAIProvider) Configured() bool { return p.key() != "" }

// Model returns the default model.
func (p *OpenAIProvider) Model() string { return p.model }

// Complete sends a chat completion request.
func (p *OpenAIProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	apiKey := p.key()
	if apiKey == "" {
		return nil, &APIError{
			Provider:   p.Name(),
			StatusCode: http.StatusUnauthorized,
			Message:    OpenAIKeyEnv + " is not set",
		}
	}

	cfg := openai.DefaultConfig(apiKey)
	if p.baseURL != "" {
		cfg.BaseURL = p.baseURL
	}
	cfg.HTTPClient = p.httpClient
	client := openai.NewClientWithConfig(cfg)

	model := p.model
	if req.Model != "" {
		model = req.Model
	}

	maxTokens := defaultOpenAIMaxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	var messages []openai.ChatCompletionMessage
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	params := openai.ChatCompletionRequest{
		Model:     model,
		Messages:  messages,
		MaxTokens: maxTokens,
	}
	if req.Temperature != nil {
		params.Temperature = float32(*req.Temperature)
	}

	resp, err := client.CreateChatCompletion(ctx, params)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, &APIError{
				Provider:   p.Name(),
				StatusCode: apiErr.HTTPStatusCode,
				Message:    apiErr.Message,
			}
		}
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("openai: response contained no choices")
	}

	return &Response{
		Content: resp.Choices[0].Message.Content,
		Model:   resp.Model,
		Usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}
