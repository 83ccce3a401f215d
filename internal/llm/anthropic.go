package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/tidwall/gjson"
)

const (
	// DefaultAnthropicModel is the model used when no override is provided.
	DefaultAnthropicModel = "claude-sonnet-4-5-20250929"

	// AnthropicKeyEnv names the environment variable holding the API key.
	AnthropicKeyEnv = "ANTHROPIC_API_KEY"

	defaultAnthropicMaxTokens = 2000
)

// AnthropicProvider implements Provider using the official Anthropic SDK.
type AnthropicProvider struct {
	key        KeySource
	model      string
	baseURL    string
	httpClient *http.Client
}

var _ Provider = (*AnthropicProvider)(nil)

// AnthropicOption configures an AnthropicProvider.
type AnthropicOption func(*AnthropicProvider)

// WithAnthropicKey overrides the key source. The default reads
// ANTHROPIC_API_KEY.
func WithAnthropicKey(src KeySource) AnthropicOption {
	return func(p *AnthropicProvider) {
		p.key = src
	}
}

// WithAnthropicModel sets the default model.
func WithAnthropicModel(model string) AnthropicOption {
	return func(p *AnthropicProvider) {
		if model != "" {
			p.model = model
		}
	}
}

// WithAnthropicBaseURL points the client at another endpoint.
func WithAnthropicBaseURL(url string) AnthropicOption {
	return func(p *AnthropicProvider) {
		p.baseURL = url
	}
}

// NewAnthropicProvider creates a provider; like the OpenAI provider the key
// is resolved per call.
func NewAnthropicProvider(opts ...AnthropicOption) *AnthropicProvider {
	p := &AnthropicProvider{
		key:        EnvKey(AnthropicKeyEnv),
		model:      DefaultAnthropicModel,
		httpClient: &http.Client{},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Name implements Provider.
func (p *AnthropicProvider) Name() string { return "anthropic" }

// Configured implements Provider.
func (p *AnthropicProvider) Configured() bool { return p.key() != "" }

// Complete sends a request to the Messages API.
func (p *AnthropicProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	apiKey := p.key()
	if apiKey == "" {
		return nil, &APIError{
			Provider:   p.Name(),
			StatusCode: http.StatusUnauthorized,
			Message:    AnthropicKeyEnv + " is not set",
		}
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithHTTPClient(p.httpClient),
	}
	if p.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(p.baseURL))
	}
	client := anthropic.NewClient(clientOpts...)

	model := p.model
	if req.Model != "" {
		model = req.Model
	}

	maxTokens := int64(defaultAnthropicMaxTokens)
	if req.MaxTokens > 0 {
		maxTokens = int64(req.MaxTokens)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.SystemPrompt}}
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}

	msg, err := client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return nil, &APIError{
				Provider:   p.Name(),
				StatusCode: apiErr.StatusCode,
				Message:    anthropicErrorMessage(apiErr),
			}
		}
		return nil, err
	}

	var content string
	for _, block := range msg.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			content += variant.Text
		}
	}

	return &Response{
		Content: content,
		Model:   string(msg.Model),
		Usage: Usage{
			InputTokens:  int(msg.Usage.InputTokens),
			OutputTokens: int(msg.Usage.OutputTokens),
		},
	}, nil
}

// anthropicErrorMessage returns error.message from the response body, or a
// status line when the body carries none.
func anthropicErrorMessage(apiErr *anthropic.Error) string {
	if msg := gjson.Get(apiErr.RawJSON(), "error.message").String(); msg != "" {
		return msg
	}
	return fmt.Sprintf("anthropic: request failed with status %d", apiErr.StatusCode)
}
