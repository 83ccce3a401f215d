package llm

import "fmt"

// Options selects and configures a provider.
type Options struct {
	Provider string // "openai" or "anthropic"
	Model    string
	BaseURL  string
}

// New builds the provider named in opts; an empty name selects OpenAI.
func New(opts Options) (Provider, error) {
	switch opts.Provider {
	case "", "openai":
		return NewOpenAIProvider(
			WithOpenAIModel(opts.Model),
			WithOpenAIBaseURL(opts.BaseURL),
		), nil
	case "anthropic":
		return NewAnthropicProvider(
			WithAnthropicModel(opts.Model),
			WithAnthropicBaseURL(opts.BaseURL),
		), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", opts.Provider)
	}
}

// DefaultModel returns the model a provider uses when none is configured.
func DefaultModel(provider string) string {
	if provider == "anthropic" {
		return DefaultAnthropicModel
	}
	return DefaultOpenAIModel
}
