package providers

import (
	"fmt"

	"codefill/internal/core"
)

// ContextSizeHints tells the caller how much file context is worth
// collecting before invoking the provider. Derived from the model's
// prompt character budget; used for UI/telemetry sizing only.
type ContextSizeHints struct {
	TotalFileContextChars int
	PrefixChars           int
	SuffixChars           int
}

// Config is a stateless provider factory bound to one resolved model.
// Built once at configuration time and reused across many requests;
// Create stamps out one provider instance per completion request.
type Config struct {
	providerType string
	client       core.CompletionsClient
	model        string
	promptChars  int
	timeouts     Timeouts
}

// NewConfig resolves the user-supplied model string into a provider
// configuration. An empty model falls back to the hybrid meta-model; an
// unknown non-empty model fails with a configuration error naming the
// offending string.
func NewConfig(providerType string, client core.CompletionsClient, model string, timeouts Timeouts) (*Config, error) {
	if _, ok := registry[providerType]; !ok {
		return nil, core.NewConfigurationError(fmt.Sprintf("unknown provider type %q", providerType))
	}

	resolved := model
	if resolved == "" {
		resolved = DefaultModel
	}
	if !KnownModel(resolved) {
		return nil, core.NewConfigurationError(fmt.Sprintf("unknown model %q", model))
	}

	return &Config{
		providerType: providerType,
		client:       client,
		model:        resolved,
		promptChars:  PromptChars(resolved),
		timeouts:     timeouts,
	}, nil
}

// Create constructs a new provider instance for one completion request.
func (c *Config) Create(options core.ProviderOptions) core.Provider {
	provider, err := Create(c.providerType, BuilderOptions{
		Client:      c.client,
		Options:     options,
		Model:       c.model,
		PromptChars: c.promptChars,
		Timeouts:    c.timeouts,
	})
	if err != nil {
		// The type was validated in NewConfig; reaching this means a
		// builder was unregistered at runtime.
		panic(err)
	}
	return provider
}

// Identifier returns the stable provider identifier for UI/telemetry.
func (c *Config) Identifier() string {
	return c.providerType
}

// Model returns the resolved user-facing model id.
func (c *Config) Model() string {
	return c.model
}

// ContextSizeHints returns sizing guidance derived from the token budget.
func (c *Config) ContextSizeHints() ContextSizeHints {
	return ContextSizeHints{
		TotalFileContextChars: c.promptChars * 9 / 10,
		PrefixChars:           c.promptChars * 6 / 10,
		SuffixChars:           c.promptChars / 10,
	}
}
