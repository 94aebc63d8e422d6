// Package providers resolves user-facing model identifiers into provider
// configurations and holds the provider-type registry.
package providers

import (
	"fmt"
	"time"

	"codefill/internal/core"
)

// Timeouts are optional per-mode timeout overrides. A nil field keeps the
// preset; an explicit zero disables the mode (the provider short-circuits
// to an empty result without contacting the backend).
type Timeouts struct {
	Multiline  *time.Duration
	Singleline *time.Duration
}

// BuilderOptions is everything a provider builder needs to stamp out one
// provider instance for one completion request.
type BuilderOptions struct {
	Client      core.CompletionsClient
	Options     core.ProviderOptions
	Model       string // resolved user-facing model id (may be the hybrid meta-model)
	PromptChars int
	Timeouts    Timeouts
}

// Builder creates a provider instance for one request.
type Builder func(opts BuilderOptions) core.Provider

// registry holds all registered provider builders
var registry = make(map[string]Builder)

// Register allows provider packages to register themselves.
// This should be called from init() functions in provider packages.
func Register(providerType string, builder Builder) {
	registry[providerType] = builder
}

// Create instantiates a provider of the given type.
func Create(providerType string, opts BuilderOptions) (core.Provider, error) {
	builder, ok := registry[providerType]
	if !ok {
		return nil, fmt.Errorf("unknown provider type: %s", providerType)
	}
	return builder(opts), nil
}

// ListRegistered returns a list of all registered provider types
func ListRegistered() []string {
	types := make([]string, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	return types
}
