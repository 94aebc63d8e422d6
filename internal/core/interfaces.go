// Package core defines the shared types and interfaces of the completion engine.
package core

import "context"

// CompletionsClient issues one streaming completion call against the
// inference backend. Implementations must be safe for concurrent use:
// a single client is shared by all samples of a request and by all
// in-flight requests.
type CompletionsClient interface {
	// Complete starts a streaming request and returns a channel of
	// incremental events. The channel is closed after the Done or Err
	// event. Cancelling ctx stops the underlying stream promptly.
	Complete(ctx context.Context, params CompletionParams) (<-chan CompletionEvent, error)
}

// ReadyFunc receives the final aggregated sample set of a request.
// It is invoked at most once per GenerateCompletions call, with exactly
// n items or none at all.
type ReadyFunc func(items []InlineCompletionItem)

// HotStreakFunc receives an additional completion for text beyond the
// first accepted one, together with the document context it applies to.
// It may be invoked zero or more times, always before the owning sample
// settles.
type HotStreakFunc func(doc DocumentContext, item InlineCompletionItem)

// Provider generates completion candidates for a single request. A
// Provider instance is stamped out per request by a ProviderConfig and
// carries the request's ProviderOptions.
type Provider interface {
	// GenerateCompletions dispatches n concurrent samples and resolves
	// once all of them have settled or ctx was cancelled. onHotStreak
	// and tracer may be nil.
	GenerateCompletions(ctx context.Context, snippets []Snippet, onReady ReadyFunc, onHotStreak HotStreakFunc, tracer Tracer) error
}

// Tracer observes a request for debugging. It never participates in the
// success path's control flow.
type Tracer interface {
	// Params receives the fully resolved request parameters before dispatch.
	Params(params CompletionParams)
	// Result receives the aggregated sample set after completion.
	Result(items []InlineCompletionItem)
}
