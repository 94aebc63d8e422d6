// Package fireworks implements the Fireworks-family completion provider.
//
// A Provider instance is created per completion request and dispatches n
// concurrent streaming samples against the backend, post-processing each
// raw token stream into structured completion candidates.
package fireworks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"codefill/internal/core"
	"codefill/internal/prompt"
	"codefill/internal/providers"
)

// ProviderType is the registry identifier for this provider family.
const ProviderType = "fireworks"

// Hybrid meta-model resolution: multiline generation gets the larger
// model, single-line the cheaper one.
const (
	hybridMultilineModel  = "starcoder-16b"
	hybridSinglelineModel = "starcoder-7b"
)

const (
	requestTemperature = 0.2
	requestTopK        = 0
)

// requestPreset is one of the two per-mode parameter sets.
type requestPreset struct {
	timeout           time.Duration
	maxTokensToSample int
	stopSequences     []string
}

var (
	singleLinePreset = requestPreset{
		timeout:           5000 * time.Millisecond,
		maxTokensToSample: 30,
		stopSequences:     []string{"\n"},
	}
	multiLinePreset = requestPreset{
		timeout:           15000 * time.Millisecond,
		maxTokensToSample: 256,
		stopSequences:     []string{"\n\n", "\n\r\n"},
	}
)

func init() {
	providers.Register(ProviderType, New)
}

// Provider implements core.Provider for the Fireworks model family.
type Provider struct {
	client      core.CompletionsClient
	options     core.ProviderOptions
	model       string // effective user-facing model, hybrid already resolved
	family      prompt.Family
	promptChars int
	timeouts    providers.Timeouts
}

// New creates a provider instance for one completion request. The hybrid
// meta-model and the prompt family are resolved here, once, not per call.
func New(opts providers.BuilderOptions) core.Provider {
	model := opts.Model
	if model == providers.HybridModel {
		if opts.Options.Multiline {
			model = hybridMultilineModel
		} else {
			model = hybridSinglelineModel
		}
	}
	return &Provider{
		client:      opts.Client,
		options:     opts.Options,
		model:       model,
		family:      prompt.ResolveFamily(model),
		promptChars: opts.PromptChars,
		timeouts:    opts.Timeouts,
	}
}

// Model returns the effective user-facing model id.
func (p *Provider) Model() string { return p.model }

// extendedGeneration reports whether the request needs the long-form
// parameter preset and post-processing pipeline.
func (p *Provider) extendedGeneration() bool {
	return p.options.Multiline || p.options.DynamicMultilineCompletions || p.options.HotStreak
}

// requestParams builds the immutable backend parameters for this request.
// Precedence: mode preset, then dynamic-multiline override, then per-mode
// timeout override.
func (p *Provider) requestParams(snippets []core.Snippet) core.CompletionParams {
	extended := p.extendedGeneration()
	preset := singleLinePreset
	if extended {
		preset = multiLinePreset
	}

	params := core.CompletionParams{
		Messages:          []core.Message{{Speaker: "human", Text: p.buildPrompt(snippets)}},
		Model:             providers.DeploymentID(p.model),
		Temperature:       requestTemperature,
		TopK:              requestTopK,
		MaxTokensToSample: preset.maxTokensToSample,
		StopSequences:     preset.stopSequences,
		Timeout:           preset.timeout,
	}

	if p.options.DynamicMultilineCompletions {
		// Let the model run past blank lines so a full syntax block can
		// be captured; the block detector cuts the stream instead.
		params = params.WithStopSequences(nil)
	}

	if extended {
		if t := p.timeouts.Multiline; t != nil {
			params = params.WithTimeout(*t)
		}
	} else if t := p.timeouts.Singleline; t != nil {
		params = params.WithTimeout(*t)
	}
	return params
}

// buildPrompt assembles the infilling prompt under the character budget.
func (p *Provider) buildPrompt(snippets []core.Snippet) string {
	return prompt.Build(prompt.Input{
		Family:      p.family,
		Model:       p.model,
		FileName:    p.options.FileName,
		LanguageID:  p.options.LanguageID,
		Prefix:      p.options.DocContext.Prefix,
		Suffix:      p.options.DocContext.Suffix,
		PromptChars: p.promptChars,
	}, snippets)
}

// GenerateCompletions dispatches n concurrent samples and resolves once
// all of them have settled or ctx was cancelled. onReady fires at most
// once, with the full sample set; a resolved timeout of zero
// short-circuits to an empty result without touching the network.
func (p *Provider) GenerateCompletions(ctx context.Context, snippets []core.Snippet, onReady core.ReadyFunc, onHotStreak core.HotStreakFunc, tracer core.Tracer) error {
	params := p.requestParams(snippets)

	// A zero timeout is the cooperative way to disable a mode without
	// branching call sites.
	if params.Timeout == 0 {
		if onReady != nil {
			onReady([]core.InlineCompletionItem{})
		}
		return nil
	}

	if tracer != nil {
		tracer.Params(params)
	}

	var fetch fetchFunc = p.fetchAndProcess
	if p.options.DynamicMultilineCompletions {
		fetch = p.fetchAndProcessDynamicMultiline
	}

	n := p.options.N
	if n <= 0 {
		n = 1
	}

	agg := &aggregator{n: n, onReady: onReady, tracer: tracer, model: p.model}
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(sample int) {
			defer wg.Done()
			items, err := fetch(ctx, params, onHotStreak)
			agg.settle(ctx, sample, items, err)
		}(i)
	}
	wg.Wait()
	return nil
}

// aggregator collects the n sample results. It is order-insensitive and
// only cares about count: the ready callback fires exactly once, when all
// n samples have settled successfully. Partial sets are never delivered.
type aggregator struct {
	mu          sync.Mutex
	n           int
	settled     int
	failed      int
	items       []core.InlineCompletionItem
	diagnostics []string
	onReady     core.ReadyFunc
	tracer      core.Tracer
	model       string
}

func (a *aggregator) settle(ctx context.Context, sample int, items []core.InlineCompletionItem, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.settled++
	switch {
	case err != nil:
		if !errors.Is(err, context.Canceled) {
			a.failed++
			a.diagnostics = append(a.diagnostics, fmt.Sprintf("sample %d failed: %v", sample, err))
			slog.Warn("completion sample failed", "model", a.model, "sample", sample, "error", err)
		}
	default:
		a.items = append(a.items, items...)
		a.diagnostics = append(a.diagnostics, fmt.Sprintf("sample %d yielded %d item(s)", sample, len(items)))
	}

	if a.settled != a.n {
		return
	}
	if ctx.Err() != nil {
		// Cancelled requests resolve without any callback.
		return
	}

	for _, d := range a.diagnostics {
		slog.Debug("completion request diagnostics", "model", a.model, "detail", d)
	}

	if a.failed > 0 {
		// All-or-nothing: a request that lost samples yields nothing.
		slog.Warn("completion request settled without a full sample set",
			"model", a.model, "expected", a.n, "failed", a.failed)
		return
	}

	if a.tracer != nil {
		a.tracer.Result(a.items)
	}
	if a.onReady != nil {
		a.onReady(a.items)
	}
}
