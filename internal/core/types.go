package core

import "time"

// DocumentContext is the text window around the cursor in the edited file.
type DocumentContext struct {
	Prefix string `json:"prefix"`
	Suffix string `json:"suffix"`
}

// ProviderOptions is the per-request configuration handed to a provider by
// the caller. It is constructed once per completion request and read-only
// from the provider's point of view.
type ProviderOptions struct {
	FileName   string          `json:"file_name"`
	LanguageID string          `json:"language_id"`
	DocContext DocumentContext `json:"doc_context"`

	// N is the number of independent samples to request.
	N int `json:"n"`

	Multiline                   bool `json:"multiline"`
	DynamicMultilineCompletions bool `json:"dynamic_multiline_completions"`
	HotStreak                   bool `json:"hot_streak"`
}

// Snippet is an auxiliary code fragment embedded into the prompt for
// grounding. Either Symbol+Content (documentation for a symbol) or
// FileName+Content (a source excerpt). Snippet lists arrive pre-ranked,
// most relevant first.
type Snippet struct {
	FileName string `json:"file_name,omitempty"`
	Symbol   string `json:"symbol,omitempty"`
	Content  string `json:"content"`
}

// Message is a single speaker/text pair in the backend request.
type Message struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// CompletionParams is the fully resolved backend request for one sample.
// Built once via explicit precedence rules (mode preset, dynamic-multiline
// override, timeout override) and never mutated after dispatch.
type CompletionParams struct {
	Messages          []Message     `json:"messages"`
	Model             string        `json:"model"`
	Temperature       float64       `json:"temperature"`
	TopK              int           `json:"topK"`
	MaxTokensToSample int           `json:"maxTokensToSample"`
	StopSequences     []string      `json:"stopSequences,omitempty"`
	Timeout           time.Duration `json:"-"`
}

// WithStopSequences returns a copy of the params with the given stop
// sequences. The receiver is left untouched so concurrent samples can
// never observe a half-built parameter set.
func (p CompletionParams) WithStopSequences(stop []string) CompletionParams {
	p.StopSequences = stop
	return p
}

// WithTimeout returns a copy of the params with the given timeout.
func (p CompletionParams) WithTimeout(d time.Duration) CompletionParams {
	p.Timeout = d
	return p
}

// InlineCompletionItem is one structured completion candidate produced by
// post-processing a raw sample stream.
type InlineCompletionItem struct {
	// ID identifies the candidate for analytics and acceptance tracking.
	ID string `json:"id"`
	// InsertText is the text to splice in at the cursor.
	InsertText string `json:"insert_text"`
	// StopReason records why generation ended ("stream_end",
	// "block_end", "hot_streak").
	StopReason string `json:"stop_reason,omitempty"`
}

// CompletionEvent is one incremental update from a streaming backend call.
type CompletionEvent struct {
	// Delta is the text generated since the previous event.
	Delta string
	// Done marks the terminal event of the stream.
	Done bool
	// Err is set when the stream fails; it is the last event delivered.
	Err error
}
