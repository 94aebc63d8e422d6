package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"codefill/internal/cache"
	"codefill/internal/core"
	"codefill/internal/observability"
	"codefill/internal/providers"
)

// Request is one autocomplete invocation as the editor client sends it.
type Request struct {
	SessionID  string         `json:"session_id,omitempty"`
	FileName   string         `json:"file_name"`
	LanguageID string         `json:"language_id"`
	Prefix     string         `json:"prefix"`
	Suffix     string         `json:"suffix"`
	Snippets   []core.Snippet `json:"snippets,omitempty"`

	N                int  `json:"n,omitempty"`
	Multiline        bool `json:"multiline,omitempty"`
	DynamicMultiline bool `json:"dynamic_multiline,omitempty"`
	HotStreak        bool `json:"hot_streak,omitempty"`
}

// HotStreakItem is a follow-up candidate together with the document
// context it applies to.
type HotStreakItem struct {
	Prefix string                    `json:"prefix"`
	Suffix string                    `json:"suffix"`
	Item   core.InlineCompletionItem `json:"item"`
}

// Result is the response body for one autocomplete invocation.
type Result struct {
	Model      string                      `json:"model"`
	Items      []core.InlineCompletionItem `json:"items"`
	HotStreaks []HotStreakItem             `json:"hot_streaks,omitempty"`
	CacheHit   bool                        `json:"cache_hit,omitempty"`
}

// Service orchestrates one autocomplete request: cache lookup, provider
// dispatch, and per-session cancellation.
type Service struct {
	providerCfg *providers.Config
	cache       cache.Cache // nil disables caching
	sessions    sessionRegistry
}

// NewService builds the request orchestrator. cache may be nil.
func NewService(providerCfg *providers.Config, c cache.Cache) *Service {
	return &Service{providerCfg: providerCfg, cache: c}
}

// Acquire returns a request context scoped to the editing session. A new
// request in the same session cancels the in-flight one; only the latest
// request is worth finishing.
func (s *Service) Acquire(sessionID string, parent context.Context) (context.Context, func()) {
	return s.sessions.acquire(sessionID, parent)
}

// requestFingerprint is the cache identity of a request. Hot-streak
// requests are never cached: their value is the follow-up stream, which
// a cached sample set cannot replay.
type requestFingerprint struct {
	Model            string         `json:"model"`
	LanguageID       string         `json:"language_id"`
	FileName         string         `json:"file_name"`
	Prefix           string         `json:"prefix"`
	Suffix           string         `json:"suffix"`
	Snippets         []core.Snippet `json:"snippets"`
	N                int            `json:"n"`
	Multiline        bool           `json:"multiline"`
	DynamicMultiline bool           `json:"dynamic_multiline"`
}

// Complete runs one autocomplete request to settlement.
func (s *Service) Complete(ctx context.Context, req Request) (*Result, error) {
	opts := core.ProviderOptions{
		FileName:   req.FileName,
		LanguageID: req.LanguageID,
		DocContext: core.DocumentContext{Prefix: req.Prefix, Suffix: req.Suffix},
		N:          req.N,
		Multiline:  req.Multiline,

		DynamicMultilineCompletions: req.DynamicMultiline,
		HotStreak:                   req.HotStreak,
	}

	key := ""
	if s.cache != nil && !req.HotStreak {
		key = cache.Key(requestFingerprint{
			Model:            s.providerCfg.Model(),
			LanguageID:       req.LanguageID,
			FileName:         req.FileName,
			Prefix:           req.Prefix,
			Suffix:           req.Suffix,
			Snippets:         req.Snippets,
			N:                req.N,
			Multiline:        req.Multiline,
			DynamicMultiline: req.DynamicMultiline,
		})
		entry, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			slog.Warn("completion cache read failed", "error", err)
		case entry != nil:
			observability.CountCacheEvent("hit")
			return &Result{Model: entry.Model, Items: entry.Items, CacheHit: true}, nil
		default:
			observability.CountCacheEvent("miss")
		}
	}

	provider := s.providerCfg.Create(opts)

	var (
		mu      sync.Mutex
		items   []core.InlineCompletionItem
		ready   bool
		streaks []HotStreakItem
	)
	onReady := func(got []core.InlineCompletionItem) {
		mu.Lock()
		defer mu.Unlock()
		items, ready = got, true
	}
	onHotStreak := func(doc core.DocumentContext, item core.InlineCompletionItem) {
		mu.Lock()
		defer mu.Unlock()
		streaks = append(streaks, HotStreakItem{Prefix: doc.Prefix, Suffix: doc.Suffix, Item: item})
	}

	if err := provider.GenerateCompletions(ctx, req.Snippets, onReady, onHotStreak, nil); err != nil {
		observability.CountCompletionRequest("failed")
		return nil, err
	}
	if ctx.Err() != nil {
		observability.CountCompletionRequest("cancelled")
		return nil, ctx.Err()
	}

	mu.Lock()
	defer mu.Unlock()
	if !ready {
		observability.CountCompletionRequest("failed")
		return nil, core.NewBackendError("fireworks", 0, "completion request lost samples", nil)
	}

	outcome := "ready"
	if len(items) == 0 {
		outcome = "empty"
	}
	observability.CountCompletionRequest(outcome)

	if key != "" && len(items) > 0 {
		entry := &cache.Entry{Model: s.providerCfg.Model(), Items: items, CreatedAt: time.Now()}
		if err := s.cache.Set(ctx, key, entry); err != nil {
			slog.Warn("completion cache write failed", "error", err)
		}
	}

	return &Result{Model: s.providerCfg.Model(), Items: items, HotStreaks: streaks}, nil
}

// sessionRegistry tracks the in-flight request per editing session so a
// newer request can cancel its predecessor.
type sessionRegistry struct {
	mu     sync.Mutex
	active map[string]*sessionSlot
}

type sessionSlot struct {
	cancel context.CancelFunc
}

func (r *sessionRegistry) acquire(sessionID string, parent context.Context) (context.Context, func()) {
	if sessionID == "" {
		return parent, func() {}
	}

	ctx, cancel := context.WithCancel(parent)
	slot := &sessionSlot{cancel: cancel}

	r.mu.Lock()
	if r.active == nil {
		r.active = make(map[string]*sessionSlot)
	}
	if prev, ok := r.active[sessionID]; ok {
		prev.cancel()
	}
	r.active[sessionID] = slot
	r.mu.Unlock()

	release := func() {
		cancel()
		r.mu.Lock()
		if r.active[sessionID] == slot {
			delete(r.active, sessionID)
		}
		r.mu.Unlock()
	}
	return ctx, release
}
