package fireworks

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"codefill/internal/core"
)

// Stop reasons attached to completion items.
const (
	stopReasonStreamEnd = "stream_end"
	stopReasonBlockEnd  = "block_end"
	stopReasonHotStreak = "hot_streak"
)

// fetchFunc is the shared signature of the two processing pipelines.
type fetchFunc func(ctx context.Context, params core.CompletionParams, onHotStreak core.HotStreakFunc) ([]core.InlineCompletionItem, error)

// fetchAndProcess runs one streaming sample through the standard pipeline.
// Generation is bounded by the request's stop sequences; the stream is
// consumed to the end and yields exactly one completion item. With hot
// streak enabled the first line becomes the primary item and every later
// complete line is emitted as a follow-up candidate before the sample
// settles.
func (p *Provider) fetchAndProcess(ctx context.Context, params core.CompletionParams, onHotStreak core.HotStreakFunc) ([]core.InlineCompletionItem, error) {
	events, err := p.client.Complete(ctx, params)
	if err != nil {
		return nil, err
	}

	hs := p.newHotStreakEmitter(onHotStreak)

	var acc strings.Builder
loop:
	for ev := range events {
		switch {
		case ev.Err != nil:
			if ctx.Err() != nil || errors.Is(ev.Err, context.Canceled) {
				return nil, context.Canceled
			}
			return nil, ev.Err
		case ev.Done:
			break loop
		default:
			acc.WriteString(ev.Delta)
			if hs != nil {
				hs.advance(acc.String())
			}
		}
	}

	text := p.family.PostProcess(acc.String())
	if hs != nil {
		if primary, ok := hs.primaryItem(text); ok {
			return []core.InlineCompletionItem{primary}, nil
		}
	}
	return []core.InlineCompletionItem{{
		ID:         uuid.NewString(),
		InsertText: text,
		StopReason: stopReasonStreamEnd,
	}}, nil
}

// fetchAndProcessDynamicMultiline runs one streaming sample with the
// block detector deciding the cut point. Without hot streak the stream is
// cancelled as soon as the block settles; with hot streak it keeps
// running so the lines past the block become follow-up candidates.
func (p *Provider) fetchAndProcessDynamicMultiline(ctx context.Context, params core.CompletionParams, onHotStreak core.HotStreakFunc) ([]core.InlineCompletionItem, error) {
	streamCtx, stop := context.WithCancel(ctx)
	defer stop()

	events, err := p.client.Complete(streamCtx, params)
	if err != nil {
		return nil, err
	}

	detector := newBlockDetector(p.options.DocContext.Prefix)
	hotStreak := p.options.HotStreak && onHotStreak != nil

	var (
		acc        strings.Builder
		block      string
		blockFound bool
		hs         *hotStreakEmitter
	)
loop:
	for ev := range events {
		switch {
		case ev.Err != nil:
			if ctx.Err() != nil || errors.Is(ev.Err, context.Canceled) {
				return nil, context.Canceled
			}
			if blockFound && streamCtx.Err() != nil {
				// The cancellation is our own early cut.
				break loop
			}
			return nil, ev.Err
		case ev.Done:
			break loop
		default:
			acc.WriteString(ev.Delta)
			if !blockFound {
				if text, settled := detector.Evaluate(acc.String()); settled {
					block, blockFound = text, true
					if !hotStreak {
						stop()
						break loop
					}
					hs = p.resumeHotStreakEmitter(onHotStreak, block, len(block))
				}
			}
			if blockFound && hs != nil {
				hs.advance(acc.String())
			}
		}
	}

	if !blockFound {
		// Stream ended before the block settled; keep what we have.
		block = strings.TrimRight(acc.String(), "\n")
	}
	return []core.InlineCompletionItem{{
		ID:         uuid.NewString(),
		InsertText: p.family.PostProcess(block),
		StopReason: stopReasonBlockEnd,
	}}, nil
}

// hotStreakEmitter turns the tail of one generation into follow-up
// completion candidates. The primary span is consumed first; every
// complete line after it is emitted through the callback with a document
// context advanced past all previously generated text, strictly before
// the owning sample settles.
type hotStreakEmitter struct {
	p           *Provider
	fn          core.HotStreakFunc
	primary     string
	primarySet  bool
	consumed    int // bytes of the accumulated text already handled
	primaryOnly bool
}

// newHotStreakEmitter returns nil when hot streak is not in play, so
// callers can nil-check instead of branching on options.
func (p *Provider) newHotStreakEmitter(fn core.HotStreakFunc) *hotStreakEmitter {
	if !p.options.HotStreak || fn == nil {
		return nil
	}
	return &hotStreakEmitter{p: p, fn: fn}
}

// resumeHotStreakEmitter seeds an emitter whose primary span is already
// known, as with a settled dynamic-multiline block.
func (p *Provider) resumeHotStreakEmitter(fn core.HotStreakFunc, primary string, consumed int) *hotStreakEmitter {
	return &hotStreakEmitter{p: p, fn: fn, primary: primary, primarySet: true, consumed: consumed}
}

func (h *hotStreakEmitter) advance(acc string) {
	if !h.primarySet {
		i := strings.Index(acc, "\n")
		if i < 0 {
			return
		}
		h.primary = acc[:i]
		h.primarySet = true
		h.consumed = i
	}
	for {
		rest := acc[h.consumed:]
		if !strings.HasPrefix(rest, "\n") {
			return
		}
		j := strings.Index(rest[1:], "\n")
		if j < 0 {
			return
		}
		line := rest[1 : 1+j]
		h.consumed += 1 + j

		if strings.TrimSpace(line) == "" {
			continue
		}
		line = h.p.family.PostProcess(line)
		if line == "" {
			continue
		}
		doc := core.DocumentContext{
			Prefix: h.p.options.DocContext.Prefix + acc[:h.consumed-len(line)],
			Suffix: h.p.options.DocContext.Suffix,
		}
		h.fn(doc, core.InlineCompletionItem{
			ID:         uuid.NewString(),
			InsertText: line,
			StopReason: stopReasonHotStreak,
		})
	}
}

// primaryItem returns the primary completion once the stream has ended.
// A generation that never produced a newline falls back to the whole
// processed text.
func (h *hotStreakEmitter) primaryItem(fullText string) (core.InlineCompletionItem, bool) {
	text := h.primary
	if !h.primarySet {
		text = fullText
	} else {
		text = h.p.family.PostProcess(text)
	}
	return core.InlineCompletionItem{
		ID:         uuid.NewString(),
		InsertText: text,
		StopReason: stopReasonStreamEnd,
	}, true
}
