package providers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codefill/internal/core"
)

type nopClient struct{}

func (nopClient) Complete(context.Context, core.CompletionParams) (<-chan core.CompletionEvent, error) {
	ch := make(chan core.CompletionEvent)
	close(ch)
	return ch, nil
}

type recordingProvider struct {
	opts BuilderOptions
}

func (p *recordingProvider) GenerateCompletions(context.Context, []core.Snippet, core.ReadyFunc, core.HotStreakFunc, core.Tracer) error {
	return nil
}

func registerTestBuilder(t *testing.T) string {
	t.Helper()
	const typ = "test-provider"
	Register(typ, func(opts BuilderOptions) core.Provider {
		return &recordingProvider{opts: opts}
	})
	t.Cleanup(func() { delete(registry, typ) })
	return typ
}

func TestNewConfigModelResolution(t *testing.T) {
	typ := registerTestBuilder(t)

	tests := []struct {
		name      string
		model     string
		wantModel string
		wantErr   string
	}{
		{name: "empty model falls back to hybrid", model: "", wantModel: "starcoder-hybrid"},
		{name: "known model kept as-is", model: "llama-code-13b", wantModel: "llama-code-13b"},
		{name: "unknown model rejected", model: "gpt-oss-9000", wantErr: `unknown model "gpt-oss-9000"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewConfig(typ, nopClient{}, tt.model, Timeouts{})
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				var cerr *core.CompletionError
				require.True(t, errors.As(err, &cerr))
				assert.Equal(t, core.ErrorTypeConfiguration, cerr.Type)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantModel, cfg.Model())
			assert.Equal(t, typ, cfg.Identifier())
		})
	}
}

func TestNewConfigUnknownProviderType(t *testing.T) {
	_, err := NewConfig("no-such-provider", nopClient{}, "", Timeouts{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-provider")
}

func TestConfigCreatePassesResolvedState(t *testing.T) {
	typ := registerTestBuilder(t)
	override := 1200 * time.Millisecond
	cfg, err := NewConfig(typ, nopClient{}, "starcoder-16b", Timeouts{Multiline: &override})
	require.NoError(t, err)

	opts := core.ProviderOptions{FileName: "a.go", LanguageID: "go", N: 2, Multiline: true}
	provider := cfg.Create(opts)

	rp, ok := provider.(*recordingProvider)
	require.True(t, ok)
	assert.Equal(t, opts, rp.opts.Options)
	assert.Equal(t, "starcoder-16b", rp.opts.Model)
	assert.Equal(t, PromptChars("starcoder-16b"), rp.opts.PromptChars)
	require.NotNil(t, rp.opts.Timeouts.Multiline)
	assert.Equal(t, override, *rp.opts.Timeouts.Multiline)
	assert.Nil(t, rp.opts.Timeouts.Singleline)
}

func TestContextSizeHints(t *testing.T) {
	typ := registerTestBuilder(t)
	cfg, err := NewConfig(typ, nopClient{}, "starcoder-7b", Timeouts{})
	require.NoError(t, err)

	budget := PromptChars("starcoder-7b")
	hints := cfg.ContextSizeHints()
	assert.Equal(t, budget*9/10, hints.TotalFileContextChars)
	assert.Equal(t, budget*6/10, hints.PrefixChars)
	assert.Equal(t, budget/10, hints.SuffixChars)
}

func TestPromptCharsBudget(t *testing.T) {
	tests := []struct {
		model string
		want  int
	}{
		{model: "starcoder-hybrid", want: (8192 - 256) * 4},
		{model: "starcoder-16b", want: (8192 - 256) * 4},
		{model: "llama-code-13b-instruct", want: (4096 - 256) * 4},
		{model: "mistral-7b-instruct-4k", want: (4096 - 256) * 4},
		{model: "something-else", want: (1200 - 256) * 4},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			assert.Equal(t, tt.want, PromptChars(tt.model))
		})
	}
}

func TestDeploymentID(t *testing.T) {
	assert.Equal(t, "fireworks/starcoder-7b-w8a16", DeploymentID("starcoder-7b"))
	assert.Equal(t, "unmapped-model", DeploymentID("unmapped-model"))
}

func TestRegistry(t *testing.T) {
	typ := registerTestBuilder(t)
	assert.Contains(t, ListRegistered(), typ)

	p, err := Create(typ, BuilderOptions{Model: "starcoder-7b"})
	require.NoError(t, err)
	assert.NotNil(t, p)

	_, err = Create("missing", BuilderOptions{})
	assert.Error(t, err)
}
