package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codefill/internal/core"
)

type sampleFingerprint struct {
	Model  string `json:"model"`
	Prefix string `json:"prefix"`
	Suffix string `json:"suffix"`
	N      int    `json:"n"`
}

func TestKeyStability(t *testing.T) {
	fp := sampleFingerprint{Model: "starcoder-7b", Prefix: "func add(", Suffix: ")", N: 3}

	a := Key(fp)
	b := Key(fp)
	assert.Equal(t, a, b, "identical fingerprints must hash equal")

	changed := fp
	changed.Prefix = "func sub("
	assert.NotEqual(t, a, Key(changed))

	changed = fp
	changed.N = 1
	assert.NotEqual(t, a, Key(changed))
}

func TestLocalCacheRoundTrip(t *testing.T) {
	c := NewLocalCache(time.Minute, 16)
	defer c.Close()
	ctx := context.Background()

	got, err := c.Get(ctx, "absent")
	require.NoError(t, err)
	assert.Nil(t, got, "miss returns nil, nil")

	entry := &Entry{
		Model:     "starcoder-7b",
		Items:     []core.InlineCompletionItem{{ID: "id-1", InsertText: "return a + b"}},
		CreatedAt: time.Now(),
	}
	require.NoError(t, c.Set(ctx, "k", entry))

	got, err = c.Get(ctx, "k")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entry.Items, got.Items)
	assert.Equal(t, "starcoder-7b", got.Model)
}

func TestLocalCacheExpiry(t *testing.T) {
	c := NewLocalCache(10*time.Millisecond, 16)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", &Entry{Model: "starcoder-7b"}))
	time.Sleep(30 * time.Millisecond)

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got, "expired entries read as misses")
}
