package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "https://api.fireworks.ai", cfg.Backend.URL)
	assert.Equal(t, "", cfg.Model.ID)
	assert.Equal(t, "local", cfg.Cache.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "info", cfg.LogLevel)

	assert.Nil(t, cfg.Model.SingleLineTimeout(), "negative override keeps the preset")
	assert.Nil(t, cfg.Model.MultiLineTimeout())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MODEL_ID", "starcoder-16b")
	t.Setenv("BACKEND_ACCESS_TOKEN", "sk-test")
	t.Setenv("SINGLE_LINE_TIMEOUT_MS", "0")
	t.Setenv("MULTI_LINE_TIMEOUT_MS", "2500")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("CACHE_REDIS_URL", "redis://localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "starcoder-16b", cfg.Model.ID)
	assert.Equal(t, "sk-test", cfg.Backend.AccessToken)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "redis://localhost:6379", cfg.Cache.RedisURL)

	single := cfg.Model.SingleLineTimeout()
	require.NotNil(t, single)
	assert.Equal(t, time.Duration(0), *single, "explicit zero disables the mode")

	multi := cfg.Model.MultiLineTimeout()
	require.NotNil(t, multi)
	assert.Equal(t, 2500*time.Millisecond, *multi)
}
