// Package config provides configuration management for the application.
package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Model    ModelConfig    `mapstructure:"model"`
	Cache    CacheConfig    `mapstructure:"cache"`
	LogLevel string         `mapstructure:"log_level"`
	LogStyle string         `mapstructure:"log_style"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port      string `mapstructure:"port"`
	AccessKey string `mapstructure:"access_key"`
}

// BackendConfig holds the inference backend connection settings.
type BackendConfig struct {
	URL         string `mapstructure:"url"`
	AccessToken string `mapstructure:"access_token"`
}

// ModelConfig holds model selection and per-mode timeout overrides.
// A negative timeout keeps the built-in preset; an explicit zero
// disables the mode.
type ModelConfig struct {
	ID                  string        `mapstructure:"id"`
	SingleLineTimeoutMs int           `mapstructure:"single_line_timeout_ms"`
	MultiLineTimeoutMs  int           `mapstructure:"multi_line_timeout_ms"`
}

// CacheConfig selects the completion cache backend.
type CacheConfig struct {
	Backend  string        `mapstructure:"backend"` // "local", "redis", or "none"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// SingleLineTimeout converts the millisecond override to the pointer
// form the provider layer expects. Nil keeps the preset.
func (m ModelConfig) SingleLineTimeout() *time.Duration {
	return timeoutOverride(m.SingleLineTimeoutMs)
}

// MultiLineTimeout converts the millisecond override to the pointer
// form the provider layer expects. Nil keeps the preset.
func (m ModelConfig) MultiLineTimeout() *time.Duration {
	return timeoutOverride(m.MultiLineTimeoutMs)
}

func timeoutOverride(ms int) *time.Duration {
	if ms < 0 {
		return nil
	}
	d := time.Duration(ms) * time.Millisecond
	return &d
}

// Load reads configuration from file and environment
func Load() (*Config, error) {
	// Load .env file using Viper (optional, won't fail if not found)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	_ = viper.ReadInConfig() // Ignore error if .env file doesn't exist

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("BACKEND_URL", "https://api.fireworks.ai")
	viper.SetDefault("MODEL_ID", "")
	viper.SetDefault("SINGLE_LINE_TIMEOUT_MS", -1)
	viper.SetDefault("MULTI_LINE_TIMEOUT_MS", -1)
	viper.SetDefault("CACHE_BACKEND", "local")
	viper.SetDefault("CACHE_TTL", "5m")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_STYLE", "json")

	// Enable automatic environment variable reading
	viper.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:      viper.GetString("PORT"),
			AccessKey: viper.GetString("ACCESS_KEY"),
		},
		Backend: BackendConfig{
			URL:         viper.GetString("BACKEND_URL"),
			AccessToken: viper.GetString("BACKEND_ACCESS_TOKEN"),
		},
		Model: ModelConfig{
			ID:                  viper.GetString("MODEL_ID"),
			SingleLineTimeoutMs: viper.GetInt("SINGLE_LINE_TIMEOUT_MS"),
			MultiLineTimeoutMs:  viper.GetInt("MULTI_LINE_TIMEOUT_MS"),
		},
		Cache: CacheConfig{
			Backend:  viper.GetString("CACHE_BACKEND"),
			RedisURL: viper.GetString("CACHE_REDIS_URL"),
			TTL:      viper.GetDuration("CACHE_TTL"),
		},
		LogLevel: viper.GetString("LOG_LEVEL"),
		LogStyle: viper.GetString("LOG_STYLE"),
	}

	return cfg, nil
}
