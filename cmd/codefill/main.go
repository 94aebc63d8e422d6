// Package main is the entry point for the completion engine server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codefill/config"
	"codefill/internal/cache"
	"codefill/internal/httpclient"
	"codefill/internal/llmclient"
	"codefill/internal/logging"
	"codefill/internal/observability"
	"codefill/internal/providers"

	// Import provider packages to trigger their init() registration
	_ "codefill/internal/providers/fireworks"
	"codefill/internal/server"
	"codefill/internal/version"
)

func main() {
	versionFlag := flag.Bool("version", false, "Print version information")
	flag.Parse()

	if *versionFlag {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logger := slog.New(logging.NewHandler(os.Stdout, cfg.LogStyle, cfg.LogLevel))
	slog.SetDefault(logger)

	slog.Info("starting codefill",
		"version", version.Version,
		"commit", version.Commit,
		"build_date", version.Date,
	)

	// Backend streaming client with Prometheus hooks
	client := llmclient.NewWithHTTPClient(httpclient.NewDefaultHTTPClient(), llmclient.Config{
		ProviderName:   "fireworks",
		BaseURL:        cfg.Backend.URL,
		AccessToken:    cfg.Backend.AccessToken,
		CircuitBreaker: llmclient.DefaultCircuitBreakerConfig(),
		Hooks:          observability.BackendHooks(),
	})

	providerCfg, err := providers.NewConfig("fireworks", client, cfg.Model.ID, providers.Timeouts{
		Multiline:  cfg.Model.MultiLineTimeout(),
		Singleline: cfg.Model.SingleLineTimeout(),
	})
	if err != nil {
		slog.Error("failed to configure provider", "error", err)
		os.Exit(1)
	}
	slog.Info("provider configured", "provider", providerCfg.Identifier(), "model", providerCfg.Model())

	// Completion result cache
	resultCache, err := buildCache(cfg.Cache)
	if err != nil {
		slog.Error("failed to initialize cache", "error", err)
		os.Exit(1)
	}
	if resultCache != nil {
		defer resultCache.Close()
	}

	if cfg.Backend.AccessToken == "" {
		slog.Warn("BACKEND_ACCESS_TOKEN not set, backend calls will be unauthenticated")
	}

	srv := server.New(server.NewService(providerCfg, resultCache), &server.Config{
		AccessKey: cfg.Server.AccessKey,
	})

	// Handle graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		slog.Info("shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	addr := ":" + cfg.Server.Port
	slog.Info("starting server", "address", addr)

	if err := srv.Start(addr); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			slog.Info("server stopped gracefully")
		} else {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}
}

func buildCache(cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case "", "none":
		return nil, nil
	case "local":
		return cache.NewLocalCache(cfg.TTL, 0), nil
	case "redis":
		return cache.NewRedisCache(cache.RedisConfig{URL: cfg.RedisURL, TTL: cfg.TTL})
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
