package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/onsetlabs/slate/internal/config"
	"github.com/onsetlabs/slate/internal/home"
	"github.com/onsetlabs/slate/internal/providers"
)

// loadConfig loads configuration and resolves the slate home directory.
// The returned manager supports hot reload via WatchConfig.
func loadConfig() (*config.Manager, *home.Dir, error) {
	cm, err := config.NewManager(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	h, err := home.New(homeDir)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving home directory: %w", err)
	}

	return cm, h, nil
}

// newOpenAIClient builds the raw provider client from configuration.
func newOpenAIClient(cfg *config.Config) (*providers.OpenAIClient, error) {
	apiKey := config.ResolveEnvVars(cfg.Provider.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("no API key configured: set provider.api_key or OPENAI_API_KEY")
	}

	return providers.NewOpenAIClient(providers.OpenAIConfig{
		APIKey:      apiKey,
		Model:       cfg.Provider.Model,
		MaxTokens:   cfg.Provider.MaxTokens,
		Temperature: cfg.Provider.Temperature,
		Timeout:     time.Duration(cfg.Provider.TimeoutSeconds) * time.Second,
	}), nil
}

// newServiceClient wraps the provider with retry, rate limiting, and usage
// accounting. The limiter is returned separately so callers can retune it
// when configuration is reloaded.
func newServiceClient(cfg *config.Config) (*providers.RetryingClient, *providers.RateLimiter, error) {
	inner, err := newOpenAIClient(cfg)
	if err != nil {
		return nil, nil, err
	}

	policy := providers.DefaultRetryPolicy()
	if cfg.Provider.MaxAttempts > 0 {
		policy.MaxAttempts = uint(cfg.Provider.MaxAttempts)
	}

	limiter := providers.NewRateLimiter(cfg.Provider.RateLimit)
	client := providers.NewRetryingClient(
		inner,
		policy,
		providers.NewUsageTracker(),
		limiter,
		slog.Default(),
	)
	return client, limiter, nil
}
