package main

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/helixml/pulse"
	"github.com/helixml/pulse/infrastructure/provider"
	"github.com/helixml/pulse/internal/config"
)

// errNoEndpoint indicates the openai provider was selected without an endpoint.
var errNoEndpoint = errors.New("sentiment provider openai needs SENTIMENT_ENDPOINT_API_KEY or SENTIMENT_ENDPOINT_BASE_URL")

// clientOptions returns the pulse.Option slice derived from AppConfig.
// Callers append entrypoint-specific options before passing the full slice
// to pulse.New.
func clientOptions(cfg config.AppConfig, logger *slog.Logger) ([]pulse.Option, error) {
	opts := []pulse.Option{
		pulse.WithDataDir(cfg.DataDir()),
		pulse.WithLogger(logger),
		pulse.WithSourceURL(cfg.SourceURL()),
		pulse.WithCachePath(cfg.SourceCachePath()),
		pulse.WithSourceTimeout(cfg.SourceTimeout()),
		pulse.WithHeaderMapFile(cfg.HeaderMapFile()),
		pulse.WithPeriodicSyncConfig(cfg.PeriodicSync()),
	}

	opts = append(opts, storageOptions(cfg)...)

	engineOpts, err := sentimentOptions(cfg)
	if err != nil {
		return nil, err
	}
	return append(opts, engineOpts...), nil
}

// storageOptions returns the pulse.Option for the configured database backend.
func storageOptions(cfg config.AppConfig) []pulse.Option {
	dbURL := cfg.DBURL()

	if !isSQLite(dbURL) {
		return []pulse.Option{pulse.WithPostgres(dbURL)}
	}

	dbPath := strings.TrimPrefix(dbURL, "sqlite:///")
	if dbPath == dbURL {
		dbPath = strings.TrimPrefix(dbURL, "sqlite:")
	}
	return []pulse.Option{pulse.WithSQLite(dbPath)}
}

// sentimentOptions selects the local model or the OpenAI-compatible endpoint.
func sentimentOptions(cfg config.AppConfig) ([]pulse.Option, error) {
	if cfg.SentimentProvider() != config.SentimentOpenAI {
		return []pulse.Option{pulse.WithModelDir(cfg.SentimentModelDir())}, nil
	}

	endpoint := cfg.Endpoint()
	if endpoint.APIKey() == "" && endpoint.BaseURL() == "" {
		return nil, errNoEndpoint
	}

	opts := []pulse.Option{
		pulse.WithOpenAI(provider.OpenAIConfig{
			APIKey:     endpoint.APIKey(),
			BaseURL:    endpoint.BaseURL(),
			Model:      endpoint.Model(),
			Timeout:    endpoint.Timeout(),
			MaxRetries: endpoint.MaxRetries(),
		}),
	}
	if cacheDir := cfg.HTTPCacheDir(); cacheDir != "" {
		opts = append(opts, pulse.WithHTTPCacheDir(cacheDir))
	}
	return opts, nil
}

// isSQLite checks if the database URL is for SQLite.
func isSQLite(url string) bool {
	return strings.HasPrefix(url, "sqlite:")
}
