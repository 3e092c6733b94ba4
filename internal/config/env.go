package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration.
// Nested structs use an underscore delimiter (e.g. SENTIMENT_ENDPOINT_BASE_URL).
type EnvConfig struct {
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Env: PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// DataDir is the data directory path.
	// Env: DATA_DIR
	// Default: ~/.pulse
	DataDir string `envconfig:"DATA_DIR"`

	// DBURL is the database connection URL.
	// Env: DB_URL
	// Default: sqlite:///{data_dir}/pulse.db
	DBURL string `envconfig:"DB_URL"`

	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// Source configures where survey exports come from.
	Source SourceEnv `envconfig:"SOURCE"`

	// HeaderMapFile is an optional YAML file of header alias overrides.
	// Env: HEADER_MAP_FILE
	HeaderMapFile string `envconfig:"HEADER_MAP_FILE"`

	// Sentiment selects and configures the sentiment engine.
	Sentiment SentimentEnv `envconfig:"SENTIMENT"`

	// PeriodicSync configures the recurring sync.
	PeriodicSync PeriodicSyncEnv `envconfig:"PERIODIC_SYNC"`

	// HTTPCacheDir caches remote sentiment responses on disk when set.
	// Env: HTTP_CACHE_DIR
	HTTPCacheDir string `envconfig:"HTTP_CACHE_DIR"`
}

// SourceEnv holds environment configuration for the export source.
type SourceEnv struct {
	// Env: SOURCE_URL
	URL string `envconfig:"URL"`

	// Env: SOURCE_CACHE_PATH
	// Default: {data_dir}/data.csv
	CachePath string `envconfig:"CACHE_PATH"`

	// Timeout is the fetch timeout in seconds.
	// Env: SOURCE_TIMEOUT (default: 30)
	Timeout float64 `envconfig:"TIMEOUT" default:"30"`
}

// SentimentEnv holds environment configuration for the sentiment engine.
type SentimentEnv struct {
	// Provider is local or openai.
	// Env: SENTIMENT_PROVIDER (default: local)
	Provider string `envconfig:"PROVIDER" default:"local"`

	// Env: SENTIMENT_MODEL
	Model string `envconfig:"MODEL"`

	// Env: SENTIMENT_MODEL_DIR
	// Default: {data_dir}/models
	ModelDir string `envconfig:"MODEL_DIR"`

	// Endpoint configures the openai provider.
	Endpoint EndpointEnv `envconfig:"ENDPOINT"`
}

// EndpointEnv holds environment configuration for an OpenAI-compatible endpoint.
type EndpointEnv struct {
	// Env: *_BASE_URL
	BaseURL string `envconfig:"BASE_URL"`

	// Env: *_MODEL (default: gpt-4o-mini)
	Model string `envconfig:"MODEL"`

	// Env: *_API_KEY
	APIKey string `envconfig:"API_KEY"`

	// Timeout is the request timeout in seconds.
	// Env: *_TIMEOUT (default: 60)
	Timeout float64 `envconfig:"TIMEOUT" default:"60"`

	// Env: *_MAX_RETRIES (default: 3)
	MaxRetries int `envconfig:"MAX_RETRIES" default:"3"`
}

// PeriodicSyncEnv holds environment configuration for periodic sync.
type PeriodicSyncEnv struct {
	// Env: PERIODIC_SYNC_ENABLED (default: true)
	Enabled bool `envconfig:"ENABLED" default:"true"`

	// Env: PERIODIC_SYNC_INTERVAL_SECONDS (default: 86400)
	IntervalSeconds float64 `envconfig:"INTERVAL_SECONDS" default:"86400"`

	// Env: PERIODIC_SYNC_RETRY_ATTEMPTS (default: 3)
	RetryAttempts int `envconfig:"RETRY_ATTEMPTS" default:"3"`

	// Env: PERIODIC_SYNC_RETRY_DELAY_SECONDS (default: 60)
	RetryDelaySeconds float64 `envconfig:"RETRY_DELAY_SECONDS" default:"60"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	return LoadFromEnvWithPrefix("")
}

// LoadFromEnvWithPrefix loads configuration with a custom prefix.
// For example, prefix "PULSE" would require PULSE_DATA_DIR instead of DATA_DIR.
func LoadFromEnvWithPrefix(prefix string) (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// Normalize trims values and canonicalises case-insensitive settings.
func (e EnvConfig) Normalize() EnvConfig {
	e.Host = strings.TrimSpace(e.Host)
	e.DataDir = strings.TrimSpace(e.DataDir)
	e.DBURL = strings.TrimSpace(e.DBURL)
	e.LogLevel = strings.ToUpper(strings.TrimSpace(e.LogLevel))
	e.LogFormat = strings.ToLower(strings.TrimSpace(e.LogFormat))
	e.Source.URL = strings.TrimSpace(e.Source.URL)
	e.Source.CachePath = strings.TrimSpace(e.Source.CachePath)
	e.HeaderMapFile = strings.TrimSpace(e.HeaderMapFile)
	e.Sentiment.Provider = strings.ToLower(strings.TrimSpace(e.Sentiment.Provider))
	e.Sentiment.Model = strings.TrimSpace(e.Sentiment.Model)
	e.Sentiment.ModelDir = strings.TrimSpace(e.Sentiment.ModelDir)
	e.Sentiment.Endpoint.BaseURL = strings.TrimRight(strings.TrimSpace(e.Sentiment.Endpoint.BaseURL), "/")
	e.Sentiment.Endpoint.Model = strings.TrimSpace(e.Sentiment.Endpoint.Model)
	e.HTTPCacheDir = strings.TrimSpace(e.HTTPCacheDir)
	return e
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	cfg := NewAppConfig()

	if e.Host != "" {
		cfg = applyOption(cfg, WithHost(e.Host))
	}
	if e.Port != 0 {
		cfg = applyOption(cfg, WithPort(e.Port))
	}
	if e.DataDir != "" {
		cfg = applyOption(cfg, WithDataDir(e.DataDir))
	}
	if e.DBURL != "" {
		cfg = applyOption(cfg, WithDBURL(e.DBURL))
	}
	if e.LogLevel != "" {
		cfg = applyOption(cfg, WithLogLevel(e.LogLevel))
	}
	if e.LogFormat != "" {
		cfg = applyOption(cfg, WithLogFormat(parseLogFormat(e.LogFormat)))
	}

	if e.Source.URL != "" {
		cfg = applyOption(cfg, WithSourceURL(e.Source.URL))
	}
	if e.Source.CachePath != "" {
		cfg = applyOption(cfg, WithSourceCachePath(e.Source.CachePath))
	}
	if e.Source.Timeout > 0 {
		cfg = applyOption(cfg, WithSourceTimeout(seconds(e.Source.Timeout)))
	}
	if e.HeaderMapFile != "" {
		cfg = applyOption(cfg, WithHeaderMapFile(e.HeaderMapFile))
	}

	cfg = applyOption(cfg, WithSentimentProvider(parseSentimentProvider(e.Sentiment.Provider)))
	if e.Sentiment.Model != "" {
		cfg = applyOption(cfg, WithSentimentModel(e.Sentiment.Model))
	}
	if e.Sentiment.ModelDir != "" {
		cfg = applyOption(cfg, WithSentimentModelDir(e.Sentiment.ModelDir))
	}
	cfg = applyOption(cfg, WithEndpoint(e.Sentiment.Endpoint.ToEndpoint()))

	cfg = applyOption(cfg, WithPeriodicSyncConfig(e.PeriodicSync.ToPeriodicSyncConfig()))

	if e.HTTPCacheDir != "" {
		cfg = applyOption(cfg, WithHTTPCacheDir(e.HTTPCacheDir))
	}

	return cfg
}

// applyOption applies an option to the config.
func applyOption(cfg AppConfig, opt AppConfigOption) AppConfig {
	opt(&cfg)
	return cfg
}

// ToEndpoint converts EndpointEnv to Endpoint.
func (e EndpointEnv) ToEndpoint() Endpoint {
	opts := []EndpointOption{
		WithMaxRetries(e.MaxRetries),
	}
	if e.Timeout > 0 {
		opts = append(opts, WithTimeout(seconds(e.Timeout)))
	}
	if e.Model != "" {
		opts = append(opts, WithModel(e.Model))
	}
	if e.BaseURL != "" {
		opts = append(opts, WithBaseURL(e.BaseURL))
	}
	if e.APIKey != "" {
		opts = append(opts, WithAPIKey(e.APIKey))
	}
	return NewEndpoint(opts...)
}

// ToPeriodicSyncConfig converts PeriodicSyncEnv to PeriodicSyncConfig.
func (p PeriodicSyncEnv) ToPeriodicSyncConfig() PeriodicSyncConfig {
	return NewPeriodicSyncConfig().
		WithEnabled(p.Enabled).
		WithIntervalSeconds(p.IntervalSeconds).
		WithRetryAttempts(p.RetryAttempts).
		WithRetryDelaySeconds(p.RetryDelaySeconds)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// parseLogFormat parses a log format string.
func parseLogFormat(s string) LogFormat {
	switch strings.ToLower(s) {
	case "json":
		return LogFormatJSON
	default:
		return LogFormatPretty
	}
}

// parseSentimentProvider parses a provider name, falling back to local.
func parseSentimentProvider(s string) SentimentProvider {
	switch strings.ToLower(s) {
	case "openai":
		return SentimentOpenAI
	default:
		return SentimentLocal
	}
}
