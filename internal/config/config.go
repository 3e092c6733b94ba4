// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultHost                   = "0.0.0.0"
	DefaultPort                   = 8080
	DefaultLogLevel               = "INFO"
	DefaultSourceURL              = "https://raw.githubusercontent.com/pin-people/tech_playground/refs/heads/main/data.csv"
	DefaultSourceTimeout          = 30 * time.Second
	DefaultSentimentModel         = "Xenova/bert-base-multilingual-uncased-sentiment"
	DefaultEndpointModel          = "gpt-4o-mini"
	DefaultEndpointTimeout        = 60 * time.Second
	DefaultEndpointMaxRetries     = 3
	DefaultPeriodicSyncInterval   = 86400.0 // seconds
	DefaultPeriodicSyncRetries    = 3
	DefaultPeriodicSyncRetryDelay = 60.0 // seconds
	defaultDatabaseFile           = "pulse.db"
	defaultCacheFile              = "data.csv"
	defaultModelSubdir            = "models"
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// SentimentProvider selects the sentiment engine.
type SentimentProvider string

// SentimentProvider values.
const (
	SentimentLocal  SentimentProvider = "local"
	SentimentOpenAI SentimentProvider = "openai"
)

// PeriodicSyncConfig configures the recurring sync.
type PeriodicSyncConfig struct {
	enabled           bool
	intervalSeconds   float64
	retryAttempts     int
	retryDelaySeconds float64
}

// NewPeriodicSyncConfig creates a new PeriodicSyncConfig with defaults.
func NewPeriodicSyncConfig() PeriodicSyncConfig {
	return PeriodicSyncConfig{
		enabled:           true,
		intervalSeconds:   DefaultPeriodicSyncInterval,
		retryAttempts:     DefaultPeriodicSyncRetries,
		retryDelaySeconds: DefaultPeriodicSyncRetryDelay,
	}
}

// Enabled returns whether periodic sync is enabled.
func (p PeriodicSyncConfig) Enabled() bool { return p.enabled }

// Interval returns the sync interval as a duration.
func (p PeriodicSyncConfig) Interval() time.Duration {
	return time.Duration(p.intervalSeconds * float64(time.Second))
}

// RetryAttempts returns how many times a failed run is retried.
func (p PeriodicSyncConfig) RetryAttempts() int { return p.retryAttempts }

// RetryDelay returns the delay before the first retry. Later retries
// double it.
func (p PeriodicSyncConfig) RetryDelay() time.Duration {
	return time.Duration(p.retryDelaySeconds * float64(time.Second))
}

// WithEnabled returns a new config with the specified enabled state.
func (p PeriodicSyncConfig) WithEnabled(enabled bool) PeriodicSyncConfig {
	p.enabled = enabled
	return p
}

// WithIntervalSeconds returns a new config with the specified interval.
func (p PeriodicSyncConfig) WithIntervalSeconds(seconds float64) PeriodicSyncConfig {
	p.intervalSeconds = seconds
	return p
}

// WithRetryAttempts returns a new config with the specified retry attempts.
func (p PeriodicSyncConfig) WithRetryAttempts(attempts int) PeriodicSyncConfig {
	p.retryAttempts = attempts
	return p
}

// WithRetryDelaySeconds returns a new config with the specified first retry delay.
func (p PeriodicSyncConfig) WithRetryDelaySeconds(seconds float64) PeriodicSyncConfig {
	p.retryDelaySeconds = seconds
	return p
}

// Endpoint configures an OpenAI-compatible sentiment endpoint.
type Endpoint struct {
	baseURL    string
	model      string
	apiKey     string
	timeout    time.Duration
	maxRetries int
}

// EndpointOption configures an Endpoint.
type EndpointOption func(*Endpoint)

// NewEndpoint creates an Endpoint with defaults.
func NewEndpoint(opts ...EndpointOption) Endpoint {
	e := Endpoint{
		model:      DefaultEndpointModel,
		timeout:    DefaultEndpointTimeout,
		maxRetries: DefaultEndpointMaxRetries,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// WithBaseURL sets the endpoint base URL.
func WithBaseURL(url string) EndpointOption {
	return func(e *Endpoint) { e.baseURL = url }
}

// WithModel sets the chat model.
func WithModel(model string) EndpointOption {
	return func(e *Endpoint) { e.model = model }
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) EndpointOption {
	return func(e *Endpoint) { e.apiKey = key }
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) EndpointOption {
	return func(e *Endpoint) { e.timeout = d }
}

// WithMaxRetries sets the maximum retry count.
func WithMaxRetries(n int) EndpointOption {
	return func(e *Endpoint) { e.maxRetries = n }
}

// BaseURL returns the endpoint base URL.
func (e Endpoint) BaseURL() string { return e.baseURL }

// Model returns the chat model.
func (e Endpoint) Model() string { return e.model }

// APIKey returns the API key.
func (e Endpoint) APIKey() string { return e.apiKey }

// Timeout returns the request timeout.
func (e Endpoint) Timeout() time.Duration { return e.timeout }

// MaxRetries returns the maximum retry count.
func (e Endpoint) MaxRetries() int { return e.maxRetries }

// AppConfig holds the main application configuration.
type AppConfig struct {
	host              string
	port              int
	dataDir           string
	dbURL             string
	logLevel          string
	logFormat         LogFormat
	sourceURL         string
	sourceCachePath   string
	sourceTimeout     time.Duration
	headerMapFile     string
	sentimentProvider SentimentProvider
	sentimentModel    string
	sentimentModelDir string
	endpoint          Endpoint
	httpCacheDir      string
	periodicSync      PeriodicSyncConfig
}

// DefaultDataDir returns the default data directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pulse"
	}
	return filepath.Join(home, ".pulse")
}

// PrepareDataDir creates the data directory if it does not exist and returns it.
func PrepareDataDir(dataDir string) (string, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return dataDir, nil
}

// NewAppConfig creates a new AppConfig with defaults.
func NewAppConfig() AppConfig {
	return AppConfig{
		host:              DefaultHost,
		port:              DefaultPort,
		dataDir:           DefaultDataDir(),
		logLevel:          DefaultLogLevel,
		logFormat:         LogFormatPretty,
		sourceURL:         DefaultSourceURL,
		sourceTimeout:     DefaultSourceTimeout,
		sentimentProvider: SentimentLocal,
		sentimentModel:    DefaultSentimentModel,
		endpoint:          NewEndpoint(),
		periodicSync:      NewPeriodicSyncConfig(),
	}
}

// Host returns the server host to bind to.
func (c AppConfig) Host() string { return c.host }

// Port returns the server port to listen on.
func (c AppConfig) Port() int { return c.port }

// Addr returns the combined host:port address.
func (c AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.host, c.port)
}

// DataDir returns the data directory.
func (c AppConfig) DataDir() string { return c.dataDir }

// DBURL returns the database URL, defaulting to a SQLite file in the data
// directory.
func (c AppConfig) DBURL() string {
	if c.dbURL != "" {
		return c.dbURL
	}
	return "sqlite:///" + filepath.Join(c.dataDir, defaultDatabaseFile)
}

// LogLevel returns the log level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// SourceURL returns the default export location.
func (c AppConfig) SourceURL() string { return c.sourceURL }

// SourceCachePath returns the local cache file, defaulting to the data directory.
func (c AppConfig) SourceCachePath() string {
	if c.sourceCachePath != "" {
		return c.sourceCachePath
	}
	return filepath.Join(c.dataDir, defaultCacheFile)
}

// SourceTimeout returns the fetch timeout.
func (c AppConfig) SourceTimeout() time.Duration { return c.sourceTimeout }

// HeaderMapFile returns the optional header override file.
func (c AppConfig) HeaderMapFile() string { return c.headerMapFile }

// SentimentProvider returns the selected sentiment engine.
func (c AppConfig) SentimentProvider() SentimentProvider { return c.sentimentProvider }

// SentimentModel returns the local model name.
func (c AppConfig) SentimentModel() string { return c.sentimentModel }

// SentimentModelDir returns where local model files live, defaulting to
// the data directory.
func (c AppConfig) SentimentModelDir() string {
	if c.sentimentModelDir != "" {
		return c.sentimentModelDir
	}
	return filepath.Join(c.dataDir, defaultModelSubdir)
}

// Endpoint returns the remote sentiment endpoint configuration.
func (c AppConfig) Endpoint() Endpoint { return c.endpoint }

// HTTPCacheDir returns the directory for cached endpoint responses, if any.
func (c AppConfig) HTTPCacheDir() string { return c.httpCacheDir }

// PeriodicSync returns the periodic sync configuration.
func (c AppConfig) PeriodicSync() PeriodicSyncConfig { return c.periodicSync }

// AppConfigOption is a functional option for AppConfig.
type AppConfigOption func(*AppConfig)

// WithHost sets the server host.
func WithHost(host string) AppConfigOption {
	return func(c *AppConfig) { c.host = host }
}

// WithPort sets the server port.
func WithPort(port int) AppConfigOption {
	return func(c *AppConfig) { c.port = port }
}

// WithDataDir sets the data directory.
func WithDataDir(dir string) AppConfigOption {
	return func(c *AppConfig) { c.dataDir = dir }
}

// WithDBURL sets the database URL.
func WithDBURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.dbURL = url }
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithSourceURL sets the default export location.
func WithSourceURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.sourceURL = url }
}

// WithSourceCachePath sets the local cache file.
func WithSourceCachePath(path string) AppConfigOption {
	return func(c *AppConfig) { c.sourceCachePath = path }
}

// WithSourceTimeout sets the fetch timeout.
func WithSourceTimeout(d time.Duration) AppConfigOption {
	return func(c *AppConfig) { c.sourceTimeout = d }
}

// WithHeaderMapFile sets the header override file.
func WithHeaderMapFile(path string) AppConfigOption {
	return func(c *AppConfig) { c.headerMapFile = path }
}

// WithSentimentProvider selects the sentiment engine.
func WithSentimentProvider(p SentimentProvider) AppConfigOption {
	return func(c *AppConfig) { c.sentimentProvider = p }
}

// WithSentimentModel sets the local model name.
func WithSentimentModel(model string) AppConfigOption {
	return func(c *AppConfig) { c.sentimentModel = model }
}

// WithSentimentModelDir sets where local model files live.
func WithSentimentModelDir(dir string) AppConfigOption {
	return func(c *AppConfig) { c.sentimentModelDir = dir }
}

// WithEndpoint sets the remote sentiment endpoint.
func WithEndpoint(e Endpoint) AppConfigOption {
	return func(c *AppConfig) { c.endpoint = e }
}

// WithHTTPCacheDir sets the directory for cached endpoint responses.
func WithHTTPCacheDir(dir string) AppConfigOption {
	return func(c *AppConfig) { c.httpCacheDir = dir }
}

// WithPeriodicSyncConfig sets the periodic sync config.
func WithPeriodicSyncConfig(p PeriodicSyncConfig) AppConfigOption {
	return func(c *AppConfig) { c.periodicSync = p }
}

// NewAppConfigWithOptions creates an AppConfig with functional options.
func NewAppConfigWithOptions(opts ...AppConfigOption) AppConfig {
	return NewAppConfig().Apply(opts...)
}

// Apply returns a copy of the config with the options applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// LogAttrs returns the configuration as log attributes with secrets masked.
func (c AppConfig) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("data_dir", c.dataDir),
		slog.String("db_url", c.maskedDBURL()),
		slog.String("log_level", c.logLevel),
		slog.String("source_url", c.sourceURL),
		slog.String("source_cache_path", c.SourceCachePath()),
		slog.String("sentiment_provider", string(c.sentimentProvider)),
		slog.String("sentiment_model", c.sentimentModel),
		slog.Bool("periodic_sync_enabled", c.periodicSync.Enabled()),
		slog.Duration("periodic_sync_interval", c.periodicSync.Interval()),
	}
}

func (c AppConfig) maskedDBURL() string {
	url := c.DBURL()
	if strings.HasPrefix(url, "sqlite:") {
		return url
	}
	return "postgres://***@***"
}
