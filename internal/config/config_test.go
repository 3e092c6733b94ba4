package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConstants(t *testing.T) {
	assert.Equal(t, "0.0.0.0", DefaultHost)
	assert.Equal(t, 8080, DefaultPort)
	assert.Equal(t, "INFO", DefaultLogLevel)
	assert.Equal(t, 30*time.Second, DefaultSourceTimeout)
	assert.Equal(t, "Xenova/bert-base-multilingual-uncased-sentiment", DefaultSentimentModel)
	assert.Equal(t, 86400.0, DefaultPeriodicSyncInterval)
}

func TestPeriodicSyncConfig(t *testing.T) {
	cfg := NewPeriodicSyncConfig()

	assert.True(t, cfg.Enabled())
	assert.Equal(t, 24*time.Hour, cfg.Interval())
	assert.Equal(t, 3, cfg.RetryAttempts())
	assert.Equal(t, time.Minute, cfg.RetryDelay())

	updated := cfg.
		WithEnabled(false).
		WithIntervalSeconds(1.5).
		WithRetryAttempts(0).
		WithRetryDelaySeconds(0.25)

	assert.False(t, updated.Enabled())
	assert.Equal(t, 1500*time.Millisecond, updated.Interval())
	assert.Equal(t, 0, updated.RetryAttempts())
	assert.Equal(t, 250*time.Millisecond, updated.RetryDelay())
	assert.True(t, cfg.Enabled(), "original is not modified")
}

func TestEndpoint_Defaults(t *testing.T) {
	e := NewEndpoint()

	assert.Equal(t, "", e.BaseURL())
	assert.Equal(t, DefaultEndpointModel, e.Model())
	assert.Equal(t, "", e.APIKey())
	assert.Equal(t, DefaultEndpointTimeout, e.Timeout())
	assert.Equal(t, DefaultEndpointMaxRetries, e.MaxRetries())
}

func TestEndpoint_WithOptions(t *testing.T) {
	e := NewEndpoint(
		WithBaseURL("http://localhost:11434/v1"),
		WithModel("llama3"),
		WithAPIKey("key"),
		WithTimeout(5*time.Second),
		WithMaxRetries(0),
	)

	assert.Equal(t, "http://localhost:11434/v1", e.BaseURL())
	assert.Equal(t, "llama3", e.Model())
	assert.Equal(t, "key", e.APIKey())
	assert.Equal(t, 5*time.Second, e.Timeout())
	assert.Equal(t, 0, e.MaxRetries())
}

func TestAppConfig_Defaults(t *testing.T) {
	cfg := NewAppConfig()

	assert.Equal(t, DefaultHost, cfg.Host())
	assert.Equal(t, DefaultPort, cfg.Port())
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel())
	assert.Equal(t, LogFormatPretty, cfg.LogFormat())
	assert.Equal(t, DefaultSourceURL, cfg.SourceURL())
	assert.Equal(t, DefaultSourceTimeout, cfg.SourceTimeout())
	assert.Equal(t, SentimentLocal, cfg.SentimentProvider())
	assert.Equal(t, DefaultSentimentModel, cfg.SentimentModel())
	assert.Equal(t, "", cfg.HeaderMapFile())
	assert.Equal(t, "", cfg.HTTPCacheDir())
	assert.True(t, cfg.PeriodicSync().Enabled())
	assert.Equal(t, DefaultDataDir(), cfg.DataDir())
}

func TestAppConfig_DerivedPaths(t *testing.T) {
	cfg := NewAppConfigWithOptions(WithDataDir("/srv/pulse"))

	assert.Equal(t, "sqlite:////srv/pulse/pulse.db", cfg.DBURL())
	assert.Equal(t, "/srv/pulse/data.csv", cfg.SourceCachePath())
	assert.Equal(t, "/srv/pulse/models", cfg.SentimentModelDir())
}

func TestAppConfig_WithOptions(t *testing.T) {
	cfg := NewAppConfigWithOptions(
		WithHost("localhost"),
		WithPort(9000),
		WithDBURL("postgres://db/pulse"),
		WithLogLevel("DEBUG"),
		WithLogFormat(LogFormatJSON),
		WithSourceURL("/data/export.csv"),
		WithSourceCachePath("/cache/export.csv"),
		WithSourceTimeout(time.Second),
		WithHeaderMapFile("/headers.yaml"),
		WithSentimentProvider(SentimentOpenAI),
		WithSentimentModel("other/model"),
		WithSentimentModelDir("/models"),
		WithEndpoint(NewEndpoint(WithModel("m"))),
		WithHTTPCacheDir("/http-cache"),
		WithPeriodicSyncConfig(NewPeriodicSyncConfig().WithEnabled(false)),
	)

	assert.Equal(t, "localhost:9000", cfg.Addr())
	assert.Equal(t, "postgres://db/pulse", cfg.DBURL())
	assert.Equal(t, "DEBUG", cfg.LogLevel())
	assert.Equal(t, LogFormatJSON, cfg.LogFormat())
	assert.Equal(t, "/data/export.csv", cfg.SourceURL())
	assert.Equal(t, "/cache/export.csv", cfg.SourceCachePath())
	assert.Equal(t, time.Second, cfg.SourceTimeout())
	assert.Equal(t, "/headers.yaml", cfg.HeaderMapFile())
	assert.Equal(t, SentimentOpenAI, cfg.SentimentProvider())
	assert.Equal(t, "other/model", cfg.SentimentModel())
	assert.Equal(t, "/models", cfg.SentimentModelDir())
	assert.Equal(t, "m", cfg.Endpoint().Model())
	assert.Equal(t, "/http-cache", cfg.HTTPCacheDir())
	assert.False(t, cfg.PeriodicSync().Enabled())
}

func TestAppConfig_ApplyDoesNotMutate(t *testing.T) {
	base := NewAppConfig()
	changed := base.Apply(WithPort(1234))

	assert.Equal(t, DefaultPort, base.Port())
	assert.Equal(t, 1234, changed.Port())
}

func TestAppConfig_LogAttrsMasksPostgres(t *testing.T) {
	cfg := NewAppConfigWithOptions(WithDBURL("postgres://user:secret@db/pulse"))

	for _, attr := range cfg.LogAttrs() {
		if attr.Key == "db_url" {
			assert.NotContains(t, attr.Value.String(), "secret")
			return
		}
	}
	t.Fatal("db_url attribute missing")
}

func TestPrepareDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	got, err := PrepareDataDir(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
