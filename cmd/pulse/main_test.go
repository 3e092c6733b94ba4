package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/helixml/pulse/application/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const export = "nome;email;area;cargo;tempo_de_empresa;Data da Resposta;eNPS;[Aberta] eNPS\n" +
	"Ana Souza;ana@example.com;Engineering;Developer;menos de 1 ano;15/03/2024;10;Great place to work\n" +
	"Bruno Lima;bruno@example.com;Finance;Analyst;mais de 5 anos;15/03/2024;4;-\n"

// fakeSentimentEndpoint answers every chat completion with a five star label.
func fakeSentimentEndpoint(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": time.Now().Unix(),
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": `{"label": "5 stars", "score": 0.9}`},
				"finish_reason": "stop",
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

// setupEnv points every setting at a temporary directory and the fake endpoint.
func setupEnv(t *testing.T, calls *atomic.Int32) string {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "export.csv")
	require.NoError(t, os.WriteFile(src, []byte(export), 0o644))

	srv := fakeSentimentEndpoint(t, calls)
	t.Setenv("DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("DB_URL", "")
	t.Setenv("SOURCE_URL", src)
	t.Setenv("SOURCE_CACHE_PATH", "")
	t.Setenv("HEADER_MAP_FILE", "")
	t.Setenv("LOG_LEVEL", "ERROR")
	t.Setenv("PERIODIC_SYNC_ENABLED", "false")
	t.Setenv("SENTIMENT_PROVIDER", "openai")
	t.Setenv("SENTIMENT_ENDPOINT_BASE_URL", srv.URL)
	t.Setenv("SENTIMENT_ENDPOINT_API_KEY", "test-key")
	t.Setenv("SENTIMENT_ENDPOINT_MODEL", "test-model")
	t.Setenv("HTTP_CACHE_DIR", "")
	return src
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "missing.env")))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSyncCommand(t *testing.T) {
	var calls atomic.Int32
	setupEnv(t, &calls)

	out, err := execute(t, "sync", "--json")
	require.NoError(t, err)

	var stats service.SyncStats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, service.SyncStats{Created: 2, AIAnalyzed: 2, Processed: 2}, stats)
	assert.Equal(t, int32(1), calls.Load())

	out, err = execute(t, "sync", "--local-only")
	require.NoError(t, err)
	assert.Contains(t, out, "skipped")
	assert.Equal(t, int32(1), calls.Load())
}

func TestAnalyzeCommand(t *testing.T) {
	var calls atomic.Int32
	setupEnv(t, &calls)

	_, err := execute(t, "sync")
	require.NoError(t, err)
	calls.Store(0)

	out, err := execute(t, "analyze", "--response-id", "1")
	require.NoError(t, err)
	assert.Equal(t, "analyzed response 1\n", out)
	assert.Equal(t, int32(1), calls.Load())

	out, err = execute(t, "analyze", "--all")
	require.NoError(t, err)
	assert.Equal(t, "analyzed 2 of 2 responses (0 failed)\n", out)

	_, err = execute(t, "analyze", "--response-id", "99")
	assert.Error(t, err)
}

func TestAnalyzeCommand_FlagsAreExclusive(t *testing.T) {
	var calls atomic.Int32
	setupEnv(t, &calls)

	_, err := execute(t, "analyze", "--response-id", "1", "--all")
	assert.Error(t, err)

	_, err = execute(t, "analyze")
	assert.Error(t, err)
}

func TestSyncCommand_OpenAIWithoutEndpoint(t *testing.T) {
	var calls atomic.Int32
	setupEnv(t, &calls)
	t.Setenv("SENTIMENT_ENDPOINT_BASE_URL", "")
	t.Setenv("SENTIMENT_ENDPOINT_API_KEY", "")

	_, err := execute(t, "sync")
	assert.ErrorIs(t, err, errNoEndpoint)
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printStats(&buf, service.SyncStats{Created: 3, Errors: 1, Processed: 3}, false))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, []string{"created", "3"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"errors", "1"}, strings.Fields(lines[3]))
}

func TestIsSQLite(t *testing.T) {
	assert.True(t, isSQLite("sqlite:///tmp/pulse.db"))
	assert.False(t, isSQLite("postgres://user@localhost/pulse"))
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "pulse version dev")
}
