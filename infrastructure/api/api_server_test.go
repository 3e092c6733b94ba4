package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/helixml/pulse"
	"github.com/helixml/pulse/application/service"
	"github.com/helixml/pulse/infrastructure/api"
	"github.com/helixml/pulse/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const export = "nome;email;area;cargo;Data da Resposta;eNPS;[Aberta] eNPS\n" +
	"Ana Souza;ana@example.com;Engineering;Developer;15/03/2024;10;Great place!\n"

func newTestServer(t *testing.T) (http.Handler, *testutil.StubEngine, string) {
	t.Helper()
	dir := t.TempDir()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(export))
	}))
	t.Cleanup(upstream.Close)

	engine := testutil.NewStubEngine()
	client, err := pulse.New(
		pulse.WithDataDir(filepath.Join(dir, "data")),
		pulse.WithSentimentEngine(engine),
		pulse.WithSourceURL(filepath.Join(dir, "missing.csv")),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return api.NewAPIServer(client).Handler(), engine, upstream.URL
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestAPIServer_Health(t *testing.T) {
	h, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestAPIServer_SyncThenAnalyze(t *testing.T) {
	h, engine, src := newTestServer(t)

	w := post(t, h, "/api/v1/sync", `{"source":"`+src+`"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stats service.SyncStats
	require.NoError(t, json.NewDecoder(w.Body).Decode(&stats))
	assert.Equal(t, service.SyncStats{Created: 1, AIAnalyzed: 1, Processed: 1}, stats)
	assert.Equal(t, 1, engine.CallCount())

	w = post(t, h, "/api/v1/responses/1/analyze", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 2, engine.CallCount())

	w = post(t, h, "/api/v1/responses/999/analyze", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPIServer_SyncRejectsFileSource(t *testing.T) {
	h, engine, _ := newTestServer(t)

	w := post(t, h, "/api/v1/sync", `{"source":"/etc/hostname"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, engine.CallCount())
}

func TestAPIServer_SyncWithoutData(t *testing.T) {
	h, _, _ := newTestServer(t)

	w := post(t, h, "/api/v1/sync", `{"local_only":true}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}
