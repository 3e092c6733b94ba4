package pulse_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/helixml/pulse"
	"github.com/helixml/pulse/application/service"
	"github.com/helixml/pulse/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const export = "\ufeffnome;email;email_corporativo;area;cargo;tempo_de_empresa;Data da Resposta;eNPS;[Aberta] eNPS;Feedback;Comentários - Feedback\n" +
	"Ana Souza;ana@example.com;ana@corp.example.com;Engineering;Developer;entre 1 e 2 anos;15/03/2024;10;Great place!;5;-\n" +
	"Bruno Lima;bruno@example.com;-;Finance;Analyst;mais de 5 anos;15/03/2024;3;Terrible management;2;Bad feedback loops\n" +
	"Broken Row;not-an-email;;Finance;Analyst;;15/03/2024;7;;;\n"

func newClient(t *testing.T, engine *testutil.StubEngine) (*pulse.Client, string) {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "export.csv")
	require.NoError(t, os.WriteFile(src, []byte(export), 0o644))

	client, err := pulse.New(
		pulse.WithDataDir(filepath.Join(dir, "data")),
		pulse.WithSentimentEngine(engine),
		pulse.WithSourceURL(src),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client, dir
}

func TestClient_SyncEndToEnd(t *testing.T) {
	engine := testutil.NewStubEngine()
	client, _ := newClient(t, engine)
	ctx := context.Background()

	stats, err := client.Pipeline.Run(ctx, service.SyncParams{})
	require.NoError(t, err)

	want := service.SyncStats{Created: 2, Errors: 1, AIAnalyzed: 2, Processed: 2}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Fatalf("stats mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3, engine.CallCount())

	_, err = os.Stat(filepath.Join(client.DataDir(), "data.csv"))
	require.NoError(t, err, "local source refreshes the cache")

	engine.Reset()
	stats, err = client.Pipeline.Run(ctx, service.SyncParams{LocalOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Skipped)
	assert.Zero(t, engine.CallCount())

	result, err := client.Enrichment.AnalyzeAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, service.BatchResult{Total: 2, Succeeded: 2}, result)
}

func TestClient_CloseTwice(t *testing.T) {
	client, err := pulse.New(
		pulse.WithDataDir(t.TempDir()),
		pulse.WithSentimentEngine(testutil.NewStubEngine()),
	)
	require.NoError(t, err)

	require.NoError(t, client.Close())
	assert.ErrorIs(t, client.Close(), pulse.ErrClientClosed)
	assert.ErrorIs(t, client.StartScheduler(context.Background()), pulse.ErrClientClosed)
}

func TestClient_EmptySQLitePath(t *testing.T) {
	_, err := pulse.New(
		pulse.WithDataDir(t.TempDir()),
		pulse.WithSQLite(""),
		pulse.WithSentimentEngine(testutil.NewStubEngine()),
	)
	assert.ErrorIs(t, err, pulse.ErrNoDatabase)
}

func TestClient_BadHeaderMapFile(t *testing.T) {
	_, err := pulse.New(
		pulse.WithDataDir(t.TempDir()),
		pulse.WithHeaderMapFile(filepath.Join(t.TempDir(), "missing.yaml")),
		pulse.WithSentimentEngine(testutil.NewStubEngine()),
	)
	assert.Error(t, err)
}
