package provider

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/helixml/pulse/domain/sentiment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHugotSentiment_Predict(t *testing.T) {
	if !hasEmbeddedModel {
		t.Skip("skipping: requires -tags embed_model")
	}

	engine := NewHugotSentiment(t.TempDir())
	defer func() { require.NoError(t, engine.Close()) }()

	got, err := engine.Predict(context.Background(), "Adoro trabalhar aqui, a equipe é excelente")
	require.NoError(t, err)

	rating, ok := sentiment.ParseRating(got.Label)
	require.True(t, ok, "label %q should carry a star count", got.Label)
	assert.GreaterOrEqual(t, rating, 4)
	assert.Greater(t, got.Score, 0.0)
}

func TestHugotSentiment_MissingModel(t *testing.T) {
	if hasEmbeddedModel {
		t.Skip("skipping: embedded model is always available")
	}

	engine := NewHugotSentiment(t.TempDir())
	assert.False(t, engine.Available())

	_, err := engine.Predict(context.Background(), "texto qualquer")
	require.ErrorIs(t, err, ErrModelNotFound)
}

func TestHugotSentiment_CancelledContext(t *testing.T) {
	engine := NewHugotSentiment(t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Predict(ctx, "hello")
	require.ErrorIs(t, err, context.Canceled)
}

func TestHugotSentiment_DiskModelPath(t *testing.T) {
	modelDir := t.TempDir()
	engine := NewHugotSentiment(modelDir)

	_, err := engine.diskModelPath()
	require.ErrorIs(t, err, ErrModelNotFound)

	require.NoError(t, os.WriteFile(filepath.Join(modelDir, "README.md"), []byte("readme"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(modelDir, "incomplete"), 0o755))
	_, err = engine.diskModelPath()
	require.Error(t, err)

	subdir := filepath.Join(modelDir, "sentiment-model")
	require.NoError(t, os.MkdirAll(subdir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(subdir, "tokenizer.json"), []byte(`{}`), 0o644))

	got, err := engine.diskModelPath()
	require.NoError(t, err)
	assert.Equal(t, subdir, got)
	assert.True(t, engine.Available())
}

func TestExtractEmbeddedModel(t *testing.T) {
	fakeFS := fstest.MapFS{
		"models/sentiment/tokenizer.json":  {Data: []byte(`{"test": true}`)},
		"models/sentiment/config.json":     {Data: []byte(`{"id2label": {}}`)},
		"models/sentiment/onnx/model.onnx": {Data: []byte("fake-onnx-data")},
	}

	targetDir := t.TempDir()
	modelPath, err := extractEmbeddedModel(fakeFS, targetDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(targetDir, "sentiment"), modelPath)

	data, err := os.ReadFile(filepath.Join(modelPath, "onnx", "model.onnx"))
	require.NoError(t, err)
	assert.Equal(t, "fake-onnx-data", string(data))

	again, err := extractEmbeddedModel(fakeFS, targetDir)
	require.NoError(t, err)
	assert.Equal(t, modelPath, again)
}

func TestExtractEmbeddedModel_NoModelDir(t *testing.T) {
	emptyFS := fstest.MapFS{
		"models/.gitkeep": {Data: []byte("")},
	}

	_, err := extractEmbeddedModel(emptyFS, t.TempDir())
	require.ErrorIs(t, err, ErrModelNotFound)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "ação", truncateRunes("ação", 10))
	assert.Equal(t, "aç", truncateRunes("ação", 2))
}
