package provider

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/helixml/pulse/domain/sentiment"
	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
)

// maxInputRunes bounds the text handed to the tokenizer. The model's
// context is 512 tokens; anything past this is cut before tokenizing.
const maxInputRunes = 2000

// hugotSingleton holds the process-wide session and pipeline, built once
// on first use and shared by every HugotSentiment. The mutex serializes
// initialization and inference.
var hugotSingleton struct {
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
	mu       sync.Mutex
	ready    bool
}

// HugotSentiment classifies text with a local multilingual sentiment model.
//
// The model can come from two sources (checked in order):
//  1. Model files on disk, a subdirectory of modelDir containing tokenizer.json.
//  2. Statically embedded in the binary (build tag embed_model), extracted to
//     modelDir on first use.
//
// The model is loaded lazily on the first Predict call.
type HugotSentiment struct {
	modelDir string
}

// NewHugotSentiment creates a HugotSentiment that looks for model files in modelDir.
func NewHugotSentiment(modelDir string) *HugotSentiment {
	return &HugotSentiment{modelDir: modelDir}
}

// Available reports whether a usable model exists, either compiled into
// the binary or present on disk in modelDir.
func (h *HugotSentiment) Available() bool {
	if hasEmbeddedModel {
		return true
	}
	_, err := h.diskModelPath()
	return err == nil
}

func (h *HugotSentiment) initialize() error {
	hugotSingleton.mu.Lock()
	defer hugotSingleton.mu.Unlock()

	if hugotSingleton.ready {
		return nil
	}

	modelPath, err := h.resolveModelPath()
	if err != nil {
		return err
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return fmt.Errorf("create hugot session: %w", err)
	}

	config := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "sentiment",
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		_ = session.Destroy()
		return fmt.Errorf("create text classification pipeline: %w", err)
	}

	hugotSingleton.session = session
	hugotSingleton.pipeline = pipeline
	hugotSingleton.ready = true
	return nil
}

func (h *HugotSentiment) resolveModelPath() (string, error) {
	if diskPath, err := h.diskModelPath(); err == nil {
		return diskPath, nil
	}

	if !hasEmbeddedModel {
		return "", fmt.Errorf("%w: nothing in %s and no embedded model compiled in (build with -tags embed_model)", ErrModelNotFound, h.modelDir)
	}

	if err := os.MkdirAll(h.modelDir, 0o755); err != nil {
		return "", fmt.Errorf("create model directory: %w", err)
	}

	return extractEmbeddedModel(embeddedModelFS, h.modelDir)
}

// diskModelPath returns the first subdirectory of modelDir that holds a
// tokenizer.json.
func (h *HugotSentiment) diskModelPath() (string, error) {
	entries, err := os.ReadDir(h.modelDir)
	if err != nil {
		return "", fmt.Errorf("read model directory %s: %w", h.modelDir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		candidate := filepath.Join(h.modelDir, entry.Name())
		if _, statErr := os.Stat(filepath.Join(candidate, "tokenizer.json")); statErr == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: no subdirectory with tokenizer.json in %s", ErrModelNotFound, h.modelDir)
}

// extractEmbeddedModel writes the embedded model files to targetDir and
// returns the model subdirectory. Existing files are reused.
func extractEmbeddedModel(embedded fs.FS, targetDir string) (string, error) {
	modelsFS, err := fs.Sub(embedded, "models")
	if err != nil {
		return "", fmt.Errorf("access embedded models: %w", err)
	}

	entries, err := fs.ReadDir(modelsFS, ".")
	if err != nil {
		return "", fmt.Errorf("read embedded models: %w", err)
	}

	var modelSubdir string
	for _, entry := range entries {
		if entry.IsDir() {
			modelSubdir = entry.Name()
			break
		}
	}
	if modelSubdir == "" {
		return "", fmt.Errorf("%w: no model directory in embedded models", ErrModelNotFound)
	}

	modelPath := filepath.Join(targetDir, modelSubdir)
	if _, statErr := os.Stat(filepath.Join(modelPath, "tokenizer.json")); statErr == nil {
		return modelPath, nil
	}

	modelFS, err := fs.Sub(modelsFS, modelSubdir)
	if err != nil {
		return "", fmt.Errorf("access model subdirectory: %w", err)
	}

	err = fs.WalkDir(modelFS, ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		target := filepath.Join(modelPath, path)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, readErr := fs.ReadFile(modelFS, path)
		if readErr != nil {
			return fmt.Errorf("read embedded file %s: %w", path, readErr)
		}
		if mkdirErr := os.MkdirAll(filepath.Dir(target), 0o755); mkdirErr != nil {
			return fmt.Errorf("create directory for %s: %w", path, mkdirErr)
		}
		return os.WriteFile(target, data, 0o644)
	})
	if err != nil {
		return "", fmt.Errorf("extract embedded model: %w", err)
	}

	return modelPath, nil
}

// Predict classifies text and returns the highest scoring label.
func (h *HugotSentiment) Predict(ctx context.Context, text string) (sentiment.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return sentiment.Prediction{}, err
	}

	if err := h.initialize(); err != nil {
		return sentiment.Prediction{}, fmt.Errorf("initialize hugot: %w", err)
	}

	hugotSingleton.mu.Lock()
	defer hugotSingleton.mu.Unlock()

	result, err := hugotSingleton.pipeline.RunPipeline([]string{truncateRunes(text, maxInputRunes)})
	if err != nil {
		return sentiment.Prediction{}, fmt.Errorf("run sentiment pipeline: %w", err)
	}
	if len(result.ClassificationOutputs) == 0 || len(result.ClassificationOutputs[0]) == 0 {
		return sentiment.Prediction{}, ErrEmptyPrediction
	}

	best := result.ClassificationOutputs[0][0]
	for _, candidate := range result.ClassificationOutputs[0][1:] {
		if candidate.Score > best.Score {
			best = candidate
		}
	}
	return sentiment.Prediction{Label: best.Label, Score: float64(best.Score)}, nil
}

// Close is a no-op. The session is process-global and released on exit.
func (h *HugotSentiment) Close() error {
	return nil
}

func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

var _ sentiment.Engine = (*HugotSentiment)(nil)
