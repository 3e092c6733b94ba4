package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/helixml/pulse/domain/repository"
	"github.com/helixml/pulse/domain/sentiment"
	"github.com/helixml/pulse/domain/survey"
	"github.com/helixml/pulse/internal/database"
)

// Analyzer attaches sentiment records to the text answers of a response.
type Analyzer struct {
	engine sentiment.Engine
	logger *slog.Logger
}

// NewAnalyzer creates an Analyzer backed by engine.
func NewAnalyzer(engine sentiment.Engine, logger *slog.Logger) *Analyzer {
	return &Analyzer{engine: engine, logger: logger}
}

// Enrich classifies every eligible text answer of response and upserts one
// record per field into store. An engine failure skips that field only;
// a store failure is returned. It reports how many records were written.
func (a *Analyzer) Enrich(ctx context.Context, store sentiment.Store, response survey.Response) (int, error) {
	written := 0
	for _, field := range survey.AllTextFields() {
		text, ok := response.Texts().Get(field)
		if !ok || !sentiment.Eligible(text) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return written, err
		}

		prediction, err := a.engine.Predict(ctx, text)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return written, ctxErr
			}
			a.logger.WarnContext(ctx, "sentiment prediction failed",
				slog.Int64("response_id", response.ID()),
				slog.String("field", string(field)),
				slog.Any("error", err),
			)
			continue
		}

		record := sentiment.NewRecord(response.ID(), field, sentiment.Classify(prediction))
		if _, err := store.Save(ctx, record); err != nil {
			return written, fmt.Errorf("save sentiment for %s: %w", field, err)
		}
		written++
	}

	a.logger.DebugContext(ctx, "response analyzed",
		slog.Int64("response_id", response.ID()),
		slog.Int("sentiments", written),
	)
	return written, nil
}

// Enrichment is the standalone entry point for analysing stored responses.
type Enrichment struct {
	db       database.Database
	stores   StoreFactory
	analyzer *Analyzer
	logger   *slog.Logger
}

// NewEnrichment creates an Enrichment service.
func NewEnrichment(db database.Database, stores StoreFactory, analyzer *Analyzer, logger *slog.Logger) *Enrichment {
	return &Enrichment{db: db, stores: stores, analyzer: analyzer, logger: logger}
}

// AnalyzeResponse (re)classifies every text answer of the response with
// the given ID in its own transaction. Running it twice over the same text
// converges on the same stored records. A missing response yields an error
// wrapping database.ErrNotFound.
func (e *Enrichment) AnalyzeResponse(ctx context.Context, id int64) error {
	return database.WithTransaction(ctx, e.db, func(tx database.Database) error {
		stores := e.stores(tx)
		response, err := stores.Responses.FindOne(ctx, repository.WithID(id))
		if err != nil {
			return fmt.Errorf("find response %d: %w", id, err)
		}
		if _, err := e.analyzer.Enrich(ctx, stores.Sentiments, response); err != nil {
			return fmt.Errorf("analyze response %d: %w", id, err)
		}
		return nil
	})
}

// BatchResult summarises a batch re-analysis.
type BatchResult struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// AnalyzeAll runs AnalyzeResponse for every stored response in ID order.
// A failing response is logged and counted; cancellation stops the batch.
func (e *Enrichment) AnalyzeAll(ctx context.Context) (BatchResult, error) {
	responses, err := e.stores(e.db).Responses.Find(ctx, repository.WithOrderAsc("id"))
	if err != nil {
		return BatchResult{}, fmt.Errorf("list responses: %w", err)
	}

	result := BatchResult{Total: len(responses)}
	step := max(1, result.Total/10)
	for i, response := range responses {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := e.AnalyzeResponse(ctx, response.ID()); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, ctxErr
			}
			result.Failed++
			e.logger.ErrorContext(ctx, "batch analysis failed",
				slog.Int64("response_id", response.ID()),
				slog.Any("error", err),
			)
			continue
		}
		result.Succeeded++
		if i%step == 0 {
			e.logger.InfoContext(ctx, "batch analysis progress",
				slog.Int("done", i+1),
				slog.Int("total", result.Total),
			)
		}
	}

	e.logger.InfoContext(ctx, "batch analysis complete",
		slog.Int("succeeded", result.Succeeded),
		slog.Int("failed", result.Failed),
	)
	return result, nil
}
