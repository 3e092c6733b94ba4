package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/helixml/pulse/domain/ingest"
	"github.com/helixml/pulse/internal/database"
	"github.com/helixml/pulse/internal/log"
	"golang.org/x/sync/semaphore"
)

// Source produces the raw rows of an export.
type Source interface {
	Rows(ctx context.Context, src, cachePath string, localOnly bool) ([]ingest.Row, error)
}

// SyncParams selects the export a run reads.
type SyncParams struct {
	// Source is a URL or file path. Empty means the configured default.
	Source string
	// LocalOnly skips the fetch and reads the cache.
	LocalOnly bool
	// CachePath overrides the configured cache file.
	CachePath string
}

// Pipeline runs a full sync: load, validate, the employee and survey
// passes, then response reconciliation with inline enrichment. The whole
// run is one transaction; each row inside it is one savepoint.
type Pipeline struct {
	db            database.Database
	stores        StoreFactory
	source        Source
	validator     ingest.Validator
	synchronizer  *Synchronizer
	reconciler    *Reconciler
	defaultSource string
	cachePath     string
	logger        *slog.Logger
	running       *semaphore.Weighted
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithDefaultSource sets the source used when a run names none.
func WithDefaultSource(src string) PipelineOption {
	return func(p *Pipeline) { p.defaultSource = src }
}

// WithCachePath sets the cache file used when a run names none.
func WithCachePath(path string) PipelineOption {
	return func(p *Pipeline) { p.cachePath = path }
}

// NewPipeline creates a Pipeline.
func NewPipeline(
	db database.Database,
	stores StoreFactory,
	source Source,
	validator ingest.Validator,
	analyzer *Analyzer,
	logger *slog.Logger,
	opts ...PipelineOption,
) *Pipeline {
	p := &Pipeline{
		db:           db,
		stores:       stores,
		source:       source,
		validator:    validator,
		synchronizer: NewSynchronizer(stores, logger),
		reconciler:   NewReconciler(analyzer),
		logger:       logger,
		running:      semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run performs one sync. Only one run may be in flight; a concurrent call
// returns ErrRunInProgress without touching storage. When Run returns an
// error nothing the run wrote is kept.
func (p *Pipeline) Run(ctx context.Context, params SyncParams) (SyncStats, error) {
	if !p.running.TryAcquire(1) {
		return SyncStats{}, ErrRunInProgress
	}
	defer p.running.Release(1)

	if log.CorrelationID(ctx) == "" {
		ctx = log.WithCorrelationID(ctx, uuid.NewString())
	}
	start := time.Now()

	src := params.Source
	if src == "" {
		src = p.defaultSource
	}
	cachePath := params.CachePath
	if cachePath == "" {
		cachePath = p.cachePath
	}

	p.logger.InfoContext(ctx, "sync run started",
		slog.String("source", src),
		slog.String("cache", cachePath),
		slog.Bool("local_only", params.LocalOnly),
	)

	rows, err := p.source.Rows(ctx, src, cachePath, params.LocalOnly)
	if err != nil {
		p.logger.ErrorContext(ctx, "sync run aborted", slog.Any("error", err))
		return SyncStats{}, fmt.Errorf("load source: %w", err)
	}

	t := newTally()
	records := p.validate(ctx, rows, t)

	err = database.WithTransaction(ctx, p.db, func(tx database.Database) error {
		return p.apply(ctx, tx, records, t)
	})
	if err != nil {
		p.logger.ErrorContext(ctx, "sync run rolled back", slog.Any("error", err))
		return SyncStats{}, fmt.Errorf("sync run: %w", err)
	}

	stats := t.result()
	p.logger.InfoContext(ctx, "sync run complete",
		slog.Int("rows", len(rows)),
		slog.Int("created", stats.Created),
		slog.Int("updated", stats.Updated),
		slog.Int("skipped", stats.Skipped),
		slog.Int("errors", stats.Errors),
		slog.Int("ai_analyzed", stats.AIAnalyzed),
		slog.Duration("duration", time.Since(start)),
	)
	return stats, nil
}

func (p *Pipeline) validate(ctx context.Context, rows []ingest.Row, t *tally) []ingest.Record {
	records := make([]ingest.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := p.validator.Validate(row)
		if err != nil {
			attrs := []any{slog.Int("row", row.Number), slog.Any("error", err)}
			var verr *ingest.ValidationError
			if errors.As(err, &verr) {
				attrs = append(attrs, slog.String("field", string(verr.Field)))
			}
			p.logger.WarnContext(ctx, "row rejected", attrs...)
			t.fail(row.Number)
			continue
		}
		records = append(records, rec)
	}
	return records
}

func (p *Pipeline) apply(ctx context.Context, tx database.Database, records []ingest.Record, t *tally) error {
	ids := NewIdentities()

	failed, err := p.synchronizer.SyncEmployees(ctx, tx, records, ids)
	if err != nil {
		return fmt.Errorf("employee pass: %w", err)
	}
	for _, row := range failed {
		t.fail(row)
	}

	records = t.pending(records)

	failed, err = p.synchronizer.SyncSurveys(ctx, tx, records, ids)
	if err != nil {
		return fmt.Errorf("survey pass: %w", err)
	}
	for _, row := range failed {
		t.fail(row)
	}

	if err := p.reconcileAll(ctx, tx, records, ids, t); err != nil {
		return fmt.Errorf("response pass: %w", err)
	}
	return nil
}

func (p *Pipeline) reconcileAll(ctx context.Context, tx database.Database, records []ingest.Record, ids *Identities, t *tally) error {
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if t.failedRow(rec.Row) {
			continue
		}

		employeeID, okEmployee := ids.Employee(rec.Email)
		surveyID, okSurvey := ids.Survey(rec.Date)
		if !okEmployee || !okSurvey {
			p.logger.WarnContext(ctx, "row skipped, unresolved employee or survey", slog.Int("row", rec.Row))
			t.fail(rec.Row)
			continue
		}

		var outcome Outcome
		err := database.WithSavepoint(ctx, tx, func(sp database.Database) error {
			var err error
			outcome, err = p.reconciler.Reconcile(ctx, p.stores(sp), employeeID, surveyID, rec)
			return err
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			p.logger.WarnContext(ctx, "response reconcile failed",
				slog.Int("row", rec.Row),
				slog.String("email", rec.Email),
				slog.Any("error", err),
			)
			t.fail(rec.Row)
			continue
		}

		switch outcome.State {
		case StateNew:
			t.stats.Created++
		case StateUnchanged:
			t.stats.Skipped++
		case StateUpdated, StateUpdatedWithEnrichment:
			t.stats.Updated++
		}
		if outcome.Enriched {
			t.stats.AIAnalyzed++
		}
		p.logger.DebugContext(ctx, "response reconciled",
			slog.Int("row", rec.Row),
			slog.Int64("response_id", outcome.Response.ID()),
			slog.String("state", outcome.State.String()),
		)
	}
	return nil
}
