package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/helixml/pulse/domain/ingest"
	"github.com/helixml/pulse/domain/sentiment"
	"github.com/helixml/pulse/domain/survey"
	"github.com/helixml/pulse/internal/database"
)

// State classifies what reconciliation did with one record.
type State int

// Reconciliation states.
const (
	StateNew State = iota
	StateUnchanged
	StateUpdated
	StateUpdatedWithEnrichment
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateUnchanged:
		return "unchanged"
	case StateUpdated:
		return "updated"
	case StateUpdatedWithEnrichment:
		return "updated_with_enrichment"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// RequiresEnrichment reports whether the state re-runs sentiment analysis.
func (s State) RequiresEnrichment() bool {
	return s == StateNew || s == StateUpdatedWithEnrichment
}

// Outcome is the result of reconciling one record.
type Outcome struct {
	State    State
	Response survey.Response
	// Enriched is set when the analyzer ran for the response.
	Enriched bool
}

// Reconciler decides, per record, whether the stored response is new,
// unchanged or updated, and applies the matching write.
type Reconciler struct {
	analyzer *Analyzer
}

// NewReconciler creates a Reconciler that enriches through analyzer.
func NewReconciler(analyzer *Analyzer) *Reconciler {
	return &Reconciler{analyzer: analyzer}
}

// Reconcile applies rec as the answers of employeeID to surveyID.
//
// Change detection runs against the stored answers before anything is
// overwritten. A text change purges every sentiment of the response before
// the update so enrichment rebuilds the whole set.
func (r *Reconciler) Reconcile(ctx context.Context, stores Stores, employeeID, surveyID int64, rec ingest.Record) (Outcome, error) {
	existing, err := stores.Responses.FindOne(ctx,
		survey.WithEmployeeID(employeeID),
		survey.WithSurveyID(surveyID),
	)
	if errors.Is(err, database.ErrNotFound) {
		created, err := stores.Responses.Save(ctx, survey.NewResponse(employeeID, surveyID, rec.Scores, rec.Texts))
		if err != nil {
			return Outcome{}, fmt.Errorf("create response: %w", err)
		}
		return r.finish(ctx, stores, Outcome{State: StateNew, Response: created})
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("find response: %w", err)
	}

	change := existing.Diff(rec.Scores, rec.Texts)
	if !change.Any() {
		return Outcome{State: StateUnchanged, Response: existing}, nil
	}

	state := StateUpdated
	if change.TextChanged {
		state = StateUpdatedWithEnrichment
		if err := stores.Sentiments.DeleteBy(ctx, sentiment.WithResponseID(existing.ID())); err != nil {
			return Outcome{}, fmt.Errorf("purge stale sentiments: %w", err)
		}
	}

	updated, err := stores.Responses.Save(ctx, existing.WithAnswers(rec.Scores, rec.Texts))
	if err != nil {
		return Outcome{}, fmt.Errorf("update response: %w", err)
	}
	return r.finish(ctx, stores, Outcome{State: state, Response: updated})
}

func (r *Reconciler) finish(ctx context.Context, stores Stores, outcome Outcome) (Outcome, error) {
	if !outcome.State.RequiresEnrichment() {
		return outcome, nil
	}
	if _, err := r.analyzer.Enrich(ctx, stores.Sentiments, outcome.Response); err != nil {
		return Outcome{}, fmt.Errorf("enrich response %d: %w", outcome.Response.ID(), err)
	}
	outcome.Enriched = true
	return outcome, nil
}
