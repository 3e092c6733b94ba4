package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/helixml/pulse/domain/ingest"
	"github.com/helixml/pulse/domain/survey"
	"github.com/helixml/pulse/internal/database"
)

// Identities caches the natural key to ID mapping of entities a run has
// written. Each run owns its own instance.
type Identities struct {
	departments map[string]int64
	employees   map[string]int64
	surveys     map[string]int64
}

// NewIdentities creates an empty cache.
func NewIdentities() *Identities {
	return &Identities{
		departments: make(map[string]int64),
		employees:   make(map[string]int64),
		surveys:     make(map[string]int64),
	}
}

// Employee returns the ID recorded for email.
func (c *Identities) Employee(email string) (int64, bool) {
	id, ok := c.employees[email]
	return id, ok
}

// Survey returns the ID recorded for the survey on date.
func (c *Identities) Survey(date time.Time) (int64, bool) {
	id, ok := c.surveys[survey.DateKey(date)]
	return id, ok
}

// Synchronizer upserts the structural entities a response depends on.
type Synchronizer struct {
	stores StoreFactory
	logger *slog.Logger
}

// NewSynchronizer creates a Synchronizer.
func NewSynchronizer(stores StoreFactory, logger *slog.Logger) *Synchronizer {
	return &Synchronizer{stores: stores, logger: logger}
}

// SyncEmployees ensures a department exists for every record and upserts
// the employee by email, overwriting the whole profile. Each record runs in
// its own savepoint of tx. Existing departments are loaded up front. It
// returns the rows that failed; the returned error is reserved for failures
// that must abort the run.
func (s *Synchronizer) SyncEmployees(ctx context.Context, tx database.Database, records []ingest.Record, ids *Identities) ([]int, error) {
	departments, err := s.stores(tx).Departments.Find(ctx)
	if err != nil {
		return nil, fmt.Errorf("preload departments: %w", err)
	}
	for _, d := range departments {
		ids.departments[d.Name()] = d.ID()
	}

	var failed []int
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return failed, err
		}

		var departmentID, employeeID int64
		err := database.WithSavepoint(ctx, tx, func(sp database.Database) error {
			stores := s.stores(sp)

			id, err := s.department(ctx, stores, ids, rec.Department)
			if err != nil {
				return err
			}
			departmentID = id

			saved, err := stores.Employees.Save(ctx, survey.NewEmployee(rec.Email, departmentID, rec.Profile))
			if err != nil {
				return err
			}
			employeeID = saved.ID()
			return nil
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return failed, ctxErr
			}
			s.logger.WarnContext(ctx, "employee sync failed",
				slog.Int("row", rec.Row),
				slog.String("email", rec.Email),
				slog.Any("error", err),
			)
			failed = append(failed, rec.Row)
			continue
		}

		ids.departments[rec.Department] = departmentID
		ids.employees[rec.Email] = employeeID
	}

	s.logger.DebugContext(ctx, "employee pass complete",
		slog.Int("departments", len(ids.departments)),
		slog.Int("employees", len(ids.employees)),
	)
	return failed, nil
}

func (s *Synchronizer) department(ctx context.Context, stores Stores, ids *Identities, name string) (int64, error) {
	if id, ok := ids.departments[name]; ok {
		return id, nil
	}
	saved, err := stores.Departments.Save(ctx, survey.NewDepartment(name))
	if err != nil {
		return 0, fmt.Errorf("ensure department %q: %w", name, err)
	}
	return saved.ID(), nil
}

// SyncSurveys ensures a survey exists for every distinct response date in
// records, loading the existing surveys up front. Callers pass only the
// records whose employee was stored.
func (s *Synchronizer) SyncSurveys(ctx context.Context, tx database.Database, records []ingest.Record, ids *Identities) ([]int, error) {
	surveys, err := s.stores(tx).Surveys.Find(ctx)
	if err != nil {
		return nil, fmt.Errorf("preload surveys: %w", err)
	}
	for _, sv := range surveys {
		ids.surveys[survey.DateKey(sv.Date())] = sv.ID()
	}

	var failed []int
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return failed, err
		}

		key := survey.DateKey(rec.Date)
		if _, ok := ids.surveys[key]; ok {
			continue
		}

		var surveyID int64
		err := database.WithSavepoint(ctx, tx, func(sp database.Database) error {
			saved, err := s.stores(sp).Surveys.Save(ctx, survey.NewSurvey(rec.Date))
			if err != nil {
				return err
			}
			surveyID = saved.ID()
			return nil
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return failed, ctxErr
			}
			s.logger.WarnContext(ctx, "survey sync failed",
				slog.Int("row", rec.Row),
				slog.String("date", key),
				slog.Any("error", err),
			)
			failed = append(failed, rec.Row)
			continue
		}

		ids.surveys[key] = surveyID
	}

	s.logger.DebugContext(ctx, "survey pass complete", slog.Int("surveys", len(ids.surveys)))
	return failed, nil
}
