// Package v1 provides the version 1 HTTP routes.
package v1

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/helixml/pulse/application/service"
	"github.com/helixml/pulse/infrastructure/api/middleware"
	"github.com/helixml/pulse/infrastructure/source"
)

// SyncRequest is the body of POST /api/v1/sync. Every field is optional.
type SyncRequest struct {
	Source    string `json:"source"`
	LocalOnly bool   `json:"local_only"`
}

// SyncRouter triggers pipeline runs.
type SyncRouter struct {
	runner service.Runner
	logger *slog.Logger
}

// NewSyncRouter creates a new SyncRouter.
func NewSyncRouter(runner service.Runner, logger *slog.Logger) *SyncRouter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SyncRouter{runner: runner, logger: logger}
}

// Routes returns the chi router for sync endpoints.
func (r *SyncRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", r.Run)

	return router
}

// Run handles POST /api/v1/sync. It blocks until the run finishes and
// returns its statistics. A source override must be an http(s) URL. A run already in flight yields 409; an export
// that can be neither fetched nor read from cache yields 502.
func (r *SyncRouter) Run(w http.ResponseWriter, req *http.Request) {
	var body SyncRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		middleware.WriteError(w, req, middleware.NewAPIError(http.StatusBadRequest, "invalid request body", err), r.logger)
		return
	}

	if body.Source != "" && !source.IsRemote(body.Source) {
		middleware.WriteError(w, req, middleware.NewAPIError(http.StatusBadRequest, "source must be an http or https URL", nil), r.logger)
		return
	}

	stats, err := r.runner.Run(req.Context(), service.SyncParams{
		Source:    body.Source,
		LocalOnly: body.LocalOnly,
	})
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, stats)
}
