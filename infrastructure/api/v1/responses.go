package v1

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/helixml/pulse/infrastructure/api/middleware"
)

// ResponseAnalyzer re-runs sentiment enrichment for one stored response.
type ResponseAnalyzer interface {
	AnalyzeResponse(ctx context.Context, id int64) error
}

// ResponsesRouter handles survey response endpoints.
type ResponsesRouter struct {
	analyzer ResponseAnalyzer
	logger   *slog.Logger
}

// NewResponsesRouter creates a new ResponsesRouter.
func NewResponsesRouter(analyzer ResponseAnalyzer, logger *slog.Logger) *ResponsesRouter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResponsesRouter{analyzer: analyzer, logger: logger}
}

// Routes returns the chi router for response endpoints.
func (r *ResponsesRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/{id}/analyze", r.Analyze)

	return router
}

// Analyze handles POST /api/v1/responses/{id}/analyze.
func (r *ResponsesRouter) Analyze(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.WriteError(w, req, middleware.NewAPIError(http.StatusBadRequest, "invalid response id", err), r.logger)
		return
	}

	if err := r.analyzer.AnalyzeResponse(req.Context(), id); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
