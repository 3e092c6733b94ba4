// Package api serves the HTTP trigger surface of a pulse Client.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/helixml/pulse"
	"github.com/helixml/pulse/infrastructure/api/middleware"
	v1 "github.com/helixml/pulse/infrastructure/api/v1"
)

// analyzeTimeout bounds a single-response re-analysis request.
const analyzeTimeout = 60 * time.Second

// APIServer provides an HTTP API backed by a pulse Client.
type APIServer struct {
	client       *pulse.Client
	server       *Server
	router       chi.Router
	routerCalled bool
	logger       *slog.Logger
}

// NewAPIServer creates a new APIServer wired to the given pulse Client.
func NewAPIServer(client *pulse.Client) *APIServer {
	return &APIServer{
		client: client,
		logger: client.Logger(),
	}
}

// Router returns the chi router for customization before starting.
// Call this first, add custom middleware with router.Use(), then call MountRoutes().
// If not called, ListenAndServe creates a default router with all standard routes.
func (a *APIServer) Router() chi.Router {
	if a.router != nil {
		return a.router
	}

	a.router = chi.NewRouter()
	a.routerCalled = true
	return a.router
}

// MountRoutes wires up the health check and all v1 API routes on the router.
func (a *APIServer) MountRoutes() {
	if a.router == nil {
		a.Router()
	}
	a.mountRoutes(a.router)
}

func (a *APIServer) mountRoutes(router chi.Router) {
	c := a.client

	syncRouter := v1.NewSyncRouter(c.Pipeline, a.logger)
	responsesRouter := v1.NewResponsesRouter(c.Enrichment, a.logger)

	router.Get("/healthz", a.health)

	router.Route("/api/v1", func(r chi.Router) {
		r.Mount("/sync", syncRouter.Routes())

		r.Group(func(r chi.Router) {
			r.Use(chimiddleware.Timeout(analyzeTimeout))
			r.Mount("/responses", responsesRouter.Routes())
		})
	})
}

func (a *APIServer) health(w http.ResponseWriter, _ *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// ListenAndServe starts the HTTP server on the given address.
func (a *APIServer) ListenAndServe(addr string) error {
	server := NewServer(addr, a.logger)
	a.server = &server

	if a.routerCalled && a.router != nil {
		server.Router().Mount("/", a.router)
	} else {
		a.mountRoutes(server.Router())
	}

	return server.Start()
}

// Shutdown gracefully shuts down the server.
func (a *APIServer) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

// Handler returns the router as an http.Handler for use with custom servers.
func (a *APIServer) Handler() http.Handler {
	if a.router == nil {
		a.Router()
		a.MountRoutes()
	}
	return a.router
}
