// Package api is the HTTP boundary: a chi router over the airspace
// service. Handlers stay thin; parsing, caching and projection live in
// the service and render packages.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/airspacelab/airspace-viewer/internal/config"
	"github.com/airspacelab/airspace-viewer/internal/service"
	"github.com/airspacelab/airspace-viewer/pkg/logger"
)

// Router is the API router
type Router struct {
	handler    *Handler
	middleware *Middleware
	config     *config.Config
	logger     *logger.Logger
}

// NewRouter creates a new API router
func NewRouter(airspaces *service.Airspaces, config *config.Config, logger *logger.Logger) *Router {
	return &Router{
		handler:    NewHandler(airspaces, config, logger),
		middleware: NewMiddleware(logger),
		config:     config,
		logger:     logger.Named("api-router"),
	}
}

// Routes returns the API routes
func (r *Router) Routes() http.Handler {
	router := chi.NewRouter()

	// Middleware
	router.Use(r.middleware.RequestID)
	router.Use(r.middleware.Logger)
	router.Use(r.middleware.Recoverer)
	router.Use(r.middleware.CORS(r.config.Server.CORSAllowedOrigins))

	// API routes
	router.Route("/api/v1", func(router chi.Router) {
		// Airspace data routes
		router.Get("/airspaces", r.handler.GetAirspaces)
		router.Get("/airspaces/stats", r.handler.GetStats)
		router.Get("/airspaces/current", r.handler.GetCurrentFile)
		router.Get("/airspaces/legend", r.handler.GetLegend)
		router.Get("/airspaces/export", r.handler.ExportKML)
		router.Post("/airspaces/upload", r.handler.UploadAirspaceFile)
		router.Post("/airspaces/reset", r.handler.ResetAirspaces)

		// Health check
		router.Get("/health", r.handler.GetHealth)
	})

	return router
}
