// Package api provides the HTTP API server and handlers for Cinescope.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/cinescope/cinescope-server/internal/http/response"
	"github.com/cinescope/cinescope-server/internal/sse"
)

// Version is reported in the OpenAPI document.
const Version = "1.0.0"

// Options configures the HTTP surface.
type Options struct {
	CORSOrigins []string

	// RateLimit is requests per minute per client IP. Zero disables limiting.
	RateLimit int
	RateBurst int
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services    *Services
	sseManager  *sse.Manager
	sseHandler  *sse.Handler
	router      *chi.Mux
	api         huma.API
	rateLimiter *RateLimiter
	logger      *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services *Services, sseManager *sse.Manager, opts Options, logger *slog.Logger) *Server {
	s := &Server{
		services:   services,
		sseManager: sseManager,
		router:     chi.NewRouter(),
		logger:     logger,
	}
	if opts.RateLimit > 0 {
		s.rateLimiter = NewRateLimiter(opts.RateLimit, max(opts.RateBurst, 1))
	}
	if sseManager != nil {
		var exists sse.SessionExists
		if services != nil && services.Discovery != nil {
			exists = services.Discovery.Exists
		}
		s.sseHandler = sse.NewHandler(sseManager, exists, logger)
	}

	// chi requires middleware before any route, and humachi registers the docs routes on creation.
	s.setupMiddleware(opts)

	humaConfig := huma.DefaultConfig("Cinescope API", Version)
	humaConfig.Info.Description = "Movie discovery: search sessions, title details and the trending carousel."
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.setupRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for tests and OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

// Close releases background resources held by the server.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware(opts Options) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           int((12 * time.Hour).Seconds()),
	}))
	s.router.Use(RateLimitMiddleware(s.rateLimiter, s.logger))
	// Event streams are text/event-stream and stay uncompressed.
	s.router.Use(middleware.Compress(5, "application/json"))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerSessionRoutes()
	s.registerTitleRoutes()
	s.registerTrendingRoutes()

	if s.sseHandler != nil {
		s.router.Get("/api/v1/stream", s.sseHandler.ServeHTTP)
	}

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "route not found", s.logger)
	})
}
