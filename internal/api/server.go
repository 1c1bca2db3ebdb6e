package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/teamsignal/burnout-engine/internal/cache"
	"github.com/teamsignal/burnout-engine/internal/config"
	"github.com/teamsignal/burnout-engine/internal/engine"
	"github.com/teamsignal/burnout-engine/internal/observability"
)

// Server represents the HTTP API server
type Server struct {
	cfg     config.ServerConfig
	router  *chi.Mux
	engine  engine.Engine
	cache   *cache.SnapshotCache
	metrics *observability.Metrics
}

// NewServer creates a new API server. The cache may be nil, in which
// case every view is computed per request.
func NewServer(cfg config.ServerConfig, eng engine.Engine, snapCache *cache.SnapshotCache, metrics *observability.Metrics) *Server {
	s := &Server{
		cfg:     cfg,
		engine:  eng,
		cache:   snapCache,
		metrics: metrics,
	}
	s.setupRouter()
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter configures all routes and middleware
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health checks and metrics (outside versioned API)
	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Handle("/metrics", s.metrics.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/employees", s.instrument("/api/v1/employees", s.handleEmployees))
		r.Get("/summary", s.instrument("/api/v1/summary", s.handleSummary))
		r.Get("/departments", s.instrument("/api/v1/departments", s.handleDepartments))
		r.Post("/refresh", s.instrument("/api/v1/refresh", s.handleRefresh))
		r.Get("/model", s.instrument("/api/v1/model", s.handleModel))
		r.Get("/dataset/export", s.instrument("/api/v1/dataset/export", s.handleExport))
	})

	s.router = r
}

// instrument wires request counting and timing onto one route
func (s *Server) instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return s.metrics.WrapHandler(route, h).ServeHTTP
}

// loggingMiddleware logs HTTP requests using slog
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
