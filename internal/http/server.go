// Package http exposes the finance snapshots as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"findash/internal/core"
	"findash/internal/log"
	"findash/internal/middleware/ratelimit"
	"findash/internal/middleware/security"
	"findash/internal/middleware/trace"
	"findash/internal/services"
	"findash/internal/snapshot"
)

// Deps are the collaborators the handlers need.
type Deps struct {
	Finance   *snapshot.Store[core.FinanceData]
	Dashboard *snapshot.Store[core.DashboardData]
	Settings  *services.SettingsService
	Views     *services.DashboardService

	// Ready backs /readyz; nil means always ready.
	Ready  func(ctx context.Context) error
	Logger *log.Logger

	// RateLimitPerMinute bounds writes per client; 0 uses the limiter default.
	RateLimitPerMinute int
}

type Server struct {
	http.Server
	deps     Deps
	logger   *log.Logger
	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = log.Discard()
	}
	if deps.Settings == nil {
		deps.Settings = services.NewSettingsService(deps.Finance, deps.Logger)
	}
	if deps.Views == nil {
		deps.Views = services.NewDashboardService(deps.Finance)
	}

	s := &Server{
		deps:     deps,
		logger:   deps.Logger.WithComponent(log.ComponentHTTP),
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: deps.RateLimitPerMinute}),
		detector: security.NewDetector(),
	}
	s.tracer = trace.NewMiddleware(s.logger, s.detector.ExtractClientIP)
	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.tracer.Middleware)
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)
	r.Use(s.detector.Middleware(s.logger))

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Compress(5))
		r.Use(s.limitWrites)

		r.Route("/finance", func(r chi.Router) {
			r.Get("/", getSnapshot(s.deps.Finance))
			r.Put("/", putSnapshot(s.deps.Finance))
			r.Patch("/", patchSnapshot[core.FinanceData, core.FinancePatch](s.deps.Finance))
			r.Delete("/", clearSnapshot(s.deps.Finance))
			r.Post("/reset", resetSnapshot(s.deps.Finance))
			r.Get("/summary", s.handleSummary)
			r.Get("/violations", s.handleViolations)
			r.Get("/settings", s.handleSettingsFields)
			r.Post("/settings", s.handleApplySettings)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/", getSnapshot(s.deps.Dashboard))
			r.Put("/", putSnapshot(s.deps.Dashboard))
			r.Patch("/", patchSnapshot[core.DashboardData, core.DashboardPatch](s.deps.Dashboard))
			r.Delete("/", clearSnapshot(s.deps.Dashboard))
			r.Post("/reset", resetSnapshot(s.deps.Dashboard))
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = NotFoundError("not found").Write(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = ErrorResponse(http.StatusMethodNotAllowed, "method not allowed").Write(w)
	})
	return r
}

// limitWrites applies the per-client rate limit to mutating requests only.
func (s *Server) limitWrites(next http.Handler) http.Handler {
	limited := s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).WithComponent(log.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
			log.NewFields().WithClientIP(s.detector.ExtractClientIP(r)).WithHTTPRequest(r.Method, r.URL.Path, "", "").ToSlice()...)
		_ = ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, please try again later").Write(w)
	})(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
		default:
			limited.ServeHTTP(w, r)
		}
	})
}

// Shutdown stops the limiter and gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
