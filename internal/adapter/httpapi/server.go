// Package httpapi exposes the dashboard's JSON API: per-feed endpoints
// backed by the quality pipeline, plus health, readiness, and metrics.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heliowatch/spaceweather/internal/adapter/swpc"
	"github.com/heliowatch/spaceweather/internal/domain"
	"github.com/heliowatch/spaceweather/internal/observability"
	"github.com/heliowatch/spaceweather/internal/quality"
)

// Options carries the handler tuning the composition root resolved from
// configuration.
type Options struct {
	FetchTimeout     time.Duration
	FetchRetries     int
	RetryDelay       time.Duration
	ResponseCacheTTL time.Duration
}

// Server routes dashboard API requests into the quality pipeline.
type Server struct {
	httpServer *http.Server
	fetcher    *quality.Fetcher
	catalog    *swpc.Catalog
	respCache  *quality.Cache
	sink       domain.ReportSink // nil when report publishing is disabled
	clock      clockwork.Clock
	logger     *slog.Logger
	metrics    *observability.Metrics
	opts       Options
	ready      atomic.Bool
}

// NewServer builds the API server. sink may be nil to disable report
// publishing; respCache must be a separate cache from the fetcher's so
// response-level TTLs do not compete with payload entries for space.
func NewServer(addr string, fetcher *quality.Fetcher, catalog *swpc.Catalog, respCache *quality.Cache, sink domain.ReportSink, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Server {
	s := &Server{
		fetcher:   fetcher,
		catalog:   catalog,
		respCache: respCache,
		sink:      sink,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
		opts:      opts,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/solar-wind", s.handleSolarWind)
		r.Get("/magnetometer", s.handleMagnetometer)
		r.Get("/xray", s.handleXRay)
		r.Get("/protons", s.handleProtons)
		r.Get("/solar-analysis", s.handleSolarAnalysis)
		r.Get("/forecast", s.handleForecast)
		r.Get("/alerts", s.handleAlerts)
		r.Get("/satellite", s.handleSatellite)
	})

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleReady reports ready once the server has served at least one feed
// from fresh or degraded upstream data.
func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if err := s.CheckReadiness(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// CheckReadiness returns nil once at least one feed request has been
// answered with actual data.
func (s *Server) CheckReadiness() error {
	if !s.ready.Load() {
		return errors.New("no feed has been served yet")
	}
	return nil
}

// observe is the request logging and timing middleware.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		s.logger.Debug("request served",
			"method", r.Method,
			"route", route,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
