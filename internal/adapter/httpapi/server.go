// Package httpapi exposes the assessment engine over HTTP: risk assessment
// and sample export under /v1, plus health, readiness, and metrics endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/climate-risk-service/internal/collector"
	"github.com/couchcryptid/climate-risk-service/internal/domain"
	"github.com/couchcryptid/climate-risk-service/internal/observability"
)

// SampleCollector assembles the historical sample set for a request.
type SampleCollector interface {
	Collect(ctx context.Context, req collector.Request) (collector.Result, error)
}

// RiskEngine runs the assessment pipeline over a sample set.
type RiskEngine interface {
	Assess(set domain.SampleSet) domain.Assessment
}

// AssessmentPublisher streams computed assessments to downstream consumers.
// May be nil when publishing is disabled.
type AssessmentPublisher interface {
	Publish(ctx context.Context, assessment domain.Assessment) error
}

// Defaults carries the request defaults the API applies when a field is
// omitted.
type Defaults struct {
	WindowDays int
	StartYear  int
	EndYear    int
	Thresholds domain.Thresholds
}

// Server exposes the service HTTP API.
type Server struct {
	httpServer *http.Server
	collector  SampleCollector
	engine     RiskEngine
	publisher  AssessmentPublisher
	defaults   Defaults
	validate   *validator.Validate
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewServer creates the API server with all routes mounted.
func NewServer(addr string, sc SampleCollector, engine RiskEngine, publisher AssessmentPublisher,
	defaults Defaults, logger *slog.Logger, metrics *observability.Metrics) *Server {

	s := &Server{
		collector: sc,
		engine:    engine,
		publisher: publisher,
		defaults:  defaults,
		validate:  validator.New(),
		logger:    logger,
		metrics:   metrics,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/risk", s.handleRisk)
		r.Post("/export", s.handleExport)
	})

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
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

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// errorResponse is the JSON error envelope for all non-2xx responses.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorResponse{Error: message, Details: details})
}
