// Package api provides the HTTP surface of the tariff engine.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rgehrsitz/notarycalc/internal/acts"
	"github.com/rgehrsitz/notarycalc/internal/calculation"
	"github.com/rgehrsitz/notarycalc/internal/domain"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

// Server is the HTTP API server.
type Server struct {
	registry       *acts.Registry
	engine         *calculation.SimulationEngine
	logger         calculation.Logger
	timeout        time.Duration
	metricsEnabled bool
	version        string
}

// NewServer creates a server over a bound registry. The simulation engine
// shares the registry's rulebook taxes.
func NewServer(registry *acts.Registry) *Server {
	return &Server{
		registry: registry,
		engine:   calculation.NewSimulationEngine(registry.Rulebook().Taxes),
		logger:   calculation.NopLogger{},
		timeout:  30 * time.Second,
		version:  "dev",
	}
}

// SetLogger sets the server logger.
func (s *Server) SetLogger(l calculation.Logger) {
	s.logger = calculation.OrNop(l)
	s.engine.SetLogger(l)
}

// SetTimeout sets the per-request timeout.
func (s *Server) SetTimeout(d time.Duration) { s.timeout = d }

// SetVersion sets the version reported by /health.
func (s *Server) SetVersion(v string) { s.version = v }

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		meta := s.registry.Rulebook().Metadata
		writeJSON(w, http.StatusOK, map[string]string{
			"status":       "ok",
			"version":      s.version,
			"rulebook":     meta.Version,
			"jurisdiction": meta.Jurisdiction,
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/acts", s.handleListActs)
		r.Get("/acts/{act}", s.handleGetAct)
		r.Post("/acts/{act}/calculate", s.handleCalculate)
		r.Get("/templates", s.handleListTemplates)
		r.Post("/templates/{id}/simulate", s.handleSimulate)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// writeJSON writes v as a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// errorBody is the JSON shape of every error response
type errorBody struct {
	Kind     string `json:"kind"`
	Category string `json:"category"`
	Field    string `json:"field,omitempty"`
	Message  string `json:"message"`
}

// writeError maps err to a status and writes the error envelope.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	body := errorBody{Kind: "Internal", Category: "internal", Message: err.Error()}

	if ce, ok := domain.AsCalcError(err); ok {
		body = errorBody{
			Kind:     string(ce.Kind),
			Category: string(ce.Category()),
			Field:    ce.Field,
			Message:  ce.Error(),
		}
		switch {
		case ce.Kind == domain.KindUnknownActType || ce.Kind == domain.KindUnknownTemplate:
			status = http.StatusNotFound
		case domain.IsInputError(err):
			status = http.StatusBadRequest
		}
	}

	if status >= http.StatusInternalServerError {
		s.logger.Errorf("%s %s [%s]: %v", r.Method, r.URL.Path, middleware.GetReqID(r.Context()), err)
	} else {
		s.logger.Debugf("%s %s [%s]: %v", r.Method, r.URL.Path, middleware.GetReqID(r.Context()), err)
	}
	writeJSON(w, status, map[string]errorBody{"error": body})
}
