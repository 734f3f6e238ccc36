// Package api provides the HTTP server for budgetlens.
// It exposes the JSON API consumed by the budget dashboard.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/budgetlens/budgetlens/internal/app/budget"
	"github.com/budgetlens/budgetlens/internal/domain"
	"github.com/budgetlens/budgetlens/internal/infra/monitor"
)

// Version is reported by /api/health.
const Version = "1.0.0"

// maxBodyBytes caps request bodies on write endpoints.
const maxBodyBytes = 1 << 20

// SystemSampler supplies the latest process health reading.
// *monitor.Monitor satisfies it.
type SystemSampler interface {
	Snapshot() monitor.Sample
}

// Server is the budgetlens HTTP API server.
type Server struct {
	budgets        *budget.Service
	system         SystemSampler
	log            logrus.FieldLogger
	corsOrigins    []string
	metricsEnabled bool
	now            func() time.Time
}

// NewServer creates a new API server.
func NewServer(budgets *budget.Service, log logrus.FieldLogger) *Server {
	return &Server{
		budgets:     budgets,
		log:         log,
		corsOrigins: []string{"*"},
		now:         time.Now,
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetSystemSampler sets the source of the health endpoint's system block.
func (s *Server) SetSystemSampler(m SystemSampler) { s.system = m }

// SetCORSOrigins restricts allowed origins. "*" allows any.
func (s *Server) SetCORSOrigins(origins []string) {
	if len(origins) > 0 {
		s.corsOrigins = origins
	}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(corsMiddleware(s.corsOrigins))

	// Liveness probe; does not touch the store.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(requestMetrics)
		r.Get("/budgets", s.handleListBudgets)
		r.Post("/calculate", s.handleCalculate)
		r.Get("/budget/{id}", s.handleGetBudget)
		r.Delete("/budget/{id}", s.handleDeleteBudget)
		r.Get("/recommendations/{id}", s.handleRecommendations)
		r.Get("/health", s.handleHealth)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps a service error onto a status code. Store and
// unexpected errors are logged and reported generically.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":             "Invalid input values",
			"validation_errors": verr.Fields,
		})
	case errors.Is(err, domain.ErrBudgetNotFound):
		writeError(w, http.StatusNotFound, "Budget not found")
	case errors.Is(err, domain.ErrComputation):
		writeError(w, http.StatusUnprocessableEntity, "Budget could not be calculated")
	default:
		s.log.WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"path":       r.URL.Path,
		}).WithError(err).Error("request failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// corsMiddleware adds CORS headers for the browser dashboard.
func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	allowAny := false
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			allowAny = true
		}
		allowed[o] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case allowAny:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin != "" && allowed[origin]:
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
