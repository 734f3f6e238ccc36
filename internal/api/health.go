package api

import (
	"context"
	"net/http"
	"time"

	"github.com/budgetlens/budgetlens/internal/infra/monitor"
	"github.com/budgetlens/budgetlens/internal/infra/observability"
)

// healthTimeout bounds the store round trips made by /api/health.
const healthTimeout = 3 * time.Second

var apiEndpoints = []string{
	"/api/calculate",
	"/api/budgets",
	"/api/budget/{id}",
	"/api/recommendations/{id}",
	"/api/health",
}

type healthResponse struct {
	Status    string          `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
	Database  databaseHealth  `json:"database"`
	System    *monitor.Sample `json:"system,omitempty"`
	API       apiInfo         `json:"api"`
	Error     string          `json:"error,omitempty"`
}

type databaseHealth struct {
	Connected   bool `json:"connected"`
	BudgetCount int  `json:"budget_count"`
}

type apiInfo struct {
	Version   string   `json:"version"`
	Endpoints []string `json:"endpoints"`
}

// handleHealth reports store connectivity and process health.
// GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	resp := healthResponse{
		Status:    "healthy",
		Timestamp: s.now().UTC(),
		API:       apiInfo{Version: Version, Endpoints: apiEndpoints},
	}
	if s.system != nil {
		sample := s.system.Snapshot()
		resp.System = &sample
	}

	count, err := s.budgets.Count(ctx)
	if err == nil {
		err = s.budgets.Ping(ctx)
	}
	if err != nil {
		s.log.WithError(err).Warn("health check: store unreachable")
		resp.Status = "unhealthy"
		resp.Error = "database unavailable"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	observability.BudgetCount.Set(float64(count))
	resp.Database = databaseHealth{Connected: true, BudgetCount: count}
	writeJSON(w, http.StatusOK, resp)
}
