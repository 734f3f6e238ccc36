package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/budgetlens/budgetlens/internal/app/budget"
	"github.com/budgetlens/budgetlens/internal/domain"
)

// budgetDetail is the GET /api/budget/{id} body: the stored budget with its
// projections lifted to the top level.
type budgetDetail struct {
	domain.Budget
	Projections map[string]domain.Projection `json:"projections"`
}

// handleListBudgets returns the summary list in creation order.
// GET /api/budgets
func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.budgets.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := make([]domain.BudgetSummary, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, b.Summary())
	}
	writeJSON(w, http.StatusOK, out)
}

// handleCalculate validates, computes and stores a budget.
// POST /api/calculate (JSON object or form fields)
func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	raw, err := decodeRawInput(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	b, err := s.budgets.Create(r.Context(), raw)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// handleGetBudget returns one budget with its projections.
// GET /api/budget/{id}
func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	b, err := s.budgets.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, budgetDetail{
		Budget:      *b,
		Projections: b.Calculations.Projections,
	})
}

// handleDeleteBudget removes one budget.
// DELETE /api/budget/{id}
func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := s.budgets.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Budget deleted successfully",
	})
}

// handleRecommendations returns ordered advice for one budget.
// GET /api/recommendations/{id}
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	recs, err := s.budgets.Recommendations(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

// decodeRawInput reads a JSON object, or form fields for any other
// content type. JSON numbers are kept as json.Number so the normalizer
// sees the literal text.
func decodeRawInput(r *http.Request) (budget.RawInput, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		raw := budget.RawInput{}
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return budget.RawInput{}, nil
			}
			return nil, err
		}
		return raw, nil
	}

	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return nil, err
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, err
	}
	raw := budget.RawInput{}
	for key, values := range r.PostForm {
		if len(values) > 0 {
			raw[key] = values[0]
		}
	}
	return raw, nil
}
