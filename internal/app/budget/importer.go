package budget

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/budgetlens/budgetlens/internal/domain"
	"github.com/budgetlens/budgetlens/internal/infra/eventlog"
	"github.com/budgetlens/budgetlens/internal/infra/observability"
)

// LegacyBudget is one entry of the JSON dump written by the file-based
// predecessor of the budget store.
type LegacyBudget struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	CreatedAt string   `json:"created_at"`
	InputData RawInput `json:"input_data"`
}

// ImportResult summarizes an Import run.
type ImportResult struct {
	Imported int
	Skipped  int
	Failed   int
}

// DecodeLegacy reads a JSON array of legacy budgets.
func DecodeLegacy(r io.Reader) ([]LegacyBudget, error) {
	var out []LegacyBudget
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode legacy budgets: %w", err)
	}
	return out, nil
}

// Import stores legacy budgets, recomputing their calculations. Entries whose
// id already exists are skipped, so an interrupted run can be repeated.
// Entries that fail validation are counted and logged, not fatal; a store
// failure aborts the run.
func (s *Service) Import(ctx context.Context, legacy []LegacyBudget) (ImportResult, error) {
	var res ImportResult
	for _, lb := range legacy {
		log := s.log.WithField("legacy_id", lb.ID)

		if lb.ID != "" {
			_, err := s.store.GetBudget(ctx, lb.ID)
			switch {
			case err == nil:
				log.Info("budget already imported, skipping")
				res.Skipped++
				continue
			case !errors.Is(err, domain.ErrBudgetNotFound):
				return res, fmt.Errorf("import %s: %w", lb.ID, err)
			}
		}

		raw := RawInput{}
		for k, v := range lb.InputData {
			raw[k] = v
		}
		if name := strings.TrimSpace(lb.Name); name != "" {
			raw[FieldName] = name
		} else if stringValue(raw[FieldName]) == "" {
			raw[FieldName] = "Migrated Budget " + s.now().Format("2006-01-02 15:04")
		}

		b, err := s.build(raw)
		if err != nil {
			log.WithError(err).Warn("legacy budget rejected")
			res.Failed++
			continue
		}
		if lb.ID != "" {
			b.ID = lb.ID
		}
		if t, err := time.Parse(time.RFC3339Nano, lb.CreatedAt); err == nil {
			b.CreatedAt = t.UTC()
		} else if t, err := time.Parse("2006-01-02T15:04:05.999999", lb.CreatedAt); err == nil {
			b.CreatedAt = t.UTC()
		}

		if err := s.store.CreateBudget(ctx, *b); err != nil {
			return res, fmt.Errorf("import %s: %w", lb.ID, err)
		}
		res.Imported++
		observability.BudgetsImported.Inc()
		s.emit(eventlog.NewEvent(
			eventlog.WithType(eventlog.TypeBudgetImported),
			eventlog.WithData(map[string]any{"budget_id": b.ID}),
			eventlog.WithMetadata("legacy_id", lb.ID),
		))
	}

	s.log.WithFields(logrus.Fields{
		"imported": res.Imported,
		"skipped":  res.Skipped,
		"failed":   res.Failed,
	}).Info("legacy import finished")
	return res, nil
}
