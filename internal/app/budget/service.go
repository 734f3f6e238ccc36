package budget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/budgetlens/budgetlens/internal/domain"
	"github.com/budgetlens/budgetlens/internal/infra/eventlog"
	"github.com/budgetlens/budgetlens/internal/infra/observability"
)

// EventSink accepts audit events. *eventlog.Worker satisfies it.
type EventSink interface {
	Log(e eventlog.Event)
}

// Service is the budget use-case layer: it validates submissions, runs the
// calculation pipeline, assigns identity, and persists through the store.
type Service struct {
	store  domain.BudgetStore
	events EventSink
	log    logrus.FieldLogger
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithEventSink routes audit events to sink.
func WithEventSink(sink EventSink) Option {
	return func(s *Service) { s.events = sink }
}

// WithLogger sets the service logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Service) { s.log = log }
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service backed by store.
func NewService(store domain.BudgetStore, opts ...Option) *Service {
	s := &Service{
		store: store,
		log:   logrus.StandardLogger(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates raw, computes its calculations and persists the result.
// Nothing is stored when any step fails.
func (s *Service) Create(ctx context.Context, raw RawInput) (*domain.Budget, error) {
	b, err := s.build(raw)
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateBudget(ctx, *b); err != nil {
		return nil, fmt.Errorf("create budget: %w", err)
	}

	observability.BudgetsCreated.Inc()
	observability.SavingsRate.Observe(b.Calculations.SavingsRate)
	s.log.WithFields(logrus.Fields{
		"budget_id":    b.ID,
		"savings_rate": b.Calculations.SavingsRate,
	}).Info("budget created")
	s.emit(eventlog.NewEvent(
		eventlog.WithType(eventlog.TypeBudgetCreated),
		eventlog.WithData(map[string]any{
			"budget_id":     b.ID,
			"name":          b.Name,
			"pay_frequency": b.Input.PayFrequency,
			"savings_rate":  b.Calculations.SavingsRate,
		}),
	))
	return b, nil
}

// Preview runs the calculation pipeline without persisting anything.
func (s *Service) Preview(raw RawInput) (*domain.Budget, error) {
	return s.build(raw)
}

func (s *Service) build(raw RawInput) (*domain.Budget, error) {
	in, err := Normalize(raw)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			for field := range verr.Fields {
				observability.ValidationFailures.WithLabelValues(field).Inc()
			}
		}
		return nil, err
	}

	calc, err := Calculate(in)
	if err != nil {
		return nil, err
	}

	return &domain.Budget{
		ID:           uuid.NewString(),
		Name:         in.Name,
		CreatedAt:    s.now().UTC(),
		Input:        in,
		Calculations: calc,
	}, nil
}

// List returns every stored budget in creation order.
func (s *Service) List(ctx context.Context) ([]domain.Budget, error) {
	budgets, err := s.store.ListBudgets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return budgets, nil
}

// Get returns the budget with id, or domain.ErrBudgetNotFound.
func (s *Service) Get(ctx context.Context, id string) (*domain.Budget, error) {
	b, err := s.store.GetBudget(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get budget %s: %w", id, err)
	}
	return b, nil
}

// Delete removes the budget with id, or returns domain.ErrBudgetNotFound.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteBudget(ctx, id); err != nil {
		return fmt.Errorf("delete budget %s: %w", id, err)
	}

	observability.BudgetsDeleted.Inc()
	s.log.WithField("budget_id", id).Info("budget deleted")
	s.emit(eventlog.NewEvent(
		eventlog.WithType(eventlog.TypeBudgetDeleted),
		eventlog.WithData(map[string]any{"budget_id": id}),
	))
	return nil
}

// Recommendations recomputes advice for the budget with id.
func (s *Service) Recommendations(ctx context.Context, id string) ([]domain.Recommendation, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return Recommend(b.Calculations), nil
}

// Count returns the number of stored budgets.
func (s *Service) Count(ctx context.Context) (int, error) {
	n, err := s.store.CountBudgets(ctx)
	if err != nil {
		return 0, fmt.Errorf("count budgets: %w", err)
	}
	return n, nil
}

// Ping checks store connectivity.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) emit(e eventlog.Event) {
	if s.events == nil {
		return
	}
	s.events.Log(e)
}
