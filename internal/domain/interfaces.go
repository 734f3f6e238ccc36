package domain

import "context"

// ─── Service Interfaces ─────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; application layer depends on them.

// BudgetStore abstracts persistent budget storage.
type BudgetStore interface {
	// CreateBudget inserts b atomically. A duplicate id is an error.
	CreateBudget(ctx context.Context, b Budget) error

	// ListBudgets returns all budgets in creation order.
	ListBudgets(ctx context.Context) ([]Budget, error)

	// GetBudget returns ErrBudgetNotFound for an unknown id.
	GetBudget(ctx context.Context, id string) (*Budget, error)

	// DeleteBudget returns ErrBudgetNotFound for an unknown id.
	DeleteBudget(ctx context.Context, id string) error

	CountBudgets(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}
