package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/budgetlens/budgetlens/internal/domain"
)

const budgetColumns = `id, name, input_data, calculations, created_at`

// CreateBudget inserts b in a single transaction.
func (db *DB) CreateBudget(ctx context.Context, b domain.Budget) error {
	input, err := json.Marshal(b.Input)
	if err != nil {
		return fmt.Errorf("%w: encode input: %v", domain.ErrStore, err)
	}
	calc, err := json.Marshal(b.Calculations)
	if err != nil {
		return fmt.Errorf("%w: encode calculations: %v", domain.ErrStore, err)
	}

	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStore, err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO budgets (`+budgetColumns+`)
		VALUES (?, ?, ?, ?, ?)
	`, b.ID, b.Name, string(input), string(calc), b.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("%w: insert budget %s: %v", domain.ErrStore, b.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", domain.ErrStore, err)
	}
	return nil
}

// ListBudgets returns all budgets in insertion order.
func (db *DB) ListBudgets(ctx context.Context) ([]domain.Budget, error) {
	rows, err := db.db.QueryContext(ctx, `SELECT `+budgetColumns+` FROM budgets ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}
	defer func() { _ = rows.Close() }()

	budgets := make([]domain.Budget, 0)
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}
	return budgets, nil
}

// GetBudget returns the budget with id.
func (db *DB) GetBudget(ctx context.Context, id string) (*domain.Budget, error) {
	row := db.db.QueryRowContext(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE id = ?`, id)
	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBudgetNotFound
	}
	return b, err
}

// DeleteBudget removes the budget with id.
func (db *DB) DeleteBudget(ctx context.Context, id string) error {
	res, err := db.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStore, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStore, err)
	}
	if n == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}

// CountBudgets returns the number of stored budgets.
func (db *DB) CountBudgets(ctx context.Context) (int, error) {
	var n int
	if err := db.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM budgets`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBudget(s scanner) (*domain.Budget, error) {
	var (
		b         domain.Budget
		input     string
		calc      string
		createdAt string
	)
	if err := s.Scan(&b.ID, &b.Name, &input, &calc, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: scan budget: %v", domain.ErrStore, err)
	}
	if err := json.Unmarshal([]byte(input), &b.Input); err != nil {
		return nil, fmt.Errorf("%w: decode input of %s: %v", domain.ErrStore, b.ID, err)
	}
	if err := json.Unmarshal([]byte(calc), &b.Calculations); err != nil {
		return nil, fmt.Errorf("%w: decode calculations of %s: %v", domain.ErrStore, b.ID, err)
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: parse created_at of %s: %v", domain.ErrStore, b.ID, err)
	}
	b.CreatedAt = t
	return &b, nil
}
