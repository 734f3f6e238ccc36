package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/budgetlens/budgetlens/internal/domain"
	"github.com/budgetlens/budgetlens/internal/infra/eventlog"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleBudget(id, name string, created time.Time) domain.Budget {
	return domain.Budget{
		ID:        id,
		Name:      name,
		CreatedAt: created,
		Input: domain.BudgetInput{
			Name:              name,
			YearlySalary:      60000,
			PayFrequency:      domain.PayBiWeekly,
			PayPerCheck:       1800,
			Retirement401k:    6,
			Employer401kMatch: 3,
			RentMortgage:      1200,
			CarInsurance:      150,
			PhoneBill:         80,
			Miscellaneous:     500,
		},
		Calculations: domain.Calculations{
			MonthlyIncome: 3900,
			TotalExpenses: 1930,
			SavingsRate:   62.82,
			ExpenseBreakdown: map[string]float64{
				domain.CategoryRentMortgage: 1200,
			},
			Projections: map[string]domain.Projection{
				domain.Horizon1Year: {Liquid: 20640, Total: 26040},
			},
		},
	}
}

func TestOpen_Idempotent(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("first Open() error: %v", err)
	}
	_ = db.Close()

	db, err = Open(dir)
	if err != nil {
		t.Fatalf("second Open() error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error: %v", err)
	}
}

func TestCreateAndGetBudget(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	created := time.Date(2024, 3, 1, 12, 30, 0, 123456000, time.UTC)

	if err := db.CreateBudget(ctx, sampleBudget("b-1", "March", created)); err != nil {
		t.Fatalf("CreateBudget() error: %v", err)
	}

	got, err := db.GetBudget(ctx, "b-1")
	if err != nil {
		t.Fatalf("GetBudget() error: %v", err)
	}
	if got.Name != "March" {
		t.Errorf("Name = %q, want March", got.Name)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
	}
	if got.Input.PayFrequency != domain.PayBiWeekly {
		t.Errorf("PayFrequency = %q, want bi-weekly", got.Input.PayFrequency)
	}
	if got.Input.Retirement401k != 6 {
		t.Errorf("Retirement401k = %v, want 6", got.Input.Retirement401k)
	}
	if got.Calculations.ExpenseBreakdown[domain.CategoryRentMortgage] != 1200 {
		t.Errorf("breakdown rent = %v, want 1200", got.Calculations.ExpenseBreakdown[domain.CategoryRentMortgage])
	}
	if got.Calculations.Projections[domain.Horizon1Year].Total != 26040 {
		t.Errorf("1 year total = %v, want 26040", got.Calculations.Projections[domain.Horizon1Year].Total)
	}
}

func TestCreateBudget_DuplicateID(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Now()

	if err := db.CreateBudget(ctx, sampleBudget("dup", "a", now)); err != nil {
		t.Fatal(err)
	}
	err := db.CreateBudget(ctx, sampleBudget("dup", "b", now))
	if !errors.Is(err, domain.ErrStore) {
		t.Errorf("duplicate insert error = %v, want ErrStore", err)
	}
}

func TestGetBudget_NotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := db.GetBudget(context.Background(), "missing")
	if !errors.Is(err, domain.ErrBudgetNotFound) {
		t.Errorf("error = %v, want ErrBudgetNotFound", err)
	}
}

func TestListBudgets_InsertionOrder(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	list, err := db.ListBudgets(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("empty store list = %v, want empty non-nil slice", list)
	}

	// Identical timestamps must not disturb creation order.
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, id := range []string{"c", "a", "b"} {
		if err := db.CreateBudget(ctx, sampleBudget(id, id, ts)); err != nil {
			t.Fatal(err)
		}
	}

	list, err = db.ListBudgets(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"c", "a", "b"}
	if len(list) != len(want) {
		t.Fatalf("len = %d, want %d", len(list), len(want))
	}
	for i, id := range want {
		if list[i].ID != id {
			t.Errorf("list[%d].ID = %q, want %q", i, list[i].ID, id)
		}
	}
}

func TestDeleteBudget(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.CreateBudget(ctx, sampleBudget("gone", "x", time.Now())); err != nil {
		t.Fatal(err)
	}
	if err := db.DeleteBudget(ctx, "gone"); err != nil {
		t.Fatalf("DeleteBudget() error: %v", err)
	}
	if _, err := db.GetBudget(ctx, "gone"); !errors.Is(err, domain.ErrBudgetNotFound) {
		t.Errorf("GetBudget after delete = %v, want ErrBudgetNotFound", err)
	}
	if err := db.DeleteBudget(ctx, "gone"); !errors.Is(err, domain.ErrBudgetNotFound) {
		t.Errorf("second DeleteBudget = %v, want ErrBudgetNotFound", err)
	}
}

func TestCountBudgets(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := db.CreateBudget(ctx, sampleBudget(fmt.Sprintf("id-%d", i), "n", time.Now())); err != nil {
			t.Fatal(err)
		}
	}
	n, err := db.CountBudgets(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("CountBudgets() = %d, want 3", n)
	}
}

func TestCreateBudget_Concurrent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- db.CreateBudget(ctx, sampleBudget(fmt.Sprintf("c-%d", i), "c", time.Now()))
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("concurrent CreateBudget() error: %v", err)
		}
	}
	n, err := db.CountBudgets(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != workers {
		t.Errorf("CountBudgets() = %d, want %d", n, workers)
	}
}

func TestEvents_SaveAndQuery(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	created := eventlog.NewEvent(
		eventlog.WithType(eventlog.TypeBudgetCreated),
		eventlog.WithData(map[string]string{"id": "b-1"}),
		eventlog.WithMetadata("name", "March"),
	)
	deleted := eventlog.NewEvent(eventlog.WithType(eventlog.TypeBudgetDeleted))

	for _, e := range []eventlog.Event{created, deleted} {
		if err := db.SaveEvent(ctx, e); err != nil {
			t.Fatalf("SaveEvent() error: %v", err)
		}
	}

	events, err := db.EventsByType(ctx, eventlog.TypeBudgetCreated)
	if err != nil {
		t.Fatalf("EventsByType() error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len = %d, want 1", len(events))
	}
	if events[0].ID != created.ID {
		t.Errorf("ID = %v, want %v", events[0].ID, created.ID)
	}
	if events[0].Metadata["name"] != "March" {
		t.Errorf("metadata name = %q, want March", events[0].Metadata["name"])
	}
	raw, ok := events[0].Data.(json.RawMessage)
	if !ok {
		t.Fatalf("Data type = %T, want json.RawMessage", events[0].Data)
	}
	if string(raw) != `{"id":"b-1"}` {
		t.Errorf("Data = %s, want {\"id\":\"b-1\"}", raw)
	}
}
