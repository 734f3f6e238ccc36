package budget

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/budgetlens/budgetlens/internal/infra/eventlog"
)

const legacyDump = `[
	{
		"id": "5d7a3c1e-0000-4000-8000-000000000001",
		"name": "January",
		"created_at": "2024-01-15T08:30:00.123456",
		"input_data": {
			"name": "January",
			"yearly_salary": "60000",
			"pay_frequency": "monthly",
			"pay_per_check": "4000",
			"retirement_401k": "",
			"employer_401k_match": "",
			"rent_mortgage": "1200",
			"car_insurance": "100",
			"phone_bill": "50",
			"miscellaneous": "400"
		}
	},
	{
		"id": "5d7a3c1e-0000-4000-8000-000000000002",
		"name": "",
		"created_at": "2024-02-01T00:00:00Z",
		"input_data": {
			"yearly_salary": 52000,
			"pay_frequency": "weekly",
			"pay_per_check": 800,
			"rent_mortgage": 900,
			"car_insurance": 0,
			"phone_bill": 0,
			"miscellaneous": 0
		}
	},
	{
		"id": "5d7a3c1e-0000-4000-8000-000000000003",
		"name": "Broken",
		"created_at": "2024-03-01T00:00:00Z",
		"input_data": {"pay_frequency": "hourly"}
	}
]`

func TestDecodeLegacy(t *testing.T) {
	legacy, err := DecodeLegacy(strings.NewReader(legacyDump))
	if err != nil {
		t.Fatal(err)
	}
	if len(legacy) != 3 {
		t.Fatalf("len = %d, want 3", len(legacy))
	}
	if _, err := DecodeLegacy(strings.NewReader(`{"not": "a list"}`)); err == nil {
		t.Error("expected error for non-array dump")
	}
}

func TestImport(t *testing.T) {
	svc, sink, _ := newTestService(t)
	ctx := context.Background()

	legacy, err := DecodeLegacy(strings.NewReader(legacyDump))
	if err != nil {
		t.Fatal(err)
	}

	res, err := svc.Import(ctx, legacy)
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	if res != (ImportResult{Imported: 2, Failed: 1}) {
		t.Errorf("result = %+v", res)
	}

	jan, err := svc.Get(ctx, "5d7a3c1e-0000-4000-8000-000000000001")
	if err != nil {
		t.Fatal(err)
	}
	wantCreated := time.Date(2024, 1, 15, 8, 30, 0, 123456000, time.UTC)
	if !jan.CreatedAt.Equal(wantCreated) {
		t.Errorf("CreatedAt = %v, want %v", jan.CreatedAt, wantCreated)
	}
	if jan.Calculations.MonthlyIncome != 4000 {
		t.Errorf("monthly_income = %v, want 4000", jan.Calculations.MonthlyIncome)
	}

	unnamed, err := svc.Get(ctx, "5d7a3c1e-0000-4000-8000-000000000002")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(unnamed.Name, "Migrated Budget ") {
		t.Errorf("default name = %q", unnamed.Name)
	}

	// Running again skips everything already stored.
	res, err = svc.Import(ctx, legacy)
	if err != nil {
		t.Fatal(err)
	}
	if res != (ImportResult{Skipped: 2, Failed: 1}) {
		t.Errorf("second run result = %+v", res)
	}

	imported := 0
	for _, typ := range sink.types() {
		if typ == eventlog.TypeBudgetImported {
			imported++
		}
	}
	if imported != 2 {
		t.Errorf("imported events = %d, want 2", imported)
	}
}
