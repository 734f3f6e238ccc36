package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

// ─── PayFrequency Tests ─────────────────────────────────────────────────────

func TestPayFrequency_PeriodsPerMonth(t *testing.T) {
	tests := []struct {
		freq PayFrequency
		want float64
	}{
		{PayWeekly, 52.0 / 12.0},
		{PayBiWeekly, 26.0 / 12.0},
		{PayBiMonthly, 2},
		{PayMonthly, 1},
		{PayFrequency("daily"), 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.freq), func(t *testing.T) {
			if got := tt.freq.PeriodsPerMonth(); got != tt.want {
				t.Errorf("PeriodsPerMonth() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPayFrequency_PinnedConstants(t *testing.T) {
	// Four decimal places of the calendar fractions.
	approx := map[PayFrequency]string{
		PayWeekly:    "4.3333",
		PayBiWeekly:  "2.1667",
		PayBiMonthly: "2.0000",
		PayMonthly:   "1.0000",
	}
	for f, want := range approx {
		if got := fmt.Sprintf("%.4f", f.PeriodsPerMonth()); got != want {
			t.Errorf("%s: PeriodsPerMonth() = %s, want %s", f, got, want)
		}
	}
}

func TestParsePayFrequency(t *testing.T) {
	tests := []struct {
		in      string
		want    PayFrequency
		wantErr bool
	}{
		{"weekly", PayWeekly, false},
		{" Bi-Weekly ", PayBiWeekly, false},
		{"BI-MONTHLY", PayBiMonthly, false},
		{"monthly", PayMonthly, false},
		{"", "", true},
		{"fortnightly", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePayFrequency(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePayFrequency(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePayFrequency(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPayFrequencies_AllValid(t *testing.T) {
	freqs := PayFrequencies()
	if len(freqs) != 4 {
		t.Fatalf("len(PayFrequencies()) = %d, want 4", len(freqs))
	}
	for _, f := range freqs {
		if !f.Valid() {
			t.Errorf("%q should be valid", f)
		}
	}
}

// ─── Horizon Tests ──────────────────────────────────────────────────────────

func TestHorizons(t *testing.T) {
	hs := Horizons()
	want := []Horizon{{Horizon1Year, 12}, {Horizon2Years, 24}, {Horizon10Years, 120}}
	if len(hs) != len(want) {
		t.Fatalf("len(Horizons()) = %d, want %d", len(hs), len(want))
	}
	for i := range want {
		if hs[i] != want[i] {
			t.Errorf("Horizons()[%d] = %+v, want %+v", i, hs[i], want[i])
		}
	}
}

// ─── ValidationError Tests ──────────────────────────────────────────────────

func TestValidationError_IsErrValidation(t *testing.T) {
	verr := NewValidationError()
	verr.Add("name", "Budget name is required")

	var err error = fmt.Errorf("create: %w", verr)
	if !errors.Is(err, ErrValidation) {
		t.Error("errors.Is(err, ErrValidation) = false, want true")
	}
	if errors.Is(err, ErrBudgetNotFound) {
		t.Error("validation error should not match ErrBudgetNotFound")
	}

	var target *ValidationError
	if !errors.As(err, &target) {
		t.Fatal("errors.As should unwrap *ValidationError")
	}
	if target.Fields["name"] != "Budget name is required" {
		t.Errorf("Fields[name] = %q", target.Fields["name"])
	}
}

func TestValidationError_FirstMessageWins(t *testing.T) {
	verr := NewValidationError()
	verr.Add("rent_mortgage", "Value must be positive")
	verr.Add("rent_mortgage", "Must be a valid number")

	if got := verr.Fields["rent_mortgage"]; got != "Value must be positive" {
		t.Errorf("Fields[rent_mortgage] = %q, want first message", got)
	}
}

func TestValidationError_ErrorIsSorted(t *testing.T) {
	verr := NewValidationError()
	verr.Add("phone_bill", "b")
	verr.Add("car_insurance", "a")

	msg := verr.Error()
	if !strings.HasPrefix(msg, "invalid budget input: ") {
		t.Errorf("Error() = %q, want sentinel prefix", msg)
	}
	if strings.Index(msg, "car_insurance") > strings.Index(msg, "phone_bill") {
		t.Errorf("Error() = %q, fields should be sorted", msg)
	}
}

func TestValidationError_HasErrors(t *testing.T) {
	verr := NewValidationError()
	if verr.HasErrors() {
		t.Error("empty ValidationError should report no errors")
	}
	verr.Add("name", "x")
	if !verr.HasErrors() {
		t.Error("HasErrors() = false after Add")
	}
}

// ─── Budget Tests ───────────────────────────────────────────────────────────

func TestBudget_Summary(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b := Budget{
		ID:        "abc",
		Name:      "March",
		CreatedAt: created,
		Calculations: Calculations{
			MonthlyIncome:       5000,
			LiquidSavings:       2000,
			Monthly401kEmployee: 300,
			Monthly401kEmployer: 150,
			Monthly401kTotal:    450,
			TotalMonthlySavings: 2450,
			SavingsRate:         49,
		},
	}

	s := b.Summary()
	if s.ID != "abc" || s.Name != "March" || !s.CreatedAt.Equal(created) {
		t.Errorf("identity fields not copied: %+v", s)
	}
	if s.TotalMonthlySavings != 2450 {
		t.Errorf("TotalMonthlySavings = %v, want 2450", s.TotalMonthlySavings)
	}
	if s.Monthly401kTotal != 450 {
		t.Errorf("Monthly401kTotal = %v, want 450", s.Monthly401kTotal)
	}
	if s.SavingsRate != 49 {
		t.Errorf("SavingsRate = %v, want 49", s.SavingsRate)
	}
}
