// Package domain contains pure budget types with ZERO infrastructure imports.
// This is the innermost ring of the architecture and depends on nothing.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// ─── Pay Frequency ──────────────────────────────────────────────────────────

// PayFrequency is how often a paycheck arrives.
type PayFrequency string

const (
	PayWeekly    PayFrequency = "weekly"
	PayBiWeekly  PayFrequency = "bi-weekly"
	PayBiMonthly PayFrequency = "bi-monthly"
	PayMonthly   PayFrequency = "monthly"
)

// Paychecks per month for each frequency, as exact calendar fractions.
const (
	WeeklyPeriodsPerMonth    = 52.0 / 12.0
	BiWeeklyPeriodsPerMonth  = 26.0 / 12.0
	BiMonthlyPeriodsPerMonth = 24.0 / 12.0
	MonthlyPeriodsPerMonth   = 12.0 / 12.0
)

// PayFrequencies lists every accepted frequency in display order.
func PayFrequencies() []PayFrequency {
	return []PayFrequency{PayWeekly, PayBiWeekly, PayBiMonthly, PayMonthly}
}

// ParsePayFrequency matches s case-insensitively against the known frequencies.
func ParsePayFrequency(s string) (PayFrequency, error) {
	f := PayFrequency(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("unknown pay frequency %q", s)
	}
	return f, nil
}

// Valid reports whether f is one of the four supported frequencies.
func (f PayFrequency) Valid() bool {
	switch f {
	case PayWeekly, PayBiWeekly, PayBiMonthly, PayMonthly:
		return true
	}
	return false
}

// PeriodsPerMonth returns how many paychecks of this frequency fall in an
// average month. Unknown frequencies return 0.
func (f PayFrequency) PeriodsPerMonth() float64 {
	switch f {
	case PayWeekly:
		return WeeklyPeriodsPerMonth
	case PayBiWeekly:
		return BiWeeklyPeriodsPerMonth
	case PayBiMonthly:
		return BiMonthlyPeriodsPerMonth
	case PayMonthly:
		return MonthlyPeriodsPerMonth
	default:
		return 0
	}
}

// ─── Budget Input ───────────────────────────────────────────────────────────

// BudgetInput is a normalized user submission. Monetary fields are USD,
// percentages are 0–100.
type BudgetInput struct {
	Name              string       `json:"name"`
	YearlySalary      float64      `json:"yearly_salary"`
	PayFrequency      PayFrequency `json:"pay_frequency"`
	PayPerCheck       float64      `json:"pay_per_check"`
	Retirement401k    float64      `json:"retirement_401k"`
	Employer401kMatch float64      `json:"employer_401k_match"`
	RentMortgage      float64      `json:"rent_mortgage"`
	CarInsurance      float64      `json:"car_insurance"`
	PhoneBill         float64      `json:"phone_bill"`
	Miscellaneous     float64      `json:"miscellaneous"`
}

// ─── Calculations ───────────────────────────────────────────────────────────

// Expense breakdown categories.
const (
	CategoryRentMortgage  = "rent_mortgage"
	CategoryCarInsurance  = "car_insurance"
	CategoryPhoneBill     = "phone_bill"
	CategoryMiscellaneous = "miscellaneous"
	CategoryLiquidSavings = "liquid_savings"
	Category401kEmployee  = "401k_employee_savings"
	Category401kEmployer  = "401k_employer_savings"
	Category401kTotal     = "401k_total_savings"
)

// Projection horizon keys.
const (
	Horizon1Year   = "1_year"
	Horizon2Years  = "2_years"
	Horizon10Years = "10_years"
)

// Horizon pairs a projection key with its length in months.
type Horizon struct {
	Key    string
	Months int
}

// Horizons returns the fixed projection horizons, shortest first.
func Horizons() []Horizon {
	return []Horizon{
		{Key: Horizon1Year, Months: 12},
		{Key: Horizon2Years, Months: 24},
		{Key: Horizon10Years, Months: 120},
	}
}

// Projection is accumulated savings over one horizon.
type Projection struct {
	Liquid       float64 `json:"liquid"`
	Employee401k float64 `json:"401k_employee"`
	Employer401k float64 `json:"401k_employer"`
	Total401k    float64 `json:"401k_total"`
	Total        float64 `json:"total"`
}

// Calculations holds every figure derived from a BudgetInput.
type Calculations struct {
	MonthlyIncome      float64 `json:"monthly_income"`
	GrossMonthlyIncome float64 `json:"gross_monthly_income"`
	TotalExpenses      float64 `json:"total_expenses"`

	Monthly401kEmployee float64 `json:"monthly_401k_employee"`
	Monthly401kEmployer float64 `json:"monthly_401k_employer"`
	Monthly401kTotal    float64 `json:"monthly_401k_total"`

	LiquidSavings       float64 `json:"liquid_savings"`
	TotalMonthlySavings float64 `json:"total_monthly_savings"`
	SavingsRate         float64 `json:"savings_rate"`
	LiquidSavingsRate   float64 `json:"liquid_savings_rate"`

	YearlyLiquidSavings       float64 `json:"yearly_liquid_savings"`
	Yearly401kEmployeeSavings float64 `json:"yearly_401k_employee_savings"`
	Yearly401kEmployerSavings float64 `json:"yearly_401k_employer_savings"`
	Yearly401kTotalSavings    float64 `json:"yearly_401k_total_savings"`
	YearlyTotalSavings        float64 `json:"yearly_total_savings"`

	Retirement401kPercent    float64 `json:"retirement_401k_percent"`
	Employer401kMatchPercent float64 `json:"employer_401k_match_percent"`

	ExpenseBreakdown map[string]float64    `json:"expense_breakdown"`
	Projections      map[string]Projection `json:"projections"`
}

// ─── Budget ─────────────────────────────────────────────────────────────────

// Budget is a persisted submission with its calculations.
type Budget struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	CreatedAt    time.Time    `json:"created_at"`
	Input        BudgetInput  `json:"input_data"`
	Calculations Calculations `json:"calculations"`
}

// BudgetSummary is the compact list view of a Budget.
type BudgetSummary struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	CreatedAt           time.Time `json:"created_at"`
	MonthlyIncome       float64   `json:"monthly_income"`
	LiquidSavings       float64   `json:"liquid_savings"`
	Monthly401kEmployee float64   `json:"monthly_401k_employee"`
	Monthly401kEmployer float64   `json:"monthly_401k_employer"`
	Monthly401kTotal    float64   `json:"monthly_401k_total"`
	TotalMonthlySavings float64   `json:"total_monthly_savings"`
	SavingsRate         float64   `json:"savings_rate"`
}

// Summary returns the list view of b.
func (b Budget) Summary() BudgetSummary {
	c := b.Calculations
	return BudgetSummary{
		ID:                  b.ID,
		Name:                b.Name,
		CreatedAt:           b.CreatedAt,
		MonthlyIncome:       c.MonthlyIncome,
		LiquidSavings:       c.LiquidSavings,
		Monthly401kEmployee: c.Monthly401kEmployee,
		Monthly401kEmployer: c.Monthly401kEmployer,
		Monthly401kTotal:    c.Monthly401kTotal,
		TotalMonthlySavings: c.TotalMonthlySavings,
		SavingsRate:         c.SavingsRate,
	}
}

// ─── Recommendations ────────────────────────────────────────────────────────

// RecommendationType is the severity shown next to a recommendation.
type RecommendationType string

const (
	RecSuccess RecommendationType = "success"
	RecWarning RecommendationType = "warning"
	RecInfo    RecommendationType = "info"
	RecError   RecommendationType = "error"
)

// Recommendation is one advisory message derived from Calculations.
type Recommendation struct {
	Type    RecommendationType `json:"type"`
	Title   string             `json:"title"`
	Message string             `json:"message"`
}
