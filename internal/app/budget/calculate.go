package budget

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/budgetlens/budgetlens/internal/domain"
)

// Calculate derives every monthly and yearly figure from a normalized input.
//
// Two income bases are used. Net monthly income comes from the paycheck and
// feeds the savings rates; gross monthly income is yearly_salary/12 and is
// the base for 401k contributions. Pay per check is taken as already net of
// the employee contribution, so liquid savings subtract it once.
func Calculate(in domain.BudgetInput) (domain.Calculations, error) {
	if !in.PayFrequency.Valid() {
		return domain.Calculations{}, fmt.Errorf("%w: unknown pay frequency %q", domain.ErrComputation, in.PayFrequency)
	}

	monthlyIncome := in.PayPerCheck * in.PayFrequency.PeriodsPerMonth()
	grossMonthly := in.YearlySalary / 12
	totalExpenses := in.RentMortgage + in.CarInsurance + in.PhoneBill + in.Miscellaneous

	employee := grossMonthly * in.Retirement401k / 100
	employer := 0.0
	if in.Retirement401k > 0 {
		employer = grossMonthly * in.Employer401kMatch / 100
	}
	total401k := employee + employer

	liquid := monthlyIncome - totalExpenses - employee
	totalSavings := liquid + employee + employer

	c := domain.Calculations{
		MonthlyIncome:       monthlyIncome,
		GrossMonthlyIncome:  grossMonthly,
		TotalExpenses:       totalExpenses,
		Monthly401kEmployee: employee,
		Monthly401kEmployer: employer,
		Monthly401kTotal:    total401k,
		LiquidSavings:       liquid,
		TotalMonthlySavings: totalSavings,
		SavingsRate:         percentOf(totalSavings, monthlyIncome),
		LiquidSavingsRate:   percentOf(liquid, monthlyIncome),

		YearlyLiquidSavings:       liquid * 12,
		Yearly401kEmployeeSavings: employee * 12,
		Yearly401kEmployerSavings: employer * 12,
		Yearly401kTotalSavings:    total401k * 12,
		YearlyTotalSavings:        totalSavings * 12,

		Retirement401kPercent:    in.Retirement401k,
		Employer401kMatchPercent: in.Employer401kMatch,

		ExpenseBreakdown: map[string]float64{
			domain.CategoryRentMortgage:  in.RentMortgage,
			domain.CategoryCarInsurance:  in.CarInsurance,
			domain.CategoryPhoneBill:     in.PhoneBill,
			domain.CategoryMiscellaneous: in.Miscellaneous,
			domain.CategoryLiquidSavings: liquid,
			domain.Category401kEmployee:  employee,
			domain.Category401kEmployer:  employer,
			domain.Category401kTotal:     total401k,
		},
	}

	projections, err := Projections(c)
	if err != nil {
		return domain.Calculations{}, err
	}
	c.Projections = projections

	if err := checkFinite(c); err != nil {
		return domain.Calculations{}, err
	}
	return c, nil
}

// percentOf returns part/whole*100, or 0 when whole is not positive.
func percentOf(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}

// checkFinite rejects a result holding NaN or an infinity in any field,
// including every projection figure.
func checkFinite(c domain.Calculations) error {
	type field struct {
		name string
		v    float64
	}
	fields := []field{
		{"monthly_income", c.MonthlyIncome},
		{"gross_monthly_income", c.GrossMonthlyIncome},
		{"total_expenses", c.TotalExpenses},
		{"monthly_401k_employee", c.Monthly401kEmployee},
		{"monthly_401k_employer", c.Monthly401kEmployer},
		{"monthly_401k_total", c.Monthly401kTotal},
		{"liquid_savings", c.LiquidSavings},
		{"total_monthly_savings", c.TotalMonthlySavings},
		{"savings_rate", c.SavingsRate},
		{"liquid_savings_rate", c.LiquidSavingsRate},
		{"yearly_liquid_savings", c.YearlyLiquidSavings},
		{"yearly_401k_employee_savings", c.Yearly401kEmployeeSavings},
		{"yearly_401k_employer_savings", c.Yearly401kEmployerSavings},
		{"yearly_401k_total_savings", c.Yearly401kTotalSavings},
		{"yearly_total_savings", c.YearlyTotalSavings},
		{"retirement_401k_percent", c.Retirement401kPercent},
		{"employer_401k_match_percent", c.Employer401kMatchPercent},
	}
	for _, k := range slices.Sorted(maps.Keys(c.ExpenseBreakdown)) {
		fields = append(fields, field{"expense_breakdown." + k, c.ExpenseBreakdown[k]})
	}
	for _, h := range domain.Horizons() {
		p := c.Projections[h.Key]
		prefix := "projections." + h.Key + "."
		fields = append(fields,
			field{prefix + "liquid", p.Liquid},
			field{prefix + "401k_employee", p.Employee401k},
			field{prefix + "401k_employer", p.Employer401k},
			field{prefix + "401k_total", p.Total401k},
			field{prefix + "total", p.Total},
		)
	}

	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s is not finite", domain.ErrComputation, f.name)
		}
	}
	return nil
}
