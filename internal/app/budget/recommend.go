package budget

import (
	"fmt"

	"github.com/budgetlens/budgetlens/internal/domain"
)

// Thresholds for the three graded recommendations.
const (
	SavingsRateExcellent = 20.0
	SavingsRateGood      = 10.0

	EmergencyMonthsTarget  = 6.0
	EmergencyMonthsMinimum = 3.0

	RetirementRateExcellent = 15.0
	RetirementRateGood      = 10.0

	HousingShareLimit = 0.30
)

// Recommend returns advice for c. The first three entries are always the
// savings-rate, emergency-fund and retirement-rate assessments, in that
// order; employer-match and housing notes follow when they apply.
func Recommend(c domain.Calculations) []domain.Recommendation {
	recs := []domain.Recommendation{
		savingsRateRecommendation(c),
		emergencyFundRecommendation(c),
		retirementRecommendation(c),
	}
	if r, ok := employerMatchRecommendation(c); ok {
		recs = append(recs, r)
	}
	if r, ok := housingRecommendation(c); ok {
		recs = append(recs, r)
	}
	return recs
}

// EmergencyFundMonths is how many months of expenses one year of liquid
// savings covers. ok is false when expenses are not positive.
func EmergencyFundMonths(c domain.Calculations) (months float64, ok bool) {
	if c.TotalExpenses <= 0 {
		return 0, false
	}
	return c.LiquidSavings * 12 / c.TotalExpenses, true
}

// RetirementRate is the employee 401k contribution as a percentage of net
// monthly income. ok is false when income is not positive.
func RetirementRate(c domain.Calculations) (rate float64, ok bool) {
	if c.MonthlyIncome <= 0 {
		return 0, false
	}
	return c.Monthly401kEmployee / c.MonthlyIncome * 100, true
}

func savingsRateRecommendation(c domain.Calculations) domain.Recommendation {
	rate := FormatPercent(c.SavingsRate)
	switch {
	case c.SavingsRate >= SavingsRateExcellent:
		return domain.Recommendation{
			Type:    domain.RecSuccess,
			Title:   "Excellent Savings Rate",
			Message: fmt.Sprintf("Your total savings rate of %s is excellent! You're on track for strong financial growth.", rate),
		}
	case c.SavingsRate >= SavingsRateGood:
		return domain.Recommendation{
			Type:    domain.RecWarning,
			Title:   "Good Savings Rate",
			Message: fmt.Sprintf("Your total savings rate of %s is good. Try to reach 20%% for optimal financial health.", rate),
		}
	default:
		return domain.Recommendation{
			Type:    domain.RecError,
			Title:   "Low Total Savings Rate",
			Message: fmt.Sprintf("Your current total savings rate (including 401k) is %s. Consider increasing contributions to reach the recommended 20%% savings rate.", rate),
		}
	}
}

func emergencyFundRecommendation(c domain.Calculations) domain.Recommendation {
	target := c.TotalExpenses * EmergencyMonthsTarget
	months, ok := EmergencyFundMonths(c)

	timeToTarget := ""
	if c.LiquidSavings > 0 && target > 0 {
		timeToTarget = fmt.Sprintf(" At your current liquid savings rate, a %s fund would take %.1f months to build.",
			FormatMoney(target), target/c.LiquidSavings)
	}

	switch {
	case ok && months >= EmergencyMonthsTarget:
		return domain.Recommendation{
			Type:    domain.RecSuccess,
			Title:   "Emergency Fund On Track",
			Message: fmt.Sprintf("A year of liquid savings covers %.1f months of expenses, meeting the 6-month emergency fund goal.%s", months, timeToTarget),
		}
	case ok && months >= EmergencyMonthsMinimum:
		return domain.Recommendation{
			Type:    domain.RecWarning,
			Title:   "Build Your Emergency Fund",
			Message: fmt.Sprintf("A year of liquid savings covers %.1f months of expenses. Aim for 6 months (%s).%s", months, FormatMoney(target), timeToTarget),
		}
	case !ok:
		return domain.Recommendation{
			Type:    domain.RecError,
			Title:   "Emergency Fund Goal",
			Message: "No monthly expenses were entered, so an emergency fund target cannot be estimated. Add your expenses to plan for 6 months of coverage.",
		}
	default:
		msg := fmt.Sprintf("A year of liquid savings covers only %.1f months of expenses. Build an emergency fund of %s (6 months of expenses).%s",
			months, FormatMoney(target), timeToTarget)
		if c.LiquidSavings <= 0 {
			msg = fmt.Sprintf("Your liquid savings are not positive, so no emergency fund is accumulating. Build an emergency fund of %s (6 months of expenses).",
				FormatMoney(target))
		}
		return domain.Recommendation{
			Type:    domain.RecError,
			Title:   "Emergency Fund At Risk",
			Message: msg,
		}
	}
}

func retirementRecommendation(c domain.Calculations) domain.Recommendation {
	rate, ok := RetirementRate(c)
	monthly := FormatMoney(c.Monthly401kEmployee)

	switch {
	case ok && rate >= RetirementRateExcellent:
		return domain.Recommendation{
			Type:  domain.RecSuccess,
			Title: "Excellent Retirement Planning",
			Message: fmt.Sprintf("Your 401k contributions of %s monthly are %s of your take-home pay, or %s annually towards retirement. Excellent planning!",
				monthly, FormatPercent(rate), FormatMoney(c.Yearly401kEmployeeSavings)),
		}
	case ok && rate >= RetirementRateGood:
		return domain.Recommendation{
			Type:  domain.RecWarning,
			Title: "Consider Increasing 401k",
			Message: fmt.Sprintf("Your 401k contributions of %s monthly are %s of your take-home pay. Consider gradually increasing to 15-20%% for optimal retirement savings.",
				monthly, FormatPercent(rate)),
		}
	case c.Monthly401kEmployee == 0:
		return domain.Recommendation{
			Type:    domain.RecError,
			Title:   "No 401k Contributions",
			Message: "Consider contributing to a 401k if available. It's a tax-advantaged way to save for retirement and many employers offer matching. Start with 3-5% of your paycheck.",
		}
	case !ok:
		return domain.Recommendation{
			Type:  domain.RecError,
			Title: "Low Retirement Contributions",
			Message: fmt.Sprintf("Your 401k contributions of %s monthly cannot be compared with your take-home pay because no take-home income was entered. Add your pay per check to see how your retirement savings measure up.",
				monthly),
		}
	default:
		return domain.Recommendation{
			Type:  domain.RecError,
			Title: "Low Retirement Contributions",
			Message: fmt.Sprintf("Your 401k contributions of %s monthly are %s of your take-home pay. Aim for at least 10%%, and 15%% or more for a comfortable retirement.",
				monthly, FormatPercent(rate)),
		}
	}
}

func employerMatchRecommendation(c domain.Calculations) (domain.Recommendation, bool) {
	switch {
	case c.Monthly401kEmployer > 0:
		return domain.Recommendation{
			Type:  domain.RecSuccess,
			Title: "Great Job Utilizing Employer Match!",
			Message: fmt.Sprintf("You're taking advantage of your employer's %g%% 401k match, which adds %s monthly (%s annually) in free money towards your retirement!",
				c.Employer401kMatchPercent, FormatMoney(c.Monthly401kEmployer), FormatMoney(c.Yearly401kEmployerSavings)),
		}, true
	case c.Monthly401kEmployee > 0:
		return domain.Recommendation{
			Type:    domain.RecInfo,
			Title:   "Consider Adding Employer Match",
			Message: "If your employer offers 401k matching, make sure you're contributing enough to get the full match - it's free money towards your retirement!",
		}, true
	}
	return domain.Recommendation{}, false
}

func housingRecommendation(c domain.Calculations) (domain.Recommendation, bool) {
	if c.MonthlyIncome <= 0 {
		return domain.Recommendation{}, false
	}
	rent := c.ExpenseBreakdown[domain.CategoryRentMortgage]
	share := rent / c.MonthlyIncome
	if share <= HousingShareLimit {
		return domain.Recommendation{}, false
	}
	return domain.Recommendation{
		Type:    domain.RecWarning,
		Title:   "High Housing Costs",
		Message: fmt.Sprintf("Housing costs are %s of income. Consider reducing to 30%% or less.", FormatPercent(share*100)),
	}, true
}
