package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/budgetlens/budgetlens/internal/app/budget"
	"github.com/budgetlens/budgetlens/internal/domain"
)

// calcFlags maps each submission field to its flag name.
var calcFlags = []struct {
	field, flag, def, usage string
}{
	{budget.FieldName, "name", "Quick calculation", "budget name"},
	{budget.FieldYearlySalary, "salary", "", "gross yearly salary"},
	{budget.FieldPayFrequency, "frequency", string(domain.PayBiWeekly), "pay frequency: weekly, bi-weekly, bi-monthly, monthly"},
	{budget.FieldPayPerCheck, "pay", "", "take-home pay per paycheck"},
	{budget.FieldRetirement401k, "401k", "", "employee 401k contribution, percent of gross"},
	{budget.FieldEmployer401kMatch, "match", "", "employer 401k match, percent of gross"},
	{budget.FieldRentMortgage, "rent", "", "monthly rent or mortgage"},
	{budget.FieldCarInsurance, "car", "", "monthly car insurance"},
	{budget.FieldPhoneBill, "phone", "", "monthly phone bill"},
	{budget.FieldMiscellaneous, "misc", "", "other monthly expenses"},
}

func init() {
	rootCmd.AddCommand(calcCmd)
	for _, f := range calcFlags {
		calcCmd.Flags().String(f.flag, f.def, f.usage)
	}
	calcCmd.Flags().Bool("json", false, "print the full calculation as JSON")
}

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Calculate a budget without storing it",
	Long: `Calculate savings, projections and recommendations for one budget and
print them. Nothing is stored.

Example:
  budgetlens calc --salary 75000 --pay 2885 --frequency bi-weekly \
    --401k 5 --match 3 --rent 1200 --car 150 --phone 80 --misc 300`,
	Args: cobra.NoArgs,
	RunE: runCalc,
}

func runCalc(cmd *cobra.Command, _ []string) error {
	raw := budget.RawInput{}
	for _, f := range calcFlags {
		v, _ := cmd.Flags().GetString(f.flag)
		raw[f.field] = v
	}

	in, err := budget.Normalize(raw)
	if err != nil {
		return describeValidation(err)
	}
	calc, err := budget.Calculate(in)
	if err != nil {
		return err
	}
	recs := budget.Recommend(calc)

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"input_data":      in,
			"calculations":    calc,
			"recommendations": recs,
		})
	}
	printCalculation(out, in, calc, recs)
	return nil
}

// describeValidation lists each rejected flag on its own line.
func describeValidation(err error) error {
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	msg := "invalid input:"
	for _, f := range calcFlags {
		if m, ok := verr.Fields[f.field]; ok {
			msg += fmt.Sprintf("\n  --%s: %s", f.flag, m)
		}
	}
	return fmt.Errorf("%s", msg)
}

func printCalculation(out io.Writer, in domain.BudgetInput, c domain.Calculations, recs []domain.Recommendation) {
	money := budget.FormatMoney
	pct := budget.FormatPercent

	fmt.Fprint(out, RenderTitle(fmt.Sprintf("%s (%s pay)", in.Name, in.PayFrequency)))
	fmt.Fprintln(out)

	fmt.Fprint(out, RenderTable(Table{
		Title:   "Monthly",
		Headers: []string{"", "Amount"},
		Rows: [][]string{
			{"Income", money(c.MonthlyIncome)},
			{"Expenses", money(c.TotalExpenses)},
			{"Liquid savings", money(c.LiquidSavings)},
			{"---"},
			{"401k (you)", money(c.Monthly401kEmployee)},
			{"401k (employer)", money(c.Monthly401kEmployer)},
			{"Total savings", money(c.TotalMonthlySavings)},
			{"---"},
			{"Savings rate", pct(c.SavingsRate)},
			{"Liquid savings rate", pct(c.LiquidSavingsRate)},
		},
	}))
	fmt.Fprintln(out)

	rows := make([][]string, 0, len(domain.Horizons()))
	for _, h := range domain.Horizons() {
		p := c.Projections[h.Key]
		rows = append(rows, []string{
			fmt.Sprintf("%d months", h.Months), money(p.Liquid), money(p.Total401k), money(p.Total),
		})
	}
	fmt.Fprint(out, RenderTable(Table{
		Title:   "Projections",
		Headers: []string{"Horizon", "Liquid", "401k", "Total"},
		Rows:    rows,
	}))

	fmt.Fprintln(out)
	fmt.Fprintln(out, headerStyle.Render("Recommendations"))
	for _, r := range recs {
		fmt.Fprint(out, RenderRecommendation(r))
	}
}
