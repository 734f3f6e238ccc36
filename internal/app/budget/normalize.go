// Package budget turns raw user submissions into persisted budgets.
//
// The pipeline is Normalize → Calculate → Projections, all pure and
// deterministic, followed by Service which assigns identity and persists.
// Recommend derives advice from stored calculations on every read.
package budget

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/budgetlens/budgetlens/internal/domain"
)

// Submission field names, shared by the JSON body, form values and the
// validation_errors map returned to clients.
const (
	FieldName              = "name"
	FieldYearlySalary      = "yearly_salary"
	FieldPayFrequency      = "pay_frequency"
	FieldPayPerCheck       = "pay_per_check"
	FieldRetirement401k    = "retirement_401k"
	FieldEmployer401kMatch = "employer_401k_match"
	FieldRentMortgage      = "rent_mortgage"
	FieldCarInsurance      = "car_insurance"
	FieldPhoneBill         = "phone_bill"
	FieldMiscellaneous     = "miscellaneous"
)

// Validation messages.
const (
	MsgNameRequired     = "Budget name is required"
	MsgRequired         = "This field is required"
	MsgInvalidNumber    = "Must be a valid number"
	MsgNegative         = "Value must be positive"
	MsgPercentTooHigh   = "Percentage cannot exceed 100%"
	MsgInvalidFrequency = "Must be one of weekly, bi-weekly, bi-monthly, monthly"
)

// RawInput is an unvalidated submission. Values may be strings (possibly
// empty), JSON numbers, or missing.
type RawInput map[string]any

var errNotNumeric = errors.New("not numeric")

// Normalize validates raw and converts it to a BudgetInput. On failure it
// returns a *domain.ValidationError naming every rejected field and a zero
// BudgetInput.
func Normalize(raw RawInput) (domain.BudgetInput, error) {
	verr := domain.NewValidationError()

	amount := func(field string) float64 {
		v, present, err := parseNumber(raw[field])
		switch {
		case !present:
			verr.Add(field, MsgRequired)
		case err != nil:
			verr.Add(field, MsgInvalidNumber)
		case v < 0:
			verr.Add(field, MsgNegative)
		}
		return v
	}

	percent := func(field string) float64 {
		v, present, err := parseNumber(raw[field])
		switch {
		case !present:
			return 0
		case err != nil:
			verr.Add(field, MsgInvalidNumber)
		case v < 0:
			verr.Add(field, MsgNegative)
		case v > 100:
			verr.Add(field, MsgPercentTooHigh)
		}
		return v
	}

	in := domain.BudgetInput{
		Name:              strings.TrimSpace(stringValue(raw[FieldName])),
		YearlySalary:      amount(FieldYearlySalary),
		PayPerCheck:       amount(FieldPayPerCheck),
		Retirement401k:    percent(FieldRetirement401k),
		Employer401kMatch: percent(FieldEmployer401kMatch),
		RentMortgage:      amount(FieldRentMortgage),
		CarInsurance:      amount(FieldCarInsurance),
		PhoneBill:         amount(FieldPhoneBill),
		Miscellaneous:     amount(FieldMiscellaneous),
	}

	if in.Name == "" {
		verr.Add(FieldName, MsgNameRequired)
	}

	freq, err := domain.ParsePayFrequency(stringValue(raw[FieldPayFrequency]))
	if err != nil {
		verr.Add(FieldPayFrequency, MsgInvalidFrequency)
	}
	in.PayFrequency = freq

	if verr.HasErrors() {
		return domain.BudgetInput{}, verr
	}
	return in, nil
}

// parseNumber reports whether v carries a value and, if so, its finite
// numeric form. Strings may carry a leading "$" and thousands separators.
func parseNumber(v any) (float64, bool, error) {
	switch n := v.(type) {
	case nil:
		return 0, false, nil
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n), true, nil
	case int64:
		return float64(n), true, nil
	case json.Number:
		return parseDecimal(n.String())
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false, nil
		}
		s = strings.TrimPrefix(s, "$")
		s = strings.ReplaceAll(s, ",", "")
		return parseDecimal(s)
	default:
		return 0, true, fmt.Errorf("%w: %T", errNotNumeric, v)
	}
}

func parseDecimal(s string) (float64, bool, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, true, fmt.Errorf("%w: %q", errNotNumeric, s)
	}
	return finite(d.InexactFloat64())
}

func finite(f float64) (float64, bool, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, true, errNotNumeric
	}
	return f, true, nil
}

func stringValue(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprint(s)
	}
}
