package budget

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatMoney renders v as USD with thousands separators and cents,
// e.g. -$1,234.50. Amounts beyond the int64 range keep every digit.
func FormatMoney(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole := d.Truncate(0)
	cents := d.Sub(whole).StringFixed(2) // "0.xx"
	return sign + "$" + humanize.BigComma(whole.BigInt()) + cents[1:]
}

// FormatPercent renders a rate with one decimal place.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
