package budget

import (
	"fmt"

	"github.com/budgetlens/budgetlens/internal/domain"
)

// Project accumulates the monthly figures of c over months. Growth and
// inflation are not modeled.
func Project(c domain.Calculations, months int) (domain.Projection, error) {
	if months < 0 {
		return domain.Projection{}, fmt.Errorf("%w: negative horizon of %d months", domain.ErrComputation, months)
	}
	m := float64(months)
	return domain.Projection{
		Liquid:       c.LiquidSavings * m,
		Employee401k: c.Monthly401kEmployee * m,
		Employer401k: c.Monthly401kEmployer * m,
		Total401k:    c.Monthly401kTotal * m,
		Total:        c.TotalMonthlySavings * m,
	}, nil
}

// Projections builds the fixed 1, 2 and 10 year horizons.
func Projections(c domain.Calculations) (map[string]domain.Projection, error) {
	out := make(map[string]domain.Projection, len(domain.Horizons()))
	for _, h := range domain.Horizons() {
		p, err := Project(c, h.Months)
		if err != nil {
			return nil, err
		}
		out[h.Key] = p
	}
	return out, nil
}
