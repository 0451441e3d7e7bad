package valuation

import (
	"fmt"
	"sort"

	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/models"
)

// EVEBITDA applies the median of the company's own trailing EV/EBITDA
// multiples (not a peer comparison) to current EBITDA to estimate enterprise
// value, then subtracts net debt to reach the equity value compared against
// market cap. Unavailable when EBITDA is non-positive or fewer than two
// historical multiples exist.
func EVEBITDA(in Inputs) (*Result, error) {
	latest, err := in.latest()
	if err != nil {
		return nil, err
	}
	if latest.EBITDA == nil {
		return nil, fmt.Errorf("ev/ebitda: %w: ebitda missing", models.ErrUndefinedMetric)
	}
	ebitda := *latest.EBITDA
	if ebitda <= 0 {
		return nil, fmt.Errorf("ev/ebitda: %w: ebitda %.2f", models.ErrDegenerateValuation, ebitda)
	}
	if len(in.TrailingEVEBITDA) < 2 {
		return nil, fmt.Errorf("ev/ebitda: %w: %d historical multiples, need 2",
			models.ErrInsufficientHistory, len(in.TrailingEVEBITDA))
	}

	ev := median(in.TrailingEVEBITDA) * ebitda
	intrinsic := ev - netDebt(latest)
	return finish(MethodEVEBITDA, intrinsic, in)
}

func netDebt(p models.FinancialPeriod) float64 {
	var debt, cash float64
	if p.TotalDebt != nil {
		debt = *p.TotalDebt
	}
	if p.CashAndEquivalents != nil {
		cash = *p.CashAndEquivalents
	}
	return debt - cash
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
