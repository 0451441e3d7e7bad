package valuation

import (
	"fmt"
	"math"

	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/models"
)

// ResidualIncome values equity as current book value plus the discounted
// stream of projected residual income:
//
//	RI_t = NI_t - k_e * BV_{t-1}
//
// Net income is projected at the earnings growth rate; book value rolls
// forward with retained earnings (payout ratio applied when defined). The
// cost of equity defaults to the discount rate. A Gordon terminal value on
// the last residual income requires k_e > g_term.
func ResidualIncome(in Inputs) (*Result, error) {
	p := in.Params.withDefaults()
	costOfEquity := p.DiscountRate
	if costOfEquity <= p.TerminalGrowth {
		return nil, fmt.Errorf("residual income: %w: cost of equity %.4f <= terminal growth %.4f",
			models.ErrDegenerateValuation, costOfEquity, p.TerminalGrowth)
	}

	latest, err := in.latest()
	if err != nil {
		return nil, err
	}
	if latest.NetIncome == nil || latest.ShareholdersEquity == nil {
		return nil, fmt.Errorf("residual income: %w: net income and book value required", models.ErrUndefinedMetric)
	}
	bookValue := *latest.ShareholdersEquity
	if bookValue <= 0 {
		return nil, fmt.Errorf("residual income: %w: non-positive book value %.2f", models.ErrDegenerateValuation, bookValue)
	}

	retention := 1.0
	if payout, ok := in.Metrics.Get("payout_ratio"); ok && payout > 0 && payout < 1 {
		retention = 1 - payout
	}

	g := in.growthRate()
	ni := *latest.NetIncome
	prevBV := bookValue

	var pvRI, lastRI float64
	for t := 1; t <= p.Years; t++ {
		ni *= 1 + g
		ri := ni - costOfEquity*prevBV
		lastRI = ri
		pvRI += ri / math.Pow(1+costOfEquity, float64(t))
		prevBV += ni * retention
	}

	terminal := lastRI * (1 + p.TerminalGrowth) / (costOfEquity - p.TerminalGrowth)
	pvTerminal := terminal / math.Pow(1+costOfEquity, float64(p.Years))

	intrinsic := bookValue + pvRI + pvTerminal
	return finish(MethodResidualIncome, intrinsic, in)
}
