package valuation

import (
	"fmt"
	"math"

	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/models"
)

// OwnerEarnings values the company on Buffett-style owner earnings:
//
//	OE = net income + depreciation & amortization - maintenance capex
//
// Providers rarely split maintenance from growth capex, so it is approximated
// conservatively as the larger of 85% of total capex and 75% of D&A. The OE
// stream is projected and discounted like DCF. A 30% margin of safety applies
// at the signal stage only: the intrinsic value itself is unchanged, but a
// bullish call requires the gap to clear the margin, so gaps in (15%, 30%]
// stay neutral.
func OwnerEarnings(in Inputs) (*Result, error) {
	p := in.Params.withDefaults()
	if p.DiscountRate <= p.TerminalGrowth {
		return nil, fmt.Errorf("owner earnings: %w: discount rate %.4f <= terminal growth %.4f",
			models.ErrDegenerateValuation, p.DiscountRate, p.TerminalGrowth)
	}

	latest, err := in.latest()
	if err != nil {
		return nil, err
	}
	if latest.NetIncome == nil || latest.DepreciationAndAmortization == nil || latest.CapitalExpenditure == nil {
		return nil, fmt.Errorf("owner earnings: %w: net income, D&A and capex all required", models.ErrUndefinedMetric)
	}

	da := *latest.DepreciationAndAmortization
	capex := math.Abs(*latest.CapitalExpenditure)
	maintenanceCapex := math.Max(0.85*capex, 0.75*da)

	oe := *latest.NetIncome + da - maintenanceCapex
	if oe <= 0 {
		return nil, fmt.Errorf("owner earnings: %w: non-positive owner earnings %.2f", models.ErrDegenerateValuation, oe)
	}

	intrinsic := discountedGrowthStream(oe, in.growthRate(), p.DiscountRate, p.TerminalGrowth, p.Years)
	res, err := finish(MethodOwnerEarnings, intrinsic, in)
	if err != nil {
		return nil, err
	}
	// Margin-of-safety gate.
	res.Signal = signalFromGap(res.Gap, marginOfSafety)
	return res, nil
}
