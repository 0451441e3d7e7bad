package valuation

import (
	"fmt"

	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/models"
)

// DCF projects free cash flow at a constant growth rate, discounts each year
// and the Gordon-growth terminal value, and compares the sum to market cap.
//
//	fcf_t = fcf_0 * (1+g)^t                      t = 1..n
//	TV    = fcf_n * (1+g_term) / (r - g_term)
//	IV    = sum(fcf_t / (1+r)^t) + TV / (1+r)^n
//
// r <= g_term makes the terminal denominator non-positive and the method
// unavailable; it never produces a negative or infinite value.
func DCF(in Inputs) (*Result, error) {
	p := in.Params.withDefaults()
	if p.DiscountRate <= p.TerminalGrowth {
		return nil, fmt.Errorf("dcf: %w: discount rate %.4f <= terminal growth %.4f",
			models.ErrDegenerateValuation, p.DiscountRate, p.TerminalGrowth)
	}

	latest, err := in.latest()
	if err != nil {
		return nil, err
	}
	if latest.FreeCashFlow == nil {
		return nil, fmt.Errorf("dcf: %w: free cash flow missing", models.ErrUndefinedMetric)
	}
	fcf := *latest.FreeCashFlow
	if fcf <= 0 {
		return nil, fmt.Errorf("dcf: %w: non-positive free cash flow %.2f", models.ErrDegenerateValuation, fcf)
	}

	intrinsic := discountedGrowthStream(fcf, in.growthRate(), p.DiscountRate, p.TerminalGrowth, p.Years)
	return finish(MethodDCF, intrinsic, in)
}
