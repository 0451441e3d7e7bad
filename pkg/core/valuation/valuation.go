// Package valuation implements four intrinsic-value estimators (DCF, Owner
// Earnings, EV/EBITDA multiple, Residual Income) plus the composite that
// blends their valuation gaps with fixed weights.
package valuation

import (
	"fmt"
	"math"

	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/models"
)

// Method names, used as persistence keys and aggregation identifiers.
const (
	MethodDCF            = "dcf"
	MethodOwnerEarnings  = "owner_earnings"
	MethodEVEBITDA       = "ev_ebitda"
	MethodResidualIncome = "residual_income"
)

// Default assumptions shared across methods.
const (
	DefaultDiscountRate   = 0.10
	DefaultTerminalGrowth = 0.03
	DefaultYears          = 5
	DefaultGrowth         = 0.05 // fallback when no earnings growth is defined

	// Signal thresholds on the valuation gap.
	gapThreshold  = 0.15
	confidenceCap = 0.30

	// Owner Earnings requires this much undervaluation before acting bullish.
	marginOfSafety = 0.30
)

// Params are the deterministic assumptions of a valuation run. Zero-valued
// fields fall back to the package defaults.
type Params struct {
	Years          int
	DiscountRate   float64
	TerminalGrowth float64
	Growth         *float64 // nil: derived from earnings growth, floor DefaultGrowth
}

func (p Params) withDefaults() Params {
	if p.Years == 0 {
		p.Years = DefaultYears
	}
	if p.DiscountRate == 0 {
		p.DiscountRate = DefaultDiscountRate
	}
	if p.TerminalGrowth == 0 {
		p.TerminalGrowth = DefaultTerminalGrowth
	}
	return p
}

// Inputs carries everything a valuation method may consume for one ticker and
// as-of date. Periods are most-recent-first. TrailingEVEBITDA holds the
// company's own historical EV/EBITDA multiples, oldest first.
type Inputs struct {
	Ticker          string
	BizDate         string
	Periods         []models.FinancialPeriod
	Metrics         models.MetricSet
	MarketCap       float64
	TrailingEVEBITDA []float64
	Params          Params
}

func (in Inputs) latest() (models.FinancialPeriod, error) {
	if len(in.Periods) == 0 {
		return models.FinancialPeriod{}, fmt.Errorf("valuation inputs: %w: no periods", models.ErrInsufficientHistory)
	}
	return in.Periods[0], nil
}

// growthRate resolves the projection growth rate: explicit override, else the
// most recent earnings growth rate, else the 5% fallback. Non-finite values
// fall back as well.
func (in Inputs) growthRate() float64 {
	p := in.Params
	if p.Growth != nil {
		return *p.Growth
	}
	if g, ok := in.Metrics.Get("earnings_growth"); ok && !math.IsInf(g, 0) && !math.IsNaN(g) {
		return g
	}
	return DefaultGrowth
}

// Result is one method's valuation outcome.
type Result struct {
	Method         string        `json:"method"`
	IntrinsicValue float64       `json:"intrinsic_value"`
	MarketCap      float64       `json:"market_cap"`
	Gap            float64       `json:"gap"`
	Signal         models.Signal `json:"signal"`
	Confidence     float64       `json:"confidence"`
	BizDate        string        `json:"biz_date"`
}

// finish computes the gap against market cap and discretizes it. A non-positive
// market cap leaves the gap undefined and the method unavailable.
func finish(method string, intrinsic float64, in Inputs) (*Result, error) {
	if in.MarketCap <= 0 {
		return nil, fmt.Errorf("%s: %w: market cap %.2f", method, models.ErrDegenerateValuation, in.MarketCap)
	}
	gap := (intrinsic - in.MarketCap) / in.MarketCap
	return &Result{
		Method:         method,
		IntrinsicValue: intrinsic,
		MarketCap:      in.MarketCap,
		Gap:            gap,
		Signal:         signalFromGap(gap, gapThreshold),
		Confidence:     confidenceFromGap(gap),
		BizDate:        in.BizDate,
	}, nil
}

// signalFromGap applies the fixed global threshold: gap above +threshold is
// bullish, below -threshold is bearish.
func signalFromGap(gap, bullishThreshold float64) models.Signal {
	switch {
	case gap > bullishThreshold:
		return models.SignalBullish
	case gap < -gapThreshold:
		return models.SignalBearish
	default:
		return models.SignalNeutral
	}
}

// confidenceFromGap scales |gap| linearly, capped at a 30-point gap.
func confidenceFromGap(gap float64) float64 {
	return models.ClampConfidence(math.Min(math.Abs(gap), confidenceCap) / confidenceCap * 100)
}

// discountedGrowthStream is the shared projection math of DCF and Owner
// Earnings: project base cash flow at g for n years, discount at r, and add
// the discounted Gordon terminal value. r <= gTerm is degenerate and must be
// rejected by the caller before entry.
func discountedGrowthStream(base, g, r, gTerm float64, years int) float64 {
	var pv float64
	flow := base
	for t := 1; t <= years; t++ {
		flow *= 1 + g
		pv += flow / math.Pow(1+r, float64(t))
	}
	terminal := flow * (1 + gTerm) / (r - gTerm)
	pv += terminal / math.Pow(1+r, float64(years))
	return pv
}
