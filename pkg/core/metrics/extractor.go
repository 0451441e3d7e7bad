package metrics

import (
	"fmt"
	"math"

	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/models"
)

// Extract derives the ratio set for the most recent period of a
// most-recent-first sequence of raw line items, plus period-over-period growth
// rates computed from the oldest and newest period inside a window of up to n
// periods. marketCap may be nil; market-based yields are then undefined.
//
// Any ratio whose denominator is zero, missing, or negative where a positive
// denominator is required comes back as an undefined (nil) entry, never a
// fabricated zero.
func Extract(periods []models.FinancialPeriod, n int, marketCap *float64) (models.MetricSet, error) {
	if len(periods) == 0 {
		return nil, fmt.Errorf("extract metrics: %w: no periods", models.ErrInsufficientHistory)
	}
	latest := periods[0]

	m := models.MetricSet{}

	// Profitability
	m["return_on_equity"] = ratioPos(latest.NetIncome, latest.ShareholdersEquity)
	m["net_margin"] = ratio(latest.NetIncome, latest.Revenue)
	m["operating_margin"] = ratio(latest.OperatingIncome, latest.Revenue)
	m["gross_margin"] = ratio(latest.GrossProfit, latest.Revenue)
	m["rnd_to_revenue"] = ratio(latest.ResearchAndDevelopment, latest.Revenue)

	// Liquidity and leverage
	m["current_ratio"] = ratioPos(latest.CurrentAssets, latest.CurrentLiabilities)
	m["quick_ratio"] = ratioPos(sub(latest.CurrentAssets, latest.Inventory), latest.CurrentLiabilities)
	m["debt_to_equity"] = ratioPos(latest.TotalDebt, latest.ShareholdersEquity)
	m["liabilities_to_assets"] = ratioPos(latest.TotalLiabilities, latest.TotalAssets)
	m["interest_coverage"] = coverage(latest.OperatingIncome, latest.InterestExpense)
	m["net_cash"] = sub(latest.CashAndEquivalents, latest.TotalDebt)

	// Efficiency
	m["asset_turnover"] = ratioPos(latest.Revenue, latest.TotalAssets)
	m["capex_to_depreciation"] = ratioPos(abs(latest.CapitalExpenditure), latest.DepreciationAndAmortization)
	m["capex_to_revenue"] = ratio(abs(latest.CapitalExpenditure), latest.Revenue)

	// Per-share
	m["earnings_per_share"] = ratioPos(latest.NetIncome, latest.OutstandingShares)
	m["book_value_per_share"] = ratioPos(latest.ShareholdersEquity, latest.OutstandingShares)
	m["fcf_per_share"] = ratioPos(latest.FreeCashFlow, latest.OutstandingShares)
	m["payout_ratio"] = ratioPos(abs(latest.DividendsAndDistributions), latest.NetIncome)

	// Market-based yields
	m["fcf_yield"] = ratioPos(latest.FreeCashFlow, marketCap)
	m["earnings_yield"] = ratioPos(latest.NetIncome, marketCap)
	if mc, ok := deref(marketCap); ok && mc > 0 {
		m["pe_ratio"] = ratioPos(models.Float(mc), latest.NetIncome)
		m["pb_ratio"] = ratioPos(models.Float(mc), latest.ShareholdersEquity)
		m["ps_ratio"] = ratioPos(models.Float(mc), latest.Revenue)
	} else {
		m["pe_ratio"], m["pb_ratio"], m["ps_ratio"] = nil, nil, nil
	}

	// Growth rates across the window
	window := periods
	if n > 0 && n < len(window) {
		window = window[:n]
	}
	earliest := window[len(window)-1]
	m["revenue_growth"] = growth(latest.Revenue, earliest.Revenue)
	m["earnings_growth"] = growth(latest.NetIncome, earliest.NetIncome)
	m["fcf_growth"] = growth(latest.FreeCashFlow, earliest.FreeCashFlow)
	m["book_value_growth"] = growth(latest.ShareholdersEquity, earliest.ShareholdersEquity)
	m["ebitda_growth"] = growth(latest.EBITDA, earliest.EBITDA)
	if len(window) < 2 {
		// A single period cannot define any growth rate.
		m["revenue_growth"], m["earnings_growth"], m["fcf_growth"] = nil, nil, nil
		m["book_value_growth"], m["ebitda_growth"] = nil, nil
	}

	return m, nil
}

// Snapshot builds the immutable per-period record handed to the scorers.
func Snapshot(periods []models.FinancialPeriod, n int, marketCap *float64) (*models.FinancialSnapshot, error) {
	set, err := Extract(periods, n, marketCap)
	if err != nil {
		return nil, err
	}
	latest := periods[0]
	return &models.FinancialSnapshot{
		Ticker:       latest.Ticker,
		ReportPeriod: latest.ReportPeriod,
		PeriodType:   latest.PeriodType,
		LineItems:    latest,
		Metrics:      set,
	}, nil
}

// growth computes (latest - earliest) / |earliest|. Undefined when either
// operand is missing or earliest is zero: the sign of earliest determines
// direction, a zero base has none.
func growth(latest, earliest *float64) *float64 {
	l, ok := deref(latest)
	if !ok {
		return nil
	}
	e, ok := deref(earliest)
	if !ok || e == 0 {
		return nil
	}
	g := (l - e) / math.Abs(e)
	return &g
}

// ratio divides num by den, undefined when den is missing or zero.
func ratio(num, den *float64) *float64 {
	n, ok := deref(num)
	if !ok {
		return nil
	}
	d, ok := deref(den)
	if !ok || d == 0 {
		return nil
	}
	r := n / d
	return &r
}

// ratioPos is ratio with a strictly positive denominator requirement.
func ratioPos(num, den *float64) *float64 {
	d, ok := deref(den)
	if !ok || d <= 0 {
		return nil
	}
	return ratio(num, &d)
}

// coverage divides operating income by the magnitude of interest expense
// (providers report it with inconsistent sign).
func coverage(opIncome, interest *float64) *float64 {
	i, ok := deref(interest)
	if !ok || i == 0 {
		return nil
	}
	mag := math.Abs(i)
	return ratio(opIncome, &mag)
}

func sub(a, b *float64) *float64 {
	av, ok := deref(a)
	if !ok {
		return nil
	}
	bv, ok := deref(b)
	if !ok {
		return nil
	}
	r := av - bv
	return &r
}

func abs(v *float64) *float64 {
	x, ok := deref(v)
	if !ok {
		return nil
	}
	a := math.Abs(x)
	return &a
}

func deref(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}
