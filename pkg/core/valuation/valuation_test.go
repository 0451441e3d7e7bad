package valuation

import (
	"errors"
	"math"
	"testing"

	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/models"
)

func baseInputs(mc float64) Inputs {
	return Inputs{
		Ticker:    "AAPL",
		BizDate:   "2026-08-28",
		MarketCap: mc,
		Periods: []models.FinancialPeriod{{
			NetIncome:                   models.Float(96_995_000_000),
			FreeCashFlow:                models.Float(98_486_000_000),
			DepreciationAndAmortization: models.Float(11_445_000_000),
			CapitalExpenditure:          models.Float(-10_959_000_000),
			EBITDA:                      models.Float(134_661_000_000),
			TotalDebt:                   models.Float(106_629_000_000),
			CashAndEquivalents:          models.Float(65_171_000_000),
			ShareholdersEquity:          models.Float(56_950_000_000),
		}},
		Metrics: models.MetricSet{},
	}
}

func TestDCFWorkedExample(t *testing.T) {
	// fcf 98,486,000,000 grown at 1.1692% for 5 years, discounted at 10%
	// with a 3% Gordon terminal: IV = 1,339,442,082,486. Against a market
	// cap of 3,155,000,000,000 the gap is -57.55%, well past the bearish
	// threshold, and confidence caps at 100.
	in := baseInputs(3_155_000_000_000)
	in.Params.Growth = models.Float(0.011691696767474167)

	res, err := DCF(in)
	if err != nil {
		t.Fatalf("DCF failed: %v", err)
	}
	if math.Abs(res.IntrinsicValue-1_339_442_082_486) > 1e6 {
		t.Fatalf("intrinsic value = %.0f, want ~1,339,442,082,486", res.IntrinsicValue)
	}
	if math.Abs(res.Gap-(-0.5755)) > 0.0005 {
		t.Fatalf("gap = %.4f, want ~-0.5755", res.Gap)
	}
	if res.Signal != models.SignalBearish {
		t.Fatalf("signal = %s, want bearish", res.Signal)
	}
	if res.Confidence != 100 {
		t.Fatalf("confidence = %.1f, want 100 (gap beyond 30%% cap)", res.Confidence)
	}
}

func TestDCFMonotonicity(t *testing.T) {
	in := baseInputs(2_000_000_000_000)

	in.Params.Growth = models.Float(0.02)
	low, err := DCF(in)
	if err != nil {
		t.Fatalf("DCF failed: %v", err)
	}
	in.Params.Growth = models.Float(0.08)
	high, err := DCF(in)
	if err != nil {
		t.Fatalf("DCF failed: %v", err)
	}
	if high.IntrinsicValue <= low.IntrinsicValue {
		t.Fatalf("higher growth should raise intrinsic value: %.0f <= %.0f",
			high.IntrinsicValue, low.IntrinsicValue)
	}

	in.Params.Growth = models.Float(0.05)
	in.Params.DiscountRate = 0.09
	cheapMoney, err := DCF(in)
	if err != nil {
		t.Fatalf("DCF failed: %v", err)
	}
	in.Params.DiscountRate = 0.12
	dearMoney, err := DCF(in)
	if err != nil {
		t.Fatalf("DCF failed: %v", err)
	}
	if dearMoney.IntrinsicValue >= cheapMoney.IntrinsicValue {
		t.Fatalf("higher discount rate should lower intrinsic value: %.0f >= %.0f",
			dearMoney.IntrinsicValue, cheapMoney.IntrinsicValue)
	}
}

func TestDCFDegenerateRate(t *testing.T) {
	in := baseInputs(1_000_000_000)
	in.Params.DiscountRate = 0.02 // below the 3% default terminal growth

	if _, err := DCF(in); !errors.Is(err, models.ErrDegenerateValuation) {
		t.Fatalf("expected ErrDegenerateValuation, got %v", err)
	}
}

func TestDCFMissingFreeCashFlow(t *testing.T) {
	in := baseInputs(1_000_000_000)
	in.Periods[0].FreeCashFlow = nil

	if _, err := DCF(in); !errors.Is(err, models.ErrUndefinedMetric) {
		t.Fatalf("expected ErrUndefinedMetric, got %v", err)
	}
}

func TestOwnerEarningsMaintenanceCapex(t *testing.T) {
	// OE = 96,995 + 11,445 - max(0.85*10,959, 0.75*11,445) million
	//    = 96,995 + 11,445 - 9,315.15 = 99,124.85 million.
	// With the 5% fallback growth the discounted stream gives
	// IV = 1,587,856,910,288.
	in := baseInputs(1_000_000_000_000)
	res, err := OwnerEarnings(in)
	if err != nil {
		t.Fatalf("OwnerEarnings failed: %v", err)
	}
	if math.Abs(res.IntrinsicValue-1_587_856_910_288) > 1e6 {
		t.Fatalf("intrinsic value = %.0f, want ~1,587,856,910,288", res.IntrinsicValue)
	}
}

func TestOwnerEarningsMarginOfSafety(t *testing.T) {
	// A 20% gap clears the generic 15% threshold but not the 30% margin of
	// safety, so owner earnings stays neutral where DCF would be bullish.
	in := baseInputs(0)
	oeIV := 1_587_856_910_288.0

	in.MarketCap = oeIV / 1.20
	res, err := OwnerEarnings(in)
	if err != nil {
		t.Fatalf("OwnerEarnings failed: %v", err)
	}
	if res.Signal != models.SignalNeutral {
		t.Fatalf("gap %.3f should be neutral under margin of safety, got %s", res.Gap, res.Signal)
	}

	in.MarketCap = oeIV / 1.35
	res, err = OwnerEarnings(in)
	if err != nil {
		t.Fatalf("OwnerEarnings failed: %v", err)
	}
	if res.Signal != models.SignalBullish {
		t.Fatalf("gap %.3f should clear the margin of safety, got %s", res.Gap, res.Signal)
	}

	// Bearish side keeps the ordinary threshold.
	in.MarketCap = oeIV / 0.80
	res, err = OwnerEarnings(in)
	if err != nil {
		t.Fatalf("OwnerEarnings failed: %v", err)
	}
	if res.Signal != models.SignalBearish {
		t.Fatalf("gap %.3f should be bearish, got %s", res.Gap, res.Signal)
	}
}

func TestEVEBITDAMedianMultiple(t *testing.T) {
	// Median of {8, 10, 12, 20} = 11. EV = 11 * 100 = 1100, net debt =
	// 200 - 100 = 100, equity value 1000 vs market cap 800: gap +25%,
	// bullish, confidence 0.25/0.30*100 = 83.33.
	in := Inputs{
		Ticker:    "TEST",
		MarketCap: 800,
		Periods: []models.FinancialPeriod{{
			EBITDA:             models.Float(100),
			TotalDebt:          models.Float(200),
			CashAndEquivalents: models.Float(100),
		}},
		Metrics:          models.MetricSet{},
		TrailingEVEBITDA: []float64{8, 10, 12, 20},
	}
	res, err := EVEBITDA(in)
	if err != nil {
		t.Fatalf("EVEBITDA failed: %v", err)
	}
	if math.Abs(res.IntrinsicValue-1000) > 1e-9 {
		t.Fatalf("intrinsic value = %.2f, want 1000", res.IntrinsicValue)
	}
	if res.Signal != models.SignalBullish {
		t.Fatalf("signal = %s, want bullish", res.Signal)
	}
	if math.Abs(res.Confidence-0.25/0.30*100) > 1e-9 {
		t.Fatalf("confidence = %.2f, want 83.33", res.Confidence)
	}
}

func TestEVEBITDATooFewMultiples(t *testing.T) {
	in := baseInputs(1_000_000_000)
	in.TrailingEVEBITDA = []float64{12}

	if _, err := EVEBITDA(in); !errors.Is(err, models.ErrInsufficientHistory) {
		t.Fatalf("expected ErrInsufficientHistory, got %v", err)
	}
}

func TestResidualIncome(t *testing.T) {
	// NI 100 grown at 5%, BV 500, full retention, k_e 10%, terminal 3%:
	// BV_0 + PV(RI_1..5) + PV(terminal) = 966.476.
	in := Inputs{
		Ticker:    "TEST",
		MarketCap: 900,
		Periods: []models.FinancialPeriod{{
			NetIncome:          models.Float(100),
			ShareholdersEquity: models.Float(500),
		}},
		Metrics: models.MetricSet{},
	}
	in.Params.Growth = models.Float(0.05)

	res, err := ResidualIncome(in)
	if err != nil {
		t.Fatalf("ResidualIncome failed: %v", err)
	}
	if math.Abs(res.IntrinsicValue-966.476) > 0.001 {
		t.Fatalf("intrinsic value = %.3f, want 966.476", res.IntrinsicValue)
	}
	// Gap 7.4% sits inside the neutral band.
	if res.Signal != models.SignalNeutral {
		t.Fatalf("signal = %s, want neutral", res.Signal)
	}
}

func TestRunAllRenormalizesOverDefinedMethods(t *testing.T) {
	// Only one trailing multiple: ev/ebitda sits out and the remaining
	// weights {0.35, 0.35, 0.10} are renormalized to sum 0.80.
	in := baseInputs(1_500_000_000_000)
	in.Params.Growth = models.Float(0.05)
	in.TrailingEVEBITDA = []float64{12}

	comp, err := RunAll(in)
	if err != nil {
		t.Fatalf("RunAll failed: %v", err)
	}
	if len(comp.Methods) != 3 {
		t.Fatalf("expected 3 defined methods, got %d", len(comp.Methods))
	}
	if len(comp.Unavailable) != 1 || comp.Unavailable[0].Method != MethodEVEBITDA {
		t.Fatalf("expected ev_ebitda unavailable, got %+v", comp.Unavailable)
	}

	dcf, _ := DCF(in)
	oe, _ := OwnerEarnings(in)
	ri, _ := ResidualIncome(in)
	want := (0.35*dcf.Gap + 0.35*oe.Gap + 0.10*ri.Gap) / 0.80
	if math.Abs(comp.WeightedGap-want) > 1e-12 {
		t.Fatalf("weighted gap = %.6f, want %.6f", comp.WeightedGap, want)
	}
}

func TestRunAllAllUnavailable(t *testing.T) {
	in := Inputs{Ticker: "EMPTY", MarketCap: 1000, Metrics: models.MetricSet{}}

	if _, err := RunAll(in); !errors.Is(err, models.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}
