package metrics

import (
	"errors"
	"math"
	"testing"

	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/models"
)

func period(revenue, netIncome, equity float64) models.FinancialPeriod {
	return models.FinancialPeriod{
		Revenue:            models.Float(revenue),
		NetIncome:          models.Float(netIncome),
		ShareholdersEquity: models.Float(equity),
	}
}

func mustGet(t *testing.T, m models.MetricSet, name string) float64 {
	t.Helper()
	v, ok := m.Get(name)
	if !ok {
		t.Fatalf("metric %s unexpectedly undefined", name)
	}
	return v
}

func TestExtractBasicRatios(t *testing.T) {
	p := models.FinancialPeriod{
		Revenue:            models.Float(1000),
		GrossProfit:        models.Float(400),
		OperatingIncome:    models.Float(250),
		NetIncome:          models.Float(200),
		CurrentAssets:      models.Float(300),
		Inventory:          models.Float(50),
		CurrentLiabilities: models.Float(150),
		TotalDebt:          models.Float(100),
		ShareholdersEquity: models.Float(500),
		InterestExpense:    models.Float(-25), // vendor reports expense negative
	}
	m, err := Extract([]models.FinancialPeriod{p}, 5, models.Float(4000))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	// ROE 200/500, net margin 200/1000, current 300/150, quick (300-50)/150,
	// D/E 100/500, interest coverage 250/25, P/E 4000/200.
	cases := map[string]float64{
		"return_on_equity":  0.4,
		"net_margin":        0.2,
		"gross_margin":      0.4,
		"operating_margin":  0.25,
		"current_ratio":     2.0,
		"quick_ratio":       250.0 / 150.0,
		"debt_to_equity":    0.2,
		"interest_coverage": 10.0,
		"pe_ratio":          20.0,
		"earnings_yield":    0.05,
	}
	for name, want := range cases {
		if got := mustGet(t, m, name); math.Abs(got-want) > 1e-12 {
			t.Errorf("%s = %f, want %f", name, got, want)
		}
	}
}

func TestExtractGrowthWindow(t *testing.T) {
	// Most-recent-first: growth uses latest vs the oldest period inside the
	// window. (1200-1000)/1000 = 0.2 over the 3-period window.
	periods := []models.FinancialPeriod{
		period(1200, 240, 600),
		period(1100, 220, 550),
		period(1000, 200, 500),
		period(400, 80, 200), // outside the window, must be ignored
	}
	m, err := Extract(periods, 3, nil)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if got := mustGet(t, m, "revenue_growth"); math.Abs(got-0.2) > 1e-12 {
		t.Fatalf("revenue_growth = %f, want 0.2", got)
	}
	if got := mustGet(t, m, "earnings_growth"); math.Abs(got-0.2) > 1e-12 {
		t.Fatalf("earnings_growth = %f, want 0.2", got)
	}
}

func TestExtractGrowthUndefinedOnZeroBase(t *testing.T) {
	periods := []models.FinancialPeriod{
		period(1200, 240, 600),
		period(0, 0, 500),
	}
	m, err := Extract(periods, 5, nil)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if _, ok := m.Get("revenue_growth"); ok {
		t.Fatal("growth from a zero base must be undefined, not a value")
	}
	if _, ok := m.Get("earnings_growth"); ok {
		t.Fatal("earnings growth from a zero base must be undefined")
	}
}

func TestExtractGrowthNegativeBase(t *testing.T) {
	// Loss shrinking from -100 to -20: growth = (-20 - -100)/|-100| = +0.8,
	// an improvement, not a sign flip.
	periods := []models.FinancialPeriod{
		{NetIncome: models.Float(-20)},
		{NetIncome: models.Float(-100)},
	}
	m, err := Extract(periods, 5, nil)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if got := mustGet(t, m, "earnings_growth"); math.Abs(got-0.8) > 1e-12 {
		t.Fatalf("earnings_growth = %f, want 0.8", got)
	}
}

func TestExtractNegativeEquityUndefined(t *testing.T) {
	p := period(1000, 200, -50)
	m, err := Extract([]models.FinancialPeriod{p}, 5, nil)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if _, ok := m.Get("return_on_equity"); ok {
		t.Fatal("ROE on negative equity must be undefined")
	}
	if _, ok := m.Get("debt_to_equity"); ok {
		t.Fatal("debt_to_equity on negative equity must be undefined")
	}
}

func TestExtractSinglePeriodNoGrowth(t *testing.T) {
	m, err := Extract([]models.FinancialPeriod{period(1000, 200, 500)}, 5, nil)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	for _, name := range []string{"revenue_growth", "earnings_growth", "fcf_growth", "book_value_growth"} {
		if _, ok := m.Get(name); ok {
			t.Errorf("%s should be undefined with one period", name)
		}
	}
}

func TestExtractNoPeriods(t *testing.T) {
	if _, err := Extract(nil, 5, nil); !errors.Is(err, models.ErrInsufficientHistory) {
		t.Fatalf("expected ErrInsufficientHistory, got %v", err)
	}
}

func TestSnapshotCarriesLatestPeriod(t *testing.T) {
	latest := period(1200, 240, 600)
	latest.Ticker = "TEST"
	latest.ReportPeriod = "2025-09-27"
	latest.PeriodType = "annual"
	periods := []models.FinancialPeriod{latest, period(1000, 200, 500)}

	snap, err := Snapshot(periods, 5, models.Float(4800))
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if snap.Ticker != "TEST" || snap.ReportPeriod != "2025-09-27" || snap.PeriodType != "annual" {
		t.Fatalf("snapshot header = %+v", snap)
	}
	if snap.LineItems.Revenue == nil || *snap.LineItems.Revenue != 1200 {
		t.Fatalf("line items not taken from the latest period: %+v", snap.LineItems)
	}
	if got := mustGet(t, snap.Metrics, "revenue_growth"); math.Abs(got-0.2) > 1e-12 {
		t.Fatalf("revenue_growth = %f, want 0.2", got)
	}
	if got := mustGet(t, snap.Metrics, "pe_ratio"); math.Abs(got-20.0) > 1e-12 {
		t.Fatalf("pe_ratio = %f, want 20", got)
	}
}

func TestSnapshotNoPeriods(t *testing.T) {
	if _, err := Snapshot(nil, 5, nil); !errors.Is(err, models.ErrInsufficientHistory) {
		t.Fatalf("expected ErrInsufficientHistory, got %v", err)
	}
}

func TestExtractNoMarketCap(t *testing.T) {
	m, err := Extract([]models.FinancialPeriod{period(1000, 200, 500)}, 5, nil)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	for _, name := range []string{"pe_ratio", "pb_ratio", "ps_ratio", "fcf_yield", "earnings_yield"} {
		if _, ok := m.Get(name); ok {
			t.Errorf("%s should be undefined without market cap", name)
		}
	}
}
