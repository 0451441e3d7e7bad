package models

import "time"

// FinancialPeriod holds the raw per-period line items reported by the
// financial-statements provider. Missing line items are nil, never zero.
type FinancialPeriod struct {
	Ticker       string    `json:"ticker"`
	ReportPeriod string    `json:"report_period"` // e.g. "2024-09-28"
	PeriodType   string    `json:"period_type"`   // "annual" or "quarterly"
	Currency     string    `json:"currency"`
	FiledAt      time.Time `json:"filed_at"`

	Revenue                     *float64 `json:"revenue"`
	GrossProfit                 *float64 `json:"gross_profit"`
	OperatingIncome             *float64 `json:"operating_income"`
	NetIncome                   *float64 `json:"net_income"`
	EBITDA                      *float64 `json:"ebitda"`
	FreeCashFlow                *float64 `json:"free_cash_flow"`
	CapitalExpenditure          *float64 `json:"capital_expenditure"`
	DepreciationAndAmortization *float64 `json:"depreciation_and_amortization"`
	ResearchAndDevelopment      *float64 `json:"research_and_development"`

	TotalAssets               *float64 `json:"total_assets"`
	CurrentAssets             *float64 `json:"current_assets"`
	Inventory                 *float64 `json:"inventory"`
	TotalLiabilities          *float64 `json:"total_liabilities"`
	CurrentLiabilities        *float64 `json:"current_liabilities"`
	TotalDebt                 *float64 `json:"total_debt"`
	CashAndEquivalents        *float64 `json:"cash_and_equivalents"`
	ShareholdersEquity        *float64 `json:"shareholders_equity"`
	InterestExpense           *float64 `json:"interest_expense"`
	OutstandingShares         *float64 `json:"outstanding_shares"`
	DividendsAndDistributions *float64 `json:"dividends_and_other_cash_distributions"`
}

// MetricSet is the Metric Extractor's output for the most recent period:
// derived ratios plus pairwise growth rates across the requested window.
// A nil entry means the metric is undefined for this ticker/date, which
// downstream scorers treat as "this check does not award points".
type MetricSet map[string]*float64

// Get returns the metric value and whether it is defined.
func (m MetricSet) Get(name string) (float64, bool) {
	v, ok := m[name]
	if !ok || v == nil {
		return 0, false
	}
	return *v, true
}

// FinancialSnapshot is the immutable per (ticker, report_period, period_type)
// record handed to every scoring method: the raw line items of the most recent
// period plus the derived metric set.
type FinancialSnapshot struct {
	Ticker       string          `json:"ticker"`
	ReportPeriod string          `json:"report_period"`
	PeriodType   string          `json:"period_type"`
	LineItems    FinancialPeriod `json:"line_items"`
	Metrics      MetricSet       `json:"metrics"`
}

// InsiderTrade is one reported insider transaction. Negative TransactionShares
// means a sale.
type InsiderTrade struct {
	Ticker            string    `json:"ticker"`
	FilingDate        time.Time `json:"filing_date"`
	TransactionShares *float64  `json:"transaction_shares"`
	TransactionValue  *float64  `json:"transaction_value"`
}

// NewsItem is one news record with a provider-assigned sentiment label
// ("positive", "negative" or "neutral").
type NewsItem struct {
	Ticker    string    `json:"ticker"`
	Title     string    `json:"title"`
	Source    string    `json:"source"`
	URL       string    `json:"url"`
	Date      time.Time `json:"date"`
	Sentiment string    `json:"sentiment"`
}

// Float returns a pointer to v. Convenience for building test fixtures and
// provider adapters.
func Float(v float64) *float64 { return &v }
