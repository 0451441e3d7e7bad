package scorer

// Built-in philosophy checklists. Thresholds express each investing style's
// heuristics over the shared metric names; the evaluation engine treats every
// table identically.

// ValueChecklist rewards durable profitability bought at a reasonable price.
func ValueChecklist() Checklist {
	return Checklist{
		Name: "value",
		Rules: []Rule{
			{Metric: "return_on_equity", Op: OpGreater, Threshold: 0.15, Points: 2, Label: "ROE above 15%"},
			{Metric: "net_margin", Op: OpGreater, Threshold: 0.15, Points: 1, Label: "net margin above 15%"},
			{Metric: "operating_margin", Op: OpGreater, Threshold: 0.15, Points: 1, Label: "operating margin above 15%"},
			{Metric: "debt_to_equity", Op: OpLess, Threshold: 0.5, Points: 2, Label: "conservative leverage"},
			{Metric: "current_ratio", Op: OpGreater, Threshold: 1.5, Points: 1, Label: "comfortable liquidity"},
			{Metric: "interest_coverage", Op: OpGreater, Threshold: 5, Points: 1, Label: "earnings cover interest 5x"},
			{Metric: "earnings_growth", Op: OpGreater, Threshold: 0, Points: 1, Label: "earnings growing"},
			{Metric: "pe_ratio", Op: OpLess, Threshold: 20, Points: 1, Label: "P/E under 20"},
		},
	}
}

// QualityChecklist looks for moat economics: high, stable returns on capital
// with light reinvestment needs.
func QualityChecklist() Checklist {
	return Checklist{
		Name: "quality",
		Rules: []Rule{
			{Metric: "return_on_equity", Op: OpGreater, Threshold: 0.20, Points: 2, Label: "ROE above 20%"},
			{Metric: "gross_margin", Op: OpGreater, Threshold: 0.40, Points: 2, Label: "gross margin above 40%"},
			{Metric: "operating_margin", Op: OpGreater, Threshold: 0.20, Points: 1, Label: "operating margin above 20%"},
			{Metric: "capex_to_revenue", Op: OpLess, Threshold: 0.10, Points: 1, Label: "capital-light"},
			{Metric: "rnd_to_revenue", Op: OpGreater, Threshold: 0.05, Points: 1, Label: "sustained R&D"},
			{Metric: "debt_to_equity", Op: OpLess, Threshold: 1.0, Points: 1, Label: "moderate leverage"},
			{Metric: "fcf_yield", Op: OpGreater, Threshold: 0.03, Points: 1, Label: "cash generative"},
			{Metric: "revenue_growth", Op: OpGreater, Threshold: 0.05, Points: 1, Label: "revenue compounding"},
		},
	}
}

// GARPChecklist is growth at a reasonable price: double-digit growth with the
// multiple kept honest.
func GARPChecklist() Checklist {
	return Checklist{
		Name: "garp",
		Rules: []Rule{
			{Metric: "revenue_growth", Op: OpGreater, Threshold: 0.10, Points: 2, Label: "revenue growth above 10%"},
			{Metric: "earnings_growth", Op: OpGreater, Threshold: 0.10, Points: 2, Label: "earnings growth above 10%"},
			{Metric: "fcf_growth", Op: OpGreater, Threshold: 0.10, Points: 1, Label: "FCF growth above 10%"},
			{Metric: "operating_margin", Op: OpGreater, Threshold: 0.10, Points: 1, Label: "profitable growth"},
			{Metric: "pe_ratio", Op: OpLess, Threshold: 30, Points: 1, Label: "multiple not euphoric"},
			{Metric: "ps_ratio", Op: OpLess, Threshold: 8, Points: 1, Label: "sales multiple contained"},
			{Metric: "debt_to_equity", Op: OpLess, Threshold: 1.0, Points: 1, Label: "growth not levered"},
		},
	}
}

// ContrarianChecklist hunts deep value: heavy cash flow yields and balance
// sheet protection in out-of-favor names.
func ContrarianChecklist() Checklist {
	return Checklist{
		Name: "contrarian",
		Rules: []Rule{
			{Metric: "fcf_yield", Op: OpGreater, Threshold: 0.10, Points: 3, Label: "double-digit FCF yield"},
			{Metric: "earnings_yield", Op: OpGreater, Threshold: 0.10, Points: 2, Label: "double-digit earnings yield"},
			{Metric: "pb_ratio", Op: OpLess, Threshold: 1.5, Points: 1, Label: "near book value"},
			{Metric: "net_cash", Op: OpGreater, Threshold: 0, Points: 2, Label: "net cash balance sheet"},
			{Metric: "current_ratio", Op: OpGreater, Threshold: 1.2, Points: 1, Label: "solvent through the cycle"},
			{Metric: "revenue_growth", Op: OpGreater, Threshold: -0.10, Points: 1, Label: "decline not terminal"},
		},
	}
}

// MacroChecklist screens for asymmetric setups: accelerating fundamentals on
// an unlevered base.
func MacroChecklist() Checklist {
	return Checklist{
		Name: "macro",
		Rules: []Rule{
			{Metric: "revenue_growth", Op: OpGreater, Threshold: 0.15, Points: 2, Label: "top line accelerating"},
			{Metric: "earnings_growth", Op: OpGreater, Threshold: 0.20, Points: 2, Label: "earnings accelerating"},
			{Metric: "fcf_growth", Op: OpGreater, Threshold: 0.15, Points: 1, Label: "cash conversion accelerating"},
			{Metric: "debt_to_equity", Op: OpLess, Threshold: 0.7, Points: 1, Label: "room to lever the thesis"},
			{Metric: "gross_margin", Op: OpGreater, Threshold: 0.30, Points: 1, Label: "pricing power"},
			{Metric: "liabilities_to_assets", Op: OpLess, Threshold: 0.6, Points: 1, Label: "balance sheet optionality"},
		},
	}
}

// DefaultChecklists returns the five built-in philosophies in their canonical
// order.
func DefaultChecklists() []Checklist {
	return []Checklist{
		ValueChecklist(),
		QualityChecklist(),
		GARPChecklist(),
		ContrarianChecklist(),
		MacroChecklist(),
	}
}
