package models

import "errors"

// Error taxonomy for the numeric core. None of these are fatal to a batch run:
// the pipeline logs them per ticker/method and keeps going.
var (
	// ErrUndefinedMetric marks a ratio or growth rate that cannot be computed
	// (zero or missing denominator). It must never be coerced to zero.
	ErrUndefinedMetric = errors.New("undefined metric")

	// ErrDegenerateValuation marks a valuation method whose assumptions are
	// invalid for this ticker/date (e.g. discount rate <= terminal growth,
	// EBITDA <= 0 for a multiple method).
	ErrDegenerateValuation = errors.New("degenerate valuation")

	// ErrInsufficientHistory marks fewer periods or price bars than a method's
	// minimum window.
	ErrInsufficientHistory = errors.New("insufficient history")

	// ErrInsufficientData marks a scorer evaluation in which no checklist rule
	// saw a defined metric. The result is excluded from aggregation rather than
	// scored bearish.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrProviderFailure marks a failed data retrieval at the collaborator
	// boundary. The whole per-ticker analysis for that date is skipped.
	ErrProviderFailure = errors.New("provider failure")
)
