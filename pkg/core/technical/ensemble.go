package technical

import (
	"fmt"

	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/core/aggregate"
	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/models"
)

// Strategy names, used as persistence keys and aggregation identifiers.
const (
	StrategyTrend         = "trend"
	StrategyMeanReversion = "mean_reversion"
	StrategyMomentum      = "momentum"
	StrategyVolatility    = "volatility"
	StrategyStatArb       = "stat_arb"
)

// Fixed strategy weights of the ensemble.
var strategyWeights = map[string]float64{
	StrategyTrend:         0.25,
	StrategyMeanReversion: 0.20,
	StrategyMomentum:      0.25,
	StrategyVolatility:    0.15,
	StrategyStatArb:       0.15,
}

// StrategyResult is one strategy's outcome: a signal, a confidence clamped to
// [0,100] and the raw indicator metrics backing it.
type StrategyResult struct {
	Strategy   string             `json:"strategy"`
	Signal     models.Signal      `json:"signal"`
	Confidence float64            `json:"confidence"`
	Metrics    map[string]float64 `json:"metrics"`
}

// StrategyFailure records a strategy that could not run for this series.
type StrategyFailure struct {
	Strategy string `json:"strategy"`
	Reason   string `json:"reason"`
}

// Ensemble is the combined technical outcome for one ticker/date.
type Ensemble struct {
	Ticker      string            `json:"ticker"`
	BizDate     string            `json:"biz_date"`
	Signal      models.Signal     `json:"signal"`
	Confidence  float64           `json:"confidence"`
	Strategies  []StrategyResult  `json:"strategies"`
	Unavailable []StrategyFailure `json:"unavailable,omitempty"`
}

// Analyze runs all five strategies and combines the available ones through
// the shared aggregator. A strategy with insufficient history is reported
// unavailable and excluded; it never contributes a fabricated neutral vote.
// All strategies unavailable yields ErrInsufficientHistory.
func Analyze(series models.PriceSeries, bizDate string) (*Ensemble, error) {
	type strategy struct {
		name string
		run  func(models.PriceSeries) (StrategyResult, error)
	}
	strategies := []strategy{
		{StrategyTrend, TrendFollowing},
		{StrategyMeanReversion, MeanReversion},
		{StrategyMomentum, Momentum},
		{StrategyVolatility, VolatilityRegime},
		{StrategyStatArb, StatisticalArbitrage},
	}

	ens := &Ensemble{Ticker: series.Ticker, BizDate: bizDate, Signal: models.SignalNeutral}
	var votes []models.AgentSignal
	for _, s := range strategies {
		res, err := s.run(series)
		if err != nil {
			ens.Unavailable = append(ens.Unavailable, StrategyFailure{Strategy: s.name, Reason: err.Error()})
			continue
		}
		ens.Strategies = append(ens.Strategies, res)
		votes = append(votes, models.AgentSignal{
			Source:     s.name,
			Signal:     res.Signal,
			Confidence: res.Confidence,
			Weight:     strategyWeights[s.name],
		})
	}

	if len(ens.Strategies) == 0 {
		return nil, fmt.Errorf("technical ensemble for %s: %w: no strategy could run", series.Ticker, models.ErrInsufficientHistory)
	}

	combined := aggregate.Combine(votes)
	ens.Signal = combined.Signal
	ens.Confidence = combined.Confidence
	return ens, nil
}

// AgentSignal converts the ensemble into the aggregator's universal unit.
func (e *Ensemble) AgentSignal(weight float64) models.AgentSignal {
	return models.AgentSignal{
		Source:     "technical",
		Signal:     e.Signal,
		Confidence: e.Confidence,
		Weight:     weight,
		Reasoning:  fmt.Sprintf("%d of 5 strategies ran, ensemble %s", len(e.Strategies), e.Signal),
	}
}
