package technical

import (
	"math"

	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/models"
)

const (
	statArbHurstCeiling = 0.4
	statArbSkewFloor    = 1.0
)

// StatisticalArbitrage classifies the series with the Hurst exponent and the
// skew of its return distribution. Only a clearly mean-reverting series
// (H < 0.4) can signal: positive skew beyond +1 is bullish, negative skew
// beyond -1 is bearish. Trending and random-walk regimes (H >= 0.5) are
// always neutral regardless of skew.
func StatisticalArbitrage(series models.PriceSeries) (StrategyResult, error) {
	closes := series.Closes()
	h, err := hurstExponent(closes)
	if err != nil {
		return StrategyResult{}, err
	}
	skew := skewness(simpleReturns(closes))

	res := StrategyResult{
		Strategy: StrategyStatArb,
		Signal:   models.SignalNeutral,
		Metrics: map[string]float64{
			"hurst":    h,
			"skewness": skew,
		},
	}

	if h < statArbHurstCeiling {
		switch {
		case skew > statArbSkewFloor:
			res.Signal = models.SignalBullish
		case skew < -statArbSkewFloor:
			res.Signal = models.SignalBearish
		}
	}
	if res.Signal != models.SignalNeutral {
		// Stronger mean reversion earns more confidence.
		res.Confidence = models.ClampConfidence((statArbHurstCeiling - h) / statArbHurstCeiling * 100 * math.Min(math.Abs(skew), 2) / 2)
	}
	return res, nil
}
