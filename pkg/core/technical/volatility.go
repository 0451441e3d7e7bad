package technical

import (
	"fmt"
	"math"

	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/models"
)

const (
	volShortWindow = 21
	volLongWindow  = 63
	volLowRegime   = 0.8
	volHighRegime  = 1.2
)

// VolatilityRegime compares 21-bar annualized volatility to its 63-bar
// average. A compressed regime (ratio < 0.8) with a short-term pullback
// (z < -1) is bullish; an expanding regime (ratio > 1.2) with a stretched
// price (z > 1) is bearish.
func VolatilityRegime(series models.PriceSeries) (StrategyResult, error) {
	closes := series.Closes()
	rets := simpleReturns(closes)
	// The regime ratio needs a 21-bar vol observation for each of the
	// trailing 63 sessions.
	if len(rets) < volShortWindow+volLongWindow {
		return StrategyResult{}, fmt.Errorf("volatility: %w: %d returns", models.ErrInsufficientHistory, len(rets))
	}

	current, err := annualizedVol(rets, volShortWindow)
	if err != nil {
		return StrategyResult{}, err
	}

	var histSum float64
	for i := 0; i < volLongWindow; i++ {
		end := len(rets) - i
		v, err := annualizedVol(rets[:end], volShortWindow)
		if err != nil {
			return StrategyResult{}, err
		}
		histSum += v
	}
	histAvg := histSum / volLongWindow
	if histAvg == 0 {
		return StrategyResult{}, fmt.Errorf("volatility: %w: zero historical volatility", models.ErrUndefinedMetric)
	}
	regimeRatio := current / histAvg

	z, err := zScore(closes, volShortWindow)
	if err != nil {
		return StrategyResult{}, err
	}

	res := StrategyResult{
		Strategy: StrategyVolatility,
		Signal:   models.SignalNeutral,
		Metrics: map[string]float64{
			"historical_vol": current,
			"vol_regime":     regimeRatio,
			"z_score":        z,
		},
	}

	switch {
	case regimeRatio < volLowRegime && z < -1:
		res.Signal = models.SignalBullish
		res.Confidence = models.ClampConfidence((volLowRegime - regimeRatio) / volLowRegime * 100 * math.Min(math.Abs(z), 2))
	case regimeRatio > volHighRegime && z > 1:
		res.Signal = models.SignalBearish
		res.Confidence = models.ClampConfidence((regimeRatio - volHighRegime) / volHighRegime * 100 * math.Min(z, 2))
	}
	return res, nil
}
