package technical

import (
	"fmt"
	"math"

	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/models"
)

const (
	trendFastEMA   = 8
	trendMidEMA    = 21
	trendSlowEMA   = 55
	adxPeriod      = 14
	adxTrendFloor  = 25.0
)

// TrendFollowing reads the 8/21/55 EMA stack gated by trend strength: a
// non-neutral signal requires ADX(14) above 25. Confidence scales with ADX
// beyond the gate.
func TrendFollowing(series models.PriceSeries) (StrategyResult, error) {
	closes := series.Closes()
	if len(closes) < trendSlowEMA+adxPeriod {
		return StrategyResult{}, fmt.Errorf("trend: %w: %d bars", models.ErrInsufficientHistory, len(closes))
	}

	fast := ema(closes, trendFastEMA)
	mid := ema(closes, trendMidEMA)
	slow := ema(closes, trendSlowEMA)
	last := len(closes) - 1
	f, m, s := fast[last], mid[last], slow[last]

	adxVal, err := adx(series.Bars, adxPeriod)
	if err != nil {
		return StrategyResult{}, err
	}

	res := StrategyResult{
		Strategy: StrategyTrend,
		Signal:   models.SignalNeutral,
		Metrics: map[string]float64{
			"ema_8":  f,
			"ema_21": m,
			"ema_55": s,
			"adx":    adxVal,
		},
	}

	if adxVal > adxTrendFloor {
		switch {
		case f > m && m > s:
			res.Signal = models.SignalBullish
		case f < m && m < s:
			res.Signal = models.SignalBearish
		}
	}
	if res.Signal != models.SignalNeutral {
		// 25 -> 0, 50+ -> 100
		res.Confidence = models.ClampConfidence((math.Min(adxVal, 50) - adxTrendFloor) / 25 * 100)
	}
	return res, nil
}
