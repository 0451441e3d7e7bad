package technical

import (
	"fmt"
	"math"

	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/models"
)

// Momentum look-back windows in trading days (1, 3 and 6 months) with the
// shorter window weighted more heavily, plus the volume confirmation window.
const (
	momShortWindow  = 21
	momMediumWindow = 63
	momLongWindow   = 126
	momVolumeWindow = 21
	momThreshold    = 0.05
)

var momWindowWeights = [3]float64{0.5, 0.3, 0.2}

// Momentum blends 1/3/6-month returns and confirms with volume against its
// 21-bar average: bullish when blended momentum clears +5% on above-average
// volume, symmetric for bearish.
func Momentum(series models.PriceSeries) (StrategyResult, error) {
	closes := series.Closes()
	volumes := series.Volumes()
	if len(closes) < momLongWindow+1 {
		return StrategyResult{}, fmt.Errorf("momentum: %w: %d bars", models.ErrInsufficientHistory, len(closes))
	}

	last := len(closes) - 1
	windows := [3]int{momShortWindow, momMediumWindow, momLongWindow}
	var blended float64
	metrics := map[string]float64{}
	for i, w := range windows {
		base := closes[last-w]
		if base == 0 {
			return StrategyResult{}, fmt.Errorf("momentum: %w: zero base close", models.ErrUndefinedMetric)
		}
		r := closes[last]/base - 1
		blended += momWindowWeights[i] * r
		metrics[fmt.Sprintf("return_%dd", w)] = r
	}

	volTail := volumes[len(volumes)-momVolumeWindow:]
	volMean, _ := meanStd(volTail)
	volumeRatio := 0.0
	if volMean > 0 {
		volumeRatio = volumes[len(volumes)-1] / volMean
	}
	metrics["momentum"] = blended
	metrics["volume_ratio"] = volumeRatio

	res := StrategyResult{
		Strategy: StrategyMomentum,
		Signal:   models.SignalNeutral,
		Metrics:  metrics,
	}

	confirmed := volumeRatio > 1.0
	switch {
	case blended > momThreshold && confirmed:
		res.Signal = models.SignalBullish
	case blended < -momThreshold && confirmed:
		res.Signal = models.SignalBearish
	}
	if res.Signal != models.SignalNeutral {
		// Saturates at 2x the threshold distance.
		res.Confidence = models.ClampConfidence((math.Abs(blended) - momThreshold) / momThreshold * 100)
	}
	return res, nil
}
