package technical

import (
	"fmt"
	"math"

	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/models"
)

const (
	mrZWindow    = 50
	mrRSIPeriod  = 14
	mrZThreshold = 2.0
	bbWindow     = 20
	bbSigma      = 2.0
)

// MeanReversion standardizes price against its 50-bar rolling mean and
// requires RSI(14) confirmation: bullish on z < -2 with RSI < 30, bearish on
// z > 2 with RSI > 70. Bollinger Bands (20, 2 sigma) ride along as auxiliary
// metrics only.
func MeanReversion(series models.PriceSeries) (StrategyResult, error) {
	closes := series.Closes()
	if len(closes) < mrZWindow {
		return StrategyResult{}, fmt.Errorf("mean reversion: %w: %d bars", models.ErrInsufficientHistory, len(closes))
	}

	z, err := zScore(closes, mrZWindow)
	if err != nil {
		return StrategyResult{}, err
	}
	rsiVal, err := rsi(closes, mrRSIPeriod)
	if err != nil {
		return StrategyResult{}, err
	}

	bbMean, bbStd := meanStd(closes[len(closes)-bbWindow:])

	res := StrategyResult{
		Strategy: StrategyMeanReversion,
		Signal:   models.SignalNeutral,
		Metrics: map[string]float64{
			"z_score":   z,
			"rsi_14":    rsiVal,
			"bb_upper":  bbMean + bbSigma*bbStd,
			"bb_middle": bbMean,
			"bb_lower":  bbMean - bbSigma*bbStd,
		},
	}

	switch {
	case z < -mrZThreshold && rsiVal < 30:
		res.Signal = models.SignalBullish
	case z > mrZThreshold && rsiVal > 70:
		res.Signal = models.SignalBearish
	}
	if res.Signal != models.SignalNeutral {
		// Distance past the 2-sigma threshold, saturating one sigma out.
		res.Confidence = models.ClampConfidence((math.Abs(z) - mrZThreshold) * 100)
	}
	return res, nil
}
