// Package technical implements the five-strategy quantitative ensemble
// (trend, mean reversion, momentum, volatility regime, statistical arbitrage)
// over a daily price series, and the indicator math they share.
package technical

import (
	"fmt"
	"math"

	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/models"
)

const tradingDaysPerYear = 252

// simpleReturns computes close-to-close simple returns.
func simpleReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, closes[i]/closes[i-1]-1)
	}
	return out
}

// logReturns computes close-to-close log returns.
func logReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] <= 0 || closes[i] <= 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, math.Log(closes[i]/closes[i-1]))
	}
	return out
}

// ema computes the exponential moving average series with smoothing
// 2/(period+1), seeded with the SMA of the first period values.
func ema(values []float64, period int) []float64 {
	if len(values) < period {
		return nil
	}
	out := make([]float64, len(values))
	var seed float64
	for i := 0; i < period; i++ {
		seed += values[i]
	}
	seed /= float64(period)
	alpha := 2.0 / (float64(period) + 1)
	out[period-1] = seed
	for i := period; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	// Backfill the warm-up region so callers can index freely.
	for i := 0; i < period-1; i++ {
		out[i] = values[i]
	}
	return out
}

// rsi computes the latest Wilder RSI value.
func rsi(closes []float64, period int) (float64, error) {
	if len(closes) < period+1 {
		return 0, fmt.Errorf("rsi(%d): %w: %d closes", period, models.ErrInsufficientHistory, len(closes))
	}
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			avgGain += delta
		} else {
			avgLoss -= delta
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	for i := period + 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}
	if avgLoss == 0 {
		return 100, nil
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), nil
}

// adx computes the latest Wilder Average Directional Index value.
func adx(bars []models.Price, period int) (float64, error) {
	if len(bars) < 2*period+1 {
		return 0, fmt.Errorf("adx(%d): %w: %d bars", period, models.ErrInsufficientHistory, len(bars))
	}

	var trSmooth, plusSmooth, minusSmooth float64
	var dxValues []float64

	for i := 1; i < len(bars); i++ {
		h, l, pc := bars[i].High, bars[i].Low, bars[i-1].Close
		tr := math.Max(h-l, math.Max(math.Abs(h-pc), math.Abs(l-pc)))

		upMove := h - bars[i-1].High
		downMove := bars[i-1].Low - l
		plusDM, minusDM := 0.0, 0.0
		if upMove > downMove && upMove > 0 {
			plusDM = upMove
		}
		if downMove > upMove && downMove > 0 {
			minusDM = downMove
		}

		if i <= period {
			trSmooth += tr
			plusSmooth += plusDM
			minusSmooth += minusDM
			if i < period {
				continue
			}
		} else {
			trSmooth = trSmooth - trSmooth/float64(period) + tr
			plusSmooth = plusSmooth - plusSmooth/float64(period) + plusDM
			minusSmooth = minusSmooth - minusSmooth/float64(period) + minusDM
		}

		if trSmooth == 0 {
			dxValues = append(dxValues, 0)
			continue
		}
		plusDI := 100 * plusSmooth / trSmooth
		minusDI := 100 * minusSmooth / trSmooth
		if plusDI+minusDI == 0 {
			dxValues = append(dxValues, 0)
			continue
		}
		dxValues = append(dxValues, 100*math.Abs(plusDI-minusDI)/(plusDI+minusDI))
	}

	if len(dxValues) < period {
		return 0, fmt.Errorf("adx(%d): %w: %d dx values", period, models.ErrInsufficientHistory, len(dxValues))
	}
	// Wilder smoothing of DX into ADX.
	var adxVal float64
	for i := 0; i < period; i++ {
		adxVal += dxValues[i]
	}
	adxVal /= float64(period)
	for i := period; i < len(dxValues); i++ {
		adxVal = (adxVal*float64(period-1) + dxValues[i]) / float64(period)
	}
	return adxVal, nil
}

// meanStd returns the arithmetic mean and population-adjusted (n-1) standard
// deviation of values.
func meanStd(values []float64) (float64, float64) {
	n := float64(len(values))
	if n == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / n
	if n < 2 {
		return mean, 0
	}
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / (n - 1))
}

// zScore standardizes the last value against the rolling mean/stdev of the
// trailing window (window includes the last value).
func zScore(values []float64, window int) (float64, error) {
	if len(values) < window {
		return 0, fmt.Errorf("zscore(%d): %w: %d values", window, models.ErrInsufficientHistory, len(values))
	}
	tail := values[len(values)-window:]
	mean, std := meanStd(tail)
	if std == 0 {
		return 0, fmt.Errorf("zscore(%d): %w: zero dispersion", window, models.ErrUndefinedMetric)
	}
	return (values[len(values)-1] - mean) / std, nil
}

// annualizedVol computes the annualized standard deviation of the trailing
// window of daily returns.
func annualizedVol(returns []float64, window int) (float64, error) {
	if len(returns) < window {
		return 0, fmt.Errorf("vol(%d): %w: %d returns", window, models.ErrInsufficientHistory, len(returns))
	}
	_, std := meanStd(returns[len(returns)-window:])
	return std * math.Sqrt(tradingDaysPerYear), nil
}

// skewness computes the sample skewness of values.
func skewness(values []float64) float64 {
	mean, std := meanStd(values)
	if std == 0 || len(values) < 3 {
		return 0
	}
	var m3 float64
	for _, v := range values {
		d := (v - mean) / std
		m3 += d * d * d
	}
	return m3 / float64(len(values))
}
