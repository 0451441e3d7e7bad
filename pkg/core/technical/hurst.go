package technical

import (
	"fmt"
	"math"

	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/models"
)

// Rescaled-range window bounds. Window sizes are spaced logarithmically
// between them; the Hurst exponent is the slope of log(R/S) on log(size).
const (
	hurstMinWindow = 10
	hurstMaxWindow = 100
	hurstWindows   = 8
)

// hurstExponent estimates the Hurst exponent of a price series via
// rescaled-range analysis over log-spaced window sizes. H < 0.5 indicates
// mean reversion, H > 0.5 a trending series, H ~ 0.5 a random walk.
// Requires at least hurstMaxWindow return observations.
func hurstExponent(closes []float64) (float64, error) {
	rets := logReturns(closes)
	if len(rets) < hurstMaxWindow {
		return 0, fmt.Errorf("hurst: %w: %d returns, need %d", models.ErrInsufficientHistory, len(rets), hurstMaxWindow)
	}

	var logSizes, logRS []float64
	ratio := math.Pow(float64(hurstMaxWindow)/float64(hurstMinWindow), 1/float64(hurstWindows-1))
	prev := 0
	for i := 0; i < hurstWindows; i++ {
		size := int(math.Round(float64(hurstMinWindow) * math.Pow(ratio, float64(i))))
		if size <= prev {
			size = prev + 1
		}
		prev = size
		rs, ok := rescaledRange(rets, size)
		if !ok {
			continue
		}
		logSizes = append(logSizes, math.Log(float64(size)))
		logRS = append(logRS, math.Log(rs))
	}

	if len(logSizes) < 2 {
		return 0, fmt.Errorf("hurst: %w: degenerate rescaled ranges", models.ErrUndefinedMetric)
	}
	return slope(logSizes, logRS), nil
}

// rescaledRange computes the mean R/S statistic over all full contiguous
// blocks of the given size.
func rescaledRange(rets []float64, size int) (float64, bool) {
	blocks := len(rets) / size
	if blocks == 0 {
		return 0, false
	}
	var sum float64
	var count int
	for b := 0; b < blocks; b++ {
		block := rets[b*size : (b+1)*size]
		mean, std := meanStd(block)
		if std == 0 {
			continue
		}
		var cum, maxDev, minDev float64
		for _, r := range block {
			cum += r - mean
			if cum > maxDev {
				maxDev = cum
			}
			if cum < minDev {
				minDev = cum
			}
		}
		r := maxDev - minDev
		if r <= 0 {
			continue
		}
		sum += r / std
		count++
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// slope is the least-squares slope of y on x.
func slope(x, y []float64) float64 {
	n := float64(len(x))
	var sx, sy, sxx, sxy float64
	for i := range x {
		sx += x[i]
		sy += y[i]
		sxx += x[i] * x[i]
		sxy += x[i] * y[i]
	}
	denom := n*sxx - sx*sx
	if denom == 0 {
		return 0
	}
	return (n*sxy - sx*sy) / denom
}
