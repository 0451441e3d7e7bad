// Package aggregate implements the single shared algorithm that combines
// weighted directional signals into one decision. Valuation methods, technical
// strategies and sentiment sources all flow through Combine; callers differ
// only in which AgentSignal list and weights they supply.
package aggregate

import "github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/models"

// Combine computes the weighted signal masses and discretizes the result.
//
//	bullish_mass = sum(weight_i * confidence_i) over bullish inputs
//	bearish_mass = symmetric
//
// Final signal is the heavier side, neutral on an exact tie or when both
// masses are zero. Confidence = max(mass) / (bullish + bearish) * 100, defined
// as 0 when both masses are zero (all inputs neutral or undefined).
func Combine(inputs []models.AgentSignal) models.AggregateSignal {
	var bullish, bearish float64
	for _, in := range inputs {
		mass := in.Weight * in.Confidence
		switch in.Signal {
		case models.SignalBullish:
			bullish += mass
		case models.SignalBearish:
			bearish += mass
		}
	}

	out := models.AggregateSignal{
		Signal:       models.SignalNeutral,
		Contributing: inputs,
	}

	total := bullish + bearish
	if total == 0 {
		return out
	}

	switch {
	case bullish > bearish:
		out.Signal = models.SignalBullish
	case bearish > bullish:
		out.Signal = models.SignalBearish
	}
	out.Confidence = models.ClampConfidence(max(bullish, bearish) / total * 100)
	return out
}
