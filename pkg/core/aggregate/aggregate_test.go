package aggregate

import (
	"math"
	"testing"

	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/models"
)

func TestCombineOppositeEqualSignals(t *testing.T) {
	// Equal weight, equal confidence, opposite direction: masses tie at 40,
	// so the result is neutral with confidence 40/80*100 = 50.
	out := Combine([]models.AgentSignal{
		{Source: "a", Signal: models.SignalBullish, Confidence: 80, Weight: 0.5},
		{Source: "b", Signal: models.SignalBearish, Confidence: 80, Weight: 0.5},
	})
	if out.Signal != models.SignalNeutral {
		t.Fatalf("expected neutral on tie, got %s", out.Signal)
	}
	if math.Abs(out.Confidence-50) > 1e-9 {
		t.Fatalf("expected confidence 50, got %f", out.Confidence)
	}
}

func TestCombineAllNeutral(t *testing.T) {
	out := Combine([]models.AgentSignal{
		{Source: "a", Signal: models.SignalNeutral, Confidence: 90, Weight: 0.5},
		{Source: "b", Signal: models.SignalNeutral, Confidence: 10, Weight: 0.5},
	})
	if out.Signal != models.SignalNeutral || out.Confidence != 0 {
		t.Fatalf("expected neutral/0 for all-neutral inputs, got %s/%f", out.Signal, out.Confidence)
	}
}

func TestCombineEmpty(t *testing.T) {
	out := Combine(nil)
	if out.Signal != models.SignalNeutral || out.Confidence != 0 {
		t.Fatalf("expected neutral/0 for no inputs, got %s/%f", out.Signal, out.Confidence)
	}
}

func TestCombineWeightedMajority(t *testing.T) {
	// bullish mass = 0.25*80 + 0.25*60 = 35, bearish = 0.20*50 = 10.
	// Confidence = 35/45*100 = 77.78.
	out := Combine([]models.AgentSignal{
		{Source: "trend", Signal: models.SignalBullish, Confidence: 80, Weight: 0.25},
		{Source: "momentum", Signal: models.SignalBullish, Confidence: 60, Weight: 0.25},
		{Source: "mean_reversion", Signal: models.SignalBearish, Confidence: 50, Weight: 0.20},
		{Source: "volatility", Signal: models.SignalNeutral, Confidence: 90, Weight: 0.15},
	})
	if out.Signal != models.SignalBullish {
		t.Fatalf("expected bullish, got %s", out.Signal)
	}
	want := 35.0 / 45.0 * 100
	if math.Abs(out.Confidence-want) > 1e-9 {
		t.Fatalf("expected confidence %f, got %f", want, out.Confidence)
	}
}

func TestCombineZeroWeightIgnored(t *testing.T) {
	// A zero-weight input contributes no mass regardless of confidence.
	out := Combine([]models.AgentSignal{
		{Source: "a", Signal: models.SignalBearish, Confidence: 100, Weight: 0},
		{Source: "b", Signal: models.SignalBullish, Confidence: 10, Weight: 0.1},
	})
	if out.Signal != models.SignalBullish {
		t.Fatalf("expected bullish, got %s", out.Signal)
	}
	if math.Abs(out.Confidence-100) > 1e-9 {
		t.Fatalf("expected confidence 100, got %f", out.Confidence)
	}
}
