package models

// Signal is the discretized directional output of every method, strategy and scorer.
type Signal string

const (
	SignalBullish Signal = "bullish"
	SignalBearish Signal = "bearish"
	SignalNeutral Signal = "neutral"
)

// AgentSignal is the universal unit the aggregator consumes: a direction, a
// confidence in [0,100] and a weight in [0,1]. Reasoning is carried verbatim
// into persistence and the narrative layer.
type AgentSignal struct {
	Source     string  `json:"source"`
	Signal     Signal  `json:"signal"`
	Confidence float64 `json:"confidence"` // 0-100
	Weight     float64 `json:"weight"`     // 0-1
	Reasoning  string  `json:"reasoning,omitempty"`
}

// AggregateSignal is the output of the shared aggregation algorithm.
type AggregateSignal struct {
	Signal       Signal        `json:"signal"`
	Confidence   float64       `json:"confidence"` // 0-100
	Contributing []AgentSignal `json:"contributing"`
}

// ClampConfidence bounds a confidence value to [0,100].
func ClampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}
