// Package scorer implements the rule-based philosophy scorers. A philosophy
// is data, not behavior: a checklist of threshold tests over the extracted
// metric set, each worth a fixed number of points. One engine evaluates every
// checklist; philosophies differ only in their table contents.
package scorer

import (
	"fmt"

	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/models"
)

// Comparators for checklist rules.
const (
	OpGreater      = ">"
	OpGreaterEqual = ">="
	OpLess         = "<"
	OpLessEqual    = "<="
	OpBetween      = "between"
)

// Signal thresholds on the score ratio, the canonical discretization rule:
// inclusive at both boundaries.
const (
	bullishRatio = 0.70
	bearishRatio = 0.30
)

// Rule is one checklist row: award Points when the named metric satisfies the
// comparison. An undefined metric awards zero points, never a penalty.
type Rule struct {
	Metric    string  `json:"metric"`
	Op        string  `json:"op"`
	Threshold float64 `json:"threshold"`
	Upper     float64 `json:"upper,omitempty"` // used by between
	Points    int     `json:"points"`
	Label     string  `json:"label,omitempty"`
}

// Checklist is a philosophy's full rule table.
type Checklist struct {
	Name  string `json:"name"`
	Rules []Rule `json:"rules"`
}

// MaxScore is the sum of all rule points.
func (c Checklist) MaxScore() int {
	total := 0
	for _, r := range c.Rules {
		total += r.Points
	}
	return total
}

// RuleOutcome records one evaluated rule for the details trail.
type RuleOutcome struct {
	Rule    Rule     `json:"rule"`
	Value   *float64 `json:"value,omitempty"` // nil when the metric was undefined
	Awarded int      `json:"awarded"`
}

// ScoreResult is the scorer's outcome for one ticker/date.
type ScoreResult struct {
	Strategy   string        `json:"strategy"`
	Score      int           `json:"score"`
	MaxScore   int           `json:"max_score"`
	Signal     models.Signal `json:"signal"`
	Confidence float64       `json:"confidence"`
	Details    []RuleOutcome `json:"details"`
}

// Evaluate runs the checklist against the metric set. Rules are independent;
// the score is their sum. When no rule saw a defined metric the result is
// ErrInsufficientData: an all-missing ticker is a "no data" outcome excluded
// from aggregation, not a bearish zero.
func Evaluate(c Checklist, metrics models.MetricSet) (*ScoreResult, error) {
	maxScore := c.MaxScore()
	if maxScore == 0 {
		return nil, fmt.Errorf("scorer %s: empty checklist", c.Name)
	}

	res := &ScoreResult{Strategy: c.Name, MaxScore: maxScore}
	defined := 0
	for _, rule := range c.Rules {
		outcome := RuleOutcome{Rule: rule}
		if v, ok := metrics.Get(rule.Metric); ok {
			defined++
			value := v
			outcome.Value = &value
			if satisfies(rule, v) {
				outcome.Awarded = rule.Points
				res.Score += rule.Points
			}
		}
		res.Details = append(res.Details, outcome)
	}

	if defined == 0 {
		return nil, fmt.Errorf("scorer %s: %w: every metric undefined", c.Name, models.ErrInsufficientData)
	}

	ratio := float64(res.Score) / float64(maxScore)
	res.Signal = signalFromRatio(ratio)
	// Distance from the 50% midpoint, scaled so a perfect or zero score is 100.
	res.Confidence = models.ClampConfidence(abs(ratio-0.5) * 200)
	return res, nil
}

// signalFromRatio applies the canonical 70/30 discretization, inclusive at
// both boundaries.
func signalFromRatio(ratio float64) models.Signal {
	switch {
	case ratio >= bullishRatio:
		return models.SignalBullish
	case ratio <= bearishRatio:
		return models.SignalBearish
	default:
		return models.SignalNeutral
	}
}

func satisfies(r Rule, v float64) bool {
	switch r.Op {
	case OpGreater:
		return v > r.Threshold
	case OpGreaterEqual:
		return v >= r.Threshold
	case OpLess:
		return v < r.Threshold
	case OpLessEqual:
		return v <= r.Threshold
	case OpBetween:
		return v >= r.Threshold && v <= r.Upper
	default:
		return false
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// AgentSignal converts a score into the aggregator's universal unit.
func (r *ScoreResult) AgentSignal(weight float64) models.AgentSignal {
	return models.AgentSignal{
		Source:     r.Strategy,
		Signal:     r.Signal,
		Confidence: r.Confidence,
		Weight:     weight,
		Reasoning:  fmt.Sprintf("%s scored %d/%d", r.Strategy, r.Score, r.MaxScore),
	}
}
