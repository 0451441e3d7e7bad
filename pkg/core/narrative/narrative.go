// Package narrative turns a finished ticker analysis into persona-styled
// research prose. Generation is strictly one-way: nothing produced here ever
// feeds back into the numeric pipeline.
package narrative

import (
	"fmt"

	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/models"
)

// TimeHorizon splits the outlook into the three horizons the persona
// comments on.
type TimeHorizon struct {
	ShortTerm  string `json:"short_term"`
	MediumTerm string `json:"medium_term"`
	LongTerm   string `json:"long_term"`
}

// Narrative is the structured output contract the model must satisfy.
type Narrative struct {
	Ticker         string        `json:"ticker"`
	BizDate        string        `json:"biz_date"`
	Signal         models.Signal `json:"signal"`
	Confidence     float64       `json:"confidence"`
	OverallScore   int           `json:"overall_score"`
	Reasoning      string        `json:"reasoning"`
	TimeHorizon    TimeHorizon   `json:"time_horizon_analysis"`
	BullishFactors []string      `json:"bullish_factors"`
	BearishFactors []string      `json:"bearish_factors"`
	Risks          []string      `json:"risks"`
	Persona        string        `json:"persona"`
	Model          string        `json:"model"`
}

// Validate checks the parsed payload against the output contract.
func (n *Narrative) Validate() error {
	switch n.Signal {
	case models.SignalBullish, models.SignalBearish, models.SignalNeutral:
	default:
		return fmt.Errorf("narrative signal %q is not a valid signal", n.Signal)
	}
	if n.Confidence < 0 || n.Confidence > 100 {
		return fmt.Errorf("narrative confidence %.1f outside [0,100]", n.Confidence)
	}
	if n.OverallScore < 1 || n.OverallScore > 100 {
		return fmt.Errorf("narrative overall score %d outside [1,100]", n.OverallScore)
	}
	if n.Reasoning == "" {
		return fmt.Errorf("narrative reasoning is empty")
	}
	return nil
}

// ScoreBand maps an overall score to its rating label.
func ScoreBand(score int) string {
	switch {
	case score <= 20:
		return "strong sell"
	case score <= 40:
		return "sell"
	case score <= 60:
		return "hold"
	case score <= 80:
		return "buy"
	default:
		return "strong buy"
	}
}
