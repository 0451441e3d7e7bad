package valuation

import (
	"fmt"

	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/models"
)

// Fixed method weights for the composite valuation agent.
var methodWeights = map[string]float64{
	MethodOwnerEarnings:  0.35,
	MethodDCF:            0.35,
	MethodEVEBITDA:       0.20,
	MethodResidualIncome: 0.10,
}

// MethodFailure records why a method was unavailable for this ticker/date.
// The absence is explicit in the output, never hidden behind a fabricated
// neutral result.
type MethodFailure struct {
	Method string `json:"method"`
	Reason string `json:"reason"`
}

// Composite is the valuation agent's combined outcome: a weighted-average gap
// over the methods that produced a defined result.
type Composite struct {
	Ticker      string          `json:"ticker"`
	BizDate     string          `json:"biz_date"`
	WeightedGap float64         `json:"weighted_gap"`
	Signal      models.Signal   `json:"signal"`
	Confidence  float64         `json:"confidence"`
	Methods     []Result        `json:"methods"`
	Unavailable []MethodFailure `json:"unavailable,omitempty"`
}

// RunAll executes the four methods and blends their gaps. Weights are
// renormalized over the defined subset: an unavailable method is excluded from
// both the numerator and the weight-sum denominator, never treated as a zero
// gap. All methods unavailable yields ErrInsufficientData.
func RunAll(in Inputs) (*Composite, error) {
	type method struct {
		name string
		run  func(Inputs) (*Result, error)
	}
	methods := []method{
		{MethodDCF, DCF},
		{MethodOwnerEarnings, OwnerEarnings},
		{MethodEVEBITDA, EVEBITDA},
		{MethodResidualIncome, ResidualIncome},
	}

	comp := &Composite{Ticker: in.Ticker, BizDate: in.BizDate}
	var gapSum, weightSum float64
	for _, m := range methods {
		res, err := m.run(in)
		if err != nil {
			comp.Unavailable = append(comp.Unavailable, MethodFailure{Method: m.name, Reason: err.Error()})
			continue
		}
		comp.Methods = append(comp.Methods, *res)
		w := methodWeights[m.name]
		gapSum += res.Gap * w
		weightSum += w
	}

	if weightSum == 0 {
		return nil, fmt.Errorf("valuation composite for %s: %w: all methods unavailable", in.Ticker, models.ErrInsufficientData)
	}

	comp.WeightedGap = gapSum / weightSum
	comp.Signal = signalFromGap(comp.WeightedGap, gapThreshold)
	comp.Confidence = confidenceFromGap(comp.WeightedGap)
	return comp, nil
}

// AgentSignal converts the composite into the aggregator's universal unit.
func (c *Composite) AgentSignal(weight float64) models.AgentSignal {
	return models.AgentSignal{
		Source:     "valuation",
		Signal:     c.Signal,
		Confidence: c.Confidence,
		Weight:     weight,
		Reasoning:  fmt.Sprintf("weighted valuation gap %.1f%% across %d methods", c.WeightedGap*100, len(c.Methods)),
	}
}
