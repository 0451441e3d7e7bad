package narrative

import (
	"context"
	"fmt"
	"strings"

	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/core/analysis"
	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/core/llm"
	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/core/utils"
)

const outputSchema = `{
  "signal": "bullish|bearish|neutral",
  "confidence": 0-100,
  "overall_score": 1-100,
  "reasoning": "2-4 paragraph synthesis",
  "time_horizon_analysis": {"short_term": "...", "medium_term": "...", "long_term": "..."},
  "bullish_factors": ["..."],
  "bearish_factors": ["..."],
  "risks": ["..."]
}`

// Formatter renders one analysis into a persona narrative.
type Formatter struct {
	provider llm.Provider
	persona  Persona
	model    string
}

// NewFormatter builds a formatter for one provider/persona pair. An empty
// model uses the provider's default.
func NewFormatter(provider llm.Provider, persona Persona, model string) *Formatter {
	return &Formatter{provider: provider, persona: persona, model: model}
}

// Generate asks the model for the structured note and parses it. The numeric
// signal and confidence are stamped from the analysis afterwards, so a model
// that drifts cannot change the pipeline's answer.
func (f *Formatter) Generate(ctx context.Context, a *analysis.TickerAnalysis) (*Narrative, error) {
	raw, err := f.provider.Generate(ctx, llm.Request{
		System:   f.persona.System,
		Prompt:   BuildPrompt(a),
		Model:    f.model,
		JSONMode: true,
	})
	if err != nil {
		return nil, fmt.Errorf("narrative generation for %s: %w", a.Ticker, err)
	}

	var n Narrative
	if _, err := utils.ParseJSON(utils.CleanMarkdown(raw), &n); err != nil {
		return nil, fmt.Errorf("narrative parse for %s: %w", a.Ticker, err)
	}

	n.Ticker = a.Ticker
	n.BizDate = a.BizDate
	n.Signal = a.Signal
	n.Confidence = a.Confidence
	n.Persona = f.persona.Name
	n.Model = f.model
	if err := n.Validate(); err != nil {
		return nil, fmt.Errorf("narrative validation for %s: %w", a.Ticker, err)
	}
	if !utils.ValidateMarkdown(n.Reasoning) {
		return nil, fmt.Errorf("narrative reasoning for %s is not renderable markdown", a.Ticker)
	}
	return &n, nil
}

// BuildPrompt flattens the analysis into the evidence block the persona
// comments on. Only finished numbers go in; raw inputs stay out.
func BuildPrompt(a *analysis.TickerAnalysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ticker: %s\nDate: %s\nFinal signal: %s (confidence %.0f)\n\n",
		a.Ticker, a.BizDate, a.Signal, a.Confidence)

	if v := a.Valuation; v != nil {
		fmt.Fprintf(&b, "Valuation composite: %s, weighted gap %+.1f%%, confidence %.0f\n",
			v.Signal, v.WeightedGap*100, v.Confidence)
		for _, m := range v.Methods {
			fmt.Fprintf(&b, "  %s: intrinsic %.0f vs market cap %.0f, gap %+.1f%% (%s)\n",
				m.Method, m.IntrinsicValue, m.MarketCap, m.Gap*100, m.Signal)
		}
		for _, m := range v.Unavailable {
			fmt.Fprintf(&b, "  %s: unavailable (%s)\n", m.Method, m.Reason)
		}
		b.WriteString("\n")
	}

	if t := a.Technical; t != nil {
		fmt.Fprintf(&b, "Technical ensemble: %s, confidence %.0f\n", t.Signal, t.Confidence)
		for _, s := range t.Strategies {
			fmt.Fprintf(&b, "  %s: %s (confidence %.0f)\n", s.Strategy, s.Signal, s.Confidence)
		}
		b.WriteString("\n")
	}

	if len(a.Scores) > 0 {
		b.WriteString("Philosophy scorecards:\n")
		for _, s := range a.Scores {
			fmt.Fprintf(&b, "  %s: %d/%d -> %s (confidence %.0f)\n",
				s.Strategy, s.Score, s.MaxScore, s.Signal, s.Confidence)
		}
		b.WriteString("\n")
	}

	if s := a.Sentiment; s != nil {
		fmt.Fprintf(&b, "Sentiment: %s, confidence %.0f (%d insider trades: %d buys / %d sells; %d news: %d pos / %d neg / %d neutral)\n\n",
			s.Signal, s.Confidence,
			s.Detail.InsiderTotal, s.Detail.InsiderBullish, s.Detail.InsiderBearish,
			s.Detail.NewsTotal, s.Detail.NewsBullish, s.Detail.NewsBearish, s.Detail.NewsNeutral)
	}

	for _, sk := range a.Skipped {
		fmt.Fprintf(&b, "Not available: %s (%s)\n", sk.Agent, sk.Reason)
	}

	fmt.Fprintf(&b, "\nWrite your note as JSON with this shape:\n%s\n", outputSchema)
	fmt.Fprintf(&b, "Keep signal %q and confidence %.0f exactly as given.\n", a.Signal, a.Confidence)
	return b.String()
}
