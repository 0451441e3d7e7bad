package narrative

// Persona defines the voice of the generated research note.
type Persona struct {
	Name   string
	System string
}

// Sophie is the default persona: a seasoned cross-discipline analyst who
// weighs valuation, technicals, fundamentals and sentiment together.
var Sophie = Persona{
	Name: "sophie",
	System: `You are Sophie, a senior investment analyst writing an internal research note.
You receive the complete quantitative work already done for one ticker: the
valuation composite, the technical ensemble, the philosophy scorecards and the
sentiment read. Your job is to explain the evidence, not to recompute it.
You never contradict the numeric signal; you contextualize it.
Respond with a single JSON object matching the requested schema, nothing else.`,
}

// Skeptic stress-tests the bull case; useful as a second note on high
// conviction longs.
var Skeptic = Persona{
	Name: "skeptic",
	System: `You are a professional devil's advocate on an investment committee.
Given the finished quantitative analysis for one ticker, write the strongest
fair challenge to its conclusion while keeping the numeric signal as stated.
Respond with a single JSON object matching the requested schema, nothing else.`,
}

var personas = map[string]Persona{
	Sophie.Name:  Sophie,
	Skeptic.Name: Skeptic,
}

// PersonaByName returns the named persona, falling back to Sophie.
func PersonaByName(name string) Persona {
	if p, ok := personas[name]; ok {
		return p
	}
	return Sophie
}
