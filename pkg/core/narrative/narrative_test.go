package narrative

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/core/analysis"
	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/core/llm"
	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/core/sentiment"
	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/models"
)

type fakeProvider struct {
	response string
	err      error
	lastReq  llm.Request
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Generate(_ context.Context, req llm.Request) (string, error) {
	f.lastReq = req
	return f.response, f.err
}

type fakeStore struct {
	saved *Narrative
	err   error
}

func (f *fakeStore) SaveNarrative(_ context.Context, n *Narrative) error {
	f.saved = n
	return f.err
}

func fixtureAnalysis() *analysis.TickerAnalysis {
	return &analysis.TickerAnalysis{
		Ticker:     "TEST",
		BizDate:    "2026-08-28",
		Signal:     models.SignalBullish,
		Confidence: 72,
		Sentiment: &sentiment.Result{
			Ticker:  "TEST",
			BizDate: "2026-08-28",
			Signal:  models.SignalBullish,
			Detail:  sentiment.Detail{NewsTotal: 3, NewsBullish: 2, NewsNeutral: 1},
		},
		Skipped: []analysis.AgentFailure{{Agent: "technical", Reason: "insufficient history"}},
	}
}

func TestGenerateRepairsSloppyModelOutput(t *testing.T) {
	// Fenced, single-quoted, trailing comma: the usual model output. The
	// cleanup and repair path must still produce the structured note.
	provider := &fakeProvider{response: "```\n" + `{
  'signal': 'bearish',
  'confidence': 10,
  'overall_score': 74,
  'reasoning': 'The composite leans bullish on valuation and sentiment.',
  'bullish_factors': ['undervalued on owner earnings',],
}` + "\n```"}

	f := NewFormatter(provider, Sophie, "test-model")
	n, err := f.Generate(context.Background(), fixtureAnalysis())
	if err != nil {
		t.Fatal(err)
	}

	// The model tried to flip the call; the stamped values win.
	if n.Signal != models.SignalBullish || n.Confidence != 72 {
		t.Fatalf("signal/confidence = %s/%v, want stamped bullish/72", n.Signal, n.Confidence)
	}
	if n.Ticker != "TEST" || n.BizDate != "2026-08-28" {
		t.Fatalf("identity = %s/%s", n.Ticker, n.BizDate)
	}
	if n.Persona != "sophie" || n.Model != "test-model" {
		t.Fatalf("persona/model = %s/%s", n.Persona, n.Model)
	}
	if n.OverallScore != 74 {
		t.Fatalf("overall score = %d, want 74", n.OverallScore)
	}
	if len(n.BullishFactors) != 1 {
		t.Fatalf("bullish factors = %v", n.BullishFactors)
	}
	if !provider.lastReq.JSONMode {
		t.Fatal("provider must be asked for JSON mode")
	}
}

func TestGenerateRejectsOutOfContractScore(t *testing.T) {
	provider := &fakeProvider{response: `{"signal":"bullish","confidence":50,"overall_score":0,"reasoning":"too timid"}`}
	f := NewFormatter(provider, Sophie, "")
	if _, err := f.Generate(context.Background(), fixtureAnalysis()); err == nil {
		t.Fatal("want validation error for overall_score 0")
	}
}

func TestGenerateProviderError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("quota exhausted")}
	f := NewFormatter(provider, Sophie, "")
	if _, err := f.Generate(context.Background(), fixtureAnalysis()); err == nil {
		t.Fatal("want provider error surfaced")
	}
}

func TestBuildPromptCarriesEvidence(t *testing.T) {
	prompt := BuildPrompt(fixtureAnalysis())
	for _, want := range []string{
		"Ticker: TEST",
		"Final signal: bullish (confidence 72)",
		"Sentiment: bullish",
		"Not available: technical (insufficient history)",
		`Keep signal "bullish" and confidence 72 exactly as given.`,
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestServicePersistsNarrative(t *testing.T) {
	provider := &fakeProvider{response: `{"signal":"bullish","confidence":72,"overall_score":81,"reasoning":"Valuation gap plus positive flow."}`}
	store := &fakeStore{}
	svc := NewService(NewFormatter(provider, Skeptic, "m"), store)

	if err := svc.Narrate(context.Background(), fixtureAnalysis()); err != nil {
		t.Fatal(err)
	}
	if store.saved == nil || store.saved.Persona != "skeptic" {
		t.Fatalf("saved = %+v", store.saved)
	}
}

func TestScoreBand(t *testing.T) {
	cases := map[int]string{
		1:   "strong sell",
		20:  "strong sell",
		21:  "sell",
		40:  "sell",
		41:  "hold",
		60:  "hold",
		61:  "buy",
		80:  "buy",
		81:  "strong buy",
		100: "strong buy",
	}
	for score, want := range cases {
		if got := ScoreBand(score); got != want {
			t.Fatalf("ScoreBand(%d) = %s, want %s", score, got, want)
		}
	}
}

func TestPersonaByNameFallsBack(t *testing.T) {
	if PersonaByName("skeptic").Name != "skeptic" {
		t.Fatal("skeptic lookup failed")
	}
	if PersonaByName("nobody").Name != "sophie" {
		t.Fatal("unknown persona must fall back to sophie")
	}
}
