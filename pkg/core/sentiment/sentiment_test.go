package sentiment

import (
	"math"
	"testing"
	"time"

	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/models"
)

func trade(shares, value float64) models.InsiderTrade {
	return models.InsiderTrade{
		Ticker:            "TEST",
		FilingDate:        time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC),
		TransactionShares: models.Float(shares),
		TransactionValue:  models.Float(value),
	}
}

func newsItem(sentiment string) models.NewsItem {
	return models.NewsItem{Ticker: "TEST", Title: "headline", Sentiment: sentiment}
}

func TestAnalyzeNewsOutweighsInsiders(t *testing.T) {
	// Two insider buys against three negative stories: bullish mass
	// 2*0.3*100 = 60, bearish mass 3*0.7*100 = 210, so bearish with
	// confidence 210/270*100 = 77.78.
	trades := []models.InsiderTrade{trade(1000, 50000), trade(500, 25000)}
	news := []models.NewsItem{newsItem("negative"), newsItem("negative"), newsItem("negative")}

	res := Analyze("TEST", "2026-08-28", trades, news)
	if res.Signal != models.SignalBearish {
		t.Fatalf("signal = %s, want bearish", res.Signal)
	}
	if math.Abs(res.Confidence-77.7778) > 0.001 {
		t.Fatalf("confidence = %v, want 77.7778", res.Confidence)
	}
	if res.Detail.InsiderBullish != 2 || res.Detail.NewsBearish != 3 {
		t.Fatalf("detail counts = %+v", res.Detail)
	}
}

func TestAnalyzeInsiderCountsAndValues(t *testing.T) {
	// A sale files with negative shares and value; the bearish value
	// column stores its magnitude.
	trades := []models.InsiderTrade{trade(1000, 60000), trade(-2000, -120000)}
	res := Analyze("TEST", "2026-08-28", trades, nil)

	d := res.Detail
	if d.InsiderTotal != 2 || d.InsiderBullish != 1 || d.InsiderBearish != 1 {
		t.Fatalf("counts = %+v", d)
	}
	if d.InsiderValueBullish != 60000 || d.InsiderValueBearish != 120000 {
		t.Fatalf("values = %+v", d)
	}
	if d.InsiderValueTotal != 180000 {
		t.Fatalf("value total = %v, want 180000", d.InsiderValueTotal)
	}
	// One buy vote against one sale vote at equal weight ties neutral.
	if res.Signal != models.SignalNeutral {
		t.Fatalf("signal = %s, want neutral on a tie", res.Signal)
	}
}

func TestAnalyzeSkipsTradesWithoutShares(t *testing.T) {
	trades := []models.InsiderTrade{
		{Ticker: "TEST", FilingDate: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)},
		trade(100, 5000),
	}
	res := Analyze("TEST", "2026-08-28", trades, nil)
	if res.Detail.InsiderTotal != 1 {
		t.Fatalf("insider total = %d, want 1, shareless trade must be skipped", res.Detail.InsiderTotal)
	}
	if res.Signal != models.SignalBullish {
		t.Fatalf("signal = %s, want bullish", res.Signal)
	}
}

func TestAnalyzeUnknownNewsSentimentIsNeutralVote(t *testing.T) {
	// One positive story plus one unrecognized label: the unknown vote is
	// counted neutral but carries no directional mass, so the lone
	// positive story still reads bullish at full confidence.
	news := []models.NewsItem{newsItem("positive"), newsItem("mixed")}
	res := Analyze("TEST", "2026-08-28", nil, news)
	if res.Signal != models.SignalBullish {
		t.Fatalf("signal = %s, want bullish", res.Signal)
	}
	if math.Abs(res.Confidence-100) > 1e-9 {
		t.Fatalf("confidence = %v, want 100", res.Confidence)
	}
	if res.Detail.NewsNeutral != 1 {
		t.Fatalf("news neutral = %d, want 1", res.Detail.NewsNeutral)
	}
}

func TestAnalyzeNoRecords(t *testing.T) {
	res := Analyze("TEST", "2026-08-28", nil, nil)
	if res.Signal != models.SignalNeutral || res.Confidence != 0 {
		t.Fatalf("empty inputs: signal = %s confidence = %v, want neutral/0", res.Signal, res.Confidence)
	}
}

func TestAgentSignalCarriesWeight(t *testing.T) {
	res := Analyze("TEST", "2026-08-28", nil, []models.NewsItem{newsItem("positive")})
	sig := res.AgentSignal(0.15)
	if sig.Source != "sentiment" || sig.Weight != 0.15 {
		t.Fatalf("agent signal = %+v", sig)
	}
	if sig.Signal != models.SignalBullish || sig.Confidence != 100 {
		t.Fatalf("agent signal = %+v", sig)
	}
}
