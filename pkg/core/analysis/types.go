package analysis

import (
	"time"

	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/core/scorer"
	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/core/sentiment"
	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/core/technical"
	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/core/valuation"
	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/models"
)

// Inputs is everything the engine needs for one ticker on one business date.
// All fields are plain data; providers assemble them upstream.
type Inputs struct {
	Ticker           string
	BizDate          string
	Periods          []models.FinancialPeriod
	Prices           models.PriceSeries
	MarketCap        *float64
	TrailingEVEBITDA []float64
	InsiderTrades    []models.InsiderTrade
	News             []models.NewsItem
	ValuationParams  valuation.Params
}

// TickerAnalysis is the finished per-ticker result: the final composite
// signal plus every intermediate outcome, kept for persistence and narrative.
type TickerAnalysis struct {
	Ticker     string                    `json:"ticker"`
	BizDate    string                    `json:"biz_date"`
	Signal     models.Signal             `json:"signal"`
	Confidence float64                   `json:"confidence"`
	AnalyzedAt time.Time                 `json:"analyzed_at"`
	Snapshot   *models.FinancialSnapshot `json:"-"`
	Valuation  *valuation.Composite      `json:"valuation,omitempty"`
	Technical  *technical.Ensemble       `json:"technical,omitempty"`
	Scores     []*scorer.ScoreResult     `json:"scores,omitempty"`
	Sentiment  *sentiment.Result         `json:"sentiment,omitempty"`

	// Contributing lists the agent signals that actually entered the
	// composite, in evaluation order. Failed agents are in Skipped.
	Contributing []models.AgentSignal `json:"contributing"`
	Skipped      []AgentFailure       `json:"skipped,omitempty"`
}

// AgentFailure records an agent that produced no usable signal.
type AgentFailure struct {
	Agent  string `json:"agent"`
	Reason string `json:"reason"`
}
