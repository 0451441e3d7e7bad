// Package sentiment aggregates insider-transaction and news-sentiment records
// into one directional signal. Each record is a unit vote; insider trades
// carry weight 0.3 and news items 0.7, combined through the shared aggregator.
package sentiment

import (
	"fmt"

	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/core/aggregate"
	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/models"
)

const (
	insiderWeight = 0.3
	newsWeight    = 0.7
)

// Detail carries the per-source counts persisted alongside the signal.
type Detail struct {
	InsiderTotal        int     `json:"insider_total"`
	InsiderBullish      int     `json:"insider_bullish"`
	InsiderBearish      int     `json:"insider_bearish"`
	InsiderValueTotal   float64 `json:"insider_value_total"`
	InsiderValueBullish float64 `json:"insider_value_bullish"`
	InsiderValueBearish float64 `json:"insider_value_bearish"`
	InsiderWeight       float64 `json:"insider_weight"`
	NewsTotal           int     `json:"news_total"`
	NewsBullish         int     `json:"news_bullish"`
	NewsBearish         int     `json:"news_bearish"`
	NewsNeutral         int     `json:"news_neutral"`
	NewsWeight          float64 `json:"news_weight"`
}

// Result is the combined sentiment outcome for one ticker/date.
type Result struct {
	Ticker     string        `json:"ticker"`
	BizDate    string        `json:"biz_date"`
	Signal     models.Signal `json:"signal"`
	Confidence float64       `json:"confidence"`
	Detail     Detail        `json:"detail"`
}

// Analyze votes each record and combines the weighted masses. A sale
// (negative transaction shares) is bearish, a purchase bullish; news carries
// its provider label. No records at all produce a neutral result with zero
// confidence rather than an error: silence is not missing data here.
func Analyze(ticker, bizDate string, trades []models.InsiderTrade, news []models.NewsItem) *Result {
	res := &Result{
		Ticker:  ticker,
		BizDate: bizDate,
		Detail:  Detail{InsiderWeight: insiderWeight, NewsWeight: newsWeight},
	}

	var votes []models.AgentSignal
	for _, t := range trades {
		if t.TransactionShares == nil {
			continue
		}
		res.Detail.InsiderTotal++
		sig := models.SignalBullish
		if *t.TransactionShares < 0 {
			sig = models.SignalBearish
			res.Detail.InsiderBearish++
			if t.TransactionValue != nil {
				res.Detail.InsiderValueBearish -= *t.TransactionValue
			}
		} else {
			res.Detail.InsiderBullish++
			if t.TransactionValue != nil {
				res.Detail.InsiderValueBullish += *t.TransactionValue
			}
		}
		votes = append(votes, models.AgentSignal{Source: "insider", Signal: sig, Confidence: 100, Weight: insiderWeight})
	}
	res.Detail.InsiderValueTotal = res.Detail.InsiderValueBullish + res.Detail.InsiderValueBearish

	for _, n := range news {
		res.Detail.NewsTotal++
		var sig models.Signal
		switch n.Sentiment {
		case "negative":
			sig = models.SignalBearish
			res.Detail.NewsBearish++
		case "positive":
			sig = models.SignalBullish
			res.Detail.NewsBullish++
		default:
			sig = models.SignalNeutral
			res.Detail.NewsNeutral++
		}
		votes = append(votes, models.AgentSignal{Source: "news", Signal: sig, Confidence: 100, Weight: newsWeight})
	}

	combined := aggregate.Combine(votes)
	res.Signal = combined.Signal
	res.Confidence = combined.Confidence
	return res
}

// AgentSignal converts the result into the aggregator's universal unit.
func (r *Result) AgentSignal(weight float64) models.AgentSignal {
	return models.AgentSignal{
		Source:     "sentiment",
		Signal:     r.Signal,
		Confidence: r.Confidence,
		Weight:     weight,
		Reasoning: fmt.Sprintf("%d insider trades, %d news items", r.Detail.InsiderTotal, r.Detail.NewsTotal),
	}
}
