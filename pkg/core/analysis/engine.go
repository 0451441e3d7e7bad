// Package analysis runs every research agent for one ticker and joins their
// outputs at a synchronization barrier before the final aggregation. The
// agents are independent pure functions, so they fan out concurrently; the
// aggregator only ever sees the full set of survivors.
package analysis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/core/aggregate"
	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/core/metrics"
	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/core/scorer"
	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/core/sentiment"
	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/core/technical"
	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/core/valuation"
	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/models"
)

// Agent weights for the final composite. Scorers share the fundamentals
// budget equally so adding a checklist never dilutes the other agents.
const (
	valuationAgentWeight    = 0.30
	technicalAgentWeight    = 0.25
	fundamentalsAgentWeight = 0.30
	sentimentAgentWeight    = 0.15
)

const metricWindow = 5

// Engine evaluates one ticker at a time. It is safe for concurrent use.
type Engine struct {
	checklists []scorer.Checklist
}

// NewEngine builds an engine over the given checklists. A nil slice falls
// back to the built-in set.
func NewEngine(checklists []scorer.Checklist) *Engine {
	if checklists == nil {
		checklists = scorer.DefaultChecklists()
	}
	return &Engine{checklists: checklists}
}

// Analyze runs valuation, technicals, the scorers and sentiment for one
// ticker, then combines whatever survived. Agents that fail are recorded in
// Skipped and excluded from the composite; Analyze itself errors only when
// metric extraction is impossible or every agent failed.
func (e *Engine) Analyze(ctx context.Context, in Inputs) (*TickerAnalysis, error) {
	snap, err := metrics.Snapshot(in.Periods, metricWindow, in.MarketCap)
	if err != nil {
		return nil, fmt.Errorf("extract metrics for %s: %w", in.Ticker, err)
	}
	mset := snap.Metrics

	res := &TickerAnalysis{
		Ticker:     in.Ticker,
		BizDate:    in.BizDate,
		AnalyzedAt: time.Now().UTC(),
		Snapshot:   snap,
	}

	var mu sync.Mutex
	skip := func(agent string, err error) {
		mu.Lock()
		res.Skipped = append(res.Skipped, AgentFailure{Agent: agent, Reason: err.Error()})
		mu.Unlock()
	}

	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		var marketCap float64
		if in.MarketCap != nil {
			marketCap = *in.MarketCap
		}
		comp, err := valuation.RunAll(valuation.Inputs{
			Ticker:           in.Ticker,
			BizDate:          in.BizDate,
			Periods:          in.Periods,
			Metrics:          mset,
			MarketCap:        marketCap,
			TrailingEVEBITDA: in.TrailingEVEBITDA,
			Params:           in.ValuationParams,
		})
		if err != nil {
			skip("valuation", err)
			return nil
		}
		mu.Lock()
		res.Valuation = comp
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		ens, err := technical.Analyze(in.Prices, in.BizDate)
		if err != nil {
			skip("technical", err)
			return nil
		}
		mu.Lock()
		res.Technical = ens
		mu.Unlock()
		return nil
	})

	for _, cl := range e.checklists {
		cl := cl
		g.Go(func() error {
			sc, err := scorer.Evaluate(cl, mset)
			if err != nil {
				skip("scorer/"+cl.Name, err)
				return nil
			}
			mu.Lock()
			res.Scores = append(res.Scores, sc)
			mu.Unlock()
			return nil
		})
	}

	g.Go(func() error {
		res.Sentiment = sentiment.Analyze(in.Ticker, in.BizDate, in.InsiderTrades, in.News)
		return nil
	})

	g.Wait()

	res.Contributing = e.collect(res)
	if len(res.Contributing) == 0 {
		return nil, fmt.Errorf("analyze %s: %w", in.Ticker, models.ErrInsufficientData)
	}
	combined := aggregate.Combine(res.Contributing)
	res.Signal = combined.Signal
	res.Confidence = combined.Confidence
	return res, nil
}

// collect turns the surviving agent outputs into aggregator inputs in a
// stable order: valuation, technical, scorers (checklist order), sentiment.
func (e *Engine) collect(res *TickerAnalysis) []models.AgentSignal {
	var sigs []models.AgentSignal
	if res.Valuation != nil {
		sigs = append(sigs, res.Valuation.AgentSignal(valuationAgentWeight))
	}
	if res.Technical != nil {
		sigs = append(sigs, res.Technical.AgentSignal(technicalAgentWeight))
	}
	if len(res.Scores) > 0 {
		// Restore checklist order; errgroup completion order is arbitrary.
		byName := make(map[string]*scorer.ScoreResult, len(res.Scores))
		for _, sc := range res.Scores {
			byName[sc.Strategy] = sc
		}
		ordered := res.Scores[:0]
		w := fundamentalsAgentWeight / float64(len(res.Scores))
		for _, cl := range e.checklists {
			if sc, ok := byName[cl.Name]; ok {
				ordered = append(ordered, sc)
				sigs = append(sigs, sc.AgentSignal(w))
			}
		}
		res.Scores = ordered
	}
	if res.Sentiment != nil {
		sigs = append(sigs, res.Sentiment.AgentSignal(sentimentAgentWeight))
	}
	return sigs
}
