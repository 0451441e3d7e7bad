// Package pipeline manages the end-to-end batch flow:
// providers -> per-ticker analysis engine -> persistence -> narrative.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/core/analysis"
	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/core/valuation"
	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/models"
)

// FinancialsProvider supplies reported fundamentals for a ticker.
// Implementations may hit a data vendor, a local cache, or test fixtures.
type FinancialsProvider interface {
	Financials(ctx context.Context, ticker, bizDate string) ([]models.FinancialPeriod, error)
	MarketCap(ctx context.Context, ticker, bizDate string) (*float64, error)
	TrailingEVEBITDA(ctx context.Context, ticker, bizDate string) ([]float64, error)
}

// PriceProvider supplies the daily price history for a ticker.
type PriceProvider interface {
	Prices(ctx context.Context, ticker, bizDate string) (models.PriceSeries, error)
}

// SentimentProvider supplies insider transactions and labelled news.
type SentimentProvider interface {
	InsiderTrades(ctx context.Context, ticker, bizDate string) ([]models.InsiderTrade, error)
	News(ctx context.Context, ticker, bizDate string) ([]models.NewsItem, error)
}

// Repository persists a finished analysis. Implementations upsert, so
// recomputing a (ticker, biz_date) pair replaces rather than duplicates.
type Repository interface {
	SaveAnalysis(ctx context.Context, a *analysis.TickerAnalysis) error
}

// Narrator renders and stores the persona narrative for a finished analysis.
// It is strictly one-way: it never feeds anything back into the numbers.
type Narrator interface {
	Narrate(ctx context.Context, a *analysis.TickerAnalysis) error
}

// Orchestrator fans the analysis engine out over a ticker universe.
type Orchestrator struct {
	financials FinancialsProvider
	prices     PriceProvider
	sentiment  SentimentProvider
	repo       Repository
	narrator   Narrator
	engine     *analysis.Engine
	valuation  valuation.Params
	workers    int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithNarrator attaches a narrative generator. Without one the pipeline
// stays purely numeric.
func WithNarrator(n Narrator) Option {
	return func(o *Orchestrator) { o.narrator = n }
}

// WithWorkers bounds the per-ticker concurrency. Values below 1 mean serial.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) { o.workers = n }
}

// WithEngine replaces the default analysis engine (custom checklists).
func WithEngine(e *analysis.Engine) Option {
	return func(o *Orchestrator) { o.engine = e }
}

// WithValuationParams overrides the valuation defaults for every ticker.
func WithValuationParams(p valuation.Params) Option {
	return func(o *Orchestrator) { o.valuation = p }
}

// NewOrchestrator wires providers, repository and engine together.
func NewOrchestrator(f FinancialsProvider, p PriceProvider, s SentimentProvider, repo Repository, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		financials: f,
		prices:     p,
		sentiment:  s,
		repo:       repo,
		engine:     analysis.NewEngine(nil),
		workers:    4,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.workers < 1 {
		o.workers = 1
	}
	return o
}

// RunSummary reports one batch run.
type RunSummary struct {
	RunID     string
	BizDate   string
	Started   time.Time
	Elapsed   time.Duration
	Analyzed  []*analysis.TickerAnalysis
	Failed    map[string]error
}

// Run analyzes every ticker for one business date. A ticker whose providers
// or analysis fail is logged and recorded in Failed; it never aborts the
// batch. Run errors only when the context dies or every ticker failed.
func (o *Orchestrator) Run(ctx context.Context, tickers []string, bizDate string) (*RunSummary, error) {
	sum := &RunSummary{
		RunID:   uuid.NewString(),
		BizDate: bizDate,
		Started: time.Now().UTC(),
		Failed:  make(map[string]error),
	}
	log.Info().Str("run_id", sum.RunID).Str("biz_date", bizDate).
		Int("tickers", len(tickers)).Int("workers", o.workers).Msg("pipeline run starting")

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	for _, ticker := range tickers {
		ticker := ticker
		g.Go(func() error {
			res, err := o.runTicker(gctx, ticker, bizDate)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// Context death must stop the batch; provider and data
				// failures only skip the ticker.
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Warn().Err(err).Str("ticker", ticker).Str("run_id", sum.RunID).Msg("ticker skipped")
				sum.Failed[ticker] = err
				return nil
			}
			sum.Analyzed = append(sum.Analyzed, res)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return sum, fmt.Errorf("pipeline run %s: %w", sum.RunID, err)
	}

	sum.Elapsed = time.Since(sum.Started)
	log.Info().Str("run_id", sum.RunID).Int("analyzed", len(sum.Analyzed)).
		Int("failed", len(sum.Failed)).Dur("elapsed", sum.Elapsed).Msg("pipeline run finished")

	if len(sum.Analyzed) == 0 && len(tickers) > 0 {
		return sum, fmt.Errorf("pipeline run %s: all %d tickers failed", sum.RunID, len(tickers))
	}
	return sum, nil
}

// runTicker gathers inputs, runs the engine and persists the result.
func (o *Orchestrator) runTicker(ctx context.Context, ticker, bizDate string) (*analysis.TickerAnalysis, error) {
	in, err := o.gather(ctx, ticker, bizDate)
	if err != nil {
		return nil, err
	}

	res, err := o.engine.Analyze(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", ticker, err)
	}
	log.Info().Str("ticker", ticker).Str("signal", string(res.Signal)).
		Float64("confidence", res.Confidence).Msg("ticker analyzed")

	if err := o.repo.SaveAnalysis(ctx, res); err != nil {
		return nil, fmt.Errorf("persist %s: %w", ticker, err)
	}

	if o.narrator != nil {
		// Fire and forget: prose generation must never fail the numbers.
		go func() {
			nctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			if err := o.narrator.Narrate(nctx, res); err != nil {
				log.Warn().Err(err).Str("ticker", ticker).Msg("narrative generation failed")
			}
		}()
	}
	return res, nil
}

// gather collects provider inputs for one ticker. Fundamentals and prices
// are mandatory; sentiment inputs degrade to empty on provider failure since
// the sentiment agent treats silence as neutral.
func (o *Orchestrator) gather(ctx context.Context, ticker, bizDate string) (analysis.Inputs, error) {
	in := analysis.Inputs{Ticker: ticker, BizDate: bizDate, ValuationParams: o.valuation}

	periods, err := o.financials.Financials(ctx, ticker, bizDate)
	if err != nil {
		return in, fmt.Errorf("financials for %s: %w: %v", ticker, models.ErrProviderFailure, err)
	}
	in.Periods = periods

	if in.MarketCap, err = o.financials.MarketCap(ctx, ticker, bizDate); err != nil {
		return in, fmt.Errorf("market cap for %s: %w: %v", ticker, models.ErrProviderFailure, err)
	}
	if in.TrailingEVEBITDA, err = o.financials.TrailingEVEBITDA(ctx, ticker, bizDate); err != nil {
		log.Debug().Err(err).Str("ticker", ticker).Msg("no trailing multiples, ev/ebitda method will sit out")
	}

	if in.Prices, err = o.prices.Prices(ctx, ticker, bizDate); err != nil {
		return in, fmt.Errorf("prices for %s: %w: %v", ticker, models.ErrProviderFailure, err)
	}

	if in.InsiderTrades, err = o.sentiment.InsiderTrades(ctx, ticker, bizDate); err != nil {
		log.Debug().Err(err).Str("ticker", ticker).Msg("insider trades unavailable")
		in.InsiderTrades = nil
	}
	if in.News, err = o.sentiment.News(ctx, ticker, bizDate); err != nil {
		log.Debug().Err(err).Str("ticker", ticker).Msg("news unavailable")
		in.News = nil
	}
	return in, nil
}

// IsProviderFailure reports whether a recorded per-ticker failure came from
// a data provider rather than from the analysis itself.
func IsProviderFailure(err error) bool {
	return errors.Is(err, models.ErrProviderFailure)
}
