package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/core/analysis"
)

// AnalysisRepo writes a finished TickerAnalysis across the result tables.
// It satisfies the pipeline's Repository interface.
type AnalysisRepo struct {
	pool *pgxpool.Pool
}

// NewAnalysisRepo creates a repository over the given pool.
func NewAnalysisRepo(pool *pgxpool.Pool) *AnalysisRepo {
	return &AnalysisRepo{pool: pool}
}

// SaveAnalysis upserts every per-agent result plus the final suggestion.
// Partial failure aborts: either the whole day's rows land or the caller
// retries the ticker.
func (r *AnalysisRepo) SaveAnalysis(ctx context.Context, a *analysis.TickerAnalysis) error {
	if r.pool == nil {
		return fmt.Errorf("database pool not configured")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save for %s: %w", a.Ticker, err)
	}
	defer tx.Rollback(ctx)

	if a.Valuation != nil {
		for _, m := range a.Valuation.Methods {
			_, err := tx.Exec(ctx, `
				INSERT INTO valuation (ticker, biz_date, valuation_method, intrinsic_value, market_cap, gap, signal, confidence)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				ON CONFLICT (ticker, biz_date, valuation_method)
				DO UPDATE SET intrinsic_value = EXCLUDED.intrinsic_value,
					market_cap = EXCLUDED.market_cap,
					gap = EXCLUDED.gap,
					signal = EXCLUDED.signal,
					confidence = EXCLUDED.confidence,
					updated_at = NOW()`,
				a.Ticker, a.BizDate, m.Method, m.IntrinsicValue, m.MarketCap, m.Gap, m.Signal, m.Confidence)
			if err != nil {
				return fmt.Errorf("save valuation %s/%s: %w", a.Ticker, m.Method, err)
			}
		}
	}

	if a.Technical != nil {
		strategies, err := json.Marshal(a.Technical.Strategies)
		if err != nil {
			return fmt.Errorf("marshal strategies for %s: %w", a.Ticker, err)
		}
		unavailable, err := json.Marshal(a.Technical.Unavailable)
		if err != nil {
			return fmt.Errorf("marshal unavailable strategies for %s: %w", a.Ticker, err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO technicals (ticker, biz_date, signal, confidence, strategies, unavailable)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (ticker, biz_date)
			DO UPDATE SET signal = EXCLUDED.signal,
				confidence = EXCLUDED.confidence,
				strategies = EXCLUDED.strategies,
				unavailable = EXCLUDED.unavailable,
				updated_at = NOW()`,
			a.Ticker, a.BizDate, a.Technical.Signal, a.Technical.Confidence, strategies, unavailable)
		if err != nil {
			return fmt.Errorf("save technicals %s: %w", a.Ticker, err)
		}
	}

	for _, s := range a.Scores {
		details, err := json.Marshal(s.Details)
		if err != nil {
			return fmt.Errorf("marshal score details for %s/%s: %w", a.Ticker, s.Strategy, err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO fundamentals (ticker, biz_date, strategy, score, max_score, signal, confidence, details)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (ticker, biz_date, strategy)
			DO UPDATE SET score = EXCLUDED.score,
				max_score = EXCLUDED.max_score,
				signal = EXCLUDED.signal,
				confidence = EXCLUDED.confidence,
				details = EXCLUDED.details,
				updated_at = NOW()`,
			a.Ticker, a.BizDate, s.Strategy, s.Score, s.MaxScore, s.Signal, s.Confidence, details)
		if err != nil {
			return fmt.Errorf("save fundamentals %s/%s: %w", a.Ticker, s.Strategy, err)
		}
	}

	if a.Sentiment != nil {
		d := a.Sentiment.Detail
		_, err = tx.Exec(ctx, `
			INSERT INTO sentiment (ticker, biz_date, signal, confidence,
				insider_total, insider_bullish, insider_bearish, insider_value_total, insider_weight,
				news_total, news_bullish, news_bearish, news_neutral, news_weight)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			ON CONFLICT (ticker, biz_date)
			DO UPDATE SET signal = EXCLUDED.signal,
				confidence = EXCLUDED.confidence,
				insider_total = EXCLUDED.insider_total,
				insider_bullish = EXCLUDED.insider_bullish,
				insider_bearish = EXCLUDED.insider_bearish,
				insider_value_total = EXCLUDED.insider_value_total,
				insider_weight = EXCLUDED.insider_weight,
				news_total = EXCLUDED.news_total,
				news_bullish = EXCLUDED.news_bullish,
				news_bearish = EXCLUDED.news_bearish,
				news_neutral = EXCLUDED.news_neutral,
				news_weight = EXCLUDED.news_weight,
				updated_at = NOW()`,
			a.Ticker, a.BizDate, a.Sentiment.Signal, a.Sentiment.Confidence,
			d.InsiderTotal, d.InsiderBullish, d.InsiderBearish, d.InsiderValueTotal, d.InsiderWeight,
			d.NewsTotal, d.NewsBullish, d.NewsBearish, d.NewsNeutral, d.NewsWeight)
		if err != nil {
			return fmt.Errorf("save sentiment %s: %w", a.Ticker, err)
		}
	}

	contributing, err := json.Marshal(a.Contributing)
	if err != nil {
		return fmt.Errorf("marshal contributing signals for %s: %w", a.Ticker, err)
	}
	skipped, err := json.Marshal(a.Skipped)
	if err != nil {
		return fmt.Errorf("marshal skipped agents for %s: %w", a.Ticker, err)
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO suggestions (ticker, biz_date, signal, confidence, contributing, skipped)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (ticker, biz_date)
		DO UPDATE SET signal = EXCLUDED.signal,
			confidence = EXCLUDED.confidence,
			contributing = EXCLUDED.contributing,
			skipped = EXCLUDED.skipped,
			updated_at = NOW()`,
		a.Ticker, a.BizDate, a.Signal, a.Confidence, contributing, skipped)
	if err != nil {
		return fmt.Errorf("save suggestion %s: %w", a.Ticker, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit save for %s: %w", a.Ticker, err)
	}
	log.Debug().Str("ticker", a.Ticker).Str("biz_date", a.BizDate).Msg("analysis persisted")
	return nil
}
