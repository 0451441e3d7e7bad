package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements creates the result tables. Idempotent; the unique
// constraints are what the upsert repos conflict on.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS valuation (
		id BIGSERIAL PRIMARY KEY,
		ticker TEXT NOT NULL,
		biz_date DATE NOT NULL,
		valuation_method TEXT NOT NULL,
		intrinsic_value DOUBLE PRECISION,
		market_cap DOUBLE PRECISION,
		gap DOUBLE PRECISION,
		signal TEXT NOT NULL,
		confidence DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (ticker, biz_date, valuation_method)
	)`,
	`CREATE TABLE IF NOT EXISTS technicals (
		id BIGSERIAL PRIMARY KEY,
		ticker TEXT NOT NULL,
		biz_date DATE NOT NULL,
		signal TEXT NOT NULL,
		confidence DOUBLE PRECISION NOT NULL,
		strategies JSONB,
		unavailable JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (ticker, biz_date)
	)`,
	`CREATE TABLE IF NOT EXISTS fundamentals (
		id BIGSERIAL PRIMARY KEY,
		ticker TEXT NOT NULL,
		biz_date DATE NOT NULL,
		strategy TEXT NOT NULL,
		score INT NOT NULL,
		max_score INT NOT NULL,
		signal TEXT NOT NULL,
		confidence DOUBLE PRECISION NOT NULL,
		details JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (ticker, biz_date, strategy)
	)`,
	`CREATE TABLE IF NOT EXISTS sentiment (
		id BIGSERIAL PRIMARY KEY,
		ticker TEXT NOT NULL,
		biz_date DATE NOT NULL,
		signal TEXT NOT NULL,
		confidence DOUBLE PRECISION NOT NULL,
		insider_total INT NOT NULL DEFAULT 0,
		insider_bullish INT NOT NULL DEFAULT 0,
		insider_bearish INT NOT NULL DEFAULT 0,
		insider_value_total DOUBLE PRECISION NOT NULL DEFAULT 0,
		insider_weight DOUBLE PRECISION NOT NULL DEFAULT 0,
		news_total INT NOT NULL DEFAULT 0,
		news_bullish INT NOT NULL DEFAULT 0,
		news_bearish INT NOT NULL DEFAULT 0,
		news_neutral INT NOT NULL DEFAULT 0,
		news_weight DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (ticker, biz_date)
	)`,
	`CREATE TABLE IF NOT EXISTS suggestions (
		id BIGSERIAL PRIMARY KEY,
		ticker TEXT NOT NULL,
		biz_date DATE NOT NULL,
		signal TEXT NOT NULL,
		confidence DOUBLE PRECISION NOT NULL,
		contributing JSONB,
		skipped JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (ticker, biz_date)
	)`,
	`CREATE TABLE IF NOT EXISTS narratives (
		id BIGSERIAL PRIMARY KEY,
		ticker TEXT NOT NULL,
		biz_date DATE NOT NULL,
		persona TEXT NOT NULL,
		signal TEXT NOT NULL,
		confidence DOUBLE PRECISION NOT NULL,
		overall_score INT NOT NULL,
		reasoning TEXT NOT NULL,
		payload JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (ticker, biz_date, persona)
	)`,
}

// EnsureSchema creates all result tables if they do not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if pool == nil {
		return fmt.Errorf("database pool not configured")
	}
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
