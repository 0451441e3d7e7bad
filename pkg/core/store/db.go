// Package store persists analysis results to Postgres through pgx. All
// writes are upserts keyed on (ticker, biz_date[, dimension]): recomputing a
// day replaces the previous rows, never duplicates them.
package store

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

var (
	pool *pgxpool.Pool
	once sync.Once
)

// InitDB initializes the shared connection pool from DATABASE_URL. Safe to
// call more than once; only the first call connects.
func InitDB(ctx context.Context) error {
	var err error
	once.Do(func() {
		dbURL := os.Getenv("DATABASE_URL")
		if dbURL == "" {
			err = fmt.Errorf("DATABASE_URL environment variable not set")
			return
		}

		config, parseErr := pgxpool.ParseConfig(dbURL)
		if parseErr != nil {
			err = fmt.Errorf("parse database config: %w", parseErr)
			return
		}

		pool, err = pgxpool.NewWithConfig(ctx, config)
		if err == nil {
			log.Info().Msg("database pool ready")
		}
	})
	return err
}

// GetPool returns the shared pool, nil before InitDB.
func GetPool() *pgxpool.Pool {
	return pool
}

// Close shuts the pool down.
func Close() {
	if pool != nil {
		pool.Close()
	}
}
