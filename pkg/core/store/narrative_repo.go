package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/core/narrative"
)

// NarrativeRepo persists persona notes. Satisfies narrative.Store.
type NarrativeRepo struct {
	pool *pgxpool.Pool
}

// NewNarrativeRepo creates a repository over the given pool.
func NewNarrativeRepo(pool *pgxpool.Pool) *NarrativeRepo {
	return &NarrativeRepo{pool: pool}
}

// SaveNarrative upserts one note, keyed on (ticker, biz_date, persona) so a
// regenerated note replaces the old one.
func (r *NarrativeRepo) SaveNarrative(ctx context.Context, n *narrative.Narrative) error {
	if r.pool == nil {
		return fmt.Errorf("database pool not configured")
	}

	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal narrative for %s: %w", n.Ticker, err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO narratives (ticker, biz_date, persona, signal, confidence, overall_score, reasoning, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (ticker, biz_date, persona)
		DO UPDATE SET signal = EXCLUDED.signal,
			confidence = EXCLUDED.confidence,
			overall_score = EXCLUDED.overall_score,
			reasoning = EXCLUDED.reasoning,
			payload = EXCLUDED.payload,
			updated_at = NOW()`,
		n.Ticker, n.BizDate, n.Persona, n.Signal, n.Confidence, n.OverallScore, n.Reasoning, payload)
	if err != nil {
		return fmt.Errorf("save narrative %s/%s: %w", n.Ticker, n.Persona, err)
	}
	return nil
}
