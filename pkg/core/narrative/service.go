package narrative

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/core/analysis"
)

// Store persists finished narratives. The Postgres implementation lives in
// pkg/core/store; tests use an in-memory double.
type Store interface {
	SaveNarrative(ctx context.Context, n *Narrative) error
}

// Service glues formatter and store together behind the pipeline's Narrator
// interface.
type Service struct {
	formatter *Formatter
	store     Store
}

// NewService builds the narrator used by the pipeline.
func NewService(f *Formatter, store Store) *Service {
	return &Service{formatter: f, store: store}
}

// Narrate generates and persists the note for one finished analysis.
func (s *Service) Narrate(ctx context.Context, a *analysis.TickerAnalysis) error {
	n, err := s.formatter.Generate(ctx, a)
	if err != nil {
		return err
	}
	if s.store != nil {
		if err := s.store.SaveNarrative(ctx, n); err != nil {
			return fmt.Errorf("save narrative for %s: %w", a.Ticker, err)
		}
	}
	log.Info().Str("ticker", a.Ticker).Str("persona", n.Persona).
		Int("overall_score", n.OverallScore).Str("band", ScoreBand(n.OverallScore)).
		Msg("narrative stored")
	return nil
}
