package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/config"
	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/core/analysis"
	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/core/ingest"
	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/core/llm"
	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/core/narrative"
	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/core/pipeline"
	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/core/scorer"
	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/core/store"
	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/core/valuation"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to pipeline configuration")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, assuming environment variables are set")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := store.InitDB(ctx); err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	defer store.Close()
	if err := store.EnsureSchema(ctx, store.GetPool()); err != nil {
		log.Fatal().Err(err).Msg("ensure schema")
	}

	checklists := scorer.DefaultChecklists()
	if dir := cfg.Checklists.Dir; dir != "" {
		if checklists, err = scorer.LoadDirectory(dir, checklists); err != nil {
			log.Fatal().Err(err).Str("dir", dir).Msg("load checklists")
		}
	}

	client := ingest.NewClient(cfg.Vendor.BaseURL)
	opts := []pipeline.Option{
		pipeline.WithWorkers(cfg.Workers),
		pipeline.WithEngine(analysis.NewEngine(checklists)),
		pipeline.WithValuationParams(valuation.Params{
			Years:          cfg.Valuation.Years,
			DiscountRate:   cfg.Valuation.DiscountRate,
			TerminalGrowth: cfg.Valuation.TerminalGrowth,
		}),
	}

	if cfg.LLM.Enabled {
		provider, err := llm.New(cfg.LLM.Provider)
		if err != nil {
			log.Fatal().Err(err).Msg("configure llm provider")
		}
		formatter := narrative.NewFormatter(provider, narrative.PersonaByName(cfg.LLM.Persona), cfg.LLM.Model)
		opts = append(opts, pipeline.WithNarrator(narrative.NewService(formatter, store.NewNarrativeRepo(store.GetPool()))))
	}

	orch := pipeline.NewOrchestrator(client, client, client, store.NewAnalysisRepo(store.GetPool()), opts...)

	summary, err := orch.Run(ctx, cfg.Tickers, cfg.BizDate)
	if err != nil {
		log.Fatal().Err(err).Msg("pipeline run failed")
	}
	for ticker, terr := range summary.Failed {
		log.Warn().Str("ticker", ticker).Err(terr).Msg("ticker failed")
	}

	if cfg.LLM.Enabled && cfg.LLM.Stream {
		streamer := narrative.NewStreamer(narrative.PersonaByName(cfg.LLM.Persona), cfg.LLM.Model)
		for _, a := range summary.Analyzed {
			fmt.Printf("\n--- %s ---\n", a.Ticker)
			if _, err := streamer.Stream(ctx, narrative.BuildPrompt(a), os.Stdout); err != nil {
				log.Warn().Err(err).Str("ticker", a.Ticker).Msg("commentary stream failed")
			}
			fmt.Println()
		}
	}
	log.Info().Str("run_id", summary.RunID).Int("analyzed", len(summary.Analyzed)).
		Int("failed", len(summary.Failed)).Msg("done")
}
