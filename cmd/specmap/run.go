package main

import (
	"context"
	"log/slog"

	"specmap/internal/config"
	"specmap/internal/engine"
	"specmap/internal/history"
	"specmap/internal/storage"
)

// runPipeline wires the engine with the configured history provider and
// snapshot store, runs it once and returns the result.
func runPipeline(ctx context.Context, cfg *config.Config, log *slog.Logger) (*engine.Result, error) {
	opts := []engine.Option{}

	if cfg.Hotspots.HistoryFile != "" {
		provider, err := history.LoadFile(cfg.Hotspots.HistoryFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, engine.WithHistory(provider))
	}

	store, err := storage.Open(cfg.RepoRoot, log)
	if err != nil {
		log.Warn("snapshot store unavailable, trends disabled", "error", err)
	} else {
		defer store.Close()
		opts = append(opts, engine.WithStore(store))
	}

	e := engine.New(cfg, log, opts...)
	return e.Run(ctx)
}
