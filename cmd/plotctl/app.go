package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/stwalsh4118/plotpilot/api/internal/config"
	"github.com/stwalsh4118/plotpilot/api/internal/database"
	"github.com/stwalsh4118/plotpilot/api/internal/dataset"
	"github.com/stwalsh4118/plotpilot/api/internal/kvstore"
	"github.com/stwalsh4118/plotpilot/api/internal/logger"
	"github.com/stwalsh4118/plotpilot/api/internal/maintenance"
	"github.com/stwalsh4118/plotpilot/api/internal/metrics"
	"github.com/stwalsh4118/plotpilot/api/internal/overrides"
	"github.com/stwalsh4118/plotpilot/api/internal/repository"
	"github.com/stwalsh4118/plotpilot/api/internal/services"
)

// app holds the services a command runs against.
type app struct {
	plots services.PlotService
	maps  services.MapService
	close func()
}

// openApp loads configuration, opens the store and loads the dataset with
// every stored override applied.
func openApp(ctx context.Context, verbose bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log := logger.NewWithWriter(os.Stderr, level)

	var db *database.Database
	if cfg.UsesPostgres() {
		if db, err = database.NewPostgresPool(ctx, cfg.Database); err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
	}
	closeDB := func() {
		if db != nil {
			db.Close()
		}
	}

	kv, err := kvstore.Open(ctx, cfg.Store, db)
	if err != nil {
		closeDB()
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}
	cleanup := func() {
		if err := kv.Close(); err != nil {
			log.Error("Failed to close key-value store", err, nil)
		}
		closeDB()
	}

	source, err := dataset.NewSource(ctx, cfg.Data)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("configure data source: %w", err)
	}

	loader := dataset.NewLoader(source, dataset.FilesFromConfig(cfg.Data), cfg.Data.LoadTimeout)
	repo := repository.NewPlotRepository(loader, overrides.NewStore(kv), log)
	if _, err := repo.Load(ctx); err != nil {
		cleanup()
		return nil, err
	}

	workOrders := maintenance.NewStore(kv, log)
	workOrders.Load(ctx)

	return &app{
		plots: services.NewPlotService(repo, metrics.New(), log),
		maps:  services.NewMapService(repo, workOrders, log),
		close: cleanup,
	}, nil
}
