package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/plotpilot/api/internal/config"
	"github.com/stwalsh4118/plotpilot/api/internal/database"
	"github.com/stwalsh4118/plotpilot/api/internal/dataset"
	"github.com/stwalsh4118/plotpilot/api/internal/handlers"
	"github.com/stwalsh4118/plotpilot/api/internal/kvstore"
	"github.com/stwalsh4118/plotpilot/api/internal/ledger"
	"github.com/stwalsh4118/plotpilot/api/internal/logger"
	"github.com/stwalsh4118/plotpilot/api/internal/maintenance"
	"github.com/stwalsh4118/plotpilot/api/internal/metrics"
	"github.com/stwalsh4118/plotpilot/api/internal/middleware"
	"github.com/stwalsh4118/plotpilot/api/internal/overrides"
	"github.com/stwalsh4118/plotpilot/api/internal/repository"
	"github.com/stwalsh4118/plotpilot/api/internal/services"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.Server.Env)
	log.Info("Starting PlotPilot API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
		"store":       cfg.Store.Driver,
		"data_source": cfg.Data.Source,
	})

	ctx := context.Background()

	// The database pool is only needed when postgres backs the store
	var db *database.Database
	if cfg.UsesPostgres() {
		db, err = database.NewPostgresPool(ctx, cfg.Database)
		if err != nil {
			log.Fatal("Failed to connect to database", err, map[string]interface{}{
				"host": cfg.Database.Host,
				"port": cfg.Database.Port,
				"name": cfg.Database.Name,
			})
		}
		defer db.Close()

		log.Info("Database connection established", map[string]interface{}{
			"host":     cfg.Database.Host,
			"port":     cfg.Database.Port,
			"database": cfg.Database.Name,
			"pool_min": cfg.Database.PoolMin,
			"pool_max": cfg.Database.PoolMax,
		})
	}

	kv, err := kvstore.Open(ctx, cfg.Store, db)
	if err != nil {
		log.Fatal("Failed to open key-value store", err, map[string]interface{}{
			"driver": cfg.Store.Driver,
		})
	}
	defer func() {
		if err := kv.Close(); err != nil {
			log.Error("Failed to close key-value store", err, nil)
		}
	}()

	source, err := dataset.NewSource(ctx, cfg.Data)
	if err != nil {
		log.Fatal("Failed to configure data source", err, map[string]interface{}{
			"source": cfg.Data.Source,
		})
	}

	m := metrics.New()

	// Initialize repository and stores
	loader := dataset.NewLoader(source, dataset.FilesFromConfig(cfg.Data), cfg.Data.LoadTimeout)
	plotRepo := repository.NewPlotRepository(loader, overrides.NewStore(kv), log)

	requestLedger := ledger.New(kv, plotRepo, log)
	requestLedger.Load(ctx)

	maintenanceStore := maintenance.NewStore(kv, log)
	maintenanceStore.Load(ctx)

	// A failed load leaves the server running but not ready
	if ds, err := plotRepo.Load(ctx); err != nil {
		m.DatasetLoad(false)
		log.Error("Failed to load plot data", err, map[string]interface{}{
			"source": cfg.Data.Source,
		})
	} else {
		m.DatasetLoad(true)
		log.Info("Plot data loaded", map[string]interface{}{
			"plots":    len(ds.Plots.Features),
			"sections": len(ds.Sections.Features),
			"blocks":   len(ds.Blocks.Features),
		})
	}

	// Initialize service layer
	plotService := services.NewPlotService(plotRepo, m, log)
	mapService := services.NewMapService(plotRepo, maintenanceStore, log)
	requestService := services.NewRequestService(requestLedger, m, log)
	maintenanceService := services.NewMaintenanceService(maintenanceStore, m, log)

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware in order: RequestID -> Logger -> Recovery -> CORS -> Metrics
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))
	router.Use(middleware.Metrics(m))

	router.GET("/metrics", gin.WrapH(m.Handler()))
	handlers.RegisterRoutes(router, handlers.Handlers{
		Health:      handlers.NewHealthHandler(kv, plotRepo, cfg.Server.Env, cfg.Store.Driver),
		Plots:       handlers.NewPlotHandler(plotService),
		Map:         handlers.NewMapHandler(mapService),
		Requests:    handlers.NewRequestHandler(requestService),
		Maintenance: handlers.NewMaintenanceHandler(maintenanceService),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
