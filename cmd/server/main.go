package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mfigueira/preptrack/internal/api"
	"github.com/mfigueira/preptrack/internal/config"
	"github.com/mfigueira/preptrack/internal/db"
	"github.com/mfigueira/preptrack/internal/logger"
	"github.com/mfigueira/preptrack/internal/repository"
	"github.com/mfigueira/preptrack/internal/repository/file"
	"github.com/mfigueira/preptrack/internal/repository/sqlite"
	"github.com/mfigueira/preptrack/internal/services"
	"github.com/mfigueira/preptrack/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)
	defer log.Sync()

	log.Info("===========================================")
	log.Info("PrepTrack Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("history_backend=%s", cfg.HistoryBackend)
	log.Debug("history_path=%s", cfg.HistoryPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("import_worker_count=%d", cfg.ImportWorkerCount)
	log.Debug("import_queue_size=%d", cfg.ImportQueueSize)
	log.Debug("sweep_schedule=%s", cfg.SweepSchedule)
	log.Debug("session_ttl_minutes=%d", cfg.SessionTTLMinutes)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Initialize repositories
	catalogRepo := sqlite.NewCatalogRepository(database.DB)

	var historyRepo repository.HistoryRepository
	switch cfg.HistoryBackend {
	case "file":
		historyRepo = file.NewHistoryStore(cfg.HistoryPath)
		log.Info("history backend: file (%s)", cfg.HistoryPath)
	default:
		historyRepo = sqlite.NewHistoryRepository(database.DB)
		log.Info("history backend: sqlite")
	}

	// Initialize worker pool
	importPool := worker.NewPool(cfg.ImportWorkerCount, cfg.ImportQueueSize)

	ctx, cancel := context.WithCancel(context.Background())

	// Initialize services
	catalogService := services.NewCatalogService(catalogRepo)
	sessionService := services.NewSessionService(ctx, catalogRepo, historyRepo,
		services.WithRetention(time.Duration(cfg.SessionTTLMinutes)*time.Minute),
	)
	historyService := services.NewHistoryService(historyRepo)
	statsService := services.NewStatsService(historyRepo)
	importService := services.NewImportService(catalogService)

	srv := &api.Server{
		CatalogService: catalogService,
		SessionService: sessionService,
		HistoryService: historyService,
		StatsService:   statsService,
		ImportService:  importService,
		ImportPool:     importPool,
		CORSOrigins:    cfg.CORSOrigins,
	}

	importPool.Start(ctx)

	// Start the expiry sweep as a backstop for stalled runners
	sweeper := services.NewSweeper(sessionService, cfg.SweepSchedule)
	if err := sweeper.Start(); err != nil {
		log.Error("failed to start session sweeper: %v", err)
		os.Exit(1)
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping session sweeper")
	sweeper.Stop()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping session runners")
	sessionService.Shutdown()

	log.Debug("stopping import pool")
	cancel()
	importPool.Stop()

	log.Info("===========================================")
	log.Info("PrepTrack Server Stopped")
	log.Info("===========================================")
}
