package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/wildquiz/internal/animals"
	"github.com/vytor/wildquiz/internal/api"
	"github.com/vytor/wildquiz/internal/challenge"
	"github.com/vytor/wildquiz/internal/config"
	"github.com/vytor/wildquiz/internal/logger"
	"github.com/vytor/wildquiz/internal/observers"
	"github.com/vytor/wildquiz/internal/platform"
	"github.com/vytor/wildquiz/internal/services"
	"github.com/vytor/wildquiz/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("WildQuiz Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("activity_id=%s", cfg.ActivityID)
	log.Debug("platform_url=%s", cfg.PlatformURL)
	log.Debug("platform_batch_size=%d", cfg.PlatformBatchSize)
	log.Debug("sink_worker_count=%d", cfg.SinkWorkerCount)
	log.Debug("sink_queue_size=%d", cfg.SinkQueueSize)
	log.Debug("time_limit_seconds=%d", cfg.TimeLimitSeconds)

	// Open the animal catalogue
	store, err := animals.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open animal store: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing animal store")
		store.Close()
	}()

	// Background delivery for the external platform
	sinkPool := worker.NewPool(cfg.SinkWorkerCount, cfg.SinkQueueSize)
	platformClient := platform.NewClient(
		cfg.PlatformURL, cfg.PlatformAPIKey, cfg.ActivityID, sinkPool,
		platform.WithBatchSize(cfg.PlatformBatchSize),
	)

	// Progression subsystems
	analytics := observers.NewAnalytics(cfg.ActivityID)
	achievements := observers.NewAchievements(
		observers.WithPeriodSource(store),
		observers.WithAchievementNotifier(platformClient),
	)
	levels := observers.NewLevels(
		observers.WithLevelUpNotifier(platformClient),
	)

	factory := challenge.NewFactory(store)

	quiz := services.NewQuizService(factory, analytics, achievements, levels, platformClient, cfg.TimeLimitSeconds)

	srv := api.NewServer(quiz, store)

	ctx, cancel := context.WithCancel(context.Background())
	sinkPool.Start(ctx)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Push out anything still queued before the pool stops.
	log.Debug("flushing platform events")
	platformClient.ForceFlush()

	cancel()
	log.Debug("stopping sink pool")
	sinkPool.Stop()

	log.Info("===========================================")
	log.Info("WildQuiz Server Stopped")
	log.Info("===========================================")
}
