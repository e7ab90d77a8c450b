package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/YobelBerhe/CoachOS-sub000/internal/authorizer"
	"github.com/YobelBerhe/CoachOS-sub000/internal/bootstrap"
	"github.com/YobelBerhe/CoachOS-sub000/internal/config"
	"github.com/YobelBerhe/CoachOS-sub000/internal/database"
	"github.com/YobelBerhe/CoachOS-sub000/internal/database/postgres"
	"github.com/YobelBerhe/CoachOS-sub000/internal/entitlement"
	"github.com/YobelBerhe/CoachOS-sub000/internal/handler"
	"github.com/YobelBerhe/CoachOS-sub000/internal/interaction"
	"github.com/YobelBerhe/CoachOS-sub000/internal/recommend"
	"github.com/YobelBerhe/CoachOS-sub000/internal/scheduler"
	"github.com/YobelBerhe/CoachOS-sub000/internal/server"
	"github.com/YobelBerhe/CoachOS-sub000/internal/unlock"
	"github.com/YobelBerhe/CoachOS-sub000/internal/worker"
)

const shutdownTimeout = 15 * time.Second

// @title CoachOS Core API
// @version 1.0
// @description Paid recipe unlocks and interaction-based recommendations.
// @BasePath /api/v1
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		slog.Error("Logger setup failed", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	slog.Info("Starting service",
		"environment", cfg.Environment,
		"version", cfg.Version,
		"port", cfg.Port)

	if err := database.Migrate(cfg.GetDBConnString()); err != nil {
		slog.Error("Migration failed", "error", err)
		os.Exit(1)
	}

	dbPool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxIdle, cfg.DBMaxLife)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}

	// Repositories
	ledgerRepo := postgres.NewLedgerRepository(dbPool)
	recipeRepo := postgres.NewRecipeRepository(dbPool)
	interactionRepo := postgres.NewInteractionRepository(dbPool)

	// Services. The entitlement cache is primed by the unlock service on
	// commit, and the recommendation cache is invalidated by the recorder.
	authClient := authorizer.NewClient(cfg.AuthorizerBaseURL, cfg.AuthorizerAPIKey, cfg.AuthorizerTimeout)
	entitlementService := entitlement.NewService(recipeRepo, ledgerRepo, cfg.EntitlementCacheSize, cfg.EntitlementCacheTTL)
	unlockService := unlock.NewService(ledgerRepo, recipeRepo, authClient, entitlementService, cfg.AuthorizerTimeout, cfg.StalePendingAfter)
	recommendService := recommend.NewService(interactionRepo, cfg.DecayHalfLifeDays, cfg.ScoreCacheSize, cfg.ScoreCacheTTL)
	interactionService := interaction.NewService(interactionRepo, recommendService, cfg.ClockSkewHorizon)

	handler.InitValidator()

	// Background sweep of stale pending unlocks
	workerPool := worker.NewPool(1, 16)
	workerPool.Start()

	sched := scheduler.New(workerPool)
	sched.Schedule(cfg.SweepInterval, unlock.NewSweepJob(unlockService))

	srv := server.NewServer(cfg.Port, cfg.APIKey, nil, dbPool,
		unlockService, interactionService, recommendService, entitlementService)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		slog.Error("Server failed", "error", err)
	case sig := <-stop:
		slog.Info("Shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(ctx, bootstrap.ShutdownComponents{
		Server:     srv,
		Scheduler:  sched,
		WorkerPool: workerPool,
		DBPool:     dbPool,
	})
}
