package bootstrap

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/YobelBerhe/CoachOS-sub000/internal/scheduler"
	"github.com/YobelBerhe/CoachOS-sub000/internal/server"
	"github.com/YobelBerhe/CoachOS-sub000/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown
type ShutdownComponents struct {
	Server     *server.Server
	Scheduler  *scheduler.Scheduler
	WorkerPool *worker.Pool
	DBPool     *pgxpool.Pool
}

// GracefulShutdown stops the application components in order:
// 1. HTTP server (stop accepting new requests)
// 2. Scheduler (stop enqueueing sweep jobs)
// 3. Worker pool (drain in-flight jobs)
// 4. Database pool
// Errors during shutdown are logged but do not stop the sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info("Shutting down server")

	if err := components.Server.Stop(ctx); err != nil {
		slog.Error("Server forced shutdown", "error", err)
	}

	if components.Scheduler != nil {
		components.Scheduler.Stop()
	}

	if components.WorkerPool != nil {
		components.WorkerPool.Stop()
	}

	if components.DBPool != nil {
		components.DBPool.Close()
	}

	slog.Info("Server stopped")
}
