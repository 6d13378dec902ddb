package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"briefcard/config"
	"briefcard/logger"
)

// Run is the main application entry point. It initializes all dependencies,
// starts the HTTP server, then waits for a shutdown signal.
func Run(ctx context.Context) error {
	log := logger.Init()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log.Info("Starting briefcard service",
		"port", cfg.Server.Port,
		"enricher_model", cfg.Enricher.Model)

	// Build all dependencies
	deps, cleanup, err := BuildDependencies(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build dependencies: %w", err)
	}
	defer cleanup()

	// Start server
	httpServer := NewHTTPServer(deps)
	StartHTTPServer(httpServer, cfg.Server.Port, log)

	// Wait for shutdown signal
	log.Info("Briefcard service started successfully")
	waitForShutdown(httpServer, cfg.Server.ShutdownTimeout, log)

	return nil
}

func waitForShutdown(httpServer interface{ Shutdown(context.Context) error }, timeout time.Duration, log *slog.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down briefcard service")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down HTTP server", "error", err)
	}

	log.Info("Briefcard service stopped")
}
