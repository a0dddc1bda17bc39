package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"wallet-dashboard/internal/config"
	"wallet-dashboard/internal/database"
	"wallet-dashboard/internal/logging"
	"wallet-dashboard/internal/services"
)

func main() {
	cfg := config.Load()

	logger := logging.New(os.Stderr, cfg.Logging, "wallet-dashboard")
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	var db *database.DB
	if cfg.Database.Enabled() {
		var err error
		db, err = database.Initialize(cfg)
		if err != nil {
			logger.Error("Failed to initialize snapshot database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
	}

	app := newApplication(cfg, db, services.NewPrometheusMetrics(), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go app.runJanitor(ctx)

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	go func() {
		logger.Info("Server starting",
			"address", addr,
			"environment", cfg.Server.Environment,
			"demo", cfg.Upstream.Demo,
			"snapshots", cfg.Database.Enabled(),
		)
		if err := app.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := app.echo.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}
