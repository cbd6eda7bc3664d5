// Command neod runs the NEO data service: the analysis read API, the daily
// processing scheduler, and health/metrics endpoints.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/orbitwatch/neo-data-service/internal/adapter/httpapi"
	"github.com/orbitwatch/neo-data-service/internal/adapter/nasa"
	"github.com/orbitwatch/neo-data-service/internal/adapter/store"
	"github.com/orbitwatch/neo-data-service/internal/config"
	"github.com/orbitwatch/neo-data-service/internal/observability"
	"github.com/orbitwatch/neo-data-service/internal/pipeline"
	"github.com/orbitwatch/neo-data-service/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	db, err := store.Open(cfg)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	st := store.New(db, logger, metrics)
	client := nasa.NewClient(cfg, logger, metrics)
	analyzer := pipeline.NewAnalyzer(st, logger)
	p := pipeline.New(client, st, analyzer, logger, metrics)

	sched, err := scheduler.New(cfg, p, logger)
	if err != nil {
		logger.Error("failed to create scheduler", "error", err)
		os.Exit(1)
	}

	srv := httpapi.NewServer(cfg.HTTPAddr, st, st, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	sched.Start()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	sched.Stop()

	logger.Info("shutdown complete")
}
