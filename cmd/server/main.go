// @title Court Compare API
// @version 1.0
// @description Team and player comparisons over a season of NBA player statistics.
// @BasePath /
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

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/court-compare/internal/config"
	"github.com/ZanzyTHEbar/court-compare/internal/dataset"
	"github.com/ZanzyTHEbar/court-compare/internal/monitoring"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	gin.SetMode(cfg.GinMode)

	appLogger := monitoring.NewLogger(monitoring.ParseLevel(cfg.LogLevel))
	slog.SetDefault(appLogger.Logger)

	loadStart := time.Now()
	store, err := dataset.Load(cfg.DataPath, cfg.DatasetOptions())
	if err != nil {
		var schemaErr *dataset.SchemaError
		if errors.As(err, &schemaErr) {
			appLogger.Error("Dataset does not match the expected schema",
				"source", schemaErr.Source,
				"missing", schemaErr.Missing,
				"column", schemaErr.Column,
				"row", schemaErr.Row,
			)
		}
		return err
	}
	appLogger.DatasetLogger(store.Source(), store.Len(), len(store.Teams()), len(store.NumericColumns()), time.Since(loadStart))

	srv := newServer(cfg, store, appLogger)
	defer srv.close()

	r, err := srv.router()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv.security.Cleanup(ctx, 5*time.Minute, 10*time.Minute)

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		appLogger.Info("Starting server", "port", cfg.Port, "version", version, "dataset", store.Source())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return err
	case <-quit:
	}
	appLogger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	appLogger.Info("Server exited")
	return nil
}
