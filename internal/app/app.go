// Package app wires configuration, storage, OCR and the scan service
// together for the server and CLI entry points.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/scorecard/internal/config"
	"github.com/JonMunkholm/scorecard/internal/core"
	"github.com/JonMunkholm/scorecard/internal/metrics"
	"github.com/JonMunkholm/scorecard/internal/ocr"
	"github.com/JonMunkholm/scorecard/internal/store"
	"github.com/JonMunkholm/scorecard/internal/web"
)

// App holds the long-lived components of a running process.
type App struct {
	Config  *config.Config
	Store   store.Store
	Metrics *metrics.Metrics
	Service *core.Service
}

// New opens the record store and builds the scan service.
// A failing OCR engine is logged and leaves the service text-only.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	s, err := store.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	slog.Info("record store ready", "driver", cfg.Database.Driver)

	engine, err := ocr.New(cfg.OCR)
	if err != nil {
		slog.Warn("ocr engine unavailable, image scans disabled", "engine", cfg.OCR.Engine, "error", err)
		engine = nil
	} else {
		slog.Info("ocr engine ready", "engine", engine.Name())
	}

	m, err := metrics.New()
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("create metrics: %w", err)
	}

	var recognizer core.Recognizer
	if engine != nil {
		recognizer = engine
	}

	svc, err := core.NewService(cfg, recognizer, s, m)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("create service: %w", err)
	}

	return &App{
		Config:  cfg,
		Store:   s,
		Metrics: m,
		Service: svc,
	}, nil
}

// Close releases the record store.
func (a *App) Close() error {
	return a.Store.Close()
}

// Serve runs the HTTP API until SIGINT or SIGTERM, then waits for
// in-flight scans before shutting the server down.
func (a *App) Serve(ctx context.Context) error {
	cfg := a.Config
	server := web.NewServer(a.Service, cfg, a.Metrics, a.Store)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Server.Addr())
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Wait for active scans to complete (with timeout)
	if status := a.Service.LimiterStatus(); status.Active > 0 {
		slog.Info("waiting for scans to complete", "active", status.Active)
		if err := a.Service.WaitForScans(shutdownCtx); err != nil {
			slog.Warn("scans did not complete in time", "error", err)
		} else {
			slog.Info("all scans completed")
		}
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
