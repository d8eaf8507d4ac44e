// Package main provides the entry point for the TAC panel server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kiwimenu123/TACAC/internal/account"
	"github.com/kiwimenu123/TACAC/internal/config"
	"github.com/kiwimenu123/TACAC/internal/logging"
	"github.com/kiwimenu123/TACAC/internal/metrics"
	"github.com/kiwimenu123/TACAC/internal/notify"
	"github.com/kiwimenu123/TACAC/internal/storage"
	"github.com/kiwimenu123/TACAC/internal/web"
)

const version = "1.0.0"

const sessionTimeout = 24 * time.Hour

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tacd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, logLevel := logging.Setup(cfg.LogLevel)
	logger.Info("starting TAC panel", "version", version, "addr", cfg.ListenAddr)

	store, err := storage.New(cfg.DatabasePath, cfg.EncryptionKey())
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.Close()

	notifier, err := notify.NewDiscord(logger)
	if err != nil {
		return fmt.Errorf("failed to init discord notifier: %w", err)
	}

	sessions := account.NewSessionStore(sessionTimeout)
	svc := account.NewService(store, sessions, notifier, logger)
	if cfg.SeedDemoData {
		logger.Warn("demo data seeding enabled; do not use in production")
		svc.EnableDemoSeed()
	}

	reg := prometheus.NewRegistry()
	if err := metrics.Init(reg); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	handler := web.NewHandler(svc, store, logLevel, logger)
	router := handler.NewRouter()

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	var metricsSrv *http.Server
	if cfg.MetricsListenAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(reg))
		metricsSrv = &http.Server{
			Addr:              cfg.MetricsListenAddr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		logger.Info("listening", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server failed: %w", err)
		}
	}()
	if metricsSrv != nil {
		go func() {
			logger.Info("metrics listening", "addr", cfg.MetricsListenAddr)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server failed: %w", err)
			}
		}()
	}

	// Periodically drop expired sessions.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sessions.Cleanup(ctx)
			}
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics shutdown failed", "error", err)
		}
	}
	return nil
}
