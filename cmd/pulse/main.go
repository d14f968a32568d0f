package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/venturelens/pulse/internal/adapters/http/api"
	"github.com/venturelens/pulse/internal/app"
	"github.com/venturelens/pulse/internal/config"
	"github.com/venturelens/pulse/internal/domain/benchmark"
	"github.com/venturelens/pulse/pkg/logger"
	"github.com/venturelens/pulse/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger isn't available yet.
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logOpts := []logger.InitOption{}
	if cfg.LogJSON {
		logOpts = append(logOpts, logger.WithJSON())
	}
	if err := logger.Init(logOpts...); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Create and start the engine with configuration options.
	svc := app.New(
		app.WithLogger(log),
		app.WithKnowledgePath(cfg.KnowledgePath, cfg.KnowledgeWatch),
		app.WithCacheSize(cfg.ReportCacheSize),
		app.WithBatchConcurrency(cfg.BatchConcurrency),
		app.WithComparatorOptions(
			benchmark.WithSampleSaturation(cfg.SampleSaturation),
			benchmark.WithRecencyHalfLife(cfg.RecencyHalfLife()),
			benchmark.WithSourceTrust(cfg.SourceTrust, cfg.DefaultSourceTrust),
		),
	)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start engine", logger.Error(err))
		os.Exit(1)
	}
	defer svc.Stop()

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Register business API routes with the engine dependency.
	apiServer := api.NewServer(svc, api.WithMaxBatchSize(cfg.MaxBatchSize))
	apiServer.Register(ctx, mux)

	// Prometheus scrape endpoint backed by the custom registry.
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}
