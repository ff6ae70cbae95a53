// Package main provides the entry point for the geoparse import pipeline.
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

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/journalmap/geoparse-service/internal/config"
	"github.com/journalmap/geoparse-service/internal/domain"
	"github.com/journalmap/geoparse-service/internal/geoparse"
	"github.com/journalmap/geoparse-service/internal/observability"
	"github.com/journalmap/geoparse-service/internal/output"
	"github.com/journalmap/geoparse-service/internal/pipeline"
	"github.com/journalmap/geoparse-service/internal/schemas"
	"github.com/journalmap/geoparse-service/internal/schemas/elsevier"
	"github.com/journalmap/geoparse-service/internal/schemas/jats"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	runID := uuid.NewString()

	// Set up structured logging.
	logger := observability.NewLogger(observability.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	logger = observability.WithRunContext(logger, runID, cfg.Geoparse.Parser)
	logger.Info().Msg("geoparse-service import starting")

	// Set up context with graceful shutdown via OS signals.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = observability.WithRunID(ctx, runID)

	// Register the known schema resolvers.
	registry := schemas.NewRegistry()
	registry.Register(jats.New())
	registry.Register(elsevier.New())

	// Create the geolocation service client.
	parser := domain.Parser(cfg.Geoparse.Parser)
	annotator := geoparse.NewClientWithHTTPClient(
		geoparse.Config{
			Parser:  parser,
			BaseURL: cfg.Geoparse.BaseURL,
			Timeout: cfg.Geoparse.Timeout,
		},
		geoparse.NewHTTPClient(geoparse.HTTPClientConfig{
			Timeout:    cfg.Geoparse.Timeout,
			RateLimit:  cfg.Geoparse.RateLimit,
			BurstSize:  cfg.Geoparse.BurstSize,
			MaxRetries: cfg.Geoparse.MaxRetries,
			RetryDelay: cfg.Geoparse.RetryDelay,
		}),
	)

	// Open output files. Failing here is fatal: a run without its outputs
	// is useless.
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	articlesPath := cfg.Output.ArticlesPath(cfg.Geoparse.Parser)
	locationsPath := cfg.Output.LocationsPath(cfg.Geoparse.Parser)
	logPath := cfg.Output.LogPath(cfg.Geoparse.Parser)

	articlesFile, err := os.Create(articlesPath)
	if err != nil {
		return fmt.Errorf("create articles file: %w", err)
	}
	defer articlesFile.Close()

	locationsFile, err := os.Create(locationsPath)
	if err != nil {
		return fmt.Errorf("create locations file: %w", err)
	}
	defer locationsFile.Close()

	logFile, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("create log file: %w", err)
	}
	defer logFile.Close()

	articles, err := output.NewArticlesWriter(articlesFile)
	if err != nil {
		return fmt.Errorf("write articles header: %w", err)
	}
	locations, err := output.NewLocationsWriter(locationsFile, parser)
	if err != nil {
		return fmt.Errorf("write locations header: %w", err)
	}
	runLog := output.NewRunLog(logFile)

	// Set up Prometheus metrics on a separate port if configured.
	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics("geoparse")

		metricsMux := http.NewServeMux()
		metricsMux.Handle(cfg.Metrics.Path, promhttp.Handler())
		metricsServer := &http.Server{
			Addr:        fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler:     metricsMux,
			ReadTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info().Str("address", metricsServer.Addr).Msg("metrics server listening")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("metrics server failed")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsServer.Shutdown(shutdownCtx)
		}()
	}

	if err := runLog.Start(runID, cfg.Input.Dir); err != nil {
		return fmt.Errorf("write run log banner: %w", err)
	}

	p := pipeline.New(registry, annotator, articles, locations, runLog, logger, metrics, pipeline.Options{
		InputDir:          cfg.Input.Dir,
		AllArticles:       cfg.Pipeline.AllArticles,
		CollectionKeyword: cfg.Pipeline.CollectionKeyword,
		FilePause:         cfg.Pipeline.FilePause,
	})

	counts, runErr := p.Run(ctx)

	// Final counts are reported even when the run was cut short.
	if err := runLog.Finish(cfg.Input.Dir, counts, articlesPath, locationsPath, logPath); err != nil {
		logger.Error().Err(err).Msg("failed to write run log summary")
	}

	if runErr != nil {
		return fmt.Errorf("run import: %w", runErr)
	}
	return nil
}
