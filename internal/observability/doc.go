// Package observability provides logging and metrics support for the
// geoparse pipeline.
//
// # Overview
//
// The observability package provides:
//
//   - Structured logging with zerolog
//   - Prometheus metrics for articles, segments, and the geolocation gateway
//   - Context helpers for propagating run and file identity
//
// # Logging
//
// Create a logger from configuration:
//
//	cfg := observability.LoggingConfig{
//	    Level:  "info",
//	    Format: "json",
//	    Output: "stdout",
//	}
//
//	logger := observability.NewLogger(cfg)
//	logger.Info().Str("source_file", name).Msg("processing article")
//
// Add run context to a logger:
//
//	logger = observability.WithRunContext(logger, runID, parser)
//
// # Metrics
//
// Initialize metrics and record events:
//
//	metrics := observability.NewMetrics("geoparse")
//	metrics.RecordArticleProcessed()
//	metrics.RecordGatewayRequest("spacy-lg", 1.4)
package observability
