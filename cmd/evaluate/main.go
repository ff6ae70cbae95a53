// Package main provides the entry point for the geoparse accuracy evaluator.
package main

import (
	"fmt"
	"os"

	"github.com/journalmap/geoparse-service/internal/config"
	"github.com/journalmap/geoparse-service/internal/domain"
	"github.com/journalmap/geoparse-service/internal/evaluate"
	"github.com/journalmap/geoparse-service/internal/observability"
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

	// Set up structured logging.
	logger := observability.NewLogger(observability.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	logger.Info().Msg("geoparse-service evaluation starting")

	// Read the ground-truth records once; every parser is scored against
	// the same set.
	truthFile, err := os.Open(cfg.Evaluate.GroundTruthPath)
	if err != nil {
		return fmt.Errorf("open ground truth: %w", err)
	}
	defer truthFile.Close()

	truth, err := evaluate.ReadGroundTruth(truthFile)
	if err != nil {
		return fmt.Errorf("read ground truth: %w", err)
	}
	logger.Info().Int("records", len(truth)).Msg("ground truth loaded")

	outputCfg := config.OutputConfig{Dir: cfg.Evaluate.LocationsDir, Label: cfg.Output.Label}

	var tallies []domain.AccuracyTally
	for _, parserName := range cfg.Evaluate.Parsers {
		parser := domain.Parser(parserName)
		path := outputCfg.LocationsPath(parserName)

		rows, err := readLocationsFile(path)
		if err != nil {
			// A missing locations file just means that parser was never
			// run; score the others.
			logger.Warn().Err(err).Str("parser", parserName).Msg("skipping parser")
			continue
		}

		parserTallies := evaluate.Evaluate(truth, parser, rows)
		tallies = append(tallies, parserTallies...)
		logger.Info().
			Str("parser", parserName).
			Int("rows", len(rows)).
			Int("tallies", len(parserTallies)).
			Msg("parser evaluated")
	}

	resultsFile, err := os.Create(cfg.Evaluate.ResultsPath)
	if err != nil {
		return fmt.Errorf("create results file: %w", err)
	}
	defer resultsFile.Close()

	if err := evaluate.WriteResults(resultsFile, tallies); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	logger.Info().Int("tallies", len(tallies)).Str("path", cfg.Evaluate.ResultsPath).Msg("results written")

	return nil
}

func readLocationsFile(path string) ([]evaluate.LocationRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return evaluate.ReadLocations(f)
}
