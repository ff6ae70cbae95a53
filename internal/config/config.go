// Package config provides configuration management for the geoparse service.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/journalmap/geoparse-service/internal/domain"
	"github.com/journalmap/geoparse-service/internal/geoparse"
)

// Config holds all configuration for the geoparse service.
type Config struct {
	// Input contains XML input settings.
	Input InputConfig `mapstructure:"input"`
	// Output contains output file settings.
	Output OutputConfig `mapstructure:"output"`
	// Geoparse contains geolocation service client settings.
	Geoparse GeoparseConfig `mapstructure:"geoparse"`
	// Pipeline contains per-run processing settings.
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	// Evaluate contains accuracy evaluation settings.
	Evaluate EvaluateConfig `mapstructure:"evaluate"`
	// Logging contains structured logging settings.
	Logging LoggingConfig `mapstructure:"logging"`
	// Metrics contains Prometheus metrics exposure settings.
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// InputConfig holds XML input settings.
type InputConfig struct {
	// Dir is the directory tree walked for XML files.
	Dir string `mapstructure:"dir"`
}

// OutputConfig holds output file settings.
type OutputConfig struct {
	// Dir is the directory output files are written to.
	Dir string `mapstructure:"dir"`
	// Label distinguishes output files across runs (e.g. "2023").
	Label string `mapstructure:"label"`
}

// GeoparseConfig holds geolocation service client settings.
type GeoparseConfig struct {
	// Parser selects the geoparsing backend variant.
	Parser string `mapstructure:"parser"`
	// BaseURL is the geolocation service API base URL.
	BaseURL string `mapstructure:"base_url"`
	// Timeout is the timeout for service calls.
	Timeout time.Duration `mapstructure:"timeout"`
	// RateLimit is the maximum requests per second.
	RateLimit float64 `mapstructure:"rate_limit"`
	// BurstSize is the maximum burst of requests allowed.
	BurstSize int `mapstructure:"burst_size"`
	// MaxRetries is the maximum number of retry attempts.
	MaxRetries int `mapstructure:"max_retries"`
	// RetryDelay is the base delay between retries.
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

// PipelineConfig holds per-run processing settings.
type PipelineConfig struct {
	// AllArticles includes every built article in the articles CSV; when
	// false only geotagged articles are written.
	AllArticles bool `mapstructure:"all_articles"`
	// CollectionKeyword is appended to every article's keyword list when set.
	CollectionKeyword string `mapstructure:"collection_keyword"`
	// FilePause is the courtesy pause between files.
	FilePause time.Duration `mapstructure:"file_pause"`
}

// EvaluateConfig holds accuracy evaluation settings.
type EvaluateConfig struct {
	// GroundTruthPath is the confirmed-locations CSV.
	GroundTruthPath string `mapstructure:"ground_truth_path"`
	// LocationsDir is the directory holding per-parser locations CSV files.
	LocationsDir string `mapstructure:"locations_dir"`
	// ResultsPath is where the results CSV is written.
	ResultsPath string `mapstructure:"results_path"`
	// Parsers lists the parser variants to evaluate.
	Parsers []string `mapstructure:"parsers"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the log level (trace, debug, info, warn, error, fatal, panic).
	Level string `mapstructure:"level"`
	// Format is the log format (json, console).
	Format string `mapstructure:"format"`
	// Output is the log output destination (stdout, stderr).
	Output string `mapstructure:"output"`
	// AddSource adds source file and line to log output.
	AddSource bool `mapstructure:"add_source"`
	// TimeFormat is the timestamp format.
	TimeFormat string `mapstructure:"time_format"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	// Enabled enables metrics exposure over HTTP for the run's duration.
	Enabled bool `mapstructure:"enabled"`
	// Path is the HTTP path for the metrics endpoint.
	Path string `mapstructure:"path"`
	// Port is the metrics server port.
	Port int `mapstructure:"port"`
}

// ArticlesPath returns the articles CSV path for a parser variant.
func (c *OutputConfig) ArticlesPath(parser string) string {
	return filepath.Join(c.Dir, fmt.Sprintf("articles_%s_%s.csv", parser, c.Label))
}

// LocationsPath returns the locations CSV path for a parser variant.
func (c *OutputConfig) LocationsPath(parser string) string {
	return filepath.Join(c.Dir, fmt.Sprintf("locations_%s_%s.csv", parser, c.Label))
}

// LogPath returns the run log path for a parser variant.
func (c *OutputConfig) LogPath(parser string) string {
	return filepath.Join(c.Dir, fmt.Sprintf("jmap_parse_%s_%s.log", parser, c.Label))
}

// Load loads configuration from environment variables and config files.
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read from environment variables
	v.SetEnvPrefix("JMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file if present
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/geoparse-service")

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK, we'll use env vars and defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Input defaults
	v.SetDefault("input.dir", "data/xml")

	// Output defaults
	v.SetDefault("output.dir", "out")
	v.SetDefault("output.label", "2023")

	// Geoparse defaults
	v.SetDefault("geoparse.parser", string(domain.ParserSpacyLG))
	v.SetDefault("geoparse.base_url", geoparse.DefaultBaseURL)
	v.SetDefault("geoparse.timeout", "120s")
	v.SetDefault("geoparse.rate_limit", 1.0)
	v.SetDefault("geoparse.burst_size", 1)
	v.SetDefault("geoparse.max_retries", 3)
	v.SetDefault("geoparse.retry_delay", "2s")

	// Pipeline defaults
	v.SetDefault("pipeline.all_articles", true)
	v.SetDefault("pipeline.collection_keyword", "")
	v.SetDefault("pipeline.file_pause", "1s")

	// Evaluate defaults
	v.SetDefault("evaluate.ground_truth_path", "data/confirmed_locations.csv")
	v.SetDefault("evaluate.locations_dir", "out")
	v.SetDefault("evaluate.results_path", "out/results.csv")
	v.SetDefault("evaluate.parsers", []string{
		string(domain.ParserSpacyLG),
		string(domain.ParserSpacyTRF),
		string(domain.ParserMordecai),
		string(domain.ParserStanza),
		string(domain.ParserNLTK),
	})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.add_source", false)
	v.SetDefault("logging.time_format", time.RFC3339)

	// Metrics defaults
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.port", 9091)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Input.Dir == "" {
		return fmt.Errorf("input dir is required")
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output dir is required")
	}

	// Validate parser variant. LocateXT results came from a desktop tool,
	// not the geolocation service, so it has no endpoint here.
	if c.Geoparse.Parser == "locatext" {
		return fmt.Errorf("parser %q has no service endpoint and cannot be selected", c.Geoparse.Parser)
	}
	if !geoparse.ValidParser(c.Geoparse.Parser) {
		return fmt.Errorf("invalid parser: %s", c.Geoparse.Parser)
	}
	for _, p := range c.Evaluate.Parsers {
		if !geoparse.ValidParser(p) {
			return fmt.Errorf("invalid parser in evaluate.parsers: %s", p)
		}
	}

	if c.Geoparse.BaseURL == "" {
		return fmt.Errorf("geoparse base URL is required")
	}
	if c.Geoparse.RateLimit <= 0 {
		return fmt.Errorf("geoparse rate limit must be positive")
	}
	if c.Pipeline.FilePause < 0 {
		return fmt.Errorf("pipeline file pause must not be negative")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	// Validate metrics config
	if c.Metrics.Enabled && (c.Metrics.Port <= 0 || c.Metrics.Port > 65535) {
		return fmt.Errorf("invalid metrics port: %d", c.Metrics.Port)
	}

	return nil
}
