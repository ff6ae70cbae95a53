package geoparse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/journalmap/geoparse-service/internal/domain"
)

const (
	// DefaultBaseURL is the base URL of the geolocation service API.
	DefaultBaseURL = "https://geolocate.nkn.uidaho.edu/api"

	// DefaultRateLimit keeps well under the service's courtesy limit.
	DefaultRateLimit = 1.0

	// DefaultTimeout is the default request timeout. Body sections can be
	// tens of kilobytes and the NLP backends are slow on them.
	DefaultTimeout = 120 * time.Second

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 10 << 20
)

// Annotator is the boundary to the external geoparsing service: submit text,
// receive zero or more location annotations. An empty annotation list is a
// valid state, not an error.
type Annotator interface {
	Annotate(ctx context.Context, text string) ([]Annotation, error)
	Parser() domain.Parser
}

// Config holds the configuration for the geoparsing client.
type Config struct {
	// Parser selects the backend variant; it is also the API path segment.
	Parser domain.Parser

	// BaseURL is the service API base URL. Defaults to DefaultBaseURL.
	BaseURL string

	// Timeout is the request timeout. Defaults to DefaultTimeout.
	Timeout time.Duration

	// RateLimit is the maximum requests per second. Defaults to DefaultRateLimit.
	RateLimit float64

	// BurstSize is the maximum burst of requests allowed. Defaults to 1.
	BurstSize int
}

// applyDefaults applies default values to the config.
func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RateLimit == 0 {
		c.RateLimit = DefaultRateLimit
	}
	if c.BurstSize == 0 {
		c.BurstSize = 1
	}
}

// Client submits segment text to the geolocation service over HTTP.
type Client struct {
	config     Config
	httpClient *HTTPClient
}

// Compile-time check that Client implements Annotator.
var _ Annotator = (*Client)(nil)

// NewClient creates a new geoparsing client with the given configuration.
func NewClient(cfg Config) *Client {
	cfg.applyDefaults()

	return &Client{
		config: cfg,
		httpClient: NewHTTPClient(HTTPClientConfig{
			Timeout:   cfg.Timeout,
			RateLimit: cfg.RateLimit,
			BurstSize: cfg.BurstSize,
		}),
	}
}

// NewClientWithHTTPClient creates a client with a custom HTTP client.
// This is useful for testing with mock servers.
func NewClientWithHTTPClient(cfg Config, httpClient *HTTPClient) *Client {
	cfg.applyDefaults()
	return &Client{config: cfg, httpClient: httpClient}
}

// Parser returns the backend variant this client submits to.
func (c *Client) Parser() domain.Parser {
	return c.config.Parser
}

// Annotate posts UTF-8 text to the service and decodes the variant-shaped
// annotation list. An empty response body or empty JSON list yields zero
// annotations and no error.
func (c *Client) Annotate(ctx context.Context, text string) ([]Annotation, error) {
	url := c.config.BaseURL + "/" + string(c.config.Parser)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewExternalAPIError(c.config.Parser, resp.StatusCode, string(body), nil)
	}

	return decodeAnnotations(c.config.Parser, body)
}

// decodeAnnotations parses a response body into the parser's annotation shape.
func decodeAnnotations(parser domain.Parser, body []byte) ([]Annotation, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, nil
	}

	if parser.UsesGeoShape() {
		var raw []GeoAnnotation
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s response: %w", parser, err)
		}
		anns := make([]Annotation, 0, len(raw))
		for _, a := range raw {
			anns = append(anns, a)
		}
		return anns, nil
	}

	var raw []CoordinateAnnotation
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s response: %w", parser, err)
	}
	anns := make([]Annotation, 0, len(raw))
	for _, a := range raw {
		anns = append(anns, a)
	}
	return anns, nil
}
