// Package pipeline orchestrates the sequential per-file run: parse XML,
// resolve an article, segment it, submit segments for geoparsing, and write
// the output files. Processing is deliberately single-threaded; the output
// CSVs are append-ordered and that order is a visible contract.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/journalmap/geoparse-service/internal/domain"
	"github.com/journalmap/geoparse-service/internal/geoparse"
	"github.com/journalmap/geoparse-service/internal/observability"
	"github.com/journalmap/geoparse-service/internal/output"
	"github.com/journalmap/geoparse-service/internal/schemas"
	"github.com/journalmap/geoparse-service/internal/segment"
	"github.com/journalmap/geoparse-service/internal/xmldoc"
)

// Options holds per-run processing settings.
type Options struct {
	// InputDir is the directory tree walked for XML files.
	InputDir string

	// AllArticles includes every built article in the articles CSV; when
	// false only articles with at least one found location are written.
	AllArticles bool

	// CollectionKeyword is appended to every article's keyword list when set.
	CollectionKeyword string

	// FilePause is the courtesy pause between files, respecting the
	// external service's rate limits.
	FilePause time.Duration
}

// Pipeline runs the geoparse import over a directory of XML files.
type Pipeline struct {
	registry  *schemas.Registry
	annotator geoparse.Annotator
	articles  *output.ArticlesWriter
	locations *output.LocationsWriter
	runLog    *output.RunLog
	logger    zerolog.Logger
	metrics   *observability.Metrics
	opts      Options

	counts output.RunCounts
	pause  *rate.Limiter
}

// New creates a pipeline. metrics may be nil when metrics are disabled.
func New(
	registry *schemas.Registry,
	annotator geoparse.Annotator,
	articles *output.ArticlesWriter,
	locations *output.LocationsWriter,
	runLog *output.RunLog,
	logger zerolog.Logger,
	metrics *observability.Metrics,
	opts Options,
) *Pipeline {
	p := &Pipeline{
		registry:  registry,
		annotator: annotator,
		articles:  articles,
		locations: locations,
		runLog:    runLog,
		logger:    logger,
		metrics:   metrics,
		opts:      opts,
	}
	if opts.FilePause > 0 {
		p.pause = rate.NewLimiter(rate.Every(opts.FilePause), 1)
	}
	return p
}

// Run processes every XML file under the input directory in traversal order
// and returns the final counts. Per-file failures are contained: they are
// logged, counted, and processing continues with the next file. Only context
// cancellation and a missing input directory abort the run.
func (p *Pipeline) Run(ctx context.Context) (output.RunCounts, error) {
	files, err := p.collectFiles()
	if err != nil {
		return p.counts, err
	}
	p.logger.Info().Int("files", len(files)).Str("input_dir", p.opts.InputDir).Msg("starting run")

	for _, path := range files {
		if err := p.processFile(ctx, path); err != nil {
			return p.counts, err
		}
		if p.pause != nil {
			// Pause for a moment to keep the API happy.
			if err := p.pause.Wait(ctx); err != nil {
				return p.counts, err
			}
		}
	}

	p.logger.Info().
		Int("articles", p.counts.Articles).
		Int("errors", p.counts.Errors).
		Int("no_authors", p.counts.NoAuthors).
		Int("unknown_schema", p.counts.SkippedUnknown).
		Int("written", p.counts.ArticlesWritten).
		Int("geotagged", p.counts.GeoTagged).
		Int("locations", p.counts.Locations).
		Msg("finished run")

	return p.counts, nil
}

// Counts returns the accumulated run counts.
func (p *Pipeline) Counts() output.RunCounts {
	return p.counts
}

// collectFiles walks the input tree and returns the XML file paths in
// lexical traversal order.
func (p *Pipeline) collectFiles() ([]string, error) {
	var files []string
	err := filepath.WalkDir(p.opts.InputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".xml") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk input dir: %w", err)
	}
	return files, nil
}

// processFile runs one XML file to completion. Returns an error only when the
// run itself must stop (context cancellation); everything else is contained.
func (p *Pipeline) processFile(ctx context.Context, path string) error {
	name := filepath.Base(path)
	logger := observability.WithFileContext(p.logger, name, "")
	start := time.Now()

	logger.Info().Msg("processing article")
	_ = p.runLog.Message("Processing %s", name)
	p.counts.Articles++
	if p.metrics != nil {
		p.metrics.RecordArticleProcessed()
		defer func() { p.metrics.RecordFileDuration(time.Since(start).Seconds()) }()
	}

	errored := false
	fileError := func(err error, msg string) {
		logger.Error().Err(err).Msg(msg)
		_ = p.runLog.Message("%s", msg)
		if !errored {
			errored = true
			p.counts.Errors++
			if p.metrics != nil {
				p.metrics.RecordArticleError()
			}
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fileError(err, "Error reading article file: "+name)
		return nil
	}

	doc, err := xmldoc.Parse(bytes.NewReader(data))
	if err != nil {
		fileError(err, "Error parsing article XML: "+name)
		return nil
	}

	article, err := p.registry.Resolve(doc, name, schemas.Options{
		CollectionKeyword: p.opts.CollectionKeyword,
	})
	switch {
	case errors.Is(err, domain.ErrUnknownSchema):
		logger.Warn().Msg("unknown XML format, skipping")
		_ = p.runLog.Message("Unknown XML format in %s. Skipping this article.", name)
		p.counts.SkippedUnknown++
		if p.metrics != nil {
			p.metrics.RecordArticleSkipped("unknown_schema")
		}
		return nil
	case errors.Is(err, domain.ErrNoAuthors):
		logger.Warn().Msg("no authors found, skipping")
		_ = p.runLog.Message("No authors found for %s. Skipping this article.", name)
		p.counts.NoAuthors++
		if p.metrics != nil {
			p.metrics.RecordArticleSkipped("no_authors")
		}
		return nil
	case err != nil:
		fileError(err, "Error building article record for "+name)
		return nil
	}
	logger = observability.WithFileContext(p.logger, name, article.DOI)
	ctx = observability.WithSourceFile(ctx, name, article.DOI)

	segments, segErr := segment.Extract(article)

	articleLocs, annErr := p.submitSegments(ctx, logger, segments)
	if annErr != nil {
		if ctxErr := context.Cause(ctx); ctxErr != nil {
			return annErr
		}
		fileError(annErr, "Error in parsing article text for place names: "+name)
	} else if segErr != nil {
		// Earlier segments were still submitted; the malformed section is
		// an error for this file.
		fileError(segErr, "Error in parsing article text for place names: "+name)
	}

	if articleLocs > 0 {
		p.counts.GeoTagged++
		if p.metrics != nil {
			p.metrics.RecordArticleGeoTagged()
		}
	}

	// Location parsing and article metadata are independent failure domains:
	// a gateway error does not block the article row.
	if p.opts.AllArticles || articleLocs > 0 {
		if err := p.articles.Write(article); err != nil {
			fileError(err, "Error writing record for "+name+" - "+article.Title)
			return nil
		}
		p.counts.ArticlesWritten++
		if p.metrics != nil {
			p.metrics.RecordArticleWritten()
		}
	}

	return nil
}

// submitSegments sends each segment to the annotation gateway and writes the
// resulting records. It returns the number of found locations, stopping at
// the first gateway failure so the remaining segments for this file are
// skipped, matching the one-failure-per-file containment policy.
func (p *Pipeline) submitSegments(ctx context.Context, logger zerolog.Logger, segments []domain.Segment) (int, error) {
	parser := p.annotator.Parser()
	found := 0

	for _, seg := range segments {
		segLogger := observability.WithSegmentContext(logger, string(seg.Level), seg.Section)
		segLogger.Debug().Int("nchar", seg.CharCount()).Msg("submitting segment")
		if p.metrics != nil {
			p.metrics.RecordSegmentSubmitted(string(seg.Level))
		}

		start := time.Now()
		anns, err := p.annotator.Annotate(ctx, seg.Text)
		if err != nil {
			if p.metrics != nil {
				p.metrics.RecordGatewayRequestFailed(string(parser), errorType(err))
			}
			return found, err
		}
		if p.metrics != nil {
			p.metrics.RecordGatewayRequest(string(parser), time.Since(start).Seconds())
		}

		records := geoparse.AssembleRecords(seg, parser, anns)
		if err := p.locations.WriteSegment(records); err != nil {
			return found, err
		}

		segFound := 0
		for _, rec := range records {
			if rec.Found {
				segFound++
			}
		}
		found += segFound
		p.counts.Locations += segFound
		if p.metrics != nil && segFound > 0 {
			p.metrics.RecordLocationsFound(segFound)
		}
	}

	return found, nil
}

// errorType classifies a gateway error for the failure metric label.
func errorType(err error) string {
	var apiErr *domain.ExternalAPIError
	switch {
	case errors.As(err, &apiErr):
		return fmt.Sprintf("status_%d", apiErr.StatusCode)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "transport"
	}
}
