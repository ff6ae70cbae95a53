package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the geoparse pipeline.
// Metrics are organized by subsystem: articles, segments, and the external
// geolocation gateway. All counters and histograms are registered via
// promauto for automatic registration with the default Prometheus registry.
type Metrics struct {
	// ArticlesProcessed counts XML files that began processing.
	ArticlesProcessed prometheus.Counter

	// ArticlesSkipped counts files skipped before an Article was produced,
	// labeled by reason (e.g. "unknown_schema", "no_authors").
	ArticlesSkipped *prometheus.CounterVec

	// ArticleErrors counts files that hit a processing or write error.
	ArticleErrors prometheus.Counter

	// ArticlesWritten counts rows written to the articles CSV.
	ArticlesWritten prometheus.Counter

	// ArticlesGeoTagged counts articles with at least one found location.
	ArticlesGeoTagged prometheus.Counter

	// FileDuration observes per-file processing duration in seconds.
	FileDuration prometheus.Histogram

	// SegmentsSubmitted counts segments sent for geoparsing, labeled by level.
	SegmentsSubmitted *prometheus.CounterVec

	// LocationsFound counts found location records across all segments.
	LocationsFound prometheus.Counter

	// GatewayRequestsTotal counts requests to the geolocation service, labeled by parser.
	GatewayRequestsTotal *prometheus.CounterVec

	// GatewayRequestsFailed counts failed requests to the geolocation service,
	// labeled by parser and error type.
	GatewayRequestsFailed *prometheus.CounterVec

	// GatewayRequestDuration observes geolocation request duration in seconds, labeled by parser.
	GatewayRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The namespace is used as a prefix for all metric names.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		// Articles
		ArticlesProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_processed_total",
			Help:      "Total number of XML files that began processing",
		}),
		ArticlesSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_skipped_total",
			Help:      "Total number of files skipped before an article was produced",
		}, []string{"reason"}),
		ArticleErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "article_errors_total",
			Help:      "Total number of files that hit a processing or write error",
		}),
		ArticlesWritten: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_written_total",
			Help:      "Total number of rows written to the articles CSV",
		}),
		ArticlesGeoTagged: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_geotagged_total",
			Help:      "Total number of articles with at least one found location",
		}),
		FileDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "file_duration_seconds",
			Help:      "Duration of per-file processing in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}),

		// Segments
		SegmentsSubmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segments_submitted_total",
			Help:      "Total number of segments sent for geoparsing by level",
		}, []string{"level"}),
		LocationsFound: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "locations_found_total",
			Help:      "Total number of found location records",
		}),

		// Gateway
		GatewayRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_requests_total",
			Help:      "Total number of requests to the geolocation service",
		}, []string{"parser"}),
		GatewayRequestsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_requests_failed_total",
			Help:      "Total number of failed requests to the geolocation service",
		}, []string{"parser", "error_type"}),
		GatewayRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gateway_request_duration_seconds",
			Help:      "Duration of geolocation service requests in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		}, []string{"parser"}),
	}
}

// RecordArticleProcessed records that a file began processing.
func (m *Metrics) RecordArticleProcessed() {
	m.ArticlesProcessed.Inc()
}

// RecordArticleSkipped records a file skipped before producing an article.
func (m *Metrics) RecordArticleSkipped(reason string) {
	m.ArticlesSkipped.WithLabelValues(reason).Inc()
}

// RecordArticleError records a processing or write error for a file.
func (m *Metrics) RecordArticleError() {
	m.ArticleErrors.Inc()
}

// RecordArticleWritten records a row written to the articles CSV.
func (m *Metrics) RecordArticleWritten() {
	m.ArticlesWritten.Inc()
}

// RecordArticleGeoTagged records an article with at least one found location.
func (m *Metrics) RecordArticleGeoTagged() {
	m.ArticlesGeoTagged.Inc()
}

// RecordFileDuration records the processing duration of one file.
func (m *Metrics) RecordFileDuration(durationSeconds float64) {
	m.FileDuration.Observe(durationSeconds)
}

// RecordSegmentSubmitted records a segment sent for geoparsing.
func (m *Metrics) RecordSegmentSubmitted(level string) {
	m.SegmentsSubmitted.WithLabelValues(level).Inc()
}

// RecordLocationsFound records found location records for a segment.
func (m *Metrics) RecordLocationsFound(count int) {
	m.LocationsFound.Add(float64(count))
}

// RecordGatewayRequest records a request to the geolocation service.
func (m *Metrics) RecordGatewayRequest(parser string, durationSeconds float64) {
	m.GatewayRequestsTotal.WithLabelValues(parser).Inc()
	m.GatewayRequestDuration.WithLabelValues(parser).Observe(durationSeconds)
}

// RecordGatewayRequestFailed records a failed request to the geolocation service.
func (m *Metrics) RecordGatewayRequestFailed(parser, errorType string) {
	m.GatewayRequestsFailed.WithLabelValues(parser, errorType).Inc()
}
