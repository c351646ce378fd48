// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Feed metrics
	FeedBuildsTotal  *prometheus.CounterVec
	FeedItemsTotal   *prometheus.CounterVec
	FeedBuildLatency prometheus.Histogram
	SourceErrors     *prometheus.CounterVec

	// Normalization metrics
	RecordsNormalized *prometheus.CounterVec
	RecordsDropped    *prometheus.CounterVec

	// Deep-scan metrics
	DeepScansTotal  *prometheus.CounterVec
	LookupsTotal    *prometheus.CounterVec
	DeepScanLatency prometheus.Histogram

	// Upstream latency metrics
	RPCCallLatency      *prometheus.HistogramVec
	ExplorerCallLatency *prometheus.HistogramVec
	PairSearchLatency   prometheus.Histogram

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastLiveFeed prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "base_signal_radar"
	}

	return &Metrics{
		// Feed metrics
		FeedBuildsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "builds_total",
			Help:      "Total number of feed builds by provenance",
		}, []string{"source"}),
		FeedItemsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "items_total",
			Help:      "Total number of feed items by tier and anomaly",
		}, []string{"tier", "anomaly"}),
		FeedBuildLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "build_latency_seconds",
			Help:      "Feed build latency in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		}),
		SourceErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "source_errors_total",
			Help:      "Total number of upstream source failures by source",
		}, []string{"source"}),

		// Normalization metrics
		RecordsNormalized: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "normalization",
			Name:      "records_total",
			Help:      "Total number of upstream records normalized by kind",
		}, []string{"kind"}),
		RecordsDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "normalization",
			Name:      "records_dropped_total",
			Help:      "Total number of upstream records dropped by reason",
		}, []string{"reason"}),

		// Deep-scan metrics
		DeepScansTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "deepscan",
			Name:      "scans_total",
			Help:      "Total number of deep scans by outcome",
		}, []string{"outcome"}),
		LookupsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "deepscan",
			Name:      "lookups_total",
			Help:      "Total number of deep-scan lookups by lookup and status",
		}, []string{"lookup", "status"}),
		DeepScanLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "deepscan",
			Name:      "latency_seconds",
			Help:      "Deep scan latency in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 20},
		}),

		// Upstream latency metrics
		RPCCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "evm",
			Name:      "rpc_call_latency_seconds",
			Help:      "EVM RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		ExplorerCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "explorer",
			Name:      "call_latency_seconds",
			Help:      "Block explorer API latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"action"}),
		PairSearchLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pairsearch",
			Name:      "call_latency_seconds",
			Help:      "Pair search API latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		// HTTP metrics
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route and status",
		}, []string{"route", "status"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Health metrics
		LastLiveFeed: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_live_feed_timestamp",
			Help:      "Unix timestamp of the last feed built from live data",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordFeedBuild records a feed build with its provenance.
func RecordFeedBuild(source string, seconds float64, unixNow int64) {
	DefaultMetrics.FeedBuildsTotal.WithLabelValues(source).Inc()
	DefaultMetrics.FeedBuildLatency.Observe(seconds)
	if source == "live" {
		DefaultMetrics.LastLiveFeed.Set(float64(unixNow))
	}
}

// RecordFeedItem records one scored feed item.
func RecordFeedItem(tier, anomaly string) {
	DefaultMetrics.FeedItemsTotal.WithLabelValues(tier, anomaly).Inc()
}

// RecordSourceError records an upstream source failure.
func RecordSourceError(source string) {
	DefaultMetrics.SourceErrors.WithLabelValues(source).Inc()
}

// RecordNormalized records a normalized upstream record.
func RecordNormalized(kind string) {
	DefaultMetrics.RecordsNormalized.WithLabelValues(kind).Inc()
}

// RecordDropped records an upstream record that could not be normalized.
func RecordDropped(reason string) {
	DefaultMetrics.RecordsDropped.WithLabelValues(reason).Inc()
}

// RecordDeepScan records a deep scan outcome ("complete", "partial", "failed").
func RecordDeepScan(outcome string, seconds float64) {
	DefaultMetrics.DeepScansTotal.WithLabelValues(outcome).Inc()
	DefaultMetrics.DeepScanLatency.Observe(seconds)
}

// RecordLookup records a single deep-scan lookup result.
func RecordLookup(lookup string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	DefaultMetrics.LookupsTotal.WithLabelValues(lookup, status).Inc()
}

// RecordRPCLatency records RPC call latency.
func RecordRPCLatency(method string, seconds float64) {
	DefaultMetrics.RPCCallLatency.WithLabelValues(method).Observe(seconds)
}

// RecordExplorerLatency records explorer API latency.
func RecordExplorerLatency(action string, seconds float64) {
	DefaultMetrics.ExplorerCallLatency.WithLabelValues(action).Observe(seconds)
}

// RecordPairSearchLatency records pair search API latency.
func RecordPairSearchLatency(seconds float64) {
	DefaultMetrics.PairSearchLatency.Observe(seconds)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(route string, status int, seconds float64) {
	DefaultMetrics.HTTPRequestsTotal.WithLabelValues(route, statusClass(status)).Inc()
	DefaultMetrics.HTTPRequestDuration.WithLabelValues(route).Observe(seconds)
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
