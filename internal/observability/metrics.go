// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the scanner.
type Metrics struct {
	// Scan metrics
	ScansTotal   *prometheus.CounterVec
	ScanDuration prometheus.Histogram
	ScanErrors   *prometheus.CounterVec

	// Sub-analysis metrics
	PoolsDiscovered  prometheus.Histogram
	AbsorbedFailures *prometheus.CounterVec

	// Cache metrics
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	// Chain client metrics
	RPCCallLatency *prometheus.HistogramVec
	RPCRetries     prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulScan prometheus.Gauge
	UptimeSeconds      prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "x1_token_scanner"
	}

	return &Metrics{
		ScansTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "scans_total",
			Help:      "Total number of completed scans by risk level",
		}, []string{"risk_level"}),
		ScanDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "duration_seconds",
			Help:      "Full analysis duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		}),
		ScanErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "errors_total",
			Help:      "Total number of failed scans by error kind",
		}, []string{"kind"}),

		PoolsDiscovered: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "pools_per_scan",
			Help:      "Number of pools discovered per scan",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 20},
		}),
		AbsorbedFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "absorbed_failures_total",
			Help:      "Sub-analysis failures degraded to neutral defaults, by stage",
		}, []string{"stage"}),

		CacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Cache hits by namespace",
		}, []string{"cache"}),
		CacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Cache misses by namespace",
		}, []string{"cache"}),

		RPCCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "chain",
			Name:      "rpc_call_latency_seconds",
			Help:      "Chain RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		RPCRetries: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chain",
			Name:      "rpc_retries_total",
			Help:      "Total number of retried RPC calls",
		}),

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

		LastSuccessfulScan: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_scan_timestamp",
			Help:      "Unix timestamp of last successful scan",
		}),
		UptimeSeconds: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "uptime_seconds_total",
			Help:      "Total uptime in seconds",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordScan records one completed scan.
func RecordScan(riskLevel string, seconds float64) {
	DefaultMetrics.ScansTotal.WithLabelValues(riskLevel).Inc()
	DefaultMetrics.ScanDuration.Observe(seconds)
	DefaultMetrics.LastSuccessfulScan.SetToCurrentTime()
}

// RecordScanError records a failed scan by error kind.
func RecordScanError(kind string) {
	DefaultMetrics.ScanErrors.WithLabelValues(kind).Inc()
}

// RecordAbsorbedFailure records a sub-analysis failure that degraded
// to a default instead of failing the scan.
func RecordAbsorbedFailure(stage string) {
	DefaultMetrics.AbsorbedFailures.WithLabelValues(stage).Inc()
}

// RecordCacheHit records a cache hit for the named namespace.
func RecordCacheHit(cache string) {
	DefaultMetrics.CacheHits.WithLabelValues(cache).Inc()
}

// RecordCacheMiss records a cache miss for the named namespace.
func RecordCacheMiss(cache string) {
	DefaultMetrics.CacheMisses.WithLabelValues(cache).Inc()
}

// RecordRPCLatency records RPC call latency.
func RecordRPCLatency(method string, seconds float64) {
	DefaultMetrics.RPCCallLatency.WithLabelValues(method).Observe(seconds)
}

// RecordPoolsDiscovered records how many pools a scan found.
func RecordPoolsDiscovered(n int) {
	DefaultMetrics.PoolsDiscovered.Observe(float64(n))
}

// RecordDBQuery records one database query, timed from start.
func RecordDBQuery(database, operation string, start time.Time, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(time.Since(start).Seconds())
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
