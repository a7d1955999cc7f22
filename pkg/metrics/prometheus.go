package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "trendwatch"

// Recorder collects service metrics on its own registry.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	evaluations  *prometheus.CounterVec
	fetchErrors  *prometheus.CounterVec
	cacheLookups *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	lastRefresh  prometheus.Gauge
	cards        *prometheus.GaugeVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "evaluations_total",
				Help:      "Total number of quote evaluations by status and signal",
			},
			[]string{"status", "signal"},
		),
		fetchErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetch_errors_total",
				Help:      "Total number of provider errors by kind",
			},
			[]string{"kind"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "quote_cache_lookups_total",
				Help:      "Quote cache lookups by result",
			},
			[]string{"result"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Duration of operations in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		lastRefresh: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_refresh_timestamp_seconds",
				Help:      "Unix time of the last completed watch-list refresh",
			},
		),
		cards: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "snapshot_cards",
				Help:      "Cards in the latest snapshot by status",
			},
			[]string{"status"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"route", "method"},
		),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.evaluations,
		r.fetchErrors,
		r.cacheLookups,
		r.latency,
		r.lastRefresh,
		r.cards,
		r.httpRequests,
		r.httpDuration,
	)

	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// RecordEvaluation records one evaluation result.
func (r *Recorder) RecordEvaluation(status, signal string) {
	if r == nil {
		return
	}
	r.evaluations.WithLabelValues(status, signal).Inc()
}

// RecordFetchError records a provider error of the given kind.
func (r *Recorder) RecordFetchError(kind string) {
	if r == nil {
		return
	}
	r.fetchErrors.WithLabelValues(kind).Inc()
}

// RecordCacheLookup records a quote cache hit or miss.
func (r *Recorder) RecordCacheLookup(hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(result).Inc()
}

// RecordLatency records operation latency.
func (r *Recorder) RecordLatency(op string, d time.Duration) {
	if r == nil {
		return
	}
	r.latency.WithLabelValues(op).Observe(d.Seconds())
}

// RecordSnapshot records the completion time and status breakdown of a refresh.
func (r *Recorder) RecordSnapshot(at time.Time, byStatus map[string]int) {
	if r == nil {
		return
	}
	r.lastRefresh.Set(float64(at.Unix()))
	r.cards.Reset()
	for status, n := range byStatus {
		r.cards.WithLabelValues(status).Set(float64(n))
	}
}

// RecordHTTPRequest records one served HTTP request.
func (r *Recorder) RecordHTTPRequest(route, method string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(route, method).Observe(d.Seconds())
}
