// Package observability exposes Prometheus metrics for the engine and
// its HTTP surface. All Metrics methods are nil-safe so callers can
// run without metrics wired up.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	refreshTotal      prometheus.Counter
	refreshErrors     prometheus.Counter
	refreshDuration   prometheus.Histogram
	rowsEngineered    prometheus.Counter
	predictionsTotal  prometheus.Counter
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	modelAccuracy     prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		refreshTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dataset_refresh_total",
			Help: "Total dataset refresh cycles attempted.",
		}),
		refreshErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dataset_refresh_errors_total",
			Help: "Total dataset refresh cycles that failed.",
		}),
		refreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dataset_refresh_duration_seconds",
			Help:    "Histogram of end-to-end refresh cycle durations.",
			Buckets: prometheus.DefBuckets,
		}),
		rowsEngineered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rows_engineered_total",
			Help: "Total observation rows run through feature engineering.",
		}),
		predictionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "predictions_total",
			Help: "Total burnout category predictions produced.",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total snapshot cache hits observed.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total snapshot cache misses observed.",
		}),
		modelAccuracy: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "model_holdout_accuracy",
			Help: "Held-out accuracy of the currently served model.",
		}),
	}

	prometheus.MustRegister(
		m.httpRequestsTotal,
		m.httpDuration,
		m.refreshTotal,
		m.refreshErrors,
		m.refreshDuration,
		m.rowsEngineered,
		m.predictionsTotal,
		m.cacheHits,
		m.cacheMisses,
		m.modelAccuracy,
	)

	return m
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// WrapHandler records request counts and durations for one route
func (m *Metrics) WrapHandler(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		duration := time.Since(start).Seconds()
		if m != nil {
			m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
			m.httpDuration.WithLabelValues(route).Observe(duration)
		}
	})
}

// Handler serves the Prometheus exposition endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}

// RefreshCompleted records one refresh cycle and its outcome
func (m *Metrics) RefreshCompleted(duration time.Duration, success bool) {
	if m == nil {
		return
	}
	m.refreshTotal.Inc()
	m.refreshDuration.Observe(duration.Seconds())
	if !success {
		m.refreshErrors.Inc()
	}
}

// RowsEngineered adds to the running count of engineered rows
func (m *Metrics) RowsEngineered(n int) {
	if m == nil {
		return
	}
	m.rowsEngineered.Add(float64(n))
}

// PredictionsScored adds to the running count of scored rows
func (m *Metrics) PredictionsScored(n int) {
	if m == nil {
		return
	}
	m.predictionsTotal.Add(float64(n))
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

// SetModelAccuracy publishes the held-out accuracy of the model
// currently serving predictions
func (m *Metrics) SetModelAccuracy(accuracy float64) {
	if m == nil {
		return
	}
	m.modelAccuracy.Set(accuracy)
}
