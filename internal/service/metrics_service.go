package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and the
// scheduling runs it performs.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	runDuration     prometheus.Histogram
	runsTotal       *prometheus.CounterVec
	sessionsPlaced  prometheus.Counter
	sessionsDropped prometheus.Counter
	storeHits       prometheus.Counter
	storeMisses     prometheus.Counter
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	runDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_run_duration_seconds",
		Help:    "Duration of scheduling runs",
		Buckets: prometheus.DefBuckets,
	})

	runsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_runs_total",
		Help: "Total scheduling runs by outcome",
	}, []string{"outcome"})

	sessionsPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_sessions_placed_total",
		Help: "Total sessions placed across all runs",
	})

	sessionsDropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_sessions_unplaced_total",
		Help: "Total sessions left unplaced across all runs",
	})

	storeHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "result_store_hits_total",
		Help: "Result lookups that found a stored run",
	})

	storeMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "result_store_misses_total",
		Help: "Result lookups for unknown or expired tokens",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, runDuration, runsTotal,
		sessionsPlaced, sessionsDropped, storeHits, storeMisses, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		runDuration:     runDuration,
		runsTotal:       runsTotal,
		sessionsPlaced:  sessionsPlaced,
		sessionsDropped: sessionsDropped,
		storeHits:       storeHits,
		storeMisses:     storeMisses,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveRun records the outcome of one scheduling run.
func (m *MetricsService) ObserveRun(placed, unplaced int, duration time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.runsTotal.WithLabelValues(outcome).Inc()
	if err != nil {
		return
	}
	m.runDuration.Observe(duration.Seconds())
	m.sessionsPlaced.Add(float64(placed))
	m.sessionsDropped.Add(float64(unplaced))
}

// ObserveStoreLookup records whether a token lookup hit a stored result.
func (m *MetricsService) ObserveStoreLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.storeHits.Inc()
	} else {
		m.storeMisses.Inc()
	}
}
