package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	// IncAPICalls counts upstream YouTube calls by operation and outcome.
	IncAPICalls(operation, outcome string)
	SetTrackedActions(count int)
	ObserveRun(outcome string, duration time.Duration)
	// Handler exposes the collected metrics; nil when metrics are disabled.
	Handler() http.Handler
}

type PrometheusMetrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	apiCalls        *prometheus.CounterVec
	trackedActions  prometheus.Gauge
	runDuration     *prometheus.HistogramVec
}

func NewMetrics(enabled bool) Metrics {
	if !enabled {
		return NoopMetrics{}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &PrometheusMetrics{
		registry: reg,

		requestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "coach_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "coach_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: f.NewCounter(prometheus.CounterOpts{
			Name: "coach_cache_hits_total",
			Help: "Total number of record cache hits",
		}),

		cacheMisses: f.NewCounter(prometheus.CounterOpts{
			Name: "coach_cache_misses_total",
			Help: "Total number of record cache misses",
		}),

		apiCalls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "coach_youtube_calls_total",
			Help: "Total number of YouTube API calls",
		}, []string{"operation", "outcome"}),

		trackedActions: f.NewGauge(prometheus.GaugeOpts{
			Name: "coach_tracked_actions",
			Help: "Number of tracked recommendations",
		}),

		runDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "coach_run_duration_seconds",
			Help:    "Duration of scheduled runs in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
		}, []string{"outcome"}),
	}
}

func (m *PrometheusMetrics) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *PrometheusMetrics) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *PrometheusMetrics) IncCacheHits()   { m.cacheHits.Inc() }
func (m *PrometheusMetrics) IncCacheMisses() { m.cacheMisses.Inc() }

func (m *PrometheusMetrics) IncAPICalls(operation, outcome string) {
	m.apiCalls.WithLabelValues(operation, outcome).Inc()
}

func (m *PrometheusMetrics) SetTrackedActions(count int) {
	m.trackedActions.Set(float64(count))
}

func (m *PrometheusMetrics) ObserveRun(outcome string, duration time.Duration) {
	m.runDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

// NoopMetrics is used when metrics are disabled.
type NoopMetrics struct{}

func (NoopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (NoopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (NoopMetrics) IncCacheHits()                                    {}
func (NoopMetrics) IncCacheMisses()                                  {}
func (NoopMetrics) IncAPICalls(_, _ string)                          {}
func (NoopMetrics) SetTrackedActions(_ int)                          {}
func (NoopMetrics) ObserveRun(_ string, _ time.Duration)             {}
func (NoopMetrics) Handler() http.Handler                            { return nil }
