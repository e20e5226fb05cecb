package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	ApplicationsSubmitted prometheus.Counter
	StatusTransitions     *prometheus.CounterVec
	TrackingIDRetries     prometheus.Counter
	TrackingCacheHits     prometheus.Counter
	TrackingCacheMisses   prometheus.Counter
	RequestDuration       *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ApplicationsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "admissio_applications_submitted_total",
			Help: "Total number of applications submitted",
		}),
		StatusTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "admissio_status_transitions_total",
			Help: "Total number of application status transitions",
		}, []string{"from", "to"}),
		TrackingIDRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "admissio_tracking_id_retries_total",
			Help: "Tracking ID candidates discarded after a uniqueness collision",
		}),
		TrackingCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "admissio_tracking_cache_hits_total",
			Help: "Tracking lookups served from the cache",
		}),
		TrackingCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "admissio_tracking_cache_misses_total",
			Help: "Tracking lookups that fell through to the store",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "admissio_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
}

// IncrementApplicationsSubmitted increments the submissions counter by 1.
func (m *Metrics) IncrementApplicationsSubmitted() {
	if m == nil {
		return
	}
	m.ApplicationsSubmitted.Inc()
}

// ObserveStatusTransition records one status transition.
func (m *Metrics) ObserveStatusTransition(from, to string) {
	if m == nil {
		return
	}
	m.StatusTransitions.WithLabelValues(from, to).Inc()
}

// IncrementTrackingRetries records one discarded tracking ID candidate.
func (m *Metrics) IncrementTrackingRetries() {
	if m == nil {
		return
	}
	m.TrackingIDRetries.Inc()
}

// ObserveRequest records one HTTP request observation.
func (m *Metrics) ObserveRequest(route, method, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(route, method, status).Observe(elapsed.Seconds())
}

// CacheHit records a tracking cache hit or miss.
func (m *Metrics) CacheHit(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.TrackingCacheHits.Inc()
		return
	}
	m.TrackingCacheMisses.Inc()
}
