package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var requestDurationBuckets = []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

// Metrics holds the Prometheus instruments emitted by the client.
type Metrics struct {
	// Transport metrics
	RequestsTotal       *prometheus.CounterVec
	RequestDuration     *prometheus.HistogramVec
	CircuitBreakerState *prometheus.GaugeVec

	// Query controller metrics
	FetchesTotal    *prometheus.CounterVec
	RetriesTotal    *prometheus.CounterVec
	ThrottledTotal  *prometheus.CounterVec
	SuppressedTotal *prometheus.CounterVec

	// Lookup cache metrics
	LookupCacheHitsTotal   *prometheus.CounterVec
	LookupCacheMissesTotal *prometheus.CounterVec
}

// InitMetrics creates and registers all Prometheus metric instruments.
func InitMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trustidity_client_requests_total",
			Help: "Total number of backend requests.",
		}, []string{"method", "path", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trustidity_client_request_duration_seconds",
			Help:    "Backend request duration in seconds.",
			Buckets: requestDurationBuckets,
		}, []string{"method", "path"}),
		CircuitBreakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "trustidity_client_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open).",
		}, []string{"host"}),

		FetchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trustidity_client_fetches_total",
			Help: "Total list fetches by terminal outcome.",
		}, []string{"resource", "outcome"}),
		RetriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trustidity_client_retries_total",
			Help: "Total throttle retries.",
		}, []string{"resource"}),
		ThrottledTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trustidity_client_throttled_total",
			Help: "Total throttled (429) responses observed.",
		}, []string{"resource"}),
		SuppressedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trustidity_client_suppressed_triggers_total",
			Help: "Total fetch triggers dropped because a request was in flight.",
		}, []string{"resource"}),

		LookupCacheHitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trustidity_client_lookup_cache_hits_total",
			Help: "Total facet lookup cache hits.",
		}, []string{"lookup_id"}),
		LookupCacheMissesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trustidity_client_lookup_cache_misses_total",
			Help: "Total facet lookup cache misses.",
		}, []string{"lookup_id"}),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.CircuitBreakerState,
		m.FetchesTotal,
		m.RetriesTotal,
		m.ThrottledTotal,
		m.SuppressedTotal,
		m.LookupCacheHitsTotal,
		m.LookupCacheMissesTotal,
	)

	return m
}

// RecordRequest records a completed backend request.
func (m *Metrics) RecordRequest(method, path string, status int, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// SetCircuitBreakerState sets the breaker gauge. State: 0=closed, 1=half-open, 2=open.
func (m *Metrics) SetCircuitBreakerState(host string, state float64) {
	m.CircuitBreakerState.WithLabelValues(host).Set(state)
}

// RecordFetch records the terminal outcome of a controller fetch.
func (m *Metrics) RecordFetch(resource, outcome string) {
	m.FetchesTotal.WithLabelValues(resource, outcome).Inc()
}

// RecordRetry records one throttle retry.
func (m *Metrics) RecordRetry(resource string) {
	m.RetriesTotal.WithLabelValues(resource).Inc()
}

// RecordThrottled records one throttled response.
func (m *Metrics) RecordThrottled(resource string) {
	m.ThrottledTotal.WithLabelValues(resource).Inc()
}

// RecordSuppressed records one dropped trigger.
func (m *Metrics) RecordSuppressed(resource string) {
	m.SuppressedTotal.WithLabelValues(resource).Inc()
}

// RecordLookupCacheHit records a facet lookup cache hit.
func (m *Metrics) RecordLookupCacheHit(lookupID string) {
	m.LookupCacheHitsTotal.WithLabelValues(lookupID).Inc()
}

// RecordLookupCacheMiss records a facet lookup cache miss.
func (m *Metrics) RecordLookupCacheMiss(lookupID string) {
	m.LookupCacheMissesTotal.WithLabelValues(lookupID).Inc()
}
