package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for exposure checks.
// All methods are safe to call on a nil receiver so components can run unmetered.
type Metrics struct {
	ProviderRequests      *prometheus.CounterVec
	ProviderLatency       *prometheus.HistogramVec
	CacheLookups          *prometheus.CounterVec
	FreshChecks           *prometheus.CounterVec
	PasswordChecks        *prometheus.CounterVec
	BulkItems             *prometheus.CounterVec
	SecurityEvents        prometheus.Counter
	SecurityEventFailures prometheus.Counter
	RetentionDeleted      prometheus.Counter
	RelayedEvents         *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ProviderRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "breachwatch_provider_requests_total",
			Help: "Provider requests by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),
		ProviderLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "breachwatch_provider_request_duration_seconds",
			Help:    "Provider request latency by endpoint",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "breachwatch_cache_lookups_total",
			Help: "Result cache lookups by result (hit, miss, stale)",
		}, []string{"result"}),
		FreshChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "breachwatch_fresh_checks_total",
			Help: "Fresh breach+paste checks by outcome (compromised, clean, error)",
		}, []string{"outcome"}),
		PasswordChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "breachwatch_password_checks_total",
			Help: "Password range checks by outcome (compromised, clean, error)",
		}, []string{"outcome"}),
		BulkItems: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "breachwatch_bulk_items_total",
			Help: "Bulk check items by outcome (ok, failed)",
		}, []string{"outcome"}),
		SecurityEvents: factory.NewCounter(prometheus.CounterOpts{
			Name: "breachwatch_security_events_total",
			Help: "Security events appended for compromised emails",
		}),
		SecurityEventFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "breachwatch_security_event_failures_total",
			Help: "Security event appends that failed and were swallowed",
		}),
		RetentionDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "breachwatch_retention_deleted_total",
			Help: "Cached checks removed by the retention worker",
		}),
		RelayedEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "breachwatch_relayed_events_total",
			Help: "Consumed security events by outcome (stored, skipped, failed)",
		}, []string{"outcome"}),
	}
}

// ObserveProviderRequest records a provider call.
func (m *Metrics) ObserveProviderRequest(endpoint, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ProviderRequests.WithLabelValues(endpoint, outcome).Inc()
	m.ProviderLatency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

func (m *Metrics) RecordCacheHit() {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues("hit").Inc()
}

func (m *Metrics) RecordCacheMiss() {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues("miss").Inc()
}

func (m *Metrics) RecordCacheStale() {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues("stale").Inc()
}

func (m *Metrics) RecordFreshCheck(outcome string) {
	if m == nil {
		return
	}
	m.FreshChecks.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordPasswordCheck(outcome string) {
	if m == nil {
		return
	}
	m.PasswordChecks.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordBulkItem(outcome string) {
	if m == nil {
		return
	}
	m.BulkItems.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementSecurityEvents() {
	if m == nil {
		return
	}
	m.SecurityEvents.Inc()
}

func (m *Metrics) IncrementSecurityEventFailures() {
	if m == nil {
		return
	}
	m.SecurityEventFailures.Inc()
}

func (m *Metrics) AddRetentionDeleted(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.RetentionDeleted.Add(float64(n))
}

func (m *Metrics) RecordRelayedEvent(outcome string) {
	if m == nil {
		return
	}
	m.RelayedEvents.WithLabelValues(outcome).Inc()
}
