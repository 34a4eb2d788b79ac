package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AIMetrics records call metadata for the generative insight gateway.
type AIMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	unparsed *prometheus.CounterVec
}

// NewAIMetrics registers the AI call metrics on the provided registerer.
func NewAIMetrics(reg prometheus.Registerer) *AIMetrics {
	if reg == nil {
		return &AIMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ai_call_duration_seconds",
		Help:    "Duration of generative API calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ai_call_success",
		Help: "Successful generative API calls.",
	}, []string{"operation"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ai_call_failure",
		Help: "Failed generative API calls.",
	}, []string{"operation"})
	unparsed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ai_response_unparseable",
		Help: "Generative responses that failed structured parsing.",
	}, []string{"operation"})
	reg.MustRegister(duration, success, failure, unparsed)
	return &AIMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		unparsed: unparsed,
	}
}

// ObserveDuration records the duration for the named operation.
func (m *AIMetrics) ObserveDuration(operation string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named operation.
func (m *AIMetrics) IncSuccess(operation string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncFailure increments the failure counter for the named operation.
func (m *AIMetrics) IncFailure(operation string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncUnparseable increments the unparseable-response counter.
func (m *AIMetrics) IncUnparseable(operation string) {
	if m == nil || m.unparsed == nil {
		return
	}
	m.unparsed.WithLabelValues(normalizeLabel(operation)).Inc()
}

// CheckoutMetrics records storefront checkout outcomes.
type CheckoutMetrics struct {
	completed *prometheus.CounterVec
	rejected  *prometheus.CounterVec
}

// NewCheckoutMetrics registers checkout counters on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	completed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_completed",
		Help: "Orders placed successfully.",
	}, []string{"store"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_rejected",
		Help: "Checkouts rejected before an order was written.",
	}, []string{"store", "reason"})
	reg.MustRegister(completed, rejected)
	return &CheckoutMetrics{completed: completed, rejected: rejected}
}

// IncCompleted increments the completed counter for a store.
func (m *CheckoutMetrics) IncCompleted(store string) {
	if m == nil || m.completed == nil {
		return
	}
	m.completed.WithLabelValues(normalizeLabel(store)).Inc()
}

// IncRejected increments the rejected counter for a store and reason.
func (m *CheckoutMetrics) IncRejected(store, reason string) {
	if m == nil || m.rejected == nil {
		return
	}
	m.rejected.WithLabelValues(normalizeLabel(store), normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
