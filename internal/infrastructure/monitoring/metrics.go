// Package monitoring exposes the Prometheus metrics emitted by the assistant
// core: intents handled, model token consumption, and upstream call health.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors for the assistant core. A nil *Metrics is
// valid and records nothing, so tests can run without a registry.
type Metrics struct {
	intentsTotal     *prometheus.CounterVec
	tokensTotal      *prometheus.CounterVec
	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
}

// New creates the metric collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		intentsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "assistant",
			Name:      "intents_total",
			Help:      "Number of user messages handled, by detected intent.",
		}, []string{"intent"}),
		tokensTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "assistant",
			Name:      "model_tokens_total",
			Help:      "Total tokens consumed by model completion calls, by model.",
		}, []string{"model"}),
		upstreamRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "assistant",
			Name:      "upstream_requests_total",
			Help:      "Upstream API calls, by service and outcome.",
		}, []string{"service", "outcome"}),
		upstreamDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "assistant",
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream API call latency, by service.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"service"}),
	}
}

// ObserveIntent records one handled message for the given intent.
func (m *Metrics) ObserveIntent(intent string) {
	if m == nil {
		return
	}
	m.intentsTotal.WithLabelValues(intent).Inc()
}

// AddTokens records tokens consumed by a completion call.
func (m *Metrics) AddTokens(model string, tokens int) {
	if m == nil || tokens <= 0 {
		return
	}
	m.tokensTotal.WithLabelValues(model).Add(float64(tokens))
}

// ObserveUpstream records one upstream call with its latency and outcome.
func (m *Metrics) ObserveUpstream(service string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.upstreamRequests.WithLabelValues(service, outcome).Inc()
	m.upstreamDuration.WithLabelValues(service).Observe(duration.Seconds())
}
