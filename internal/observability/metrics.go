// Package observability holds the Prometheus collectors for the webhook
// gateway and the handler that exposes them.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics aggregates the gateway's Prometheus collectors. Construct once at
// startup with NewMetrics and inject where needed; a nil *Metrics disables
// every recording method, so callers never need to guard.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	replaysTotal        prometheus.Counter
	signatureRejections prometheus.Counter
	spamChecksTotal     *prometheus.CounterVec
	journalErrorsTotal  prometheus.Counter
}

// NewMetrics creates and registers the gateway collectors on a private
// registry, keeping the /metrics output free of unrelated default
// collectors except the standard process/go ones.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hookgate",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Webhook deliveries by method, route id and status.",
		}, []string{"method", "route", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hookgate",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Full chain latency per delivery.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"method", "route"}),

		replaysTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "hookgate",
			Subsystem: "idempotency",
			Name:      "replays_total",
			Help:      "Duplicate deliveries answered from the idempotency cache.",
		}),

		signatureRejections: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "hookgate",
			Subsystem: "signature",
			Name:      "rejections_total",
			Help:      "Deliveries rejected by signature verification.",
		}),

		spamChecksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hookgate",
			Subsystem: "spam",
			Name:      "checks_total",
			Help:      "Spam classifications by resolving pass and verdict.",
		}, []string{"method", "verdict"}),

		journalErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "hookgate",
			Subsystem: "journal",
			Name:      "write_errors_total",
			Help:      "Delivery-journal writes that failed.",
		}),
	}
}

// Handler returns the HTTP handler serving the /metrics exposition.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one finished delivery.
func (m *Metrics) ObserveRequest(method, routeID string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, routeID, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, routeID).Observe(duration.Seconds())
}

// ObserveReplay counts a delivery answered from the idempotency cache.
func (m *Metrics) ObserveReplay() {
	if m == nil {
		return
	}
	m.replaysTotal.Inc()
}

// ObserveSignatureRejection counts a 401 produced by the signature stage.
func (m *Metrics) ObserveSignatureRejection() {
	if m == nil {
		return
	}
	m.signatureRejections.Inc()
}

// ObserveSpamCheck records one classification outcome. method is the pass
// that resolved it (fast_rule, gpt, fallback, error).
func (m *Metrics) ObserveSpamCheck(method string, isSpam bool) {
	if m == nil {
		return
	}
	verdict := "ham"
	if isSpam {
		verdict = "spam"
	}
	m.spamChecksTotal.WithLabelValues(method, verdict).Inc()
}

// ObserveJournalError counts a failed journal write.
func (m *Metrics) ObserveJournalError() {
	if m == nil {
		return
	}
	m.journalErrorsTotal.Inc()
}
