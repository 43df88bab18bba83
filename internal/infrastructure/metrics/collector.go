package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	portsout "freightflow/internal/application/ports/out"
)

// Collector exposes the gateway's resilience and webhook delivery metrics.
type Collector struct {
	registry prometheus.Gatherer

	requestLatency        *prometheus.HistogramVec
	retryAttempts         *prometheus.CounterVec
	breakerOpen           *prometheus.CounterVec
	breakerShortCircuit   *prometheus.CounterVec
	providerErrors        *prometheus.CounterVec
	sandboxOutcomes       *prometheus.CounterVec
	webhookDelivery       *prometheus.CounterVec
	webhookChaosDrop      *prometheus.CounterVec
	webhookChaosDuplicate *prometheus.CounterVec
	webhookPassSkipped    prometheus.Counter
	webhookAlerts         *prometheus.CounterVec
}

var (
	_ portsout.ReliabilityMetrics = (*Collector)(nil)
	_ portsout.WebhookMetrics     = (*Collector)(nil)
)

// NewCollector registers every metric on registry. A nil registry gets a fresh one.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "request_latency_ms",
			Help:    "Carrier operation latency in milliseconds",
			Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}, []string{"provider_id", "operation", "outcome"}),
		retryAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "retry_attempts_total",
			Help: "Failed carrier attempts seen by the retry policy",
		}, []string{"provider_id", "operation", "retryable"}),
		breakerOpen: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "breaker_open_total",
			Help: "Circuit breaker transitions to OPEN",
		}, []string{"provider_id", "operation", "profile"}),
		breakerShortCircuit: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "breaker_short_circuit_total",
			Help: "Calls rejected by an open circuit",
		}, []string{"provider_id", "operation", "profile"}),
		providerErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "provider_errors_total",
			Help: "Carrier failures counted by the circuit breaker",
		}, []string{"provider_id", "operation", "profile", "status_code"}),
		sandboxOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sandbox_outcomes_total",
			Help: "Sandbox engine outcomes per provider operation",
		}, []string{"provider_id", "operation", "outcome"}),
		webhookDelivery: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "webhook_delivery_total",
			Help: "Webhook delivery attempts by outcome",
		}, []string{"profile", "outcome"}),
		webhookChaosDrop: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "webhook_chaos_drop_total",
			Help: "Webhook events dropped by the sandbox planner",
		}, []string{"subscription_id", "profile"}),
		webhookChaosDuplicate: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "webhook_chaos_duplicate_total",
			Help: "Duplicate webhook deliveries injected by the sandbox planner",
		}, []string{"profile", "duplicate_mode", "outcome"}),
		webhookPassSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "webhook_worker_pass_skipped_total",
			Help: "Worker passes skipped because the previous pass was still running",
		}),
		webhookAlerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "webhook_alerts_total",
			Help: "Webhook backlog alert transitions",
		}, []string{"signal", "state"}),
	}

	registry.MustRegister(
		c.requestLatency,
		c.retryAttempts,
		c.breakerOpen,
		c.breakerShortCircuit,
		c.providerErrors,
		c.sandboxOutcomes,
		c.webhookDelivery,
		c.webhookChaosDrop,
		c.webhookChaosDuplicate,
		c.webhookPassSkipped,
		c.webhookAlerts,
	)

	return c
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) ObserveRequestLatency(providerID, operation, outcome string, latency time.Duration) {
	c.requestLatency.WithLabelValues(providerID, operation, outcome).Observe(float64(latency.Milliseconds()))
}

func (c *Collector) IncRetryAttempt(providerID, operation string, retryable bool) {
	c.retryAttempts.WithLabelValues(providerID, operation, strconv.FormatBool(retryable)).Inc()
}

func (c *Collector) IncBreakerOpen(providerID, operation, profile string) {
	c.breakerOpen.WithLabelValues(providerID, operation, profile).Inc()
}

func (c *Collector) IncBreakerShortCircuit(providerID, operation, profile string) {
	c.breakerShortCircuit.WithLabelValues(providerID, operation, profile).Inc()
}

func (c *Collector) IncProviderError(providerID, operation, profile, statusCode string) {
	c.providerErrors.WithLabelValues(providerID, operation, profile, statusCode).Inc()
}

func (c *Collector) IncSandboxOutcome(providerID, operation, outcome string) {
	c.sandboxOutcomes.WithLabelValues(providerID, operation, outcome).Inc()
}

func (c *Collector) IncWebhookDelivery(profile, outcome string) {
	c.webhookDelivery.WithLabelValues(profile, outcome).Inc()
}

func (c *Collector) IncWebhookChaosDrop(subscriptionID, profile string) {
	c.webhookChaosDrop.WithLabelValues(subscriptionID, profile).Inc()
}

func (c *Collector) IncWebhookChaosDuplicate(profile, duplicateMode, outcome string) {
	c.webhookChaosDuplicate.WithLabelValues(profile, duplicateMode, outcome).Inc()
}

func (c *Collector) IncWebhookPassSkipped() {
	c.webhookPassSkipped.Inc()
}

func (c *Collector) IncWebhookAlert(signal, state string) {
	c.webhookAlerts.WithLabelValues(signal, state).Inc()
}
