package out

import "time"

type ReliabilityMetrics interface {
	ObserveRequestLatency(providerID, operation, outcome string, latency time.Duration)
	IncRetryAttempt(providerID, operation string, retryable bool)
	IncBreakerOpen(providerID, operation, profile string)
	IncBreakerShortCircuit(providerID, operation, profile string)
	IncProviderError(providerID, operation, profile, statusCode string)
	IncSandboxOutcome(providerID, operation, outcome string)
}

type WebhookMetrics interface {
	IncWebhookDelivery(profile, outcome string)
	IncWebhookChaosDrop(subscriptionID, profile string)
	IncWebhookChaosDuplicate(profile, duplicateMode, outcome string)
	IncWebhookPassSkipped()
}
