package metrics

import (
	"time"

	portsout "freightflow/internal/application/ports/out"
)

// Nop discards every observation.
type Nop struct{}

var (
	_ portsout.ReliabilityMetrics = Nop{}
	_ portsout.WebhookMetrics     = Nop{}
)

func (Nop) ObserveRequestLatency(string, string, string, time.Duration) {}
func (Nop) IncRetryAttempt(string, string, bool) {}
func (Nop) IncBreakerOpen(string, string, string) {}
func (Nop) IncBreakerShortCircuit(string, string, string) {}
func (Nop) IncProviderError(string, string, string, string) {}
func (Nop) IncSandboxOutcome(string, string, string) {}
func (Nop) IncWebhookDelivery(string, string) {}
func (Nop) IncWebhookChaosDrop(string, string) {}
func (Nop) IncWebhookChaosDuplicate(string, string, string) {}
func (Nop) IncWebhookPassSkipped() {}
func (Nop) IncWebhookAlert(string, string) {}
