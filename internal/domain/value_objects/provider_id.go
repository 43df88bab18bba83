package valueobjects

import "strings"

const (
	ProviderACME    = "ACME"
	ProviderRocket  = "ROCKET"
	ProviderWebhook = "WEBHOOK"
)

func NormalizeProviderID(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
