package valueobjects

import "strings"

const (
	shipmentEventPrefix = "shipment."

	// WildcardShipmentEventType matches every shipment status event.
	WildcardShipmentEventType = "shipment.*"
)

// ResolveShipmentEventType maps a simulated status such as "DELIVERED" to "shipment.delivered".
func ResolveShipmentEventType(status string) string {
	normalized := strings.ToLower(strings.TrimSpace(status))
	if strings.HasPrefix(normalized, shipmentEventPrefix) {
		return normalized
	}
	return shipmentEventPrefix + normalized
}
