package decorators

const (
	OperationQuote          = "quote"
	OperationCreateShipment = "createShipment"
	OperationCreateLabel    = "createLabel"
	OperationTrack          = "track"
)

// ProfileNamer resolves the sandbox profile active for a provider, used as a metric and log label.
type ProfileNamer interface {
	ProfileName(providerID string) string
}
