package policies

import (
	"sort"
	"strings"
	"time"

	"freightflow/internal/domain/entities"
	valueobjects "freightflow/internal/domain/value_objects"
)

// NormalizeTrackingEvents orders events by date (stable) and drops repeats.
// Events with an id dedupe on it; the rest dedupe on description, date and location.
func NormalizeTrackingEvents(events []entities.TrackingEvent) []entities.TrackingEvent {
	ordered := make([]entities.TrackingEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	seen := make(map[string]struct{}, len(ordered))
	result := make([]entities.TrackingEvent, 0, len(ordered))
	for _, event := range ordered {
		key := trackingEventKey(event)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, event)
	}

	return result
}

func trackingEventKey(event entities.TrackingEvent) string {
	if event.EventID != "" {
		return "eventId:" + event.EventID
	}
	return "composite:" + event.Description + "|" + event.Date.UTC().Format(time.RFC3339Nano) + "|" + event.Location
}

// ResolveTrackingProvider guesses the carrier from the tracking code prefix.
func ResolveTrackingProvider(trackingCode string) string {
	if strings.HasPrefix(trackingCode, "RS") {
		return valueobjects.ProviderRocket
	}
	return valueobjects.ProviderACME
}
