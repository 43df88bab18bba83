package valueobjects

import apperrors "freightflow/internal/shared_kernel/errors"

type TrackingStatus string

const (
	TrackingStatusPending   TrackingStatus = "PENDING"
	TrackingStatusInTransit TrackingStatus = "IN_TRANSIT"
	TrackingStatusDelivered TrackingStatus = "DELIVERED"
	TrackingStatusException TrackingStatus = "EXCEPTION"
)

func ParseTrackingStatus(raw string) (TrackingStatus, *apperrors.AppError) {
	switch TrackingStatus(raw) {
	case TrackingStatusPending, TrackingStatusInTransit, TrackingStatusDelivered, TrackingStatusException:
		return TrackingStatus(raw), nil
	default:
		return "", apperrors.NewValidation(
			"tracking_status_invalid",
			"tracking status is invalid",
			map[string]any{"status": raw},
		)
	}
}

func (s TrackingStatus) String() string {
	return string(s)
}
