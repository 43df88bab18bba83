package use_cases

import (
	"strings"

	"freightflow/internal/application/dto"
	"freightflow/internal/domain/entities"
	apperrors "freightflow/internal/shared_kernel/errors"
)

const minShipmentMeasure = 0.1

func normalizeShipmentRequest(input dto.ShipmentRequestInput) (entities.ShipmentRequest, *apperrors.AppError) {
	originZip := strings.TrimSpace(input.OriginZip)
	if originZip == "" {
		return entities.ShipmentRequest{}, invalidShipmentField("originZip", "originZip is required")
	}
	destinationZip := strings.TrimSpace(input.DestinationZip)
	if destinationZip == "" {
		return entities.ShipmentRequest{}, invalidShipmentField("destinationZip", "destinationZip is required")
	}
	if input.Weight < minShipmentMeasure {
		return entities.ShipmentRequest{}, invalidShipmentField("weight", "weight must be at least 0.1")
	}

	measures := []struct {
		field string
		value float64
	}{
		{"dimensions.length", input.Dimensions.Length},
		{"dimensions.width", input.Dimensions.Width},
		{"dimensions.height", input.Dimensions.Height},
	}
	for _, measure := range measures {
		if measure.value < minShipmentMeasure {
			return entities.ShipmentRequest{}, invalidShipmentField(measure.field, measure.field+" must be at least 0.1")
		}
	}

	serviceType := strings.TrimSpace(input.ServiceType)
	if serviceType == "" {
		return entities.ShipmentRequest{}, invalidShipmentField("serviceType", "serviceType is required")
	}

	return entities.ShipmentRequest{
		OriginZip:      originZip,
		DestinationZip: destinationZip,
		Weight:         input.Weight,
		Dimensions: entities.Dimensions{
			Length: input.Dimensions.Length,
			Width:  input.Dimensions.Width,
			Height: input.Dimensions.Height,
		},
		ServiceType: serviceType,
	}, nil
}

func invalidShipmentField(field, message string) *apperrors.AppError {
	return apperrors.NewValidation("invalid_request", message, map[string]any{"field": field})
}

func carrierDirectoryMissing() *apperrors.AppError {
	return apperrors.NewInternal(
		"carrier_directory_missing",
		"carrier directory is required",
		nil,
	)
}
