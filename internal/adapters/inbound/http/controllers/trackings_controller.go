package controllers

import (
	"net/http"

	"go.uber.org/zap"

	"freightflow/internal/application/dto"
	portsin "freightflow/internal/application/ports/in"
	"freightflow/internal/shared_kernel/logging"
)

type TrackingsController struct {
	useCase portsin.TrackShipmentUseCase
	logger  *zap.Logger
}

func NewTrackingsController(useCase portsin.TrackShipmentUseCase, logger *zap.Logger) *TrackingsController {
	return &TrackingsController{
		useCase: useCase,
		logger:  logging.OrNop(logger),
	}
}

func (c *TrackingsController) GetTracking(w http.ResponseWriter, r *http.Request) {
	if c.useCase == nil {
		writeAppError(w, r, useCaseMissing("track_shipment"))
		return
	}

	output, appErr := c.useCase.Execute(r.Context(), dto.TrackShipmentQuery{TrackingCode: r.PathValue("trackingCode")})
	if appErr != nil {
		logRequestError(c.logger, r, "/v1/trackings/{trackingCode}", appErr)
		writeAppError(w, r, appErr)
		return
	}

	writeJSON(w, http.StatusOK, output)
}
