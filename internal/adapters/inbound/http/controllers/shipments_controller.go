package controllers

import (
	"net/http"

	"go.uber.org/zap"

	"freightflow/internal/application/dto"
	portsin "freightflow/internal/application/ports/in"
	"freightflow/internal/shared_kernel/logging"
)

type ShipmentsController struct {
	quotesUseCase portsin.GetQuotesUseCase
	createUseCase portsin.CreateShipmentUseCase
	labelUseCase  portsin.CreateLabelUseCase
	logger        *zap.Logger
}

func NewShipmentsController(
	quotesUseCase portsin.GetQuotesUseCase,
	createUseCase portsin.CreateShipmentUseCase,
	labelUseCase portsin.CreateLabelUseCase,
	logger *zap.Logger,
) *ShipmentsController {
	return &ShipmentsController{
		quotesUseCase: quotesUseCase,
		createUseCase: createUseCase,
		labelUseCase:  labelUseCase,
		logger:        logging.OrNop(logger),
	}
}

func (c *ShipmentsController) GetQuotes(w http.ResponseWriter, r *http.Request) {
	if c.quotesUseCase == nil {
		writeAppError(w, r, useCaseMissing("get_quotes"))
		return
	}

	input := dto.ShipmentRequestInput{}
	if appErr := decodeJSONBody(w, r, &input); appErr != nil {
		writeAppError(w, r, appErr)
		return
	}

	output, appErr := c.quotesUseCase.Execute(r.Context(), input)
	if appErr != nil {
		logRequestError(c.logger, r, "/v1/quotes", appErr)
		writeAppError(w, r, appErr)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

func (c *ShipmentsController) CreateShipment(w http.ResponseWriter, r *http.Request) {
	if c.createUseCase == nil {
		writeAppError(w, r, useCaseMissing("create_shipment"))
		return
	}

	input := dto.ShipmentRequestInput{}
	if appErr := decodeJSONBody(w, r, &input); appErr != nil {
		writeAppError(w, r, appErr)
		return
	}

	output, appErr := c.createUseCase.Execute(r.Context(), input)
	if appErr != nil {
		logRequestError(c.logger, r, "/v1/shipments", appErr)
		writeAppError(w, r, appErr)
		return
	}

	w.Header().Set("Location", "/v1/shipments/"+output.ShipmentID)
	writeJSON(w, http.StatusCreated, output)
}

func (c *ShipmentsController) CreateLabel(w http.ResponseWriter, r *http.Request) {
	if c.labelUseCase == nil {
		writeAppError(w, r, useCaseMissing("create_label"))
		return
	}

	output, appErr := c.labelUseCase.Execute(r.Context(), dto.CreateLabelCommand{ShipmentID: r.PathValue("id")})
	if appErr != nil {
		logRequestError(c.logger, r, "/v1/shipments/{id}/label", appErr)
		writeAppError(w, r, appErr)
		return
	}

	writeJSON(w, http.StatusCreated, output)
}
