package controllers

import (
	"net/http"

	"go.uber.org/zap"

	"freightflow/internal/application/dto"
	portsin "freightflow/internal/application/ports/in"
	"freightflow/internal/shared_kernel/logging"
)

type WebhooksController struct {
	subscribeUseCase portsin.CreateWebhookSubscriptionUseCase
	dispatchUseCase  portsin.DispatchSimulationUseCase
	logger           *zap.Logger
}

func NewWebhooksController(
	subscribeUseCase portsin.CreateWebhookSubscriptionUseCase,
	dispatchUseCase portsin.DispatchSimulationUseCase,
	logger *zap.Logger,
) *WebhooksController {
	return &WebhooksController{
		subscribeUseCase: subscribeUseCase,
		dispatchUseCase:  dispatchUseCase,
		logger:           logging.OrNop(logger),
	}
}

func (c *WebhooksController) CreateSubscription(w http.ResponseWriter, r *http.Request) {
	if c.subscribeUseCase == nil {
		writeAppError(w, r, useCaseMissing("create_webhook_subscription"))
		return
	}

	command := dto.CreateWebhookSubscriptionCommand{}
	if appErr := decodeJSONBody(w, r, &command); appErr != nil {
		writeAppError(w, r, appErr)
		return
	}

	output, appErr := c.subscribeUseCase.Execute(r.Context(), command)
	if appErr != nil {
		logRequestError(c.logger, r, "/v1/webhooks/subscriptions", appErr)
		writeAppError(w, r, appErr)
		return
	}

	writeJSON(w, http.StatusCreated, output)
}

func (c *WebhooksController) DispatchSimulation(w http.ResponseWriter, r *http.Request) {
	if c.dispatchUseCase == nil {
		writeAppError(w, r, useCaseMissing("dispatch_simulation"))
		return
	}

	command := dto.DispatchSimulationCommand{}
	if appErr := decodeJSONBody(w, r, &command); appErr != nil {
		writeAppError(w, r, appErr)
		return
	}

	output, appErr := c.dispatchUseCase.Execute(r.Context(), command)
	if appErr != nil {
		logRequestError(c.logger, r, "/v1/simulations/dispatch", appErr)
		writeAppError(w, r, appErr)
		return
	}

	writeJSON(w, http.StatusAccepted, output)
}
