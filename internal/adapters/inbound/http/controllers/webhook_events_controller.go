package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"freightflow/internal/application/dto"
	portsin "freightflow/internal/application/ports/in"
	apperrors "freightflow/internal/shared_kernel/errors"
	"freightflow/internal/shared_kernel/logging"
)

type WebhookEventsController struct {
	overviewUseCase   portsin.GetWebhookEventOverviewUseCase
	listFailedUseCase portsin.ListFailedWebhookEventsUseCase
	requeueUseCase    portsin.RequeueWebhookEventUseCase
	logger            *zap.Logger
}

func NewWebhookEventsController(
	overviewUseCase portsin.GetWebhookEventOverviewUseCase,
	listFailedUseCase portsin.ListFailedWebhookEventsUseCase,
	requeueUseCase portsin.RequeueWebhookEventUseCase,
	logger *zap.Logger,
) *WebhookEventsController {
	return &WebhookEventsController{
		overviewUseCase:   overviewUseCase,
		listFailedUseCase: listFailedUseCase,
		requeueUseCase:    requeueUseCase,
		logger:            logging.OrNop(logger),
	}
}

func (c *WebhookEventsController) GetOverview(w http.ResponseWriter, r *http.Request) {
	if c.overviewUseCase == nil {
		writeAppError(w, r, useCaseMissing("webhook_event_overview"))
		return
	}

	output, appErr := c.overviewUseCase.Execute(r.Context(), dto.GetWebhookEventOverviewQuery{})
	if appErr != nil {
		logRequestError(c.logger, r, "/v1/admin/webhooks/overview", appErr)
		writeAppError(w, r, appErr)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

func (c *WebhookEventsController) ListFailed(w http.ResponseWriter, r *http.Request) {
	if c.listFailedUseCase == nil {
		writeAppError(w, r, useCaseMissing("list_failed_webhook_events"))
		return
	}

	limit := 0
	if rawLimit := strings.TrimSpace(r.URL.Query().Get("limit")); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil {
			writeAppError(w, r, apperrors.NewValidation(
				"invalid_request",
				"limit must be an integer",
				map[string]any{"field": "limit"},
			))
			return
		}
		limit = parsed
	}

	output, appErr := c.listFailedUseCase.Execute(r.Context(), dto.ListFailedWebhookEventsQuery{Limit: limit})
	if appErr != nil {
		logRequestError(c.logger, r, "/v1/admin/webhooks/failed", appErr)
		writeAppError(w, r, appErr)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

func (c *WebhookEventsController) Requeue(w http.ResponseWriter, r *http.Request) {
	if c.requeueUseCase == nil {
		writeAppError(w, r, useCaseMissing("requeue_webhook_event"))
		return
	}

	output, appErr := c.requeueUseCase.Execute(r.Context(), dto.RequeueWebhookEventCommand{
		ID:  r.PathValue("id"),
		Now: time.Now().UTC(),
	})
	if appErr != nil {
		logRequestError(c.logger, r, "/v1/admin/webhooks/events/{id}/requeue", appErr)
		writeAppError(w, r, appErr)
		return
	}

	writeJSON(w, http.StatusOK, output)
}
