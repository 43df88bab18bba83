package controllers

import (
	"net/http"

	"go.uber.org/zap"

	"freightflow/internal/application/dto"
	portsin "freightflow/internal/application/ports/in"
	"freightflow/internal/shared_kernel/logging"
)

type HealthController struct {
	useCase portsin.GetHealthUseCase
	logger  *zap.Logger
}

func NewHealthController(useCase portsin.GetHealthUseCase, logger *zap.Logger) *HealthController {
	return &HealthController{
		useCase: useCase,
		logger:  logging.OrNop(logger),
	}
}

func (c *HealthController) GetHealth(w http.ResponseWriter, r *http.Request) {
	output, appErr := c.useCase.Execute(r.Context(), dto.GetHealthCommand{})
	if appErr != nil {
		logRequestError(c.logger, r, "/healthz", appErr)
		writeAppError(w, r, appErr)
		return
	}

	writeJSON(w, http.StatusOK, output)
}
