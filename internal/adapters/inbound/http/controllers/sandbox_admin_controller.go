package controllers

import (
	"net/http"

	"go.uber.org/zap"

	"freightflow/internal/application/dto"
	portsin "freightflow/internal/application/ports/in"
	"freightflow/internal/shared_kernel/logging"
)

type SandboxAdminController struct {
	statusUseCase  portsin.GetSandboxStatusUseCase
	profileUseCase portsin.SetSandboxProfileUseCase
	logger         *zap.Logger
}

type sandboxProfilePayload struct {
	Profile string `json:"profile"`
}

func NewSandboxAdminController(
	statusUseCase portsin.GetSandboxStatusUseCase,
	profileUseCase portsin.SetSandboxProfileUseCase,
	logger *zap.Logger,
) *SandboxAdminController {
	return &SandboxAdminController{
		statusUseCase:  statusUseCase,
		profileUseCase: profileUseCase,
		logger:         logging.OrNop(logger),
	}
}

func (c *SandboxAdminController) GetStatus(w http.ResponseWriter, r *http.Request) {
	if c.statusUseCase == nil {
		writeAppError(w, r, useCaseMissing("get_sandbox_status"))
		return
	}

	output, appErr := c.statusUseCase.Execute(r.Context(), dto.GetSandboxStatusQuery{})
	if appErr != nil {
		logRequestError(c.logger, r, "/v1/admin/sandbox/status", appErr)
		writeAppError(w, r, appErr)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

func (c *SandboxAdminController) SetProfile(w http.ResponseWriter, r *http.Request) {
	if c.profileUseCase == nil {
		writeAppError(w, r, useCaseMissing("set_sandbox_profile"))
		return
	}

	payload := sandboxProfilePayload{}
	if appErr := decodeJSONBody(w, r, &payload); appErr != nil {
		writeAppError(w, r, appErr)
		return
	}

	output, appErr := c.profileUseCase.Execute(r.Context(), dto.SetSandboxProfileCommand{
		ProviderID: r.PathValue("provider"),
		Profile:    payload.Profile,
	})
	if appErr != nil {
		logRequestError(c.logger, r, "/v1/admin/sandbox/providers/{provider}/profile", appErr)
		writeAppError(w, r, appErr)
		return
	}

	c.logger.Info(
		"sandbox profile updated",
		append(
			logging.FieldsFromContext(r.Context()),
			zap.String("provider_id", output.ProviderID),
			zap.String("profile", output.Profile),
		)...,
	)
	writeJSON(w, http.StatusOK, output)
}
