package controllers

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"freightflow/internal/application/dto"
	portsin "freightflow/internal/application/ports/in"
	"freightflow/internal/shared_kernel/logging"
)

type SwaggerController struct {
	useCase         portsin.GetOpenAPISpecUseCase
	logger          *zap.Logger
	swaggerUIHandle http.Handler
}

func NewSwaggerController(useCase portsin.GetOpenAPISpecUseCase, logger *zap.Logger) *SwaggerController {
	return &SwaggerController{
		useCase: useCase,
		logger:  logging.OrNop(logger),
		swaggerUIHandle: httpSwagger.Handler(
			httpSwagger.URL("/swagger/openapi.yaml"),
			httpSwagger.PersistAuthorization(true),
		),
	}
}

func (c *SwaggerController) RedirectToIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/swagger/index.html", http.StatusTemporaryRedirect)
}

func (c *SwaggerController) ServeUI(w http.ResponseWriter, r *http.Request) {
	c.swaggerUIHandle.ServeHTTP(w, r)
}

func (c *SwaggerController) GetOpenAPISpec(w http.ResponseWriter, r *http.Request) {
	output, appErr := c.useCase.Execute(r.Context(), dto.GetOpenAPISpecQuery{})
	if appErr != nil {
		logRequestError(c.logger, r, "/swagger/openapi.yaml", appErr)
		writeAppError(w, r, appErr)
		return
	}

	w.Header().Set("Content-Type", output.ContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(output.Content); err != nil {
		c.logger.Warn("response write error", zap.String("path", "/swagger/openapi.yaml"), zap.Error(err))
	}
}
