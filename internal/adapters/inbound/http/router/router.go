package router

import (
	"net/http"

	"go.uber.org/zap"

	"freightflow/internal/adapters/inbound/http/controllers"
	"freightflow/internal/adapters/inbound/http/middleware"
)

type Dependencies struct {
	HealthController        *controllers.HealthController
	SwaggerController       *controllers.SwaggerController
	ShipmentsController     *controllers.ShipmentsController
	TrackingsController     *controllers.TrackingsController
	WebhooksController      *controllers.WebhooksController
	SandboxAdminController  *controllers.SandboxAdminController
	WebhookEventsController *controllers.WebhookEventsController
	Idempotency             *middleware.Idempotency
	MetricsHandler          http.Handler
	AdminToken              string
	Logger                  *zap.Logger
}

// New registers every route and wraps the mux with correlation id, access log
// and idempotency handling, outermost first.
func New(deps Dependencies) http.Handler {
	mux := http.NewServeMux()
	admin := middleware.AdminToken(deps.AdminToken)

	mux.HandleFunc("GET /healthz", deps.HealthController.GetHealth)
	mux.HandleFunc("GET /swagger", deps.SwaggerController.RedirectToIndex)
	mux.HandleFunc("GET /swagger/openapi.yaml", deps.SwaggerController.GetOpenAPISpec)
	mux.HandleFunc("GET /swagger/", deps.SwaggerController.ServeUI)
	if deps.MetricsHandler != nil {
		mux.Handle("GET /metrics", deps.MetricsHandler)
	}

	mux.HandleFunc("POST /v1/quotes", deps.ShipmentsController.GetQuotes)
	mux.HandleFunc("POST /v1/shipments", deps.ShipmentsController.CreateShipment)
	mux.HandleFunc("POST /v1/shipments/{id}/label", deps.ShipmentsController.CreateLabel)
	mux.HandleFunc("GET /v1/trackings/{trackingCode}", deps.TrackingsController.GetTracking)
	mux.HandleFunc("POST /v1/webhooks/subscriptions", deps.WebhooksController.CreateSubscription)
	mux.HandleFunc("POST /v1/simulations/dispatch", deps.WebhooksController.DispatchSimulation)

	mux.Handle(
		"POST /v1/admin/sandbox/providers/{provider}/profile",
		admin(http.HandlerFunc(deps.SandboxAdminController.SetProfile)),
	)
	mux.Handle("GET /v1/admin/sandbox/status", admin(http.HandlerFunc(deps.SandboxAdminController.GetStatus)))
	mux.Handle("GET /v1/admin/webhooks/overview", admin(http.HandlerFunc(deps.WebhookEventsController.GetOverview)))
	mux.Handle("GET /v1/admin/webhooks/failed", admin(http.HandlerFunc(deps.WebhookEventsController.ListFailed)))
	mux.Handle(
		"POST /v1/admin/webhooks/events/{id}/requeue",
		admin(http.HandlerFunc(deps.WebhookEventsController.Requeue)),
	)

	var handler http.Handler = mux
	if deps.Idempotency != nil {
		handler = deps.Idempotency.Wrap(handler)
	}
	handler = middleware.AccessLog(deps.Logger)(handler)
	return middleware.CorrelationID(handler)
}
