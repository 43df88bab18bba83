package di

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"freightflow/internal/adapters/inbound/http/controllers"
	"freightflow/internal/adapters/inbound/http/middleware"
	httpRouter "freightflow/internal/adapters/inbound/http/router"
	"freightflow/internal/adapters/outbound/docs"
	postgresqlbootstrap "freightflow/internal/adapters/outbound/persistence/postgresql/bootstrap"
	postgresqlidempotency "freightflow/internal/adapters/outbound/persistence/postgresql/idempotency"
	postgresqlshared "freightflow/internal/adapters/outbound/persistence/postgresql/shared"
	postgresqlshipment "freightflow/internal/adapters/outbound/persistence/postgresql/shipment"
	postgresqlwebhookevent "freightflow/internal/adapters/outbound/persistence/postgresql/webhookevent"
	postgresqlwebhooksubscription "freightflow/internal/adapters/outbound/persistence/postgresql/webhooksubscription"
	webhookhttp "freightflow/internal/adapters/outbound/webhook/http"
	portsin "freightflow/internal/application/ports/in"
	"freightflow/internal/application/use_cases"
	"freightflow/internal/infrastructure/config"
	"freightflow/internal/infrastructure/httpserver"
	"freightflow/internal/infrastructure/metrics"
	"freightflow/internal/infrastructure/reliability/backoff"
	"freightflow/internal/infrastructure/reliability/circuitbreaker"
	"freightflow/internal/infrastructure/sandbox"
	"freightflow/internal/infrastructure/webhook"
	"freightflow/internal/infrastructure/webhookalert"
	"freightflow/internal/shared_kernel/logging"
)

type Container struct {
	Database                     *sql.DB
	Server                       *httpserver.Server
	InitializePersistenceUseCase portsin.InitializePersistenceUseCase
	WebhookWorker                *webhook.Worker
	WebhookAlertWorker           *webhookalert.Worker
	Sandbox                      *sandbox.Runtime
	Metrics                      *metrics.Collector
}

func Build(cfg config.Config, logger *zap.Logger) (Container, error) {
	logger = logging.OrNop(logger)
	clock := use_cases.NewSystemClock()

	collector := metrics.NewCollector(prometheus.NewRegistry())
	runtime := sandbox.NewRuntime(logger.Named("sandbox"))
	carriers := buildCarrierDirectory(runtime, collector, logger.Named("carrier"))

	databasePool, err := postgresqlshared.NewDatabasePool(cfg.DatabaseURL, logger)
	if err != nil {
		return Container{}, err
	}

	persistenceGateway := postgresqlbootstrap.NewGateway(
		cfg.DatabaseURL,
		cfg.DatabaseTarget,
		cfg.MigrationsPath,
		logger,
	)
	initializePersistenceUseCase := use_cases.NewInitializePersistenceUseCase(persistenceGateway)

	idempotencyRepository := postgresqlidempotency.NewRepository(databasePool)
	shipmentRepository := postgresqlshipment.NewRepository(databasePool)
	webhookEventRepository := postgresqlwebhookevent.NewRepository(databasePool)
	webhookSubscriptionRepository := postgresqlwebhooksubscription.NewRepository(databasePool)

	healthUseCase := use_cases.NewGetHealthUseCase(clock)
	openAPIUseCase := use_cases.NewGetOpenAPISpecUseCase(docs.NewFileOpenAPISpecReadModel(cfg.OpenAPISpecPath))

	getQuotesUseCase := use_cases.NewGetQuotesUseCase(carriers, logger)
	createShipmentUseCase := use_cases.NewCreateShipmentUseCase(carriers, shipmentRepository, clock)
	createLabelUseCase := use_cases.NewCreateLabelUseCase(carriers, shipmentRepository)
	trackShipmentUseCase := use_cases.NewTrackShipmentUseCase(carriers)

	createSubscriptionUseCase := use_cases.NewCreateWebhookSubscriptionUseCase(webhookSubscriptionRepository, clock)
	dispatchSimulationUseCase := use_cases.NewDispatchSimulationUseCase(
		webhookSubscriptionRepository,
		webhookEventRepository,
		clock,
	)
	deliverWebhookEventsUseCase := use_cases.NewDeliverWebhookEventsUseCase(
		webhookEventRepository,
		webhookhttp.NewGateway(webhookhttp.Config{Timeout: cfg.WebhookDeliveryTimeout}),
		sandbox.NewWebhookPlanner(runtime, sandbox.DuplicateModeFromEnv()),
		circuitbreaker.NewRegistry(circuitbreaker.WebhookPolicy(), cfg.WebhookBreakerCapacity),
		backoff.WebhookSchedule(),
		collector,
		clock,
		logger.Named("webhook"),
	)

	sandboxAdmin := sandbox.NewAdmin(runtime)
	getSandboxStatusUseCase := use_cases.NewGetSandboxStatusUseCase(sandboxAdmin)
	setSandboxProfileUseCase := use_cases.NewSetSandboxProfileUseCase(sandboxAdmin, carriers)

	overviewUseCase := use_cases.NewGetWebhookEventOverviewUseCase(webhookEventRepository)
	listFailedUseCase := use_cases.NewListFailedWebhookEventsUseCase(webhookEventRepository)
	requeueUseCase := use_cases.NewRequeueWebhookEventUseCase(webhookEventRepository)

	idempotency := middleware.NewIdempotency(
		use_cases.NewAcquireIdempotencyKeyUseCase(idempotencyRepository, cfg.IdempotencyProcessingTimeout, clock),
		use_cases.NewCompleteIdempotencyKeyUseCase(idempotencyRepository),
		use_cases.NewReleaseIdempotencyKeyUseCase(idempotencyRepository),
		logger,
	)

	router := httpRouter.New(httpRouter.Dependencies{
		HealthController:    controllers.NewHealthController(healthUseCase, logger),
		SwaggerController:   controllers.NewSwaggerController(openAPIUseCase, logger),
		ShipmentsController: controllers.NewShipmentsController(getQuotesUseCase, createShipmentUseCase, createLabelUseCase, logger),
		TrackingsController: controllers.NewTrackingsController(trackShipmentUseCase, logger),
		WebhooksController:  controllers.NewWebhooksController(createSubscriptionUseCase, dispatchSimulationUseCase, logger),
		SandboxAdminController: controllers.NewSandboxAdminController(
			getSandboxStatusUseCase,
			setSandboxProfileUseCase,
			logger,
		),
		WebhookEventsController: controllers.NewWebhookEventsController(
			overviewUseCase,
			listFailedUseCase,
			requeueUseCase,
			logger,
		),
		Idempotency:    idempotency,
		MetricsHandler: collector.Handler(),
		AdminToken:     cfg.SandboxAdminToken,
		Logger:         logger,
	})

	server := httpserver.New(cfg.Address(), router, logger)
	webhookWorker := webhook.NewWorker(
		webhook.Config{
			Enabled:      cfg.WebhookWorkerEnabled,
			PollInterval: cfg.WebhookPollInterval,
			BatchSize:    cfg.WebhookBatchSize,
			MaxAttempts:  cfg.WebhookMaxAttempts,
		},
		deliverWebhookEventsUseCase,
		collector,
		logger.Named("webhook_worker"),
	)
	webhookAlertWorker := webhookalert.NewWorker(
		cfg.WebhookAlertPollInterval,
		overviewUseCase,
		webhookalert.AlertConfig{
			Enabled:               cfg.WebhookAlertEnabled,
			Cooldown:              cfg.WebhookAlertCooldown,
			FailedCountThreshold:  cfg.WebhookAlertFailedThreshold,
			PendingCountThreshold: cfg.WebhookAlertPendingThreshold,
			OldestPendingMaxAge:   cfg.WebhookAlertOldestPendingMaxAge,
		},
		collector,
		logger.Named("webhook_alert"),
	)

	return Container{
		Database:                     databasePool,
		Server:                       server,
		InitializePersistenceUseCase: initializePersistenceUseCase,
		WebhookWorker:                webhookWorker,
		WebhookAlertWorker:           webhookAlertWorker,
		Sandbox:                      runtime,
		Metrics:                      collector,
	}, nil
}
