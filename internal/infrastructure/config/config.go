package config

import (
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type ConfigError struct {
	Code     string
	Message  string
	Metadata map[string]string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

type Config struct {
	Port                         string        `env:"PORT" envDefault:"8080"`
	DatabaseURL                  string        `env:"DATABASE_URL"`
	DatabaseTarget               string        `env:"-"`
	OpenAPISpecPath              string        `env:"OPENAPI_SPEC_PATH" envDefault:"api/openapi.yaml"`
	MigrationsPath               string        `env:"MIGRATIONS_PATH" envDefault:"internal/adapters/outbound/persistence/postgresql/migrations"`
	ShutdownTimeout              time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	DBReadinessTimeout           time.Duration `env:"DB_READINESS_TIMEOUT" envDefault:"30s"`
	DBReadinessRetryInterval     time.Duration `env:"DB_READINESS_RETRY_INTERVAL" envDefault:"2s"`
	LogLevel                     string        `env:"LOG_LEVEL" envDefault:"info"`
	SandboxAdminToken            string        `env:"SANDBOX_ADMIN_TOKEN"`
	WebhookWorkerEnabled         bool          `env:"WEBHOOK_WORKER_ENABLED" envDefault:"false"`
	WebhookPollInterval          time.Duration `env:"WEBHOOK_POLL_INTERVAL" envDefault:"5s"`
	WebhookBatchSize             int           `env:"WEBHOOK_BATCH_SIZE" envDefault:"50"`
	WebhookMaxAttempts           int           `env:"WEBHOOK_MAX_ATTEMPTS" envDefault:"5"`
	WebhookDeliveryTimeout       time.Duration `env:"WEBHOOK_DELIVERY_TIMEOUT" envDefault:"5s"`
	WebhookBreakerCapacity       int           `env:"WEBHOOK_BREAKER_CAPACITY" envDefault:"10000"`
	IdempotencyProcessingTimeout time.Duration `env:"IDEMPOTENCY_PROCESSING_TIMEOUT" envDefault:"5m"`

	WebhookAlertEnabled             bool          `env:"WEBHOOK_ALERT_ENABLED" envDefault:"false"`
	WebhookAlertPollInterval        time.Duration `env:"WEBHOOK_ALERT_POLL_INTERVAL" envDefault:"30s"`
	WebhookAlertCooldown            time.Duration `env:"WEBHOOK_ALERT_COOLDOWN" envDefault:"5m"`
	WebhookAlertFailedThreshold     int64         `env:"WEBHOOK_ALERT_FAILED_COUNT_THRESHOLD" envDefault:"0"`
	WebhookAlertPendingThreshold    int64         `env:"WEBHOOK_ALERT_PENDING_COUNT_THRESHOLD" envDefault:"0"`
	WebhookAlertOldestPendingMaxAge time.Duration `env:"WEBHOOK_ALERT_OLDEST_PENDING_MAX_AGE" envDefault:"0s"`
}

var dotEnvLoaded sync.Once

// LoadConfig reads an optional .env file once per process, then parses the
// environment. Variables already set in the environment win over .env.
func LoadConfig() (Config, *ConfigError) {
	dotEnvLoaded.Do(func() {
		_ = godotenv.Load()
	})

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, parseError(err)
	}

	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	if cfg.DatabaseURL == "" {
		return Config{}, &ConfigError{
			Code:    "CONFIG_DATABASE_URL_REQUIRED",
			Message: "DATABASE_URL is required",
		}
	}

	databaseTarget, parseErr := parseDatabaseTarget(cfg.DatabaseURL)
	if parseErr != nil {
		return Config{}, parseErr
	}
	cfg.DatabaseTarget = databaseTarget

	if cfgErr := cfg.validate(); cfgErr != nil {
		return Config{}, cfgErr
	}

	return cfg, nil
}

func (c Config) Address() string {
	return ":" + c.Port
}

func (c Config) validate() *ConfigError {
	positiveInts := []struct {
		name  string
		value int
	}{
		{name: "WEBHOOK_BATCH_SIZE", value: c.WebhookBatchSize},
		{name: "WEBHOOK_MAX_ATTEMPTS", value: c.WebhookMaxAttempts},
		{name: "WEBHOOK_BREAKER_CAPACITY", value: c.WebhookBreakerCapacity},
	}
	for _, field := range positiveInts {
		if field.value <= 0 {
			return &ConfigError{
				Code:     "CONFIG_" + field.name + "_INVALID",
				Message:  field.name + " must be greater than zero",
				Metadata: map[string]string{"key": field.name},
			}
		}
	}

	positiveDurations := []struct {
		name  string
		value time.Duration
	}{
		{name: "SHUTDOWN_TIMEOUT", value: c.ShutdownTimeout},
		{name: "WEBHOOK_POLL_INTERVAL", value: c.WebhookPollInterval},
		{name: "WEBHOOK_DELIVERY_TIMEOUT", value: c.WebhookDeliveryTimeout},
		{name: "IDEMPOTENCY_PROCESSING_TIMEOUT", value: c.IdempotencyProcessingTimeout},
		{name: "WEBHOOK_ALERT_POLL_INTERVAL", value: c.WebhookAlertPollInterval},
		{name: "WEBHOOK_ALERT_COOLDOWN", value: c.WebhookAlertCooldown},
	}
	for _, field := range positiveDurations {
		if field.value <= 0 {
			return &ConfigError{
				Code:     "CONFIG_" + field.name + "_INVALID",
				Message:  field.name + " must be a positive duration",
				Metadata: map[string]string{"key": field.name},
			}
		}
	}

	if c.WebhookAlertFailedThreshold < 0 || c.WebhookAlertPendingThreshold < 0 || c.WebhookAlertOldestPendingMaxAge < 0 {
		return &ConfigError{
			Code:    "CONFIG_WEBHOOK_ALERT_THRESHOLD_INVALID",
			Message: "webhook alert thresholds must not be negative",
		}
	}
	if c.WebhookAlertEnabled &&
		c.WebhookAlertFailedThreshold == 0 &&
		c.WebhookAlertPendingThreshold == 0 &&
		c.WebhookAlertOldestPendingMaxAge == 0 {
		return &ConfigError{
			Code:    "CONFIG_WEBHOOK_ALERT_THRESHOLD_REQUIRED",
			Message: "WEBHOOK_ALERT_ENABLED requires at least one alert threshold",
		}
	}

	return nil
}

func parseError(err error) *ConfigError {
	metadata := map[string]string{}
	var aggregate env.AggregateError
	if errors.As(err, &aggregate) {
		for _, inner := range aggregate.Errors {
			var parseErr env.ParseError
			if errors.As(inner, &parseErr) {
				metadata["field"] = parseErr.Name
				break
			}
		}
	}

	return &ConfigError{
		Code:     "CONFIG_ENV_INVALID",
		Message:  err.Error(),
		Metadata: metadata,
	}
}

func parseDatabaseTarget(databaseURL string) (string, *ConfigError) {
	parsed, err := url.Parse(databaseURL)
	if err != nil {
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_URL_INVALID",
			Message: "DATABASE_URL is invalid",
		}
	}

	switch parsed.Scheme {
	case "postgres", "postgresql":
	default:
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_URL_SCHEME_INVALID",
			Message: "DATABASE_URL must use postgres or postgresql scheme",
		}
	}

	if parsed.Host == "" {
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_URL_HOST_MISSING",
			Message: "DATABASE_URL host is required",
		}
	}

	databaseName := strings.TrimPrefix(parsed.Path, "/")
	if databaseName == "" {
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_NAME_MISSING",
			Message: "DATABASE_URL database name is required",
		}
	}

	return parsed.Host + "/" + databaseName, nil
}
