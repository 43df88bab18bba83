package di

import (
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"freightflow/internal/adapters/outbound/carrier/acme"
	"freightflow/internal/adapters/outbound/carrier/decorators"
	"freightflow/internal/adapters/outbound/carrier/rocket"
	"freightflow/internal/adapters/outbound/carrier/selector"
	portsout "freightflow/internal/application/ports/out"
	valueobjects "freightflow/internal/domain/value_objects"
	"freightflow/internal/infrastructure/metrics"
	"freightflow/internal/infrastructure/reliability/circuitbreaker"
	"freightflow/internal/infrastructure/sandbox"
)

// CarrierBuilder creates the raw carrier adapter. SeedOffset keeps each
// carrier's sandbox sequence independent of the others.
type CarrierBuilder struct {
	SeedOffset int64
	New        func() portsout.CarrierProvider
}

var carrierBuilders = map[string]CarrierBuilder{
	valueobjects.ProviderACME: {
		SeedOffset: 1,
		New:        func() portsout.CarrierProvider { return acme.New() },
	},
	valueobjects.ProviderRocket: {
		SeedOffset: 2,
		New:        func() portsout.CarrierProvider { return rocket.New() },
	},
}

var carrierBuildersMu sync.RWMutex

func RegisterCarrierBuilder(providerID string, builder CarrierBuilder) {
	normalized := valueobjects.NormalizeProviderID(providerID)
	if strings.TrimSpace(normalized) == "" || builder.New == nil {
		return
	}

	carrierBuildersMu.Lock()
	defer carrierBuildersMu.Unlock()
	carrierBuilders[normalized] = builder
}

// buildCarrierDirectory wraps every registered carrier as
// Retry(CircuitBreaker(Sandbox(carrier))) and registers it in seed-offset order.
func buildCarrierDirectory(
	runtime *sandbox.Runtime,
	collector *metrics.Collector,
	logger *zap.Logger,
) *selector.Selector {
	carrierBuildersMu.RLock()
	builders := make([]CarrierBuilder, 0, len(carrierBuilders))
	for _, builder := range carrierBuilders {
		builders = append(builders, builder)
	}
	carrierBuildersMu.RUnlock()
	sort.Slice(builders, func(i, j int) bool { return builders[i].SeedOffset < builders[j].SeedOffset })

	limiter := sandbox.NewRateLimiter()
	directory := selector.New(selector.ZipPrefixRoutingStrategy{})
	for _, builder := range builders {
		carrier := builder.New()
		providerLogger := logger.With(zap.String("provider_id", carrier.ID()))
		engine := sandbox.NewEngine(
			carrier.ID(),
			builder.SeedOffset,
			runtime,
			limiter,
			providerLogger,
			sandbox.WithOutcomeRecorder(collector),
		)

		decorated := decorators.NewRetry(
			decorators.NewCircuitBreaker(
				decorators.NewSandbox(carrier, engine),
				circuitbreaker.DefaultPolicy(),
				runtime,
				collector,
				providerLogger,
			),
			collector,
			providerLogger,
		)
		directory.Register(decorated)
	}

	return directory
}
