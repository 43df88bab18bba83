package selector

import (
	"fmt"
	"strings"
	"sync"

	portsout "freightflow/internal/application/ports/out"
	"freightflow/internal/domain/entities"
	valueobjects "freightflow/internal/domain/value_objects"
	apperrors "freightflow/internal/shared_kernel/errors"
)

type RoutingStrategy interface {
	Select(request entities.ShipmentRequest, providers map[string]portsout.CarrierProvider) (portsout.CarrierProvider, *apperrors.AppError)
}

// ZipPrefixRoutingStrategy sends destinations starting with 0 or 1 to ACME and everything else to ROCKET.
type ZipPrefixRoutingStrategy struct{}

func (ZipPrefixRoutingStrategy) Select(
	request entities.ShipmentRequest,
	providers map[string]portsout.CarrierProvider,
) (portsout.CarrierProvider, *apperrors.AppError) {
	target := valueobjects.ProviderRocket
	if strings.HasPrefix(request.DestinationZip, "0") || strings.HasPrefix(request.DestinationZip, "1") {
		target = valueobjects.ProviderACME
	}

	provider, ok := providers[target]
	if !ok {
		return nil, apperrors.NewInternal(
			"routing_provider_unresolved",
			fmt.Sprintf("Routing strategy could not resolve provider %s", target),
			map[string]any{"provider_id": target},
		)
	}
	return provider, nil
}

type Selector struct {
	mu        sync.RWMutex
	strategy  RoutingStrategy
	providers map[string]portsout.CarrierProvider
	order     []string
}

var _ portsout.CarrierDirectory = (*Selector)(nil)

func New(strategy RoutingStrategy, providers ...portsout.CarrierProvider) *Selector {
	if strategy == nil {
		strategy = ZipPrefixRoutingStrategy{}
	}

	selector := &Selector{
		strategy:  strategy,
		providers: make(map[string]portsout.CarrierProvider, len(providers)),
	}
	for _, provider := range providers {
		selector.Register(provider)
	}
	return selector
}

func (s *Selector) Register(provider portsout.CarrierProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := provider.ID()
	if _, exists := s.providers[id]; !exists {
		s.order = append(s.order, id)
	}
	s.providers[id] = provider
}

func (s *Selector) Provider(id string) (portsout.CarrierProvider, *apperrors.AppError) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	provider, ok := s.providers[id]
	if !ok {
		return nil, apperrors.NewNotFound(
			"provider_not_found",
			fmt.Sprintf("Provider %s not found", id),
			map[string]any{"provider_id": id},
		)
	}
	return provider, nil
}

func (s *Selector) Route(request entities.ShipmentRequest) (portsout.CarrierProvider, *apperrors.AppError) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.strategy.Select(request, s.providers)
}

// Providers returns the registered carriers in registration order. Re-registering
// an id replaces the carrier in place.
func (s *Selector) Providers() []portsout.CarrierProvider {
	s.mu.RLock()
	defer s.mu.RUnlock()

	providers := make([]portsout.CarrierProvider, 0, len(s.order))
	for _, id := range s.order {
		providers = append(providers, s.providers[id])
	}
	return providers
}
