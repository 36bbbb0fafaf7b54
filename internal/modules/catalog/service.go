// README: Catalog service; store reads with an optional cache in front.
package catalog

import (
	"context"

	"taxigo/internal/types"
)

type Service struct {
	store *Store
	cache *Cache
}

// NewService wires the catalog reads. cache may be nil (tests, degraded mode).
func NewService(store *Store, cache *Cache) *Service {
	return &Service{store: store, cache: cache}
}

func (s *Service) ActiveTariffs(ctx context.Context) ([]Tariff, error) {
	if s.cache != nil {
		if out, ok := s.cache.GetTariffs(ctx); ok {
			return out, nil
		}
	}
	out, err := s.store.ActiveTariffs(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetTariffs(ctx, out)
	}
	return out, nil
}

func (s *Service) ActivePaymentMethods(ctx context.Context) ([]PaymentMethod, error) {
	if s.cache != nil {
		if out, ok := s.cache.GetPaymentMethods(ctx); ok {
			return out, nil
		}
	}
	out, err := s.store.ActivePaymentMethods(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetPaymentMethods(ctx, out)
	}
	return out, nil
}

// Point lookups bypass the cache; they back the booking flow and must see
// the current active flag.
func (s *Service) TariffByID(ctx context.Context, id types.ID) (Tariff, error) {
	return s.store.TariffByID(ctx, id)
}

func (s *Service) TariffByName(ctx context.Context, name string) (Tariff, error) {
	return s.store.TariffByName(ctx, name)
}

func (s *Service) PaymentMethodByID(ctx context.Context, id types.ID) (PaymentMethod, error) {
	return s.store.PaymentMethodByID(ctx, id)
}
