package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"storefront/internal/domain"
	"storefront/internal/store"
)

// CatalogService provides business logic for managing the product catalog.
// Every write is attributed to an actor and recorded on the audit trail.
type CatalogService interface {
	Get(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Product, error)
	ListOnSale(ctx context.Context) ([]domain.Product, error)

	Create(ctx context.Context, actor string, params domain.ProductParams) (*domain.Product, error)
	Update(ctx context.Context, actor string, id int64, params domain.ProductParams) (*domain.Product, error)
	Delete(ctx context.Context, actor string, id int64) error
}

type catalogService struct {
	catalog  store.Catalog
	counters store.Counters
	audit    store.Audit
}

// NewCatalogService creates a new CatalogService instance
func NewCatalogService(s *store.Store) CatalogService {
	return &catalogService{
		catalog:  s.Catalog,
		counters: s.Counters,
		audit:    s.Audit,
	}
}

func (s *catalogService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.catalog.Get(ctx, id)
}

func (s *catalogService) List(ctx context.Context) ([]domain.Product, error) {
	return s.catalog.List(ctx)
}

func (s *catalogService) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return s.catalog.ListByCategory(ctx, category)
}

func (s *catalogService) ListOnSale(ctx context.Context) ([]domain.Product, error) {
	return s.catalog.ListOnSale(ctx)
}

// Create allocates a fresh product id, builds the record and stores it.
// Id allocation happens first; if the counter is unreachable the whole
// operation fails and nothing is written.
func (s *catalogService) Create(ctx context.Context, actor string, params domain.ProductParams) (*domain.Product, error) {
	id, err := s.counters.Next(ctx, store.NamespaceProduct)
	if err != nil {
		return nil, err
	}

	product, err := domain.NewProduct(id, params, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.catalog.Put(ctx, product); err != nil {
		return nil, err
	}

	if err := s.record(ctx, actor, fmt.Sprintf("Created product: %s with discount %d%%", product.Name, product.DiscountPercent)); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *catalogService) Update(ctx context.Context, actor string, id int64, params domain.ProductParams) (*domain.Product, error) {
	now := time.Now().UTC()
	product, err := s.catalog.Update(ctx, id, func(p *domain.Product) error {
		return p.Apply(params, now)
	})
	if err != nil {
		return nil, err
	}

	if err := s.record(ctx, actor, fmt.Sprintf("Updated product: %s with discount %d%%", product.Name, product.DiscountPercent)); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *catalogService) Delete(ctx context.Context, actor string, id int64) error {
	product, err := s.catalog.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.catalog.Delete(ctx, id); err != nil {
		return err
	}

	return s.record(ctx, actor, fmt.Sprintf("Deleted product: %s", product.Name))
}

// record appends an audit entry and reports a failed append to the
// caller. The append never rolls back the catalog write it describes;
// the trail stays gap-free because the sequence id is only consumed by
// entries that land.
func (s *catalogService) record(ctx context.Context, actor, action string) error {
	if _, err := s.audit.Append(ctx, actor, action); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("actor", actor).Str("action", action).Msg("failed to append audit entry")
		return err
	}
	return nil
}
