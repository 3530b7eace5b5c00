package service

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/store"
)

// DashboardStats is the admin landing page summary.
type DashboardStats struct {
	CustomerCount   int64
	ProductCount    int64
	TotalSalesCents int64
}

// StatsService aggregates counts for the admin dashboard.
type StatsService interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
}

type statsService struct {
	customers store.Customers
	catalog   store.Catalog
	sales     store.Sales
}

// NewStatsService creates a new StatsService instance
func NewStatsService(s *store.Store) StatsService {
	return &statsService{
		customers: s.Customers,
		catalog:   s.Catalog,
		sales:     s.Sales,
	}
}

func (s *statsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	customers, err := s.customers.CountByRole(ctx, domain.RoleCustomer)
	if err != nil {
		return nil, err
	}

	products, err := s.catalog.Count(ctx)
	if err != nil {
		return nil, err
	}

	sales, err := s.sales.Total(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		CustomerCount:   customers,
		ProductCount:    products,
		TotalSalesCents: sales,
	}, nil
}
