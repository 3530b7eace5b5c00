// Package postgres implements the store interfaces over PostgreSQL using
// pgx. Per-key mutation runs inside row-locked transactions; counters use
// a single atomic upsert-increment so concurrent allocators serialize on
// the namespace row.
package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/store"
)

// New wires every record space over the given pool.
func New(pool *pgxpool.Pool) *store.Store {
	return &store.Store{
		Catalog:   &catalogStore{pool: pool},
		Customers: &customerStore{pool: pool},
		Carousel:  &carouselStore{pool: pool},
		Audit:     &auditStore{pool: pool},
		Counters:  &counterStore{pool: pool},
		Sales:     &salesStore{pool: pool},
	}
}
