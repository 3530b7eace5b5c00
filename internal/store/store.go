// Package store defines the persistence interfaces for the storefront.
// One interface owns each record space; no caller touches raw storage
// directly. Implementations live in internal/postgres (production) and
// internal/store/memory (tests, dev mode).
package store

import (
	"context"

	"storefront/internal/domain"
)

// Id allocator namespaces. Each is an independent id space with its own
// persisted monotonic counter.
const (
	NamespaceProduct  = "product"
	NamespaceCarousel = "carousel"
	NamespaceAudit    = "audit"
)

// Counters issues unique, strictly increasing identifiers per namespace.
// Implementations must use an atomic increment-and-fetch on a persisted
// counter; scanning existing keys for a maximum is not acceptable under
// concurrency.
type Counters interface {
	// Next returns the next id for the namespace. It never fails except
	// on storage unavailability, which is fatal to the caller's operation.
	Next(ctx context.Context, namespace string) (int64, error)
}

// Catalog owns the product record space, keyed by product id.
type Catalog interface {
	Get(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Product, error)
	ListOnSale(ctx context.Context) ([]domain.Product, error)

	// Put creates or replaces the record with p.ID.
	Put(ctx context.Context, p *domain.Product) error

	// Update applies fn to the current record under a per-key lock or
	// transaction. If fn returns an error the record is left unchanged.
	Update(ctx context.Context, id int64, fn func(*domain.Product) error) (*domain.Product, error)

	// Delete removes the record; the id is never reused.
	Delete(ctx context.Context, id int64) error

	Count(ctx context.Context) (int64, error)
}

// Customers owns the customer record space, keyed by lowercase email.
// The durable cart travels inside the customer record.
type Customers interface {
	Get(ctx context.Context, email string) (*domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)

	// Create fails with domain.ErrDuplicateEmail when the email is taken;
	// no record is written in that case.
	Create(ctx context.Context, c *domain.Customer) error

	// Update applies fn to the current record under a per-key lock or
	// transaction scoped to that customer. Writes for a single customer
	// serialize; independent customers proceed in parallel. If fn or the
	// write fails the stored record is unchanged.
	Update(ctx context.Context, email string, fn func(*domain.Customer) error) (*domain.Customer, error)

	Delete(ctx context.Context, email string) error

	// CountByRole counts accounts holding the given role.
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
}

// Carousel owns the carousel item record space.
type Carousel interface {
	Get(ctx context.Context, id int64) (*domain.CarouselItem, error)
	List(ctx context.Context) ([]domain.CarouselItem, error)
	Put(ctx context.Context, item *domain.CarouselItem) error
	Delete(ctx context.Context, id int64) error
}

// Audit owns the append-only administrative log. Append allocates the
// next sequence id from the audit namespace and writes the entry in one
// serialized step so the sequence stays gap-free even when concurrent
// appends race or an insert fails.
type Audit interface {
	Append(ctx context.Context, actor, action string) (*domain.AuditEntry, error)

	// List returns entries with SequenceID > afterSeq in ascending order,
	// at most limit of them (limit <= 0 means no cap). Listing is
	// restartable: callers resume from the last sequence id they saw.
	List(ctx context.Context, afterSeq int64, limit int) ([]domain.AuditEntry, error)
}

// Sales accumulates committed checkout totals for the admin dashboard.
type Sales interface {
	Record(ctx context.Context, amountCents int64) error
	Total(ctx context.Context) (int64, error)
}

// Store bundles every record space behind one wiring point.
type Store struct {
	Catalog   Catalog
	Customers Customers
	Carousel  Carousel
	Audit     Audit
	Counters  Counters
	Sales     Sales
}
