package service

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/store"
)

// Reconciler keeps a signed-in visitor's ephemeral cart and the durable
// copy stored on the customer record consistent.
//
// The rules are strict:
//
//   - On login the durable cart wins outright. Whatever the visitor had
//     in the ephemeral cart before signing in is discarded, never merged.
//   - Every cart mutation while signed in is mirrored to the durable copy
//     before the ephemeral copy changes. If the durable write fails, the
//     mutation fails as a whole and the ephemeral cart is untouched.
//   - Logout and checkout flush the cart durably, then the ephemeral copy
//     is discarded or cleared.
//
// Guests (empty email) skip the durable side entirely: mutations apply to
// the ephemeral cart alone and nothing survives the visit.
type Reconciler interface {
	// Login returns the signed-in customer's durable cart, replacing
	// whatever the visitor accumulated before authenticating.
	Login(ctx context.Context, email string) (*domain.Cart, error)

	// Mutate applies fn to the cart durable-first. The ephemeral cart only
	// changes after the durable write succeeds; on any failure it is left
	// exactly as it was.
	Mutate(ctx context.Context, email string, cart *domain.Cart, fn func(*domain.Cart) error) error

	// Logout flushes the ephemeral cart to the durable record. The caller
	// discards the session afterwards.
	Logout(ctx context.Context, email string, cart *domain.Cart) error

	// Commit finalizes a checkout: totals the cart, records the sale, then
	// persists the now-empty durable cart and clears the ephemeral one. If
	// any step fails the durable cart keeps its lines and the ephemeral
	// cart is untouched. An empty cart cannot be committed.
	Commit(ctx context.Context, email string, cart *domain.Cart) (domain.CartTotals, error)
}

type reconciler struct {
	customers store.Customers
	sales     store.Sales
}

// NewReconciler creates a new Reconciler instance
func NewReconciler(s *store.Store) Reconciler {
	return &reconciler{
		customers: s.Customers,
		sales:     s.Sales,
	}
}

func (r *reconciler) Login(ctx context.Context, email string) (*domain.Cart, error) {
	customer, err := r.customers.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	return customer.Cart.Clone(), nil
}

func (r *reconciler) Mutate(ctx context.Context, email string, cart *domain.Cart, fn func(*domain.Cart) error) error {
	// Guests have no durable copy to mirror.
	if email == "" {
		return fn(cart)
	}

	staged := cart.Clone()
	if err := fn(staged); err != nil {
		return err
	}

	if err := r.flush(ctx, email, staged); err != nil {
		return err
	}

	*cart = *staged
	return nil
}

func (r *reconciler) Logout(ctx context.Context, email string, cart *domain.Cart) error {
	if email == "" {
		return nil
	}
	return r.flush(ctx, email, cart)
}

func (r *reconciler) Commit(ctx context.Context, email string, cart *domain.Cart) (domain.CartTotals, error) {
	if cart.IsEmpty() {
		return domain.CartTotals{}, domain.ErrEmptyCart
	}

	totals := cart.Totals()

	// The sale is recorded before the durable cart is emptied: a failure
	// in either step must leave the durable lines in place, not wipe a
	// cart no completed sale accounts for.
	if err := r.sales.Record(ctx, totals.TotalCents); err != nil {
		return domain.CartTotals{}, err
	}

	if email != "" {
		if err := r.flush(ctx, email, &domain.Cart{}); err != nil {
			return domain.CartTotals{}, err
		}
	}

	cart.Clear()
	return totals, nil
}

// flush replaces the durable cart with a deep copy of cart.
func (r *reconciler) flush(ctx context.Context, email string, cart *domain.Cart) error {
	_, err := r.customers.Update(ctx, email, func(c *domain.Customer) error {
		c.Cart = *cart.Clone()
		return nil
	})
	return err
}
