package service

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/store"
)

// CartService provides business logic for shopping cart operations. It
// mutates carts in place; callers that need durable mirroring wrap these
// calls through the Reconciler so the stored copy stays in step.
type CartService interface {
	// AddItem merges (productID, size, quantity) into the cart, snapshotting
	// the product's current name and effective price on first add.
	AddItem(ctx context.Context, cart *domain.Cart, productID int64, size string, quantity int64) error

	// SetQuantity replaces a line's quantity; below 1 removes the line.
	SetQuantity(ctx context.Context, cart *domain.Cart, productID int64, size string, quantity int64) error

	// RemoveItem deletes a line. Removing an absent line is a no-op.
	RemoveItem(ctx context.Context, cart *domain.Cart, productID int64, size string) error

	// Totals prices the cart: line snapshots summed, order-level discount
	// applied at the threshold.
	Totals(cart *domain.Cart) domain.CartTotals
}

type cartService struct {
	catalog store.Catalog
}

// NewCartService creates a new CartService instance
func NewCartService(s *store.Store) CartService {
	return &cartService{catalog: s.Catalog}
}

func (s *cartService) AddItem(ctx context.Context, cart *domain.Cart, productID int64, size string, quantity int64) error {
	if quantity < 1 {
		return domain.ErrInvalidQuantity
	}

	product, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return err
	}

	return cart.Add(domain.CartLine{
		ProductID:      product.ID,
		Size:           size,
		Quantity:       quantity,
		UnitPriceCents: product.DiscountedPriceCents,
		Name:           product.Name,
	})
}

func (s *cartService) SetQuantity(ctx context.Context, cart *domain.Cart, productID int64, size string, quantity int64) error {
	return cart.SetQuantity(productID, size, quantity)
}

func (s *cartService) RemoveItem(ctx context.Context, cart *domain.Cart, productID int64, size string) error {
	cart.Remove(productID, size)
	return nil
}

func (s *cartService) Totals(cart *domain.Cart) domain.CartTotals {
	return cart.Totals()
}
