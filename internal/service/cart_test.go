package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/store"
	"storefront/internal/store/memory"
)

func seedProduct(t *testing.T, st *store.Store, params domain.ProductParams) *domain.Product {
	t.Helper()
	p, err := NewCatalogService(st).Create(context.Background(), "admin@example.com", params)
	require.NoError(t, err)
	return p
}

func TestCartService_AddItem(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := NewCartService(st)

	sale := seedProduct(t, st, domain.ProductParams{
		Name:            "Trail Jacket",
		BasePriceCents:  10000,
		DiscountPercent: 20,
		OnSale:          true,
	})

	cart := &domain.Cart{}
	require.NoError(t, svc.AddItem(ctx, cart, sale.ID, "M", 2))

	require.Len(t, cart.Lines, 1)
	line := cart.Lines[0]
	assert.Equal(t, int64(8000), line.UnitPriceCents, "the effective sale price is snapshotted")
	assert.Equal(t, "Trail Jacket", line.Name)
	assert.Equal(t, int64(2), line.Quantity)

	// Same product and size merges; the snapshot survives a later repricing.
	_, err := NewCatalogService(st).Update(ctx, "admin@example.com", sale.ID, domain.ProductParams{
		Name:           "Trail Jacket",
		BasePriceCents: 10000,
		OnSale:         false,
	})
	require.NoError(t, err)

	require.NoError(t, svc.AddItem(ctx, cart, sale.ID, "M", 3))
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, int64(5), cart.Lines[0].Quantity)
	assert.Equal(t, int64(8000), cart.Lines[0].UnitPriceCents)

	// A different size is its own line.
	require.NoError(t, svc.AddItem(ctx, cart, sale.ID, "L", 1))
	assert.Len(t, cart.Lines, 2)
}

func TestCartService_AddItemUnknownProduct(t *testing.T) {
	ctx := context.Background()
	svc := NewCartService(memory.New())

	cart := &domain.Cart{}
	err := svc.AddItem(ctx, cart, 99, "M", 1)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
	assert.True(t, cart.IsEmpty())
}

func TestCartService_AddItemInvalidQuantity(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := NewCartService(st)
	p := seedProduct(t, st, domain.ProductParams{Name: "Wool Socks", BasePriceCents: 999})

	cart := &domain.Cart{}
	for _, qty := range []int64{0, -3} {
		err := svc.AddItem(ctx, cart, p.ID, "M", qty)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	}
	assert.True(t, cart.IsEmpty())
}

func TestCartService_SetQuantity(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := NewCartService(st)
	p := seedProduct(t, st, domain.ProductParams{Name: "Wool Socks", BasePriceCents: 999})

	cart := &domain.Cart{}
	require.NoError(t, svc.AddItem(ctx, cart, p.ID, "M", 2))

	require.NoError(t, svc.SetQuantity(ctx, cart, p.ID, "M", 7))
	assert.Equal(t, int64(7), cart.Lines[0].Quantity)

	// Dropping below one deletes the line rather than storing a zero.
	require.NoError(t, svc.SetQuantity(ctx, cart, p.ID, "M", 0))
	assert.True(t, cart.IsEmpty())

	err := svc.SetQuantity(ctx, cart, p.ID, "M", 3)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestCartService_RemoveItem(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := NewCartService(st)
	p := seedProduct(t, st, domain.ProductParams{Name: "Wool Socks", BasePriceCents: 999})

	cart := &domain.Cart{}
	require.NoError(t, svc.AddItem(ctx, cart, p.ID, "M", 2))

	require.NoError(t, svc.RemoveItem(ctx, cart, p.ID, "M"))
	assert.True(t, cart.IsEmpty())

	// Removing again is a silent no-op.
	require.NoError(t, svc.RemoveItem(ctx, cart, p.ID, "M"))
}

func TestCartService_Totals(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := NewCartService(st)
	p := seedProduct(t, st, domain.ProductParams{Name: "Trail Jacket", BasePriceCents: 4000})

	cart := &domain.Cart{}
	require.NoError(t, svc.AddItem(ctx, cart, p.ID, "M", 2))

	totals := svc.Totals(cart)
	assert.Equal(t, int64(8000), totals.SubtotalCents)
	assert.Zero(t, totals.DiscountCents)
	assert.Equal(t, int64(8000), totals.TotalCents)

	// Crossing the threshold earns the order-level discount.
	require.NoError(t, svc.SetQuantity(ctx, cart, p.ID, "M", 3))
	totals = svc.Totals(cart)
	assert.Equal(t, int64(12000), totals.SubtotalCents)
	assert.Equal(t, int64(1200), totals.DiscountCents)
	assert.Equal(t, int64(10800), totals.TotalCents)
}
