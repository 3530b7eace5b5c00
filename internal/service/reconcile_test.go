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

// flakyCustomers wraps a real store and fails Update on demand, standing
// in for unreachable durable storage.
type flakyCustomers struct {
	store.Customers
	fail bool
}

func (f *flakyCustomers) Update(ctx context.Context, email string, fn func(*domain.Customer) error) (*domain.Customer, error) {
	if f.fail {
		return nil, domain.Unavailable(context.DeadlineExceeded, "customers.update", "customer storage unreachable")
	}
	return f.Customers.Update(ctx, email, fn)
}

func signupCustomer(t *testing.T, st *store.Store, email string) *domain.Customer {
	t.Helper()
	c, err := NewCustomerService(st).Signup(context.Background(), "", SignupParams{
		Email:     email,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Password:  "correct horse",
	})
	require.NoError(t, err)
	return c
}

func durableCart(t *testing.T, st *store.Store, email string) *domain.Cart {
	t.Helper()
	c, err := st.Customers.Get(context.Background(), email)
	require.NoError(t, err)
	return &c.Cart
}

func TestReconciler_LoginDurableWins(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	rec := NewReconciler(st)
	signupCustomer(t, st, "ada@example.com")

	// Stored cart has a jacket in it from a previous visit.
	require.NoError(t, rec.Mutate(ctx, "ada@example.com", &domain.Cart{}, func(c *domain.Cart) error {
		return c.Add(domain.CartLine{ProductID: 1, Size: "M", Quantity: 1, UnitPriceCents: 8000, Name: "Trail Jacket"})
	}))

	// The visitor filled an ephemeral cart before signing in; login hands
	// back the durable cart and the pre-login lines are simply gone.
	loaded, err := rec.Login(ctx, "ada@example.com")
	require.NoError(t, err)
	require.Len(t, loaded.Lines, 1)
	assert.Equal(t, "Trail Jacket", loaded.Lines[0].Name)
}

func TestReconciler_MutateMirrorsDurably(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	rec := NewReconciler(st)
	signupCustomer(t, st, "ada@example.com")

	cart := &domain.Cart{}
	require.NoError(t, rec.Mutate(ctx, "ada@example.com", cart, func(c *domain.Cart) error {
		return c.Add(domain.CartLine{ProductID: 1, Size: "M", Quantity: 2, UnitPriceCents: 999, Name: "Wool Socks"})
	}))

	require.Len(t, cart.Lines, 1)
	durable := durableCart(t, st, "ada@example.com")
	assert.Equal(t, cart.Lines, durable.Lines, "every mutation lands durably before it lands in the session")
}

func TestReconciler_MutateDurableFailureLeavesEphemeralUntouched(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	signupCustomer(t, st, "ada@example.com")

	flaky := &flakyCustomers{Customers: st.Customers}
	wrapped := *st
	wrapped.Customers = flaky
	rec := NewReconciler(&wrapped)

	cart := &domain.Cart{}
	require.NoError(t, rec.Mutate(ctx, "ada@example.com", cart, func(c *domain.Cart) error {
		return c.Add(domain.CartLine{ProductID: 1, Size: "M", Quantity: 2, UnitPriceCents: 999, Name: "Wool Socks"})
	}))

	flaky.fail = true
	err := rec.Mutate(ctx, "ada@example.com", cart, func(c *domain.Cart) error {
		return c.Add(domain.CartLine{ProductID: 2, Size: "L", Quantity: 1, UnitPriceCents: 8000, Name: "Trail Jacket"})
	})
	require.Error(t, err)
	assert.Equal(t, domain.EUNAVAILABLE, domain.ErrorCode(err))

	// The failed mutation left no trace on either copy.
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "Wool Socks", cart.Lines[0].Name)
	durable := durableCart(t, st, "ada@example.com")
	require.Len(t, durable.Lines, 1)
	assert.Equal(t, "Wool Socks", durable.Lines[0].Name)
}

func TestReconciler_MutateGuestSkipsDurable(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	rec := NewReconciler(st)

	cart := &domain.Cart{}
	require.NoError(t, rec.Mutate(ctx, "", cart, func(c *domain.Cart) error {
		return c.Add(domain.CartLine{ProductID: 1, Size: "M", Quantity: 1, UnitPriceCents: 999, Name: "Wool Socks"})
	}))
	assert.Len(t, cart.Lines, 1)
}

func TestReconciler_Logout(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	rec := NewReconciler(st)
	signupCustomer(t, st, "ada@example.com")

	cart := &domain.Cart{}
	require.NoError(t, cart.Add(domain.CartLine{ProductID: 1, Size: "M", Quantity: 4, UnitPriceCents: 999, Name: "Wool Socks"}))

	require.NoError(t, rec.Logout(ctx, "ada@example.com", cart))

	durable := durableCart(t, st, "ada@example.com")
	assert.Equal(t, cart.Lines, durable.Lines)
}

func TestReconciler_CommitEmptyCart(t *testing.T) {
	ctx := context.Background()
	rec := NewReconciler(memory.New())

	_, err := rec.Commit(ctx, "ada@example.com", &domain.Cart{})
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestReconciler_Commit(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	rec := NewReconciler(st)
	signupCustomer(t, st, "ada@example.com")

	cart := &domain.Cart{}
	require.NoError(t, cart.Add(domain.CartLine{ProductID: 1, Size: "M", Quantity: 3, UnitPriceCents: 4000, Name: "Trail Jacket"}))

	totals, err := rec.Commit(ctx, "ada@example.com", cart)
	require.NoError(t, err)
	assert.Equal(t, int64(12000), totals.SubtotalCents)
	assert.Equal(t, int64(1200), totals.DiscountCents)
	assert.Equal(t, int64(10800), totals.TotalCents)

	assert.True(t, cart.IsEmpty())
	assert.True(t, durableCart(t, st, "ada@example.com").IsEmpty())

	sales, err := st.Sales.Total(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10800), sales)
}

func TestReconciler_CommitDurableFailure(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	signupCustomer(t, st, "ada@example.com")

	flaky := &flakyCustomers{Customers: st.Customers, fail: true}
	wrapped := *st
	wrapped.Customers = flaky
	rec := NewReconciler(&wrapped)

	cart := &domain.Cart{}
	require.NoError(t, cart.Add(domain.CartLine{ProductID: 1, Size: "M", Quantity: 1, UnitPriceCents: 4000, Name: "Trail Jacket"}))

	_, err := rec.Commit(ctx, "ada@example.com", cart)
	require.Error(t, err)

	// The cart survives. The sale precedes the durable wipe, so it is
	// already on the books by the time the flush fails.
	assert.Len(t, cart.Lines, 1)
	sales, err := st.Sales.Total(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4000), sales)
}

// failingSales stands in for unreachable sales storage.
type failingSales struct {
	store.Sales
}

func (f *failingSales) Record(ctx context.Context, amountCents int64) error {
	return domain.Unavailable(context.DeadlineExceeded, "sales.record", "sales storage unreachable")
}

func TestReconciler_CommitSalesFailureKeepsDurableCart(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	signupCustomer(t, st, "ada@example.com")

	wrapped := *st
	wrapped.Sales = &failingSales{Sales: st.Sales}
	rec := NewReconciler(&wrapped)

	// Fill both copies through the normal mirror path.
	cart := &domain.Cart{}
	require.NoError(t, rec.Mutate(ctx, "ada@example.com", cart, func(c *domain.Cart) error {
		return c.Add(domain.CartLine{ProductID: 1, Size: "M", Quantity: 3, UnitPriceCents: 4000, Name: "Trail Jacket"})
	}))

	_, err := rec.Commit(ctx, "ada@example.com", cart)
	require.Error(t, err)

	// The failed commit wiped neither copy.
	require.Len(t, cart.Lines, 1)
	durable := durableCart(t, st, "ada@example.com")
	require.Len(t, durable.Lines, 1)
	assert.Equal(t, cart.Lines, durable.Lines)
}
