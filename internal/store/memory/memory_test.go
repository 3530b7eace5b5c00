package memory

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/store"
)

func TestCounters_ConcurrentAllocationIsGapFree(t *testing.T) {
	s := New()
	ctx := context.Background()

	const goroutines = 50
	const perGoroutine = 20

	var wg sync.WaitGroup
	results := make(chan int64, goroutines*perGoroutine)

	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				id, err := s.Counters.Next(ctx, store.NamespaceProduct)
				assert.NoError(t, err)
				results <- id
			}
		}()
	}
	wg.Wait()
	close(results)

	ids := make([]int64, 0, goroutines*perGoroutine)
	for id := range results {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	require.Len(t, ids, goroutines*perGoroutine)
	for i, id := range ids {
		assert.Equal(t, int64(i+1), id, "ids must be distinct and gap-free")
	}
}

func TestCounters_NamespacesAreIndependent(t *testing.T) {
	s := New()
	ctx := context.Background()

	p1, _ := s.Counters.Next(ctx, store.NamespaceProduct)
	p2, _ := s.Counters.Next(ctx, store.NamespaceProduct)
	c1, _ := s.Counters.Next(ctx, store.NamespaceCarousel)

	assert.Equal(t, int64(1), p1)
	assert.Equal(t, int64(2), p2)
	assert.Equal(t, int64(1), c1, "carousel ids start fresh in their own space")
}

func TestAudit_ConcurrentAppendsStayOrdered(t *testing.T) {
	s := New()
	ctx := context.Background()

	const appends = 200
	var wg sync.WaitGroup
	for i := 0; i < appends; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Audit.Append(ctx, "admin@shop.test", "Edited product")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	entries, err := s.Audit.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, entries, appends)

	for i, e := range entries {
		assert.Equal(t, int64(i+1), e.SequenceID, "sequence must be strictly increasing and gap-free")
	}
}

func TestAudit_ListIsRestartable(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.Audit.Append(ctx, "admin@shop.test", "action")
		require.NoError(t, err)
	}

	first, err := s.Audit.List(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)

	rest, err := s.Audit.List(ctx, first[len(first)-1].SequenceID, 0)
	require.NoError(t, err)
	require.Len(t, rest, 3)
	assert.Equal(t, int64(3), rest[0].SequenceID)
}

func TestCatalog_CRUD(t *testing.T) {
	s := New()
	ctx := context.Background()

	p, err := domain.NewProduct(1, domain.ProductParams{
		Name:           "tee",
		Category:       "tops",
		BasePriceCents: 1500,
	}, time.Now())
	require.NoError(t, err)
	require.NoError(t, s.Catalog.Put(ctx, p))

	got, err := s.Catalog.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "tee", got.Name)

	_, err = s.Catalog.Get(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	byCat, err := s.Catalog.ListByCategory(ctx, "TOPS")
	require.NoError(t, err)
	assert.Len(t, byCat, 1, "category lookup is case-insensitive")

	onSale, err := s.Catalog.ListOnSale(ctx)
	require.NoError(t, err)
	assert.Empty(t, onSale)

	updated, err := s.Catalog.Update(ctx, 1, func(p *domain.Product) error {
		return p.Apply(domain.ProductParams{
			Name:            p.Name,
			Category:        p.Category,
			BasePriceCents:  p.BasePriceCents,
			DiscountPercent: 25,
			OnSale:          true,
		}, time.Now())
	})
	require.NoError(t, err)
	assert.True(t, updated.OnSale)

	onSale, err = s.Catalog.ListOnSale(ctx)
	require.NoError(t, err)
	assert.Len(t, onSale, 1)

	require.NoError(t, s.Catalog.Delete(ctx, 1))
	assert.ErrorIs(t, s.Catalog.Delete(ctx, 1), domain.ErrProductNotFound)
}

func TestCatalog_UpdateFailureLeavesRecordUnchanged(t *testing.T) {
	s := New()
	ctx := context.Background()

	p, err := domain.NewProduct(1, domain.ProductParams{Name: "tee", BasePriceCents: 1500}, time.Now())
	require.NoError(t, err)
	require.NoError(t, s.Catalog.Put(ctx, p))

	_, err = s.Catalog.Update(ctx, 1, func(p *domain.Product) error {
		p.Name = "mutated"
		return domain.Invalid("test", "boom")
	})
	require.Error(t, err)

	got, err := s.Catalog.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "tee", got.Name)
}

func TestCustomers_CreateRejectsDuplicates(t *testing.T) {
	s := New()
	ctx := context.Background()

	c, err := domain.NewCustomer("jo@shop.test", "Jo", "Ng", "hash", domain.RoleCustomer, time.Now())
	require.NoError(t, err)
	require.NoError(t, s.Customers.Create(ctx, c))

	dup, err := domain.NewCustomer("JO@shop.test", "Jo", "Ng", "hash", domain.RoleCustomer, time.Now())
	require.NoError(t, err)
	assert.ErrorIs(t, s.Customers.Create(ctx, dup), domain.ErrDuplicateEmail)
}

func TestCustomers_UpdateIsAtomicPerKey(t *testing.T) {
	s := New()
	ctx := context.Background()

	c, err := domain.NewCustomer("jo@shop.test", "Jo", "Ng", "hash", domain.RoleCustomer, time.Now())
	require.NoError(t, err)
	require.NoError(t, s.Customers.Create(ctx, c))

	// Concurrent read-modify-writes on the same customer must not lose
	// updates.
	const writers = 40
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int64) {
			defer wg.Done()
			_, err := s.Customers.Update(ctx, "jo@shop.test", func(c *domain.Customer) error {
				return c.Cart.Add(domain.CartLine{
					ProductID:      n,
					Size:           "M",
					Quantity:       1,
					UnitPriceCents: 100,
					Name:           "x",
				})
			})
			assert.NoError(t, err)
		}(int64(i))
	}
	wg.Wait()

	got, err := s.Customers.Get(ctx, "jo@shop.test")
	require.NoError(t, err)
	assert.Len(t, got.Cart.Lines, writers)
}

func TestCustomers_UpdateFailurePreservesRecord(t *testing.T) {
	s := New()
	ctx := context.Background()

	c, err := domain.NewCustomer("jo@shop.test", "Jo", "Ng", "hash", domain.RoleCustomer, time.Now())
	require.NoError(t, err)
	require.NoError(t, s.Customers.Create(ctx, c))

	_, err = s.Customers.Update(ctx, "jo@shop.test", func(c *domain.Customer) error {
		c.FirstName = "mutated"
		return domain.Invalid("test", "boom")
	})
	require.Error(t, err)

	got, err := s.Customers.Get(ctx, "jo@shop.test")
	require.NoError(t, err)
	assert.Equal(t, "Jo", got.FirstName)
}

func TestSales_Accumulates(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Sales.Record(ctx, 9000))
	require.NoError(t, s.Sales.Record(ctx, 18000))

	total, err := s.Sales.Total(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(27000), total)
}

func TestCarousel_CRUD(t *testing.T) {
	s := New()
	ctx := context.Background()

	item := &domain.CarouselItem{ID: 1, ImageRef: "img-1", Title: "Sale", Caption: "Now on"}
	require.NoError(t, s.Carousel.Put(ctx, item))

	got, err := s.Carousel.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Sale", got.Title)

	_, err = s.Carousel.Get(ctx, 2)
	assert.ErrorIs(t, err, domain.ErrCarouselItemNotFound)

	require.NoError(t, s.Carousel.Delete(ctx, 1))
	assert.ErrorIs(t, s.Carousel.Delete(ctx, 1), domain.ErrCarouselItemNotFound)
}
