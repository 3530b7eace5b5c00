package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/store/memory"
)

func TestCarouselService_CRUD(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := NewCarouselService(st)

	item, err := svc.Create(ctx, "admin@example.com", domain.CarouselParams{
		ImageRef: "banners/spring",
		Title:    "Spring Sale",
		Caption:  "Up to 40% off outerwear",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), item.ID)

	// Carousel ids come from their own namespace; a product created in
	// between does not advance them.
	_, err = NewCatalogService(st).Create(ctx, "admin@example.com", domain.ProductParams{
		Name:           "Trail Jacket",
		BasePriceCents: 12999,
	})
	require.NoError(t, err)

	second, err := svc.Create(ctx, "admin@example.com", domain.CarouselParams{
		Title:   "New Arrivals",
		Caption: "Fresh styles for the season",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)

	updated, err := svc.Update(ctx, "admin@example.com", item.ID, domain.CarouselParams{
		Title:   "Spring Clearance",
		Caption: "Final markdowns",
	})
	require.NoError(t, err)
	assert.Equal(t, "Spring Clearance", updated.Title)
	assert.Equal(t, "banners/spring", updated.ImageRef, "an empty image ref keeps the old one")

	require.NoError(t, svc.Delete(ctx, "admin@example.com", item.ID))
	_, err = svc.Get(ctx, item.ID)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, second.ID, items[0].ID)
}

func TestCarouselService_CreateInvalid(t *testing.T) {
	ctx := context.Background()
	svc := NewCarouselService(memory.New())

	_, err := svc.Create(ctx, "admin@example.com", domain.CarouselParams{Title: "No caption"})
	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func TestAuditService_AppendAndList(t *testing.T) {
	ctx := context.Background()
	svc := NewAuditService(memory.New())

	for _, action := range []string{"first", "second", "third"} {
		_, err := svc.Append(ctx, "root@example.com", action)
		require.NoError(t, err)
	}

	entry, err := svc.Append(ctx, "", "anonymous action")
	require.NoError(t, err)
	assert.Equal(t, domain.UnknownActor, entry.Actor)
	assert.Equal(t, int64(4), entry.SequenceID)

	// Paging resumes from the last sequence seen.
	page, err := svc.List(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "first", page[0].Action)

	rest, err := svc.List(ctx, page[1].SequenceID, 0)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Equal(t, "third", rest[0].Action)
}

func TestStatsService_Dashboard(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	_, err := NewCustomerService(st).Signup(ctx, "", SignupParams{Email: "ada@example.com", Password: "correct horse"})
	require.NoError(t, err)
	_, err = NewCustomerService(st).Signup(ctx, "", SignupParams{Email: "root@example.com", Password: "correct horse", Role: domain.RoleSuperAdmin})
	require.NoError(t, err)

	_, err = NewCatalogService(st).Create(ctx, "root@example.com", domain.ProductParams{Name: "Trail Jacket", BasePriceCents: 12999})
	require.NoError(t, err)

	require.NoError(t, st.Sales.Record(ctx, 10800))
	require.NoError(t, st.Sales.Record(ctx, 999))

	stats, err := NewStatsService(st).Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.CustomerCount, "admin accounts do not count as customers")
	assert.Equal(t, int64(1), stats.ProductCount)
	assert.Equal(t, int64(11799), stats.TotalSalesCents)
}
