package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTime(t *testing.T) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, "2026-02-01T10:00:00Z")
	require.NoError(t, err)
	return ts
}

func TestNewProduct_DerivesDiscountedPrice(t *testing.T) {
	now := testTime(t)

	p, err := NewProduct(3, ProductParams{
		Name:            "tee",
		Category:        "tops",
		BasePriceCents:  2599,
		DiscountPercent: 120,
		OnSale:          true,
	}, now)
	require.NoError(t, err)

	assert.Equal(t, int64(3), p.ID)
	assert.Equal(t, 90, p.DiscountPercent, "out-of-range discount is clamped, not rejected")
	assert.Equal(t, int64(260), p.DiscountedPriceCents)
}

func TestNewProduct_OffSaleForcesZeroDiscount(t *testing.T) {
	p, err := NewProduct(1, ProductParams{
		Name:            "tee",
		BasePriceCents:  2599,
		DiscountPercent: 40,
		OnSale:          false,
	}, testTime(t))
	require.NoError(t, err)

	assert.Zero(t, p.DiscountPercent)
	assert.Equal(t, p.BasePriceCents, p.DiscountedPriceCents)
}

func TestNewProduct_Validation(t *testing.T) {
	_, err := NewProduct(1, ProductParams{Name: "  ", BasePriceCents: 100}, testTime(t))
	assert.True(t, IsCode(err, EINVALID))

	_, err = NewProduct(1, ProductParams{Name: "tee", BasePriceCents: -1}, testTime(t))
	assert.True(t, IsCode(err, EINVALID))
}

func TestProduct_Apply(t *testing.T) {
	created := testTime(t)
	p, err := NewProduct(9, ProductParams{
		Name:           "tee",
		BasePriceCents: 1000,
		ImageRef:       "img-original",
	}, created)
	require.NoError(t, err)

	later := created.Add(time.Hour)
	err = p.Apply(ProductParams{
		Name:            "tee v2",
		Category:        "tops",
		BasePriceCents:  2000,
		DiscountPercent: -10,
		OnSale:          true,
	}, later)
	require.NoError(t, err)

	assert.Equal(t, int64(9), p.ID, "id is immutable across edits")
	assert.Equal(t, created, p.CreatedAt)
	assert.Equal(t, later, p.UpdatedAt)
	assert.Zero(t, p.DiscountPercent, "negative discount clamps to zero")
	assert.Equal(t, int64(2000), p.DiscountedPriceCents)
	assert.Equal(t, "img-original", p.ImageRef, "empty image ref keeps the old upload")
}
