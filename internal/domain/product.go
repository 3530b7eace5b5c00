package domain

import (
	"strings"
	"time"
)

// Product represents a catalog record. IDs are allocated once and never
// reused; the id is immutable after creation.
type Product struct {
	ID          int64
	Name        string
	Category    string
	Description string

	// ImageRef is an opaque handle issued by the external image store.
	// The catalog only stores and forwards it.
	ImageRef string

	BasePriceCents  int64
	DiscountPercent int
	OnSale          bool

	// DiscountedPriceCents is derived from the three fields above and
	// recomputed on every write. Equal to BasePriceCents when OnSale is
	// false.
	DiscountedPriceCents int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductParams carries the caller-supplied fields for creating or editing
// a product. The id never appears here; it is allocated on create and
// immutable afterwards.
type ProductParams struct {
	Name            string
	Category        string
	Description     string
	ImageRef        string
	BasePriceCents  int64
	DiscountPercent int
	OnSale          bool
}

// Validate checks the business rules every write path must satisfy.
// The discount percentage is deliberately not validated: out-of-range
// values are clamped, not rejected.
func (p ProductParams) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return Invalid("product.validate", "name is required")
	}
	if p.BasePriceCents < 0 {
		return Invalid("product.validate", "price must not be negative")
	}
	return nil
}

// NewProduct builds a validated product from params, normalizing the
// discount fields and deriving the discounted price.
func NewProduct(id int64, params ProductParams, now time.Time) (*Product, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	p := &Product{
		ID:              id,
		Name:            params.Name,
		Category:        params.Category,
		Description:     params.Description,
		ImageRef:        params.ImageRef,
		BasePriceCents:  params.BasePriceCents,
		DiscountPercent: params.DiscountPercent,
		OnSale:          params.OnSale,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	p.Reprice()
	return p, nil
}

// Apply overwrites the mutable fields from params and re-derives pricing.
// The id and creation time are untouched.
func (p *Product) Apply(params ProductParams, now time.Time) error {
	if err := params.Validate(); err != nil {
		return err
	}

	p.Name = params.Name
	p.Category = params.Category
	p.Description = params.Description
	if params.ImageRef != "" {
		p.ImageRef = params.ImageRef
	}
	p.BasePriceCents = params.BasePriceCents
	p.DiscountPercent = params.DiscountPercent
	p.OnSale = params.OnSale
	p.UpdatedAt = now
	p.Reprice()
	return nil
}

// Reprice normalizes the discount fields and re-derives DiscountedPriceCents.
// Off-sale products carry a zero discount regardless of what was supplied.
func (p *Product) Reprice() {
	if !p.OnSale {
		p.DiscountPercent = 0
		p.DiscountedPriceCents = p.BasePriceCents
		return
	}
	p.DiscountPercent = ClampDiscountPercent(p.DiscountPercent)
	p.DiscountedPriceCents = DiscountedPriceCents(p.BasePriceCents, p.DiscountPercent, true)
}
