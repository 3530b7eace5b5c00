package domain

// Discount business rules. All prices are integer cents; the two-decimal
// half-up rounding the storefront shows is exact integer arithmetic here.
const (
	// MaxDiscountPercent caps per-product discounts. Values outside
	// [0, MaxDiscountPercent] are clamped silently, not rejected.
	MaxDiscountPercent = 90

	// CartDiscountThresholdCents is the subtotal at which the order-level
	// discount kicks in ($100.00).
	CartDiscountThresholdCents = 10000

	// CartDiscountPercent is the order-level discount rate applied at or
	// above the threshold.
	CartDiscountPercent = 10
)

// ClampDiscountPercent forces a discount percentage into [0, MaxDiscountPercent].
func ClampDiscountPercent(percent int) int {
	if percent < 0 {
		return 0
	}
	if percent > MaxDiscountPercent {
		return MaxDiscountPercent
	}
	return percent
}

// DiscountedPriceCents computes the price a customer pays for a product.
//
// When onSale is false the discount is ignored entirely and the base price
// is returned unchanged. Otherwise the percentage is clamped to
// [0, MaxDiscountPercent] and applied with half-up rounding to the cent.
// The function is pure: same inputs, same output, no side effects.
func DiscountedPriceCents(basePriceCents int64, discountPercent int, onSale bool) int64 {
	if !onSale {
		return basePriceCents
	}
	percent := ClampDiscountPercent(discountPercent)
	return roundHalfUp(basePriceCents*int64(100-percent), 100)
}

// CartDiscountCents returns the order-level discount for a subtotal:
// CartDiscountPercent of the subtotal once it reaches the threshold,
// zero below it. Product discounts are already baked into line snapshots
// and never stack with this.
func CartDiscountCents(subtotalCents int64) int64 {
	if subtotalCents < CartDiscountThresholdCents {
		return 0
	}
	return roundHalfUp(subtotalCents*CartDiscountPercent, 100)
}

// roundHalfUp divides numerator by divisor rounding half away from zero.
// Both arguments are expected to be non-negative.
func roundHalfUp(numerator, divisor int64) int64 {
	return (numerator + divisor/2) / divisor
}
