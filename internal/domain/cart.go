package domain

// CartLine is one (product, size) pairing inside a cart. The unit price
// and name are snapshots captured when the line is first added; they are
// not re-read from the catalog on later renders.
type CartLine struct {
	ProductID      int64  `json:"product_id"`
	Size           string `json:"size"`
	Quantity       int64  `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Name           string `json:"name"`
}

// LineSubtotalCents returns quantity * unit price for this line.
func (l CartLine) LineSubtotalCents() int64 {
	return l.Quantity * l.UnitPriceCents
}

// Cart is an ordered sequence of lines. Insertion order matters for
// display only. The same shape backs both the ephemeral per-visit cart
// and the durable per-customer cart.
//
// No two lines ever share a (ProductID, Size) pair, and no line has a
// quantity below 1; the mutating methods maintain both invariants.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// CartTotals is the result of totalling a cart.
type CartTotals struct {
	SubtotalCents int64
	DiscountCents int64
	TotalCents    int64
}

// find returns the index of the line matching (productID, size), or -1.
func (c *Cart) find(productID int64, size string) int {
	for i, l := range c.Lines {
		if l.ProductID == productID && l.Size == size {
			return i
		}
	}
	return -1
}

// Get returns the line matching (productID, size) if present.
func (c *Cart) Get(productID int64, size string) (CartLine, bool) {
	if i := c.find(productID, size); i >= 0 {
		return c.Lines[i], true
	}
	return CartLine{}, false
}

// Add merges a line into the cart. An existing (productID, size) line has
// its quantity incremented and keeps its original snapshots; otherwise the
// line is appended as-is. Quantities below 1 are rejected.
func (c *Cart) Add(line CartLine) error {
	if line.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if i := c.find(line.ProductID, line.Size); i >= 0 {
		c.Lines[i].Quantity += line.Quantity
		return nil
	}
	c.Lines = append(c.Lines, line)
	return nil
}

// SetQuantity replaces the quantity of the matching line. A quantity
// below 1 removes the line; a zero-quantity line never exists. Setting
// quantity on an absent line reports ErrProductNotFound.
func (c *Cart) SetQuantity(productID int64, size string, quantity int64) error {
	i := c.find(productID, size)
	if i < 0 {
		return ErrProductNotFound
	}
	if quantity < 1 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		return nil
	}
	c.Lines[i].Quantity = quantity
	return nil
}

// Remove deletes the matching line. Removing an absent line is a no-op,
// not an error.
func (c *Cart) Remove(productID int64, size string) {
	if i := c.find(productID, size); i >= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	}
}

// Clear removes all lines. Used on successful checkout commit.
func (c *Cart) Clear() {
	c.Lines = nil
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// ItemCount returns the total quantity across all lines.
func (c *Cart) ItemCount() int64 {
	var n int64
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// Clone returns a deep copy. Mutating the copy never touches the original,
// which is what lets the reconciler stage a mutation and only swap it in
// after the durable write succeeds.
func (c *Cart) Clone() *Cart {
	if len(c.Lines) == 0 {
		return &Cart{}
	}
	lines := make([]CartLine, len(c.Lines))
	copy(lines, c.Lines)
	return &Cart{Lines: lines}
}

// Totals sums the line snapshots and applies the order-level discount.
// Per-product discounts are already baked into the unit price snapshots
// and do not stack with the order-level one.
func (c *Cart) Totals() CartTotals {
	var subtotal int64
	for _, l := range c.Lines {
		subtotal += l.LineSubtotalCents()
	}
	discount := CartDiscountCents(subtotal)
	return CartTotals{
		SubtotalCents: subtotal,
		DiscountCents: discount,
		TotalCents:    subtotal - discount,
	}
}
