package handler

import (
	"net/http"
	"strconv"
	"time"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/service"
	"storefront/internal/session"
)

// Storefront serves the customer-facing surface: browsing, the cart,
// checkout and account management.
type Storefront struct {
	catalog   service.CatalogService
	carts     service.CartService
	customers service.CustomerService
	carousel  service.CarouselService
	rec       service.Reconciler
	sessions  *session.Manager
}

// NewStorefront creates a new Storefront handler
func NewStorefront(
	catalog service.CatalogService,
	carts service.CartService,
	customers service.CustomerService,
	carousel service.CarouselService,
	rec service.Reconciler,
	sessions *session.Manager,
) *Storefront {
	return &Storefront{
		catalog:   catalog,
		carts:     carts,
		customers: customers,
		carousel:  carousel,
		rec:       rec,
		sessions:  sessions,
	}
}

// ============================================================================
// View models
// ============================================================================

type productView struct {
	ID                   int64  `json:"id"`
	Name                 string `json:"name"`
	Category             string `json:"category"`
	Description          string `json:"description"`
	ImageRef             string `json:"image_ref"`
	BasePriceCents       int64  `json:"base_price_cents"`
	DiscountPercent      int    `json:"discount_percent"`
	OnSale               bool   `json:"on_sale"`
	DiscountedPriceCents int64  `json:"discounted_price_cents"`
}

func toProductView(p *domain.Product) productView {
	return productView{
		ID:                   p.ID,
		Name:                 p.Name,
		Category:             p.Category,
		Description:          p.Description,
		ImageRef:             p.ImageRef,
		BasePriceCents:       p.BasePriceCents,
		DiscountPercent:      p.DiscountPercent,
		OnSale:               p.OnSale,
		DiscountedPriceCents: p.DiscountedPriceCents,
	}
}

func toProductViews(products []domain.Product) []productView {
	views := make([]productView, 0, len(products))
	for i := range products {
		views = append(views, toProductView(&products[i]))
	}
	return views
}

type carouselView struct {
	ID       int64  `json:"id"`
	ImageRef string `json:"image_ref"`
	Title    string `json:"title"`
	Caption  string `json:"caption"`
}

type cartLineView struct {
	ProductID      int64  `json:"product_id"`
	Size           string `json:"size"`
	Quantity       int64  `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Name           string `json:"name"`
	SubtotalCents  int64  `json:"subtotal_cents"`
}

type cartView struct {
	Lines         []cartLineView `json:"lines"`
	ItemCount     int64          `json:"item_count"`
	SubtotalCents int64          `json:"subtotal_cents"`
	DiscountCents int64          `json:"discount_cents"`
	TotalCents    int64          `json:"total_cents"`
}

func toCartView(cart *domain.Cart) cartView {
	totals := cart.Totals()
	lines := make([]cartLineView, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		lines = append(lines, cartLineView{
			ProductID:      l.ProductID,
			Size:           l.Size,
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
			Name:           l.Name,
			SubtotalCents:  l.LineSubtotalCents(),
		})
	}
	return cartView{
		Lines:         lines,
		ItemCount:     cart.ItemCount(),
		SubtotalCents: totals.SubtotalCents,
		DiscountCents: totals.DiscountCents,
		TotalCents:    totals.TotalCents,
	}
}

type accountView struct {
	Email           string           `json:"email"`
	FirstName       string           `json:"first_name"`
	LastName        string           `json:"last_name"`
	Membership      string           `json:"membership"`
	Addresses       []domain.Address `json:"addresses"`
	SelectedAddress int              `json:"selected_address"`
	CreatedAt       time.Time        `json:"created_at"`
}

func toAccountView(c *domain.Customer) accountView {
	addresses := c.Addresses
	if addresses == nil {
		addresses = []domain.Address{}
	}
	return accountView{
		Email:           c.Email,
		FirstName:       c.FirstName,
		LastName:        c.LastName,
		Membership:      string(c.Membership),
		Addresses:       addresses,
		SelectedAddress: c.SelectedAddress,
		CreatedAt:       c.CreatedAt,
	}
}

// ============================================================================
// Browsing
// ============================================================================

// Home handles GET / and returns the carousel plus the full catalog.
func (h *Storefront) Home(w http.ResponseWriter, r *http.Request) {
	items, err := h.carousel.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	products, err := h.catalog.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	banners := make([]carouselView, 0, len(items))
	for _, item := range items {
		banners = append(banners, carouselView{
			ID:       item.ID,
			ImageRef: item.ImageRef,
			Title:    item.Title,
			Caption:  item.Caption,
		})
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"carousel": banners,
		"products": toProductViews(products),
	})
}

// ListProducts handles GET /products with optional category and on_sale
// filters.
func (h *Storefront) ListProducts(w http.ResponseWriter, r *http.Request) {
	var (
		products []domain.Product
		err      error
	)

	switch {
	case r.URL.Query().Get("on_sale") == "true":
		products, err = h.catalog.ListOnSale(r.Context())
	case r.URL.Query().Get("category") != "":
		products, err = h.catalog.ListByCategory(r.Context(), r.URL.Query().Get("category"))
	default:
		products, err = h.catalog.List(r.Context())
	}
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"products": toProductViews(products)})
}

// GetProduct handles GET /products/{id}.
func (h *Storefront) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	product, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toProductView(product))
}

// ============================================================================
// Cart
// ============================================================================

// GetCart handles GET /cart.
func (h *Storefront) GetCart(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r.Context())
	sess.Lock()
	defer sess.Unlock()

	respondJSON(w, http.StatusOK, toCartView(sess.Cart))
}

type addItemRequest struct {
	ProductID int64  `json:"product_id" validate:"required"`
	Size      string `json:"size" validate:"required"`

	// Quantity is range-checked downstream so a zero maps to the same
	// rejection as a negative, not a generic field error.
	Quantity int64 `json:"quantity"`
}

// AddCartItem handles POST /cart/items.
func (h *Storefront) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	sess := middleware.SessionFrom(r.Context())
	sess.Lock()
	defer sess.Unlock()

	err := h.rec.Mutate(r.Context(), sess.Email, sess.Cart, func(cart *domain.Cart) error {
		return h.carts.AddItem(r.Context(), cart, req.ProductID, req.Size, req.Quantity)
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toCartView(sess.Cart))
}

type setQuantityRequest struct {
	ProductID int64  `json:"product_id" validate:"required"`
	Size      string `json:"size" validate:"required"`
	Quantity  int64  `json:"quantity"`
}

// SetCartItemQuantity handles PUT /cart/items. A quantity below 1
// removes the line.
func (h *Storefront) SetCartItemQuantity(w http.ResponseWriter, r *http.Request) {
	var req setQuantityRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	sess := middleware.SessionFrom(r.Context())
	sess.Lock()
	defer sess.Unlock()

	err := h.rec.Mutate(r.Context(), sess.Email, sess.Cart, func(cart *domain.Cart) error {
		return h.carts.SetQuantity(r.Context(), cart, req.ProductID, req.Size, req.Quantity)
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toCartView(sess.Cart))
}

type removeItemRequest struct {
	ProductID int64  `json:"product_id" validate:"required"`
	Size      string `json:"size" validate:"required"`
}

// RemoveCartItem handles DELETE /cart/items.
func (h *Storefront) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	var req removeItemRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	sess := middleware.SessionFrom(r.Context())
	sess.Lock()
	defer sess.Unlock()

	err := h.rec.Mutate(r.Context(), sess.Email, sess.Cart, func(cart *domain.Cart) error {
		return h.carts.RemoveItem(r.Context(), cart, req.ProductID, req.Size)
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toCartView(sess.Cart))
}

// Checkout handles POST /checkout. Requires a signed-in session.
func (h *Storefront) Checkout(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r.Context())
	sess.Lock()
	defer sess.Unlock()

	totals, err := h.rec.Commit(r.Context(), sess.Email, sess.Cart)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"subtotal_cents": totals.SubtotalCents,
		"discount_cents": totals.DiscountCents,
		"total_cents":    totals.TotalCents,
	})
}

// ============================================================================
// Accounts
// ============================================================================

type signupRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password" validate:"required"`
}

// Signup handles POST /signup.
func (h *Storefront) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	customer, err := h.customers.Signup(r.Context(), "", service.SignupParams{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toAccountView(customer))
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /login. The durable cart replaces whatever the
// session accumulated before signing in.
func (h *Storefront) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	customer, err := h.customers.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	cart, err := h.rec.Login(r.Context(), customer.Email)
	if err != nil {
		respondError(w, r, err)
		return
	}

	sess := middleware.SessionFrom(r.Context())
	sess.Lock()
	sess.Email = customer.Email
	sess.Role = customer.Role
	sess.Cart = cart
	sess.Unlock()

	respondJSON(w, http.StatusOK, map[string]any{
		"account": toAccountView(customer),
		"cart":    toCartView(cart),
	})
}

// Logout handles POST /logout: the cart is flushed durably, then the
// session and its ephemeral state are discarded.
func (h *Storefront) Logout(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r.Context())

	// The lock is held across the flush so a concurrent cart mutation on
	// the same session cannot interleave with the durable write.
	sess.Lock()
	defer sess.Unlock()

	if sess.Email != "" {
		if err := h.rec.Logout(r.Context(), sess.Email, sess.Cart); err != nil {
			respondError(w, r, err)
			return
		}
	}

	h.sessions.Destroy(sess.Token)
	middleware.ClearSessionCookie(w)
	respondJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

// GetAccount handles GET /account.
func (h *Storefront) GetAccount(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r.Context())

	customer, err := h.customers.Get(r.Context(), sess.Email)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toAccountView(customer))
}

type updateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

// UpdateAccount handles PUT /account.
func (h *Storefront) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	sess := middleware.SessionFrom(r.Context())
	customer, err := h.customers.UpdateProfile(r.Context(), sess.Email, service.ProfileParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toAccountView(customer))
}

// DeleteAccount handles DELETE /account and ends the session.
func (h *Storefront) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r.Context())

	if err := h.customers.Delete(r.Context(), sess.Email, sess.Email); err != nil {
		respondError(w, r, err)
		return
	}

	h.sessions.Destroy(sess.Token)
	middleware.ClearSessionCookie(w)
	respondJSON(w, http.StatusOK, map[string]string{"status": "account deleted"})
}

// UpgradeMembership handles POST /account/membership.
func (h *Storefront) UpgradeMembership(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r.Context())

	customer, err := h.customers.UpgradeMembership(r.Context(), sess.Email)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toAccountView(customer))
}

// ============================================================================
// Address book
// ============================================================================

type addressRequest struct {
	Country  string `json:"country"`
	Line1    string `json:"line1" validate:"required"`
	City     string `json:"city" validate:"required"`
	State    string `json:"state"`
	Postcode string `json:"postcode"`
}

func (req addressRequest) toDomain() domain.Address {
	return domain.Address{
		Country:  req.Country,
		Line1:    req.Line1,
		City:     req.City,
		State:    req.State,
		Postcode: req.Postcode,
	}
}

// AddAddress handles POST /account/addresses.
func (h *Storefront) AddAddress(w http.ResponseWriter, r *http.Request) {
	var req addressRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	sess := middleware.SessionFrom(r.Context())
	customer, err := h.customers.AddAddress(r.Context(), sess.Email, req.toDomain())
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toAccountView(customer))
}

// UpdateAddress handles PUT /account/addresses/{index}.
func (h *Storefront) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req addressRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	sess := middleware.SessionFrom(r.Context())
	customer, err := h.customers.UpdateAddress(r.Context(), sess.Email, index, req.toDomain())
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toAccountView(customer))
}

// DeleteAddress handles DELETE /account/addresses/{index}.
func (h *Storefront) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	sess := middleware.SessionFrom(r.Context())
	customer, err := h.customers.DeleteAddress(r.Context(), sess.Email, index)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toAccountView(customer))
}

// SelectAddress handles POST /account/addresses/{index}/select.
func (h *Storefront) SelectAddress(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	sess := middleware.SessionFrom(r.Context())
	customer, err := h.customers.SelectAddress(r.Context(), sess.Email, index)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toAccountView(customer))
}

// ============================================================================
// Path helpers
// ============================================================================

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id < 1 {
		return 0, domain.Invalid("handler.path", "invalid id")
	}
	return id, nil
}

func pathIndex(r *http.Request) (int, error) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || index < 0 {
		return 0, domain.Invalid("handler.path", "invalid address index")
	}
	return index, nil
}
