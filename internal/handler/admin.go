package handler

import (
	"net/http"
	"strconv"
	"time"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/service"
)

// Admin serves the management surface: dashboard, catalog and carousel
// maintenance, account administration and the change log. Route guards
// upstream ensure only admin accounts reach these handlers.
type Admin struct {
	catalog   service.CatalogService
	customers service.CustomerService
	carousel  service.CarouselService
	stats     service.StatsService
	audit     service.AuditService
}

// NewAdmin creates a new Admin handler
func NewAdmin(
	catalog service.CatalogService,
	customers service.CustomerService,
	carousel service.CarouselService,
	stats service.StatsService,
	audit service.AuditService,
) *Admin {
	return &Admin{
		catalog:   catalog,
		customers: customers,
		carousel:  carousel,
		stats:     stats,
		audit:     audit,
	}
}

// actor returns the signed-in admin's email for audit attribution.
func actor(r *http.Request) string {
	if sess := middleware.SessionFrom(r.Context()); sess != nil {
		return sess.Email
	}
	return ""
}

// Dashboard handles GET /admin/dashboard.
func (h *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Dashboard(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"customer_count":    stats.CustomerCount,
		"product_count":     stats.ProductCount,
		"total_sales_cents": stats.TotalSalesCents,
	})
}

// ============================================================================
// Catalog
// ============================================================================

type productRequest struct {
	Name            string `json:"name" validate:"required"`
	Category        string `json:"category"`
	Description     string `json:"description"`
	ImageRef        string `json:"image_ref"`
	BasePriceCents  int64  `json:"base_price_cents"`
	DiscountPercent int    `json:"discount_percent"`
	OnSale          bool   `json:"on_sale"`
}

func (req productRequest) toParams() domain.ProductParams {
	return domain.ProductParams{
		Name:            req.Name,
		Category:        req.Category,
		Description:     req.Description,
		ImageRef:        req.ImageRef,
		BasePriceCents:  req.BasePriceCents,
		DiscountPercent: req.DiscountPercent,
		OnSale:          req.OnSale,
	}
}

// CreateProduct handles POST /admin/products.
func (h *Admin) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	product, err := h.catalog.Create(r.Context(), actor(r), req.toParams())
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toProductView(product))
}

// UpdateProduct handles PUT /admin/products/{id}.
func (h *Admin) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req productRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	product, err := h.catalog.Update(r.Context(), actor(r), id, req.toParams())
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toProductView(product))
}

// DeleteProduct handles DELETE /admin/products/{id}.
func (h *Admin) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.catalog.Delete(r.Context(), actor(r), id); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ============================================================================
// Customers
// ============================================================================

type customerSummary struct {
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Role       string    `json:"role"`
	Membership string    `json:"membership"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListCustomers handles GET /admin/customers.
func (h *Admin) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	summaries := make([]customerSummary, 0, len(customers))
	for _, c := range customers {
		summaries = append(summaries, customerSummary{
			Email:      c.Email,
			FirstName:  c.FirstName,
			LastName:   c.LastName,
			Role:       string(c.Role),
			Membership: string(c.Membership),
			CreatedAt:  c.CreatedAt,
		})
	}

	respondJSON(w, http.StatusOK, map[string]any{"customers": summaries})
}

type createAccountRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password" validate:"required"`
	Role      string `json:"role"`
}

// CreateCustomer handles POST /admin/customers. Superadmins may grant
// the admin role; everyone else creates plain customer accounts.
func (h *Admin) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	role := domain.Role(req.Role)
	if role == "" {
		role = domain.RoleCustomer
	}
	if role != domain.RoleCustomer {
		sess := middleware.SessionFrom(r.Context())
		if role == domain.RoleSuperAdmin || sess == nil || sess.Role != domain.RoleSuperAdmin {
			respondError(w, r, domain.Forbidden("admin.customers.create", "cannot grant that role"))
			return
		}
	}

	customer, err := h.customers.Signup(r.Context(), actor(r), service.SignupParams{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
		Role:      role,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toAccountView(customer))
}

type updateCustomerRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Membership string `json:"membership"`
}

// UpdateCustomer handles PUT /admin/customers/{email}.
func (h *Admin) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var req updateCustomerRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	customer, err := h.customers.UpdateProfile(r.Context(), r.PathValue("email"), service.ProfileParams{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Membership: domain.MembershipTier(req.Membership),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toAccountView(customer))
}

// DeleteCustomer handles DELETE /admin/customers/{email}. Admins cannot
// delete themselves through this surface.
func (h *Admin) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")
	if email == actor(r) {
		respondError(w, r, domain.Invalid("admin.customers.delete", "cannot delete your own account here"))
		return
	}

	if err := h.customers.Delete(r.Context(), actor(r), email); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ============================================================================
// Carousel
// ============================================================================

type carouselRequest struct {
	ImageRef string `json:"image_ref"`
	Title    string `json:"title" validate:"required"`
	Caption  string `json:"caption" validate:"required"`
}

func (req carouselRequest) toParams() domain.CarouselParams {
	return domain.CarouselParams{
		ImageRef: req.ImageRef,
		Title:    req.Title,
		Caption:  req.Caption,
	}
}

// CreateCarouselItem handles POST /admin/carousel.
func (h *Admin) CreateCarouselItem(w http.ResponseWriter, r *http.Request) {
	var req carouselRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	item, err := h.carousel.Create(r.Context(), actor(r), req.toParams())
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, carouselView{
		ID:       item.ID,
		ImageRef: item.ImageRef,
		Title:    item.Title,
		Caption:  item.Caption,
	})
}

// UpdateCarouselItem handles PUT /admin/carousel/{id}.
func (h *Admin) UpdateCarouselItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req carouselRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	item, err := h.carousel.Update(r.Context(), actor(r), id, req.toParams())
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, carouselView{
		ID:       item.ID,
		ImageRef: item.ImageRef,
		Title:    item.Title,
		Caption:  item.Caption,
	})
}

// DeleteCarouselItem handles DELETE /admin/carousel/{id}.
func (h *Admin) DeleteCarouselItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.carousel.Delete(r.Context(), actor(r), id); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ============================================================================
// Change log
// ============================================================================

type auditEntryView struct {
	SequenceID int64     `json:"sequence_id"`
	Timestamp  time.Time `json:"timestamp"`
	Actor      string    `json:"actor"`
	Action     string    `json:"action"`
}

// Changelog handles GET /admin/changelog?after=N&limit=M.
func (h *Admin) Changelog(w http.ResponseWriter, r *http.Request) {
	after := queryInt64(r, "after")
	limit := int(queryInt64(r, "limit"))

	entries, err := h.audit.List(r.Context(), after, limit)
	if err != nil {
		respondError(w, r, err)
		return
	}

	views := make([]auditEntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, auditEntryView{
			SequenceID: e.SequenceID,
			Timestamp:  e.Timestamp,
			Actor:      e.Actor,
			Action:     e.Action,
		})
	}

	respondJSON(w, http.StatusOK, map[string]any{"entries": views})
}

func queryInt64(r *http.Request, name string) int64 {
	v, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
