// Package routes wires handlers onto the router. Route registration is
// kept apart from handler logic so the URL surface reads in one place.
package routes

import (
	"storefront/internal/handler"
	"storefront/internal/middleware"
	"storefront/internal/router"
	"storefront/internal/session"
)

// Deps contains everything route registration needs.
type Deps struct {
	Storefront *handler.Storefront
	Admin      *handler.Admin
	Sessions   *session.Manager
}

// Register mounts the full URL surface on r. Every route runs inside a
// session; the account and admin groups add their guards on top.
func Register(r *router.Router, deps Deps) {
	base := r.Group(middleware.WithSession(deps.Sessions))

	// Browsing
	base.Get("/", deps.Storefront.Home)
	base.Get("/products", deps.Storefront.ListProducts)
	base.Get("/products/{id}", deps.Storefront.GetProduct)

	// Cart: guests included
	base.Get("/cart", deps.Storefront.GetCart)
	base.Post("/cart/items", deps.Storefront.AddCartItem)
	base.Put("/cart/items", deps.Storefront.SetCartItemQuantity)
	base.Delete("/cart/items", deps.Storefront.RemoveCartItem)

	// Auth
	base.Post("/signup", deps.Storefront.Signup)
	base.Post("/login", deps.Storefront.Login)
	base.Post("/logout", deps.Storefront.Logout)

	// Checkout and account: signed-in only
	account := base.Group(middleware.RequireAuth)
	account.Post("/checkout", deps.Storefront.Checkout)
	account.Get("/account", deps.Storefront.GetAccount)
	account.Put("/account", deps.Storefront.UpdateAccount)
	account.Delete("/account", deps.Storefront.DeleteAccount)
	account.Post("/account/membership", deps.Storefront.UpgradeMembership)
	account.Post("/account/addresses", deps.Storefront.AddAddress)
	account.Put("/account/addresses/{index}", deps.Storefront.UpdateAddress)
	account.Delete("/account/addresses/{index}", deps.Storefront.DeleteAddress)
	account.Post("/account/addresses/{index}/select", deps.Storefront.SelectAddress)

	// Admin surface
	admin := base.Group(middleware.RequireAdmin)
	admin.Get("/admin/dashboard", deps.Admin.Dashboard)
	admin.Post("/admin/products", deps.Admin.CreateProduct)
	admin.Put("/admin/products/{id}", deps.Admin.UpdateProduct)
	admin.Delete("/admin/products/{id}", deps.Admin.DeleteProduct)
	admin.Get("/admin/customers", deps.Admin.ListCustomers)
	admin.Post("/admin/customers", deps.Admin.CreateCustomer)
	admin.Put("/admin/customers/{email}", deps.Admin.UpdateCustomer)
	admin.Delete("/admin/customers/{email}", deps.Admin.DeleteCustomer)
	admin.Post("/admin/carousel", deps.Admin.CreateCarouselItem)
	admin.Put("/admin/carousel/{id}", deps.Admin.UpdateCarouselItem)
	admin.Delete("/admin/carousel/{id}", deps.Admin.DeleteCarouselItem)

	// The change log is for superadmin eyes only.
	base.Group(middleware.RequireSuperAdmin).Get("/admin/changelog", deps.Admin.Changelog)
}
