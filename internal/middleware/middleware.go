// Package middleware provides HTTP middleware shared by the storefront
// and admin surfaces: request ids, Prometheus metrics and session-based
// authentication guards.
package middleware

// contextKey is a private type for context values set by this package.
type contextKey string
