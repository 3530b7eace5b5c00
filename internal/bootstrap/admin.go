// Package bootstrap handles one-time initialization tasks for the application.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"storefront/internal/auth"
	"storefront/internal/domain"
	"storefront/internal/store"
)

// AdminConfig contains configuration for the initial superadmin account.
type AdminConfig struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Validate checks that the admin configuration is valid.
func (c *AdminConfig) Validate() error {
	if c.Email == "" {
		return errors.New("admin email is required")
	}
	if c.Password == "" {
		return errors.New("admin password is required")
	}
	if len(c.Password) < 12 {
		return errors.New("admin password must be at least 12 characters")
	}
	return nil
}

// EnsureSuperAdmin creates the initial superadmin account if it doesn't
// exist. Idempotent: safe to call on every startup, including when two
// replicas race on first boot.
//
// If cfg is nil or has an empty email/password, it logs a warning and
// skips, which allows running without an admin in dev.
func EnsureSuperAdmin(ctx context.Context, customers store.Customers, cfg *AdminConfig, logger zerolog.Logger) error {
	if cfg == nil || cfg.Email == "" || cfg.Password == "" {
		logger.Warn().
			Str("hint", "set STOREFRONT_ADMIN_EMAIL and STOREFRONT_ADMIN_PASSWORD to seed a superadmin on first startup").
			Msg("bootstrap: skipping superadmin creation")
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid admin configuration: %w", err)
	}

	hash, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	firstName := cfg.FirstName
	if firstName == "" {
		firstName = "Super"
	}
	lastName := cfg.LastName
	if lastName == "" {
		lastName = "Admin"
	}

	admin, err := domain.NewCustomer(cfg.Email, firstName, lastName, hash, domain.RoleSuperAdmin, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("invalid admin account: %w", err)
	}

	if err := customers.Create(ctx, admin); err != nil {
		// A duplicate means a previous boot (or a concurrent replica)
		// already seeded the account.
		if errors.Is(err, domain.ErrDuplicateEmail) {
			logger.Info().Str("email", admin.Email).Msg("bootstrap: superadmin already exists")
			return nil
		}
		return fmt.Errorf("failed to create superadmin: %w", err)
	}

	logger.Info().Str("email", admin.Email).Msg("bootstrap: superadmin created")
	return nil
}
