package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"storefront/internal/auth"
	"storefront/internal/domain"
	"storefront/internal/store"
)

// CustomerService provides business logic for account management: signup,
// authentication, profile edits, the membership upgrade and the delivery
// address book.
type CustomerService interface {
	Get(ctx context.Context, email string) (*domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)

	// Signup registers a new account. The actor is the admin performing
	// the registration, or empty for self-service signup.
	Signup(ctx context.Context, actor string, params SignupParams) (*domain.Customer, error)

	// Authenticate verifies credentials and returns the account.
	Authenticate(ctx context.Context, email, password string) (*domain.Customer, error)

	UpdateProfile(ctx context.Context, email string, params ProfileParams) (*domain.Customer, error)

	// UpgradeMembership moves the account to the top tier. Upgrading an
	// account already at the top tier is a no-op.
	UpgradeMembership(ctx context.Context, email string) (*domain.Customer, error)

	Delete(ctx context.Context, actor, email string) error

	AddAddress(ctx context.Context, email string, addr domain.Address) (*domain.Customer, error)
	UpdateAddress(ctx context.Context, email string, index int, addr domain.Address) (*domain.Customer, error)
	DeleteAddress(ctx context.Context, email string, index int) (*domain.Customer, error)
	SelectAddress(ctx context.Context, email string, index int) (*domain.Customer, error)
}

// SignupParams carries the caller-supplied fields for registration.
type SignupParams struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
	Role      domain.Role
}

// ProfileParams carries the editable profile fields. Zero values leave
// the corresponding field unchanged; Membership must be a known tier
// when set.
type ProfileParams struct {
	FirstName  string
	LastName   string
	Password   string
	Membership domain.MembershipTier
}

type customerService struct {
	customers store.Customers
	audit     store.Audit
}

// NewCustomerService creates a new CustomerService instance
func NewCustomerService(s *store.Store) CustomerService {
	return &customerService{
		customers: s.Customers,
		audit:     s.Audit,
	}
}

func (s *customerService) Get(ctx context.Context, email string) (*domain.Customer, error) {
	return s.customers.Get(ctx, email)
}

func (s *customerService) List(ctx context.Context) ([]domain.Customer, error) {
	return s.customers.List(ctx)
}

func (s *customerService) Signup(ctx context.Context, actor string, params SignupParams) (*domain.Customer, error) {
	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return nil, domain.Invalid("customer.signup", err.Error())
		}
		return nil, domain.Internal(err, "customer.signup", "failed to hash password")
	}

	customer, err := domain.NewCustomer(params.Email, params.FirstName, params.LastName, hash, params.Role, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}

	if actor != "" {
		if err := s.record(ctx, actor, fmt.Sprintf("Created user: %s", customer.Email)); err != nil {
			return nil, err
		}
	}
	return customer, nil
}

func (s *customerService) Authenticate(ctx context.Context, email, password string) (*domain.Customer, error) {
	customer, err := s.customers.Get(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return nil, domain.Unauthorized("customer.authenticate", "Invalid email or password")
		}
		return nil, err
	}

	if err := auth.VerifyPassword(password, customer.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, domain.Unauthorized("customer.authenticate", "Invalid email or password")
		}
		return nil, domain.Internal(err, "customer.authenticate", "failed to verify password")
	}

	return customer, nil
}

func (s *customerService) UpdateProfile(ctx context.Context, email string, params ProfileParams) (*domain.Customer, error) {
	var hash string
	if params.Password != "" {
		h, err := auth.HashPassword(params.Password)
		if err != nil {
			if errors.Is(err, auth.ErrPasswordTooShort) {
				return nil, domain.Invalid("customer.update", err.Error())
			}
			return nil, domain.Internal(err, "customer.update", "failed to hash password")
		}
		hash = h
	}
	if params.Membership != "" && !domain.ValidTier(params.Membership) {
		return nil, domain.Invalid("customer.update", fmt.Sprintf("unknown membership tier: %s", params.Membership))
	}

	return s.customers.Update(ctx, email, func(c *domain.Customer) error {
		if params.FirstName != "" {
			c.FirstName = params.FirstName
		}
		if params.LastName != "" {
			c.LastName = params.LastName
		}
		if hash != "" {
			c.PasswordHash = hash
		}
		if params.Membership != "" {
			c.Membership = params.Membership
		}
		return nil
	})
}

func (s *customerService) UpgradeMembership(ctx context.Context, email string) (*domain.Customer, error) {
	return s.customers.Update(ctx, email, func(c *domain.Customer) error {
		c.Membership = domain.TierPremium
		return nil
	})
}

func (s *customerService) Delete(ctx context.Context, actor, email string) error {
	if err := s.customers.Delete(ctx, email); err != nil {
		return err
	}
	return s.record(ctx, actor, fmt.Sprintf("Deleted user: %s", email))
}

func (s *customerService) AddAddress(ctx context.Context, email string, addr domain.Address) (*domain.Customer, error) {
	if err := validateAddress(addr); err != nil {
		return nil, err
	}
	return s.customers.Update(ctx, email, func(c *domain.Customer) error {
		c.Addresses = append(c.Addresses, addr)
		// A first address becomes the selected one.
		if c.SelectedAddress < 0 {
			c.SelectedAddress = 0
		}
		return nil
	})
}

func (s *customerService) UpdateAddress(ctx context.Context, email string, index int, addr domain.Address) (*domain.Customer, error) {
	if err := validateAddress(addr); err != nil {
		return nil, err
	}
	return s.customers.Update(ctx, email, func(c *domain.Customer) error {
		if index < 0 || index >= len(c.Addresses) {
			return domain.NotFound("customer.address.update", "address", fmt.Sprint(index))
		}
		c.Addresses[index] = addr
		return nil
	})
}

func (s *customerService) DeleteAddress(ctx context.Context, email string, index int) (*domain.Customer, error) {
	return s.customers.Update(ctx, email, func(c *domain.Customer) error {
		if index < 0 || index >= len(c.Addresses) {
			return domain.NotFound("customer.address.delete", "address", fmt.Sprint(index))
		}
		c.Addresses = append(c.Addresses[:index], c.Addresses[index+1:]...)
		switch {
		case len(c.Addresses) == 0:
			c.SelectedAddress = -1
		case c.SelectedAddress == index:
			c.SelectedAddress = 0
		case c.SelectedAddress > index:
			c.SelectedAddress--
		}
		return nil
	})
}

func (s *customerService) SelectAddress(ctx context.Context, email string, index int) (*domain.Customer, error) {
	return s.customers.Update(ctx, email, func(c *domain.Customer) error {
		if index < 0 || index >= len(c.Addresses) {
			return domain.NotFound("customer.address.select", "address", fmt.Sprint(index))
		}
		c.SelectedAddress = index
		return nil
	})
}

func validateAddress(addr domain.Address) error {
	if strings.TrimSpace(addr.Line1) == "" {
		return domain.Invalid("customer.address", "address line is required")
	}
	if strings.TrimSpace(addr.City) == "" {
		return domain.Invalid("customer.address", "city is required")
	}
	return nil
}

func (s *customerService) record(ctx context.Context, actor, action string) error {
	if _, err := s.audit.Append(ctx, actor, action); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("actor", actor).Str("action", action).Msg("failed to append audit entry")
		return err
	}
	return nil
}
