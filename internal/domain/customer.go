package domain

import (
	"strings"
	"time"
)

// Role controls what a customer account may do.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// IsAdmin reports whether the role grants access to the admin surface.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// MembershipTier is the customer's loyalty tier.
type MembershipTier string

const (
	TierRegular MembershipTier = "Regular"
	TierBronze  MembershipTier = "Bronze"
	TierSilver  MembershipTier = "Silver"
	TierGold    MembershipTier = "Gold"
	TierPremium MembershipTier = "Premium"
)

// ValidTier reports whether t is a known membership tier.
func ValidTier(t MembershipTier) bool {
	switch t {
	case TierRegular, TierBronze, TierSilver, TierGold, TierPremium:
		return true
	}
	return false
}

// Address is one entry in a customer's delivery address book.
type Address struct {
	Country  string `json:"country"`
	Line1    string `json:"line1"`
	City     string `json:"city"`
	State    string `json:"state"`
	Postcode string `json:"postcode"`
}

// Customer is a durable account record keyed by email. The embedded Cart
// is the durable copy of the customer's cart; the reconciler keeps it in
// step with the ephemeral per-visit copy.
type Customer struct {
	Email     string
	FirstName string
	LastName  string

	// PasswordHash is an opaque credential supplied by the identity
	// provider. The core never inspects it.
	PasswordHash string

	Role       Role
	Membership MembershipTier
	Cart       Cart

	// Addresses is the delivery address book; SelectedAddress indexes
	// into it, -1 when nothing is selected.
	Addresses       []Address
	SelectedAddress int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName returns the customer's display name.
func (c *Customer) FullName() string {
	switch {
	case c.FirstName != "" && c.LastName != "":
		return c.FirstName + " " + c.LastName
	case c.FirstName != "":
		return c.FirstName
	default:
		return c.LastName
	}
}

// Clone returns a deep copy, including the durable cart and address book.
func (c *Customer) Clone() *Customer {
	cp := *c
	cp.Cart = *c.Cart.Clone()
	if len(c.Addresses) > 0 {
		cp.Addresses = make([]Address, len(c.Addresses))
		copy(cp.Addresses, c.Addresses)
	}
	return &cp
}

// NewCustomer builds a validated customer record with an empty cart and
// the entry-level membership tier.
func NewCustomer(email, firstName, lastName, passwordHash string, role Role, now time.Time) (*Customer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, Invalid("customer.new", "email is required")
	}
	if passwordHash == "" {
		return nil, Invalid("customer.new", "credential is required")
	}
	if role == "" {
		role = RoleCustomer
	}

	return &Customer{
		Email:           email,
		FirstName:       firstName,
		LastName:        lastName,
		PasswordHash:    passwordHash,
		Role:            role,
		Membership:      TierRegular,
		SelectedAddress: -1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}
