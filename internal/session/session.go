// Package session holds per-visit state in memory. A session carries the
// ephemeral cart and, once the visitor signs in, their identity. Nothing
// here is durable: a restart logs everyone out, which is exactly the
// lifetime the ephemeral cart is supposed to have.
package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"storefront/internal/domain"
)

// TTL is how long an untouched session survives.
const TTL = 30 * 24 * time.Hour

// Session is one visitor's state. Embed-locked: handlers hold the mutex
// across a read-modify-write of the cart so parallel requests from the
// same browser serialize.
type Session struct {
	sync.Mutex

	Token string

	// Email is empty for guests; set on login, cleared on logout.
	Email string
	Role  domain.Role

	// Cart is the ephemeral cart. For signed-in visitors the reconciler
	// keeps it in step with the durable copy on the customer record.
	Cart *domain.Cart

	expiresAt time.Time
}

// SignedIn reports whether the session belongs to an authenticated visitor.
func (s *Session) SignedIn() bool {
	return s.Email != ""
}

// Manager tracks live sessions by token.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Create starts a fresh guest session with an empty cart.
func (m *Manager) Create() (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	s := &Session{
		Token:     token,
		Cart:      &domain.Cart{},
		expiresAt: time.Now().Add(TTL),
	}

	m.mu.Lock()
	m.sessions[token] = s
	m.mu.Unlock()
	return s, nil
}

// Get returns the session for token, or nil when it is unknown or expired.
func (m *Manager) Get(token string) *Session {
	m.mu.RLock()
	s, ok := m.sessions[token]
	m.mu.RUnlock()
	if !ok {
		return nil
	}

	if time.Now().After(s.expiresAt) {
		m.Destroy(token)
		return nil
	}
	return s
}

// Destroy drops the session. The ephemeral cart goes with it.
func (m *Manager) Destroy(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

// Count returns the number of live sessions, expired ones included until
// their next lookup evicts them.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// generateToken produces a cryptographically secure session token:
// 32 bytes of random data encoded as a URL-safe base64 string.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
