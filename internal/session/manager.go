// Package session owns the ephemeral binding between a transport-level
// session identifier and an account id. The manager is an explicit value
// passed to the HTTP layer, never a package-level singleton.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session binds a server-side identifier to an account.
type Session struct {
	ID        string
	AccountID string
	ExpiresAt time.Time
}

// Manager holds live sessions in memory. Sessions are created on login and
// destroyed on logout or when the bound account can no longer be resolved.
type Manager struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]Session

	now func() time.Time
}

func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		ttl:      ttl,
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// Create binds a fresh session to the given account id.
func (m *Manager) Create(accountID string) Session {
	s := Session{
		ID:        uuid.NewString(),
		AccountID: accountID,
		ExpiresAt: m.now().Add(m.ttl),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get returns the session for id, or false when the id is unknown or the
// session has expired. Expired sessions are removed on access.
func (m *Manager) Get(id string) (Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return Session{}, false
	}
	if m.now().After(s.ExpiresAt) {
		m.Destroy(id)
		return Session{}, false
	}
	return s, true
}

// Destroy removes the binding. Destroying an unknown id is a no-op, so
// logging out twice is not an error.
func (m *Manager) Destroy(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
