package store

import (
	"context"
	"sync"

	"github.com/granddizzy/orders/schema"
	"golang.org/x/oauth2"
)

// DefaultKey is the opaque identifier a session is stored under.
const DefaultKey = "orders.session"

// Session is the persisted form of an authenticated session.
type Session struct {
	Token *oauth2.Token       `json:"token"`
	User  *schema.UserProfile `json:"user,omitempty"`
}

// Store is a pluggable persistence layer for sessions.
// Load returns nil, nil when nothing is stored under key.
type Store interface {
	Load(ctx context.Context, key string) (*Session, error)
	Save(ctx context.Context, key string, session *Session) error
	Clear(ctx context.Context, key string) error
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func (m *memoryStore) Load(_ context.Context, key string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if session, ok := m.sessions[key]; ok {
		return &session, nil
	}
	return nil, nil
}

func (m *memoryStore) Save(_ context.Context, key string, session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session == nil {
		delete(m.sessions, key)
		return nil
	}
	m.sessions[key] = *session
	return nil
}

func (m *memoryStore) Clear(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key)
	return nil
}

func NewMemoryStore() Store {
	return &memoryStore{sessions: map[string]Session{}}
}
