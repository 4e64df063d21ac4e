package transport

import (
	"time"

	"github.com/google/uuid"
	"github.com/granddizzy/orders/internal/collection"
)

// SessionExpired is published when the API rejects a request with 401.
type SessionExpired struct {
	Method    string
	URL       string
	Status    int
	RequestID string
	At        time.Time
}

// SessionExpiredListener receives session expired events.
type SessionExpiredListener func(event SessionExpired)

// Events is the session expired observer shared by the HTTP adapter and its subscribers.
type Events struct {
	listeners *collection.SyncMap[uuid.UUID, SessionExpiredListener]
}

// Subscribe registers listener and returns a function removing it.
func (e *Events) Subscribe(listener SessionExpiredListener) func() {
	id := uuid.New()
	e.listeners.Put(id, listener)
	return func() {
		e.listeners.Delete(id)
	}
}

// Subscribers returns number of registered listeners.
func (e *Events) Subscribers() int {
	return e.listeners.Len()
}

// Publish delivers event to every listener.
func (e *Events) Publish(event SessionExpired) {
	for _, listener := range e.listeners.Values() {
		listener(event)
	}
}

// NewEvents creates an empty observer.
func NewEvents() *Events {
	return &Events{listeners: collection.NewSyncMap[uuid.UUID, SessionExpiredListener]()}
}
