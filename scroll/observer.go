package scroll

import (
	"sync"

	"github.com/google/uuid"
	"github.com/granddizzy/orders/internal/collection"
)

// Handle is a boundary registration.
type Handle interface {
	Disconnect()
}

// Observer signals when the item with key becomes visible.
type Observer interface {
	Observe(key int, fn func()) Handle
}

type registration struct {
	key int
	fn  func()
}

// ManualObserver is an Observer fired explicitly with Trigger.
type ManualObserver struct {
	registrations *collection.SyncMap[uuid.UUID, *registration]
}

type manualHandle struct {
	once     sync.Once
	id       uuid.UUID
	observer *ManualObserver
}

func (h *manualHandle) Disconnect() {
	h.once.Do(func() { h.observer.registrations.Delete(h.id) })
}

// Observe registers fn for key.
func (o *ManualObserver) Observe(key int, fn func()) Handle {
	id := uuid.New()
	o.registrations.Put(id, &registration{key: key, fn: fn})
	return &manualHandle{id: id, observer: o}
}

// Trigger calls every registration of key on the calling goroutine and
// returns how many were called.
func (o *ManualObserver) Trigger(key int) int {
	var matched []func()
	o.registrations.Range(func(_ uuid.UUID, value *registration) bool {
		if value.key == key {
			matched = append(matched, value.fn)
		}
		return true
	})
	for _, fn := range matched {
		fn()
	}
	return len(matched)
}

// Observed returns the keys with an active registration.
func (o *ManualObserver) Observed() []int {
	var ret []int
	for _, value := range o.registrations.Values() {
		ret = append(ret, value.key)
	}
	return ret
}

// NewManualObserver creates a manual observer.
func NewManualObserver() *ManualObserver {
	return &ManualObserver{registrations: collection.NewSyncMap[uuid.UUID, *registration]()}
}
