package resource

import (
	"context"
	"sync"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/granddizzy/orders/internal/collection"
	"github.com/granddizzy/orders/schema"
)

// Config configures a store.
type Config struct {
	PageSize int
	MaxPages int
	// Token overrides the session token for every fetch of this store.
	Token string
	// BaseURL overrides the client base URL for every fetch of this store.
	BaseURL string
}

// Listener receives a state snapshot after each effective transition.
type Listener[T schema.Entity] func(state State[T])

// Store holds the request state of one resource.
type Store[T schema.Entity] struct {
	name      string
	config    Config
	lister    Lister[T]
	mu        sync.Mutex
	state     State[T]
	listeners *collection.SyncMap[uuid.UUID, Listener[T]]
}

// Name returns the resource name used in logs.
func (s *Store[T]) Name() string {
	return s.name
}

// Lister returns the page source of this store.
func (s *Store[T]) Lister() Lister[T] {
	return s.lister
}

// State returns the current snapshot. Slices in a snapshot are never
// modified by later transitions.
func (s *Store[T]) State() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch reduces action into the store state and notifies subscribers
// when the state changed.
func (s *Store[T]) Dispatch(action Action) (State[T], bool) {
	s.mu.Lock()
	next, changed := Reduce(s.state, action)
	if changed {
		s.state = next
	}
	s.mu.Unlock()
	if !changed {
		return next, false
	}
	for _, listener := range s.listeners.Values() {
		listener(next)
	}
	return next, true
}

// Subscribe registers listener; the returned func unsubscribes it.
func (s *Store[T]) Subscribe(listener Listener[T]) func() {
	id := uuid.New()
	s.listeners.Put(id, listener)
	return func() { s.listeners.Delete(id) }
}

// SetSearch replaces the search term without fetching.
func (s *Store[T]) SetSearch(term string) bool {
	_, changed := s.Dispatch(SetSearch{Term: term})
	return changed
}

// SetPageSize replaces the page size without fetching.
func (s *Store[T]) SetPageSize(size int) bool {
	_, changed := s.Dispatch(SetPageSize{Size: size})
	return changed
}

// Clear drops the list and starts a new epoch.
func (s *Store[T]) Clear() {
	s.Dispatch(Clear{})
}

// Request builds the fetch request of page for state.
func (s *Store[T]) Request(state State[T], page int, direction Direction) FetchRequest {
	return FetchRequest{
		BaseURL:   s.config.BaseURL,
		Token:     s.config.Token,
		Page:      page,
		PageSize:  state.PageSize,
		Search:    state.Search,
		Direction: direction,
		Epoch:     state.Epoch,
	}
}

// Fetch replaces the list with page. A completion arriving after the epoch
// moved on is discarded, but its error is still returned.
func (s *Store[T]) Fetch(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	state := s.State()
	s.Dispatch(Pending{Epoch: state.Epoch})
	req := s.Request(state, page, DirectionInitial)
	result, err := s.lister.FetchPage(ctx, req)
	if err != nil {
		s.Dispatch(Rejected{Epoch: req.Epoch, Err: err.Error()})
		return err
	}
	if _, applied := s.Dispatch(Fulfilled[T]{Epoch: req.Epoch, Number: page, Page: result}); !applied {
		glog.V(1).Infof("[%s] discarded stale page %d of epoch %d\n", s.name, page, req.Epoch)
	}
	return nil
}

// Load fetches a single entity into State().Current.
func (s *Store[T]) Load(ctx context.Context, id int) (*T, error) {
	entities, err := s.entities()
	if err != nil {
		return nil, err
	}
	item, err := entities.Get(ctx, id)
	if err != nil {
		s.Dispatch(Failed{Err: err.Error()})
		return nil, err
	}
	s.Dispatch(EntityLoaded[T]{Item: *item})
	return item, nil
}

// Create creates an entity and makes it current.
func (s *Store[T]) Create(ctx context.Context, input any) (*T, error) {
	entities, err := s.entities()
	if err != nil {
		return nil, err
	}
	item, err := entities.Create(ctx, input)
	if err != nil {
		s.Dispatch(Failed{Err: err.Error()})
		return nil, err
	}
	if item != nil {
		s.Dispatch(EntityLoaded[T]{Item: *item})
	}
	return item, nil
}

// Update updates an entity and replaces it in the window.
func (s *Store[T]) Update(ctx context.Context, id int, input any) (*T, error) {
	entities, err := s.entities()
	if err != nil {
		return nil, err
	}
	item, err := entities.Update(ctx, id, input)
	if err != nil {
		s.Dispatch(Failed{Err: err.Error()})
		return nil, err
	}
	if item != nil {
		s.Dispatch(EntitySaved[T]{Item: *item})
	}
	return item, nil
}

// Save replaces item in the window, used when an operation returns an
// updated entity outside of the CRUD thunks.
func (s *Store[T]) Save(item T) {
	s.Dispatch(EntitySaved[T]{Item: item})
}

// Remove deletes an entity and drops it from the window.
func (s *Store[T]) Remove(ctx context.Context, id int) error {
	entities, err := s.entities()
	if err != nil {
		return err
	}
	if err = entities.Delete(ctx, id); err != nil {
		s.Dispatch(Failed{Err: err.Error()})
		return err
	}
	s.Dispatch(EntityRemoved{Key: id})
	return nil
}

func (s *Store[T]) entities() (Entities[T], error) {
	if ret, ok := s.lister.(Entities[T]); ok {
		return ret, nil
	}
	return nil, ErrUnsupported
}

// New creates a store named name fetching pages from lister.
func New[T schema.Entity](name string, lister Lister[T], config Config) *Store[T] {
	return &Store[T]{
		name:      name,
		config:    config,
		lister:    lister,
		state:     NewState[T](config.PageSize, config.MaxPages),
		listeners: collection.NewSyncMap[uuid.UUID, Listener[T]](),
	}
}
