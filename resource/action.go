package resource

import "github.com/granddizzy/orders/schema"

// Action is a state transition request handled by Reduce.
type Action interface {
	action()
}

type (
	// Pending marks a page-based fetch as started.
	Pending struct {
		Epoch uint64
	}

	// Fulfilled replaces the list with a fetched page.
	Fulfilled[T schema.Entity] struct {
		Epoch  uint64
		Number int
		Page   *schema.Page[T]
	}

	// Rejected records a failed page-based fetch.
	Rejected struct {
		Epoch uint64
		Err   string
	}

	// SetSearch replaces the search term; a changed term invalidates the list.
	SetSearch struct {
		Term string
	}

	// SetPageSize replaces the page size; a changed size invalidates the list.
	SetPageSize struct {
		Size int
	}

	// Clear drops the list and starts a new epoch.
	Clear struct{}

	// FetchStarted claims the in-flight flag of a window direction.
	FetchStarted struct {
		Direction Direction
		Epoch     uint64
	}

	// PageLoaded merges a fetched page into one end of the window.
	PageLoaded[T schema.Entity] struct {
		Direction Direction
		Epoch     uint64
		Number    int
		Page      *schema.Page[T]
	}

	// FetchFailed releases the in-flight flag of a window direction.
	FetchFailed struct {
		Direction Direction
		Epoch     uint64
		Err       string
	}

	// FetchReleased releases the in-flight flag of a window direction that
	// had no page to fetch.
	FetchReleased struct {
		Direction Direction
		Epoch     uint64
	}

	// EntityLoaded sets the current single entity.
	EntityLoaded[T schema.Entity] struct {
		Item T
	}

	// EntitySaved replaces a created or updated entity wherever it is held.
	EntitySaved[T schema.Entity] struct {
		Item T
	}

	// EntityRemoved drops an entity from the window.
	EntityRemoved struct {
		Key int
	}

	// Failed records an error of a single-entity thunk.
	Failed struct {
		Err string
	}
)

func (Pending) action()         {}
func (Fulfilled[T]) action()    {}
func (Rejected) action()        {}
func (SetSearch) action()       {}
func (SetPageSize) action()     {}
func (Clear) action()           {}
func (FetchStarted) action()    {}
func (PageLoaded[T]) action()   {}
func (FetchFailed) action()     {}
func (FetchReleased) action()   {}
func (EntityLoaded[T]) action() {}
func (EntitySaved[T]) action()  {}
func (EntityRemoved) action()   {}
func (Failed) action()          {}
