package resource

import (
	"github.com/granddizzy/orders/schema"
)

const (
	// DefaultPageSize is the number of items requested per page.
	DefaultPageSize = 20
	// DefaultMaxPages is the number of pages retained in a scroll window.
	DefaultMaxPages = 3
)

// Direction identifies which end of the window a fetch extends.
type Direction int

const (
	DirectionInitial Direction = iota
	DirectionNext
	DirectionPrevious
)

func (d Direction) String() string {
	switch d {
	case DirectionNext:
		return "next"
	case DirectionPrevious:
		return "previous"
	default:
		return "initial"
	}
}

// Span records a page retained in the window and how many items it contributed.
type Span struct {
	Page  int
	Count int
}

// State is the request state of one resource list.
type State[T schema.Entity] struct {
	Items   []T
	Current *T

	Loading bool
	Error   string

	Search      string
	PageSize    int
	CurrentPage int
	LastPage    int

	HasMoreNext  bool
	HasMorePrev  bool
	FetchingNext bool
	FetchingPrev bool
	FetchingPage bool

	Spans    []Span
	MaxPages int
	Epoch    uint64
}

// FirstPage returns the page number at the head of the window or 0.
func (s State[T]) FirstPage() int {
	if len(s.Spans) == 0 {
		return 0
	}
	return s.Spans[0].Page
}

// LastLoadedPage returns the page number at the tail of the window or 0.
func (s State[T]) LastLoadedPage() int {
	if len(s.Spans) == 0 {
		return 0
	}
	return s.Spans[len(s.Spans)-1].Page
}

// Head returns the first item of the window.
func (s State[T]) Head() (T, bool) {
	if len(s.Items) == 0 {
		var zero T
		return zero, false
	}
	return s.Items[0], true
}

// Tail returns the last item of the window.
func (s State[T]) Tail() (T, bool) {
	if len(s.Items) == 0 {
		var zero T
		return zero, false
	}
	return s.Items[len(s.Items)-1], true
}

// HasPage returns true if page number is one of the window spans.
func (s State[T]) HasPage(number int) bool {
	for _, span := range s.Spans {
		if span.Page == number {
			return true
		}
	}
	return false
}

// Contains returns true if an item with key is in the window.
func (s State[T]) Contains(key int) bool {
	for _, item := range s.Items {
		if item.Key() == key {
			return true
		}
	}
	return false
}

// NewState returns an empty state.
func NewState[T schema.Entity](pageSize, maxPages int) State[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return State[T]{PageSize: pageSize, MaxPages: maxPages, HasMoreNext: true}
}

// FetchRequest describes one outbound list fetch.
type FetchRequest struct {
	BaseURL   string
	Token     string
	Page      int
	PageSize  int
	Search    string
	Direction Direction
	Epoch     uint64
}
