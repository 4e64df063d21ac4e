package scroll

import (
	"context"
	"errors"
	"sync"

	"github.com/golang/glog"
	"github.com/granddizzy/orders/debounce"
	"github.com/granddizzy/orders/resource"
	"github.com/granddizzy/orders/schema"
)

// ErrNotMounted is returned by boundary loads of an unmounted window.
var ErrNotMounted = errors.New("window is not mounted")

// slot tracks the boundary registration of one window end.
type slot struct {
	key      int
	handle   Handle
	gen      uint64
	attached bool
}

// Window is a bounded scroll buffer over a resource store.
type Window[T schema.Entity] struct {
	store    *resource.Store[T]
	lister   resource.Lister[T]
	observer Observer

	mu          sync.Mutex
	head        slot
	tail        slot
	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()
	search      *debounce.Input
}

// Store returns the underlying store.
func (w *Window[T]) Store() *resource.Store[T] {
	return w.store
}

// State returns the current store snapshot.
func (w *Window[T]) State() resource.State[T] {
	return w.store.State()
}

// LoadNext appends the page after the tail of the window. It is a no-op
// while a next fetch is in flight or when the server reported no more pages.
func (w *Window[T]) LoadNext(ctx context.Context) error {
	return w.load(ctx, resource.DirectionNext)
}

// LoadPrevious prepends the page before the head of the window. It is a
// no-op while a previous fetch is in flight or when the head is page 1.
func (w *Window[T]) LoadPrevious(ctx context.Context) error {
	return w.load(ctx, resource.DirectionPrevious)
}

func (w *Window[T]) load(ctx context.Context, direction resource.Direction) error {
	state := w.store.State()
	if !canLoad(state, direction) {
		return nil
	}
	claimed, ok := w.store.Dispatch(resource.FetchStarted{Direction: direction, Epoch: state.Epoch})
	if !ok {
		return nil
	}
	page := claimed.LastLoadedPage() + 1
	if direction == resource.DirectionPrevious {
		page = claimed.FirstPage() - 1
		if page < 1 {
			w.store.Dispatch(resource.FetchReleased{Direction: direction, Epoch: claimed.Epoch})
			return nil
		}
	}
	req := w.store.Request(claimed, page, direction)
	if glog.V(2) {
		glog.Infof("[%s] loading %v page %d (epoch %d)\n", w.store.Name(), direction, page, req.Epoch)
	}
	result, err := w.lister.FetchPage(ctx, req)
	if err != nil {
		w.store.Dispatch(resource.FetchFailed{Direction: direction, Epoch: req.Epoch, Err: err.Error()})
		return err
	}
	loaded, applied := w.store.Dispatch(resource.PageLoaded[T]{Direction: direction, Epoch: req.Epoch, Number: page, Page: result})
	if !applied {
		glog.V(1).Infof("[%s] discarded stale %v page %d of epoch %d\n", w.store.Name(), direction, page, req.Epoch)
	} else if !loaded.HasPage(page) {
		glog.V(1).Infof("[%s] dropped %v page %d outside window %d-%d\n", w.store.Name(), direction, page, loaded.FirstPage(), loaded.LastLoadedPage())
	}
	return nil
}

func canLoad[T schema.Entity](state resource.State[T], direction resource.Direction) bool {
	if direction == resource.DirectionPrevious {
		return !state.FetchingPrev && state.HasMorePrev
	}
	return !state.FetchingNext && state.HasMoreNext
}

// SetSearch replaces the search term and reloads from the first page. An
// unchanged term does nothing.
func (w *Window[T]) SetSearch(ctx context.Context, term string) error {
	if !w.store.SetSearch(term) {
		return nil
	}
	return w.LoadNext(ctx)
}

// SetPageSize replaces the page size and reloads from the first page.
func (w *Window[T]) SetPageSize(ctx context.Context, size int) error {
	if !w.store.SetPageSize(size) {
		return nil
	}
	return w.LoadNext(ctx)
}

// Reload clears the window and loads the first page.
func (w *Window[T]) Reload(ctx context.Context) error {
	w.store.Clear()
	return w.LoadNext(ctx)
}

// Mount starts tracking boundaries. An empty window loads its first page, a
// window restored with items loads the page before its head. A search typed
// before Mount is committed again. The initial load is cancelled by Unmount.
func (w *Window[T]) Mount(ctx context.Context) error {
	w.mu.Lock()
	if w.cancel != nil {
		w.mu.Unlock()
		return nil
	}
	w.ctx, w.cancel = context.WithCancel(ctx)
	loadCtx, search := w.ctx, w.search
	w.mu.Unlock()
	unsubscribe := w.store.Subscribe(func(resource.State[T]) { w.sync() })
	w.mu.Lock()
	w.unsubscribe = unsubscribe
	w.mu.Unlock()
	w.sync()
	if search != nil {
		search.Resubmit()
	}
	if len(w.store.State().Items) == 0 {
		return w.LoadNext(loadCtx)
	}
	return w.LoadPrevious(loadCtx)
}

// Unmount disconnects boundary handles and cancels the search binding.
// The store keeps its state.
func (w *Window[T]) Unmount() {
	w.mu.Lock()
	cancel, unsubscribe, search := w.cancel, w.unsubscribe, w.search
	w.cancel, w.unsubscribe, w.search, w.ctx = nil, nil, nil, nil
	w.detach(&w.head)
	w.detach(&w.tail)
	w.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
	if search != nil {
		search.Close()
	}
	if cancel != nil {
		cancel()
	}
}

// BindSearch returns a debounced search input committing into this window.
// Typing before Mount updates only the visible text until Mount commits it.
func (w *Window[T]) BindSearch(opts ...debounce.Option) *debounce.Input {
	input := debounce.NewInput(w.store.State().Search, func(term string) bool {
		ctx, err := w.context()
		if err != nil {
			return false
		}
		if err = w.SetSearch(ctx, term); err != nil && !errors.Is(err, context.Canceled) {
			glog.Warningf("[%s] search %q failed: %v\n", w.store.Name(), term, err)
		}
		return true
	}, opts...)
	w.mu.Lock()
	previous := w.search
	w.search = input
	w.mu.Unlock()
	if previous != nil {
		previous.Close()
	}
	return input
}

func (w *Window[T]) context() (context.Context, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ctx == nil {
		return nil, ErrNotMounted
	}
	return w.ctx, nil
}

// sync re-attaches boundary slots whose item changed.
func (w *Window[T]) sync() {
	state := w.store.State()
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ctx == nil {
		return
	}
	head, hasHead := state.Head()
	tail, hasTail := state.Tail()
	w.attach(&w.head, hasHead, keyOf(head, hasHead), resource.DirectionPrevious)
	w.attach(&w.tail, hasTail, keyOf(tail, hasTail), resource.DirectionNext)
}

func keyOf[T schema.Entity](item T, ok bool) int {
	if !ok {
		return 0
	}
	return item.Key()
}

func (w *Window[T]) attach(s *slot, present bool, key int, direction resource.Direction) {
	if !present {
		w.detach(s)
		return
	}
	if s.attached && s.key == key {
		return
	}
	w.detach(s)
	s.key = key
	s.attached = true
	gen := s.gen
	ctx := w.ctx
	s.handle = w.observer.Observe(key, func() { w.boundary(ctx, s, gen, direction) })
}

func (w *Window[T]) detach(s *slot) {
	if s.handle != nil {
		s.handle.Disconnect()
		s.handle = nil
	}
	s.attached = false
	s.gen++
}

// boundary runs a load for a registration that is still current.
func (w *Window[T]) boundary(ctx context.Context, s *slot, gen uint64, direction resource.Direction) {
	w.mu.Lock()
	current := s.attached && s.gen == gen
	w.mu.Unlock()
	if !current {
		return
	}
	if err := w.load(ctx, direction); err != nil && !errors.Is(err, context.Canceled) {
		glog.Warningf("[%s] %v page load failed: %v\n", w.store.Name(), direction, err)
	}
}

// New creates a window over store fetching pages from lister. A nil
// observer disables boundary tracking; lister defaults to the store's.
func New[T schema.Entity](store *resource.Store[T], lister resource.Lister[T], observer Observer) *Window[T] {
	if lister == nil {
		lister = store.Lister()
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Window[T]{store: store, lister: lister, observer: observer}
}

type nopObserver struct{}

type nopHandle struct{}

func (nopHandle) Disconnect() {}

func (nopObserver) Observe(int, func()) Handle { return nopHandle{} }
