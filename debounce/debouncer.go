package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period of a search input.
const DefaultDelay = 1000 * time.Millisecond

// Debouncer commits the latest pushed value once pushes stop for a delay.
type Debouncer[T any] struct {
	delay   time.Duration
	clock   Clock
	commit  func(T)
	mu      sync.Mutex
	timer   Timer
	pending bool
	value   T
	gen     uint64
	closed  bool
}

// Push records v and restarts the delay.
func (d *Debouncer[T]) Push(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.stop()
	d.value = v
	d.pending = true
	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.delay, func() { d.fire(gen) })
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if d.closed || !d.pending || gen != d.gen {
		d.mu.Unlock()
		return
	}
	v := d.value
	d.pending = false
	d.timer = nil
	d.mu.Unlock()
	d.commit(v)
}

// Flush commits the pending value now; it returns false if nothing was pending.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if d.closed || !d.pending {
		d.mu.Unlock()
		return false
	}
	d.stop()
	v := d.value
	d.pending = false
	d.mu.Unlock()
	d.commit(v)
	return true
}

// Cancel drops the pending value.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stop()
	d.pending = false
}

// Pending returns true if a value waits for the delay to elapse.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Close cancels the pending value; later pushes are ignored.
func (d *Debouncer[T]) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stop()
	d.pending = false
	d.closed = true
}

func (d *Debouncer[T]) stop() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

// Option configures a debouncer.
type Option func(o *options)

type options struct {
	delay time.Duration
	clock Clock
}

// WithDelay sets the quiet period.
func WithDelay(delay time.Duration) Option {
	return func(o *options) {
		if delay > 0 {
			o.delay = delay
		}
	}
}

// WithClock sets the clock used to schedule commits.
func WithClock(clock Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

func newOptions(opts []Option) *options {
	ret := &options{delay: DefaultDelay, clock: RealClock()}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// New creates a debouncer calling commit with the latest value.
func New[T any](commit func(T), opts ...Option) *Debouncer[T] {
	o := newOptions(opts)
	return &Debouncer[T]{delay: o.delay, clock: o.clock, commit: commit}
}
