package search

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period before a search term is applied.
const DefaultDelay = 300 * time.Millisecond

// Timer is a cancellable pending call.
type Timer interface {
	Stop() bool
}

// Scheduler runs f after d. time.AfterFunc is the production scheduler.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer applies only the latest pushed value, once no push has happened
// for the delay. A replaced or stopped value is never applied.
type Debouncer[T any] struct {
	mu      sync.Mutex
	delay   time.Duration
	sched   Scheduler
	apply   func(T)
	timer   Timer
	seq     uint64
	pending bool
	stopped bool
}

// NewDebouncer creates a debouncer. A nil sched uses real timers.
func NewDebouncer[T any](delay time.Duration, apply func(T), sched Scheduler) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if sched == nil {
		sched = realScheduler{}
	}
	return &Debouncer[T]{delay: delay, sched: sched, apply: apply}
}

// Push replaces the pending value and restarts the quiet period.
func (d *Debouncer[T]) Push(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.pending = true
	d.timer = d.sched.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.stopped || seq != d.seq {
			d.mu.Unlock()
			return
		}
		d.pending = false
		d.timer = nil
		d.mu.Unlock()
		d.apply(v)
	})
}

// Pending reports whether a value is waiting for its quiet period.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Stop cancels the pending value; later pushes are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
