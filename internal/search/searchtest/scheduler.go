// Package searchtest provides a manual clock for debounce tests.
package searchtest

import (
	"sort"
	"sync"
	"time"

	"github.com/mmcdole/instrumenta/internal/search"
)

// Scheduler fires timers only when Advance moves its clock past them.
type Scheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*timer
}

type timer struct {
	s       *Scheduler
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *timer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// New returns a scheduler at time zero.
func New() *Scheduler { return &Scheduler{} }

func (s *Scheduler) AfterFunc(d time.Duration, f func()) search.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &timer{s: s, at: s.now + d, f: f}
	s.timers = append(s.timers, t)
	return t
}

// Now is the elapsed virtual time.
func (s *Scheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Advance moves the clock forward by d, firing due timers in order on the
// calling goroutine.
func (s *Scheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		var next *timer
		sort.SliceStable(s.timers, func(i, j int) bool { return s.timers[i].at < s.timers[j].at })
		for _, t := range s.timers {
			if !t.stopped && !t.fired && t.at <= target {
				next = t
				break
			}
		}
		if next == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		next.fired = true
		s.now = next.at
		s.mu.Unlock()
		next.f()
	}
}

// AdvanceTo moves the clock to the absolute virtual time at.
func (s *Scheduler) AdvanceTo(at time.Duration) {
	s.Advance(at - s.Now())
}

// Pending counts timers that have neither fired nor been stopped.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}
