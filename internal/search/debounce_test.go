package search_test

import (
	"sync"
	"testing"
	"time"

	"github.com/mmcdole/instrumenta/internal/search"
	"github.com/mmcdole/instrumenta/internal/search/searchtest"
	"gotest.tools/v3/assert"
)

type applied struct {
	mu     sync.Mutex
	values []string
	at     []time.Duration
}

func TestDebouncerAppliesLatestAfterQuietPeriod(t *testing.T) {
	sched := searchtest.New()
	var got applied
	d := search.NewDebouncer(search.DefaultDelay, func(v string) {
		got.mu.Lock()
		got.values = append(got.values, v)
		got.at = append(got.at, sched.Now())
		got.mu.Unlock()
	}, sched)

	// Keystrokes at 0, 50, 100 and 150ms.
	for i, term := range []string{"k", "ko", "kor", "kora"} {
		sched.AdvanceTo(time.Duration(i) * 50 * time.Millisecond)
		d.Push(term)
	}
	assert.Assert(t, d.Pending())

	sched.AdvanceTo(449 * time.Millisecond)
	assert.Equal(t, len(got.values), 0)

	sched.AdvanceTo(time.Second)
	assert.DeepEqual(t, got.values, []string{"kora"})
	assert.DeepEqual(t, got.at, []time.Duration{450 * time.Millisecond})
	assert.Assert(t, !d.Pending())
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	sched := searchtest.New()
	calls := 0
	d := search.NewDebouncer(100*time.Millisecond, func(string) { calls++ }, sched)

	d.Push("a")
	d.Stop()
	d.Push("b")
	sched.Advance(time.Second)

	assert.Equal(t, calls, 0)
	assert.Equal(t, sched.Pending(), 0)
}

func TestDebouncerSeparatedPushesBothApply(t *testing.T) {
	sched := searchtest.New()
	var values []int
	d := search.NewDebouncer(100*time.Millisecond, func(v int) { values = append(values, v) }, sched)

	d.Push(1)
	sched.Advance(150 * time.Millisecond)
	d.Push(2)
	sched.Advance(150 * time.Millisecond)

	assert.DeepEqual(t, values, []int{1, 2})
}

func TestDebouncerRealTimers(t *testing.T) {
	done := make(chan string, 1)
	d := search.NewDebouncer(5*time.Millisecond, func(v string) { done <- v }, nil)
	d.Push("x")
	d.Push("y")

	select {
	case v := <-done:
		assert.Equal(t, v, "y")
	case <-time.After(time.Second):
		t.Fatal("debounced value never applied")
	}
}
