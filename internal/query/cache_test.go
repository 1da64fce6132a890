package query

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *sleepRecorder) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	s.mu.Unlock()
	return ctx.Err()
}

func (s *sleepRecorder) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.delays...)
}

func newTestCache(t *testing.T) (*Cache, *fakeClock, *sleepRecorder) {
	t.Helper()
	clock := newFakeClock()
	sleeps := &sleepRecorder{}
	c := New(Config{Now: clock.Now, Sleep: sleeps.Sleep})
	return c, clock, sleeps
}

func countingLoader(calls *int32, value any) Loader {
	return func(context.Context) (any, error) {
		atomic.AddInt32(calls, 1)
		return value, nil
	}
}

func TestFetchServesFreshResultWithoutLoading(t *testing.T) {
	c, clock, _ := newTestCache(t)
	ctx := context.Background()
	key := Key{"families"}
	var calls int32

	v, err := c.Fetch(ctx, key, countingLoader(&calls, "v1"), Read(15*time.Minute))
	assert.NilError(t, err)
	assert.Equal(t, v, "v1")

	clock.Advance(10 * time.Minute)
	_, err = c.Fetch(ctx, key, countingLoader(&calls, "v2"), Read(15*time.Minute))
	assert.NilError(t, err)
	assert.Equal(t, atomic.LoadInt32(&calls), int32(1))

	clock.Advance(6 * time.Minute)
	v, err = c.Fetch(ctx, key, countingLoader(&calls, "v2"), Read(15*time.Minute))
	assert.NilError(t, err)
	assert.Equal(t, v, "v2")
	assert.Equal(t, atomic.LoadInt32(&calls), int32(2))
}

func TestFetchZeroStaleTimeAlwaysLoads(t *testing.T) {
	c, _, _ := newTestCache(t)
	var calls int32
	for i := 0; i < 3; i++ {
		_, err := c.Fetch(context.Background(), Key{"health"}, countingLoader(&calls, "ok"), Options{})
		assert.NilError(t, err)
	}
	assert.Equal(t, atomic.LoadInt32(&calls), int32(3))
}

func TestFetchDeduplicatesConcurrentCallers(t *testing.T) {
	c, _, _ := newTestCache(t)
	key := Key{"instruments", 7}
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	var calls int32
	load := func(context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		started <- struct{}{}
		<-release
		return "kora", nil
	}

	var wg sync.WaitGroup
	results := make([]any, 5)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = c.Fetch(context.Background(), key, load, Read(time.Minute))
	}()
	<-started
	assert.Assert(t, c.State(key).IsFetching)

	for i := 1; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.Fetch(context.Background(), key, load, Read(time.Minute))
		}(i)
	}
	close(release)
	wg.Wait()

	assert.Equal(t, atomic.LoadInt32(&calls), int32(1))
	for _, r := range results {
		assert.Equal(t, r, "kora")
	}
}

func TestFetchRetriesWithBackoffThenKeepsPreviousData(t *testing.T) {
	c, clock, sleeps := newTestCache(t)
	key := Key{"instruments", "statistics"}
	c.SetData(key, "old")
	clock.Advance(time.Hour)

	boom := errors.New("boom")
	var finals []bool
	var mu sync.Mutex
	_, err := c.Fetch(context.Background(), key, func(ctx context.Context) (any, error) {
		mu.Lock()
		finals = append(finals, FinalAttempt(ctx))
		mu.Unlock()
		return nil, boom
	}, Read(time.Minute))

	assert.ErrorIs(t, err, boom)
	assert.DeepEqual(t, finals, []bool{false, false, false, true})
	assert.DeepEqual(t, sleeps.Delays(), []time.Duration{time.Second, 2 * time.Second, 4 * time.Second})

	st := c.State(key)
	assert.Equal(t, st.Status, StatusError)
	assert.ErrorIs(t, st.Err, boom)
	assert.Equal(t, st.Data, "old")
	assert.Equal(t, st.FailureCount, 4)
	assert.Assert(t, !st.IsFetching)
}

func TestFetchFailureLeavesOtherKeysAlone(t *testing.T) {
	c, _, _ := newTestCache(t)
	c.SetData(Key{"families"}, "cordes")

	_, err := c.Fetch(context.Background(), Key{"rhythms"}, func(context.Context) (any, error) {
		return nil, errors.New("down")
	}, Options{StaleTime: time.Minute})
	assert.ErrorContains(t, err, "down")

	st := c.State(Key{"families"})
	assert.Equal(t, st.Status, StatusSuccess)
	assert.Equal(t, st.Data, "cordes")
}

func TestFetchSucceedsAfterTransientFailure(t *testing.T) {
	c, _, sleeps := newTestCache(t)
	var calls int32
	v, err := c.Fetch(context.Background(), Key{"materials"}, func(context.Context) (any, error) {
		if atomic.AddInt32(&calls, 1) < 3 {
			return nil, errors.New("flaky")
		}
		return "bois", nil
	}, Read(time.Minute))

	assert.NilError(t, err)
	assert.Equal(t, v, "bois")
	assert.Equal(t, len(sleeps.Delays()), 2)
	st := c.State(Key{"materials"})
	assert.Equal(t, st.Status, StatusSuccess)
	assert.Equal(t, st.FailureCount, 0)
}

func TestInvalidateDiscardsSupersededLoad(t *testing.T) {
	c, _, _ := newTestCache(t)
	key := Key{"instruments", listParams{Page: 1}}
	release := make(chan struct{})
	started := make(chan struct{})

	done := make(chan any)
	go func() {
		v, _ := c.Fetch(context.Background(), key, func(context.Context) (any, error) {
			close(started)
			<-release
			return "old", nil
		}, Read(time.Minute))
		done <- v
	}()
	<-started

	c.Invalidate(Key{"instruments"})
	assert.Assert(t, !c.State(key).IsFetching)

	v, err := c.Fetch(context.Background(), key, func(context.Context) (any, error) {
		return "new", nil
	}, Read(time.Minute))
	assert.NilError(t, err)
	assert.Equal(t, v, "new")

	close(release)
	assert.Equal(t, <-done, "old")

	st := c.State(key)
	assert.Equal(t, st.Data, "new")
	assert.Assert(t, !st.IsStale)
}

func TestInvalidateMarksPrefixStale(t *testing.T) {
	c, _, _ := newTestCache(t)
	c.SetData(Key{"instruments", 1}, "a")
	c.SetData(Key{"instruments", 1, "relations"}, "b")
	c.SetData(Key{"families"}, "c")

	c.Invalidate(Key{"instruments"})

	assert.Assert(t, c.State(Key{"instruments", 1}).IsStale)
	assert.Assert(t, c.State(Key{"instruments", 1, "relations"}).IsStale)
	assert.Assert(t, !c.State(Key{"families"}).IsStale)
	assert.Equal(t, c.State(Key{"instruments", 1}).Data, "a")
}

func TestSetDataIsFresh(t *testing.T) {
	c, clock, _ := newTestCache(t)
	key := Key{"instruments", 5}
	c.SetData(key, "written")
	clock.Advance(time.Minute)

	var calls int32
	v, err := c.Fetch(context.Background(), key, countingLoader(&calls, "loaded"), Read(10*time.Minute))
	assert.NilError(t, err)
	assert.Equal(t, v, "written")
	assert.Equal(t, atomic.LoadInt32(&calls), int32(0))
}

func TestRemoveAndRemoveMatching(t *testing.T) {
	c, _, _ := newTestCache(t)
	c.SetData(Key{"instruments", 42}, 1)
	c.SetData(Key{"instruments", 43}, 2)
	c.SetData(Key{"families"}, 3)

	c.Remove(Key{"instruments", 42})
	assert.Equal(t, c.State(Key{"instruments", 42}).Status, StatusIdle)
	assert.DeepEqual(t, c.Keys(), []string{"families", "instruments/43"})

	c.RemoveMatching(regexp.MustCompile(`^instruments/`))
	assert.DeepEqual(t, c.Keys(), []string{"families"})

	c.Clear()
	assert.Equal(t, len(c.Keys()), 0)
}

func TestRemoveDropsInFlightResult(t *testing.T) {
	c, _, _ := newTestCache(t)
	key := Key{"instruments", 42}
	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Fetch(context.Background(), key, func(context.Context) (any, error) {
			close(started)
			<-release
			return "ghost", nil
		}, Read(time.Minute))
	}()
	<-started
	c.Remove(key)
	close(release)
	<-done

	assert.Equal(t, c.State(key).Status, StatusIdle)
	assert.Equal(t, len(c.Keys()), 0)
}

func TestCallerCancellationDoesNotAbortLoad(t *testing.T) {
	c, _, _ := newTestCache(t)
	key := Key{"localities"}
	release := make(chan struct{})
	started := make(chan struct{})
	settled := make(chan struct{})
	unsubscribe := c.Subscribe(func(k string, st State) {
		if k == key.String() && st.Status == StatusSuccess {
			close(settled)
		}
	})
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error)
	go func() {
		_, err := c.Fetch(ctx, key, func(loadCtx context.Context) (any, error) {
			close(started)
			<-release
			return "dakar", loadCtx.Err()
		}, Read(time.Minute))
		errc <- err
	}()
	<-started
	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)

	close(release)
	<-settled
	st := c.State(key)
	assert.Equal(t, st.Status, StatusSuccess)
	assert.Equal(t, st.Data, "dakar")
}

func TestSweepEvictsUnusedEntries(t *testing.T) {
	clock := newFakeClock()
	c := New(Config{Now: clock.Now, GCTime: 10 * time.Minute})
	c.SetData(Key{"old"}, 1)
	clock.Advance(6 * time.Minute)
	c.SetData(Key{"recent"}, 2)
	clock.Advance(5 * time.Minute)

	assert.Equal(t, c.Sweep(), 1)
	assert.DeepEqual(t, c.Keys(), []string{"recent"})
}

func TestMutateRetriesOnce(t *testing.T) {
	c, _, sleeps := newTestCache(t)
	var calls int32
	_, err := Mutate(context.Background(), c, func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "", errors.New("conflict")
	})
	assert.ErrorContains(t, err, "conflict")
	assert.Equal(t, atomic.LoadInt32(&calls), int32(2))
	assert.DeepEqual(t, sleeps.Delays(), []time.Duration{time.Second})
}
