package query

import (
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/mmcdole/instrumenta/internal/observability/metrics"
	"golang.org/x/sync/singleflight"
)

// Default timings.
const (
	DefaultStaleTime = 5 * time.Minute
	DefaultGCTime    = 10 * time.Minute

	ReadRetries  = 3
	WriteRetries = 1
)

// Status is the lifecycle stage of an entry.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Loader produces the value for a key.
type Loader func(ctx context.Context) (any, error)

// Options controls a single read.
type Options struct {
	// StaleTime is how long a successful result is served without reloading.
	StaleTime time.Duration
	// Retry is the number of retries after the first failed attempt.
	Retry int
	// Persist saves successful results through the cache's Persister.
	Persist bool
}

// Read returns read options with the default retry budget.
func Read(staleTime time.Duration) Options {
	return Options{StaleTime: staleTime, Retry: ReadRetries}
}

// Persisted returns a copy of o with persistence enabled.
func (o Options) Persisted() Options {
	o.Persist = true
	return o
}

// State is a point-in-time copy of an entry.
type State struct {
	Status       Status
	Data         any
	Err          error
	UpdatedAt    time.Time
	IsFetching   bool
	IsStale      bool
	FailureCount int
}

// HasData reports whether a successful result is available, fresh or not.
func (s State) HasData() bool { return !s.UpdatedAt.IsZero() }

// Config wires a Cache. Zero values select production defaults.
type Config struct {
	GCTime     time.Duration
	Persister  Persister
	Logger     *slog.Logger
	Now        func() time.Time
	Sleep      func(ctx context.Context, d time.Duration) error
	RetryDelay func(attempt int) time.Duration
}

type entry struct {
	status      Status
	data        any
	err         error
	updatedAt   time.Time
	lastUsed    time.Time
	staleTime   time.Duration
	invalidated bool
	fetching    bool
	failures    int
	gen         uint64
	persist     bool
}

func (e *entry) fresh(now time.Time) bool {
	return e.status == StatusSuccess && !e.invalidated && now.Sub(e.updatedAt) < e.staleTime
}

func (e *entry) state(now time.Time) State {
	return State{
		Status:       e.status,
		Data:         e.data,
		Err:          e.err,
		UpdatedAt:    e.updatedAt,
		IsFetching:   e.fetching,
		IsStale:      !e.fresh(now),
		FailureCount: e.failures,
	}
}

// Cache is the process-wide query cache. Every entry is owned by the cache
// and changed only through its methods.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	gen     uint64
	subs    map[int]func(key string, st State)
	nextSub int

	flights singleflight.Group

	gcTime     time.Duration
	persister  Persister
	logger     *slog.Logger
	now        func() time.Time
	sleep      func(ctx context.Context, d time.Duration) error
	retryDelay func(attempt int) time.Duration
}

// New creates a cache and hydrates it from cfg.Persister when set.
func New(cfg Config) *Cache {
	c := &Cache{
		entries:    make(map[string]*entry),
		subs:       make(map[int]func(string, State)),
		gcTime:     cfg.GCTime,
		persister:  cfg.Persister,
		logger:     cfg.Logger,
		now:        cfg.Now,
		sleep:      cfg.Sleep,
		retryDelay: cfg.RetryDelay,
	}
	if c.gcTime <= 0 {
		c.gcTime = DefaultGCTime
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.sleep == nil {
		c.sleep = sleepContext
	}
	if c.retryDelay == nil {
		c.retryDelay = RetryDelay
	}
	c.hydrate()
	return c
}

func (c *Cache) hydrate() {
	if c.persister == nil {
		return
	}
	saved, err := c.persister.LoadQueries()
	if err != nil {
		c.logger.Warn("failed to load persisted queries", "error", err)
		return
	}
	now := c.now()
	for k, p := range saved {
		c.gen++
		c.entries[k] = &entry{
			status:    StatusSuccess,
			data:      &rawData{raw: p.Data},
			updatedAt: p.UpdatedAt,
			lastUsed:  now,
			staleTime: p.StaleTime,
			gen:       c.gen,
			persist:   true,
		}
	}
	metrics.SetCacheEntries(len(c.entries))
	c.logger.Debug("hydrated query cache", "entries", len(saved))
}

// Fetch returns the data for key, loading it with load unless a fresh
// result is cached. Concurrent callers for the same key share one load.
// The load itself is detached from ctx; a cancelled caller only stops waiting.
func (c *Cache) Fetch(ctx context.Context, key Key, load Loader, opts Options) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	k := key.String()
	resource := key.Resource()

	c.mu.Lock()
	now := c.now()
	e, ok := c.entries[k]
	if !ok {
		e = &entry{gen: c.nextGen()}
		c.entries[k] = e
		metrics.SetCacheEntries(len(c.entries))
	}
	e.lastUsed = now
	e.staleTime = opts.StaleTime
	if opts.Persist {
		e.persist = true
	}
	if e.fresh(now) {
		data := e.data
		c.mu.Unlock()
		metrics.ObserveCacheLookup(resource, true)
		return data, nil
	}
	if e.status == StatusIdle {
		e.status = StatusLoading
	}
	e.fetching = true
	gen := e.gen
	c.mu.Unlock()
	metrics.ObserveCacheLookup(resource, false)

	flight := k + "#" + strconv.FormatUint(gen, 10)
	detached := context.WithoutCancel(ctx)
	ch := c.flights.DoChan(flight, func() (any, error) {
		return c.load(detached, k, resource, gen, load, opts)
	})
	select {
	case res := <-ch:
		if res.Shared {
			metrics.IncSharedLoad(resource)
		}
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cache) load(ctx context.Context, k, resource string, gen uint64, load Loader, opts Options) (any, error) {
	c.logger.Debug("query load", "key", k)
	var val any
	err := c.retry(ctx, resource, opts.Retry, func(ctx context.Context) error {
		v, err := load(ctx)
		if err != nil {
			return err
		}
		val = v
		return nil
	}, func(err error) {
		c.mu.Lock()
		if e, ok := c.entries[k]; ok && e.gen == gen {
			e.failures++
		}
		c.mu.Unlock()
	})
	metrics.ObserveLoad(resource, err)
	c.settle(k, gen, val, err)
	if err != nil {
		return nil, err
	}
	return val, nil
}

// settle records the outcome of a load unless the entry moved on since it
// started (invalidated, overwritten or removed).
func (c *Cache) settle(k string, gen uint64, val any, err error) {
	c.mu.Lock()
	e, ok := c.entries[k]
	if !ok || e.gen != gen {
		c.mu.Unlock()
		c.logger.Debug("dropped superseded load", "key", k)
		return
	}
	now := c.now()
	e.fetching = false
	if err != nil {
		e.status = StatusError
		e.err = err
		e.failures++
	} else {
		e.status = StatusSuccess
		e.data = val
		e.err = nil
		e.updatedAt = now
		e.invalidated = false
		e.failures = 0
	}
	st := e.state(now)
	persist := err == nil && e.persist && c.persister != nil
	staleTime := e.staleTime
	c.mu.Unlock()

	if persist {
		c.save(k, val, now, staleTime)
	}
	c.publish(k, st)
}

func (c *Cache) save(k string, val any, at time.Time, staleTime time.Duration) {
	raw, err := json.Marshal(val)
	if err != nil {
		c.logger.Warn("failed to encode query for persistence", "key", k, "error", err)
		return
	}
	if err := c.persister.SaveQuery(k, Persisted{Data: raw, UpdatedAt: at, StaleTime: staleTime}); err != nil {
		c.logger.Warn("failed to persist query", "key", k, "error", err)
	}
}

func (c *Cache) nextGen() uint64 {
	c.gen++
	return c.gen
}

// Invalidate marks every entry under prefix stale. In-flight loads for those
// entries are detached: the next Fetch starts a new one and the old result
// is discarded.
func (c *Cache) Invalidate(prefix Key) {
	p := prefix.String()
	c.mu.Lock()
	n := 0
	for k, e := range c.entries {
		if !matchPrefix(k, p) {
			continue
		}
		e.invalidated = true
		e.gen = c.nextGen()
		e.fetching = false
		if e.status == StatusLoading {
			e.status = StatusIdle
		}
		n++
	}
	c.mu.Unlock()
	c.logger.Debug("invalidated queries", "prefix", p, "count", n)

	if c.persister != nil {
		if err := c.persister.DeleteQueries(func(k string) bool { return matchPrefix(k, p) }); err != nil {
			c.logger.Warn("failed to drop persisted queries", "prefix", p, "error", err)
		}
	}
}

// SetData writes value as the fresh result for key.
func (c *Cache) SetData(key Key, value any) {
	k := key.String()
	c.mu.Lock()
	now := c.now()
	e, ok := c.entries[k]
	if !ok {
		e = &entry{staleTime: DefaultStaleTime}
		c.entries[k] = e
		metrics.SetCacheEntries(len(c.entries))
	}
	e.gen = c.nextGen()
	e.status = StatusSuccess
	e.data = value
	e.err = nil
	e.updatedAt = now
	e.lastUsed = now
	e.invalidated = false
	e.fetching = false
	e.failures = 0
	st := e.state(now)
	persist := e.persist && c.persister != nil
	staleTime := e.staleTime
	c.mu.Unlock()

	if persist {
		c.save(k, value, now, staleTime)
	}
	c.publish(k, st)
}

// Remove deletes the entry for key. A load still running for it is discarded.
func (c *Cache) Remove(key Key) {
	k := key.String()
	c.removeWhere(func(s string) bool { return s == k })
}

// RemoveMatching deletes every entry whose canonical key matches re.
func (c *Cache) RemoveMatching(re *regexp.Regexp) {
	c.removeWhere(re.MatchString)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.removeWhere(func(string) bool { return true })
}

func (c *Cache) removeWhere(match func(string) bool) {
	c.mu.Lock()
	var removed []string
	for k := range c.entries {
		if match(k) {
			delete(c.entries, k)
			removed = append(removed, k)
		}
	}
	metrics.SetCacheEntries(len(c.entries))
	c.mu.Unlock()
	c.logger.Debug("removed queries", "count", len(removed))

	if c.persister != nil {
		if err := c.persister.DeleteQueries(match); err != nil {
			c.logger.Warn("failed to drop persisted queries", "error", err)
		}
	}
	for _, k := range removed {
		c.publish(k, State{})
	}
}

// State returns a copy of the entry for key. Unknown keys report StatusIdle.
func (c *Cache) State(key Key) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	if !ok {
		return State{IsStale: true}
	}
	return e.state(c.now())
}

// Keys lists the canonical keys currently held, sorted.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	c.mu.Unlock()
	sort.Strings(keys)
	return keys
}

// Snapshot pairs a canonical key with its state.
type Snapshot struct {
	Key string
	State
}

// Inspect returns every entry's state, sorted by key.
func (c *Cache) Inspect() []Snapshot {
	c.mu.Lock()
	now := c.now()
	out := make([]Snapshot, 0, len(c.entries))
	for k, e := range c.entries {
		out = append(out, Snapshot{Key: k, State: e.state(now)})
	}
	c.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Subscribe registers fn to be called after an entry settles, is written or
// is removed. fn runs on the goroutine that caused the change.
func (c *Cache) Subscribe(fn func(key string, st State)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Cache) publish(k string, st State) {
	c.mu.Lock()
	subs := make([]func(string, State), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()
	for _, fn := range subs {
		fn(k, st)
	}
}

// Sweep evicts entries not used for GCTime that have no load in flight.
// Persisted copies stay on disk.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	n := 0
	for k, e := range c.entries {
		if e.fetching || now.Sub(e.lastUsed) < c.gcTime {
			continue
		}
		delete(c.entries, k)
		n++
	}
	metrics.SetCacheEntries(len(c.entries))
	return n
}

// Run sweeps periodically until ctx is done.
func (c *Cache) Run(ctx context.Context) {
	interval := c.gcTime / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.Sweep(); n > 0 {
				c.logger.Debug("swept idle queries", "count", n)
			}
		}
	}
}

// Mutate runs a write with its own retry budget. Failures are not cached.
func (c *Cache) Mutate(ctx context.Context, retry int, fn func(ctx context.Context) error) error {
	return c.retry(ctx, "mutation", retry, fn, nil)
}
