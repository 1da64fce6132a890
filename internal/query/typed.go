package query

import (
	"context"
	"encoding/json"
	"fmt"
)

// Fetch is the typed form of Cache.Fetch.
func Fetch[T any](ctx context.Context, c *Cache, key Key, opts Options, load func(ctx context.Context) (T, error)) (T, error) {
	v, err := c.Fetch(ctx, key, func(ctx context.Context) (any, error) {
		return load(ctx)
	}, opts)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](c, key, v)
}

// Get returns the cached data for key without loading.
func Get[T any](c *Cache, key Key) (T, bool) {
	st := c.State(key)
	var zero T
	if !st.HasData() {
		return zero, false
	}
	v, err := decode[T](c, key, st.Data)
	if err != nil {
		return zero, false
	}
	return v, true
}

// Mutate runs fn with the write retry budget and returns its value.
func Mutate[T any](ctx context.Context, c *Cache, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := c.Mutate(ctx, WriteRetries, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

func decode[T any](c *Cache, key Key, v any) (T, error) {
	switch data := v.(type) {
	case T:
		return data, nil
	case *rawData:
		var out T
		if err := json.Unmarshal(data.raw, &out); err != nil {
			return out, fmt.Errorf("decode cached %s: %w", key, err)
		}
		c.upgrade(key.String(), data, out)
		return out, nil
	case nil:
		var zero T
		return zero, nil
	}
	var zero T
	return zero, fmt.Errorf("cached %s holds %T", key, v)
}

// upgrade swaps a hydrated raw value for its decoded form if nothing
// replaced it in the meantime.
func (c *Cache) upgrade(k string, raw *rawData, decoded any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[k]; ok && e.data == any(raw) {
		e.data = decoded
	}
}
