package viewstate

import (
	"context"
	"net/url"
)

// Result is a list read as the page should present it.
type Result[T any] struct {
	Value T
	// Cached is set when the value came from the cache.
	Cached bool
	// Superseded is set when a newer read of the same view started while
	// this one was in flight.
	Superseded bool
}

// Load serves key from the cache or runs fetch, committing its result only
// if no newer read of the view began meanwhile. A cache hit still counts as
// the newest read, so slower reads of other pages do not win.
func Load[T any](ctx context.Context, c *Cache, key Key, fetch func(context.Context) (T, error)) (Result[T], error) {
	ticket := c.Begin(key)
	if cached, ok := c.Get(key); ok {
		if value, ok := cached.(T); ok {
			return Result[T]{Value: value, Cached: true}, nil
		}
	}

	value, err := fetch(ctx)
	if err != nil {
		var zero T
		return Result[T]{Value: zero}, err
	}
	return Result[T]{Value: value, Superseded: !c.Commit(ticket, value)}, nil
}

// QueryKey renders list parameters into a stable cache key.
func QueryKey(values url.Values) string {
	return values.Encode()
}
