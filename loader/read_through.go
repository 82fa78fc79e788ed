package loader

import (
	"context"

	"golang.org/x/sync/singleflight"

	cache "github.com/snac/object-cache"
)

/*
ReadThrough wraps a cache and a Loader into the standard miss-fill
loop. Hits behave exactly like cache.Get (the object counts as used);
misses load, Add, and return.

The miss path runs under singleflight: if a hundred goroutines miss the
same key at once, one of them loads and the rest wait for its result.
This matters more here than in most caches, because Add never
overwrites: without the flight guard, concurrent misses would each Add
their own copy and the cache would hold duplicates of the key.
*/
type ReadThrough[T comparable] struct {
	cache  *cache.Cache[T]
	loader Loader[T]
	sf     singleflight.Group
}

// NewReadThrough wires a cache to its loader.
func NewReadThrough[T comparable](c *cache.Cache[T], l Loader[T]) *ReadThrough[T] {
	return &ReadThrough[T]{
		cache:  c,
		loader: l,
	}
}

// Get returns the cached value for the key, loading and caching it on
// a miss. The error is whatever the Loader returned; cache misses
// themselves are never errors.
func (r *ReadThrough[T]) Get(ctx context.Context, key string) (T, error) {
	if v, ok := r.cache.Get(key); ok {
		return v, nil
	}

	v, err, _ := r.sf.Do(key, func() (any, error) {
		// Re-check inside the flight: a previous flight may have
		// filled the key while this goroutine queued up. Skipping
		// this would Add a duplicate.
		if v, ok := r.cache.Get(key); ok {
			return v, nil
		}

		loaded, err := r.loader.Load(ctx, key)
		if err != nil {
			return nil, err
		}
		r.cache.Add(key, loaded)
		return loaded, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Invalidate removes the key from the cache. The next Get loads fresh.
func (r *ReadThrough[T]) Invalidate(key string) {
	r.cache.Remove(key)
}
