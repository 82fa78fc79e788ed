/*
Package loader implements the collaborator side of the cache contract:

	call Get(key); on a miss, load the value and Add it; on explicit
	invalidation, Remove it.

The engine itself never performs I/O, so "load" lives here, behind the
Loader interface, and ReadThrough glues the two together. This is the
one place where errors exist: cache lookups can only miss, but a
backing load (disk, decode, network) can genuinely fail.
*/
package loader

import "context"

/*
Loader is the contract between a read-through cache and whatever
produces values on a miss, such as an asset decoder or a database.

	1. ReadThrough checks the cache → key not found
	2. ReadThrough calls Load(ctx, key)
	3. Load fetches or computes the value
	4. ReadThrough stores the result in the cache
	5. ReadThrough returns the value

Load must be safe for concurrent use; ReadThrough collapses concurrent
misses for the same key, but different keys load in parallel.
*/
type Loader[T comparable] interface {
	Load(ctx context.Context, key string) (T, error)
}

// LoaderFunc adapts a plain function to the Loader interface.
type LoaderFunc[T comparable] func(ctx context.Context, key string) (T, error)

func (f LoaderFunc[T]) Load(ctx context.Context, key string) (T, error) {
	return f(ctx, key)
}
