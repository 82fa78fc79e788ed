package cache

import (
	"container/list"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/snac/object-cache/sweeper"
)

/*
CacheBuilder assembles the immutable configuration of a Cache and is
the only way to create one.

Building does two things besides allocating the cache:

 1. The cache is registered with the process-wide sweeper, which starts
    lazily on the first build and from then on sweeps every registered
    cache at a fixed rate for the life of the process. Caches are never
    unregistered automatically; see the sweeper package for the
    explicit escape hatches.

 2. The construction is logged with the cache's generated identity, so
    long-lived processes can tell their caches apart in logs.

Misconfiguration is not an error: a zero or negative duration or index
limit simply disables that policy, matching the "absence, never an
exception" error model of the rest of the API.

Example:

	imageCache := cache.NewBuilder[*Image]().
		ExpiresAfter(5 * time.Minute).
		ExpireWhenUnused(true).
		IndexLimit(100).
		DeleteWhenExpired(true).
		Build()
*/
type CacheBuilder[T comparable] struct {
	expiresAfter      time.Duration
	expireWhenUnused  bool
	deleteWhenExpired bool
	indexLimit        int
	logger            *slog.Logger
}

// NewBuilder returns a builder with every policy disabled: objects
// never expire and are never deleted until told otherwise.
func NewBuilder[T comparable]() *CacheBuilder[T] {
	return &CacheBuilder[T]{}
}

// ExpiresAfter sets the temporal expiration limit. Zero or negative
// disables temporal expiration.
func (b *CacheBuilder[T]) ExpiresAfter(d time.Duration) *CacheBuilder[T] {
	b.expiresAfter = d
	return b
}

// ExpireWhenUnused switches the temporal basis from the time an object
// was added to the time it was last used, so fetching an object resets
// its expiration clock. Has no effect unless ExpiresAfter is set, and
// none on index expiration.
func (b *CacheBuilder[T]) ExpireWhenUnused(whenUnused bool) *CacheBuilder[T] {
	b.expireWhenUnused = whenUnused
	return b
}

// DeleteWhenExpired controls whether expired objects are also removed
// by the sweep. When false, expired objects stay in the cache
// indefinitely, flagged but retrievable.
func (b *CacheBuilder[T]) DeleteWhenExpired(del bool) *CacheBuilder[T] {
	b.deleteWhenExpired = del
	return b
}

// IndexLimit caps the number of live (non-expired) objects; the oldest
// untouched objects expire first once the cap is exceeded. Zero or
// negative disables index expiration.
func (b *CacheBuilder[T]) IndexLimit(limit int) *CacheBuilder[T] {
	b.indexLimit = limit
	return b
}

// Logger sets the logger used for construction logging. Defaults to
// slog.Default.
func (b *CacheBuilder[T]) Logger(l *slog.Logger) *CacheBuilder[T] {
	b.logger = l
	return b
}

// Build creates the cache, registers it with the process-wide sweeper
// and returns it. The configuration is frozen from here on.
func (b *CacheBuilder[T]) Build() *Cache[T] {
	c := &Cache[T]{
		objects:           list.New(),
		id:                uuid.NewString(),
		expiresAfter:      b.expiresAfter,
		expireWhenUnused:  b.expireWhenUnused,
		deleteWhenExpired: b.deleteWhenExpired,
		indexLimit:        b.indexLimit,
	}

	sweeper.Register(c)

	log := b.logger
	if log == nil {
		log = slog.Default()
	}
	log.Info("initialized new cache",
		slog.String("cache_id", c.id),
		slog.Duration("expires_after", c.expiresAfter),
		slog.Bool("expire_when_unused", c.expireWhenUnused),
		slog.Bool("delete_when_expired", c.deleteWhenExpired),
		slog.Int("index_limit", c.indexLimit),
	)

	return c
}
