package cache

import (
	"container/list"
	"fmt"
	"time"

	"go.uber.org/atomic"
)

/*
CachedObject is one stored key/value pair plus the bookkeeping the cache
needs to decide when the pair should expire.

The important distinction on this type is Peek vs Use:

- Peek returns the stored value and does nothing else. It is the safe
  accessor for snapshots, debugging and reverse lookups, because it can
  never influence expiration or ordering.

- Use returns the stored value AND counts as an access: listeners are
  notified, the last-used timestamp is refreshed, and the object moves
  to the newest end of the owning cache's order. That is what keeps
  frequently fetched objects alive under both expiration policies.

Concurrency:
------------
lastUsed and expired are plain scalar facts about the object, not
structure. They are held in atomics so the sweep can read them while a
caller is in the middle of Use, without torn reads. The three effects of
Use (notify, stamp, reposition) are deliberately NOT atomic as a unit;
a concurrent sweep may observe the timestamp before the reposition.
That race is accepted: both sides only read/write simple scalars.
*/
type CachedObject[T comparable] struct {
	cache  *Cache[T]
	key    string
	object T

	timeAdded time.Time
	lastUsed  atomic.Int64 // unix nanoseconds, >= timeAdded
	expired   atomic.Bool  // monotonic: flips false -> true exactly once

	// elem is the object's handle into the owning cache's ordered list.
	// Guarded by the cache's lock, like the list itself.
	elem *list.Element
}

func newCachedObject[T comparable](c *Cache[T], key string, object T) *CachedObject[T] {
	obj := &CachedObject[T]{
		cache:     c,
		key:       key,
		object:    object,
		timeAdded: time.Now(),
	}
	obj.lastUsed.Store(obj.timeAdded.UnixNano())
	return obj
}

// Key returns the key the object was stored under.
func (o *CachedObject[T]) Key() string {
	return o.key
}

// TimeAdded returns when the object was added to its cache.
func (o *CachedObject[T]) TimeAdded() time.Time {
	return o.timeAdded
}

// LastUsed returns the time of the most recent Use. Before the first
// Use it equals TimeAdded.
func (o *CachedObject[T]) LastUsed() time.Time {
	return time.Unix(0, o.lastUsed.Load())
}

// Expired reports whether the object has been marked expired by a
// sweep. Once true it stays true for the rest of the object's life.
func (o *CachedObject[T]) Expired() bool {
	return o.expired.Load()
}

// Peek returns the stored value without any side effects. It does not
// touch the last-used timestamp, the object's position, or listeners.
func (o *CachedObject[T]) Peek() T {
	return o.object
}

/*
Use returns the stored value and marks the object as accessed:

 1. OnUse listeners fire (on the caller's goroutine)
 2. the last-used timestamp is set to now
 3. the object moves to the newest end of the cache's order

Step 3 re-acquires the cache's write lock on its own, so a sweep running
between steps may still see the old position. Accepted race, see the
type documentation.
*/
func (o *CachedObject[T]) Use() T {
	o.cache.notifyUse(o)
	o.lastUsed.Store(time.Now().UnixNano())
	o.cache.moveToNewest(o)
	return o.object
}

// expire marks the object expired, notifying OnExpire listeners before
// the flag flips. Idempotent: an already-expired object is left alone,
// so listeners are never notified twice. Only the sweep calls this.
func (o *CachedObject[T]) expire() {
	if o.expired.Load() {
		return
	}
	o.cache.notifyExpire(o)
	o.expired.Store(true)
}

func (o *CachedObject[T]) String() string {
	return fmt.Sprintf("CachedObject{key=%q, object=%v, timeAdded=%v, lastUsed=%v, expired=%v}",
		o.key, o.object, o.timeAdded, o.LastUsed(), o.Expired())
}
