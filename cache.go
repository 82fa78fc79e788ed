package cache

import (
	"container/list"
	"sync"
	"time"
)

/*
Cache is a thread-safe, generic, insertion-ordered container with two
independent expiration policies:

- Temporal expiration: objects expire once they are older than a
  configured duration, measured from either the time they were added or
  the time they were last used.

- Index expiration: the number of live (non-expired) objects is capped;
  when the cap is exceeded, the oldest untouched objects expire first.

Both policies only MARK objects as expired. Whether expired objects are
also deleted is a third, separate switch. The marking and deleting
happen in Sweep, which the process-wide sweeper invokes at a fixed rate
for every cache built through CacheBuilder; a cache never runs its own
timer.

Ordering model:
---------------
Objects live in one doubly linked list. The front is the oldest
untouched object, the back the most recently added or used one. Adding
pushes to the back; Use moves to the back. That position IS the index
expiration signal; there is no separate rank bookkeeping.

Keys are NOT required to be unique. Adding the same key twice yields
two coexisting objects, and lookups return the oldest match first.

Concurrency model:
------------------
One RWMutex guards the list. Structural changes (insert, remove,
reposition) take the write lock; scans take the read lock. Flipping an
object's expired flag is not structural, so the sweep can do it from a
read-side scan. Listeners are kept in an independently locked slice and
are always invoked outside the structural lock, so callbacks may
re-enter the cache.
*/
type Cache[T comparable] struct {
	mu      sync.RWMutex
	objects *list.List // of *CachedObject[T]; front = oldest untouched

	listenerMu sync.RWMutex
	listeners  []Listener

	id string

	// Immutable after Build.
	expiresAfter      time.Duration // <= 0 disables temporal expiration
	expireWhenUnused  bool          // temporal basis: last used instead of time added
	deleteWhenExpired bool
	indexLimit        int // <= 0 disables index expiration
}

// ID returns the cache's identity assigned at build time. It only
// exists to correlate log lines; it has no behavioral meaning.
func (c *Cache[T]) ID() string {
	return c.id
}

// Register adds a listener. It takes effect for subsequent events only;
// nothing is replayed.
func (c *Cache[T]) Register(l Listener) {
	c.listenerMu.Lock()
	defer c.listenerMu.Unlock()
	c.listeners = append(c.listeners, l)
}

// Unregister removes a previously registered listener. Unknown
// listeners are ignored.
func (c *Cache[T]) Unregister(l Listener) {
	c.listenerMu.Lock()
	defer c.listenerMu.Unlock()
	for i, registered := range c.listeners {
		if registered == l {
			c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
			return
		}
	}
}

/*
Add stores an object under the given key.

The key is not checked for uniqueness: adding an existing key again
simply stores a second object next to the first, and Get keeps
returning the oldest one. Callers that want replace semantics must
Remove first.

OnAdd listeners are notified before the object is inserted.
*/
func (c *Cache[T]) Add(key string, object T) {
	obj := newCachedObject(c, key, object)
	c.notifyAdd(obj)

	c.mu.Lock()
	obj.elem = c.objects.PushBack(obj)
	c.mu.Unlock()
}

/*
Get returns the object stored under the key, marking it as used: OnUse
listeners fire, the last-used timestamp refreshes, and the object moves
to the newest position. With duplicate keys, the oldest match wins.

Expired-but-not-deleted objects are still returned; expiration only
means "eligible for deletion", not "invisible". The second return is
false only when no object carries the key.

For a read without side effects, go through Snapshot and Peek.
*/
func (c *Cache[T]) Get(key string) (T, bool) {
	obj := c.findByKey(key)
	if obj == nil {
		var zero T
		return zero, false
	}
	return obj.Use(), true
}

// KeyOf is the reverse lookup: it returns the key of the first object
// whose value equals the given one. Pure peek semantics, no object is
// marked as used.
func (c *Cache[T]) KeyOf(object T) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for e := c.objects.Front(); e != nil; e = e.Next() {
		obj := e.Value.(*CachedObject[T])
		if obj.Peek() == object {
			return obj.key, true
		}
	}
	return "", false
}

// ContainsKey reports whether any object is stored under the key.
// It routes through Get, so a hit counts as a use and repositions the
// object. Use KeyOf or Snapshot for side-effect-free checks.
func (c *Cache[T]) ContainsKey(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// ContainsValue reports whether a key exists for this value. Peek
// semantics, no side effects.
func (c *Cache[T]) ContainsValue(object T) bool {
	_, ok := c.KeyOf(object)
	return ok
}

// ContainsEntry reports whether the cached object's key is present.
// Like ContainsKey, a hit counts as a use.
func (c *Cache[T]) ContainsEntry(obj *CachedObject[T]) bool {
	return c.ContainsKey(obj.key)
}

/*
Remove deletes every object stored under the key (normally zero or
one; more when duplicates were added). OnRemove listeners fire once per
removed object. Removing an absent key is a no-op.
*/
func (c *Cache[T]) Remove(key string) {
	for _, obj := range c.matchKey(key) {
		c.removeObject(obj)
	}
}

// RemoveValue deletes every object whose value equals the given one,
// with the same notification contract as Remove.
func (c *Cache[T]) RemoveValue(object T) {
	c.mu.RLock()
	var matches []*CachedObject[T]
	for e := c.objects.Front(); e != nil; e = e.Next() {
		obj := e.Value.(*CachedObject[T])
		if obj.Peek() == object {
			matches = append(matches, obj)
		}
	}
	c.mu.RUnlock()

	for _, obj := range matches {
		c.removeObject(obj)
	}
}

// RemoveEntry deletes exactly this object (identity, not key match).
// Removing an object that is no longer in the cache is a no-op apart
// from the OnRemove notification.
func (c *Cache[T]) RemoveEntry(obj *CachedObject[T]) {
	if obj == nil {
		return
	}
	c.removeObject(obj)
}

/*
Snapshot returns a point-in-time copy of the cache's contents in order,
oldest untouched first. The slice is the caller's to iterate without
holding any lock; later cache mutations do not affect it.

Prefer Peek when reading values out of a snapshot; Use from inside an
iteration reorders the live cache under you.
*/
func (c *Cache[T]) Snapshot() []*CachedObject[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*CachedObject[T], 0, c.objects.Len())
	for e := c.objects.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*CachedObject[T]))
	}
	return out
}

// Len returns the number of stored objects, expired ones included.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.objects.Len()
}

/*
Clear drops every object immediately and notifies NO listeners.

The asymmetry with Remove (which fires OnRemove per object) is
intentional and kept on purpose: Clear is the bulk "throw it all away"
escape hatch, not a batch of removals. Tests pin this behavior down.
*/
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	c.objects = list.New()
	c.mu.Unlock()
}

// ----- internal plumbing -----

// findByKey returns the oldest object stored under the key, or nil.
func (c *Cache[T]) findByKey(key string) *CachedObject[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for e := c.objects.Front(); e != nil; e = e.Next() {
		obj := e.Value.(*CachedObject[T])
		if obj.key == key {
			return obj
		}
	}
	return nil
}

// matchKey returns all objects stored under the key, oldest first.
func (c *Cache[T]) matchKey(key string) []*CachedObject[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var matches []*CachedObject[T]
	for e := c.objects.Front(); e != nil; e = e.Next() {
		obj := e.Value.(*CachedObject[T])
		if obj.key == key {
			matches = append(matches, obj)
		}
	}
	return matches
}

// removeObject is the single removal path: notify, then unlink. If the
// object was already unlinked (by a concurrent removal or Clear), the
// unlink is a no-op; list elements remember their list.
func (c *Cache[T]) removeObject(obj *CachedObject[T]) {
	c.notifyRemove(obj)

	c.mu.Lock()
	if obj.elem != nil {
		c.objects.Remove(obj.elem)
	}
	c.mu.Unlock()
}

// moveToNewest repositions the object at the back of the order. Safe to
// call on objects that have been removed meanwhile; MoveToBack ignores
// elements that no longer belong to the list.
func (c *Cache[T]) moveToNewest(obj *CachedObject[T]) {
	c.mu.Lock()
	if obj.elem != nil {
		c.objects.MoveToBack(obj.elem)
	}
	c.mu.Unlock()
}

// snapshotListeners copies the listener slice so dispatch never holds
// the listener lock while running callbacks.
func (c *Cache[T]) snapshotListeners() []Listener {
	c.listenerMu.RLock()
	defer c.listenerMu.RUnlock()
	out := make([]Listener, len(c.listeners))
	copy(out, c.listeners)
	return out
}

func (c *Cache[T]) notifyAdd(obj *CachedObject[T]) {
	for _, l := range c.snapshotListeners() {
		l.OnAdd(obj)
	}
}

func (c *Cache[T]) notifyRemove(obj *CachedObject[T]) {
	for _, l := range c.snapshotListeners() {
		l.OnRemove(obj)
	}
}

func (c *Cache[T]) notifyUse(obj *CachedObject[T]) {
	for _, l := range c.snapshotListeners() {
		l.OnUse(obj)
	}
}

func (c *Cache[T]) notifyExpire(obj *CachedObject[T]) {
	for _, l := range c.snapshotListeners() {
		l.OnExpire(obj)
	}
}
