package cache

import "time"

/*
Sweep runs one expiration pass over this cache. The process-wide
sweeper calls it at a fixed rate for every built cache, independent of
any caller activity; callers normally never invoke it themselves
(tests do, to step expiration deterministically).

Three phases, always in this order:

 1. Temporal expiration: mark objects whose age (from time added or
    last use, per configuration) reached the limit.
 2. Deletion: if enabled, remove every currently expired object
    through the normal removal path, so OnRemove fires on top of the
    OnExpire that already fired.
 3. Index expiration: if the live (non-expired) population exceeds the
    cap, mark the excess expired starting at the oldest end.

The order matters. Deletion follows marking within the same pass so a
deleting cache never carries a full sweep period of garbage, and the
index phase counts the post-deletion population so the cap reflects
objects that actually remain.

Each phase scans under the read lock, collects its victims, releases
the lock, and then acts, so the listener callbacks triggered by
expire and remove run outside the lock and may re-enter the cache.
*/
func (c *Cache[T]) Sweep() {
	if c.expiresAfter > 0 {
		c.sweepTemporal()
	}
	if c.deleteWhenExpired {
		c.sweepDelete()
	}
	if c.indexLimit > 0 {
		c.sweepIndex()
	}
}

// sweepTemporal marks every object whose elapsed time reached the
// configured limit. One now per sweep: all objects are measured against
// the same instant, not re-sampled per object.
func (c *Cache[T]) sweepTemporal() {
	now := time.Now()

	c.mu.RLock()
	var due []*CachedObject[T]
	for e := c.objects.Front(); e != nil; e = e.Next() {
		obj := e.Value.(*CachedObject[T])
		if obj.expired.Load() {
			continue
		}
		basis := obj.timeAdded
		if c.expireWhenUnused {
			basis = time.Unix(0, obj.lastUsed.Load())
		}
		if now.Sub(basis) >= c.expiresAfter {
			due = append(due, obj)
		}
	}
	c.mu.RUnlock()

	for _, obj := range due {
		obj.expire()
	}
}

// sweepDelete removes every currently expired object. Objects marked in
// this sweep's temporal phase are already eligible here.
func (c *Cache[T]) sweepDelete() {
	c.mu.RLock()
	var gone []*CachedObject[T]
	for e := c.objects.Front(); e != nil; e = e.Next() {
		obj := e.Value.(*CachedObject[T])
		if obj.expired.Load() {
			gone = append(gone, obj)
		}
	}
	c.mu.RUnlock()

	for _, obj := range gone {
		c.removeObject(obj)
	}
}

// sweepIndex caps the live population at indexLimit by expiring the
// oldest untouched objects first. Already-expired objects are skipped
// and do not count toward the excess.
func (c *Cache[T]) sweepIndex() {
	c.mu.RLock()
	live := 0
	for e := c.objects.Front(); e != nil; e = e.Next() {
		if !e.Value.(*CachedObject[T]).expired.Load() {
			live++
		}
	}

	var victims []*CachedObject[T]
	if excess := live - c.indexLimit; excess > 0 {
		for e := c.objects.Front(); e != nil && len(victims) < excess; e = e.Next() {
			obj := e.Value.(*CachedObject[T])
			if !obj.expired.Load() {
				victims = append(victims, obj)
			}
		}
	}
	c.mu.RUnlock()

	for _, obj := range victims {
		obj.expire()
	}
}
