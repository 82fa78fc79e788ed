package cache

import "time"

/*
Entry is the read-only view of a cached object that listeners receive.

Listeners observe caches of any value type, so the view deliberately
exposes only the type-independent facts. A listener that needs the
stored value should hold on to the cache itself and use Peek through a
snapshot, because reading the value through Use from inside a callback
would recursively fire OnUse.
*/
type Entry interface {
	Key() string
	TimeAdded() time.Time
	LastUsed() time.Time
	Expired() bool
}

/*
Listener receives lifecycle events from a cache it is registered on.

Dispatch contract:
------------------
- Callbacks run synchronously, inline with the triggering operation:
  OnAdd/OnRemove/OnUse on the goroutine that called the cache, OnExpire
  on the sweeper's goroutine.
- Callbacks fire before the corresponding action takes structural
  effect, and outside the cache's lock, so a listener may call back
  into the same cache.
- Multiple listeners are invoked in registration order, but that order
  is not part of the contract. Do not rely on it.
- The cache installs no guard around callbacks. A panicking listener
  aborts the operation (or the sweep) it was notified from.
*/
type Listener interface {

	// OnAdd is called before the object is inserted.
	OnAdd(Entry)

	// OnRemove is called before the object is removed. Clear does NOT
	// trigger it; only single-object removal paths do.
	OnRemove(Entry)

	// OnUse is called when the object is fetched via Use (which
	// includes Get).
	OnUse(Entry)

	// OnExpire is called before the object's expired flag flips.
	OnExpire(Entry)
}

// NoopListener implements Listener with empty callbacks. Embed it to
// implement only the events you care about.
type NoopListener struct{}

func (NoopListener) OnAdd(Entry)    {}
func (NoopListener) OnRemove(Entry) {}
func (NoopListener) OnUse(Entry)    {}
func (NoopListener) OnExpire(Entry) {}
