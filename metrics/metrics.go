// Package metrics counts cache lifecycle events.
//
// The cache itself records nothing; it only emits listener events.
// This package supplies the listener that turns those events into
// counters, plus the Recorder abstraction so callers can ship counts
// to their own system instead.
package metrics

import "go.uber.org/atomic"

/*
Recorder is what the cache listener reports into. Each method is one
lifecycle event. Implementations must be safe for concurrent use:
events arrive from caller goroutines and from the sweeper at once.
*/
type Recorder interface {

	// Added is recorded when an object is added.
	Added()

	// Removed is recorded when an object is removed, explicitly or by
	// the sweep's deletion phase. Clear records nothing, because the
	// cache notifies nothing for it.
	Removed()

	// Used is recorded when an object is fetched via Use/Get.
	Used()

	// Expired is recorded when a sweep marks an object expired.
	Expired()
}

// NoopRecorder ignores every event. It exists so callers that don't
// care about metrics never pay for nil checks.
type NoopRecorder struct{}

func (NoopRecorder) Added()   {}
func (NoopRecorder) Removed() {}
func (NoopRecorder) Used()    {}
func (NoopRecorder) Expired() {}

// Counters is the in-memory Recorder: four atomic counters and a
// consistent-enough snapshot.
type Counters struct {
	adds    atomic.Int64
	removes atomic.Int64
	uses    atomic.Int64
	expires atomic.Int64
}

// NewCounters returns zeroed counters.
func NewCounters() *Counters {
	return &Counters{}
}

func (c *Counters) Added()   { c.adds.Inc() }
func (c *Counters) Removed() { c.removes.Inc() }
func (c *Counters) Used()    { c.uses.Inc() }
func (c *Counters) Expired() { c.expires.Inc() }

// Snapshot is a point-in-time copy of the counters. Each field is read
// atomically; the set as a whole is not a transaction.
type Snapshot struct {
	Adds        int64
	Removes     int64
	Uses        int64
	Expirations int64
}

func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Adds:        c.adds.Load(),
		Removes:     c.removes.Load(),
		Uses:        c.uses.Load(),
		Expirations: c.expires.Load(),
	}
}
