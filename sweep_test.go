package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cache "github.com/snac/object-cache"
)

// These tests drive Sweep by hand instead of waiting on the
// process-wide sweeper (which TestMain froze). A stopped sweeper is a
// supported operating mode: nothing expires until someone sweeps.

//
// ================= TEMPORAL EXPIRATION =================
//

func TestTemporalExpiration_InsertionBasis(t *testing.T) {
	c := cache.NewBuilder[int]().
		ExpiresAfter(150 * time.Millisecond).
		Logger(quietLogger()).
		Build()

	c.Add("a", 1)

	t.Run("not expired before the limit", func(t *testing.T) {
		time.Sleep(40 * time.Millisecond)
		c.Sweep()
		assert.False(t, c.Snapshot()[0].Expired())
	})

	t.Run("expired at the first sweep past the limit", func(t *testing.T) {
		time.Sleep(160 * time.Millisecond)
		c.Sweep()
		require.Len(t, c.Snapshot(), 1, "marking does not delete")
		assert.True(t, c.Snapshot()[0].Expired())
	})
}

func TestTemporalExpiration_UseResetsClock(t *testing.T) {
	c := cache.NewBuilder[int]().
		ExpiresAfter(120 * time.Millisecond).
		ExpireWhenUnused(true).
		Logger(quietLogger()).
		Build()

	c.Add("a", 1)

	// Fetch shortly before the insertion-based deadline; with the
	// last-used basis that restarts the clock.
	time.Sleep(80 * time.Millisecond)
	_, ok := c.Get("a")
	require.True(t, ok)

	time.Sleep(80 * time.Millisecond) // 160ms since add, 80ms since use
	c.Sweep()
	assert.False(t, c.Snapshot()[0].Expired(), "recent use must keep the object alive")

	time.Sleep(140 * time.Millisecond) // 220ms since use
	c.Sweep()
	assert.True(t, c.Snapshot()[0].Expired(), "unused long enough, must expire")
}

func TestTemporalExpiration_DisabledByNonPositiveDuration(t *testing.T) {
	c := cache.NewBuilder[int]().
		ExpiresAfter(0).
		Logger(quietLogger()).
		Build()

	c.Add("a", 1)
	time.Sleep(30 * time.Millisecond)
	c.Sweep()

	assert.False(t, c.Snapshot()[0].Expired())
}

//
// ================= MONOTONIC EXPIRY =================
//

func TestExpiredFlagNeverResets(t *testing.T) {
	c := cache.NewBuilder[int]().
		ExpiresAfter(30 * time.Millisecond).
		ExpireWhenUnused(true).
		Logger(quietLogger()).
		Build()

	c.Add("a", 1)
	time.Sleep(60 * time.Millisecond)
	c.Sweep()

	obj := c.Snapshot()[0]
	require.True(t, obj.Expired())

	// Even a fresh use cannot revive an expired object.
	obj.Use()
	c.Sweep()
	assert.True(t, obj.Expired())
}

func TestExpireNotifiesExactlyOnce(t *testing.T) {
	c := cache.NewBuilder[int]().
		ExpiresAfter(30 * time.Millisecond).
		Logger(quietLogger()).
		Build()
	rec := &recordingListener{}
	c.Register(rec)

	c.Add("a", 1)
	time.Sleep(60 * time.Millisecond)

	// Scanning an already-expired object is a no-op, so repeated
	// sweeps must not re-notify.
	c.Sweep()
	c.Sweep()
	c.Sweep()

	_, _, _, expires := rec.snapshot()
	assert.Equal(t, []string{"a"}, expires)
}

//
// ================= DELETION PHASE =================
//

func TestDeleteWhenExpiredRemovesInSameSweep(t *testing.T) {
	c := cache.NewBuilder[int]().
		ExpiresAfter(30 * time.Millisecond).
		DeleteWhenExpired(true).
		Logger(quietLogger()).
		Build()
	rec := &recordingListener{}
	c.Register(rec)

	c.Add("a", 1)
	time.Sleep(60 * time.Millisecond)

	// One sweep both marks and deletes: the deletion phase runs after
	// the temporal phase within the same pass.
	c.Sweep()

	assert.Equal(t, 0, c.Len())
	_, removes, _, expires := rec.snapshot()
	assert.Equal(t, []string{"a"}, expires, "expire fires first")
	assert.Equal(t, []string{"a"}, removes, "then the normal removal path")
}

func TestExpiredObjectsPersistWithoutDeletion(t *testing.T) {
	c := cache.NewBuilder[int]().
		ExpiresAfter(30 * time.Millisecond).
		Logger(quietLogger()).
		Build()

	c.Add("a", 1)
	time.Sleep(60 * time.Millisecond)
	c.Sweep()
	c.Sweep()

	// Flagged, but still present and still retrievable.
	require.Equal(t, 1, c.Len())
	assert.True(t, c.Snapshot()[0].Expired())
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

//
// ================= INDEX EXPIRATION =================
//

func TestIndexEviction(t *testing.T) {
	c := cache.NewBuilder[string]().
		IndexLimit(3).
		DeleteWhenExpired(true).
		Logger(quietLogger()).
		Build()

	for _, key := range []string{"A", "B", "C", "D", "E"} {
		c.Add(key, key)
	}

	// First sweep marks A and B (the two oldest); their deletion
	// happens in the NEXT sweep's deletion phase, because deletion
	// runs before index marking within a pass.
	c.Sweep()
	c.Sweep()

	assert.Equal(t, []string{"C", "D", "E"}, keysOf(c.Snapshot()))
}

func TestIndexExpirationScenario(t *testing.T) {
	// index limit 2, no deletion: a and b expire, c stays live, and
	// all three remain present.
	c := cache.NewBuilder[int]().
		IndexLimit(2).
		Logger(quietLogger()).
		Build()

	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)

	c.Sweep()

	objs := c.Snapshot()
	require.Len(t, objs, 3)
	assert.True(t, objs[0].Expired(), "a")
	assert.True(t, objs[1].Expired(), "b")
	assert.False(t, objs[2].Expired(), "c")
}

func TestIndexExpirationSkipsAlreadyExpired(t *testing.T) {
	c := cache.NewBuilder[int]().
		IndexLimit(2).
		Logger(quietLogger()).
		Build()

	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)
	c.Sweep() // a, b expired

	c.Add("d", 4)
	c.Sweep() // live = c,d = 2: within the limit, nothing new expires

	objs := c.Snapshot()
	require.Len(t, objs, 4)
	assert.False(t, objs[2].Expired(), "c stays live")
	assert.False(t, objs[3].Expired(), "d stays live")
}

func TestUseProtectsFromIndexExpiration(t *testing.T) {
	c := cache.NewBuilder[int]().
		IndexLimit(2).
		Logger(quietLogger()).
		Build()

	c.Add("a", 1)
	c.Add("b", 2)

	// Touch "a", making "b" the oldest untouched object.
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Add("c", 3)
	c.Sweep()

	for _, obj := range c.Snapshot() {
		switch obj.Key() {
		case "b":
			assert.True(t, obj.Expired(), "b is the oldest untouched")
		default:
			assert.False(t, obj.Expired(), obj.Key())
		}
	}
}
