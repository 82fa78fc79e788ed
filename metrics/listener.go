package metrics

import cache "github.com/snac/object-cache"

// Listener adapts a Recorder to the cache's listener contract. Register
// one per cache you want counted:
//
//	counters := metrics.NewCounters()
//	c.Register(metrics.NewListener(counters))
//
// A single Recorder may back listeners on several caches; the counts
// then aggregate across them.
type Listener struct {
	rec Recorder
}

var _ cache.Listener = (*Listener)(nil)

// NewListener wraps the Recorder. A nil Recorder degrades to
// NoopRecorder.
func NewListener(rec Recorder) *Listener {
	if rec == nil {
		rec = NoopRecorder{}
	}
	return &Listener{rec: rec}
}

func (l *Listener) OnAdd(cache.Entry)    { l.rec.Added() }
func (l *Listener) OnRemove(cache.Entry) { l.rec.Removed() }
func (l *Listener) OnUse(cache.Entry)    { l.rec.Used() }
func (l *Listener) OnExpire(cache.Entry) { l.rec.Expired() }
