// Package sweeper runs the process-wide expiration pass.
//
// Every cache built through the builder registers itself here, and one
// shared loop invokes each registered target's Sweep sequentially at a
// fixed rate (20 times per second unless configured otherwise). No
// cache ever owns a private timer; a process has exactly one sweep
// loop no matter how many caches it builds.
//
// The registry never shrinks on its own: registered targets are swept
// for the remaining life of the process. That mirrors the engine's
// ownership model: caches are built, never torn down. Two explicit
// escape hatches exist on top of that model: Unregister drops a single
// target, and Stop halts the loop entirely, freezing expiration for
// every cache at once. Stopping is primarily a test mode.
package sweeper

import (
	"log/slog"
	"sync"
	"time"
)

// Target is the minimal contract the sweeper needs from a cache. It
// keeps this package decoupled from the cache implementation (and from
// its type parameter).
type Target interface {

	// Sweep runs one expiration pass. Called sequentially with every
	// other registered target, on the sweeper's goroutine.
	Sweep()
}

// Sweeper drives Sweep on a set of targets at a fixed interval.
// The zero value is not usable; construct with New.
type Sweeper struct {
	mu      sync.Mutex
	targets []Target
	stop    chan struct{}
	running bool

	interval time.Duration
	log      *slog.Logger
}

// New creates a stopped Sweeper ticking at the given interval once
// started. A nil logger falls back to slog.Default.
func New(interval time.Duration, log *slog.Logger) *Sweeper {
	if log == nil {
		log = slog.Default()
	}
	return &Sweeper{
		interval: interval,
		log:      log,
	}
}

// Register adds a target to the sweep set. Registering while stopped is
// allowed; the target is picked up when (if) the loop runs.
func (s *Sweeper) Register(t Target) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targets = append(s.targets, t)
}

// Unregister removes a target from the sweep set, ending its
// expiration for good. Unknown targets are ignored.
func (s *Sweeper) Unregister(t Target) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, registered := range s.targets {
		if registered == t {
			s.targets = append(s.targets[:i], s.targets[i+1:]...)
			return
		}
	}
}

// Start launches the sweep loop on its own goroutine. Starting a
// running sweeper is a no-op.
func (s *Sweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	go s.loop(s.stop)
}

// Stop halts the loop. Every registered cache stops expiring until a
// new Start. Stopping a stopped sweeper is a no-op.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	close(s.stop)
}

func (s *Sweeper) loop(stop <-chan struct{}) {
	s.log.Info("sweeper started", slog.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweepAll()
		case <-stop:
			s.log.Info("sweeper stopped")
			return
		}
	}
}

// sweepAll runs one pass over a snapshot of the registry, so targets
// registered mid-pass wait for the next tick and a Sweep that calls
// back into this package cannot deadlock.
func (s *Sweeper) sweepAll() {
	s.mu.Lock()
	targets := make([]Target, len(s.targets))
	copy(targets, s.targets)
	s.mu.Unlock()

	for _, t := range targets {
		t.Sweep()
	}
}

// ----- process-wide default -----

var (
	defaultOnce    sync.Once
	defaultSweeper *Sweeper
)

// Default returns the process-wide sweeper, creating and starting it
// on first use with the environment-derived configuration.
func Default() *Sweeper {
	defaultOnce.Do(func() {
		cfg := loadConfig()
		defaultSweeper = New(cfg.interval(), slog.Default())
		defaultSweeper.Start()
	})
	return defaultSweeper
}

// Register adds a target to the process-wide sweeper, starting it on
// first use. This is what the cache builder calls.
func Register(t Target) {
	Default().Register(t)
}

// Unregister removes a target from the process-wide sweeper.
func Unregister(t Target) {
	Default().Unregister(t)
}

// Stop halts the process-wide sweeper, freezing expiration for every
// cache in the process. Intended for tests.
func Stop() {
	Default().Stop()
}
