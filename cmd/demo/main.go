// Demo wiring of the full engine: a cache with both expiration
// policies, a metrics listener, a read-through loader in front of a
// slow "asset store", and the process-wide sweeper doing the aging.
//
// Run it with `go run ./cmd/demo`.
package main

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	cache "github.com/snac/object-cache"
	"github.com/snac/object-cache/health"
	"github.com/snac/object-cache/loader"
	"github.com/snac/object-cache/metrics"
)

// assetStore fakes the expensive side of a miss: loading and decoding
// an image file, say.
type assetStore struct{}

func (assetStore) Load(ctx context.Context, key string) (string, error) {
	time.Sleep(10 * time.Millisecond)
	return "decoded:" + key, nil
}

func main() {
	counters := metrics.NewCounters()

	assets := cache.NewBuilder[string]().
		ExpiresAfter(500 * time.Millisecond).
		ExpireWhenUnused(true).
		IndexLimit(4).
		DeleteWhenExpired(true).
		Build()
	assets.Register(metrics.NewListener(counters))

	rt := loader.NewReadThrough[string](assets, assetStore{})

	fmt.Println("== concurrent readers, one hot key ==")
	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			_, err := rt.Get(context.Background(), "player_idle")
			return err
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Println("load failed:", err)
		return
	}
	fmt.Printf("objects cached: %d (eight readers, one load)\n\n", assets.Len())

	fmt.Println("== index cap at work ==")
	for _, key := range []string{"tile_a", "tile_b", "tile_c", "tile_d", "tile_e"} {
		if _, err := rt.Get(context.Background(), key); err != nil {
			fmt.Println("load failed:", err)
			return
		}
	}
	time.Sleep(150 * time.Millisecond) // a few sweeps
	for _, obj := range assets.Snapshot() {
		fmt.Printf("  %-12s expired=%v\n", obj.Key(), obj.Expired())
	}
	fmt.Println()

	fmt.Println("== idle long enough for temporal expiration ==")
	time.Sleep(700 * time.Millisecond)
	fmt.Printf("objects left: %d\n\n", assets.Len())

	snap := counters.Snapshot()
	fmt.Println("== metrics ==")
	fmt.Printf("  adds=%d uses=%d expirations=%d removes=%d\n\n",
		snap.Adds, snap.Uses, snap.Expirations, snap.Removes)

	report := health.NewAnalyzer().Analyze(snap)
	fmt.Println("== health ==")
	fmt.Printf("  %s: %s\n", report.Status, report.Summary)
	for i, signal := range report.Signals {
		fmt.Printf("  - %s (%s)\n", signal, report.Recommendations[i])
	}
}
