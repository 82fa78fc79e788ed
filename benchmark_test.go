package cache_test

import (
	"fmt"
	"testing"

	cache "github.com/snac/object-cache"
)

func newBenchmarkCache() *cache.Cache[int] {
	return cache.NewBuilder[int]().
		IndexLimit(100000).
		Logger(quietLogger()).
		Build()
}

//
// ================= SINGLE THREAD BENCH =================
//

func BenchmarkAdd(b *testing.B) {
	c := newBenchmarkCache()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Add(fmt.Sprintf("key-%d", i), i)
	}
}

func BenchmarkGet(b *testing.B) {
	c := newBenchmarkCache()
	for i := 0; i < 1000; i++ {
		c.Add(fmt.Sprintf("key-%d", i), i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get(fmt.Sprintf("key-%d", i%1000))
	}
}

func BenchmarkSnapshot(b *testing.B) {
	c := newBenchmarkCache()
	for i := 0; i < 1000; i++ {
		c.Add(fmt.Sprintf("key-%d", i), i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.Snapshot()
	}
}

//
// ================= PARALLEL BENCH =================
//

func BenchmarkGetParallel(b *testing.B) {
	c := newBenchmarkCache()
	for i := 0; i < 1000; i++ {
		c.Add(fmt.Sprintf("key-%d", i), i)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			c.Get(fmt.Sprintf("key-%d", i%1000))
			i++
		}
	})
}

func BenchmarkSweep(b *testing.B) {
	c := newBenchmarkCache()
	for i := 0; i < 10000; i++ {
		c.Add(fmt.Sprintf("key-%d", i), i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Sweep()
	}
}
