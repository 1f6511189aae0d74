package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	waitcache "github.com/krisalay/waitcache"
	"github.com/krisalay/waitcache/metrics"
)

// ================= BENCHMARK =================

func main() {
	ctx := context.Background()

	const (
		shards     = 8
		durations  = 10000
		goroutines = 200
		opsPerG    = 5000
	)

	fmt.Println("\n================ WAIT HANDLE CACHE BENCHMARK =================")
	fmt.Println("CONFIG")
	fmt.Println("---------------------------------")
	fmt.Println("Shards       :", shards)
	fmt.Println("Durations    :", humanize.Comma(durations))
	fmt.Println("Goroutines   :", goroutines)
	fmt.Println("Ops/Goroutine:", humanize.Comma(opsPerG))
	fmt.Println("---------------------------------")

	counters := &metrics.Counters{}
	opts := waitcache.DefaultOptions()
	opts.Shards = shards
	opts.Metrics = counters

	c, err := waitcache.New(opts)
	if err != nil {
		fmt.Println("setup failed:", err)
		return
	}
	defer c.Close()

	// ---------------- Cold Start ----------------
	// Every goroutine races to create the same keys; singleflight
	// and the shard lock must leave exactly one handle per key.
	fmt.Println("Cold start...")
	start := time.Now()
	wg := sync.WaitGroup{}
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < durations/10; j++ {
				_, _ = c.Get(ctx, float64(j)/1000)
			}
		}()
	}
	wg.Wait()
	cold := time.Since(start)
	fmt.Printf("Cold start   : %v, %s handles\n", cold, humanize.Comma(int64(c.Len())))

	// ---------------- Hot Path ----------------
	fmt.Println("Running concurrency benchmark...")
	start = time.Now()
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < opsPerG; j++ {
				_, _ = c.Get(ctx, float64((id+j)%durations)/1000)
			}
		}(i)
	}
	wg.Wait()

	duration := time.Since(start)
	totalOps := goroutines * opsPerG

	fmt.Println("\n================ RESULTS =================")
	fmt.Printf("Total Operations : %s\n", humanize.Comma(int64(totalOps)))
	fmt.Printf("Total Time       : %v\n", duration)
	fmt.Printf("Throughput       : %s ops/sec\n", humanize.Commaf(float64(totalOps)/duration.Seconds()))
	fmt.Printf("Handles          : %s\n", humanize.Comma(int64(c.Len())))
	fmt.Println("=========================================")
	fmt.Println(counters.Snapshot())
}
