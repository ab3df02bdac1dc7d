package perftests

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"auction-lifecycle/internal/lifecycle"
	"auction-lifecycle/internal/repository"
)

// LoadScenario defines configurable benchmark parameters
type LoadScenario struct {
	Name           string
	NumAuctions    int
	BidsPerAuction int
	Workers        int
	ReadRatio      int  // out of 10, share of operations that are reads
	Burst          bool // if true, no delay between ops
}

// OperationMetrics collects latencies safely
type OperationMetrics struct {
	mu        sync.Mutex
	latencies []time.Duration
}

func (om *OperationMetrics) Record(d time.Duration) {
	om.mu.Lock()
	defer om.mu.Unlock()
	om.latencies = append(om.latencies, d)
}

func (om *OperationMetrics) Stats() (min, max, avg, p95, p99 time.Duration) {
	om.mu.Lock()
	defer om.mu.Unlock()
	if len(om.latencies) == 0 {
		return
	}
	latencies := append([]time.Duration(nil), om.latencies...)
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	min = latencies[0]
	max = latencies[len(latencies)-1]

	var total time.Duration
	for _, d := range latencies {
		total += d
	}
	avg = total / time.Duration(len(latencies))
	p95 = latencies[int(0.95*float64(len(latencies)))]
	p99 = latencies[int(0.99*float64(len(latencies)))]
	return
}

// Benchmark_Load_LifecycleTrigger runs overlapping passes against concurrent readers
func Benchmark_Load_LifecycleTrigger(b *testing.B) {
	scenarios := []LoadScenario{
		{"Overlapping-Passes", 500, 10, 4, 0, true},
		{"Mixed-Workload", 300, 20, 4, 7, false},
		{"ReadHeavy", 200, 5, 2, 9, false},
		{"Single-Worker-Burst", 500, 10, 1, 3, true},
	}

	for _, s := range scenarios {
		b.Run(s.Name, func(b *testing.B) {
			runParallelScenario(b, s)
		})
	}
}

func runParallelScenario(b *testing.B, s LoadScenario) {
	b.ReportAllocs()

	repo := repository.NewMemoryRepo()
	seedDueAuctions(repo, s.NumAuctions, s.BidsPerAuction)
	orchestrator := lifecycle.NewOrchestrator(repo, nil, lifecycle.Options{
		Workers: s.Workers,
		Clock:   func() time.Time { return passTime },
	})

	var totalOps, passes, failedPasses, ended, activated, totalReads int64
	metrics := &OperationMetrics{}

	start := time.Now()

	b.RunParallel(func(pb *testing.PB) {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))

		for pb.Next() {
			opStart := time.Now()
			if rnd.Intn(10) < s.ReadRatio {
				auctionID := fmt.Sprintf("ending_%d", rnd.Intn(s.NumAuctions))
				if _, err := orchestrator.GetLeadingBid(context.Background(), auctionID); err != nil {
					b.Logf("ignored read error: %v", err)
				}
				atomic.AddInt64(&totalReads, 1)
			} else {
				report, err := orchestrator.RunPass(context.Background())
				if err != nil {
					atomic.AddInt64(&failedPasses, 1)
				} else {
					atomic.AddInt64(&ended, int64(report.EndedCount))
					atomic.AddInt64(&activated, int64(report.ActivatedCount))
				}
				atomic.AddInt64(&passes, 1)
			}

			metrics.Record(time.Since(opStart))
			atomic.AddInt64(&totalOps, 1)

			if !s.Burst {
				time.Sleep(time.Millisecond)
			}
		}
	})

	// overlapping passes must never process an auction twice
	if ended > int64(s.NumAuctions) || activated > int64(s.NumAuctions) {
		b.Fatalf("double processing: ended=%d activated=%d for %d auctions", ended, activated, s.NumAuctions)
	}
	if repo.NotificationCount() > s.NumAuctions {
		b.Fatalf("duplicate notifications: %d", repo.NotificationCount())
	}

	elapsed := time.Since(start)
	throughput := float64(totalOps) / elapsed.Seconds()
	min, max, avg, p95, p99 := metrics.Stats()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	b.Logf(
		"Scenario: %s | Auctions: %d | Total Ops: %d | Passes: %d | Failed Passes: %d | Ended: %d | Activated: %d | Reads: %d | Elapsed: %s | Throughput: %.2f ops/sec | Latency(us) min: %.2f avg: %.2f max: %.2f p95: %.2f p99: %.2f | Memory Alloc: %.2f MB",
		s.Name, s.NumAuctions, totalOps, passes, failedPasses, ended, activated, totalReads, elapsed,
		throughput,
		float64(min.Microseconds()), float64(avg.Microseconds()), float64(max.Microseconds()),
		float64(p95.Microseconds()), float64(p99.Microseconds()),
		float64(mem.Alloc)/1024/1024,
	)
}
