package perftests

import (
	"context"
	"fmt"
	"testing"
	"time"

	"auction-lifecycle/internal/lifecycle"
	model "auction-lifecycle/internal/models"
	"auction-lifecycle/internal/repository"

	"github.com/shopspring/decimal"
)

var passTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// seedDueAuctions adds n auctions due to end (half with bidsPerAuction bids) and n due to start
func seedDueAuctions(repo *repository.MemoryRepo, n, bidsPerAuction int) {
	for i := 0; i < n; i++ {
		itemID := fmt.Sprintf("item_%d", i)
		endingID := fmt.Sprintf("ending_%d", i)
		repo.AddItem(model.Item{ID: itemID, Name: itemID, Valuation: decimal.NewFromInt(100), Status: model.ItemStatusInAuction})
		repo.AddAuction(model.Auction{
			ID:         endingID,
			ItemID:     itemID,
			StartPrice: decimal.NewFromInt(50),
			StartTime:  passTime.Add(-time.Hour),
			EndTime:    passTime.Add(-time.Minute),
			Status:     model.AuctionStatusActive,
		})
		if i%2 == 0 {
			for j := 0; j < bidsPerAuction; j++ {
				repo.AddBid(model.Bid{
					ID:        fmt.Sprintf("bid_%d_%d", i, j),
					AuctionID: endingID,
					UserID:    fmt.Sprintf("user_%d", j),
					Amount:    decimal.NewFromInt(int64(50 + j%17)),
					CreatedAt: passTime.Add(-time.Duration(j) * time.Second),
				})
			}
		}
		repo.AddAuction(model.Auction{
			ID:         fmt.Sprintf("starting_%d", i),
			ItemID:     fmt.Sprintf("future_item_%d", i),
			StartPrice: decimal.NewFromInt(50),
			StartTime:  passTime.Add(-time.Second),
			EndTime:    passTime.Add(time.Hour),
			Status:     model.AuctionStatusScheduled,
		})
	}
}

// Benchmark 1: a pass over a fresh batch of due auctions, by worker count
func Benchmark_RunPass_DueBatch(b *testing.B) {
	for _, workers := range []int{1, 4, 16} {
		b.Run(fmt.Sprintf("workers_%d", workers), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				b.StopTimer()
				repo := repository.NewMemoryRepo()
				seedDueAuctions(repo, 200, 20)
				orchestrator := lifecycle.NewOrchestrator(repo, nil, lifecycle.Options{
					Workers: workers,
					Clock:   func() time.Time { return passTime },
				})
				b.StartTimer()

				report, err := orchestrator.RunPass(context.Background())
				if err != nil {
					b.Fatalf("pass failed: %v", err)
				}
				if report.EndedCount != 200 || report.ActivatedCount != 200 {
					b.Fatalf("unexpected report: activated=%d ended=%d", report.ActivatedCount, report.EndedCount)
				}
			}
		})
	}
}

// Benchmark 2: an idle pass, nothing due
func Benchmark_RunPass_Idle(b *testing.B) {
	repo := repository.NewMemoryRepo()
	seedDueAuctions(repo, 500, 5)
	orchestrator := lifecycle.NewOrchestrator(repo, nil, lifecycle.Options{
		Clock: func() time.Time { return passTime },
	})
	if _, err := orchestrator.RunPass(context.Background()); err != nil {
		b.Fatalf("warm-up pass failed: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := orchestrator.RunPass(context.Background()); err != nil {
			b.Fatalf("pass failed: %v", err)
		}
	}
}

// Benchmark 3: winner selection over a large bid list
func Benchmark_SelectWinningBid(b *testing.B) {
	bids := make([]model.Bid, 10000)
	for i := range bids {
		bids[i] = model.Bid{
			ID:        fmt.Sprintf("bid_%d", i),
			Amount:    decimal.NewFromInt(int64(i % 997)),
			CreatedAt: passTime.Add(time.Duration(i) * time.Millisecond),
		}
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, ok := lifecycle.SelectWinningBid(bids); !ok {
			b.Fatal("expected a winner")
		}
	}
}
