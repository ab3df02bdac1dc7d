package lifecycle

import (
	"context"
	"time"

	model "auction-lifecycle/internal/models"
	"auction-lifecycle/internal/repository"

	"golang.org/x/sync/errgroup"
)

// AuctionError records why a single auction could not be processed
type AuctionError struct {
	AuctionID string `json:"auctionId"`
	Error     string `json:"error"`
}

// ActivationResult is the outcome of one Activator run
type ActivationResult struct {
	Activated []string
	Errors    []AuctionError
}

// EndingResult is the outcome of one Finalizer run
type EndingResult struct {
	Ended  []string
	Errors []AuctionError
}

// PassReport is the combined outcome of one lifecycle pass. Lists are never nil so they
// encode as [] rather than null.
type PassReport struct {
	Activated        []string       `json:"activated"`
	ActivationErrors []AuctionError `json:"activationErrors"`
	Ended            []string       `json:"ended"`
	EndingErrors     []AuctionError `json:"endingErrors"`
	ActivatedCount   int            `json:"activatedCount"`
	EndedCount       int            `json:"endedCount"`
	StartedAt        time.Time      `json:"startedAt"`
	DurationMs       int64          `json:"durationMs"`
}

func newPassReport(startedAt time.Time, act ActivationResult, end EndingResult) PassReport {
	report := PassReport{
		Activated:        nonNil(act.Activated),
		ActivationErrors: nonNilErrors(act.Errors),
		Ended:            nonNil(end.Ended),
		EndingErrors:     nonNilErrors(end.Errors),
		StartedAt:        startedAt,
	}
	report.ActivatedCount = len(report.Activated)
	report.EndedCount = len(report.Ended)
	return report
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

func nonNilErrors(errs []AuctionError) []AuctionError {
	if errs == nil {
		return []AuctionError{}
	}
	return errs
}

// processEach runs fn for every auction with at most workers in flight. Each call gets its
// own timeout. The returned slice holds fn's error at the auction's index, so callers can
// report in selection order; one failure never stops the others.
func processEach(ctx context.Context, auctions []model.Auction, workers int, timeout time.Duration, fn func(ctx context.Context, a model.Auction) error) []error {
	errs := make([]error, len(auctions))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, a := range auctions {
		g.Go(func() error {
			actx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			errs[i] = fn(actx, a)
			return nil
		})
	}
	_ = g.Wait()

	return errs
}

type listDueFunc func(ctx context.Context, now time.Time, after *repository.Cursor, limit int) ([]model.Auction, error)

// forEachDuePage hands fn the auctions due at now, one page of at most batchSize at a time
// (batchSize 0 reads them in one page). Pages are keyed on (dueAt, id), so auctions a failed
// attempt leaves due never keep later pages from being read. It returns how many auctions fn saw.
func forEachDuePage(ctx context.Context, now time.Time, batchSize int, list listDueFunc, dueAt func(model.Auction) time.Time, fn func(page []model.Auction)) (int, error) {
	var (
		after *repository.Cursor
		seen  int
	)
	for {
		page, err := list(ctx, now, after, batchSize)
		if err != nil {
			return seen, err
		}
		if len(page) > 0 {
			fn(page)
			seen += len(page)
		}
		if batchSize <= 0 || len(page) < batchSize {
			return seen, nil
		}
		last := page[len(page)-1]
		after = &repository.Cursor{At: dueAt(last), ID: last.ID}
	}
}

func startTimeOf(a model.Auction) time.Time { return a.StartTime }

func endTimeOf(a model.Auction) time.Time { return a.EndTime }
