package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"auction-lifecycle/internal/lifecycleerrors"
	model "auction-lifecycle/internal/models"
	"auction-lifecycle/internal/notify"
	"auction-lifecycle/internal/repository"
	"auction-lifecycle/utils"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Orchestrator is the single entry point of a lifecycle pass
type Orchestrator struct {
	repo      repository.LifecycleDB
	activator *Activator
	finalizer *Finalizer
	opts      Options
}

// NewOrchestrator creates a new Orchestrator instance
func NewOrchestrator(repo repository.LifecycleDB, publisher notify.Publisher, opts Options) *Orchestrator {
	opts = opts.withDefaults()
	return &Orchestrator{
		repo:      repo,
		activator: NewActivator(repo, opts),
		finalizer: NewFinalizer(repo, publisher, opts),
		opts:      opts,
	}
}

// RunPass activates due auctions, then ends due auctions, against a single pass time. Running
// the Activator first lets an auction that is due to both start and end in the same tick go
// through both transitions in one pass.
//
// Per-auction failures are reported, never returned. An error is returned, with no report,
// only when the store cannot be reached.
func (o *Orchestrator) RunPass(ctx context.Context) (PassReport, error) {
	ctx, span := tracer.Start(ctx, "lifecycle.pass")
	defer span.End()

	startedAt := o.opts.Clock()

	if err := o.repo.Ping(ctx); err != nil {
		return PassReport{}, o.fail(span, "ping store", asStoreFailure(err))
	}

	activation, err := o.activator.Activate(ctx, startedAt)
	if err != nil {
		return PassReport{}, o.fail(span, "activation", asStoreFailure(err))
	}

	ending, err := o.finalizer.Finalize(ctx, startedAt)
	if err != nil {
		return PassReport{}, o.fail(span, "finalization", asStoreFailure(err))
	}

	report := newPassReport(startedAt, activation, ending)
	report.DurationMs = o.opts.Clock().Sub(startedAt).Milliseconds()

	span.SetAttributes(
		attribute.Int("pass.activated", report.ActivatedCount),
		attribute.Int("pass.ended", report.EndedCount),
		attribute.Int("pass.errors", len(report.ActivationErrors)+len(report.EndingErrors)),
	)
	utils.Info("lifecycle pass completed", map[string]any{
		"activated":         report.ActivatedCount,
		"activation_errors": len(report.ActivationErrors),
		"ended":             report.EndedCount,
		"ending_errors":     len(report.EndingErrors),
		"duration_ms":       report.DurationMs,
	})
	return report, nil
}

// GetAuction returns a single auction
func (o *Orchestrator) GetAuction(ctx context.Context, auctionID string) (model.Auction, error) {
	if strings.TrimSpace(auctionID) == "" {
		return model.Auction{}, fmt.Errorf("service: %w - empty auction ID", lifecycleerrors.ErrInvalidAuctionID)
	}

	auction, err := o.repo.GetAuction(ctx, auctionID)
	if err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to get auction %s: %w", auctionID, err)
	}
	return auction, nil
}

// GetLeadingBid returns the bid currently leading an auction
func (o *Orchestrator) GetLeadingBid(ctx context.Context, auctionID string) (model.Bid, error) {
	if strings.TrimSpace(auctionID) == "" {
		return model.Bid{}, fmt.Errorf("service: %w - empty auction ID", lifecycleerrors.ErrInvalidAuctionID)
	}

	bid, err := o.repo.GetLeadingBid(ctx, auctionID)
	if err != nil {
		return model.Bid{}, fmt.Errorf("service: failed to get leading bid for auction %s: %w", auctionID, err)
	}
	return bid, nil
}

// Ping reports whether the store is reachable
func (o *Orchestrator) Ping(ctx context.Context) error {
	if err := o.repo.Ping(ctx); err != nil {
		return asStoreFailure(err)
	}
	return nil
}

func (o *Orchestrator) fail(span trace.Span, stage string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, stage)
	utils.Error("lifecycle pass failed", map[string]any{"stage": stage, "error": err.Error()})
	return fmt.Errorf("lifecycle pass: %s: %w", stage, err)
}

// asStoreFailure marks err as a store-level failure unless it already is one or the caller
// gave up on the pass
func asStoreFailure(err error) error {
	if errors.Is(err, lifecycleerrors.ErrStoreUnavailable) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", lifecycleerrors.ErrStoreUnavailable, err)
}
