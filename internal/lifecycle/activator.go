package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"auction-lifecycle/internal/lifecycleerrors"
	model "auction-lifecycle/internal/models"
	"auction-lifecycle/internal/repository"
	"auction-lifecycle/utils"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Activator promotes SCHEDULED auctions whose start time has passed to ACTIVE
type Activator struct {
	repo     repository.LifecycleDB
	opts     Options
	counters counters
}

// NewActivator creates a new Activator instance
func NewActivator(repo repository.LifecycleDB, opts Options) *Activator {
	return &Activator{
		repo:     repo,
		opts:     opts.withDefaults(),
		counters: newCounters(),
	}
}

// Activate moves every auction due to start at now to ACTIVE. Only the status changes.
// Failures are collected per auction; an error is returned only when the due auctions
// cannot be listed.
func (a *Activator) Activate(ctx context.Context, now time.Time) (ActivationResult, error) {
	ctx, span := tracer.Start(ctx, "lifecycle.activate")
	defer span.End()

	var result ActivationResult
	due, err := forEachDuePage(ctx, now, a.opts.BatchSize, a.repo.ListAuctionsDueToStart, startTimeOf, func(page []model.Auction) {
		errs := processEach(ctx, page, a.opts.Workers, a.opts.AuctionTimeout, func(ctx context.Context, auction model.Auction) error {
			return a.activateOne(ctx, auction, now)
		})
		for i, auction := range page {
			a.record(ctx, &result, auction, errs[i])
		}
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list due auctions")
		return ActivationResult{}, fmt.Errorf("activator: failed to list auctions due to start: %w", err)
	}
	span.SetAttributes(
		attribute.Int("auctions.due", due),
		attribute.Int("auctions.activated", len(result.Activated)),
		attribute.Int("auctions.failed", len(result.Errors)),
	)
	return result, nil
}

func (a *Activator) record(ctx context.Context, result *ActivationResult, auction model.Auction, err error) {
	switch {
	case err == nil:
		result.Activated = append(result.Activated, auction.ID)
	case errors.Is(err, lifecycleerrors.ErrAlreadyClaimed):
		utils.Debug("activator: auction already claimed, skipping", map[string]any{"auction_id": auction.ID})
	default:
		result.Errors = append(result.Errors, AuctionError{AuctionID: auction.ID, Error: err.Error()})
		a.counters.failed.Add(ctx, 1, phaseAttr("activate"))
		utils.Error("activator: failed to activate auction", map[string]any{
			"auction_id": auction.ID,
			"error":      err.Error(),
		})
	}
}

func (a *Activator) activateOne(ctx context.Context, auction model.Auction, now time.Time) error {
	ctx, span := tracer.Start(ctx, "lifecycle.activate_auction",
		trace.WithAttributes(attribute.String("auction.id", auction.ID)))
	defer span.End()

	if err := auction.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid schedule")
		return err
	}
	if !auction.Status.CanTransitionTo(model.AuctionStatusActive) {
		return fmt.Errorf("auction %s is %s: %w", auction.ID, auction.Status, lifecycleerrors.ErrInvalidTransition)
	}

	if err := a.repo.ActivateAuction(ctx, auction.ID, now); err != nil {
		if !errors.Is(err, lifecycleerrors.ErrAlreadyClaimed) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "activate auction")
		}
		return err
	}

	a.counters.activated.Add(ctx, 1)
	utils.Info("activator: auction activated", map[string]any{
		"auction_id": auction.ID,
		"item_id":    auction.ItemID,
		"start_time": auction.StartTime.UTC().Format(time.RFC3339),
	})
	return nil
}
