package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"auction-lifecycle/internal/lifecycleerrors"
	model "auction-lifecycle/internal/models"
	"auction-lifecycle/internal/notify"
	"auction-lifecycle/internal/repository"
	"auction-lifecycle/utils"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Outcome describes how an ended auction was settled
type Outcome string

const (
	// OutcomeSold: a leading bid existed; the item went to the winner
	OutcomeSold Outcome = "sold"
	// OutcomeNoSale: no eligible bid; the item returned to the valued pool
	OutcomeNoSale Outcome = "no_sale"
	// OutcomePractice: practice auction; the item returned to the valued pool regardless of bids
	OutcomePractice Outcome = "practice"
)

// Settlement is what one committed auction ending produced
type Settlement struct {
	AuctionID     string
	Outcome       Outcome
	WinningBid    *model.Bid
	Notifications []model.Notification
}

// Finalizer ends ACTIVE auctions whose end time has passed and settles item and notifications
type Finalizer struct {
	repo      repository.LifecycleDB
	publisher notify.Publisher
	opts      Options
	counters  counters
}

// NewFinalizer creates a new Finalizer instance. A nil publisher disables notification fan-out.
func NewFinalizer(repo repository.LifecycleDB, publisher notify.Publisher, opts Options) *Finalizer {
	if publisher == nil {
		publisher = notify.NopPublisher{}
	}
	return &Finalizer{
		repo:      repo,
		publisher: publisher,
		opts:      opts.withDefaults(),
		counters:  newCounters(),
	}
}

// Finalize ends every auction due to end at now. Failures are collected per auction; an
// error is returned only when the due auctions cannot be listed.
func (f *Finalizer) Finalize(ctx context.Context, now time.Time) (EndingResult, error) {
	ctx, span := tracer.Start(ctx, "lifecycle.finalize")
	defer span.End()

	var result EndingResult
	due, err := forEachDuePage(ctx, now, f.opts.BatchSize, f.repo.ListAuctionsDueToEnd, endTimeOf, func(page []model.Auction) {
		errs := processEach(ctx, page, f.opts.Workers, f.opts.AuctionTimeout, func(actx context.Context, auction model.Auction) error {
			settlement, err := f.Settle(actx, auction, now)
			if err != nil {
				return err
			}
			// published on the pass context; the per-auction deadline covers only the settle
			f.publish(ctx, settlement.Notifications)
			return nil
		})
		for i, auction := range page {
			f.record(ctx, &result, auction, errs[i])
		}
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list due auctions")
		return EndingResult{}, fmt.Errorf("finalizer: failed to list auctions due to end: %w", err)
	}
	span.SetAttributes(
		attribute.Int("auctions.due", due),
		attribute.Int("auctions.ended", len(result.Ended)),
		attribute.Int("auctions.failed", len(result.Errors)),
	)
	return result, nil
}

func (f *Finalizer) record(ctx context.Context, result *EndingResult, auction model.Auction, err error) {
	switch {
	case err == nil:
		result.Ended = append(result.Ended, auction.ID)
	case errors.Is(err, lifecycleerrors.ErrAlreadyClaimed):
		utils.Debug("finalizer: auction already claimed, skipping", map[string]any{"auction_id": auction.ID})
	default:
		result.Errors = append(result.Errors, AuctionError{AuctionID: auction.ID, Error: err.Error()})
		f.counters.failed.Add(ctx, 1, phaseAttr("finalize"))
		utils.Error("finalizer: failed to end auction", map[string]any{
			"auction_id": auction.ID,
			"item_id":    auction.ItemID,
			"error":      err.Error(),
		})
	}
}

// Settle ends a single auction in one transaction: it claims the auction, moves the item to
// SOLD or back to VALUED and, for a real sale, notifies the winner. Nothing is written when any
// step fails. ErrAlreadyClaimed means another pass ended the auction first.
func (f *Finalizer) Settle(ctx context.Context, auction model.Auction, now time.Time) (Settlement, error) {
	ctx, span := tracer.Start(ctx, "lifecycle.settle_auction",
		trace.WithAttributes(
			attribute.String("auction.id", auction.ID),
			attribute.Bool("auction.practice", auction.IsPractice),
		))
	defer span.End()

	var settlement Settlement
	err := f.repo.RunInTx(ctx, func(ctx context.Context, tx repository.LifecycleTx) error {
		// RunInTx implementations may retry fn, so start from a clean settlement every time
		settlement = Settlement{AuctionID: auction.ID}

		bids, err := tx.EligibleBids(ctx, auction.ID, auction.EndTime)
		if err != nil {
			return err
		}
		winning, hasWinner := SelectWinningBid(bids)

		var leading decimal.NullDecimal
		if hasWinner {
			leading = decimal.NewNullDecimal(winning.Amount)
		}
		if err := tx.ClaimEnding(ctx, auction.ID, leading, now); err != nil {
			return err
		}

		item, err := tx.GetItemForUpdate(ctx, auction.ItemID)
		if err != nil {
			return err
		}
		if item.Status != model.ItemStatusInAuction {
			return fmt.Errorf("item %s is %s: %w", item.ID, item.Status, lifecycleerrors.ErrItemNotInAuction)
		}
		item.UpdatedAt = now

		switch {
		case hasWinner && !auction.IsPractice:
			owner := winning.UserID
			item.Status = model.ItemStatusSold
			item.OwnerID = &owner

			n := wonNotification(auction, item, winning, now)
			if err := tx.InsertNotification(ctx, n); err != nil {
				return err
			}
			settlement.Outcome = OutcomeSold
			settlement.WinningBid = &winning
			settlement.Notifications = []model.Notification{n}
		case auction.IsPractice:
			item.Status = model.ItemStatusValued
			settlement.Outcome = OutcomePractice
		default:
			item.Status = model.ItemStatusValued
			settlement.Outcome = OutcomeNoSale
		}

		return tx.UpdateItem(ctx, item)
	})
	if err != nil {
		if !errors.Is(err, lifecycleerrors.ErrAlreadyClaimed) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "settle auction")
		}
		return Settlement{}, fmt.Errorf("end auction %s: %w", auction.ID, err)
	}

	span.SetAttributes(attribute.String("auction.outcome", string(settlement.Outcome)))
	f.counters.ended.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", string(settlement.Outcome))))

	fields := map[string]any{
		"auction_id": auction.ID,
		"item_id":    auction.ItemID,
		"outcome":    string(settlement.Outcome),
	}
	if settlement.WinningBid != nil {
		fields["winner_id"] = settlement.WinningBid.UserID
		fields["amount"] = settlement.WinningBid.Amount.StringFixed(2)
	}
	utils.Info("finalizer: auction ended", fields)

	return settlement, nil
}

// publish hands committed notifications to the publisher. Failures are logged only.
func (f *Finalizer) publish(ctx context.Context, notifications []model.Notification) {
	for _, n := range notifications {
		if err := f.publisher.Publish(ctx, n); err != nil {
			utils.Warn("finalizer: failed to publish notification", map[string]any{
				"notification_id": n.ID,
				"user_id":         n.UserID,
				"error":           err.Error(),
			})
		}
	}
}

func wonNotification(auction model.Auction, item model.Item, winning model.Bid, now time.Time) model.Notification {
	name := item.Name
	if name == "" {
		name = "item " + item.ID
	}
	return model.Notification{
		ID:        utils.GenerateID(),
		UserID:    winning.UserID,
		Type:      model.NotificationTypeWon,
		Message:   fmt.Sprintf("Congratulations! You won the auction for %s with a bid of $%s.", name, winning.Amount.StringFixed(2)),
		Link:      "/auctions/" + auction.ID,
		CreatedAt: now,
	}
}
