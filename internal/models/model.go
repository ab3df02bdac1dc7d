package models

import (
	"fmt"
	"time"

	"auction-lifecycle/internal/lifecycleerrors"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// AuctionStatus is the lifecycle state of an auction
type AuctionStatus string

const (
	AuctionStatusScheduled AuctionStatus = "SCHEDULED"
	AuctionStatusActive    AuctionStatus = "ACTIVE"
	AuctionStatusEnded     AuctionStatus = "ENDED"
	AuctionStatusCancelled AuctionStatus = "CANCELLED"
)

// CanTransitionTo reports whether the automated lifecycle may move an auction from s to next.
// CANCELLED is only ever set by an administrative action, never by the lifecycle.
func (s AuctionStatus) CanTransitionTo(next AuctionStatus) bool {
	switch s {
	case AuctionStatusScheduled:
		return next == AuctionStatusActive
	case AuctionStatusActive:
		return next == AuctionStatusEnded
	default:
		return false
	}
}

// IsTerminal reports whether no further automated transition exists
func (s AuctionStatus) IsTerminal() bool {
	return s == AuctionStatusEnded || s == AuctionStatusCancelled
}

// ItemStatus is the state of a pawned or listed item
type ItemStatus string

const (
	ItemStatusPendingValuation ItemStatus = "PENDING_VALUATION"
	ItemStatusValued           ItemStatus = "VALUED"
	ItemStatusInAuction        ItemStatus = "IN_AUCTION"
	ItemStatusSold             ItemStatus = "SOLD"
	ItemStatusOverdue          ItemStatus = "OVERDUE"
	ItemStatusRedeemed         ItemStatus = "REDEEMED"
)

// NotificationType tags a notification for the read path
type NotificationType string

const (
	NotificationTypeOutbid       NotificationType = "OUTBID"
	NotificationTypeWon          NotificationType = "WON"
	NotificationTypeAuctionEnded NotificationType = "AUCTION_ENDED"
)

// Auction represents one auction of a single item
type Auction struct {
	bun.BaseModel `bun:"table:auctions,alias:a"`

	ID         string              `bun:"id,pk" json:"id"`
	ItemID     string              `bun:"item_id,notnull" json:"item_id"`
	StartPrice decimal.Decimal     `bun:"start_price,type:numeric(14,2),notnull" json:"start_price"`
	CurrentBid decimal.NullDecimal `bun:"current_bid,type:numeric(14,2)" json:"current_bid"`
	StartTime  time.Time           `bun:"start_time,notnull" json:"start_time"`
	EndTime    time.Time           `bun:"end_time,notnull" json:"end_time"`
	Status     AuctionStatus       `bun:"status,notnull" json:"status"`
	IsPractice bool                `bun:"is_practice,notnull,default:false" json:"is_practice"`
	CreatedAt  time.Time           `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time           `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// Item represents an item held by the shop, pawned or listed for auction
type Item struct {
	bun.BaseModel `bun:"table:items,alias:i"`

	ID        string          `bun:"id,pk" json:"id"`
	Name      string          `bun:"name,notnull" json:"name"`
	Valuation decimal.Decimal `bun:"valuation,type:numeric(14,2),notnull" json:"valuation"`
	Status    ItemStatus      `bun:"status,notnull" json:"status"`
	OwnerID   *string         `bun:"owner_id" json:"owner_id,omitempty"`
	UpdatedAt time.Time       `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// Bid represents a user's bid on an auction
type Bid struct {
	bun.BaseModel `bun:"table:bids,alias:b"`

	ID        string          `bun:"id,pk" json:"bid_id"`
	AuctionID string          `bun:"auction_id,notnull" json:"auction_id"`
	UserID    string          `bun:"user_id,notnull" json:"user_id"`
	Amount    decimal.Decimal `bun:"amount,type:numeric(14,2),notnull" json:"amount"`
	CreatedAt time.Time       `bun:"created_at,notnull" json:"created_at"`
}

// Notification is a message for a user produced by a lifecycle transition
type Notification struct {
	bun.BaseModel `bun:"table:notifications,alias:n"`

	ID        string           `bun:"id,pk" json:"id"`
	UserID    string           `bun:"user_id,notnull" json:"user_id"`
	Type      NotificationType `bun:"type,notnull" json:"type"`
	Message   string           `bun:"message,notnull" json:"message"`
	IsRead    bool             `bun:"is_read,notnull,default:false" json:"is_read"`
	Link      string           `bun:"link,nullzero" json:"link,omitempty"`
	CreatedAt time.Time        `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// Validate checks the schedule invariant start time <= end time
func (a Auction) Validate() error {
	if a.StartTime.After(a.EndTime) {
		return fmt.Errorf("auction %s: %w", a.ID, lifecycleerrors.ErrInvalidSchedule)
	}
	return nil
}

// Outranks reports whether b leads over o: a greater amount wins, equal amounts go to the
// earlier bid, and equal timestamps fall back to the smaller id so the order is total.
func (b Bid) Outranks(o Bid) bool {
	if c := b.Amount.Cmp(o.Amount); c != 0 {
		return c > 0
	}
	if !b.CreatedAt.Equal(o.CreatedAt) {
		return b.CreatedAt.Before(o.CreatedAt)
	}
	return b.ID < o.ID
}
