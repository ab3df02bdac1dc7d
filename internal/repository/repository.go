package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"auction-lifecycle/internal/lifecycleerrors"
	model "auction-lifecycle/internal/models"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

// LifecycleDB defines the storage operations the auction lifecycle depends on
type LifecycleDB interface {
	Ping(ctx context.Context) error
	// ListAuctionsDueToStart and ListAuctionsDueToEnd return one page of due auctions ordered by
	// (due time, id). A nil after starts from the beginning; limit <= 0 returns every row.
	ListAuctionsDueToStart(ctx context.Context, now time.Time, after *Cursor, limit int) ([]model.Auction, error)
	ListAuctionsDueToEnd(ctx context.Context, now time.Time, after *Cursor, limit int) ([]model.Auction, error)
	// ActivateAuction moves a SCHEDULED auction whose start time has passed to ACTIVE.
	// It returns ErrAlreadyClaimed when the auction is no longer in that state.
	ActivateAuction(ctx context.Context, auctionID string, now time.Time) error
	GetAuction(ctx context.Context, auctionID string) (model.Auction, error)
	GetLeadingBid(ctx context.Context, auctionID string) (model.Bid, error)
	// RunInTx runs fn in a single transaction, committed only when fn returns nil
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx LifecycleTx) error) error
}

// Cursor is the (due time, id) key of the last auction of a page; the next page starts strictly
// after it
type Cursor struct {
	At time.Time
	ID string
}

// After reports whether the key (at, id) sorts strictly after the cursor
func (c *Cursor) After(at time.Time, id string) bool {
	if c == nil {
		return true
	}
	if !at.Equal(c.At) {
		return at.After(c.At)
	}
	return id > c.ID
}

// LifecycleTx holds the writes that settle one auction
type LifecycleTx interface {
	// EligibleBids returns the bids placed no later than cutoff, leading bid first
	EligibleBids(ctx context.Context, auctionID string, cutoff time.Time) ([]model.Bid, error)
	// ClaimEnding moves an ACTIVE auction to ENDED and records the leading amount.
	// It returns ErrAlreadyClaimed when the auction is no longer ACTIVE.
	ClaimEnding(ctx context.Context, auctionID string, leading decimal.NullDecimal, now time.Time) error
	GetItemForUpdate(ctx context.Context, itemID string) (model.Item, error)
	UpdateItem(ctx context.Context, item model.Item) error
	InsertNotification(ctx context.Context, n model.Notification) error
}

// MemoryRepo is a concurrency-safe in-memory implementation of LifecycleDB
type MemoryRepo struct {
	mu            sync.RWMutex
	auctions      map[string]model.Auction // key: auctionID -> value: auction
	items         map[string]model.Item    // key: itemID -> value: item
	bids          map[string][]model.Bid   // key: auctionID -> value: list of bids
	notifications []model.Notification
	unavailable   bool
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		auctions: make(map[string]model.Auction),
		items:    make(map[string]model.Item),
		bids:     make(map[string][]model.Bid),
	}
}

func (r *MemoryRepo) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.unavailable {
		return fmt.Errorf("ping: %w", lifecycleerrors.ErrStoreUnavailable)
	}
	return nil
}

// ListAuctionsDueToStart returns SCHEDULED auctions with start time <= now, earliest first
func (r *MemoryRepo) ListAuctionsDueToStart(ctx context.Context, now time.Time, after *Cursor, limit int) ([]model.Auction, error) {
	return r.listDue(ctx, after, limit, func(a model.Auction) (bool, time.Time) {
		return a.Status == model.AuctionStatusScheduled && !a.StartTime.After(now), a.StartTime
	})
}

// ListAuctionsDueToEnd returns ACTIVE auctions with end time <= now, earliest first
func (r *MemoryRepo) ListAuctionsDueToEnd(ctx context.Context, now time.Time, after *Cursor, limit int) ([]model.Auction, error) {
	return r.listDue(ctx, after, limit, func(a model.Auction) (bool, time.Time) {
		return a.Status == model.AuctionStatusActive && !a.EndTime.After(now), a.EndTime
	})
}

func (r *MemoryRepo) listDue(ctx context.Context, after *Cursor, limit int, due func(model.Auction) (bool, time.Time)) ([]model.Auction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.unavailable {
		return nil, fmt.Errorf("list due auctions: %w", lifecycleerrors.ErrStoreUnavailable)
	}

	type candidate struct {
		auction model.Auction
		at      time.Time
	}
	var candidates []candidate
	for _, a := range r.auctions {
		if ok, at := due(a); ok && after.After(at, a.ID) {
			candidates = append(candidates, candidate{auction: a, at: at})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].at.Equal(candidates[j].at) {
			return candidates[i].at.Before(candidates[j].at)
		}
		return candidates[i].auction.ID < candidates[j].auction.ID
	})
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	auctions := make([]model.Auction, 0, len(candidates))
	for _, c := range candidates {
		auctions = append(auctions, c.auction)
	}
	return auctions, nil
}

// ActivateAuction performs the conditional SCHEDULED -> ACTIVE update
func (r *MemoryRepo) ActivateAuction(ctx context.Context, auctionID string, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.unavailable {
		return fmt.Errorf("activate auction %s: %w", auctionID, lifecycleerrors.ErrStoreUnavailable)
	}

	a, ok := r.auctions[auctionID]
	if !ok {
		return fmt.Errorf("activate auction %s: %w", auctionID, lifecycleerrors.ErrAuctionNotFound)
	}
	if a.Status != model.AuctionStatusScheduled || a.StartTime.After(now) {
		return fmt.Errorf("activate auction %s: %w", auctionID, lifecycleerrors.ErrAlreadyClaimed)
	}
	a.Status = model.AuctionStatusActive
	a.UpdatedAt = now
	r.auctions[auctionID] = a
	return nil
}

// GetAuction returns an auction by id
func (r *MemoryRepo) GetAuction(ctx context.Context, auctionID string) (model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.unavailable {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, lifecycleerrors.ErrStoreUnavailable)
	}

	a, ok := r.auctions[auctionID]
	if !ok {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, lifecycleerrors.ErrAuctionNotFound)
	}
	return a, nil
}

// GetLeadingBid returns the highest bid for an auction, earliest first among equal amounts
func (r *MemoryRepo) GetLeadingBid(ctx context.Context, auctionID string) (model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.unavailable {
		return model.Bid{}, fmt.Errorf("get leading bid for auction %s: %w", auctionID, lifecycleerrors.ErrStoreUnavailable)
	}

	if _, ok := r.auctions[auctionID]; !ok {
		return model.Bid{}, fmt.Errorf("get leading bid for auction %s: %w", auctionID, lifecycleerrors.ErrAuctionNotFound)
	}
	bids := r.bids[auctionID]
	if len(bids) == 0 {
		return model.Bid{}, fmt.Errorf("get leading bid for auction %s: %w", auctionID, lifecycleerrors.ErrNoBids)
	}

	leading := bids[0]
	for _, b := range bids[1:] {
		if b.Outranks(leading) {
			leading = b
		}
	}
	return leading, nil
}

// RunInTx runs fn under the write lock. Writes are staged on the transaction and applied only
// when fn returns nil, so readers never observe a partially settled auction.
func (r *MemoryRepo) RunInTx(ctx context.Context, fn func(ctx context.Context, tx LifecycleTx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.unavailable {
		return fmt.Errorf("begin transaction: %w", lifecycleerrors.ErrStoreUnavailable)
	}

	tx := &memoryTx{
		repo:     r,
		auctions: make(map[string]model.Auction),
		items:    make(map[string]model.Item),
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	for id, a := range tx.auctions {
		r.auctions[id] = a
	}
	for id, item := range tx.items {
		r.items[id] = item
	}
	r.notifications = append(r.notifications, tx.notifications...)
	return nil
}

// memoryTx stages writes for MemoryRepo.RunInTx. The repo lock is held by RunInTx.
type memoryTx struct {
	repo          *MemoryRepo
	auctions      map[string]model.Auction
	items         map[string]model.Item
	notifications []model.Notification
}

func (t *memoryTx) EligibleBids(ctx context.Context, auctionID string, cutoff time.Time) ([]model.Bid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var bids []model.Bid
	for _, b := range t.repo.bids[auctionID] {
		if !b.CreatedAt.After(cutoff) {
			bids = append(bids, b)
		}
	}
	sort.Slice(bids, func(i, j int) bool { return bids[i].Outranks(bids[j]) })
	return bids, nil
}

func (t *memoryTx) ClaimEnding(ctx context.Context, auctionID string, leading decimal.NullDecimal, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a, ok := t.auctions[auctionID]
	if !ok {
		a, ok = t.repo.auctions[auctionID]
	}
	if !ok {
		return fmt.Errorf("claim auction %s: %w", auctionID, lifecycleerrors.ErrAuctionNotFound)
	}
	if a.Status != model.AuctionStatusActive {
		return fmt.Errorf("claim auction %s: %w", auctionID, lifecycleerrors.ErrAlreadyClaimed)
	}
	a.Status = model.AuctionStatusEnded
	if leading.Valid {
		a.CurrentBid = leading
	}
	a.UpdatedAt = now
	t.auctions[auctionID] = a
	return nil
}

func (t *memoryTx) GetItemForUpdate(ctx context.Context, itemID string) (model.Item, error) {
	if err := ctx.Err(); err != nil {
		return model.Item{}, err
	}
	if item, ok := t.items[itemID]; ok {
		return item, nil
	}
	item, ok := t.repo.items[itemID]
	if !ok {
		return model.Item{}, fmt.Errorf("get item %s: %w", itemID, lifecycleerrors.ErrItemNotFound)
	}
	return item, nil
}

func (t *memoryTx) UpdateItem(ctx context.Context, item model.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := t.repo.items[item.ID]; !ok {
		return fmt.Errorf("update item %s: %w", item.ID, lifecycleerrors.ErrItemNotFound)
	}
	t.items[item.ID] = item
	return nil
}

func (t *memoryTx) InsertNotification(ctx context.Context, n model.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.notifications = append(t.notifications, n)
	return nil
}

// The methods below seed and inspect the repository. They are intended for tests and local runs only.

// AddAuction adds or replaces an auction
func (r *MemoryRepo) AddAuction(a model.Auction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.auctions[a.ID] = a
}

// AddItem adds or replaces an item
func (r *MemoryRepo) AddItem(item model.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item
}

// AddBid records a bid for an auction
func (r *MemoryRepo) AddBid(bid model.Bid) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bids[bid.AuctionID] = append(r.bids[bid.AuctionID], bid)
}

// GetItem returns an item by id
func (r *MemoryRepo) GetItem(itemID string) (model.Item, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[itemID]
	return item, ok
}

// Notifications returns the notifications created for a user, oldest first
func (r *MemoryRepo) Notifications(userID string) []model.Notification {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// NotificationCount returns the number of notifications stored
func (r *MemoryRepo) NotificationCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.notifications)
}

// SetUnavailable makes every store operation fail with ErrStoreUnavailable
func (r *MemoryRepo) SetUnavailable(unavailable bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unavailable = unavailable
}
