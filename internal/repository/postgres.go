package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"auction-lifecycle/internal/lifecycleerrors"
	model "auction-lifecycle/internal/models"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const defaultPingTimeout = 5 * time.Second

// PostgresConfig holds the connection settings for PostgresRepo
type PostgresConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// PostgresRepo implements LifecycleDB on PostgreSQL through bun
type PostgresRepo struct {
	db *bun.DB
}

// NewPostgresRepo opens a connection pool and verifies the database is reachable
func NewPostgresRepo(ctx context.Context, cfg PostgresConfig) (*PostgresRepo, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))

	if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqldb.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	repo := &PostgresRepo{db: bun.NewDB(sqldb, pgdialect.New())}

	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	if err := repo.Ping(pingCtx); err != nil {
		sqldb.Close()
		return nil, err
	}
	return repo, nil
}

// NewPostgresRepoFromDB wraps an existing bun.DB
func NewPostgresRepoFromDB(db *bun.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

// DB exposes the underlying bun.DB
func (r *PostgresRepo) DB() *bun.DB {
	return r.db
}

// Close closes the connection pool
func (r *PostgresRepo) Close() error {
	return r.db.Close()
}

// InitSchema creates the tables and indexes used by the lifecycle when missing
func (r *PostgresRepo) InitSchema(ctx context.Context) error {
	tables := []any{
		(*model.Item)(nil),
		(*model.Auction)(nil),
		(*model.Bid)(nil),
		(*model.Notification)(nil),
	}
	for _, table := range tables {
		if _, err := r.db.NewCreateTable().Model(table).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []struct {
		model   any
		name    string
		columns []string
	}{
		{(*model.Auction)(nil), "auctions_status_start_time_idx", []string{"status", "start_time"}},
		{(*model.Auction)(nil), "auctions_status_end_time_idx", []string{"status", "end_time"}},
		{(*model.Bid)(nil), "bids_auction_id_amount_idx", []string{"auction_id", "amount DESC", "created_at"}},
		{(*model.Notification)(nil), "notifications_user_id_idx", []string{"user_id", "is_read"}},
	}
	for _, idx := range indexes {
		q := r.db.NewCreateIndex().Model(idx.model).Index(idx.name).IfNotExists()
		for _, col := range idx.columns {
			q = q.ColumnExpr(col)
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}
	return nil
}

func (r *PostgresRepo) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w: %v", lifecycleerrors.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *PostgresRepo) ListAuctionsDueToStart(ctx context.Context, now time.Time, after *Cursor, limit int) ([]model.Auction, error) {
	var auctions []model.Auction
	q := r.db.NewSelect().
		Model(&auctions).
		Where("status = ?", model.AuctionStatusScheduled).
		Where("start_time <= ?", now).
		Order("start_time ASC", "id ASC")
	if after != nil {
		q = q.Where("(start_time, id) > (?, ?)", after.At, after.ID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list auctions due to start: %w", err)
	}
	return auctions, nil
}

func (r *PostgresRepo) ListAuctionsDueToEnd(ctx context.Context, now time.Time, after *Cursor, limit int) ([]model.Auction, error) {
	var auctions []model.Auction
	q := r.db.NewSelect().
		Model(&auctions).
		Where("status = ?", model.AuctionStatusActive).
		Where("end_time <= ?", now).
		Order("end_time ASC", "id ASC")
	if after != nil {
		q = q.Where("(end_time, id) > (?, ?)", after.At, after.ID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list auctions due to end: %w", err)
	}
	return auctions, nil
}

func (r *PostgresRepo) ActivateAuction(ctx context.Context, auctionID string, now time.Time) error {
	result, err := r.db.NewUpdate().
		Model((*model.Auction)(nil)).
		Set("status = ?", model.AuctionStatusActive).
		Set("updated_at = ?", now).
		Where("id = ?", auctionID).
		Where("status = ?", model.AuctionStatusScheduled).
		Where("start_time <= ?", now).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to activate auction %s: %w", auctionID, err)
	}
	return expectOneRow(result, auctionID)
}

func (r *PostgresRepo) GetAuction(ctx context.Context, auctionID string) (model.Auction, error) {
	var auction model.Auction
	err := r.db.NewSelect().Model(&auction).Where("id = ?", auctionID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, lifecycleerrors.ErrAuctionNotFound)
	}
	if err != nil {
		return model.Auction{}, fmt.Errorf("failed to get auction %s: %w", auctionID, err)
	}
	return auction, nil
}

func (r *PostgresRepo) GetLeadingBid(ctx context.Context, auctionID string) (model.Bid, error) {
	if _, err := r.GetAuction(ctx, auctionID); err != nil {
		return model.Bid{}, err
	}

	var bid model.Bid
	err := r.db.NewSelect().
		Model(&bid).
		Where("auction_id = ?", auctionID).
		Order("amount DESC", "created_at ASC", "id ASC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Bid{}, fmt.Errorf("get leading bid for auction %s: %w", auctionID, lifecycleerrors.ErrNoBids)
	}
	if err != nil {
		return model.Bid{}, fmt.Errorf("failed to get leading bid for auction %s: %w", auctionID, err)
	}
	return bid, nil
}

func (r *PostgresRepo) RunInTx(ctx context.Context, fn func(ctx context.Context, tx LifecycleTx) error) error {
	return r.db.RunInTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &postgresTx{tx: tx})
	})
}

// postgresTx implements LifecycleTx on a bun transaction
type postgresTx struct {
	tx bun.Tx
}

func (t *postgresTx) EligibleBids(ctx context.Context, auctionID string, cutoff time.Time) ([]model.Bid, error) {
	var bids []model.Bid
	err := t.tx.NewSelect().
		Model(&bids).
		Where("auction_id = ?", auctionID).
		Where("created_at <= ?", cutoff).
		Order("amount DESC", "created_at ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get bids for auction %s: %w", auctionID, err)
	}
	return bids, nil
}

// ClaimEnding relies on the row lock taken by UPDATE: a concurrent pass blocks on the same row
// and, once the first commits, re-evaluates the status predicate and matches nothing.
func (t *postgresTx) ClaimEnding(ctx context.Context, auctionID string, leading decimal.NullDecimal, now time.Time) error {
	q := t.tx.NewUpdate().
		Model((*model.Auction)(nil)).
		Set("status = ?", model.AuctionStatusEnded).
		Set("updated_at = ?", now).
		Where("id = ?", auctionID).
		Where("status = ?", model.AuctionStatusActive)
	if leading.Valid {
		q = q.Set("current_bid = ?", leading.Decimal)
	}

	result, err := q.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to end auction %s: %w", auctionID, err)
	}
	return expectOneRow(result, auctionID)
}

func (t *postgresTx) GetItemForUpdate(ctx context.Context, itemID string) (model.Item, error) {
	var item model.Item
	err := t.tx.NewSelect().
		Model(&item).
		Where("id = ?", itemID).
		For("UPDATE").
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Item{}, fmt.Errorf("get item %s: %w", itemID, lifecycleerrors.ErrItemNotFound)
	}
	if err != nil {
		return model.Item{}, fmt.Errorf("failed to get item %s: %w", itemID, err)
	}
	return item, nil
}

func (t *postgresTx) UpdateItem(ctx context.Context, item model.Item) error {
	result, err := t.tx.NewUpdate().
		Model(&item).
		Column("status", "owner_id", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update item %s: %w", item.ID, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update item %s: %w", item.ID, lifecycleerrors.ErrItemNotFound)
	}
	return nil
}

func (t *postgresTx) InsertNotification(ctx context.Context, n model.Notification) error {
	if _, err := t.tx.NewInsert().Model(&n).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert notification for user %s: %w", n.UserID, err)
	}
	return nil
}

// expectOneRow turns a conditional update that matched nothing into ErrAlreadyClaimed
func expectOneRow(result sql.Result, auctionID string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("auction %s: %w", auctionID, lifecycleerrors.ErrAlreadyClaimed)
	}
	return nil
}
