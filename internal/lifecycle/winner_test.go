package lifecycle

import (
	"fmt"
	"testing"
	"time"

	model "auction-lifecycle/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestSelectWinningBid(t *testing.T) {
	t.Parallel()

	t1 := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)
	t3 := t2.Add(time.Minute)
	bid := func(id string, amount int64, at time.Time) model.Bid {
		return model.Bid{ID: id, AuctionID: "a1", UserID: "user-" + id, Amount: decimal.NewFromInt(amount), CreatedAt: at}
	}

	tests := []struct {
		name    string
		bids    []model.Bid
		wantID  string
		wantAny bool
	}{
		{name: "no_bids", bids: nil},
		{name: "single_bid", bids: []model.Bid{bid("b1", 100, t1)}, wantID: "b1", wantAny: true},
		{
			name:    "tie_goes_to_earliest",
			bids:    []model.Bid{bid("b1", 100, t1), bid("b3", 150, t3), bid("b2", 150, t2)},
			wantID:  "b2",
			wantAny: true,
		},
		{
			name:    "later_higher_bid_wins",
			bids:    []model.Bid{bid("b1", 500, t1), bid("b2", 501, t3)},
			wantID:  "b2",
			wantAny: true,
		},
		{
			name: "cents_matter",
			bids: []model.Bid{
				{ID: "b1", Amount: decimal.RequireFromString("100.10"), CreatedAt: t1},
				{ID: "b2", Amount: decimal.RequireFromString("100.11"), CreatedAt: t2},
			},
			wantID:  "b2",
			wantAny: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := SelectWinningBid(tc.bids)
			require.Equal(t, tc.wantAny, ok)
			if tc.wantAny {
				require.Equal(t, tc.wantID, got.ID)
			}
		})
	}
}

func bidGenerator() *rapid.Generator[model.Bid] {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return rapid.Custom(func(t *rapid.T) model.Bid {
		return model.Bid{
			// small ranges force ties on amount and time
			ID:        fmt.Sprintf("b%d", rapid.IntRange(0, 1000).Draw(t, "id")),
			UserID:    fmt.Sprintf("u%d", rapid.IntRange(0, 5).Draw(t, "user")),
			Amount:    decimal.New(rapid.Int64Range(1, 20).Draw(t, "amount"), -1),
			CreatedAt: base.Add(time.Duration(rapid.IntRange(0, 10).Draw(t, "offset")) * time.Second),
		}
	})
}

func TestSelectWinningBid_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		bids := rapid.SliceOfN(bidGenerator(), 1, 30).Draw(t, "bids")

		winning, ok := SelectWinningBid(bids)
		if !ok {
			t.Fatalf("expected a winner for %d bids", len(bids))
		}

		for _, b := range bids {
			if c := b.Amount.Cmp(winning.Amount); c > 0 {
				t.Fatalf("bid %s (%s) beats winner %s (%s)", b.ID, b.Amount, winning.ID, winning.Amount)
			} else if c == 0 && b.CreatedAt.Before(winning.CreatedAt) {
				t.Fatalf("earlier bid %s at equal amount should win over %s", b.ID, winning.ID)
			}
		}

		shuffled := rapid.Permutation(bids).Draw(t, "shuffled")
		again, _ := SelectWinningBid(shuffled)
		if again.ID != winning.ID || !again.Amount.Equal(winning.Amount) || !again.CreatedAt.Equal(winning.CreatedAt) {
			t.Fatalf("winner depends on order: %+v vs %+v", winning, again)
		}
	})
}
