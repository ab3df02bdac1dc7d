package lifecycle

import (
	model "auction-lifecycle/internal/models"
)

// SelectWinningBid returns the leading bid among bids: the greatest amount, the earliest
// among equal amounts. It reports false when there are no bids. The result does not depend
// on the order of bids.
func SelectWinningBid(bids []model.Bid) (model.Bid, bool) {
	if len(bids) == 0 {
		return model.Bid{}, false
	}

	winning := bids[0]
	for _, b := range bids[1:] {
		if b.Outranks(winning) {
			winning = b
		}
	}
	return winning, true
}
