package lifecycleerrors

import "errors"

// Store-level errors. ErrStoreUnavailable is fatal for a whole pass.
var (
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrAuctionNotFound  = errors.New("auction not found")
	ErrItemNotFound     = errors.New("item not found")
	ErrNoBids           = errors.New("no bids found for auction")
)

// lifecycle errors
var (
	// ErrAlreadyClaimed means a conditional update matched no row because another pass
	// already moved the auction on. Callers skip the auction silently.
	ErrAlreadyClaimed    = errors.New("auction already claimed by another pass")
	ErrInvalidTransition = errors.New("invalid auction status transition")
	ErrInvalidSchedule   = errors.New("auction start time is after end time")
	ErrInvalidAuctionID  = errors.New("invalid auction id")
	ErrItemNotInAuction  = errors.New("item is not in auction")
)

// trigger errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("rate limit exceeded")
)
