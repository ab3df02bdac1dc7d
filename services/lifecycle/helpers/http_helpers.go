package helpers

import (
	"errors"
	"net/http"
	"time"

	"auction-lifecycle/internal/lifecycleerrors"
	model "auction-lifecycle/internal/models"
	"auction-lifecycle/utils"
)

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, lifecycleerrors.ErrInvalidAuctionID):
		return http.StatusBadRequest, "invalid auction id"
	case errors.Is(err, lifecycleerrors.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, lifecycleerrors.ErrAuctionNotFound):
		return http.StatusNotFound, "auction not found"
	case errors.Is(err, lifecycleerrors.ErrItemNotFound):
		return http.StatusNotFound, "item not found"
	case errors.Is(err, lifecycleerrors.ErrNoBids):
		return http.StatusNotFound, "no leading bid found"
	case errors.Is(err, lifecycleerrors.ErrRateLimited):
		return http.StatusTooManyRequests, "too many requests"
	case errors.Is(err, lifecycleerrors.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "store unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}

// ToAuctionResponse converts an auction into its wire form
func ToAuctionResponse(a model.Auction) AuctionResponse {
	resp := AuctionResponse{
		AuctionID:  a.ID,
		ItemID:     a.ItemID,
		Status:     string(a.Status),
		StartPrice: a.StartPrice.StringFixed(2),
		StartTime:  a.StartTime.UTC().Format(time.RFC3339),
		EndTime:    a.EndTime.UTC().Format(time.RFC3339),
		IsPractice: a.IsPractice,
	}
	if a.CurrentBid.Valid {
		current := a.CurrentBid.Decimal.StringFixed(2)
		resp.CurrentBid = &current
	}
	return resp
}

// ToBidResponse converts a bid into its wire form
func ToBidResponse(b model.Bid) BidResponse {
	return BidResponse{
		BidID:     b.ID,
		AuctionID: b.AuctionID,
		UserID:    b.UserID,
		Amount:    b.Amount.StringFixed(2),
		CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
	}
}
