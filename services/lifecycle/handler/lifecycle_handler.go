package handler

import (
	"context"
	"fmt"
	"net/http"

	"auction-lifecycle/internal/lifecycle"
	model "auction-lifecycle/internal/models"
	"auction-lifecycle/services/lifecycle/helpers"
	"auction-lifecycle/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=lifecycle_handler.go -destination=mock_lifecycle_service.go -package=handler

type LifecycleServiceInterface interface {
	RunPass(ctx context.Context) (lifecycle.PassReport, error)
	GetAuction(ctx context.Context, auctionID string) (model.Auction, error)
	GetLeadingBid(ctx context.Context, auctionID string) (model.Bid, error)
	Ping(ctx context.Context) error
}

type LifecycleHandler struct {
	service LifecycleServiceInterface
}

func NewLifecycleHandler(service LifecycleServiceInterface) *LifecycleHandler {
	return &LifecycleHandler{service: service}
}

// RunPassHandler handles POST|GET /api/cron/auctions
func (h *LifecycleHandler) RunPassHandler(c *gin.Context) {
	report, err := h.service.RunPass(c.Request.Context())
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("RunPassHandler: lifecycle pass failed", map[string]any{
			"handler": "RunPassHandler",
			"error":   err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, report, "lifecycle pass completed")
	helpers.LogSuccess("RunPassHandler", "lifecycle pass completed", map[string]any{
		"activated":         report.ActivatedCount,
		"activation_errors": len(report.ActivationErrors),
		"ended":             report.EndedCount,
		"ending_errors":     len(report.EndingErrors),
	})
}

// GetAuctionHandler handles GET /auctions/:auction_id
func (h *LifecycleHandler) GetAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	auction, err := h.service.GetAuction(c.Request.Context(), auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetAuctionHandler: error retrieving auction", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToAuctionResponse(auction), "auction retrieved successfully")
	helpers.LogSuccess("GetAuctionHandler", "auction retrieved successfully", map[string]any{
		"auction_id": auction.ID,
		"status":     string(auction.Status),
	})
}

// GetLeadingBidHandler handles GET /auctions/:auction_id/leading-bid
func (h *LifecycleHandler) GetLeadingBidHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	bid, err := h.service.GetLeadingBid(c.Request.Context(), auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		if status == http.StatusNotFound {
			utils.JSONError(c, status, err, message)
			utils.Info("GetLeadingBidHandler: no leading bid", map[string]any{"auction_id": auctionID, "error": err.Error()})
			return
		}
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetLeadingBidHandler: leading bid error", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToBidResponse(bid), "leading bid retrieved successfully")
	helpers.LogSuccess("GetLeadingBidHandler", "leading bid retrieved successfully", map[string]any{
		"bid_id":     bid.ID,
		"auction_id": bid.AuctionID,
		"user_id":    bid.UserID,
		"amount":     bid.Amount.String(),
	})
}

// HealthHandler handles GET /healthz
func (h *LifecycleHandler) HealthHandler(c *gin.Context) {
	if err := h.service.Ping(c.Request.Context()); err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, err, message)
		utils.Warn("HealthHandler: store unreachable", map[string]any{"error": err.Error()})
		return
	}
	utils.JSONResponse(c, http.StatusOK, helpers.HealthResponse{Store: "ok"}, "healthy")
}
