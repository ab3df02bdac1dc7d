package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"auction-lifecycle/internal/lifecycle"
	"auction-lifecycle/internal/lifecycleerrors"
	model "auction-lifecycle/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// Test RunPassHandler
func TestRunPassHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockLifecycleServiceInterface(ctrl)
	handler := NewLifecycleHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/cron/auctions", handler.RunPassHandler)

	tests := []struct {
		name           string
		report         lifecycle.PassReport
		err            error
		expectedStatus int
		expectedMsg    string
		validateData   func(t *testing.T, data map[string]any)
	}{
		{
			name: "success_with_results",
			report: lifecycle.PassReport{
				Activated:        []string{"a1"},
				ActivationErrors: []lifecycle.AuctionError{},
				Ended:            []string{"a2", "a3"},
				EndingErrors:     []lifecycle.AuctionError{{AuctionID: "a4", Error: "item not found"}},
				ActivatedCount:   1,
				EndedCount:       2,
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "lifecycle pass completed",
			validateData: func(t *testing.T, data map[string]any) {
				require.Equal(t, []any{"a1"}, data["activated"])
				require.Equal(t, []any{"a2", "a3"}, data["ended"])
				require.Empty(t, data["activationErrors"])
				endingErrors := data["endingErrors"].([]any)
				require.Len(t, endingErrors, 1)
				require.Equal(t, "a4", endingErrors[0].(map[string]any)["auctionId"])
			},
		},
		{
			name:           "store_unavailable",
			err:            fmt.Errorf("lifecycle pass: ping store: %w", lifecycleerrors.ErrStoreUnavailable),
			expectedStatus: http.StatusServiceUnavailable,
			expectedMsg:    "store unavailable",
		},
		{
			name:           "unexpected_error",
			err:            errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "internal server error",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			mockService.EXPECT().RunPass(gomock.Any()).Return(tc.report, tc.err)

			req := httptest.NewRequest(http.MethodPost, "/api/cron/auctions", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tc.expectedStatus, w.Code)
			resp := decodeBody(t, w)
			require.Contains(t, resp["message"], tc.expectedMsg)

			if tc.err != nil {
				require.NotContains(t, resp, "data")
				return
			}
			if tc.validateData != nil {
				tc.validateData(t, resp["data"].(map[string]any))
			}
		})
	}
}

// Test GetAuctionHandler
func TestGetAuctionHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockLifecycleServiceInterface(ctrl)
	handler := NewLifecycleHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/auctions/:auction_id", handler.GetAuctionHandler)

	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		auctionID      string
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
		validateData   func(t *testing.T, data map[string]any)
	}{
		{
			name:      "success_ended_auction",
			auctionID: "auction1",
			mockSetup: func() {
				mockService.EXPECT().GetAuction(gomock.Any(), "auction1").Return(model.Auction{
					ID:         "auction1",
					ItemID:     "item1",
					StartPrice: decimal.NewFromInt(100),
					CurrentBid: decimal.NewNullDecimal(decimal.RequireFromString("150.5")),
					StartTime:  start,
					EndTime:    start.Add(time.Hour),
					Status:     model.AuctionStatusEnded,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "auction retrieved successfully",
			validateData: func(t *testing.T, data map[string]any) {
				require.Equal(t, "auction1", data["auction_id"])
				require.Equal(t, "ENDED", data["status"])
				require.Equal(t, "100.00", data["start_price"])
				require.Equal(t, "150.50", data["current_bid"])
				require.Equal(t, "2025-03-01T10:00:00Z", data["start_time"])
			},
		},
		{
			name:      "success_no_current_bid",
			auctionID: "auction2",
			mockSetup: func() {
				mockService.EXPECT().GetAuction(gomock.Any(), "auction2").Return(model.Auction{
					ID:         "auction2",
					ItemID:     "item2",
					StartPrice: decimal.NewFromInt(50),
					StartTime:  start,
					EndTime:    start.Add(time.Hour),
					Status:     model.AuctionStatusScheduled,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "auction retrieved successfully",
			validateData: func(t *testing.T, data map[string]any) {
				require.Nil(t, data["current_bid"])
			},
		},
		{
			name:      "not_found",
			auctionID: "missing",
			mockSetup: func() {
				mockService.EXPECT().GetAuction(gomock.Any(), "missing").
					Return(model.Auction{}, fmt.Errorf("service: %w", lifecycleerrors.ErrAuctionNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "auction not found",
		},
		{
			name:      "store_unavailable",
			auctionID: "auction3",
			mockSetup: func() {
				mockService.EXPECT().GetAuction(gomock.Any(), "auction3").
					Return(model.Auction{}, lifecycleerrors.ErrStoreUnavailable)
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedMsg:    "store unavailable",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tc.mockSetup()

			req := httptest.NewRequest(http.MethodGet, "/auctions/"+tc.auctionID, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tc.expectedStatus, w.Code)
			resp := decodeBody(t, w)
			require.Contains(t, resp["message"], tc.expectedMsg)

			if tc.validateData != nil && w.Code == http.StatusOK {
				tc.validateData(t, resp["data"].(map[string]any))
			}
		})
	}
}

// Test GetLeadingBidHandler
func TestGetLeadingBidHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockLifecycleServiceInterface(ctrl)
	handler := NewLifecycleHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/auctions/:auction_id/leading-bid", handler.GetLeadingBidHandler)

	now := time.Now().UTC()
	bidID := uuid.NewString()

	tests := []struct {
		name           string
		auctionID      string
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
		validateData   func(t *testing.T, data map[string]any)
	}{
		{
			name:      "success",
			auctionID: "auction1",
			mockSetup: func() {
				mockService.EXPECT().GetLeadingBid(gomock.Any(), "auction1").Return(model.Bid{
					ID:        bidID,
					AuctionID: "auction1",
					UserID:    "user1",
					Amount:    decimal.NewFromInt(250),
					CreatedAt: now,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "leading bid retrieved successfully",
			validateData: func(t *testing.T, data map[string]any) {
				require.Equal(t, bidID, data["bid_id"])
				require.Equal(t, "user1", data["user_id"])
				require.Equal(t, "250.00", data["amount"])
			},
		},
		{
			name:      "no_bids",
			auctionID: "auction2",
			mockSetup: func() {
				mockService.EXPECT().GetLeadingBid(gomock.Any(), "auction2").
					Return(model.Bid{}, lifecycleerrors.ErrNoBids)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "no leading bid found",
		},
		{
			name:      "auction_not_found",
			auctionID: "missing",
			mockSetup: func() {
				mockService.EXPECT().GetLeadingBid(gomock.Any(), "missing").
					Return(model.Bid{}, lifecycleerrors.ErrAuctionNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "auction not found",
		},
		{
			name:      "service_generic_error",
			auctionID: "auction3",
			mockSetup: func() {
				mockService.EXPECT().GetLeadingBid(gomock.Any(), "auction3").
					Return(model.Bid{}, errors.New("database failure"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "internal server error",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tc.mockSetup()

			req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/auctions/%s/leading-bid", tc.auctionID), nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tc.expectedStatus, w.Code)
			resp := decodeBody(t, w)
			require.Contains(t, resp["message"], tc.expectedMsg)

			if tc.validateData != nil && w.Code == http.StatusOK {
				tc.validateData(t, resp["data"].(map[string]any))
			}
		})
	}
}

// Test HealthHandler
func TestHealthHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockLifecycleServiceInterface(ctrl)
	handler := NewLifecycleHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/healthz", handler.HealthHandler)

	t.Run("healthy", func(t *testing.T) {
		mockService.EXPECT().Ping(gomock.Any()).Return(nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeBody(t, w)
		require.Equal(t, "ok", resp["data"].(map[string]any)["store"])
	})

	t.Run("store_unreachable", func(t *testing.T) {
		mockService.EXPECT().Ping(gomock.Any()).Return(lifecycleerrors.ErrStoreUnavailable)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
