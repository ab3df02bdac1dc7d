package integrationtests

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"auction-lifecycle/internal/lifecycle"
	model "auction-lifecycle/internal/models"
	"auction-lifecycle/internal/ratelimit"
	"auction-lifecycle/internal/repository"
	"auction-lifecycle/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const testSecret = "integration-secret"

var passTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// TestEnv bundles the router with the repository behind it
type TestEnv struct {
	Router *gin.Engine
	Repo   *repository.MemoryRepo
}

// SetupTestEnv initializes the router over an in-memory repository with a fixed pass time.
// A nil limiter disables rate limiting.
func SetupTestEnv(limiter ratelimit.Limiter) *TestEnv {
	gin.SetMode(gin.TestMode)
	repo := repository.NewMemoryRepo()
	orchestrator := lifecycle.NewOrchestrator(repo, nil, lifecycle.Options{
		Workers: 4,
		Clock:   func() time.Time { return passTime },
	})
	return &TestEnv{
		Router: server.SetupRouter(orchestrator, testSecret, limiter, nil),
		Repo:   repo,
	}
}

// ExecuteRequest executes an HTTP request with an optional bearer token and returns the recorder
func ExecuteRequest(t *testing.T, router *gin.Engine, method, url, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, url, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ExecuteRequestAndParse executes an HTTP request and decodes the JSON envelope
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url, token string) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()
	w := ExecuteRequest(t, router, method, url, token)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}
	return resp, w
}

// DecodeReport extracts the pass report from a trigger response
func DecodeReport(t *testing.T, w *httptest.ResponseRecorder) lifecycle.PassReport {
	t.Helper()
	var envelope struct {
		Data lifecycle.PassReport `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to unmarshal report: %v", err)
	}
	return envelope.Data
}

func seedItem(repo *repository.MemoryRepo, id string) {
	repo.AddItem(model.Item{ID: id, Name: "Item " + id, Valuation: decimal.NewFromInt(300), Status: model.ItemStatusInAuction})
}

func seedAuction(repo *repository.MemoryRepo, id, itemID string, status model.AuctionStatus, start, end time.Time, practice bool) {
	repo.AddAuction(model.Auction{
		ID:         id,
		ItemID:     itemID,
		StartPrice: decimal.NewFromInt(100),
		StartTime:  start,
		EndTime:    end,
		Status:     status,
		IsPractice: practice,
	})
}

func seedBid(repo *repository.MemoryRepo, id, auctionID, userID string, amount int64, at time.Time) {
	repo.AddBid(model.Bid{ID: id, AuctionID: auctionID, UserID: userID, Amount: decimal.NewFromInt(amount), CreatedAt: at})
}
