package helpers

// Response DTOs
type AuctionResponse struct {
	AuctionID  string  `json:"auction_id"`
	ItemID     string  `json:"item_id"`
	Status     string  `json:"status"`
	StartPrice string  `json:"start_price"`
	CurrentBid *string `json:"current_bid"`
	StartTime  string  `json:"start_time"`
	EndTime    string  `json:"end_time"`
	IsPractice bool    `json:"is_practice"`
}

type BidResponse struct {
	BidID     string `json:"bid_id"`
	AuctionID string `json:"auction_id"`
	UserID    string `json:"user_id"`
	Amount    string `json:"amount"`
	CreatedAt string `json:"created_at"`
}

type HealthResponse struct {
	Store string `json:"store"`
}
