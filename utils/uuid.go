package utils

import (
	"github.com/google/uuid"
)

// GenerateID returns a new random (v4) identifier used for auctions, bids and notifications
func GenerateID() string {
	return uuid.New().String()
}

