package models

import (
	"time"

	"gorm.io/gorm"
)

// Opportunity is a detected arbitrage opportunity. Records are append-only:
// once scanned they are never mutated.
type Opportunity struct {
	gorm.Model
	Pair             string    `json:"pair"`
	BuyExchange      string    `json:"buy_exchange"`
	BuyPrice         float64   `json:"buy_price"`
	SellExchange     string    `json:"sell_exchange"`
	SellPrice        float64   `json:"sell_price"`
	GrossDiffPercent float64   `json:"gross_diff_percent"`
	NetProfitPercent float64   `json:"net_profit_percent"`
	DetectedAt       time.Time `json:"detected_at"`
}
