package models

import (
	"time"

	"gorm.io/gorm"
)

// Trade status values. The simulator fills trades instantly, so only
// "completed" is produced; a real execution path would need the others.
const (
	TradeStatusCompleted = "completed"
)

// Trade represents a simulated trade record in the database.
type Trade struct {
	gorm.Model
	Pair          string    `json:"pair"`
	BuyExchange   string    `json:"buy_exchange"`
	SellExchange  string    `json:"sell_exchange"`
	BuyPrice      float64   `json:"buy_price"`
	SellPrice     float64   `json:"sell_price"`
	Amount        float64   `json:"amount"` // quote currency spent
	Units         float64   `json:"units"`  // base asset bought
	ProfitPercent float64   `json:"profit_percent"`
	ProfitAmount  float64   `json:"profit_amount"`
	Status        string    `json:"status"`
	ExecutedAt    time.Time `json:"executed_at"`
	IsSimulation  bool      `json:"is_simulation"`
}
