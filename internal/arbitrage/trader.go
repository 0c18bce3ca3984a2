package arbitrage

import (
	"errors"
	"fmt"
	"time"

	"arbitrage-agent-go/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Settings are the live trading parameters. They are read on every operation,
// so a change through the config command applies to the next scan or trade.
type Settings struct {
	MinProfit      float64
	TradeAmount    float64
	MaxDailyTrades int
	AutoTrading    bool
}

var (
	// ErrAutoTradingDisabled is returned when a trade is requested while
	// auto-trading is switched off.
	ErrAutoTradingDisabled = errors.New("auto-trading is disabled")
	// ErrTradeLimitReached is returned once the daily trade cap is used up.
	ErrTradeLimitReached = errors.New("daily trade limit reached")
)

// TradeSimulator turns accepted opportunities into simulated fills. No
// exchange order is ever placed; every trade is recorded as completed at the
// quoted prices.
type TradeSimulator struct {
	logger *zap.Logger
	db     *gorm.DB
	now    func() time.Time
}

// NewTradeSimulator creates a new trade simulator.
func NewTradeSimulator(logger *zap.Logger, db *gorm.DB) *TradeSimulator {
	return &TradeSimulator{logger: logger, db: db, now: time.Now}
}

// TradeCount returns the number of recorded trades.
func (t *TradeSimulator) TradeCount() (int64, error) {
	var count int64
	if err := t.db.Model(&models.Trade{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count trades: %w", err)
	}
	return count, nil
}

// Trades returns the full trade history, oldest first.
func (t *TradeSimulator) Trades() ([]models.Trade, error) {
	var trades []models.Trade
	if err := t.db.Order("id asc").Find(&trades).Error; err != nil {
		return nil, fmt.Errorf("failed to load trades: %w", err)
	}
	return trades, nil
}

// Execute simulates filling the given opportunity with st.TradeAmount of the
// quote currency. It refuses without touching the history when auto-trading
// is disabled or the trade cap is reached.
func (t *TradeSimulator) Execute(opp models.Opportunity, st Settings) (*models.Trade, error) {
	if !st.AutoTrading {
		return nil, ErrAutoTradingDisabled
	}
	count, err := t.TradeCount()
	if err != nil {
		return nil, err
	}
	if count >= int64(st.MaxDailyTrades) {
		return nil, ErrTradeLimitReached
	}

	trade := models.Trade{
		Pair:          opp.Pair,
		BuyExchange:   opp.BuyExchange,
		SellExchange:  opp.SellExchange,
		BuyPrice:      opp.BuyPrice,
		SellPrice:     opp.SellPrice,
		Amount:        st.TradeAmount,
		Units:         st.TradeAmount / opp.BuyPrice,
		ProfitPercent: opp.NetProfitPercent,
		ProfitAmount:  st.TradeAmount * opp.NetProfitPercent / 100,
		Status:        models.TradeStatusCompleted,
		ExecutedAt:    t.now(),
		IsSimulation:  true,
	}

	if err := t.db.Create(&trade).Error; err != nil {
		return nil, fmt.Errorf("failed to record trade: %w", err)
	}

	t.logger.Info("Simulated trade executed",
		zap.String("pair", trade.Pair),
		zap.String("buy_exchange", trade.BuyExchange),
		zap.String("sell_exchange", trade.SellExchange),
		zap.Float64("amount", trade.Amount),
		zap.Float64("profit_amount", trade.ProfitAmount),
	)
	return &trade, nil
}
