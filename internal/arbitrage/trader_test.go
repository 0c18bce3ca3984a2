package arbitrage

import (
	"testing"

	"arbitrage-agent-go/internal/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func testOpportunity() models.Opportunity {
	return models.Opportunity{
		Pair:             "BTC-USDT",
		BuyExchange:      "alpha",
		BuyPrice:         100,
		SellExchange:     "beta",
		SellPrice:        105,
		GrossDiffPercent: 5.0,
		NetProfitPercent: 4.745,
	}
}

func TestTradeSimulator_Execute(t *testing.T) {
	trader := NewTradeSimulator(zap.NewNop(), setupDB(t))
	settings := Settings{TradeAmount: 100, MaxDailyTrades: 10, AutoTrading: true}

	trade, err := trader.Execute(testOpportunity(), settings)

	assert.NoError(t, err)
	assert.InDelta(t, 1.0, trade.Units, 1e-9)          // 100 USDT / 100 per unit
	assert.InDelta(t, 4.745, trade.ProfitAmount, 1e-9) // 100 * 4.745%
	assert.Equal(t, models.TradeStatusCompleted, trade.Status)
	assert.True(t, trade.IsSimulation)

	count, err := trader.TradeCount()
	assert.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestTradeSimulator_RefusesWhenAutoTradingDisabled(t *testing.T) {
	trader := NewTradeSimulator(zap.NewNop(), setupDB(t))
	settings := Settings{TradeAmount: 100, MaxDailyTrades: 10, AutoTrading: false}

	trade, err := trader.Execute(testOpportunity(), settings)

	assert.ErrorIs(t, err, ErrAutoTradingDisabled)
	assert.Nil(t, trade)

	count, _ := trader.TradeCount()
	assert.Zero(t, count, "trade history must be left unchanged")
}

func TestTradeSimulator_RefusesWhenLimitReached(t *testing.T) {
	trader := NewTradeSimulator(zap.NewNop(), setupDB(t))
	settings := Settings{TradeAmount: 100, MaxDailyTrades: 2, AutoTrading: true}

	for i := 0; i < 2; i++ {
		_, err := trader.Execute(testOpportunity(), settings)
		assert.NoError(t, err)
	}

	trade, err := trader.Execute(testOpportunity(), settings)
	assert.ErrorIs(t, err, ErrTradeLimitReached)
	assert.Nil(t, trade)

	count, _ := trader.TradeCount()
	assert.EqualValues(t, 2, count)
}

func TestTradeSimulator_Trades(t *testing.T) {
	trader := NewTradeSimulator(zap.NewNop(), setupDB(t))
	settings := Settings{TradeAmount: 50, MaxDailyTrades: 10, AutoTrading: true}

	_, err := trader.Execute(testOpportunity(), settings)
	assert.NoError(t, err)

	trades, err := trader.Trades()
	assert.NoError(t, err)
	assert.Len(t, trades, 1)
	assert.Equal(t, "BTC-USDT", trades[0].Pair)
	assert.InDelta(t, 50.0, trades[0].Amount, 1e-9)
}
