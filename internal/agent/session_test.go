package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"arbitrage-agent-go/internal/arbitrage"
	"arbitrage-agent-go/internal/config"
	"arbitrage-agent-go/internal/models"
	"arbitrage-agent-go/internal/pricefeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// MockQuoteClient is a mock implementation of the coinmarketcap.QuoteClient.
type MockQuoteClient struct {
	mock.Mock
}

func (m *MockQuoteClient) GetQuotes(ctx context.Context, symbols []string) (map[string]float64, error) {
	args := m.Called(ctx, symbols)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]float64), args.Error(1)
}

func (m *MockQuoteClient) SetApiKey(key string) {
	m.Called(key)
}

func (m *MockQuoteClient) HasApiKey() bool {
	args := m.Called()
	return args.Bool(0)
}

// setupSession builds a full session over an in-memory history database and
// a mocked quotes client. Zero-width variance bands make the scan outcome
// deterministic: buy on alpha, sell on beta.
func setupSession(t *testing.T) (*Session, *MockQuoteClient) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.Opportunity{}, &models.Trade{}))

	cfg := &config.Config{
		Trading: config.Trading{
			Pairs:          []string{"BTC-USDT", "ETH-USDT"},
			MinProfit:      1.0,
			TradeAmount:    100,
			MaxDailyTrades: 10,
			AutoTrading:    false,
		},
		Exchanges: []config.Exchange{
			{Name: "alpha", Fee: 0.1, WithdrawalFee: 0.05, VarianceMin: 0, VarianceMax: 0},
			{Name: "beta", Fee: 0.1, WithdrawalFee: 0.1, VarianceMin: 5, VarianceMax: 5},
		},
	}

	log := zap.NewNop()
	client := new(MockQuoteClient)
	source := pricefeed.NewSource(client, log, arbitrage.SymbolUniverse(cfg.Trading.Pairs), nil, time.Minute)
	engine := arbitrage.NewEngine(log, db, cfg.Trading.Pairs, cfg.Exchanges)
	trader := arbitrage.NewTradeSimulator(log, db)

	return NewSession(log, cfg, db, client, source, engine, trader), client
}

func livePrices() map[string]float64 {
	return map[string]float64{"BTC": 100, "ETH": 50, "USDT": 1}
}

func TestSession_UnknownInputIsNotHandled(t *testing.T) {
	s, _ := setupSession(t)

	reply, handled := s.Handle(context.Background(), "tell me a joke")
	assert.False(t, handled)
	assert.Empty(t, reply)
}

func TestSession_Help(t *testing.T) {
	s, _ := setupSession(t)

	reply, handled := s.Handle(context.Background(), "help")
	assert.True(t, handled)
	assert.Contains(t, reply, "Available commands")
	assert.Contains(t, reply, "dashboard [PAIR]")
}

func TestSession_Scan(t *testing.T) {
	s, client := setupSession(t)
	client.On("GetQuotes", mock.Anything, mock.Anything).Return(livePrices(), nil)

	reply, handled := s.Handle(context.Background(), "scan")

	assert.True(t, handled)
	assert.Contains(t, reply, "Arbitrage opportunities detected")
	assert.Contains(t, reply, "ALPHA")
	assert.Contains(t, reply, "BETA")
}

func TestSession_ScanWithAutoTrading(t *testing.T) {
	s, client := setupSession(t)
	client.On("GetQuotes", mock.Anything, mock.Anything).Return(livePrices(), nil)

	reply, _ := s.Handle(context.Background(), "config auto_trading on")
	assert.Equal(t, "Auto-trading ENABLED", reply)

	reply, _ = s.Handle(context.Background(), "scan")
	assert.Contains(t, reply, "Trade executed automatically")

	trades, err := s.trader.Trades()
	assert.NoError(t, err)
	assert.Len(t, trades, 2, "one auto-trade per detected opportunity")
}

func TestSession_ConfigAutoTradingRoundTrip(t *testing.T) {
	s, _ := setupSession(t)

	reply, _ := s.Handle(context.Background(), "config auto_trading on")
	assert.Equal(t, "Auto-trading ENABLED", reply)
	assert.True(t, s.Settings().AutoTrading)

	reply, _ = s.Handle(context.Background(), "config auto_trading off")
	assert.Equal(t, "Auto-trading DISABLED", reply)
	assert.False(t, s.Settings().AutoTrading)

	reply, _ = s.Handle(context.Background(), "config auto_trading maybe")
	assert.Contains(t, reply, "Invalid value")
	assert.False(t, s.Settings().AutoTrading, "invalid tokens leave the setting unchanged")
}

func TestSession_ConfigNumericParams(t *testing.T) {
	s, _ := setupSession(t)

	s.Handle(context.Background(), "config min_profit 2.5")
	assert.Equal(t, 2.5, s.Settings().MinProfit)

	s.Handle(context.Background(), "config trade_amount 250")
	assert.Equal(t, 250.0, s.Settings().TradeAmount)

	s.Handle(context.Background(), "config max_daily_trades 3")
	assert.Equal(t, 3, s.Settings().MaxDailyTrades)

	reply, _ := s.Handle(context.Background(), "config min_profit lots")
	assert.Equal(t, "Value must be a number.", reply)
	assert.Equal(t, 2.5, s.Settings().MinProfit)

	reply, _ = s.Handle(context.Background(), "config max_daily_trades 2.5")
	assert.Equal(t, "Value must be an integer.", reply)
	assert.Equal(t, 3, s.Settings().MaxDailyTrades)

	reply, _ = s.Handle(context.Background(), "config slippage 1")
	assert.Contains(t, reply, "not recognized")
}

func TestSession_MonitorRejectsExcessiveDuration(t *testing.T) {
	s, client := setupSession(t)

	reply, handled := s.Handle(context.Background(), "monitor BTC-USDT 400")

	assert.True(t, handled)
	assert.Contains(t, reply, "maximum time of 300 seconds")
	client.AssertNotCalled(t, "GetQuotes", mock.Anything, mock.Anything)
}

func TestSession_DashboardUnknownPair(t *testing.T) {
	s, _ := setupSession(t)

	reply, _ := s.Handle(context.Background(), "dashboard BTC-USD")
	assert.Contains(t, reply, "Perhaps you meant")
	assert.Contains(t, reply, "BTC-USDT")

	reply, _ = s.Handle(context.Background(), "dashboard DOGE-USDT")
	assert.Contains(t, reply, "Available pairs")
}

func TestSession_Dashboard(t *testing.T) {
	s, client := setupSession(t)
	client.On("GetQuotes", mock.Anything, mock.Anything).Return(livePrices(), nil)

	reply, _ := s.Handle(context.Background(), "dashboard BTC-USDT")
	assert.Contains(t, reply, "DASHBOARD: BTC-USDT")
	assert.Contains(t, reply, "EXCHANGE RANKING BY PRICE")
	assert.Contains(t, reply, "BEST ARBITRAGE OPPORTUNITY")
}

func TestSession_DashboardAll(t *testing.T) {
	s, client := setupSession(t)
	client.On("GetQuotes", mock.Anything, mock.Anything).Return(livePrices(), nil)

	reply, _ := s.Handle(context.Background(), "dashboard_all")
	assert.Contains(t, reply, "COMPLETE ARBITRAGE DASHBOARD")
	assert.Contains(t, reply, "BTC-USDT")
	assert.Contains(t, reply, "ETH-USDT")
}

func TestSession_HistoryAndTrades(t *testing.T) {
	s, client := setupSession(t)
	client.On("GetQuotes", mock.Anything, mock.Anything).Return(livePrices(), nil)

	reply, _ := s.Handle(context.Background(), "history")
	assert.Equal(t, "No arbitrage opportunity history recorded.", reply)

	reply, _ = s.Handle(context.Background(), "trades")
	assert.Equal(t, "No trade history available.", reply)

	s.Handle(context.Background(), "scan")

	reply, _ = s.Handle(context.Background(), "history")
	assert.Contains(t, reply, "BTC-USDT")
	assert.Contains(t, reply, "alpha -> beta")
}

func TestSession_Status(t *testing.T) {
	s, client := setupSession(t)
	client.On("HasApiKey").Return(false)

	reply, _ := s.Handle(context.Background(), "status")
	assert.Contains(t, reply, "Minimum profit percentage: 1%")
	assert.Contains(t, reply, "Auto-trading: DISABLED")
	assert.Contains(t, reply, "alpha")
	assert.Contains(t, reply, "Trades today: 0/10")
	assert.Contains(t, reply, "not configured")
}

func TestSession_SetupApi(t *testing.T) {
	s, client := setupSession(t)

	client.On("SetApiKey", "fresh-key").Once()
	client.On("GetQuotes", mock.Anything, mock.Anything).Return(livePrices(), nil).Once()

	reply, _ := s.Handle(context.Background(), "setup_api fresh-key")
	assert.Contains(t, reply, "configured successfully")
	client.AssertExpectations(t)
}

func TestSession_SetupApiVerificationFails(t *testing.T) {
	s, client := setupSession(t)

	client.On("SetApiKey", "bad-key").Once()
	client.On("GetQuotes", mock.Anything, mock.Anything).Return(nil, errors.New("401")).Once()

	reply, _ := s.Handle(context.Background(), "setup_api bad-key")
	assert.Contains(t, reply, "couldn't get data")
}
