package agent

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"arbitrage-agent-go/internal/arbitrage"
	"arbitrage-agent-go/internal/coinmarketcap"
	"arbitrage-agent-go/internal/config"
	"arbitrage-agent-go/internal/models"
	"arbitrage-agent-go/internal/pricefeed"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Session routes parsed commands to the engine and owns the mutable trading
// settings. All shared state lives here rather than in package globals, so
// multiple sessions can run side by side and tests can build isolated ones.
type Session struct {
	logger *zap.Logger
	db     *gorm.DB
	client coinmarketcap.QuoteClient
	source *pricefeed.Source
	engine *arbitrage.Engine
	trader *arbitrage.TradeSimulator

	mu       sync.Mutex
	settings arbitrage.Settings
}

// NewSession wires a session from its collaborators, seeding the live
// settings from the configured defaults.
func NewSession(logger *zap.Logger, cfg *config.Config, db *gorm.DB, client coinmarketcap.QuoteClient, source *pricefeed.Source, engine *arbitrage.Engine, trader *arbitrage.TradeSimulator) *Session {
	return &Session{
		logger: logger,
		db:     db,
		client: client,
		source: source,
		engine: engine,
		trader: trader,
		settings: arbitrage.Settings{
			MinProfit:      cfg.Trading.MinProfit,
			TradeAmount:    cfg.Trading.TradeAmount,
			MaxDailyTrades: cfg.Trading.MaxDailyTrades,
			AutoTrading:    cfg.Trading.AutoTrading,
		},
	}
}

// Settings returns a copy of the live trading settings.
func (s *Session) Settings() arbitrage.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Handle executes one command line. handled is false when the input is not a
// recognized command, so the caller can route it to its generic fallback.
// Every failure resolves to a textual reply; nothing here is fatal.
func (s *Session) Handle(ctx context.Context, input string) (reply string, handled bool) {
	cmd, err := Parse(input)
	if err != nil {
		return err.Error(), true
	}

	switch cmd.Kind {
	case KindScan:
		return s.handleScan(ctx), true
	case KindHistory:
		return s.handleHistory(), true
	case KindTrades:
		return s.handleTrades(), true
	case KindStatus:
		return s.handleStatus(), true
	case KindDashboard:
		return s.handleDashboard(ctx, cmd.Pair), true
	case KindDashboardAll:
		return s.handleDashboardAll(ctx), true
	case KindConfig:
		return s.handleConfig(cmd.Param, cmd.Value), true
	case KindSetupApi:
		return s.handleSetupApi(ctx, cmd.ApiKey), true
	case KindMonitor:
		return s.handleMonitor(ctx, cmd.Pair, cmd.Seconds), true
	case KindHelp:
		return helpText, true
	case KindUnknown:
		return "", false
	}
	return "", false
}

func (s *Session) handleScan(ctx context.Context) string {
	settings := s.Settings()
	snapshot := s.source.Prices(ctx)

	opportunities, skipped := s.engine.Scan(snapshot, settings.MinProfit)

	var notifications []string
	if settings.AutoTrading {
		for _, opp := range opportunities {
			trade, err := s.trader.Execute(opp, s.Settings())
			if err != nil {
				if errors.Is(err, arbitrage.ErrTradeLimitReached) {
					s.logger.Info("Trade limit reached, stopping auto-trading for this scan")
					break
				}
				s.logger.Error("Auto-trade failed", zap.String("pair", opp.Pair), zap.Error(err))
				continue
			}
			notifications = append(notifications, FormatTradeNotification(trade))
		}
	}

	reply := FormatOpportunities(opportunities, skipped)
	if len(notifications) > 0 {
		reply += "\n\n" + strings.Join(notifications, "\n\n")
	}
	return reply
}

func (s *Session) handleHistory() string {
	var opportunities []models.Opportunity
	if err := s.db.Order("id desc").Limit(10).Find(&opportunities).Error; err != nil {
		s.logger.Error("Failed to load opportunity history", zap.Error(err))
		return "Couldn't load the opportunity history. Try again later."
	}
	// Most recent last, like a transcript.
	for i, j := 0, len(opportunities)-1; i < j; i, j = i+1, j-1 {
		opportunities[i], opportunities[j] = opportunities[j], opportunities[i]
	}
	return FormatHistory(opportunities)
}

func (s *Session) handleTrades() string {
	trades, err := s.trader.Trades()
	if err != nil {
		s.logger.Error("Failed to load trade history", zap.Error(err))
		return "Couldn't load the trade history. Try again later."
	}
	return FormatTrades(trades)
}

func (s *Session) handleStatus() string {
	settings := s.Settings()
	tradeCount, err := s.trader.TradeCount()
	if err != nil {
		s.logger.Error("Failed to count trades", zap.Error(err))
	}
	return FormatStatus(settings, s.engine.Exchanges(), s.source.LastUpdated(), tradeCount, s.client.HasApiKey())
}

func (s *Session) unknownPairReply(pair string) string {
	pairs := s.engine.Pairs()
	if similar := arbitrage.SuggestPairs(pairs, pair); len(similar) > 0 {
		return fmt.Sprintf("Pair not recognized. Perhaps you meant one of these? %s", strings.Join(similar, ", "))
	}
	return fmt.Sprintf("Pair not recognized. Available pairs: %s", strings.Join(pairs, ", "))
}

func (s *Session) handleDashboard(ctx context.Context, pair string) string {
	if !arbitrage.ContainsPair(s.engine.Pairs(), pair) {
		return s.unknownPairReply(pair)
	}

	snapshot := s.source.Prices(ctx)
	if len(snapshot.Prices) == 0 {
		return "Couldn't get current prices. Try again later."
	}

	report, err := s.engine.Report(pair, snapshot)
	if err != nil {
		base, _, _ := arbitrage.ParsePair(pair)
		return fmt.Sprintf("Couldn't get price for %s.", base)
	}
	return FormatPairReport(report)
}

func (s *Session) handleDashboardAll(ctx context.Context) string {
	snapshot := s.source.Prices(ctx)
	if len(snapshot.Prices) == 0 {
		return "Couldn't get current prices. Try again later."
	}
	return FormatDashboardAll(s.engine.DashboardAll(snapshot), s.engine.Pairs(), snapshot)
}

func (s *Session) handleConfig(param, value string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch param {
	case "min_profit":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return "Value must be a number."
		}
		s.settings.MinProfit = v
		return fmt.Sprintf("Minimum profit percentage set to %s%%", value)
	case "trade_amount":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return "Value must be a number."
		}
		s.settings.TradeAmount = v
		return fmt.Sprintf("Amount per trade set to %s USDT", value)
	case "max_daily_trades":
		v, err := strconv.Atoi(value)
		if err != nil {
			return "Value must be an integer."
		}
		s.settings.MaxDailyTrades = v
		return fmt.Sprintf("Maximum daily trades set to %s", value)
	case "auto_trading":
		switch value {
		case "true", "1", "yes", "on":
			s.settings.AutoTrading = true
			return "Auto-trading ENABLED"
		case "false", "0", "no", "off":
			s.settings.AutoTrading = false
			return "Auto-trading DISABLED"
		default:
			return "Invalid value. Use 'true' or 'false'."
		}
	}
	return fmt.Sprintf("Parameter '%s' not recognized.", param)
}

func (s *Session) handleSetupApi(ctx context.Context, apiKey string) string {
	if apiKey == "" {
		return "Invalid API key. Please provide a valid API key."
	}

	s.client.SetApiKey(apiKey)
	// Expire the cache so the next lookup exercises the new key.
	s.source.Invalidate()

	symbols := arbitrage.SymbolUniverse(s.engine.Pairs())
	if _, err := s.client.GetQuotes(ctx, symbols); err != nil {
		s.logger.Warn("Verification fetch failed after API key change", zap.Error(err))
		return "API key configured, but couldn't get data. Verify the key and API access."
	}
	return "CoinMarketCap API key configured successfully. Data retrieved successfully."
}

func (s *Session) handleMonitor(ctx context.Context, pair string, seconds int) string {
	if seconds > int(arbitrage.MonitorMaxDuration/time.Second) {
		return fmt.Sprintf("Please use a maximum time of %d seconds (5 minutes).", int(arbitrage.MonitorMaxDuration/time.Second))
	}
	if !arbitrage.ContainsPair(s.engine.Pairs(), pair) {
		return s.unknownPairReply(pair)
	}

	report, err := s.engine.Monitor(ctx, s.source, pair, time.Duration(seconds)*time.Second)
	if err != nil {
		s.logger.Error("Monitoring failed", zap.String("pair", pair), zap.Error(err))
		return fmt.Sprintf("Monitoring failed: %v", err)
	}
	return FormatMonitorReport(report)
}
