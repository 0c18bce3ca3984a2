package arbitrage

import (
	"fmt"
	"sort"
	"time"

	"arbitrage-agent-go/internal/config"
	"arbitrage-agent-go/internal/models"
	"arbitrage-agent-go/internal/pricefeed"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Engine scores arbitrage opportunities over simulated per-exchange quotes.
// It offers two selection strategies on purpose: Scan picks buy/sell legs by
// raw quote (min/max), while the dashboard queries pick them by cost after
// fees and effective sell value. The strategies disagree when fee asymmetry
// reorders exchanges, so they are kept as distinct query modes.
type Engine struct {
	logger    *zap.Logger
	db        *gorm.DB
	sim       *QuoteSimulator
	pairs     []string
	exchanges []config.Exchange
	now       func() time.Time
}

// NewEngine creates a new opportunity engine.
func NewEngine(logger *zap.Logger, db *gorm.DB, pairs []string, exchanges []config.Exchange) *Engine {
	return &Engine{
		logger:    logger,
		db:        db,
		sim:       NewQuoteSimulator(),
		pairs:     pairs,
		exchanges: exchanges,
		now:       time.Now,
	}
}

// Pairs returns the configured trading pair universe.
func (e *Engine) Pairs() []string {
	return e.pairs
}

// Exchanges returns the configured exchanges in tie-breaking order.
func (e *Engine) Exchanges() []config.Exchange {
	return e.exchanges
}

// Scan walks every configured pair, simulates quotes on all exchanges and
// emits the opportunities whose fee-adjusted profit is positive and clears
// minProfit. Pairs whose legs are missing from the snapshot are reported in
// skipped, not treated as errors. Emitted opportunities are appended to the
// opportunity history.
func (e *Engine) Scan(snapshot pricefeed.Snapshot, minProfit float64) (opportunities []models.Opportunity, skipped []string) {
	now := e.now()

	for _, pair := range e.pairs {
		base, quote, err := ParsePair(pair)
		if err != nil {
			e.logger.Warn("Skipping malformed pair", zap.String("pair", pair), zap.Error(err))
			skipped = append(skipped, pair)
			continue
		}
		if !snapshot.Has(base, quote) {
			e.logger.Warn("Missing reference price, skipping pair",
				zap.String("pair", pair), zap.String("base", base), zap.String("quote", quote))
			skipped = append(skipped, pair)
			continue
		}

		referencePrice := snapshot.Prices[base]

		// Buy where the quote is lowest, sell where it is highest.
		// Strict comparisons keep the first exchange on ties.
		var buyEx, sellEx config.Exchange
		var buyPrice, sellPrice float64
		for i, ex := range e.exchanges {
			price := e.sim.Quote(ex, base, referencePrice, now)
			if i == 0 || price < buyPrice {
				buyEx, buyPrice = ex, price
			}
			if i == 0 || price > sellPrice {
				sellEx, sellPrice = ex, price
			}
		}
		if buyEx.Name == sellEx.Name {
			continue
		}

		grossDiff := (sellPrice - buyPrice) / buyPrice * 100

		buyFee := buyPrice * (buyEx.Fee / 100)
		sellFee := sellPrice * (sellEx.Fee / 100)
		withdrawalFee := buyPrice * (buyEx.WithdrawalFee / 100)

		netGain := sellPrice - buyPrice - buyFee - sellFee - withdrawalFee
		netPercent := netGain / buyPrice * 100

		if netPercent <= 0 || netPercent < minProfit {
			continue
		}

		opp := models.Opportunity{
			Pair:             pair,
			BuyExchange:      buyEx.Name,
			BuyPrice:         buyPrice,
			SellExchange:     sellEx.Name,
			SellPrice:        sellPrice,
			GrossDiffPercent: grossDiff,
			NetProfitPercent: netPercent,
			DetectedAt:       now,
		}
		if err := e.db.Create(&opp).Error; err != nil {
			e.logger.Error("Failed to record opportunity", zap.String("pair", pair), zap.Error(err))
		}

		e.logger.Info("Arbitrage opportunity detected",
			zap.String("pair", pair),
			zap.String("buy_exchange", buyEx.Name),
			zap.String("sell_exchange", sellEx.Name),
			zap.Float64("net_profit_percent", netPercent),
		)
		opportunities = append(opportunities, opp)
	}

	return opportunities, skipped
}

// ExchangeQuote is one exchange's view of a symbol, with fee-adjusted costs.
type ExchangeQuote struct {
	Exchange           config.Exchange
	Price              float64
	CostAfterFees      float64 // price to acquire and withdraw one unit
	EffectiveSellValue float64 // proceeds of selling one unit after the trading fee
}

// quoteBoard simulates the symbol on every exchange and derives the
// fee-adjusted buy cost and sell value used by the dashboard queries.
func (e *Engine) quoteBoard(symbol string, referencePrice float64, at time.Time) []ExchangeQuote {
	board := make([]ExchangeQuote, 0, len(e.exchanges))
	for _, ex := range e.exchanges {
		price := e.sim.Quote(ex, symbol, referencePrice, at)
		board = append(board, ExchangeQuote{
			Exchange:           ex,
			Price:              price,
			CostAfterFees:      price*(1+ex.Fee/100) + price*(ex.WithdrawalFee/100),
			EffectiveSellValue: price * (1 - ex.Fee/100),
		})
	}
	return board
}

// DashboardEntry is a fee-adjusted best opportunity for one pair.
type DashboardEntry struct {
	Pair             string
	BuyExchange      string
	BuyPrice         float64
	SellExchange     string
	SellPrice        float64
	NetProfitPercent float64
}

// DashboardAll computes the fee-adjusted best opportunity for every pair in
// the universe, sorted by net profit descending. Unlike Scan, the buy leg is
// the exchange with the lowest cost after fees and the sell leg the one with
// the highest effective sell value. Results are a view, not history: nothing
// is persisted.
func (e *Engine) DashboardAll(snapshot pricefeed.Snapshot) []DashboardEntry {
	now := e.now()
	var entries []DashboardEntry

	for _, pair := range e.pairs {
		base, _, err := ParsePair(pair)
		if err != nil {
			continue
		}
		referencePrice, ok := snapshot.Prices[base]
		if !ok {
			continue
		}

		board := e.quoteBoard(base, referencePrice, now)
		if len(board) < 2 {
			continue
		}

		bestBuy, bestSell := bestLegs(board)
		if bestBuy.Exchange.Name == bestSell.Exchange.Name {
			continue
		}

		netProfit := bestSell.EffectiveSellValue - bestBuy.CostAfterFees
		netPercent := netProfit / bestBuy.Price * 100
		if netPercent <= 0 {
			continue
		}

		entries = append(entries, DashboardEntry{
			Pair:             pair,
			BuyExchange:      bestBuy.Exchange.Name,
			BuyPrice:         bestBuy.Price,
			SellExchange:     bestSell.Exchange.Name,
			SellPrice:        bestSell.Price,
			NetProfitPercent: netPercent,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].NetProfitPercent > entries[j].NetProfitPercent
	})
	return entries
}

// bestLegs selects the cheapest buy leg and the most valuable sell leg.
// First encountered wins on ties, matching configuration order.
func bestLegs(board []ExchangeQuote) (bestBuy, bestSell ExchangeQuote) {
	bestBuy, bestSell = board[0], board[0]
	for _, q := range board[1:] {
		if q.CostAfterFees < bestBuy.CostAfterFees {
			bestBuy = q
		}
		if q.EffectiveSellValue > bestSell.EffectiveSellValue {
			bestSell = q
		}
	}
	return bestBuy, bestSell
}

// PairStats summarizes the spread of the simulated quotes for one pair.
type PairStats struct {
	MinPrice       float64
	MaxPrice       float64
	AvgPrice       float64
	SpreadPercent  float64
	ReferencePrice float64
}

// PairReport is the single-pair dashboard: the full exchange ranking plus the
// best fee-adjusted opportunity and spread statistics.
type PairReport struct {
	Pair             string
	GeneratedAt      time.Time
	ReferencePrice   float64
	Ranking          []ExchangeQuote // sorted by price, high to low
	HasOpportunity   bool
	BuyExchange      string
	BuyPrice         float64
	SellExchange     string
	SellPrice        float64
	PriceDiffPercent float64
	NetProfitPercent float64
	Stats            PairStats
}

// Report builds the single-pair dashboard for a pair that is known to be in
// the universe. It fails only when the base asset has no reference price.
func (e *Engine) Report(pair string, snapshot pricefeed.Snapshot) (*PairReport, error) {
	base, _, err := ParsePair(pair)
	if err != nil {
		return nil, err
	}
	referencePrice, ok := snapshot.Prices[base]
	if !ok {
		return nil, fmt.Errorf("no reference price available for %s", base)
	}

	now := e.now()
	board := e.quoteBoard(base, referencePrice, now)
	if len(board) == 0 {
		return nil, fmt.Errorf("no exchanges configured")
	}

	report := &PairReport{
		Pair:           pair,
		GeneratedAt:    now,
		ReferencePrice: referencePrice,
	}

	if len(board) >= 2 {
		bestBuy, bestSell := bestLegs(board)
		if bestBuy.Exchange.Name != bestSell.Exchange.Name {
			report.HasOpportunity = true
			report.BuyExchange = bestBuy.Exchange.Name
			report.BuyPrice = bestBuy.Price
			report.SellExchange = bestSell.Exchange.Name
			report.SellPrice = bestSell.Price
			report.PriceDiffPercent = (bestSell.Price - bestBuy.Price) / bestBuy.Price * 100
			report.NetProfitPercent = (bestSell.EffectiveSellValue - bestBuy.CostAfterFees) / bestBuy.Price * 100
		}
	}

	var sum float64
	minPrice, maxPrice := board[0].Price, board[0].Price
	for _, q := range board {
		sum += q.Price
		if q.Price < minPrice {
			minPrice = q.Price
		}
		if q.Price > maxPrice {
			maxPrice = q.Price
		}
	}
	avg := sum / float64(len(board))
	report.Stats = PairStats{
		MinPrice:       minPrice,
		MaxPrice:       maxPrice,
		AvgPrice:       avg,
		SpreadPercent:  (maxPrice - minPrice) / avg * 100,
		ReferencePrice: referencePrice,
	}

	sort.Slice(board, func(i, j int) bool { return board[i].Price > board[j].Price })
	report.Ranking = board

	return report, nil
}
