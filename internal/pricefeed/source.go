package pricefeed

import (
	"context"
	"sync"
	"time"

	"arbitrage-agent-go/internal/coinmarketcap"
	"go.uber.org/zap"
)

// fallbackPrices are illustrative reference prices, used only when no fetch
// has ever succeeded. They are not live data.
var fallbackPrices = map[string]float64{
	"BTC":  62000.0,
	"ETH":  3400.0,
	"XRP":  0.58,
	"NEAR": 1.78,
	"SOL":  145.0,
	"ADA":  0.45,
	"DOT":  7.40,
	"USDT": 1.0,
}

// Snapshot is one consistent view of the reference prices. Prices for symbols
// the upstream did not return are simply absent; callers treat a missing
// symbol as "unavailable", not as an error.
type Snapshot struct {
	Prices    map[string]float64
	FetchedAt time.Time
}

// Has reports whether the snapshot contains a price for every given symbol.
func (s Snapshot) Has(symbols ...string) bool {
	for _, symbol := range symbols {
		if _, ok := s.Prices[symbol]; !ok {
			return false
		}
	}
	return true
}

// Source serves USD reference prices with a time-bounded cache. Fetch
// failures never propagate: the previous snapshot (or a static fallback
// table on the very first failure) is returned instead.
type Source struct {
	client   coinmarketcap.QuoteClient
	logger   *zap.Logger
	symbols  []string          // union of all symbols in the configured pairs
	mapping  map[string]string // canonical symbol -> upstream symbol
	cacheFor time.Duration
	now      func() time.Time

	mu        sync.Mutex
	prices    map[string]float64
	fetchedAt time.Time
}

// NewSource creates a price source for the given symbol universe.
func NewSource(client coinmarketcap.QuoteClient, logger *zap.Logger, symbols []string, mapping map[string]string, cacheFor time.Duration) *Source {
	return &Source{
		client:   client,
		logger:   logger,
		symbols:  symbols,
		mapping:  mapping,
		cacheFor: cacheFor,
		now:      time.Now,
	}
}

func (s *Source) mapped(symbol string) string {
	if m, ok := s.mapping[symbol]; ok {
		return m
	}
	return symbol
}

// Prices returns the current snapshot, fetching from upstream only when the
// cached one has expired. It never returns an error.
func (s *Source) Prices(ctx context.Context) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if len(s.prices) > 0 && now.Sub(s.fetchedAt) < s.cacheFor {
		return Snapshot{Prices: s.prices, FetchedAt: s.fetchedAt}
	}

	upstream := make([]string, 0, len(s.symbols))
	for _, symbol := range s.symbols {
		upstream = append(upstream, s.mapped(symbol))
	}

	quotes, err := s.client.GetQuotes(ctx, upstream)
	if err != nil {
		s.logger.Warn("Price fetch failed, serving degraded data", zap.Error(err))
		if len(s.prices) == 0 {
			s.logger.Warn("No cached prices available, seeding fallback reference prices")
			prices := make(map[string]float64, len(s.symbols))
			for _, symbol := range s.symbols {
				if p, ok := fallbackPrices[symbol]; ok {
					prices[symbol] = p
				}
			}
			s.prices = prices
			// Stamp the fallback so the cache interval applies to it too.
			s.fetchedAt = now
		}
		return Snapshot{Prices: s.prices, FetchedAt: s.fetchedAt}
	}

	prices := make(map[string]float64, len(s.symbols))
	for _, symbol := range s.symbols {
		if p, ok := quotes[s.mapped(symbol)]; ok {
			prices[symbol] = p
		}
	}
	s.prices = prices
	s.fetchedAt = now

	s.logger.Info("Reference prices updated", zap.Int("symbols", len(prices)))
	return Snapshot{Prices: prices, FetchedAt: now}
}

// Invalidate expires the cache so the next Prices call hits the upstream.
// Used after swapping the API key.
func (s *Source) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchedAt = time.Time{}
}

// LastUpdated returns the timestamp of the current snapshot, or the zero time
// if nothing has been fetched yet.
func (s *Source) LastUpdated() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchedAt
}
