package arbitrage

import (
	"context"
	"fmt"
	"time"

	"arbitrage-agent-go/internal/pricefeed"
	"go.uber.org/zap"
)

const (
	// MonitorMaxDuration caps a single monitoring run.
	MonitorMaxDuration = 300 * time.Second
	// monitorInterval is how often the monitor samples quotes.
	monitorInterval = 10 * time.Second
)

// PriceProvider supplies reference price snapshots to the monitor.
type PriceProvider interface {
	Prices(ctx context.Context) pricefeed.Snapshot
}

// MonitorSeries is the per-exchange summary of a monitoring run.
type MonitorSeries struct {
	Exchange   string
	Samples    int
	MinPrice   float64
	MaxPrice   float64
	AvgPrice   float64
	Volatility float64 // (max-min)/avg, percent
}

// MonitorReport is the result of a completed (or cancelled) monitoring run.
type MonitorReport struct {
	Pair     string
	Duration time.Duration
	Series   []MonitorSeries
}

// Monitor samples the simulated quotes of a pair on every exchange for the
// given duration, polling every 10 seconds. The run is cancellable through
// ctx; cancellation returns the report built from the samples taken so far.
func (e *Engine) Monitor(ctx context.Context, source PriceProvider, pair string, duration time.Duration) (*MonitorReport, error) {
	if duration > MonitorMaxDuration {
		return nil, fmt.Errorf("monitoring duration %s exceeds the %s cap", duration, MonitorMaxDuration)
	}
	if !ContainsPair(e.pairs, pair) {
		return nil, fmt.Errorf("unknown trading pair %s", pair)
	}
	base, _, err := ParsePair(pair)
	if err != nil {
		return nil, err
	}

	e.logger.Info("Monitoring pair", zap.String("pair", pair), zap.Duration("duration", duration))

	samples := make(map[string][]float64, len(e.exchanges))
	deadline := e.now().Add(duration)

	ticker := time.NewTicker(monitorInterval)
	defer ticker.Stop()

	sample := func() {
		snapshot := source.Prices(ctx)
		referencePrice, ok := snapshot.Prices[base]
		if !ok {
			e.logger.Warn("Reference price unavailable during monitoring", zap.String("symbol", base))
			return
		}
		now := e.now()
		for _, ex := range e.exchanges {
			samples[ex.Name] = append(samples[ex.Name], e.sim.Quote(ex, base, referencePrice, now))
		}
	}

	sample()
loop:
	for e.now().Before(deadline) {
		select {
		case <-ctx.Done():
			e.logger.Info("Monitoring cancelled", zap.String("pair", pair))
			break loop
		case <-ticker.C:
			sample()
		}
	}

	report := &MonitorReport{Pair: pair, Duration: duration}
	for _, ex := range e.exchanges {
		prices := samples[ex.Name]
		if len(prices) == 0 {
			continue
		}
		minPrice, maxPrice, sum := prices[0], prices[0], 0.0
		for _, p := range prices {
			if p < minPrice {
				minPrice = p
			}
			if p > maxPrice {
				maxPrice = p
			}
			sum += p
		}
		avg := sum / float64(len(prices))
		volatility := 0.0
		if avg > 0 {
			volatility = (maxPrice - minPrice) / avg * 100
		}
		report.Series = append(report.Series, MonitorSeries{
			Exchange:   ex.Name,
			Samples:    len(prices),
			MinPrice:   minPrice,
			MaxPrice:   maxPrice,
			AvgPrice:   avg,
			Volatility: volatility,
		})
	}

	return report, nil
}
