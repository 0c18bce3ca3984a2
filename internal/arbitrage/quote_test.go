package arbitrage

import (
	"testing"
	"time"

	"arbitrage-agent-go/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestQuoteSimulator_StableWithinWindow(t *testing.T) {
	sim := NewQuoteSimulator()
	ex := config.Exchange{Name: "binance", VarianceMin: -0.1, VarianceMax: 0.1}

	// windowStart is aligned to a 5-minute boundary, so the whole window
	// [windowStart, windowStart+299s] maps to one bucket.
	windowStart := time.Unix(1714560000, 0) // divisible by 300

	first := sim.Quote(ex, "BTC", 62000, windowStart)
	for _, offset := range []time.Duration{time.Second, time.Minute, 299 * time.Second} {
		assert.Equal(t, first, sim.Quote(ex, "BTC", 62000, windowStart.Add(offset)),
			"quote must not move within a window")
	}

	next := sim.Quote(ex, "BTC", 62000, windowStart.Add(300*time.Second))
	assert.NotEqual(t, first, next, "quote should move across window boundaries")
}

func TestQuoteSimulator_WithinVarianceBounds(t *testing.T) {
	sim := NewQuoteSimulator()
	ex := config.Exchange{Name: "kraken", VarianceMin: -0.3, VarianceMax: 0.2}
	ref := 145.0

	lower := ref * (1 + ex.VarianceMin/100)
	upper := ref * (1 + ex.VarianceMax/100)

	at := time.Unix(1714560000, 0)
	for i := 0; i < 500; i++ {
		price := sim.Quote(ex, "SOL", ref, at.Add(time.Duration(i)*quoteWindow))
		assert.GreaterOrEqual(t, price, lower)
		assert.LessOrEqual(t, price, upper)
	}
}

func TestQuoteSimulator_KeyedByExchangeAndSymbol(t *testing.T) {
	sim := NewQuoteSimulator()
	at := time.Unix(1714560000, 0)

	a := config.Exchange{Name: "binance", VarianceMin: -1, VarianceMax: 1}
	b := config.Exchange{Name: "kucoin", VarianceMin: -1, VarianceMax: 1}

	assert.NotEqual(t, sim.Quote(a, "BTC", 100, at), sim.Quote(b, "BTC", 100, at))
	assert.NotEqual(t, sim.Quote(a, "BTC", 100, at), sim.Quote(a, "ETH", 100, at))
}

func TestQuoteSimulator_DegenerateBand(t *testing.T) {
	sim := NewQuoteSimulator()
	ex := config.Exchange{Name: "fixed", VarianceMin: 5, VarianceMax: 5}

	price := sim.Quote(ex, "BTC", 100, time.Now())
	assert.InDelta(t, 105.0, price, 1e-9, "a zero-width band pins the quote")
}
