package arbitrage

import (
	"fmt"
	"hash/fnv"
	"time"

	"arbitrage-agent-go/internal/config"
)

const (
	// quoteWindow is how long a simulated quote stays stable. Quotes only
	// move across window boundaries, so repeated scans within a window do
	// not thrash the price cache.
	quoteWindow = 5 * time.Minute

	// hashDomain is the resolution of the variance interpolation.
	hashDomain = 10000
)

// QuoteSimulator derives deterministic per-exchange quotes from a reference
// price. For a fixed (exchange, symbol, window) the quote is a pure function
// of its inputs.
type QuoteSimulator struct {
	window time.Duration
}

// NewQuoteSimulator creates a simulator with the default 5-minute window.
func NewQuoteSimulator() *QuoteSimulator {
	return &QuoteSimulator{window: quoteWindow}
}

// Quote returns the simulated price of symbol on the given exchange. The
// variance percentage is picked inside the exchange's configured band by a
// stable FNV-1a hash of (exchange, symbol, time bucket), then applied as a
// multiplicative adjustment to the reference price.
func (s *QuoteSimulator) Quote(ex config.Exchange, symbol string, referencePrice float64, at time.Time) float64 {
	bucket := at.Unix() / int64(s.window.Seconds())

	h := fnv.New64a()
	fmt.Fprintf(h, "%s:%s:%d", ex.Name, symbol, bucket)
	n := h.Sum64() % hashDomain

	variation := ex.VarianceMin + (ex.VarianceMax-ex.VarianceMin)*(float64(n)/hashDomain)
	return referencePrice * (1 + variation/100)
}
