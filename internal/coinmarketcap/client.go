package coinmarketcap

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"arbitrage-agent-go/internal/config"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const quotesPath = "/cryptocurrency/quotes/latest"

// QuoteClient defines the interface for the CoinMarketCap quotes client.
type QuoteClient interface {
	// GetQuotes returns the latest USD price for each requested symbol.
	// Symbols unknown to the API are omitted from the result.
	GetQuotes(ctx context.Context, symbols []string) (map[string]float64, error)
	SetApiKey(key string)
	HasApiKey() bool
}

// Client is a client for the CoinMarketCap REST API.
// It implements the QuoteClient interface.
type Client struct {
	client  *resty.Client
	logger  *zap.Logger
	limiter *rate.Limiter

	mu     sync.RWMutex
	apiKey string
}

// ensure Client implements the interface
var _ QuoteClient = (*Client)(nil)

// NewClient creates a new CoinMarketCap API client.
func NewClient(cfg *config.CoinMarketCap, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second)

	// The free CMC tier is tightly rate limited, so throttle client-side.
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)

	return &Client{
		client:  client,
		logger:  logger,
		limiter: limiter,
		apiKey:  cfg.ApiKey,
	}
}

// SetApiKey replaces the API key used for subsequent requests.
func (c *Client) SetApiKey(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apiKey = key
}

// HasApiKey reports whether an API key has been configured.
func (c *Client) HasApiKey() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey != ""
}

// quotesResponse mirrors the shape of the quotes/latest endpoint. A response
// without the "data" object is an API-level error.
type quotesResponse struct {
	Status struct {
		ErrorCode    int    `json:"error_code"`
		ErrorMessage string `json:"error_message"`
	} `json:"status"`
	Data map[string]struct {
		Quote struct {
			USD struct {
				Price float64 `json:"price"`
			} `json:"USD"`
		} `json:"quote"`
	} `json:"data"`
}

// GetQuotes fetches the latest USD quote for the given symbols in one batch
// request. A failed fetch is returned as an error after a single attempt;
// callers are expected to fall back to cached data rather than retry.
func (c *Client) GetQuotes(ctx context.Context, symbols []string) (map[string]float64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	c.mu.RLock()
	apiKey := c.apiKey
	c.mu.RUnlock()

	var result quotesResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accepts", "application/json").
		SetHeader("X-CMC_PRO_API_KEY", apiKey).
		SetQueryParam("symbol", strings.Join(symbols, ",")).
		SetQueryParam("convert", "USD").
		SetResult(&result).
		Get(quotesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get quotes: %w", err)
	}
	if resp.IsError() || result.Data == nil {
		msg := result.Status.ErrorMessage
		if msg == "" {
			msg = "unknown error"
		}
		c.logger.Warn("CoinMarketCap returned an error response",
			zap.Int("status", resp.StatusCode()),
			zap.String("error_message", msg),
		)
		return nil, fmt.Errorf("quotes request failed: %s", msg)
	}

	prices := make(map[string]float64, len(result.Data))
	for symbol, entry := range result.Data {
		prices[symbol] = entry.Quote.USD.Price
	}

	c.logger.Debug("Fetched quotes", zap.Int("requested", len(symbols)), zap.Int("returned", len(prices)))
	return prices, nil
}
