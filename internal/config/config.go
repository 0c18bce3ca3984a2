package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	CoinMarketCap CoinMarketCap `mapstructure:"coinmarketcap"`
	Trading       Trading       `mapstructure:"trading"`
	Exchanges     []Exchange    `mapstructure:"exchanges"`
	Logger        Logger        `mapstructure:"logger"`
	Database      Database      `mapstructure:"database"`
}

// CoinMarketCap holds the configuration for the CoinMarketCap API.
type CoinMarketCap struct {
	ApiKey         string  `mapstructure:"apiKey"`
	BaseURL        string  `mapstructure:"base_url"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
	CacheSeconds   int     `mapstructure:"cache_seconds"`
}

// Trading holds the default trading parameters. The live values are owned by
// the agent session and can be changed at runtime with the config command.
type Trading struct {
	Pairs          []string          `mapstructure:"pairs"`
	SymbolMapping  map[string]string `mapstructure:"symbol_mapping"`
	MinProfit      float64           `mapstructure:"min_profit"`
	TradeAmount    float64           `mapstructure:"trade_amount"`
	MaxDailyTrades int               `mapstructure:"max_daily_trades"`
	AutoTrading    bool              `mapstructure:"auto_trading"`
}

// Exchange describes one simulated exchange. The order of the exchanges slice
// is significant: scan ties are broken by the first exchange encountered.
type Exchange struct {
	Name          string  `mapstructure:"name"`
	Fee           float64 `mapstructure:"fee"`            // trading fee, percent
	WithdrawalFee float64 `mapstructure:"withdrawal_fee"` // percent
	VarianceMin   float64 `mapstructure:"variance_min"`   // percent vs reference price
	VarianceMax   float64 `mapstructure:"variance_max"`
}

// Database holds the configuration for the history database.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")

	// Allow environment variables to override config file
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("coinmarketcap.base_url", "https://pro-api.coinmarketcap.com/v1")
	viper.SetDefault("coinmarketcap.timeout_seconds", 10)
	viper.SetDefault("coinmarketcap.rate_limit", 2) // requests per second
	viper.SetDefault("coinmarketcap.rate_limit_burst", 1)
	viper.SetDefault("coinmarketcap.cache_seconds", 60)
	viper.SetDefault("trading.min_profit", 1.0)
	viper.SetDefault("trading.trade_amount", 100.0)
	viper.SetDefault("trading.max_daily_trades", 10)
	viper.SetDefault("trading.auto_trading", false)
	viper.SetDefault("database.dsn", "file::memory:")

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
