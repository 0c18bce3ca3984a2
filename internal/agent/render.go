package agent

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"arbitrage-agent-go/internal/arbitrage"
	"arbitrage-agent-go/internal/config"
	"arbitrage-agent-go/internal/models"
	"arbitrage-agent-go/internal/pricefeed"
)

const helpText = `Available commands:

scan - Search for current arbitrage opportunities
history - View history of detected opportunities
trades - View history of executed trades
status - View current agent status
dashboard [PAIR] - Show detailed dashboard for a specific pair (e.g., dashboard BTC-USDT)
dashboard_all - Show dashboard with all pairs and opportunities
config [param] [value] - Configure trading parameters
setup_api [api_key] - Configure CoinMarketCap API key
monitor [PAIR] [SECONDS] - Watch a pair for up to 300 seconds
help - Show this help

Usage examples:
dashboard BTC-USDT - Shows detailed analysis for Bitcoin
config min_profit 1.5 - Sets the minimum profit to 1.5%
config auto_trading true - Enables auto-trading
setup_api YOUR_API_KEY - Configures the CoinMarketCap API key`

// WelcomeText is printed once when the agent starts.
const WelcomeText = `Welcome to the cryptocurrency arbitrage agent. It finds buy/sell
opportunities across simulated exchanges and can execute simulated trades
automatically.

Cryptocurrency trading involves significant risk, including loss of capital.
This agent only simulates trades and its output is not financial advice.

Type 'help' to list the available commands. To use live data, configure a
CoinMarketCap API key with 'setup_api YOUR_API_KEY'.`

func formatUpdated(at time.Time) string {
	if at.IsZero() {
		return "Not available"
	}
	return at.Format("15:04:05")
}

// FormatOpportunities renders the scan result.
func FormatOpportunities(opportunities []models.Opportunity, skipped []string) string {
	var b strings.Builder

	if len(opportunities) == 0 {
		b.WriteString("No significant arbitrage opportunities found at this time.")
	} else {
		b.WriteString("Arbitrage opportunities detected:\n\n")
		for i, opp := range opportunities {
			fmt.Fprintf(&b, "#%d - Pair: %s\n", i+1, opp.Pair)
			fmt.Fprintf(&b, "   Buy on: %s at $%.4f\n", strings.ToUpper(opp.BuyExchange), opp.BuyPrice)
			fmt.Fprintf(&b, "   Sell on: %s at $%.4f\n", strings.ToUpper(opp.SellExchange), opp.SellPrice)
			fmt.Fprintf(&b, "   Gross difference: %.2f%%\n", opp.GrossDiffPercent)
			fmt.Fprintf(&b, "   Net profit: %.2f%%\n\n", opp.NetProfitPercent)
		}
		b.WriteString("Note: this information does not constitute financial advice. ")
		b.WriteString("Consider trading fees, withdrawal fees and risks before executing any trade.")
	}

	if len(skipped) > 0 {
		fmt.Fprintf(&b, "\n\nSkipped pairs (no price data): %s", strings.Join(skipped, ", "))
	}
	return b.String()
}

// FormatTradeNotification describes a simulated fill.
func FormatTradeNotification(trade *models.Trade) string {
	base := trade.Pair
	if b, _, err := arbitrage.ParsePair(trade.Pair); err == nil {
		base = b
	}

	var b strings.Builder
	b.WriteString("Trade executed automatically:\n")
	fmt.Fprintf(&b, "Buy: %.6f %s on %s at $%.4f\n", trade.Units, base, strings.ToUpper(trade.BuyExchange), trade.BuyPrice)
	fmt.Fprintf(&b, "Sell: %.6f %s on %s at $%.4f\n", trade.Units, base, strings.ToUpper(trade.SellExchange), trade.SellPrice)
	fmt.Fprintf(&b, "Estimated profit: $%.2f (%.2f%%)", trade.ProfitAmount, trade.ProfitPercent)
	return b.String()
}

// FormatHistory renders the last detected opportunities, oldest first.
func FormatHistory(opportunities []models.Opportunity) string {
	if len(opportunities) == 0 {
		return "No arbitrage opportunity history recorded."
	}

	var b strings.Builder
	b.WriteString("Arbitrage opportunity history:\n\n")
	for i, opp := range opportunities {
		fmt.Fprintf(&b, "#%d - %s - %s: %.2f%% (%s -> %s)\n",
			i+1,
			opp.DetectedAt.Format("2006-01-02 15:04:05"),
			opp.Pair,
			opp.GrossDiffPercent,
			opp.BuyExchange,
			opp.SellExchange,
		)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatTrades renders the full trade history.
func FormatTrades(trades []models.Trade) string {
	if len(trades) == 0 {
		return "No trade history available."
	}

	var b strings.Builder
	b.WriteString("Trade history:\n\n")
	for i, trade := range trades {
		fmt.Fprintf(&b, "#%d - %s - %s\n", i+1, trade.ExecutedAt.Format("2006-01-02 15:04:05"), trade.Pair)
		fmt.Fprintf(&b, "   Buy: %s at $%.4f\n", strings.ToUpper(trade.BuyExchange), trade.BuyPrice)
		fmt.Fprintf(&b, "   Sell: %s at $%.4f\n", strings.ToUpper(trade.SellExchange), trade.SellPrice)
		fmt.Fprintf(&b, "   Amount: $%.2f USDT\n", trade.Amount)
		fmt.Fprintf(&b, "   Profit: $%.2f (%.2f%%)\n", trade.ProfitAmount, trade.ProfitPercent)
		fmt.Fprintf(&b, "   Status: %s\n\n", trade.Status)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatStatus renders the agent status summary.
func FormatStatus(settings arbitrage.Settings, exchanges []config.Exchange, lastUpdated time.Time, tradeCount int64, hasApiKey bool) string {
	var b strings.Builder
	b.WriteString("Current status of the arbitrage agent:\n\n")

	b.WriteString("Configuration:\n")
	fmt.Fprintf(&b, "- Minimum profit percentage: %g%%\n", settings.MinProfit)
	fmt.Fprintf(&b, "- Amount per trade: %g USDT\n", settings.TradeAmount)
	fmt.Fprintf(&b, "- Maximum daily trades: %d\n", settings.MaxDailyTrades)
	if settings.AutoTrading {
		b.WriteString("- Auto-trading: ENABLED\n\n")
	} else {
		b.WriteString("- Auto-trading: DISABLED\n\n")
	}

	b.WriteString("Configured exchanges:\n")
	for _, ex := range exchanges {
		fmt.Fprintf(&b, "- %s (fee %g%%, withdrawal %g%%)\n", ex.Name, ex.Fee, ex.WithdrawalFee)
	}

	fmt.Fprintf(&b, "\nLast price update: %s\n", formatUpdated(lastUpdated))
	fmt.Fprintf(&b, "Trades today: %d/%d\n", tradeCount, settings.MaxDailyTrades)
	if hasApiKey {
		b.WriteString("\nCoinMarketCap API: configured")
	} else {
		b.WriteString("\nCoinMarketCap API: not configured")
	}
	return b.String()
}

// FormatDashboardAll renders the full-universe dashboard.
func FormatDashboardAll(entries []arbitrage.DashboardEntry, pairs []string, snapshot pricefeed.Snapshot) string {
	var b strings.Builder
	b.WriteString("COMPLETE ARBITRAGE DASHBOARD\n\n")

	if len(entries) == 0 {
		b.WriteString("No positive arbitrage opportunities found at this time.\n\n")
	} else {
		b.WriteString("ARBITRAGE OPPORTUNITIES\n")
		w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PAIR\tBUY ON\tPRICE\tSELL ON\tPRICE\tPROFIT")
		for _, entry := range entries {
			fmt.Fprintf(w, "%s\t%s\t$%.4f\t%s\t$%.4f\t%.2f%%\n",
				entry.Pair,
				strings.ToUpper(entry.BuyExchange),
				entry.BuyPrice,
				strings.ToUpper(entry.SellExchange),
				entry.SellPrice,
				entry.NetProfitPercent,
			)
		}
		w.Flush()
		b.WriteString("\n")
	}

	b.WriteString("REFERENCE PRICES BY CRYPTOCURRENCY\n")
	seen := make(map[string]struct{})
	for _, pair := range pairs {
		base, _, err := arbitrage.ParsePair(pair)
		if err != nil {
			continue
		}
		if _, ok := seen[base]; ok {
			continue
		}
		seen[base] = struct{}{}
		if price, ok := snapshot.Prices[base]; ok {
			fmt.Fprintf(&b, "%s: $%.4f\n", base, price)
		}
	}

	fmt.Fprintf(&b, "\nData updated: %s\n", formatUpdated(snapshot.FetchedAt))
	b.WriteString("To see details for a specific pair, use the command 'dashboard [PAIR]'.")
	return b.String()
}

// FormatPairReport renders the single-pair dashboard.
func FormatPairReport(report *arbitrage.PairReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "DASHBOARD: %s (%s)\n\n", report.Pair, report.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Reference price: $%.4f\n\n", report.ReferencePrice)

	b.WriteString("EXCHANGE RANKING BY PRICE (HIGH TO LOW)\n")
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EXCHANGE\tPRICE\tFEE %\tWITH FEES\tEFF. SELL")
	for _, q := range report.Ranking {
		fmt.Fprintf(w, "%s\t$%.4f\t%g%%\t$%.4f\t$%.4f\n",
			strings.ToUpper(q.Exchange.Name),
			q.Price,
			q.Exchange.Fee,
			q.CostAfterFees,
			q.EffectiveSellValue,
		)
	}
	w.Flush()
	b.WriteString("\n")

	b.WriteString("BEST ARBITRAGE OPPORTUNITY\n")
	if report.HasOpportunity {
		fmt.Fprintf(&b, "Buy on: %s at $%.4f\n", strings.ToUpper(report.BuyExchange), report.BuyPrice)
		fmt.Fprintf(&b, "Sell on: %s at $%.4f\n", strings.ToUpper(report.SellExchange), report.SellPrice)
		fmt.Fprintf(&b, "Price difference: %.2f%%\n", report.PriceDiffPercent)
		if report.NetProfitPercent > 0 {
			fmt.Fprintf(&b, "Net profit (after fees): %.2f%%\n\n", report.NetProfitPercent)
		} else {
			fmt.Fprintf(&b, "Net profit (after fees): %.2f%% - not profitable\n\n", report.NetProfitPercent)
		}
	} else {
		b.WriteString("No profitable arbitrage opportunity between different exchanges.\n\n")
	}

	b.WriteString("VARIATION STATISTICS\n")
	fmt.Fprintf(&b, "Maximum price: $%.4f\n", report.Stats.MaxPrice)
	fmt.Fprintf(&b, "Minimum price: $%.4f\n", report.Stats.MinPrice)
	fmt.Fprintf(&b, "Average price: $%.4f\n", report.Stats.AvgPrice)
	fmt.Fprintf(&b, "Spread between exchanges: %.2f%%\n\n", report.Stats.SpreadPercent)

	b.WriteString("To update prices, use the 'scan' command.\n")
	b.WriteString("To see arbitrage opportunities, use the 'dashboard_all' command.")
	return b.String()
}

// FormatMonitorReport renders the result of a monitoring run.
func FormatMonitorReport(report *arbitrage.MonitorReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Monitoring completed for %s:\n\n", report.Pair)

	if len(report.Series) == 0 {
		b.WriteString("No price data could be collected.\n\n")
	}
	for _, series := range report.Series {
		fmt.Fprintf(&b, "%s:\n", strings.ToUpper(series.Exchange))
		fmt.Fprintf(&b, "  Minimum price: $%.4f\n", series.MinPrice)
		fmt.Fprintf(&b, "  Maximum price: $%.4f\n", series.MaxPrice)
		fmt.Fprintf(&b, "  Average price: $%.4f\n", series.AvgPrice)
		fmt.Fprintf(&b, "  Volatility: %.2f%%\n\n", series.Volatility)
	}

	b.WriteString("Use 'scan' to see current arbitrage opportunities.")
	return b.String()
}
