package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"arbitrage-agent-go/internal/agent"
	"arbitrage-agent-go/internal/arbitrage"
	"arbitrage-agent-go/internal/coinmarketcap"
	"arbitrage-agent-go/internal/config"
	"arbitrage-agent-go/internal/database"
	"arbitrage-agent-go/internal/logger"
	"arbitrage-agent-go/internal/pricefeed"
	"go.uber.org/zap"
)

func main() {
	// Load application configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		// We can't use the logger here because it's not initialized yet.
		panic(fmt.Sprintf("could not load config: %v", err))
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("Configuration loaded",
		zap.Int("pairs", len(cfg.Trading.Pairs)),
		zap.Int("exchanges", len(cfg.Exchanges)),
	)

	// Initialize the history database
	db, err := database.NewDatabase(cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to open history database", zap.Error(err))
	}
	log.Info("History database ready", zap.String("dsn", cfg.Database.DSN))

	// Wire the price pipeline and the engine
	client := coinmarketcap.NewClient(&cfg.CoinMarketCap, log)
	source := pricefeed.NewSource(
		client,
		log,
		arbitrage.SymbolUniverse(cfg.Trading.Pairs),
		cfg.Trading.SymbolMapping,
		time.Duration(cfg.CoinMarketCap.CacheSeconds)*time.Second,
	)
	engine := arbitrage.NewEngine(log, db, cfg.Trading.Pairs, cfg.Exchanges)
	trader := arbitrage.NewTradeSimulator(log, db)
	session := agent.NewSession(log, &cfg, db, client, source, engine, trader)

	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigchan := make(chan os.Signal, 1)
		signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
		<-sigchan
		log.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	fmt.Println(agent.WelcomeText)
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		reply, handled := session.Handle(ctx, input)
		if !handled {
			reply = "I didn't recognize that command. Type 'help' to see what I can do."
		}
		fmt.Println(reply)
		fmt.Println()
	}

	log.Info("Agent has been shut down.")
}
