package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/solsins/aurum/internal/aurum"
	"github.com/solsins/aurum/internal/chain"
	"github.com/solsins/aurum/internal/config"
	"github.com/solsins/aurum/internal/http_api"
	"github.com/solsins/aurum/internal/notificator"
	"github.com/solsins/aurum/internal/pricing"
	"github.com/solsins/aurum/internal/repository"
	"github.com/solsins/aurum/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "aurum",
		Usage: "Aurum is the SolSins payment settlement service",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "postgres-user", Aliases: []string{"u"}, Usage: "Postgres user"},
			&cli.StringFlag{Name: "postgres-password", Aliases: []string{"p"}, Usage: "Postgres password"},
			&cli.StringFlag{Name: "postgres-host", Aliases: []string{"t"}, Usage: "Postgres host"},
			&cli.IntFlag{Name: "postgres-port", Aliases: []string{"P"}, Usage: "Postgres port"},
			&cli.StringFlag{Name: "postgres-db", Aliases: []string{"d"}, Usage: "Postgres database name"},
			&cli.StringFlag{Name: "solana-rpc-url", Aliases: []string{"r"}, Usage: "Solana JSON-RPC URL"},
			&cli.StringFlag{Name: "wallets-file", Aliases: []string{"w"}, Usage: "Wallet pool JSON file"},
			&cli.StringFlag{Name: "price-feed-url", Aliases: []string{"f"}, Usage: "SOL/USD price feed URL"},
			&cli.BoolFlag{Name: "development", Aliases: []string{"D"}, Usage: "Development mode"},
		},
		Action: func(c *cli.Context) error {
			return run(c)
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	// Load configuration from environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	// Override with flags if set
	if c.IsSet("postgres-user") {
		cfg.PostgresUser = c.String("postgres-user")
	}
	if c.IsSet("postgres-password") {
		cfg.PostgresPassword = c.String("postgres-password")
	}
	if c.IsSet("postgres-host") {
		cfg.PostgresHost = c.String("postgres-host")
	}
	if c.IsSet("postgres-port") {
		cfg.PostgresPort = c.Int("postgres-port")
	}
	if c.IsSet("postgres-db") {
		cfg.PostgresDB = c.String("postgres-db")
	}
	if c.IsSet("solana-rpc-url") {
		cfg.SolanaRPCURL = c.String("solana-rpc-url")
	}
	if c.IsSet("wallets-file") {
		cfg.WalletsFile = c.String("wallets-file")
	}
	if c.IsSet("price-feed-url") {
		cfg.PriceFeedURL = c.String("price-feed-url")
	}
	if c.IsSet("development") {
		cfg.Development = c.Bool("development")
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Development)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %v", err)
	}

	// Initialize database
	db, err := repository.NewPostgresDB(cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB, cfg.PostgresHost, cfg.PostgresPort, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	// Initialize chain client and price oracle
	chainClient := chain.NewSolana(cfg.SolanaRPCURL, log)
	oracle := pricing.NewOracle(cfg.PriceFeedURL, cfg.SolUsdFallback, log)

	// Load the platform wallet pool
	wallets, err := cfg.LoadWalletPool()
	if err != nil {
		return fmt.Errorf("failed to load wallet pool: %v", err)
	}
	pool := aurum.NewPoolSelector(wallets, chainClient, log)

	// Initialize notificator
	var telegram *notificator.TelegramNotificator
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		telegram, err = notificator.NewTelegramNotificator(log, cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			return fmt.Errorf("failed to initialize telegram notificator: %v", err)
		}
	}
	notif := notificator.NewNotificator(log, telegram)

	// Create Aurum instance
	aurumApp := aurum.New(db, chainClient, oracle, pool, notif, log, cfg)

	apiServer := http_api.NewHTTPServer(aurumApp, cfg.APIPort, log)

	go apiServer.Start()
	// Start the application
	aurumApp.Start()

	return nil
}
