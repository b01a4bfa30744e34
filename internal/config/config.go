package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/solsins/aurum/pkg/validation"
)

type Config struct {
	Development bool
	// API configuration
	APIPort int
	// Postgres configuration
	PostgresUser     string
	PostgresPassword string
	PostgresHost     string
	PostgresPort     int
	PostgresDB       string
	// Chain configuration
	SolanaRPCURL string
	// Wallet pool configuration
	WalletsFile string
	// Pricing configuration
	PriceFeedURL   string
	SolUsdFallback float64
	// Sweep configuration
	SweepIntervalSeconds int
	// Checkout configuration
	PayLabel string
	// Notification configuration
	TelegramBotToken string
	TelegramChatID   string
}

// walletsFile mirrors the JSON layout of the wallet pool file:
// {"wallets": ["<address>", ...]}
type walletsFile struct {
	Wallets []string `json:"wallets"`
}

// LoadConfig loads the configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Development:          getEnvAsBool("DEVELOPMENT", false),
		PostgresUser:         getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword:     getEnv("POSTGRES_PASSWORD", "password"),
		PostgresHost:         getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:         getEnvAsInt("POSTGRES_PORT", 5432),
		PostgresDB:           getEnv("POSTGRES_DB", "aurum"),
		SolanaRPCURL:         getEnv("SOLANA_RPC_URL", "https://api.devnet.solana.com"),
		WalletsFile:          getEnv("WALLETS_FILE", "solana-wallets.json"),
		PriceFeedURL:         getEnv("PRICE_FEED_URL", ""),
		SolUsdFallback:       getEnvAsFloat("SOL_USD_FALLBACK", 140),
		SweepIntervalSeconds: getEnvAsInt("SWEEP_INTERVAL_SECONDS", 60),
		PayLabel:             getEnv("PAY_LABEL", "SolSins"),
		TelegramBotToken:     getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:       getEnv("TELEGRAM_CHAT_ID", ""),

		APIPort: getEnvAsInt("API_PORT", 6541),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are properly set
func (c *Config) Validate() error {
	if c.SolanaRPCURL == "" {
		return fmt.Errorf("SOLANA_RPC_URL is required")
	}

	if c.WalletsFile == "" {
		return fmt.Errorf("WALLETS_FILE is required")
	}

	if c.PostgresDB == "" {
		return fmt.Errorf("POSTGRES_DB is required")
	}

	if c.PostgresHost == "" {
		return fmt.Errorf("POSTGRES_HOST is required")
	}

	if c.SweepIntervalSeconds <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL_SECONDS must be positive")
	}

	return nil
}

// LoadWalletPool reads the platform wallet pool from the configured JSON file.
// Every address must be a well-formed Solana pubkey.
func (c *Config) LoadWalletPool() ([]string, error) {
	data, err := os.ReadFile(c.WalletsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read wallets file: %w", err)
	}

	var parsed walletsFile
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse wallets file: %w", err)
	}

	if len(parsed.Wallets) == 0 {
		return nil, fmt.Errorf("no wallets configured in %s", c.WalletsFile)
	}

	for _, addr := range parsed.Wallets {
		if err := validation.ValidateAddress(addr); err != nil {
			return nil, fmt.Errorf("invalid pool address %q: %w", addr, err)
		}
	}

	return parsed.Wallets, nil
}

// Helper functions to read environment variables
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsBool(name string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.ParseBool(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsFloat(name string, defaultValue float64) float64 {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
			return value
		}
	}
	return defaultValue
}
