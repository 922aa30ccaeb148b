package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Config holds all client configuration.
type Config struct {
	// Application
	LogLevel string
	HTTPPort string

	// Ethereum
	EthRPCURL       string
	ExchangeAddress string

	// Relay (off-chain order cache)
	RelayBaseURL string
	RelayWSURL   string
	RelayTimeout time.Duration

	// Order tracking
	LookbackBlocks  uint64
	RefreshInterval time.Duration

	// Contract read caching
	FeeCacheTTL time.Duration

	// Storage (watch mode event sink)
	StorageMode  string // "postgres" or "console"
	PostgresHost string
	PostgresPort string
	PostgresUser string
	PostgresPass string
	PostgresDB   string
	PostgresSSL  string
}

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		// Application defaults
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		HTTPPort: getEnvOrDefault("HTTP_PORT", "8080"),

		// Ethereum defaults
		EthRPCURL:       getEnvOrDefault("ETH_RPC_URL", "ws://localhost:8546"),
		ExchangeAddress: getEnvOrDefault("ETHERDELTA_CONTRACT", "0x8d12A197cB00D4747a1fe03395095ce2A5CC6819"),

		// Relay defaults
		RelayBaseURL: getEnvOrDefault("RELAY_BASE_URL", "https://cache2.etherdelta.com"),
		RelayWSURL:   getEnvOrDefault("RELAY_WS_URL", ""),
		RelayTimeout: getDurationOrDefault("RELAY_TIMEOUT", 15*time.Second),

		// Order tracking defaults
		LookbackBlocks:  getUint64OrDefault("ORDER_LOOKBACK_BLOCKS", 1_000_000),
		RefreshInterval: getDurationOrDefault("ORDER_REFRESH_INTERVAL", 30*time.Second),

		// Contract read caching defaults
		FeeCacheTTL: getDurationOrDefault("FEE_CACHE_TTL", 10*time.Minute),

		// Storage defaults
		StorageMode:  getEnvOrDefault("STORAGE_MODE", "console"),
		PostgresHost: getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresPort: getEnvOrDefault("POSTGRES_PORT", "5432"),
		PostgresUser: getEnvOrDefault("POSTGRES_USER", "etherdelta"),
		PostgresPass: getEnvOrDefault("POSTGRES_PASSWORD", "etherdelta123"),
		PostgresDB:   getEnvOrDefault("POSTGRES_DB", "etherdelta_client"),
		PostgresSSL:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
	}

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are valid.
func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT cannot be empty")
	}

	if c.EthRPCURL == "" {
		return fmt.Errorf("ETH_RPC_URL cannot be empty")
	}

	if !common.IsHexAddress(c.ExchangeAddress) {
		return fmt.Errorf("ETHERDELTA_CONTRACT must be a hex address, got %q", c.ExchangeAddress)
	}

	if c.RelayBaseURL == "" {
		return fmt.Errorf("RELAY_BASE_URL cannot be empty")
	}

	if c.RelayTimeout <= 0 {
		return fmt.Errorf("RELAY_TIMEOUT must be positive, got %s", c.RelayTimeout)
	}

	if c.LookbackBlocks == 0 {
		return fmt.Errorf("ORDER_LOOKBACK_BLOCKS must be positive")
	}

	if c.StorageMode != "postgres" && c.StorageMode != "console" {
		return fmt.Errorf("STORAGE_MODE must be 'postgres' or 'console', got %q", c.StorageMode)
	}

	return nil
}

// Exchange returns the exchange contract address.
func (c *Config) Exchange() common.Address {
	return common.HexToAddress(c.ExchangeAddress)
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getUint64OrDefault(key string, defaultValue uint64) uint64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}
