package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"
)

type Config struct {
	// Pool program
	PoolProgramID string

	// RPC settings
	RPCUrl       string
	PollInterval time.Duration

	// Redis settings
	RedisAddr string

	// ClickHouse settings
	ClickHouseAddr     string
	ClickHouseDatabase string
	ClickHouseUsername string
	ClickHousePassword string

	// HTTP client settings
	HTTPTimeout  time.Duration
	MaxRetries   int
	RetryBackoff time.Duration

	// Submission settings
	ConfirmTimeout    time.Duration
	SendRetries       int
	RequireSimulation bool

	// API server
	APIListenAddr string
	APIKey        string
	DevMode       bool
}

// Validate checks that required settings are present.
func (c *Config) Validate() error {
	if c.PoolProgramID == "" {
		return fmt.Errorf("POOL_PROGRAM_ID is required")
	}
	if _, err := solana.PublicKeyFromBase58(c.PoolProgramID); err != nil {
		return fmt.Errorf("POOL_PROGRAM_ID is not a valid base58 public key: %w", err)
	}
	return nil
}

func Load() *Config {
	return &Config{
		// Pool program
		PoolProgramID: getEnv("POOL_PROGRAM_ID", ""),

		// RPC
		RPCUrl:       getEnv("SOLANA_RPC_URL", "https://api.mainnet-beta.solana.com"),
		PollInterval: getDurationEnv("POLL_INTERVAL", 30*time.Second),

		// Redis
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),

		// ClickHouse
		ClickHouseAddr:     getEnv("CLICKHOUSE_ADDR", "localhost:9000"),
		ClickHouseDatabase: getEnv("CLICKHOUSE_DATABASE", "solana"),
		ClickHouseUsername: getEnv("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),

		// HTTP
		HTTPTimeout:  getDurationEnv("HTTP_TIMEOUT", 30*time.Second),
		MaxRetries:   getIntEnv("MAX_RETRIES", 5),
		RetryBackoff: getDurationEnv("RETRY_BACKOFF", 2*time.Second),

		// Submission
		ConfirmTimeout:    getDurationEnv("CONFIRM_TIMEOUT", 60*time.Second),
		SendRetries:       getIntEnv("SEND_RETRIES", 3),
		RequireSimulation: getBoolEnv("REQUIRE_SIMULATION", false),

		// API
		APIListenAddr: getEnv("API_LISTEN_ADDR", ":8080"),
		APIKey:        getEnv("API_KEY", ""),
		DevMode:       getBoolEnv("DEV_MODE", false),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getBoolEnv(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
