package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/multichain-wallet/multichain-wallet/pkg/types"
)

// Config holds infrastructure-level configuration.
// Chain and token catalogs are compiled in; only endpoints and limits are
// tunable here.
type Config struct {
	// Database
	PostgresDSN string

	// Price oracle
	CoinGeckoURL string

	// Outbound fetch bound. Every balance or price request is cut off at
	// this deadline; a timed-out fetch degrades the affected row only.
	FetchTimeout time.Duration

	// Server
	Port int

	// Rate limiting
	RateLimitRPS     int
	RateLimitBurst   int
	RateLimitEnabled bool

	// Chain RPC endpoint overrides, keyed by chain ID.
	ChainRPCOverrides map[string]string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		PostgresDSN:       getEnv("POSTGRES_DSN", ""),
		CoinGeckoURL:      getEnv("COINGECKO_URL", "https://api.coingecko.com/api/v3"),
		FetchTimeout:      time.Duration(getEnvInt("FETCH_TIMEOUT_SECONDS", 15)) * time.Second,
		Port:              getEnvInt("PORT", 8080),
		RateLimitRPS:      getEnvInt("RATE_LIMIT_RPS", 10),
		RateLimitBurst:    getEnvInt("RATE_LIMIT_BURST", 20),
		RateLimitEnabled:  getEnvBool("RATE_LIMIT_ENABLED", true),
		ChainRPCOverrides: make(map[string]string),
	}

	// Per-chain RPC overrides: ETHEREUM_RPC_URL, POLYGON_RPC_URL, ...
	for _, chain := range types.DefaultChains() {
		key := strings.ToUpper(chain.ID) + "_RPC_URL"
		if v := os.Getenv(key); v != "" {
			cfg.ChainRPCOverrides[chain.ID] = v
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
// An empty POSTGRES_DSN is allowed: the daemon then runs with in-memory
// state only.
func (c *Config) Validate() error {
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT_SECONDS must be positive")
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be in 1..65535, got: %d", c.Port)
	}

	return nil
}

// Chains returns the chain set with any configured RPC overrides applied.
func (c *Config) Chains() []types.ChainConfig {
	chains := types.DefaultChains()
	for i := range chains {
		if url, ok := c.ChainRPCOverrides[chains[i].ID]; ok {
			chains[i].RPCURL = url
		}
	}
	return chains
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	valueStr = strings.ToLower(valueStr)
	return valueStr == "true" || valueStr == "1" || valueStr == "yes"
}
