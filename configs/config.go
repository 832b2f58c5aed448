package configs

import (
	"os"
	"strconv"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Auth       AuthConfig
	Trading    TradingConfig
	MarketData MarketDataConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL string
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	// CookieSecure marks the session cookie Secure (HTTPS only)
	CookieSecure bool
	// ProviderSecret verifies Bearer tokens minted by the external
	// identity provider. Empty disables the provider path.
	ProviderSecret string
	// LoginRatePerMinute caps login/register attempts per client IP
	LoginRatePerMinute int
}

// TradingConfig holds trading configuration
type TradingConfig struct {
	// StartingCredit is seeded as both trading balance and available
	// credit on registration
	StartingCredit float64
}

// MarketDataConfig holds market-data provider configuration
type MarketDataConfig struct {
	BaseURL   string
	APIKey    string
	APISecret string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("GO_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
		},
		Auth: AuthConfig{
			CookieSecure:       getEnv("GO_ENV", "development") == "production",
			ProviderSecret:     getEnv("AUTH_PROVIDER_SECRET", ""),
			LoginRatePerMinute: getEnvInt("LOGIN_RATE_PER_MINUTE", 10),
		},
		Trading: TradingConfig{
			StartingCredit: getEnvFloat("STARTING_CREDIT", 10000.0),
		},
		MarketData: MarketDataConfig{
			BaseURL:   getEnv("MARKET_DATA_URL", "https://data.alpaca.markets"),
			APIKey:    getEnv("ALPACA_API_KEY", ""),
			APISecret: getEnv("ALPACA_API_SECRET", ""),
		},
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
