package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port           int
	APIKey         string
	TrustedProxies []string

	LogLevel    string
	LogFormat   string
	ServiceName string
	Version     string
	Environment string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	// Market API credentials (client-credentials OAuth flow)
	MarketClientID     string
	MarketClientSecret string
	MarketAPIBaseURL   string
	MarketTokenURL     string

	// Connected-realm the price sync observes
	RealmID int

	// Minimum interval between price snapshot downloads
	ResyncInterval time.Duration
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		APIKey:      getEnv("API_KEY", ""),
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		ServiceName: getEnv("SERVICE_NAME", "craftcost"),
		Version:     getEnv("SERVICE_VERSION", "dev"),
		Environment: getEnv("ENVIRONMENT", "dev"),

		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", "craftcost"),

		MarketClientID:     getEnv("MARKET_CLIENT_ID", ""),
		MarketClientSecret: getEnv("MARKET_CLIENT_SECRET", ""),
		MarketAPIBaseURL:   getEnv("MARKET_API_BASE_URL", DefaultMarketAPIBaseURL),
		MarketTokenURL:     getEnv("MARKET_TOKEN_URL", DefaultMarketTokenURL),
	}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	realmStr := getEnv("REALM_ID", strconv.Itoa(DefaultRealmID))
	realm, err := strconv.Atoi(realmStr)
	if err != nil {
		return nil, fmt.Errorf("invalid REALM_ID value: %w", err)
	}
	cfg.RealmID = realm

	if proxies := getEnv("TRUSTED_PROXIES", ""); proxies != "" {
		for _, proxy := range strings.Split(proxies, ",") {
			cfg.TrustedProxies = append(cfg.TrustedProxies, strings.TrimSpace(proxy))
		}
	}

	intervalStr := getEnv("RESYNC_INTERVAL", "1h")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid RESYNC_INTERVAL value: %w", err)
	}
	cfg.ResyncInterval = interval

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
