package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	// DatabaseURL is a MySQL DSN for the ticker catalog; empty means built-in data.
	DatabaseURL string
	// TickersFile optionally points to a YAML ticker catalog.
	TickersFile string

	// StreamMinInterval is the shortest refresh interval accepted on /ws.
	StreamMinInterval time.Duration

	// Per-client request limit; RateLimitRPS 0 disables it.
	RateLimitRPS   float64
	RateLimitBurst int

	// Dashboard client settings
	APIURL      string
	RefreshCron string
	// LogFile receives dashboard logs so they don't draw over the terminal UI.
	LogFile string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "5000"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		TickersFile: getEnv("TICKERS_FILE", ""),

		StreamMinInterval: time.Duration(getEnvInt("STREAM_MIN_INTERVAL_SECONDS", 1)) * time.Second,
		RateLimitRPS:      getEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:    getEnvInt("RATE_LIMIT_BURST", 20),

		APIURL:      getEnv("API_URL", "http://localhost:5000/api"),
		RefreshCron: getEnv("REFRESH_CRON", "@every 30s"),
		LogFile:     getEnv("DASHBOARD_LOG_FILE", "dashboard.log"),
	}
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f >= 0 {
			return f
		}
	}
	return defaultValue
}
