package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Quote provider (Google Apps Script web app)
	GAS GASConfig

	// Watch-list / refresh
	Watchlist WatchlistConfig

	// Redis
	Redis RedisConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
}

// GASConfig holds the remote endpoint used for tickers and quotes.
// Only the network layer reads it; evaluation takes no configuration.
type GASConfig struct {
	Endpoint   string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	RateLimit  float64 // requests per second, 0 disables
	CacheTTL   time.Duration
}

// WatchlistConfig holds watch-list seeding and refresh parameters
type WatchlistConfig struct {
	File            string
	RefreshSchedule string
	Concurrency     int
	Timezone        string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		GAS: GASConfig{
			Endpoint:   getEnv("GAS_ENDPOINT", ""),
			Timeout:    getEnvAsDuration("GAS_TIMEOUT", "10s"),
			MaxRetries: getEnvAsInt("GAS_MAX_RETRIES", 2),
			RetryDelay: getEnvAsDuration("GAS_RETRY_DELAY", "500ms"),
			RateLimit:  getEnvAsFloat("GAS_RATE_LIMIT", 5),
			CacheTTL:   getEnvAsDuration("QUOTE_CACHE_TTL", "3m"),
		},

		Watchlist: WatchlistConfig{
			File:            getEnv("WATCHLIST_FILE", "configs/watchlist.yaml"),
			RefreshSchedule: getEnv("REFRESH_SCHEDULE", "0 */3 * * * *"),
			Concurrency:     getEnvAsInt("REFRESH_CONCURRENCY", 8),
			Timezone:        getEnv("TIMEZONE", "Asia/Taipei"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Default returns a configuration with every default applied and no
// environment lookups. Tests and the plan command use it.
func Default() *Config {
	return &Config{
		Port: "8080",
		Env:  "development",
		GAS: GASConfig{
			Timeout:    10 * time.Second,
			MaxRetries: 2,
			RetryDelay: 500 * time.Millisecond,
			RateLimit:  5,
			CacheTTL:   3 * time.Minute,
		},
		Watchlist: WatchlistConfig{
			File:            "configs/watchlist.yaml",
			RefreshSchedule: "0 */3 * * * *",
			Concurrency:     8,
			Timezone:        "Asia/Taipei",
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: "6379",
		},
		LogLevel:       "info",
		LogFormat:      "json",
		MetricsEnabled: true,
	}
}

// Location resolves the configured timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Watchlist.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// validate checks if configuration values are usable.
// A missing GAS endpoint is not an error here: the provider client reports it per request.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("ENV must be one of: development, staging, production")
	}

	if c.Watchlist.Concurrency < 1 {
		return errors.New("REFRESH_CONCURRENCY must be >= 1")
	}

	if c.GAS.MaxRetries < 0 {
		return errors.New("GAS_MAX_RETRIES must be >= 0")
	}

	if _, err := time.LoadLocation(c.Watchlist.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE %q: %w", c.Watchlist.Timezone, err)
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
