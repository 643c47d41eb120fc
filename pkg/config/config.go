package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Telemetry feed
	Feed FeedConfig

	// Scheduler
	Scheduler SchedulerConfig

	// Mission persistence
	Missions MissionConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool

	// Snapshot cache TTL
	SnapshotTTL time.Duration
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// FeedConfig holds telemetry feed (chart API) configuration
type FeedConfig struct {
	BaseURL string
	Source  string // chart, database, synthetic

	// Default lookback window in bars
	Lookback int

	// Requests per second against the chart API
	RateLimit float64
	RateBurst int
}

// SchedulerConfig holds refresh scheduler configuration
type SchedulerConfig struct {
	// Tickers refreshed by the watchlist job
	Watchlist []string

	// Cron expression (with seconds) for the refresh job
	RefreshSchedule string
}

// MissionConfig holds mission persistence configuration
type MissionConfig struct {
	// Store backend: postgres, file, memory
	Store string

	// Path for the file store
	FilePath string
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8099"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:        getEnv("REDIS_HOST", "localhost"),
			Port:        getEnv("REDIS_PORT", "6379"),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          getEnvAsInt("REDIS_DB", 0),
			Enabled:     getEnvAsBool("REDIS_ENABLED", false),
			SnapshotTTL: getEnvAsDuration("REDIS_SNAPSHOT_TTL", "1m"),
		},

		// Feed
		Feed: FeedConfig{
			BaseURL:   getEnv("FEED_BASE_URL", "https://fchart.stock.naver.com"),
			Source:    getEnv("FEED_SOURCE", "synthetic"),
			Lookback:  getEnvAsInt("FEED_LOOKBACK", 32),
			RateLimit: getEnvAsFloat("FEED_RATE_LIMIT", 2.0),
			RateBurst: getEnvAsInt("FEED_RATE_BURST", 1),
		},

		// Scheduler
		Scheduler: SchedulerConfig{
			Watchlist:       getEnvAsList("WATCHLIST", "RKLB"),
			RefreshSchedule: getEnv("REFRESH_SCHEDULE", "0 */5 * * * *"),
		},

		// Missions
		Missions: MissionConfig{
			Store:    getEnv("MISSION_STORE", "file"),
			FilePath: getEnv("MISSION_FILE", "missions.json"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// Monitoring
		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.Feed.Source {
	case "chart", "database", "synthetic":
	default:
		return fmt.Errorf("FEED_SOURCE must be one of: chart, database, synthetic")
	}

	switch c.Missions.Store {
	case "postgres", "file", "memory":
	default:
		return fmt.Errorf("MISSION_STORE must be one of: postgres, file, memory")
	}

	// Postgres-backed components need a connection string
	if (c.Missions.Store == "postgres" || c.Feed.Source == "database") && c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required when postgres is used")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
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

func getEnvAsList(key string, defaultValue string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
