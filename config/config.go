package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"

	"plottwist/database"
)

// Config holds all application configuration
type Config struct {
	// HTTP server configuration
	HTTPPort int

	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated)

	// Redis configuration
	RedisAddr string // Redis address for the leaderboard cache; empty disables caching

	// Economy configuration
	SignupBonus     int64 // Coins credited on registration
	DailyBonus      int64 // Coins credited per daily bonus claim
	CreatorBetLimit int64 // Total stake a creator may place on their own market

	// Dispute configuration
	DisputeWindowHours int // Hours after resolution during which disputes are accepted

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			// In test environment, use a default test config instead of panicking
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// DisputeWindow returns the dispute window as a duration
func (c *Config) DisputeWindow() time.Duration {
	return time.Duration(c.DisputeWindowHours) * time.Hour
}

// load loads configuration from the environment, with .env overlay for local development
func load() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	config := &Config{
		HTTPPort: 8080,

		// Database
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		// NATS
		NATSServers: getEnvWithDefault("NATS_SERVERS", "nats://nats:4222"),

		// Redis
		RedisAddr: os.Getenv("REDIS_ADDR"),

		// Economy defaults
		SignupBonus:     1000,
		DailyBonus:      100,
		CreatorBetLimit: 200,

		// Disputes
		DisputeWindowHours: 24,

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if port := os.Getenv("HTTP_PORT"); port != "" {
		if parsed, err := strconv.Atoi(port); err == nil {
			config.HTTPPort = parsed
		}
	}
	if bonus := os.Getenv("SIGNUP_BONUS"); bonus != "" {
		if parsed, err := strconv.ParseInt(bonus, 10, 64); err == nil {
			config.SignupBonus = parsed
		}
	}
	if bonus := os.Getenv("DAILY_BONUS"); bonus != "" {
		if parsed, err := strconv.ParseInt(bonus, 10, 64); err == nil {
			config.DailyBonus = parsed
		}
	}
	if limit := os.Getenv("CREATOR_BET_LIMIT"); limit != "" {
		if parsed, err := strconv.ParseInt(limit, 10, 64); err == nil {
			config.CreatorBetLimit = parsed
		}
	}
	if hours := os.Getenv("DISPUTE_WINDOW_HOURS"); hours != "" {
		if parsed, err := strconv.Atoi(hours); err == nil {
			config.DisputeWindowHours = parsed
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:        "test",
		HTTPPort:           8080,
		SignupBonus:        1000,
		DailyBonus:         100,
		CreatorBetLimit:    200,
		DisputeWindowHours: 24,
	}
}
