package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	APIKey      string // API key for authentication
	ServiceName string
	Version     string
	Environment string

	LogLevel  string
	LogFormat string
	LogDir    string

	DBUser      string
	DBPassword  string
	DBHost      string
	DBPort      string
	DBName      string
	DBMaxConns  int
	DBMaxIdle   time.Duration
	DBMaxLife   time.Duration

	// External payment authorizer
	AuthorizerBaseURL string
	AuthorizerAPIKey  string
	AuthorizerTimeout time.Duration

	// Unlock ledger housekeeping
	StalePendingAfter time.Duration // pending rows older than this are swept to failed
	SweepInterval     time.Duration

	// Interaction recording
	ClockSkewHorizon time.Duration // max tolerated future-dated occurred_at

	// Recommendation scoring
	DecayHalfLifeDays float64
	ScoreCacheSize    int
	ScoreCacheTTL     time.Duration

	// Entitlement gate
	EntitlementCacheSize int
	EntitlementCacheTTL  time.Duration
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		APIKey:      getEnv("API_KEY", ""),
		ServiceName: getEnv("SERVICE_NAME", "coachos-core"),
		Version:     getEnv("VERSION", "dev"),
		Environment: getEnv("ENVIRONMENT", "dev"),

		LogLevel:  getEnv("LOG_LEVEL", "INFO"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogDir:    getEnv("LOG_DIR", "logs"),

		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", "coachos"),

		AuthorizerBaseURL: getEnv("AUTHORIZER_BASE_URL", ""),
		AuthorizerAPIKey:  getEnv("AUTHORIZER_API_KEY", ""),
	}

	var err error
	if cfg.Port, err = getEnvInt("PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.DBMaxConns, err = getEnvInt("DB_MAX_CONNS", 10); err != nil {
		return nil, err
	}
	if cfg.DBMaxIdle, err = getEnvDuration("DB_MAX_IDLE", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.DBMaxLife, err = getEnvDuration("DB_MAX_LIFE", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.AuthorizerTimeout, err = getEnvDuration("AUTHORIZER_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.StalePendingAfter, err = getEnvDuration("STALE_PENDING_AFTER", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = getEnvDuration("SWEEP_INTERVAL", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.ClockSkewHorizon, err = getEnvDuration("CLOCK_SKEW_HORIZON", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.DecayHalfLifeDays, err = getEnvFloat("DECAY_HALF_LIFE_DAYS", 14); err != nil {
		return nil, err
	}
	if cfg.ScoreCacheSize, err = getEnvInt("SCORE_CACHE_SIZE", 4096); err != nil {
		return nil, err
	}
	if cfg.ScoreCacheTTL, err = getEnvDuration("SCORE_CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.EntitlementCacheSize, err = getEnvInt("ENTITLEMENT_CACHE_SIZE", 8192); err != nil {
		return nil, err
	}
	if cfg.EntitlementCacheTTL, err = getEnvDuration("ENTITLEMENT_CACHE_TTL", 15*time.Minute); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("API_KEY environment variable must be set for security")
	}
	if c.AuthorizerBaseURL == "" {
		return fmt.Errorf("AUTHORIZER_BASE_URL environment variable must be set")
	}
	if c.StalePendingAfter <= c.AuthorizerTimeout {
		return fmt.Errorf("STALE_PENDING_AFTER (%s) must exceed AUTHORIZER_TIMEOUT (%s)",
			c.StalePendingAfter, c.AuthorizerTimeout)
	}
	if c.DecayHalfLifeDays <= 0 {
		return fmt.Errorf("DECAY_HALF_LIFE_DAYS must be positive, got %v", c.DecayHalfLifeDays)
	}
	return nil
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

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return f, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}
