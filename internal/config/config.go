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
	Port       int
	LogLevel   string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	APIKey     string // API key for authentication

	OutcomeTablesPath string

	// Arcade tuning
	Profile        string
	PityCap        int
	PityFloor      string
	ClaimXP        int
	WheelShardCost int
	DraftOffers    int
	VaultLockHours int
	MissionWindow  time.Duration

	// Progression tuning
	TierBaseXP  int
	MaxTier     int
	MaxTierStep int

	// Scheduler
	VaultSweepInterval time.Duration
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:          getEnv("LOG_LEVEL", "INFO"),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBName:            getEnv("DB_NAME", "arcade"),
		APIKey:            getEnv("API_KEY", ""),
		OutcomeTablesPath: getEnv("OUTCOME_TABLES_PATH", ConfigPathOutcomeTables),
		Profile:           getEnv("ARCADE_PROFILE", "default"),
		PityFloor:         getEnv("PITY_FLOOR", "uncommon"),
	}

	var err error
	if cfg.Port, err = getEnvInt("PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.PityCap, err = getEnvInt("PITY_CAP", 10); err != nil {
		return nil, err
	}
	if cfg.ClaimXP, err = getEnvInt("CLAIM_XP", 25); err != nil {
		return nil, err
	}
	if cfg.WheelShardCost, err = getEnvInt("WHEEL_SHARD_COST", 50); err != nil {
		return nil, err
	}
	if cfg.DraftOffers, err = getEnvInt("DRAFT_OFFERS", 3); err != nil {
		return nil, err
	}
	if cfg.VaultLockHours, err = getEnvInt("VAULT_LOCK_HOURS", 24); err != nil {
		return nil, err
	}
	if cfg.TierBaseXP, err = getEnvInt("TIER_BASE_XP", 100); err != nil {
		return nil, err
	}
	if cfg.MaxTier, err = getEnvInt("MAX_TIER", 25); err != nil {
		return nil, err
	}
	if cfg.MaxTierStep, err = getEnvInt("MAX_TIER_STEP", 0); err != nil {
		return nil, err
	}
	if cfg.MissionWindow, err = getEnvDuration("MISSION_WINDOW", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.VaultSweepInterval, err = getEnvDuration("VAULT_SWEEP_INTERVAL", 10*time.Minute); err != nil {
		return nil, err
	}

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	return cfg, nil
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
