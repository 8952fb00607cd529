package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// CommunityConfig identifies one community to sync.
type CommunityConfig struct {
	CommunityID string
	Name        string
}

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port string

	// Database configuration
	DBType            string // mysql, postgres, sqlite, sqlserver, etc.
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBUser            string
	DBPassword        string
	DBConnectionLimit int

	// Feed configuration
	FeedURL              string
	UnitsPerFloor        int
	CheckIntervalMinutes int
	Communities          []CommunityConfig

	// Notification policy: skip alerts for a community when one pass turns
	// up more new listings than this. 0 disables the guard.
	NewListingBurstLimit int

	// Telegram configuration (optional; alerts are logged when unset)
	TelegramBotToken string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:                 getEnv("PORT", "3000"),
		DBType:               getEnv("DB_TYPE", "mysql"),
		DBHost:               getEnv("DB_HOST", "localhost"),
		DBPort:               getEnv("DB_PORT", "3306"),
		DBDatabase:           getEnv("DB_DATABASE", ""),
		DBUser:               getEnv("DB_USER", ""),
		DBPassword:           getEnv("DB_PASSWORD", ""),
		DBConnectionLimit:    getEnvAsInt("DB_CONNECTION_LIMIT", 5),
		FeedURL:              getEnv("FEED_URL", ""),
		UnitsPerFloor:        getEnvAsInt("FEED_UNITS_PER_FLOOR", 10),
		CheckIntervalMinutes: getEnvAsInt("CHECK_INTERVAL_MINUTES", 30),
		NewListingBurstLimit: getEnvAsInt("NEW_LISTING_BURST_LIMIT", 0),
		TelegramBotToken:     getEnv("TELEGRAM_BOT_TOKEN", ""),
	}

	communities, err := parseCommunities(getEnv("COMMUNITIES", ""))
	if err != nil {
		return nil, err
	}
	cfg.Communities = communities

	// Validate required fields
	if cfg.DBDatabase == "" {
		return nil, fmt.Errorf("DB_DATABASE is required")
	}
	if cfg.DBType != "sqlite" && cfg.DBUser == "" {
		return nil, fmt.Errorf("DB_USER is required")
	}
	if cfg.FeedURL == "" {
		return nil, fmt.Errorf("FEED_URL is required")
	}
	if len(cfg.Communities) == 0 {
		return nil, fmt.Errorf("COMMUNITIES is required")
	}
	if cfg.CheckIntervalMinutes < 1 {
		return nil, fmt.Errorf("CHECK_INTERVAL_MINUTES must be at least 1")
	}

	return cfg, nil
}

// parseCommunities parses COMMUNITIES, a comma-separated list of
// "feedId=displayName" pairs.
func parseCommunities(raw string) ([]CommunityConfig, error) {
	if raw == "" {
		return nil, nil
	}

	var communities []CommunityConfig
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		id, name, found := strings.Cut(pair, "=")
		if !found || id == "" || name == "" {
			return nil, fmt.Errorf("COMMUNITIES entry %q is not id=name", pair)
		}
		communities = append(communities, CommunityConfig{
			CommunityID: strings.TrimSpace(id),
			Name:        strings.TrimSpace(name),
		})
	}

	return communities, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
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
