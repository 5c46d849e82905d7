package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Database
	DatabasePath string

	// Google Drive
	ServiceAccountFile string
	DriveFolderID      string
	DriveRateLimit     float64 // Drive API requests per second

	// Twitter OAuth1
	ConsumerKey    string
	ConsumerSecret string
	AccessKey      string
	AccessSecret   string

	// Posting
	TempDir           string
	PostCaption       string
	FallbackAltText   string
	RateLimitCooldown time.Duration // 0 means fail fast on a 429

	// Logging
	LogLevel string

	// Scheduler settings
	PostSchedule   string // cron expression for the serve daemon
	MaxPostsPerDay int
}

// Load reads configuration from environment variables.
// It automatically loads .env file if present.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DatabasePath:       getEnv("DATABASE_PATH", "data/recsbot.db"),
		ServiceAccountFile: getEnv("SERVICE_ACCOUNT_FILE", ""),
		DriveFolderID:      getEnv("DRIVE_FOLDER_ID", ""),
		ConsumerKey:        getEnv("CONSUMER_KEY", ""),
		ConsumerSecret:     getEnv("CONSUMER_SECRET", ""),
		AccessKey:          getEnv("ACCESS_KEY", ""),
		AccessSecret:       getEnv("ACCESS_SECRET", ""),
		TempDir:            getEnv("TEMP_DIR", "recsbot_tmp"),
		PostCaption:        getEnv("POST_CAPTION", "today's recommendation"),
		FallbackAltText:    getEnv("FALLBACK_ALT_TEXT", "A recommended image"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		PostSchedule:       getEnv("POST_SCHEDULE", "0 */6 * * *"),
	}

	// Parse durations
	var err error
	cfg.RateLimitCooldown, err = time.ParseDuration(getEnv("RATE_LIMIT_COOLDOWN", "2h"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_COOLDOWN: %w", err)
	}

	// Parse numbers
	maxPosts, err := strconv.Atoi(getEnv("MAX_POSTS_PER_DAY", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_POSTS_PER_DAY: %w", err)
	}
	cfg.MaxPostsPerDay = maxPosts

	rateLimit, err := strconv.ParseFloat(getEnv("DRIVE_RATE_LIMIT", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid DRIVE_RATE_LIMIT: %w", err)
	}
	cfg.DriveRateLimit = rateLimit

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	return nil
}

// ValidateForDrive checks configuration needed to browse and fetch from Drive.
func (c *Config) ValidateForDrive() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.ServiceAccountFile == "" {
		return fmt.Errorf("SERVICE_ACCOUNT_FILE is required for Drive access")
	}
	if c.DriveFolderID == "" {
		return fmt.Errorf("DRIVE_FOLDER_ID is required for Drive access")
	}
	return nil
}

// ValidateForPosting checks configuration needed to publish to Twitter.
func (c *Config) ValidateForPosting() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.ConsumerKey == "" {
		return fmt.Errorf("CONSUMER_KEY is required for posting")
	}
	if c.ConsumerSecret == "" {
		return fmt.Errorf("CONSUMER_SECRET is required for posting")
	}
	if c.AccessKey == "" {
		return fmt.Errorf("ACCESS_KEY is required for posting")
	}
	if c.AccessSecret == "" {
		return fmt.Errorf("ACCESS_SECRET is required for posting")
	}
	return nil
}

// ValidateForServe checks all configuration needed for serve mode.
func (c *Config) ValidateForServe() error {
	if err := c.ValidateForDrive(); err != nil {
		return err
	}
	if err := c.ValidateForPosting(); err != nil {
		return err
	}
	if c.PostSchedule == "" {
		return fmt.Errorf("POST_SCHEDULE is required for serve mode")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
