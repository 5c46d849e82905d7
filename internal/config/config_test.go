package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env and restore after test
	origEnv := os.Environ()
	t.Cleanup(func() {
		os.Clearenv()
		for _, e := range origEnv {
			for i := 0; i < len(e); i++ {
				if e[i] == '=' {
					os.Setenv(e[:i], e[i+1:])
					break
				}
			}
		}
	})

	t.Run("defaults", func(t *testing.T) {
		os.Clearenv()
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "data/recsbot.db", cfg.DatabasePath)
		assert.Equal(t, "recsbot_tmp", cfg.TempDir)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, 2*time.Hour, cfg.RateLimitCooldown)
		assert.Equal(t, 4, cfg.MaxPostsPerDay)
		assert.Equal(t, 5.0, cfg.DriveRateLimit)
		assert.Equal(t, "0 */6 * * *", cfg.PostSchedule)
	})

	t.Run("custom values", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("DATABASE_PATH", "/custom/path.db")
		os.Setenv("DRIVE_FOLDER_ID", "folder-123")
		os.Setenv("CONSUMER_KEY", "ck")
		os.Setenv("RATE_LIMIT_COOLDOWN", "30m")
		os.Setenv("MAX_POSTS_PER_DAY", "10")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "/custom/path.db", cfg.DatabasePath)
		assert.Equal(t, "folder-123", cfg.DriveFolderID)
		assert.Equal(t, "ck", cfg.ConsumerKey)
		assert.Equal(t, 30*time.Minute, cfg.RateLimitCooldown)
		assert.Equal(t, 10, cfg.MaxPostsPerDay)
	})

	t.Run("invalid duration", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("RATE_LIMIT_COOLDOWN", "invalid")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "RATE_LIMIT_COOLDOWN")
	})

	t.Run("invalid integer", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("MAX_POSTS_PER_DAY", "notanumber")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "MAX_POSTS_PER_DAY")
	})

	t.Run("invalid rate limit", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("DRIVE_RATE_LIMIT", "fast")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "DRIVE_RATE_LIMIT")
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := &Config{DatabasePath: "test.db"}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing database path", func(t *testing.T) {
		cfg := &Config{}
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "DATABASE_PATH")
	})
}

func TestConfig_ValidateForDrive(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := &Config{
			DatabasePath:       "test.db",
			ServiceAccountFile: "sa.json",
			DriveFolderID:      "folder-123",
		}
		assert.NoError(t, cfg.ValidateForDrive())
	})

	t.Run("missing service account", func(t *testing.T) {
		cfg := &Config{
			DatabasePath:  "test.db",
			DriveFolderID: "folder-123",
		}
		err := cfg.ValidateForDrive()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "SERVICE_ACCOUNT_FILE")
	})

	t.Run("missing folder id", func(t *testing.T) {
		cfg := &Config{
			DatabasePath:       "test.db",
			ServiceAccountFile: "sa.json",
		}
		err := cfg.ValidateForDrive()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "DRIVE_FOLDER_ID")
	})
}

func TestConfig_ValidateForPosting(t *testing.T) {
	valid := &Config{
		DatabasePath:   "test.db",
		ConsumerKey:    "ck",
		ConsumerSecret: "cs",
		AccessKey:      "ak",
		AccessSecret:   "as",
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, valid.ValidateForPosting())
	})

	missing := []struct {
		name string
		mut  func(c *Config)
		want string
	}{
		{"consumer key", func(c *Config) { c.ConsumerKey = "" }, "CONSUMER_KEY"},
		{"consumer secret", func(c *Config) { c.ConsumerSecret = "" }, "CONSUMER_SECRET"},
		{"access key", func(c *Config) { c.AccessKey = "" }, "ACCESS_KEY"},
		{"access secret", func(c *Config) { c.AccessSecret = "" }, "ACCESS_SECRET"},
	}

	for _, tt := range missing {
		t.Run("missing "+tt.name, func(t *testing.T) {
			cfg := *valid
			tt.mut(&cfg)
			err := cfg.ValidateForPosting()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfig_ValidateForServe(t *testing.T) {
	t.Run("requires drive and posting config", func(t *testing.T) {
		cfg := &Config{DatabasePath: "test.db"}
		assert.Error(t, cfg.ValidateForServe())
	})

	t.Run("valid", func(t *testing.T) {
		cfg := &Config{
			DatabasePath:       "test.db",
			ServiceAccountFile: "sa.json",
			DriveFolderID:      "folder-123",
			ConsumerKey:        "ck",
			ConsumerSecret:     "cs",
			AccessKey:          "ak",
			AccessSecret:       "as",
			PostSchedule:       "0 */6 * * *",
		}
		assert.NoError(t, cfg.ValidateForServe())
	})
}
