package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string

	// TelegramToken authenticates against the Bot API
	TelegramToken string
	// WebhookSecret, when set, must match Telegram's secret token header
	WebhookSecret string
	// WebhookURL is the public address Telegram delivers updates to
	WebhookURL string

	// MasterPassword gates the moderator claim and the reset flow
	MasterPassword string
	// WordsPrompt is the text sent to the moderator for generating a new
	// word catalog
	WordsPrompt string

	// MessageTTL is how long role/word messages stay readable
	MessageTTL time.Duration
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		ServerPort:     getEnv("PORT", "8080"),
		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", "./wordspy.db"),
		DatabaseURL:    getEnv("DB_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		TelegramToken:  getEnv("TELEGRAM_TOKEN", ""),
		WebhookSecret:  getEnv("WEBHOOK_SECRET", ""),
		WebhookURL:     getEnv("WEBHOOK_URL", ""),
		MasterPassword: getEnv("MASTER_PASSWORD", ""),
		WordsPrompt:    getEnv("WORDS_PROMPT", ""),
		MessageTTL:     120 * time.Second,
	}
}

// Validate reports every required deployment setting that is missing.
func (c *Config) Validate() error {
	var missing []string

	if c.TelegramToken == "" {
		missing = append(missing, "TELEGRAM_TOKEN")
	}
	if c.MasterPassword == "" {
		missing = append(missing, "MASTER_PASSWORD")
	}
	if c.WordsPrompt == "" {
		missing = append(missing, "WORDS_PROMPT")
	}
	switch strings.ToLower(c.DatabaseType) {
	case "sqlite", "sqlite3", "":
		if c.DatabasePath == "" {
			missing = append(missing, "DB_PATH")
		}
	default:
		if c.DatabaseURL == "" {
			missing = append(missing, "DB_URL")
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
