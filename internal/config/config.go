package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config application configuration
type Config struct {
	// HTTP API
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`

	// Database
	DatabasePath string `env:"DATABASE_PATH" envDefault:"./data/maildeck.db"`

	// Mail provider
	MailBaseURL  string        `env:"MAILTM_BASE_URL" envDefault:"https://api.mail.tm"`
	MailTimeout  time.Duration `env:"MAILTM_TIMEOUT" envDefault:"30s"`
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"30s"`

	// Password assigned to provisioned mailboxes. Empty means a random
	// password is generated per account.
	AccountPassword string `env:"ACCOUNT_PASSWORD"`

	// Notification channels
	DesktopNotifyCmd string `env:"DESKTOP_NOTIFY_CMD" envDefault:"notify-send"`
	SoundNotifyCmd   string `env:"SOUND_NOTIFY_CMD" envDefault:"paplay"`
	SoundFile        string `env:"SOUND_FILE"`

	// Auto-delete janitor
	SweepInterval time.Duration `env:"AUTO_DELETE_SWEEP_INTERVAL" envDefault:"1h"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"` // "json" or "text"
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.PollInterval < time.Second {
		return nil, fmt.Errorf("POLL_INTERVAL must be at least 1s, got %s", cfg.PollInterval)
	}

	return cfg, nil
}
