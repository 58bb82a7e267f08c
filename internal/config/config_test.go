package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "https://api.mail.tm", cfg.MailBaseURL)
	assert.Equal(t, 30*time.Second, cfg.PollInterval)
	assert.Equal(t, time.Hour, cfg.SweepInterval)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("POLL_INTERVAL", "45s")
	t.Setenv("MAILTM_BASE_URL", "http://localhost:1080")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, 45*time.Second, cfg.PollInterval)
	assert.Equal(t, "http://localhost:1080", cfg.MailBaseURL)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadRejectsTooShortPollInterval(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "100ms")

	_, err := Load()
	assert.Error(t, err)
}
