package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_API_ID", "1234567")
	t.Setenv("TELEGRAM_API_HASH", "deadbeef")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./invite_bot.db", cfg.DatabasePath)
	assert.Equal(t, "./sessions", cfg.SessionsDir)
	assert.Equal(t, 5*time.Second, cfg.InviteDelay)
	assert.Equal(t, 5*time.Second, cfg.FloodGrace)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadRequiresToken(t *testing.T) {
	setRequired(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRequiresAPICredentials(t *testing.T) {
	setRequired(t)
	t.Setenv("TELEGRAM_API_ID", "")

	_, err := Load()
	assert.Error(t, err)

	setRequired(t)
	t.Setenv("TELEGRAM_API_HASH", "")

	_, err = Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	setRequired(t)
	t.Setenv("TELEGRAM_API_ID", "not-a-number")

	_, err := Load()
	assert.Error(t, err)

	setRequired(t)
	t.Setenv("INVITE_DELAY_SECONDS", "-1")

	_, err = Load()
	assert.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("INVITE_DELAY_SECONDS", "2")
	t.Setenv("FLOOD_GRACE_SECONDS", "10")
	t.Setenv("DATABASE_PATH", "/tmp/x.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.InviteDelay)
	assert.Equal(t, 10*time.Second, cfg.FloodGrace)
	assert.Equal(t, "/tmp/x.db", cfg.DatabasePath)
}
