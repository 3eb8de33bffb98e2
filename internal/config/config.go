package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	TelegramToken string
	APIID         int
	APIHash       string
	DatabasePath  string
	SessionsDir   string
	InviteDelay   time.Duration
	FloodGrace    time.Duration
	LogLevel      string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, errors.New("TELEGRAM_BOT_TOKEN is required")
	}

	apiIDRaw := os.Getenv("TELEGRAM_API_ID")
	if apiIDRaw == "" {
		return nil, errors.New("TELEGRAM_API_ID is required")
	}
	apiID, err := strconv.Atoi(apiIDRaw)
	if err != nil {
		return nil, fmt.Errorf("TELEGRAM_API_ID must be an integer: %w", err)
	}

	apiHash := os.Getenv("TELEGRAM_API_HASH")
	if apiHash == "" {
		return nil, errors.New("TELEGRAM_API_HASH is required")
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./invite_bot.db"
	}

	sessionsDir := os.Getenv("SESSIONS_DIR")
	if sessionsDir == "" {
		sessionsDir = "./sessions"
	}

	inviteDelay, err := secondsFromEnv("INVITE_DELAY_SECONDS", 5)
	if err != nil {
		return nil, err
	}

	floodGrace, err := secondsFromEnv("FLOOD_GRACE_SECONDS", 5)
	if err != nil {
		return nil, err
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return &Config{
		TelegramToken: token,
		APIID:         apiID,
		APIHash:       apiHash,
		DatabasePath:  dbPath,
		SessionsDir:   sessionsDir,
		InviteDelay:   inviteDelay,
		FloodGrace:    floodGrace,
		LogLevel:      logLevel,
	}, nil
}

func secondsFromEnv(key string, fallback int) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return time.Duration(fallback) * time.Second, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return time.Duration(v) * time.Second, nil
}
