package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/glebk/invite-bot/internal/bot"
	"github.com/glebk/invite-bot/internal/config"
	"github.com/glebk/invite-bot/internal/repository/sqlite"
	"github.com/glebk/invite-bot/internal/service"
	"github.com/glebk/invite-bot/internal/telegram"
	"github.com/glebk/invite-bot/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	zlog := logger.Logger()
	defer func() { _ = logger.Sync() }()

	// Initialize database
	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		zlog.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	zlog.Info("database initialized", zap.String("path", cfg.DatabasePath))

	// Initialize repositories
	channelRepo := sqlite.NewChannelRepository(db)
	contactRepo := sqlite.NewContactRepository(db)

	// Initialize the MTProto platform client
	platform, err := telegram.New(cfg.APIID, cfg.APIHash, cfg.SessionsDir)
	if err != nil {
		zlog.Fatal("failed to initialize platform client", zap.Error(err))
	}

	// Initialize services; both share one per-user lock set since both
	// open the same session files
	locks := service.NewUserLocks()
	authService := service.NewAuthService(platform, locks, zlog)
	inviteService := service.NewInviteService(platform, channelRepo, contactRepo, locks,
		cfg.InviteDelay, cfg.FloodGrace, zlog)

	// Initialize bot
	telegramBot, err := bot.New(cfg.TelegramToken, authService, inviteService,
		channelRepo, contactRepo, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize bot", zap.Error(err))
	}

	// Handle graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start bot in goroutine
	go func() {
		zlog.Info("bot started")
		if err := telegramBot.Start(); err != nil {
			zlog.Fatal("bot stopped with error", zap.Error(err))
		}
	}()

	// Wait for stop signal
	<-stop
	zlog.Info("shutting down gracefully")
}
