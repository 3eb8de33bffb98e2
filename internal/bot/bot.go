package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/glebk/invite-bot/internal/domain"
	"github.com/glebk/invite-bot/internal/service"
	"github.com/glebk/invite-bot/internal/vcf"
)

// Bot represents the Telegram bot front end. It converts inbound chat
// messages into service calls and service errors into status strings;
// nothing structured crosses this boundary.
type Bot struct {
	api      *tgbotapi.BotAPI
	auth     *service.AuthService
	invites  *service.InviteService
	channels domain.ChannelRepository
	contacts domain.ContactRepository
	log      *zap.Logger
}

// New creates a new Bot instance
func New(
	token string,
	auth *service.AuthService,
	invites *service.InviteService,
	channels domain.ChannelRepository,
	contacts domain.ContactRepository,
	log *zap.Logger,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	log.Info("authorized on bot account", zap.String("username", api.Self.UserName))

	return &Bot{
		api:      api,
		auth:     auth,
		invites:  invites,
		channels: channels,
		contacts: contacts,
		log:      log,
	}, nil
}

// Start starts the bot
func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}
		// Updates are handled concurrently so one user's bulk run cannot
		// stall everyone else; per-user serialization is enforced by the
		// services' advisory lock.
		go b.handleMessage(update.Message)
	}

	return nil
}

// handleMessage handles incoming messages
func (b *Bot) handleMessage(message *tgbotapi.Message) {
	ctx := context.Background()

	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	if message.Document != nil {
		b.handleDocument(ctx, message)
		return
	}

	if message.Text != "" {
		b.handleText(ctx, message)
	}
}

// handleCommand handles bot commands
func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleStart(message)
	case "setchannel":
		b.handleSetChannel(message)
	case "addmembers":
		b.handleAddMembers(ctx, message)
	case "status":
		b.handleStatus(message)
	case "help":
		b.handleHelp(message)
	default:
		b.sendMessage(message.Chat.ID, "Unknown command. Use /help to see what I can do.")
	}
}

// handleText routes free-form text by the user's current login stage
// rather than by guessing the message shape.
func (b *Bot) handleText(ctx context.Context, message *tgbotapi.Message) {
	text := strings.TrimSpace(message.Text)

	switch b.auth.Stage(message.From.ID) {
	case domain.StagePassword:
		b.handlePassword(ctx, message, text)
	case domain.StageCode:
		b.handleCode(ctx, message, text)
	default:
		if service.IsPhoneNumber(text) {
			b.handlePhone(ctx, message, text)
			return
		}
		b.sendMessage(message.Chat.ID,
			"Send me your phone number to log in (format: +123456789), or use /help.")
	}
}

// handleStart handles the /start command
func (b *Bot) handleStart(message *tgbotapi.Message) {
	b.sendMessage(message.Chat.ID,
		"Welcome! Please send me your phone number to log in (format: +123456789).")
}

// handleHelp shows help information
func (b *Bot) handleHelp(message *tgbotapi.Message) {
	text := `*Channel invite bot - Help*

*Commands:*
/start - Activate the bot
/setchannel @ChannelUsername - Choose the destination channel
/addmembers - Invite your uploaded contacts to the channel
/status - Show what is still missing before a run
/help - Show this help

*How it works:*
1. Send your phone number (format: +123456789) and log in
2. Upload a VCF file with your contacts
3. Set the destination channel with /setchannel
4. Run /addmembers and wait for the tally`

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ParseMode = "Markdown"

	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("failed to send help", zap.Error(err))
	}
}

func (b *Bot) handlePhone(ctx context.Context, message *tgbotapi.Message, phone string) {
	already, err := b.auth.SubmitPhone(ctx, message.From.ID, phone)
	switch {
	case errors.Is(err, domain.ErrInvalidPhone):
		b.sendMessage(message.Chat.ID, "Invalid phone number.")
	case errors.Is(err, domain.ErrUserBusy):
		b.sendMessage(message.Chat.ID, "Another operation is still running for you. Try again later.")
	case err != nil:
		b.log.Error("phone submission failed", zap.Int64("user_id", message.From.ID), zap.Error(err))
		b.sendMessage(message.Chat.ID, "Could not request a login code. Try again later.")
	case already:
		b.sendMessage(message.Chat.ID, "You're already logged in.")
	default:
		b.sendMessage(message.Chat.ID, "Enter the code you received:")
	}
}

func (b *Bot) handleCode(ctx context.Context, message *tgbotapi.Message, code string) {
	passwordNeeded, err := b.auth.SubmitCode(ctx, message.From.ID, code)
	switch {
	case errors.Is(err, domain.ErrNoPendingLogin):
		b.sendMessage(message.Chat.ID, "Send your phone number first (format: +123456789).")
	case errors.Is(err, domain.ErrUserBusy):
		b.sendMessage(message.Chat.ID, "Another operation is still running for you. Try again later.")
	case err != nil:
		b.log.Warn("code sign-in failed", zap.Int64("user_id", message.From.ID), zap.Error(err))
		b.sendMessage(message.Chat.ID, fmt.Sprintf("Login failed: %v. Try the code again.", err))
	case passwordNeeded:
		b.sendMessage(message.Chat.ID, "Your account has 2FA. Send your password:")
	default:
		b.sendMessage(message.Chat.ID, "Login successful! 🎉")
	}
}

func (b *Bot) handlePassword(ctx context.Context, message *tgbotapi.Message, password string) {
	handled, err := b.auth.SubmitPassword(ctx, message.From.ID, password)
	switch {
	case !handled:
		// Not awaiting a password; routed here speculatively.
	case errors.Is(err, domain.ErrUserBusy):
		b.sendMessage(message.Chat.ID, "Another operation is still running for you. Try again later.")
	case err != nil:
		b.log.Warn("password sign-in failed", zap.Int64("user_id", message.From.ID), zap.Error(err))
		b.sendMessage(message.Chat.ID, "Login failed: wrong password. Try again.")
	default:
		b.sendMessage(message.Chat.ID, "2FA login successful! 🎉")
	}
}

// handleSetChannel handles the /setchannel command
func (b *Bot) handleSetChannel(message *tgbotapi.Message) {
	channel := strings.TrimSpace(message.CommandArguments())
	if channel == "" {
		b.sendMessage(message.Chat.ID, "Usage: /setchannel @ChannelUsername")
		return
	}
	if !strings.HasPrefix(channel, "@") || len(channel) < 2 {
		b.sendMessage(message.Chat.ID, "The channel must be given as @ChannelUsername.")
		return
	}

	if err := b.channels.Set(message.From.ID, channel); err != nil {
		b.log.Error("failed to store channel", zap.Int64("user_id", message.From.ID), zap.Error(err))
		b.sendMessage(message.Chat.ID, "Could not save the channel. Try again later.")
		return
	}

	b.sendMessage(message.Chat.ID, fmt.Sprintf("Channel set to %s", channel))
}

// handleDocument stores an uploaded VCF contact file
func (b *Bot) handleDocument(_ context.Context, message *tgbotapi.Message) {
	url, err := b.api.GetFileDirectURL(message.Document.FileID)
	if err != nil {
		b.log.Error("failed to resolve file", zap.Int64("user_id", message.From.ID), zap.Error(err))
		b.sendMessage(message.Chat.ID, "Could not download that file. Try again.")
		return
	}

	resp, err := http.Get(url)
	if err != nil {
		b.log.Error("failed to download file", zap.Int64("user_id", message.From.ID), zap.Error(err))
		b.sendMessage(message.Chat.ID, "Could not download that file. Try again.")
		return
	}
	defer resp.Body.Close()

	phones, err := vcf.Parse(resp.Body)
	if err != nil {
		b.log.Error("failed to parse vcf", zap.Int64("user_id", message.From.ID), zap.Error(err))
		b.sendMessage(message.Chat.ID, "Send a valid VCF file.")
		return
	}
	if len(phones) == 0 {
		b.sendMessage(message.Chat.ID, "No phone numbers found in that file.")
		return
	}

	if err := b.contacts.Replace(message.From.ID, phones); err != nil {
		b.log.Error("failed to store contacts", zap.Int64("user_id", message.From.ID), zap.Error(err))
		b.sendMessage(message.Chat.ID, "Could not save your contacts. Try again later.")
		return
	}

	b.sendMessage(message.Chat.ID,
		fmt.Sprintf("Saved %d contacts. Now use /setchannel @YourChannel and /addmembers.", len(phones)))
}

// handleAddMembers runs the bulk-invite engine and reports the tally
func (b *Bot) handleAddMembers(ctx context.Context, message *tgbotapi.Message) {
	b.sendMessage(message.Chat.ID, "Starting the invite run, this may take a while...")

	tally, err := b.invites.Run(ctx, message.From.ID)
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		b.sendMessage(message.Chat.ID, "You must log in first.")
	case errors.Is(err, domain.ErrNoContacts):
		b.sendMessage(message.Chat.ID, "Upload your contacts first with a VCF file.")
	case errors.Is(err, domain.ErrNoChannel):
		b.sendMessage(message.Chat.ID, "Set your channel first using /setchannel.")
	case errors.Is(err, domain.ErrUserBusy):
		b.sendMessage(message.Chat.ID, "A run is already in progress for you.")
	case err != nil:
		b.log.Error("bulk invite aborted", zap.Int64("user_id", message.From.ID), zap.Error(err))
		b.sendMessage(message.Chat.ID, "The run could not be started. Log in again and retry.")
	default:
		b.sendMessage(message.Chat.ID, fmt.Sprintf("✅ Added: %d, ❌ Failed: %d", tally.Added, tally.Failed))
	}
}

// handleStatus reports which prerequisites for a run are in place
func (b *Bot) handleStatus(message *tgbotapi.Message) {
	userID := message.From.ID

	var lines []string
	if b.invites.HasSession(userID) {
		lines = append(lines, "✅ Logged in")
	} else {
		lines = append(lines, "❌ Not logged in - send your phone number")
	}

	phones, err := b.contacts.Get(userID)
	switch {
	case err != nil:
		b.log.Error("failed to load contacts", zap.Int64("user_id", userID), zap.Error(err))
		lines = append(lines, "❓ Contacts unavailable")
	case len(phones) == 0:
		lines = append(lines, "❌ No contacts - upload a VCF file")
	default:
		lines = append(lines, fmt.Sprintf("✅ %d contacts uploaded", len(phones)))
	}

	channel, err := b.channels.Get(userID)
	switch {
	case err != nil:
		b.log.Error("failed to load channel", zap.Int64("user_id", userID), zap.Error(err))
		lines = append(lines, "❓ Channel unavailable")
	case channel == "":
		lines = append(lines, "❌ No channel - use /setchannel")
	default:
		lines = append(lines, fmt.Sprintf("✅ Channel: %s", channel))
	}

	b.sendMessage(message.Chat.ID, strings.Join(lines, "\n"))
}

// sendMessage sends a simple text message
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
