// Package telegram implements domain.Platform on top of the gotd MTProto
// client, with one on-disk session file per bot user.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/gotd/contrib/bg"
	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"

	"github.com/glebk/invite-bot/internal/domain"
)

// Client creates per-user MTProto connections keyed by session files in a
// fixed directory. The files are opaque; they are only opened and closed.
type Client struct {
	apiID       int
	apiHash     string
	sessionsDir string
}

// New creates a Client and ensures the sessions directory exists.
func New(apiID int, apiHash, sessionsDir string) (*Client, error) {
	if err := os.MkdirAll(sessionsDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create sessions dir: %w", err)
	}

	return &Client{
		apiID:       apiID,
		apiHash:     apiHash,
		sessionsDir: sessionsDir,
	}, nil
}

func (c *Client) sessionPath(userID int64) string {
	return filepath.Join(c.sessionsDir, strconv.FormatInt(userID, 10)+".session")
}

// HasSession reports whether a session file exists for the user.
func (c *Client) HasSession(userID int64) bool {
	_, err := os.Stat(c.sessionPath(userID))
	return err == nil
}

// Connect opens a connection on the user's session file. The connection
// runs in the background until Close is called.
func (c *Client) Connect(ctx context.Context, userID int64) (domain.Conn, error) {
	client := telegram.NewClient(c.apiID, c.apiHash, telegram.Options{
		SessionStorage: &session.FileStorage{Path: c.sessionPath(userID)},
	})

	stop, err := bg.Connect(client, bg.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	return &conn{
		client: client,
		api:    client.API(),
		stop:   stop,
	}, nil
}

type conn struct {
	client *telegram.Client
	api    *tg.Client
	stop   bg.StopFunc

	mu       sync.Mutex
	channels map[string]*tg.InputChannel
}

func (c *conn) Close() error {
	return c.stop()
}

func (c *conn) Authorized(ctx context.Context) (bool, error) {
	status, err := c.client.Auth().Status(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check auth status: %w", err)
	}
	return status.Authorized, nil
}

func (c *conn) SendCode(ctx context.Context, phone string) (string, error) {
	sent, err := c.client.Auth().SendCode(ctx, phone, auth.SendCodeOptions{})
	if err != nil {
		if tgerr.Is(err, "PHONE_NUMBER_INVALID", "PHONE_NUMBER_BANNED") {
			return "", domain.ErrInvalidPhone
		}
		return "", mapError(err)
	}

	code, ok := sent.(*tg.AuthSentCode)
	if !ok {
		return "", fmt.Errorf("unexpected sent code response %T", sent)
	}

	return code.PhoneCodeHash, nil
}

func (c *conn) SignIn(ctx context.Context, phone, code, codeHash string) error {
	_, err := c.client.Auth().SignIn(ctx, phone, code, codeHash)
	if errors.Is(err, auth.ErrPasswordAuthNeeded) {
		return domain.ErrPasswordNeeded
	}
	return mapError(err)
}

func (c *conn) SignInPassword(ctx context.Context, password string) error {
	_, err := c.client.Auth().Password(ctx, password)
	return mapError(err)
}

func (c *conn) ResolveContact(ctx context.Context, phone string) (*domain.ResolvedUser, error) {
	imported, err := c.api.ContactsImportContacts(ctx, []tg.InputPhoneContact{{
		ClientID:  0,
		Phone:     phone,
		FirstName: phone,
	}})
	if err != nil {
		return nil, mapError(err)
	}

	for _, u := range imported.Users {
		if user, ok := u.(*tg.User); ok {
			return &domain.ResolvedUser{ID: user.ID, AccessHash: user.AccessHash}, nil
		}
	}

	// The phone number does not belong to any platform user.
	return nil, nil
}

func (c *conn) InviteToChannel(ctx context.Context, channel string, user *domain.ResolvedUser) error {
	input, err := c.resolveChannel(ctx, channel)
	if err != nil {
		return err
	}

	_, err = c.api.ChannelsInviteToChannel(ctx, &tg.ChannelsInviteToChannelRequest{
		Channel: input,
		Users: []tg.InputUserClass{
			&tg.InputUser{UserID: user.ID, AccessHash: user.AccessHash},
		},
	})

	switch {
	case err == nil:
		return nil
	case tgerr.Is(err, "USER_ALREADY_PARTICIPANT"):
		return domain.ErrAlreadyMember
	case tgerr.Is(err, "USER_PRIVACY_RESTRICTED", "USER_NOT_MUTUAL_CONTACT"):
		return domain.ErrPrivacyRestricted
	}

	return mapError(err)
}

// resolveChannel turns a channel username into an input channel, caching
// the result for the lifetime of the connection.
func (c *conn) resolveChannel(ctx context.Context, channel string) (*tg.InputChannel, error) {
	username := strings.TrimPrefix(channel, "@")

	c.mu.Lock()
	cached, ok := c.channels[username]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	peer, err := c.api.ContactsResolveUsername(ctx, username)
	if err != nil {
		return nil, mapError(err)
	}

	for _, chat := range peer.Chats {
		ch, ok := chat.(*tg.Channel)
		if !ok {
			continue
		}

		input := &tg.InputChannel{ChannelID: ch.ID, AccessHash: ch.AccessHash}

		c.mu.Lock()
		if c.channels == nil {
			c.channels = make(map[string]*tg.InputChannel)
		}
		c.channels[username] = input
		c.mu.Unlock()

		return input, nil
	}

	return nil, fmt.Errorf("%q does not resolve to a channel", channel)
}

// mapError converts platform throttling into a typed error the invite
// engine can pause on; everything else passes through unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if wait, ok := tgerr.AsFloodWait(err); ok {
		return &domain.FloodWaitError{Wait: wait}
	}
	return err
}
