package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/glebk/invite-bot/internal/domain"
)

var phonePattern = regexp.MustCompile(`^\+[0-9]{7,15}$`)

// IsPhoneNumber reports whether text looks like an international phone
// number ("+" followed by digits).
func IsPhoneNumber(text string) bool {
	return phonePattern.MatchString(strings.TrimSpace(text))
}

// AuthService drives the login handshake: phone, then code, then an
// optional two-factor password. Each step opens a connection on the
// user's session file, performs one request and closes it again — the
// chat front end delivers one message at a time, so every step stores
// exactly the state needed to resume on the next message.
type AuthService struct {
	platform domain.Platform
	pending  *PendingLogins
	locks    *UserLocks
	log      *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(platform domain.Platform, locks *UserLocks, log *zap.Logger) *AuthService {
	return &AuthService{
		platform: platform,
		pending:  NewPendingLogins(),
		locks:    locks,
		log:      log,
	}
}

// Stage reports the user's current login stage, for routing inbound text.
func (s *AuthService) Stage(userID int64) domain.LoginStage {
	return s.pending.Stage(userID)
}

// SubmitPhone validates the phone number and requests a login code.
// It reports true when the user's session is already signed in, in which
// case no code was requested. Malformed numbers fail with
// domain.ErrInvalidPhone before any network call.
func (s *AuthService) SubmitPhone(ctx context.Context, userID int64, text string) (alreadyAuthorized bool, err error) {
	phone := strings.TrimSpace(text)
	if !IsPhoneNumber(phone) {
		return false, domain.ErrInvalidPhone
	}

	if !s.locks.Acquire(userID) {
		return false, domain.ErrUserBusy
	}
	defer s.locks.Release(userID)

	conn, err := s.platform.Connect(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close()

	authorized, err := conn.Authorized(ctx)
	if err != nil {
		return false, err
	}
	if authorized {
		return true, nil
	}

	codeHash, err := conn.SendCode(ctx, phone)
	if err != nil {
		// Platform rejected the number: no pending login is left behind.
		return false, err
	}

	s.pending.Put(userID, domain.PendingLogin{Phone: phone, PhoneCodeHash: codeHash})
	s.log.Info("login code requested", zap.Int64("user_id", userID))

	return false, nil
}

// SubmitCode completes sign-in with a received login code. It reports
// true when the account requires a two-factor password; the pending login
// then moves to the password stage. On a wrong or expired code the
// pending login is kept so the user can retry.
func (s *AuthService) SubmitCode(ctx context.Context, userID int64, text string) (passwordNeeded bool, err error) {
	login, ok := s.pending.Get(userID)
	if !ok || login.Phone == "" || login.PhoneCodeHash == "" {
		return false, domain.ErrNoPendingLogin
	}

	if !s.locks.Acquire(userID) {
		return false, domain.ErrUserBusy
	}
	defer s.locks.Release(userID)

	conn, err := s.platform.Connect(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close()

	code := strings.TrimSpace(text)
	err = conn.SignIn(ctx, login.Phone, code, login.PhoneCodeHash)
	switch {
	case err == nil:
		s.pending.Delete(userID)
		s.log.Info("login successful", zap.Int64("user_id", userID))
		return false, nil
	case errors.Is(err, domain.ErrPasswordNeeded):
		s.pending.MarkAwaitingPassword(userID)
		return true, nil
	}

	// Wrong or expired code: the user may retry with the same handshake.
	return false, err
}

// SubmitPassword completes a two-factor sign-in. It reports false when
// the user is not in the password stage; that case is a silent no-op, not
// an error. On a wrong password the stage is kept for a retry.
func (s *AuthService) SubmitPassword(ctx context.Context, userID int64, text string) (handled bool, err error) {
	login, ok := s.pending.Get(userID)
	if !ok || !login.AwaitingPassword {
		return false, nil
	}

	if !s.locks.Acquire(userID) {
		return true, domain.ErrUserBusy
	}
	defer s.locks.Release(userID)

	conn, err := s.platform.Connect(ctx, userID)
	if err != nil {
		return true, fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close()

	if err := conn.SignInPassword(ctx, text); err != nil {
		return true, err
	}

	s.pending.Delete(userID)
	s.log.Info("two-factor login successful", zap.Int64("user_id", userID))

	return true, nil
}
