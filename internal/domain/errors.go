package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidPhone means the phone number is malformed or was rejected
	// by the platform; no login state was created.
	ErrInvalidPhone = errors.New("invalid phone number")
	// ErrNoPendingLogin means a code or password arrived without a login
	// in progress for that user.
	ErrNoPendingLogin = errors.New("no login in progress")
	// ErrPasswordNeeded means the account has 2FA and sign-in must be
	// completed with a password.
	ErrPasswordNeeded = errors.New("two-factor password needed")

	// ErrNotAuthenticated means no session credential exists for the user.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNoContacts means the user has no uploaded contact list.
	ErrNoContacts = errors.New("no contacts uploaded")
	// ErrNoChannel means the user has no target channel set.
	ErrNoChannel = errors.New("no channel set")

	// ErrAlreadyMember means the contact is already in the channel.
	ErrAlreadyMember = errors.New("user already a channel member")
	// ErrPrivacyRestricted means the contact's privacy settings forbid
	// channel invitations from non-contacts.
	ErrPrivacyRestricted = errors.New("user privacy settings forbid invite")

	// ErrUserBusy means another operation already holds the user's session.
	ErrUserBusy = errors.New("another operation is in progress for this user")
)

// FloodWaitError is platform-imposed throttling with a server-specified
// wait duration. It is a pause, not a per-contact outcome.
type FloodWaitError struct {
	Wait time.Duration
}

func (e *FloodWaitError) Error() string {
	return fmt.Sprintf("flood wait for %s", e.Wait)
}

// AsFloodWait extracts a FloodWaitError from an error chain.
func AsFloodWait(err error) (*FloodWaitError, bool) {
	var flood *FloodWaitError
	if errors.As(err, &flood) {
		return flood, true
	}
	return nil, false
}
