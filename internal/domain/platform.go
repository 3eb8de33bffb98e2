package domain

import "context"

// Platform is the remote messaging platform, reached through a per-user
// delegated session credential stored on disk.
type Platform interface {
	// HasSession reports whether a session credential exists for the user.
	HasSession(userID int64) bool
	// Connect opens a connection on the user's session credential. The
	// returned Conn must be closed on every path; the credential file is
	// locked while the connection is open.
	Connect(ctx context.Context, userID int64) (Conn, error)
}

// Conn is one open connection against a user's session.
type Conn interface {
	// Authorized reports whether the session is already signed in.
	Authorized(ctx context.Context) (bool, error)
	// SendCode requests a login code for the phone number and returns the
	// verification handle needed to complete sign-in.
	SendCode(ctx context.Context, phone string) (codeHash string, err error)
	// SignIn completes login with the received code. Returns
	// ErrPasswordNeeded when the account has 2FA enabled.
	SignIn(ctx context.Context, phone, code, codeHash string) error
	// SignInPassword completes a 2FA login.
	SignInPassword(ctx context.Context, password string) error
	// ResolveContact looks up a platform user by phone number. Returns
	// (nil, nil) when the number does not belong to any user.
	ResolveContact(ctx context.Context, phone string) (*ResolvedUser, error)
	// InviteToChannel invites the user to the channel. Returns
	// ErrAlreadyMember, ErrPrivacyRestricted or *FloodWaitError for the
	// corresponding platform responses.
	InviteToChannel(ctx context.Context, channel string, user *ResolvedUser) error
	Close() error
}
