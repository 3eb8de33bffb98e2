package domain

// ResolvedUser identifies a platform user found by phone number.
type ResolvedUser struct {
	ID         int64
	AccessHash int64
}

// InviteTally summarizes one bulk-invite run. Contacts that were already
// channel members count in neither field.
type InviteTally struct {
	Added  int
	Failed int
}

// ChannelRepository stores the per-user target channel. One channel per
// user, overwritten on re-set.
type ChannelRepository interface {
	Set(userID int64, channel string) error
	// Get returns "" with a nil error when the user has no channel set.
	Get(userID int64) (string, error)
}

// ContactRepository stores the per-user uploaded contact list as an
// ordered sequence of phone numbers.
type ContactRepository interface {
	// Replace overwrites the user's whole list, preserving order.
	Replace(userID int64, phones []string) error
	// Get returns the phone numbers in upload order; empty when none.
	Get(userID int64) ([]string, error)
}
