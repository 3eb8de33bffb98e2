package domain

// LoginStage describes where a user currently is in the login handshake.
type LoginStage int

const (
	// StageNone means no login is in progress for the user.
	StageNone LoginStage = iota
	// StageCode means a login code was requested and is awaited.
	StageCode
	// StagePassword means the account has 2FA and a password is awaited.
	StagePassword
)

// PendingLogin tracks an in-progress login handshake for one user.
// It lives in memory only; a restart forces the user to start over.
type PendingLogin struct {
	Phone            string
	PhoneCodeHash    string
	AwaitingPassword bool
}

// Stage reports the handshake stage this record represents.
func (p PendingLogin) Stage() LoginStage {
	if p.AwaitingPassword {
		return StagePassword
	}
	return StageCode
}
