package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/glebk/invite-bot/internal/domain"
)

func TestUserLocksAreIndependentPerUser(t *testing.T) {
	locks := NewUserLocks()

	assert.True(t, locks.Acquire(1))
	assert.False(t, locks.Acquire(1))
	assert.True(t, locks.Acquire(2))

	locks.Release(1)
	assert.True(t, locks.Acquire(1))
}

func TestPendingLoginsLifecycle(t *testing.T) {
	pending := NewPendingLogins()

	assert.Equal(t, domain.StageNone, pending.Stage(1))

	pending.Put(1, domain.PendingLogin{Phone: "+15551234567", PhoneCodeHash: "hash"})
	assert.Equal(t, domain.StageCode, pending.Stage(1))
	assert.Equal(t, domain.StageNone, pending.Stage(2))

	pending.MarkAwaitingPassword(1)
	assert.Equal(t, domain.StagePassword, pending.Stage(1))

	login, ok := pending.Get(1)
	assert.True(t, ok)
	assert.True(t, login.AwaitingPassword)
	assert.Equal(t, "+15551234567", login.Phone)

	pending.Delete(1)
	assert.Equal(t, domain.StageNone, pending.Stage(1))

	// Marking an absent record is a no-op.
	pending.MarkAwaitingPassword(99)
	assert.Equal(t, domain.StageNone, pending.Stage(99))
}
