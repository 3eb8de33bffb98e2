package service

import (
	"sync"

	"github.com/glebk/invite-bot/internal/domain"
)

// PendingLogins is an in-memory registry of login handshakes in progress,
// one record per user. Records are never persisted.
type PendingLogins struct {
	mu     sync.RWMutex
	logins map[int64]domain.PendingLogin
}

// NewPendingLogins creates an empty registry.
func NewPendingLogins() *PendingLogins {
	return &PendingLogins{logins: make(map[int64]domain.PendingLogin)}
}

// Get returns a copy of the user's pending login, if any.
func (p *PendingLogins) Get(userID int64) (domain.PendingLogin, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	login, ok := p.logins[userID]
	return login, ok
}

// Put stores the user's pending login, replacing any previous one.
func (p *PendingLogins) Put(userID int64, login domain.PendingLogin) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.logins[userID] = login
}

// MarkAwaitingPassword flips the user's record into the password stage.
func (p *PendingLogins) MarkAwaitingPassword(userID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	login, ok := p.logins[userID]
	if !ok {
		return
	}
	login.AwaitingPassword = true
	p.logins[userID] = login
}

// Delete removes the user's pending login.
func (p *PendingLogins) Delete(userID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.logins, userID)
}

// Stage reports the user's current handshake stage.
func (p *PendingLogins) Stage(userID int64) domain.LoginStage {
	p.mu.RLock()
	defer p.mu.RUnlock()

	login, ok := p.logins[userID]
	if !ok {
		return domain.StageNone
	}
	return login.Stage()
}
