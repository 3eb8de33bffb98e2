package service

import "sync"

// UserLocks is an advisory per-user lock. Any operation that opens a
// user's session file must hold the lock for its whole duration: the
// credential file cannot survive two concurrent connections.
type UserLocks struct {
	mu   sync.Mutex
	held map[int64]bool
}

// NewUserLocks creates an empty lock set.
func NewUserLocks() *UserLocks {
	return &UserLocks{held: make(map[int64]bool)}
}

// Acquire takes the user's lock, reporting false if it is already held.
// Callers fail fast instead of queueing behind a long bulk run.
func (l *UserLocks) Acquire(userID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.held[userID] {
		return false
	}
	l.held[userID] = true
	return true
}

// Release frees the user's lock.
func (l *UserLocks) Release(userID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.held, userID)
}
