package service

import (
	"context"

	"github.com/glebk/invite-bot/internal/domain"
)

// fakePlatform and fakeConn stand in for the MTProto adapter so the state
// machine and the invite engine can be exercised without a network.

type fakePlatform struct {
	hasSession bool
	conn       *fakeConn
	connectErr error
	connects   int
}

func (p *fakePlatform) HasSession(int64) bool { return p.hasSession }

func (p *fakePlatform) Connect(context.Context, int64) (domain.Conn, error) {
	p.connects++
	if p.connectErr != nil {
		return nil, p.connectErr
	}
	return p.conn, nil
}

type fakeConn struct {
	authorized  bool
	codeHash    string
	sendCodeErr error
	signInErr   error
	passwordErr error

	sendCodeCalls int
	signInCalls   int
	passwordCalls int
	closes        int

	// invite behavior, keyed by phone number
	missing      map[string]bool    // resolve finds no platform user
	resolveQueue map[string][]error // popped per resolve call; nil entry = success
	inviteQueue  map[string][]error // popped per invite call; exhausted = success

	resolved []string // phones in resolve-attempt order
	invited  []string // phones in invite-attempt order

	nextID int64
	users  map[int64]string
}

func (c *fakeConn) Close() error {
	c.closes++
	return nil
}

func (c *fakeConn) Authorized(context.Context) (bool, error) {
	return c.authorized, nil
}

func (c *fakeConn) SendCode(context.Context, string) (string, error) {
	c.sendCodeCalls++
	if c.sendCodeErr != nil {
		return "", c.sendCodeErr
	}
	return c.codeHash, nil
}

func (c *fakeConn) SignIn(context.Context, string, string, string) error {
	c.signInCalls++
	return c.signInErr
}

func (c *fakeConn) SignInPassword(context.Context, string) error {
	c.passwordCalls++
	return c.passwordErr
}

func (c *fakeConn) ResolveContact(_ context.Context, phone string) (*domain.ResolvedUser, error) {
	c.resolved = append(c.resolved, phone)

	if queue := c.resolveQueue[phone]; len(queue) > 0 {
		err := queue[0]
		c.resolveQueue[phone] = queue[1:]
		if err != nil {
			return nil, err
		}
	}
	if c.missing[phone] {
		return nil, nil
	}

	c.nextID++
	if c.users == nil {
		c.users = make(map[int64]string)
	}
	c.users[c.nextID] = phone

	return &domain.ResolvedUser{ID: c.nextID, AccessHash: 1}, nil
}

func (c *fakeConn) InviteToChannel(_ context.Context, _ string, user *domain.ResolvedUser) error {
	phone := c.users[user.ID]
	c.invited = append(c.invited, phone)

	if queue := c.inviteQueue[phone]; len(queue) > 0 {
		err := queue[0]
		c.inviteQueue[phone] = queue[1:]
		return err
	}
	return nil
}

type fakeChannels struct {
	channel string
	getErr  error
}

func (f *fakeChannels) Set(_ int64, channel string) error {
	f.channel = channel
	return nil
}

func (f *fakeChannels) Get(int64) (string, error) {
	return f.channel, f.getErr
}

type fakeContacts struct {
	phones []string
	getErr error
}

func (f *fakeContacts) Replace(_ int64, phones []string) error {
	f.phones = phones
	return nil
}

func (f *fakeContacts) Get(int64) ([]string, error) {
	return f.phones, f.getErr
}
