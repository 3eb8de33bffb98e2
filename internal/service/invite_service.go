package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/glebk/invite-bot/internal/domain"
)

// InviteService runs bulk invitations of a user's uploaded contacts into
// their target channel. The loop is strictly sequential: the platform
// counts request rate per session, so concurrency would defeat the
// self-imposed pacing.
type InviteService struct {
	platform domain.Platform
	channels domain.ChannelRepository
	contacts domain.ContactRepository
	locks    *UserLocks
	delay    time.Duration
	grace    time.Duration
	log      *zap.Logger

	// sleep is swapped out in tests to observe pacing.
	sleep func(time.Duration)
}

// NewInviteService creates a new InviteService. delay paces successful
// invites; grace is added on top of platform-mandated flood waits.
func NewInviteService(
	platform domain.Platform,
	channels domain.ChannelRepository,
	contacts domain.ContactRepository,
	locks *UserLocks,
	delay, grace time.Duration,
	log *zap.Logger,
) *InviteService {
	return &InviteService{
		platform: platform,
		channels: channels,
		contacts: contacts,
		locks:    locks,
		delay:    delay,
		grace:    grace,
		log:      log,
		sleep:    time.Sleep,
	}
}

// HasSession reports whether a session credential exists for the user.
func (s *InviteService) HasSession(userID int64) bool {
	return s.platform.HasSession(userID)
}

// Run invites every contact in the user's list to their target channel
// and returns the tally. Preconditions are checked in a fixed order
// before any network call: session, then contacts, then channel; the
// first missing one wins.
func (s *InviteService) Run(ctx context.Context, userID int64) (domain.InviteTally, error) {
	var tally domain.InviteTally

	if !s.platform.HasSession(userID) {
		return tally, domain.ErrNotAuthenticated
	}

	phones, err := s.contacts.Get(userID)
	if err != nil {
		return tally, fmt.Errorf("failed to load contacts: %w", err)
	}
	if len(phones) == 0 {
		return tally, domain.ErrNoContacts
	}

	channel, err := s.channels.Get(userID)
	if err != nil {
		return tally, fmt.Errorf("failed to load channel: %w", err)
	}
	if channel == "" {
		return tally, domain.ErrNoChannel
	}

	if !s.locks.Acquire(userID) {
		return tally, domain.ErrUserBusy
	}
	defer s.locks.Release(userID)

	conn, err := s.platform.Connect(ctx, userID)
	if err != nil {
		// Cannot authenticate to the platform: the run aborts with a
		// zero tally.
		return tally, fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close()

	s.log.Info("bulk invite started",
		zap.Int64("user_id", userID),
		zap.String("channel", channel),
		zap.Int("contacts", len(phones)))

	// A contact that trips a flood wait is counted in neither column and
	// gets exactly one more attempt after the main pass.
	var floodPaused []string
	for _, phone := range phones {
		if flood := s.inviteOne(ctx, conn, channel, phone, &tally); flood != nil {
			s.log.Warn("flood wait, pausing",
				zap.Int64("user_id", userID),
				zap.Duration("wait", flood.Wait))
			s.sleep(flood.Wait + s.grace)
			floodPaused = append(floodPaused, phone)
		}
	}

	for _, phone := range floodPaused {
		if flood := s.inviteOne(ctx, conn, channel, phone, &tally); flood != nil {
			// A second flood wait abandons the contact for good.
			s.sleep(flood.Wait + s.grace)
		}
	}

	s.log.Info("bulk invite finished",
		zap.Int64("user_id", userID),
		zap.Int("added", tally.Added),
		zap.Int("failed", tally.Failed))

	return tally, nil
}

// inviteOne processes a single contact and updates the tally. It returns
// the flood wait when the platform demanded a pause; the contact is then
// not counted either way.
func (s *InviteService) inviteOne(ctx context.Context, conn domain.Conn, channel, phone string, tally *domain.InviteTally) *domain.FloodWaitError {
	user, err := conn.ResolveContact(ctx, phone)
	if err != nil {
		if flood, ok := domain.AsFloodWait(err); ok {
			return flood
		}
		s.log.Warn("contact lookup failed", zap.String("phone", phone), zap.Error(err))
		tally.Failed++
		return nil
	}
	if user == nil {
		tally.Failed++
		return nil
	}

	err = conn.InviteToChannel(ctx, channel, user)
	switch {
	case err == nil:
		tally.Added++
		// Pacing applies only after a successful invite.
		s.sleep(s.delay)
	case errors.Is(err, domain.ErrAlreadyMember):
		// Neither progress nor failure.
	case errors.Is(err, domain.ErrPrivacyRestricted):
		tally.Failed++
	default:
		if flood, ok := domain.AsFloodWait(err); ok {
			return flood
		}
		s.log.Warn("invite failed", zap.String("phone", phone), zap.Error(err))
		tally.Failed++
	}

	return nil
}
