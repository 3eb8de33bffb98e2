package sqlite

import (
	"database/sql"
	"fmt"
	"time"
)

// ChannelRepository implements domain.ChannelRepository using SQLite
type ChannelRepository struct {
	db *Database
}

// NewChannelRepository creates a new ChannelRepository
func NewChannelRepository(db *Database) *ChannelRepository {
	return &ChannelRepository{db: db}
}

// Set stores the user's target channel, replacing any previous one
func (r *ChannelRepository) Set(userID int64, channel string) error {
	query := `
		INSERT INTO channel_targets (user_id, channel, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			channel = excluded.channel,
			updated_at = excluded.updated_at
	`

	if _, err := r.db.GetDB().Exec(query, userID, channel, time.Now()); err != nil {
		return fmt.Errorf("failed to set channel: %w", err)
	}

	return nil
}

// Get retrieves the user's target channel; "" means none is set
func (r *ChannelRepository) Get(userID int64) (string, error) {
	query := `SELECT channel FROM channel_targets WHERE user_id = ?`

	var channel string
	err := r.db.GetDB().QueryRow(query, userID).Scan(&channel)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get channel: %w", err)
	}

	return channel, nil
}
