package sqlite

import (
	"fmt"
	"time"
)

// ContactRepository implements domain.ContactRepository using SQLite
type ContactRepository struct {
	db *Database
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(db *Database) *ContactRepository {
	return &ContactRepository{db: db}
}

// Replace overwrites the user's contact list with the given phone numbers,
// preserving their order
func (r *ContactRepository) Replace(userID int64, phones []string) error {
	tx, err := r.db.GetDB().Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM contact_lists WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear contacts: %w", err)
	}

	query := `
		INSERT INTO contact_lists (user_id, position, phone, created_at)
		VALUES (?, ?, ?, ?)
	`

	now := time.Now()
	for i, phone := range phones {
		if _, err := tx.Exec(query, userID, i, phone, now); err != nil {
			return fmt.Errorf("failed to insert contact: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit contacts: %w", err)
	}

	return nil
}

// Get retrieves the user's contact list in upload order
func (r *ContactRepository) Get(userID int64) ([]string, error) {
	query := `
		SELECT phone FROM contact_lists
		WHERE user_id = ?
		ORDER BY position
	`

	rows, err := r.db.GetDB().Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get contacts: %w", err)
	}
	defer rows.Close()

	var phones []string
	for rows.Next() {
		var phone string
		if err := rows.Scan(&phone); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		phones = append(phones, phone)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read contacts: %w", err)
	}

	return phones, nil
}
