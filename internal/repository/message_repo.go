package repository

import (
	"fmt"
	"time"

	"wordspy/internal/database"
	"wordspy/internal/models"
)

// MessageRepository handles database operations for the ephemeral message
// registry. Expiry instants are stored as Unix milliseconds.
type MessageRepository struct {
	db *database.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *database.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Insert registers one message for later deletion
func (r *MessageRepository) Insert(chatID int64, messageID int, deleteAt time.Time) error {
	query := "INSERT INTO messages_to_delete (chat_id, message_id, delete_at) VALUES (?, ?, ?)"
	if _, err := r.db.Exec(query, chatID, messageID, deleteAt.UnixMilli()); err != nil {
		return fmt.Errorf("failed to register message: %w", err)
	}
	return nil
}

// SelectAll retrieves every registered message
func (r *MessageRepository) SelectAll() ([]models.PendingDeletion, error) {
	rows, err := r.db.Query("SELECT chat_id, message_id, delete_at FROM messages_to_delete")
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var pending []models.PendingDeletion
	for rows.Next() {
		var p models.PendingDeletion
		var deleteAt int64
		if err := rows.Scan(&p.ChatID, &p.MessageID, &deleteAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		p.DeleteAt = time.UnixMilli(deleteAt)
		pending = append(pending, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read message rows: %w", err)
	}

	return pending, nil
}

// DeleteMatching removes one registered message
func (r *MessageRepository) DeleteMatching(chatID int64, messageID int) error {
	query := "DELETE FROM messages_to_delete WHERE chat_id = ? AND message_id = ?"
	if _, err := r.db.Exec(query, chatID, messageID); err != nil {
		return fmt.Errorf("failed to delete message row: %w", err)
	}
	return nil
}

// DeleteAll clears the registry, used by the reset flow
func (r *MessageRepository) DeleteAll() error {
	if _, err := r.db.Exec("DELETE FROM messages_to_delete"); err != nil {
		return fmt.Errorf("failed to clear message registry: %w", err)
	}
	return nil
}
