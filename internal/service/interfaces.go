package service

import (
	"time"

	"wordspy/internal/models"
)

// Choice is one labeled action on an interactive message.
type Choice struct {
	Label string
	Data  string
}

// Message is one outbound notification. Choices, when present, are rendered
// as an inline keyboard. Markdown marks the text as pre-escaped MarkdownV2.
type Message struct {
	ChatID   int64
	Text     string
	Choices  [][]Choice
	Markdown bool
}

// Transport delivers and retracts chat messages.
type Transport interface {
	// Notify sends one message and returns the transport's message id.
	Notify(msg Message) (int, error)
	// Retract deletes a previously sent (or received) message.
	Retract(chatID int64, messageID int) error
}

// SessionStore persists the single global session snapshot.
type SessionStore interface {
	Load() (*models.Snapshot, error)
	Save(snap *models.Snapshot) error
	Reset() error
}

// WordStore persists the word catalog.
type WordStore interface {
	SelectAll() ([]models.Word, error)
	GetByID(id int64) (*models.Word, error)
	ReplaceAll(words []models.Word) error
}

// MessageStore persists the ephemeral message registry.
type MessageStore interface {
	Insert(chatID int64, messageID int, deleteAt time.Time) error
	SelectAll() ([]models.PendingDeletion, error)
	DeleteMatching(chatID int64, messageID int) error
	DeleteAll() error
}
