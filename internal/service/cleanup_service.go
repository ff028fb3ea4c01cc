package service

import (
	"fmt"
	"log"
	"time"

	"wordspy/internal/models"
)

// CleanupService is the ephemeral message registry: it tracks private
// messages that carry secret information and removes them from the chat
// once their time-to-live elapses. There is no background timer; Reconcile
// runs cooperatively at the start of every inbound event.
type CleanupService struct {
	messages  MessageStore
	transport Transport
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(messages MessageStore, transport Transport) *CleanupService {
	return &CleanupService{messages: messages, transport: transport}
}

// Register records one sent message for deletion after the given ttl.
// Deletion is not attempted here.
func (s *CleanupService) Register(chatID int64, messageID int, ttl time.Duration, now time.Time) error {
	if err := s.messages.Insert(chatID, messageID, now.Add(ttl)); err != nil {
		return fmt.Errorf("failed to register ephemeral message: %w", err)
	}
	return nil
}

// Reconcile deletes every registered message whose expiry has passed and
// returns the surviving rows. A failed transport deletion (the message may
// already be gone) never blocks removal from the registry, so calling
// Reconcile again immediately is a no-op.
func (s *CleanupService) Reconcile(now time.Time) ([]models.PendingDeletion, error) {
	pending, err := s.messages.SelectAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load ephemeral messages: %w", err)
	}

	var live []models.PendingDeletion
	for _, msg := range pending {
		if !msg.Expired(now) {
			live = append(live, msg)
			continue
		}

		if err := s.transport.Retract(msg.ChatID, msg.MessageID); err != nil {
			log.Printf("Failed to delete expired message %d in chat %d: %v", msg.MessageID, msg.ChatID, err)
		}
		if err := s.messages.DeleteMatching(msg.ChatID, msg.MessageID); err != nil {
			return live, fmt.Errorf("failed to unregister message %d: %w", msg.MessageID, err)
		}
	}

	return live, nil
}

// Clear drops every registry row without touching the remote messages,
// used by the reset flow.
func (s *CleanupService) Clear() error {
	if err := s.messages.DeleteAll(); err != nil {
		return fmt.Errorf("failed to clear ephemeral messages: %w", err)
	}
	return nil
}
