package models

import "time"

// PendingDeletion is one outbound message that carried secret information
// and must be removed from the chat once its time-to-live elapses.
type PendingDeletion struct {
	ChatID    int64
	MessageID int
	DeleteAt  time.Time
}

// Expired reports whether the message is due for deletion at the given time.
func (p PendingDeletion) Expired(now time.Time) bool {
	return !p.DeleteAt.After(now)
}
