package service

import (
	"errors"
	"time"

	"wordspy/internal/models"
)

// memSessions is an in-memory SessionStore. Load hands out a copy so that
// unsaved mutations never leak back into the store.
type memSessions struct {
	snap     models.Snapshot
	saves    int
	failSave bool
}

func (m *memSessions) Load() (*models.Snapshot, error) {
	c := m.snap
	c.Game.Players = append([]models.Player(nil), m.snap.Game.Players...)
	c.UsedWordIDs = append([]int64(nil), m.snap.UsedWordIDs...)
	return &c, nil
}

func (m *memSessions) Save(snap *models.Snapshot) error {
	if m.failSave {
		return errors.New("store unavailable")
	}
	c := *snap
	c.Game.Players = append([]models.Player(nil), snap.Game.Players...)
	c.UsedWordIDs = append([]int64(nil), snap.UsedWordIDs...)
	m.snap = c
	m.saves++
	return nil
}

func (m *memSessions) Reset() error {
	m.snap = models.Snapshot{}
	return nil
}

// memWords is an in-memory WordStore.
type memWords struct {
	words []models.Word
}

func (m *memWords) SelectAll() ([]models.Word, error) {
	return append([]models.Word(nil), m.words...), nil
}

func (m *memWords) GetByID(id int64) (*models.Word, error) {
	for _, w := range m.words {
		if w.ID == id {
			c := w
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memWords) ReplaceAll(words []models.Word) error {
	m.words = append([]models.Word(nil), words...)
	return nil
}

// memMessages is an in-memory MessageStore.
type memMessages struct {
	rows []models.PendingDeletion
}

func (m *memMessages) Insert(chatID int64, messageID int, deleteAt time.Time) error {
	m.rows = append(m.rows, models.PendingDeletion{ChatID: chatID, MessageID: messageID, DeleteAt: deleteAt})
	return nil
}

func (m *memMessages) SelectAll() ([]models.PendingDeletion, error) {
	return append([]models.PendingDeletion(nil), m.rows...), nil
}

func (m *memMessages) DeleteMatching(chatID int64, messageID int) error {
	kept := m.rows[:0]
	for _, row := range m.rows {
		if row.ChatID != chatID || row.MessageID != messageID {
			kept = append(kept, row)
		}
	}
	m.rows = kept
	return nil
}

func (m *memMessages) DeleteAll() error {
	m.rows = nil
	return nil
}

// sentMessage records one Notify call.
type sentMessage struct {
	ID  int
	Msg Message
}

// retraction records one Retract call.
type retraction struct {
	ChatID    int64
	MessageID int
}

// fakeTransport records outbound traffic and hands out sequential ids.
type fakeTransport struct {
	sent        []sentMessage
	retracted   []retraction
	nextID      int
	failRetract bool
}

func (f *fakeTransport) Notify(msg Message) (int, error) {
	f.nextID++
	f.sent = append(f.sent, sentMessage{ID: f.nextID, Msg: msg})
	return f.nextID, nil
}

func (f *fakeTransport) Retract(chatID int64, messageID int) error {
	f.retracted = append(f.retracted, retraction{ChatID: chatID, MessageID: messageID})
	if f.failRetract {
		return errors.New("message already gone")
	}
	return nil
}

// sentTo returns the texts delivered to one chat, in order.
func (f *fakeTransport) sentTo(chatID int64) []string {
	var texts []string
	for _, s := range f.sent {
		if s.Msg.ChatID == chatID {
			texts = append(texts, s.Msg.Text)
		}
	}
	return texts
}

// lastTo returns the most recent text delivered to one chat.
func (f *fakeTransport) lastTo(chatID int64) string {
	texts := f.sentTo(chatID)
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}
