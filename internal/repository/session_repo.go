package repository

import (
	"encoding/json"
	"fmt"
	"strconv"

	"wordspy/internal/database"
	"wordspy/internal/models"
)

// Keys under which the session snapshot is stored in the game table.
const (
	keyGame          = "game"
	keyState         = "state"
	keyGodID         = "god_id"
	keyPendingWordID = "pending_word_id"
	keyCurrentWordID = "current_word_id"
	keyUsedWords     = "used_words"
)

// SessionRepository persists the single global game snapshot in a
// key/value table.
type SessionRepository struct {
	db *database.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Load reads the full session snapshot. Missing keys yield zero values, so
// a fresh deployment loads an idle snapshot without any setup step.
func (r *SessionRepository) Load() (*models.Snapshot, error) {
	rows, err := r.db.Query("SELECT key, value FROM game")
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}
	defer rows.Close()

	snap := &models.Snapshot{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		if err := applyKey(snap, key, value); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read session rows: %w", err)
	}

	return snap, nil
}

func applyKey(snap *models.Snapshot, key, value string) error {
	switch key {
	case keyGame:
		if value == "" {
			return nil
		}
		if err := json.Unmarshal([]byte(value), &snap.Game); err != nil {
			return fmt.Errorf("failed to decode game record: %w", err)
		}
	case keyState:
		snap.Phase = models.Phase(value)
	case keyGodID:
		snap.GodID = parseID(value)
	case keyPendingWordID:
		snap.PendingWordID = parseID(value)
	case keyCurrentWordID:
		snap.CurrentWordID = parseID(value)
	case keyUsedWords:
		if value == "" {
			return nil
		}
		if err := json.Unmarshal([]byte(value), &snap.UsedWordIDs); err != nil {
			return fmt.Errorf("failed to decode used words: %w", err)
		}
	}
	return nil
}

// Save writes the whole snapshot in one transaction so the session record
// and the phase can never be observed half-updated.
func (r *SessionRepository) Save(snap *models.Snapshot) error {
	gameJSON, err := json.Marshal(&snap.Game)
	if err != nil {
		return fmt.Errorf("failed to encode game record: %w", err)
	}
	usedJSON, err := json.Marshal(snap.UsedWordIDs)
	if err != nil {
		return fmt.Errorf("failed to encode used words: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	upsert := r.db.Dialect.RewriteQuery(r.db.Dialect.UpsertKV("game"))
	pairs := [][2]string{
		{keyGame, string(gameJSON)},
		{keyState, string(snap.Phase)},
		{keyGodID, formatID(snap.GodID)},
		{keyPendingWordID, formatID(snap.PendingWordID)},
		{keyCurrentWordID, formatID(snap.CurrentWordID)},
		{keyUsedWords, string(usedJSON)},
	}
	for _, pair := range pairs {
		if _, err := tx.Tx.Exec(upsert, pair[0], pair[1]); err != nil {
			return fmt.Errorf("failed to save session key %s: %w", pair[0], err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	return nil
}

// Reset wipes the entire session snapshot.
func (r *SessionRepository) Reset() error {
	if _, err := r.db.Exec("DELETE FROM game"); err != nil {
		return fmt.Errorf("failed to reset session: %w", err)
	}
	return nil
}

func parseID(value string) int64 {
	if value == "" {
		return 0
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func formatID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
