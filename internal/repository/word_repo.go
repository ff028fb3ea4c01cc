package repository

import (
	"database/sql"
	"fmt"

	"wordspy/internal/database"
	"wordspy/internal/models"
)

// WordRepository handles database operations for the word catalog
type WordRepository struct {
	db *database.DB
}

// NewWordRepository creates a new word repository
func NewWordRepository(db *database.DB) *WordRepository {
	return &WordRepository{db: db}
}

// SelectAll retrieves every catalog entry
func (r *WordRepository) SelectAll() ([]models.Word, error) {
	rows, err := r.db.Query("SELECT id, word, hint FROM words ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query words: %w", err)
	}
	defer rows.Close()

	var words []models.Word
	for rows.Next() {
		var w models.Word
		if err := rows.Scan(&w.ID, &w.Word, &w.Hint); err != nil {
			return nil, fmt.Errorf("failed to scan word: %w", err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word rows: %w", err)
	}

	return words, nil
}

// GetByID retrieves one catalog entry, or nil when the id is unknown
func (r *WordRepository) GetByID(id int64) (*models.Word, error) {
	w := &models.Word{}
	err := r.db.QueryRow("SELECT id, word, hint FROM words WHERE id = ?", id).
		Scan(&w.ID, &w.Word, &w.Hint)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word: %w", err)
	}

	return w, nil
}

// ReplaceAll swaps the entire catalog for the given entries in one
// transaction. Callers validate the entries first.
func (r *WordRepository) ReplaceAll(words []models.Word) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM words"); err != nil {
		return fmt.Errorf("failed to clear words: %w", err)
	}

	insertQuery := r.db.Dialect.RewriteQuery("INSERT INTO words (id, word, hint) VALUES (?, ?, ?)")
	stmt, err := tx.Tx.Prepare(insertQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, w := range words {
		if _, err := stmt.Exec(w.ID, w.Word, w.Hint); err != nil {
			return fmt.Errorf("failed to insert word %d: %w", w.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit words: %w", err)
	}
	return nil
}
