package database

import (
	"fmt"
	"log"

	"wordspy/internal/models"
)

// starterWords is the built-in catalog used until the moderator uploads a
// list of their own through the words menu.
var starterWords = []models.Word{
	{ID: 1, Word: "lighthouse", Hint: "a tall coastal building"},
	{ID: 2, Word: "submarine", Hint: "travels below the surface"},
	{ID: 3, Word: "orchestra", Hint: "many instruments, one conductor"},
	{ID: 4, Word: "carnival", Hint: "masks and parades"},
	{ID: 5, Word: "avalanche", Hint: "starts small, ends loud"},
	{ID: 6, Word: "greenhouse", Hint: "glass walls, warm air"},
	{ID: 7, Word: "marathon", Hint: "a very long effort"},
	{ID: 8, Word: "telescope", Hint: "brings far things near"},
	{ID: 9, Word: "volcano", Hint: "sleeps for centuries"},
	{ID: 10, Word: "labyrinth", Hint: "easy to enter, hard to leave"},
	{ID: 11, Word: "waterfall", Hint: "always falling, never gone"},
	{ID: 12, Word: "scarecrow", Hint: "works alone in a field"},
}

// SeedWords populates the word catalog with the starter list when the
// words table is empty. An already-populated catalog is left untouched.
func (db *DB) SeedWords() error {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM words").Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check words count: %w", err)
	}

	if count > 0 {
		log.Printf("Word catalog already populated with %d words", count)
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertQuery := db.Dialect.RewriteQuery("INSERT INTO words (id, word, hint) VALUES (?, ?, ?)")
	stmt, err := tx.Tx.Prepare(insertQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, w := range starterWords {
		if _, err := stmt.Exec(w.ID, w.Word, w.Hint); err != nil {
			return fmt.Errorf("failed to insert starter word %q: %w", w.Word, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit starter words: %w", err)
	}

	log.Printf("Seeded word catalog with %d starter words", len(starterWords))
	return nil
}
