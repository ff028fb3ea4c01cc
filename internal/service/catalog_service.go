package service

import (
	"fmt"
	"math/rand"

	"wordspy/internal/models"
)

// CatalogService provides random draws and bulk updates over the word
// catalog.
type CatalogService struct {
	words WordStore
	rng   *rand.Rand
}

// NewCatalogService creates a new catalog service
func NewCatalogService(words WordStore, rng *rand.Rand) *CatalogService {
	return &CatalogService{words: words, rng: rng}
}

// DrawExcluding returns one uniformly-random catalog entry whose id is not
// in usedIDs, or ErrCatalogExhausted when none remains.
func (s *CatalogService) DrawExcluding(usedIDs []int64) (*models.Word, error) {
	words, err := s.words.SelectAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	used := make(map[int64]bool, len(usedIDs))
	for _, id := range usedIDs {
		used[id] = true
	}

	var available []models.Word
	for _, w := range words {
		if !used[w.ID] {
			available = append(available, w)
		}
	}
	if len(available) == 0 {
		return nil, ErrCatalogExhausted
	}

	w := available[s.rng.Intn(len(available))]
	return &w, nil
}

// Lookup returns the entry for an id, or ErrWordNotFound.
func (s *CatalogService) Lookup(id int64) (*models.Word, error) {
	w, err := s.words.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up word %d: %w", id, err)
	}
	if w == nil {
		return nil, ErrWordNotFound
	}
	return w, nil
}

// ReplaceAll validates the entries and atomically swaps the whole catalog.
// Every entry needs a positive id, a word, and a hint.
func (s *CatalogService) ReplaceAll(words []models.Word) error {
	for i, w := range words {
		if w.ID <= 0 || w.Word == "" || w.Hint == "" {
			return fmt.Errorf("%w: entry %d", ErrInvalidCatalog, i)
		}
	}

	if err := s.words.ReplaceAll(words); err != nil {
		return fmt.Errorf("failed to replace catalog: %w", err)
	}
	return nil
}
