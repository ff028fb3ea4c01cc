package service

import "errors"

var (
	// ErrCatalogExhausted means every catalog entry has already been used
	// this session.
	ErrCatalogExhausted = errors.New("no unused words left in catalog")

	// ErrWordNotFound means a referenced catalog id does not exist.
	ErrWordNotFound = errors.New("word not found")

	// ErrInvalidCatalog means a submitted catalog entry is missing its id,
	// word, or hint.
	ErrInvalidCatalog = errors.New("invalid catalog entry")
)
