package models

// Word is one catalog entry: the secret word for a round plus the hint
// shown to the roles that must not see the word.
type Word struct {
	ID   int64  `json:"id"`
	Word string `json:"word"`
	Hint string `json:"hint"`
}
