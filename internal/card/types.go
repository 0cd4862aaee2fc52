package card

import (
	"errors"
	"time"
)

// ErrNotFound is returned when no card exists for the requested id.
var ErrNotFound = errors.New("card not found")

// Card holds the answer key and prompt for one flashcard.
type Card struct {
	ID                string    `json:"id"`
	Prompt            string    `json:"prompt"`
	Content           string    `json:"content,omitempty"`
	CanonicalAnswer   string    `json:"canonical_answer"`
	AcceptableAnswers []string  `json:"acceptable_answers"`
	CreatedAt         time.Time `json:"created_at"`
}
