package question

import (
	"errors"
	"fmt"
)

// Difficulty constants for readability.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// TypeMultiple is the only OpenTDB question type the quiz asks for.
const TypeMultiple = "multiple"

// MaxAmount is the largest batch OpenTDB serves per request.
const MaxAmount = 50

var ErrInvalidRequest = errors.New("question: invalid request")

// Category is one OpenTDB category.
type Category struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// RawQuestion is a question exactly as OpenTDB returns it: text fields are
// still HTML-escaped.
type RawQuestion struct {
	Category         string   `json:"category"`
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// FetchRequest selects a question set.
type FetchRequest struct {
	Amount     int
	CategoryID int
	Difficulty string
}

// ValidDifficulty reports whether d is easy, medium or hard.
func ValidDifficulty(d string) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

func (r FetchRequest) validate() error {
	if r.Amount <= 0 || r.Amount > MaxAmount {
		return fmt.Errorf("%w: amount must be between 1 and %d", ErrInvalidRequest, MaxAmount)
	}
	if r.CategoryID < 0 {
		return fmt.Errorf("%w: category must not be negative", ErrInvalidRequest)
	}
	if !ValidDifficulty(r.Difficulty) {
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidRequest, r.Difficulty)
	}
	return nil
}
