// Package quiz runs one quiz attempt: it normalizes fetched questions, merges
// them with any checkpointed progress, counts down, checkpoints after every
// mutation and finalizes into a Result.
package quiz

import (
	"context"
	"errors"
	"fmt"

	"github.com/gokatarajesh/triviago/internal/question"
)

var (
	// ErrNoQuestions means neither a fetched set nor a checkpoint yielded
	// questions. Callers route back to quiz configuration.
	ErrNoQuestions = errors.New("quiz: no questions available")

	ErrInvalidQuestion = errors.New("quiz: invalid question")
	ErrInvalidConfig   = errors.New("quiz: invalid configuration")
	ErrUnknownOption   = errors.New("quiz: option is not offered for this question")
	ErrNoSelection     = errors.New("quiz: select an answer first")
	ErrFinalized       = errors.New("quiz: session already finished")
	ErrNotStarted      = errors.New("quiz: session not started")
	ErrTimerActive     = errors.New("quiz: timer already running")
)

// State of a Session.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateInProgress
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateInProgress:
		return "in_progress"
	case StateFinalized:
		return "finalized"
	default:
		return "uninitialized"
	}
}

// Question is a normalized question. Answer is always one of Options.
type Question struct {
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	Answer     string   `json:"answer"`
	Difficulty string   `json:"difficulty"`
}

// Snapshot is the checkpointed form of a session.
type Snapshot struct {
	SessionID       string     `json:"sessionId,omitempty"`
	CurrentQuestion int        `json:"currentQuestion"`
	SelectedAnswer  *string    `json:"selectedAnswer"`
	Score           int        `json:"score"`
	TimeLeft        *int       `json:"timeLeft,omitempty"`
	Questions       []Question `json:"questions"`
	UserEmail       *string    `json:"userEmail"`
}

// Result summarizes a finished attempt. Score equals TotalCorrect.
type Result struct {
	TotalQuestions int `json:"totalQuestions" yaml:"total_questions"`
	TotalCorrect   int `json:"totalCorrect" yaml:"total_correct"`
	TotalIncorrect int `json:"totalIncorrect" yaml:"total_incorrect"`
	TotalAnswered  int `json:"totalAnswered" yaml:"total_answered"`
	Score          int `json:"score" yaml:"score"`
	TimeLeft       int `json:"timeLeft" yaml:"time_left"`
}

// TickKind says what a timer tick did.
type TickKind int

const (
	TickContinues TickKind = iota
	TickForcedFinalize
)

// TickEvent is returned by Session.Tick. Result is set for TickForcedFinalize.
type TickEvent struct {
	Kind     TickKind
	TimeLeft int
	Result   *Result
}

// IdentitySource reports who is logged in. auth.SessionStore implements it.
type IdentitySource interface {
	Token(ctx context.Context) (string, bool)
	Email(ctx context.Context) (string, bool)
}

// QuestionSource fetches raw question sets. question.Service implements it.
type QuestionSource interface {
	FetchQuestions(ctx context.Context, req question.FetchRequest) ([]question.RawQuestion, error)
}

// Config is what the user picks before a quiz starts.
type Config struct {
	CategoryID int
	Difficulty string
	Amount     int
}

// Validate checks the configuration before any network call.
func (c Config) Validate() error {
	if c.CategoryID <= 0 {
		return fmt.Errorf("%w: pick a category", ErrInvalidConfig)
	}
	if !question.ValidDifficulty(c.Difficulty) {
		return fmt.Errorf("%w: difficulty must be easy, medium or hard", ErrInvalidConfig)
	}
	if c.Amount <= 0 || c.Amount > question.MaxAmount {
		return fmt.Errorf("%w: amount must be between 1 and %d", ErrInvalidConfig, question.MaxAmount)
	}
	return nil
}

func (c Config) fetchRequest() question.FetchRequest {
	return question.FetchRequest{Amount: c.Amount, CategoryID: c.CategoryID, Difficulty: c.Difficulty}
}
