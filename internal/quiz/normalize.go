package quiz

import (
	"fmt"
	"html"
	"math/rand/v2"

	"github.com/gokatarajesh/triviago/internal/question"
)

// Seconds per question by difficulty.
const (
	easySeconds    = 30
	mediumSeconds  = 20
	hardSeconds    = 15
	defaultSeconds = mediumSeconds
)

// Shuffler supplies randomness for option order. *rand.Rand satisfies it.
type Shuffler interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// PerQuestionSeconds maps a difficulty to its time allowance.
func PerQuestionSeconds(difficulty string) int {
	switch difficulty {
	case question.DifficultyEasy:
		return easySeconds
	case question.DifficultyHard:
		return hardSeconds
	default:
		return defaultSeconds
	}
}

// TimeBudget is the total seconds for qs, priced at the first question's
// difficulty.
func TimeBudget(qs []Question) int {
	if len(qs) == 0 {
		return 0
	}
	return PerQuestionSeconds(qs[0].Difficulty) * len(qs)
}

// Shuffle returns a uniformly random permutation of options (Fisher-Yates).
// The input is not modified.
func Shuffle(options []string, rng Shuffler) []string {
	out := append([]string(nil), options...)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Normalize unescapes and shuffles a fetched set. A single malformed question
// rejects the whole set with ErrInvalidQuestion: it must have at least one
// incorrect answer and no two options may be equal.
func Normalize(raw []question.RawQuestion, rng Shuffler) ([]Question, error) {
	if rng == nil {
		rng = globalRand{}
	}
	out := make([]Question, 0, len(raw))
	for i, q := range raw {
		if len(q.IncorrectAnswers) == 0 {
			return nil, fmt.Errorf("%w: question %d has no incorrect answers", ErrInvalidQuestion, i)
		}
		answer := html.UnescapeString(q.CorrectAnswer)
		options := make([]string, 0, len(q.IncorrectAnswers)+1)
		seen := make(map[string]struct{}, len(q.IncorrectAnswers)+1)
		for j := 0; j <= len(q.IncorrectAnswers); j++ {
			opt := answer
			if j < len(q.IncorrectAnswers) {
				opt = html.UnescapeString(q.IncorrectAnswers[j])
			}
			if _, dup := seen[opt]; dup {
				return nil, fmt.Errorf("%w: question %d repeats option %q", ErrInvalidQuestion, i, opt)
			}
			seen[opt] = struct{}{}
			options = append(options, opt)
		}
		out = append(out, Question{
			Question:   html.UnescapeString(q.Question),
			Options:    Shuffle(options, rng),
			Answer:     answer,
			Difficulty: q.Difficulty,
		})
	}
	return out, nil
}
