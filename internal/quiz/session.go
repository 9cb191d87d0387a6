package quiz

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/triviago/internal/metrics"
)

// TickInterval is the countdown resolution.
const TickInterval = time.Second

// Session is one quiz attempt in progress. It is not safe for concurrent use:
// the caller serializes answer, advance and tick calls on one goroutine.
type Session struct {
	snap     Snapshot
	state    State
	states   *StateManager
	identity IdentitySource
	metrics  *metrics.Metrics
	logger   zerolog.Logger
	ticker   Ticker
}

func (s *Session) ID() string    { return s.snap.SessionID }
func (s *Session) State() State  { return s.state }
func (s *Session) Score() int    { return s.snap.Score }
func (s *Session) TimeLeft() int { return *s.snap.TimeLeft }
func (s *Session) Total() int    { return len(s.snap.Questions) }
func (s *Session) Index() int    { return s.snap.CurrentQuestion }
func (s *Session) IsLast() bool  { return s.snap.CurrentQuestion == len(s.snap.Questions)-1 }
func (s *Session) Current() Question {
	return s.snap.Questions[s.snap.CurrentQuestion]
}

// Selected returns the selection for the current question.
func (s *Session) Selected() (string, bool) {
	if s.snap.SelectedAnswer == nil {
		return "", false
	}
	return *s.snap.SelectedAnswer, true
}

// Snapshot returns a copy of the session as it would be checkpointed.
func (s *Session) Snapshot() Snapshot {
	out := s.snap
	out.Questions = slices.Clone(s.snap.Questions)
	out.TimeLeft = intPtr(*s.snap.TimeLeft)
	if s.snap.SelectedAnswer != nil {
		out.SelectedAnswer = strPtr(*s.snap.SelectedAnswer)
	}
	return out
}

func (s *Session) ensureRunning() error {
	switch s.state {
	case StateInProgress:
		return nil
	case StateFinalized:
		return ErrFinalized
	default:
		return ErrNotStarted
	}
}

// SelectAnswer records option for the current question and logs it. Nothing
// is scored until Advance.
func (s *Session) SelectAnswer(ctx context.Context, option string) error {
	if err := s.ensureRunning(); err != nil {
		return err
	}
	if !slices.Contains(s.Current().Options, option) {
		return ErrUnknownOption
	}
	s.snap.SelectedAnswer = strPtr(option)
	if err := s.states.StoreAnswer(ctx, s.snap.CurrentQuestion, option); err != nil {
		return err
	}
	return s.checkpoint(ctx)
}

// Advance moves past the current question. On the last question it finalizes
// with the remaining time and returns the result; otherwise the result is nil.
func (s *Session) Advance(ctx context.Context) (*Result, error) {
	if err := s.ensureRunning(); err != nil {
		return nil, err
	}
	selected, ok := s.Selected()
	if !ok {
		return nil, ErrNoSelection
	}
	if s.IsLast() {
		res, err := s.Finalize(ctx, s.TimeLeft())
		if err != nil {
			return nil, err
		}
		return &res, nil
	}

	if selected == s.Current().Answer {
		s.snap.Score++
	}
	s.snap.CurrentQuestion++
	s.snap.SelectedAnswer = nil
	next, logged, err := s.states.Answer(ctx, s.snap.CurrentQuestion)
	if err != nil {
		s.logger.Warn().Err(err).Int("index", s.snap.CurrentQuestion).Msg("answer log unreadable")
	} else if logged && slices.Contains(s.Current().Options, next) {
		s.snap.SelectedAnswer = strPtr(next)
	}
	return nil, s.checkpoint(ctx)
}

// Tick counts down one second. When the clock runs out the session is
// finalized with zero time left, answered or not.
func (s *Session) Tick(ctx context.Context) (TickEvent, error) {
	if err := s.ensureRunning(); err != nil {
		return TickEvent{}, err
	}
	left := *s.snap.TimeLeft - 1
	if left <= 0 {
		*s.snap.TimeLeft = 0
		res, err := s.Finalize(ctx, 0)
		if err != nil {
			return TickEvent{}, err
		}
		s.metrics.SessionEvent(metrics.SessionTimedOut)
		return TickEvent{Kind: TickForcedFinalize, Result: &res}, nil
	}
	*s.snap.TimeLeft = left
	return TickEvent{Kind: TickContinues, TimeLeft: left}, s.checkpoint(ctx)
}

// StartTimer starts the one-second ticker and returns its channel. The ticker
// stops on Finalize, Discard and Close.
func (s *Session) StartTimer(clock Clock) (<-chan time.Time, error) {
	if err := s.ensureRunning(); err != nil {
		return nil, err
	}
	if s.ticker != nil {
		return nil, ErrTimerActive
	}
	if clock == nil {
		clock = RealClock{}
	}
	s.ticker = clock.NewTicker(TickInterval)
	return s.ticker.C(), nil
}

func (s *Session) stopTimer() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
}

// Close stops the timer and leaves the checkpoint in place so the attempt can
// be resumed later.
func (s *Session) Close() {
	s.stopTimer()
}

// Finalize tallies the attempt from the answer log, clears the checkpoint and
// answer log, and ends the session. The tally replays questions 0 through the
// current one and ignores Score.
func (s *Session) Finalize(ctx context.Context, timeLeft int) (Result, error) {
	if err := s.ensureRunning(); err != nil {
		return Result{}, err
	}
	s.stopTimer()

	var correct, answered int
	currentLogged := false
	for i := 0; i <= s.snap.CurrentQuestion; i++ {
		answer, ok, err := s.states.Answer(ctx, i)
		if err != nil {
			s.logger.Warn().Err(err).Int("index", i).Msg("answer log unreadable")
			continue
		}
		if !ok {
			continue
		}
		if i == s.snap.CurrentQuestion {
			currentLogged = true
		}
		answered++
		if answer == s.snap.Questions[i].Answer {
			correct++
		}
	}
	if selected, ok := s.Selected(); ok && !currentLogged {
		answered++
		if selected == s.Current().Answer {
			correct++
		}
	}

	res := Result{
		TotalQuestions: len(s.snap.Questions),
		TotalCorrect:   correct,
		TotalIncorrect: answered - correct,
		TotalAnswered:  answered,
		Score:          correct,
		TimeLeft:       max(timeLeft, 0),
	}

	s.state = StateFinalized
	if err := s.states.Wipe(ctx, len(s.snap.Questions)); err != nil {
		s.logger.Error().Err(err).Str("session_id", s.ID()).Msg("clear finished session")
	}
	s.metrics.SessionEvent(metrics.SessionFinalized)
	s.logger.Info().
		Str("session_id", s.ID()).
		Int("correct", res.TotalCorrect).
		Int("answered", res.TotalAnswered).
		Int("time_left", res.TimeLeft).
		Msg("quiz finished")
	return res, nil
}

// Discard ends the session without a result and clears its checkpoint and
// answer log.
func (s *Session) Discard(ctx context.Context) error {
	if err := s.ensureRunning(); err != nil {
		return err
	}
	s.stopTimer()
	s.state = StateFinalized
	if err := s.states.Wipe(ctx, len(s.snap.Questions)); err != nil {
		return err
	}
	s.metrics.SessionEvent(metrics.SessionDiscarded)
	s.logger.Info().Str("session_id", s.ID()).Msg("quiz discarded")
	return nil
}

// checkpoint writes the whole session, stamped with whoever is logged in now.
func (s *Session) checkpoint(ctx context.Context) error {
	s.snap.UserEmail = nil
	if s.identity != nil {
		if email, ok := s.identity.Email(ctx); ok {
			s.snap.UserEmail = strPtr(email)
		}
	}
	if err := s.states.StoreSnapshot(ctx, s.snap); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	s.metrics.Checkpoint()
	return nil
}
