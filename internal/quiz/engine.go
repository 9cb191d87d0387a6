package quiz

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/triviago/internal/metrics"
	"github.com/gokatarajesh/triviago/internal/question"
	"github.com/gokatarajesh/triviago/internal/storage"
)

// Options configures an Engine. Store is required.
type Options struct {
	Store    storage.Store
	Identity IdentitySource
	Rand     Shuffler
	Metrics  *metrics.Metrics
}

// Engine creates sessions from fetched questions and checkpoints.
type Engine struct {
	states   *StateManager
	identity IdentitySource
	rng      Shuffler
	newID    func() string
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

func NewEngine(opts Options, logger zerolog.Logger) *Engine {
	logger = logger.With().Str("component", "quiz").Logger()
	rng := opts.Rand
	if rng == nil {
		rng = globalRand{}
	}
	return &Engine{
		states:   NewStateManager(opts.Store, logger),
		identity: opts.Identity,
		rng:      rng,
		newID:    uuid.NewString,
		metrics:  opts.Metrics,
		logger:   logger,
	}
}

// Start validates cfg, fetches a question set from src and initializes a
// session from it.
func (e *Engine) Start(ctx context.Context, src QuestionSource, cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	raw, err := src.FetchQuestions(ctx, cfg.fetchRequest())
	if err != nil {
		return nil, err
	}
	return e.Initialize(ctx, raw)
}

// Resume initializes a session from the checkpoint alone.
func (e *Engine) Resume(ctx context.Context) (*Session, error) {
	return e.Initialize(ctx, nil)
}

// Initialize builds the session to run from fetched (may be empty) and the
// stored checkpoint, following Merge's precedence. ErrNoQuestions means the
// caller must send the user back to configuration; a checkpoint without
// questions is removed in that case.
func (e *Engine) Initialize(ctx context.Context, fetched []question.RawQuestion) (*Session, error) {
	persisted, err := e.states.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	var fresh []Question
	if len(fetched) > 0 {
		if fresh, err = Normalize(fetched, e.rng); err != nil {
			return nil, err
		}
	}

	snap, err := Merge(fresh, TimeBudget(fresh), persisted)
	if errors.Is(err, ErrNoQuestions) {
		if persisted != nil {
			if derr := e.states.DeleteSnapshot(ctx); derr != nil {
				e.logger.Warn().Err(derr).Msg("remove empty checkpoint")
			}
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	if snap.SessionID == "" {
		snap.SessionID = e.newID()
	}

	s := &Session{
		snap:     snap,
		state:    StateLoading,
		states:   e.states,
		identity: e.identity,
		metrics:  e.metrics,
		logger:   e.logger.With().Str("session_id", snap.SessionID).Logger(),
	}
	if err := s.checkpoint(ctx); err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}
	s.state = StateInProgress

	event := metrics.SessionStarted
	if persisted != nil {
		event = metrics.SessionResumed
	}
	e.metrics.SessionEvent(event)
	s.logger.Info().
		Str("event", event).
		Int("questions", s.Total()).
		Int("index", s.Index()).
		Int("time_left", s.TimeLeft()).
		Msg("quiz session ready")
	return s, nil
}

// Reconciler returns the ownership check bound to this engine's store.
func (e *Engine) Reconciler() *Reconciler {
	return &Reconciler{
		states:   e.states,
		identity: e.identity,
		metrics:  e.metrics,
		logger:   e.logger,
	}
}
