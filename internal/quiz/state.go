package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/triviago/internal/storage"
)

// SnapshotKey holds the checkpointed session.
const SnapshotKey = "quizState"

// wipeFallback is how many answer keys are cleared when the checkpoint is
// unreadable and the real question count is unknown.
const wipeFallback = 50

// AnswerKey is the answer-log key for question i.
func AnswerKey(i int) string {
	return fmt.Sprintf("answer-%d", i)
}

var errCorruptSnapshot = errors.New("corrupt snapshot")

// StateManager reads and writes the session checkpoint and answer log.
// Writes are synchronous and last-write-wins.
type StateManager struct {
	store  storage.Store
	logger zerolog.Logger
}

func NewStateManager(store storage.Store, logger zerolog.Logger) *StateManager {
	return &StateManager{store: store, logger: logger}
}

// LoadSnapshot returns nil, nil when nothing is stored. A snapshot that does
// not decode, or whose questions do not offer their own answers, is logged,
// removed together with the answer log, and reported as absent.
func (s *StateManager) LoadSnapshot(ctx context.Context) (*Snapshot, error) {
	snap, err := s.readSnapshot(ctx)
	if errors.Is(err, errCorruptSnapshot) {
		s.logger.Warn().Err(err).Msg("discarding corrupt quiz checkpoint")
		if werr := s.Wipe(ctx, wipeFallback); werr != nil {
			return nil, werr
		}
		return nil, nil
	}
	return snap, err
}

func (s *StateManager) readSnapshot(ctx context.Context) (*Snapshot, error) {
	data, err := s.store.Get(ctx, SnapshotKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", errCorruptSnapshot, err)
	}
	if !validQuestions(snap.Questions) {
		return nil, fmt.Errorf("%w: question without its answer", errCorruptSnapshot)
	}
	return &snap, nil
}

// StoreSnapshot checkpoints snap.
func (s *StateManager) StoreSnapshot(ctx context.Context, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.store.Set(ctx, SnapshotKey, string(data), 0); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	return nil
}

// DeleteSnapshot removes only the checkpoint.
func (s *StateManager) DeleteSnapshot(ctx context.Context) error {
	if err := s.store.Delete(ctx, SnapshotKey); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

// StoreAnswer logs option for question i, replacing any earlier entry.
func (s *StateManager) StoreAnswer(ctx context.Context, i int, option string) error {
	if err := s.store.Set(ctx, AnswerKey(i), option, 0); err != nil {
		return fmt.Errorf("store answer %d: %w", i, err)
	}
	return nil
}

// Answer returns the logged option for question i. Empty entries count as
// unanswered.
func (s *StateManager) Answer(ctx context.Context, i int) (string, bool, error) {
	val, err := s.store.Get(ctx, AnswerKey(i))
	if errors.Is(err, storage.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get answer %d: %w", i, err)
	}
	return val, val != "", nil
}

// Wipe removes the checkpoint and answer-0 .. answer-(n-1).
func (s *StateManager) Wipe(ctx context.Context, n int) error {
	keys := make([]string, 0, n+1)
	keys = append(keys, SnapshotKey)
	for i := 0; i < n; i++ {
		keys = append(keys, AnswerKey(i))
	}
	if err := s.store.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("wipe session: %w", err)
	}
	return nil
}
