package quiz

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/triviago/internal/metrics"
)

// Resumable describes a checkpoint the current user may continue.
type Resumable struct {
	Available bool
	Snapshot  *Snapshot
}

// Reconciler decides, before a new quiz is configured, whether the stored
// checkpoint belongs to the logged-in user.
type Reconciler struct {
	states   *StateManager
	identity IdentitySource
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// Check offers the checkpoint for resume when it has questions and its owner
// matches the logged-in email. Any other checkpoint is wiped together with
// its answer log. Nothing happens when nobody is logged in.
func (r *Reconciler) Check(ctx context.Context) (Resumable, error) {
	if r.identity == nil {
		return Resumable{}, nil
	}
	if _, ok := r.identity.Token(ctx); !ok {
		return Resumable{}, nil
	}

	snap, err := r.states.readSnapshot(ctx)
	if errors.Is(err, errCorruptSnapshot) {
		r.logger.Warn().Err(err).Msg("discarding corrupt quiz checkpoint")
		return Resumable{}, r.wipe(ctx, wipeFallback)
	}
	if err != nil {
		return Resumable{}, err
	}
	if snap == nil {
		return Resumable{}, nil
	}

	current, loggedIn := r.identity.Email(ctx)
	owned := snap.UserEmail != nil && *snap.UserEmail != "" && loggedIn && *snap.UserEmail == current
	if owned && len(snap.Questions) > 0 {
		return Resumable{Available: true, Snapshot: snap}, nil
	}

	owner := ""
	if snap.UserEmail != nil {
		owner = *snap.UserEmail
	}
	r.logger.Info().Str("owner", owner).Str("current", current).Msg("discarding checkpoint of another session")
	return Resumable{}, r.wipe(ctx, len(snap.Questions))
}

// Clear discards whatever checkpoint exists, for "start fresh".
func (r *Reconciler) Clear(ctx context.Context) error {
	n := wipeFallback
	if snap, err := r.states.readSnapshot(ctx); err == nil && snap != nil {
		n = len(snap.Questions)
	}
	return r.wipe(ctx, n)
}

func (r *Reconciler) wipe(ctx context.Context, n int) error {
	if err := r.states.Wipe(ctx, n); err != nil {
		return err
	}
	r.metrics.SessionEvent(metrics.SessionDiscarded)
	return nil
}
