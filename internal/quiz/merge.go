package quiz

import "slices"

// Merge resolves the session to run from a freshly fetched set and a
// checkpoint, either of which may be missing.
//
// Precedence:
//   - fresh questions beat checkpointed questions;
//   - checkpointed progress (index, selection, score) beats the zero defaults;
//   - checkpointed timeLeft beats budget, which is used when it is absent.
//
// Without fresh questions the checkpoint is adopted as is, with its own budget
// filling a missing timeLeft. ErrNoQuestions is returned when neither source
// has questions. Merge does not touch storage.
func Merge(fresh []Question, budget int, persisted *Snapshot) (Snapshot, error) {
	var snap Snapshot
	switch {
	case len(fresh) > 0:
		snap.Questions = fresh
		snap.TimeLeft = intPtr(budget)
		if persisted != nil {
			snap.SessionID = persisted.SessionID
			snap.CurrentQuestion = persisted.CurrentQuestion
			snap.SelectedAnswer = persisted.SelectedAnswer
			snap.Score = persisted.Score
			snap.UserEmail = persisted.UserEmail
			if persisted.TimeLeft != nil {
				snap.TimeLeft = intPtr(*persisted.TimeLeft)
			}
		}
	case persisted != nil && len(persisted.Questions) > 0:
		snap = *persisted
		if snap.TimeLeft == nil {
			snap.TimeLeft = intPtr(TimeBudget(snap.Questions))
		} else {
			snap.TimeLeft = intPtr(*snap.TimeLeft)
		}
	default:
		return Snapshot{}, ErrNoQuestions
	}
	sanitize(&snap)
	return snap, nil
}

// sanitize pulls progress fields back into range for the question set.
func sanitize(snap *Snapshot) {
	if snap.CurrentQuestion < 0 || snap.CurrentQuestion >= len(snap.Questions) {
		snap.CurrentQuestion = 0
		snap.SelectedAnswer = nil
		snap.Score = 0
	}
	snap.Score = min(max(snap.Score, 0), snap.CurrentQuestion)
	if snap.SelectedAnswer != nil {
		if !slices.Contains(snap.Questions[snap.CurrentQuestion].Options, *snap.SelectedAnswer) {
			snap.SelectedAnswer = nil
		} else {
			snap.SelectedAnswer = strPtr(*snap.SelectedAnswer)
		}
	}
	if *snap.TimeLeft < 0 {
		*snap.TimeLeft = 0
	}
}

// validQuestions reports whether every question offers its own answer.
func validQuestions(qs []Question) bool {
	for _, q := range qs {
		if len(q.Options) < 2 || !slices.Contains(q.Options, q.Answer) {
			return false
		}
	}
	return true
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
