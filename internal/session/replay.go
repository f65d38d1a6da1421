package session

import (
	"context"
	"fmt"

	"github.com/rubengrill/blocks/internal/ruleset"
	"github.com/rubengrill/blocks/internal/store"
	"github.com/rubengrill/blocks/internal/trace"
)

// ReplayResult compares a journaled session with a fresh run of its
// actions.
type ReplayResult struct {
	Session store.Session

	// Actions is the number of journaled actions played again.
	Actions int

	// Journaled are the events read back from the store.
	Journaled []trace.Event
	// Replayed are the events of the fresh run.
	Replayed []trace.Event

	Digest string // digest of Replayed

	// Deterministic is true when the fresh run reproduced the stored digest.
	Deterministic bool

	// Divergence is the index of the first event that differs between
	// Journaled and Replayed, or -1.
	Divergence int
}

// Replay loads a session from s and plays its actions again.
//
// A session that was never finished (no digest) is compared against the
// digest of its journaled events.
func Replay(ctx context.Context, s *store.Store, sessionID string, opts ...Option) (*ReplayResult, error) {
	sess, err := s.ReadSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	set, err := store.UnmarshalPieces(sess.Pieces)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", sessionID, err)
	}
	stored, err := s.ReadActions(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", sessionID, err)
	}
	journaled, err := s.ReadEvents(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", sessionID, err)
	}

	actions := make([]Action, len(stored))
	for i, a := range stored {
		actions[i], err = ParseAction(a.Action)
		if err != nil {
			return nil, fmt.Errorf("replay %s: action %d: %w", sessionID, a.Seq, err)
		}
	}

	// The fresh run must not be journaled again.
	runner := NewRunner(append(opts, WithStore(nil))...)
	rs := &ruleset.Ruleset{Name: sess.Ruleset, Columns: sess.Columns, Rows: sess.Rows, Set: set}
	res, err := runner.Run(ctx, rs, sess.Seed, actions)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", sessionID, err)
	}

	want := sess.Digest
	if want == "" {
		want, err = trace.Digest(journaled)
		if err != nil {
			return nil, fmt.Errorf("replay %s: %w", sessionID, err)
		}
	}

	out := &ReplayResult{
		Session:       sess,
		Actions:       len(actions),
		Journaled:     journaled,
		Replayed:      res.Events,
		Digest:        res.Digest,
		Deterministic: res.Digest == want,
		Divergence:    divergence(journaled, res.Events),
	}
	runner.logger.Info("session replayed",
		"session", sessionID,
		"deterministic", out.Deterministic,
		"divergence", out.Divergence)
	return out, nil
}

// divergence returns the index of the first differing event, or -1.
func divergence(a, b []trace.Event) int {
	for i := range min(len(a), len(b)) {
		ca, errA := a[i].MarshalCanonical()
		cb, errB := b[i].MarshalCanonical()
		if errA != nil || errB != nil || string(ca) != string(cb) {
			return i
		}
	}
	if len(a) != len(b) {
		return min(len(a), len(b))
	}
	return -1
}
