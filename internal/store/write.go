package store

import (
	"context"
	"fmt"

	"github.com/rubengrill/blocks/internal/trace"
)

// CreateSession inserts a session record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
func (s *Store) CreateSession(ctx context.Context, sess Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions
		(id, seed, board_columns, board_rows, ruleset, pieces, digest, game_over)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		sess.ID,
		int64(sess.Seed),
		sess.Columns,
		sess.Rows,
		sess.Ruleset,
		sess.Pieces,
		sess.Digest,
		sess.Over,
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// FinishSession stores the trace digest and final state of a session.
// Returns ErrNotFound if the session does not exist.
func (s *Store) FinishSession(ctx context.Context, id, digest string, over bool) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET digest = ?, game_over = ? WHERE id = ?
	`, digest, over, id)
	if err != nil {
		return fmt.Errorf("finish session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish session %s: %w", id, ErrNotFound)
	}
	return nil
}

// WriteAction appends an action to a session.
// Uses ON CONFLICT DO NOTHING for idempotency.
//
// Note: The session must exist (foreign key constraint).
func (s *Store) WriteAction(ctx context.Context, sessionID string, seq int64, action string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO actions (session_id, seq, name)
		VALUES (?, ?, ?)
		ON CONFLICT DO NOTHING
	`, sessionID, seq, action)
	if err != nil {
		return fmt.Errorf("write action: %w", err)
	}
	return nil
}

// WriteEvent appends a trace event to a session. The payload is the
// event's canonical JSON; the id is its content hash.
//
// Note: The session must exist (foreign key constraint).
func (s *Store) WriteEvent(ctx context.Context, sessionID string, e trace.Event) error {
	payload, err := e.MarshalCanonical()
	if err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	id, err := trace.EventID(e)
	if err != nil {
		return fmt.Errorf("write event: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO events (session_id, seq, id, type, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`, sessionID, e.Seq, id, string(e.Type), string(payload))
	if err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}
