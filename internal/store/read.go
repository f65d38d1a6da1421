package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rubengrill/blocks/internal/trace"
)

var (
	// ErrNotFound is returned when a session or event does not exist.
	ErrNotFound = errors.New("not found")

	// ErrCorrupt is returned when a stored event no longer matches its
	// content id.
	ErrCorrupt = errors.New("corrupt journal")
)

// Session is one journaled game.
type Session struct {
	ID      string
	Seed    uint64
	Columns int
	Rows    int
	Ruleset string // rule set name, informational
	Pieces  string // MarshalPieces output
	Digest  string // trace digest, set by FinishSession
	Over    bool
}

// Action is one journaled player or tick action.
type Action struct {
	Seq    int64
	Action string
}

// ReadSession returns the session with the given id.
// Returns ErrNotFound if it does not exist.
func (s *Store) ReadSession(ctx context.Context, id string) (Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seed, board_columns, board_rows, ruleset, pieces, digest, game_over
		FROM sessions
		WHERE id = ?
	`, id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, fmt.Errorf("read session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Session{}, fmt.Errorf("read session %s: %w", id, err)
	}
	return sess, nil
}

// LatestSession returns the most recently created session.
// Returns ErrNotFound if the journal is empty.
func (s *Store) LatestSession(ctx context.Context) (Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seed, board_columns, board_rows, ruleset, pieces, digest, game_over
		FROM sessions
		ORDER BY rowid DESC
		LIMIT 1
	`)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, fmt.Errorf("latest session: %w", ErrNotFound)
	}
	if err != nil {
		return Session{}, fmt.Errorf("latest session: %w", err)
	}
	return sess, nil
}

// ListSessions returns all sessions in creation order.
//
// Returns empty slice (not nil) if the journal is empty.
func (s *Store) ListSessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seed, board_columns, board_rows, ruleset, pieces, digest, game_over
		FROM sessions
		ORDER BY rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// ReadActions returns the actions of a session ordered by seq.
//
// Returns empty slice (not nil) if the session has no actions.
func (s *Store) ReadActions(ctx context.Context, sessionID string) ([]Action, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, name
		FROM actions
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query actions: %w", err)
	}
	defer rows.Close()

	actions := []Action{}
	for rows.Next() {
		var a Action
		if err := rows.Scan(&a.Seq, &a.Action); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		actions = append(actions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate actions: %w", err)
	}
	return actions, nil
}

// ReadEvents returns the trace events of a session ordered by seq.
// Each event is checked against its stored content id.
//
// Returns empty slice (not nil) if the session has no events.
func (s *Store) ReadEvents(ctx context.Context, sessionID string) ([]trace.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, payload
		FROM events
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []trace.Event{}
	for rows.Next() {
		var id, payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e, err := decodeEvent(id, payload)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// ReadEvent looks an event up by content id and returns it with the id of
// its session.
// Returns ErrNotFound if no event has that id.
func (s *Store) ReadEvent(ctx context.Context, id string) (string, trace.Event, error) {
	var sessionID, payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT session_id, payload
		FROM events
		WHERE id = ?
		ORDER BY session_id ASC, seq ASC
		LIMIT 1
	`, id).Scan(&sessionID, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return "", trace.Event{}, fmt.Errorf("read event %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return "", trace.Event{}, fmt.Errorf("read event %s: %w", id, err)
	}

	e, err := decodeEvent(id, payload)
	if err != nil {
		return "", trace.Event{}, err
	}
	return sessionID, e, nil
}

func decodeEvent(id, payload string) (trace.Event, error) {
	e, err := unmarshalEvent(payload)
	if err != nil {
		return trace.Event{}, err
	}
	got, err := trace.EventID(e)
	if err != nil {
		return trace.Event{}, err
	}
	if got != id {
		return trace.Event{}, fmt.Errorf("event #%d: id %s, content hashes to %s: %w", e.Seq, id, got, ErrCorrupt)
	}
	return e, nil
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (Session, error) {
	var sess Session
	var seed int64
	if err := row.Scan(
		&sess.ID,
		&seed,
		&sess.Columns,
		&sess.Rows,
		&sess.Ruleset,
		&sess.Pieces,
		&sess.Digest,
		&sess.Over,
	); err != nil {
		return Session{}, err
	}
	sess.Seed = uint64(seed)
	return sess, nil
}
