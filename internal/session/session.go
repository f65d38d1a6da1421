package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rubengrill/blocks/internal/board"
	"github.com/rubengrill/blocks/internal/game"
	"github.com/rubengrill/blocks/internal/ruleset"
	"github.com/rubengrill/blocks/internal/store"
	"github.com/rubengrill/blocks/internal/trace"
)

// Result is the outcome of a session.
type Result struct {
	SessionID string
	Seed      uint64
	Events    []trace.Event
	Digest    string
	Over      bool

	// Applied counts the actions that were applied. Actions after the game
	// ended are neither applied nor journaled.
	Applied int

	Board *board.Board
}

// Runner plays sessions.
type Runner struct {
	store    *store.Store
	observer game.Observer
	logger   *slog.Logger
	ids      board.IDGenerator
}

// Option configures a Runner.
type Option func(*Runner)

// WithStore journals sessions to s. Without a store sessions are only
// played in memory.
func WithStore(s *store.Store) Option {
	return func(r *Runner) {
		r.store = s
	}
}

// WithObserver registers an additional observer, e.g. metrics.
func WithObserver(o game.Observer) Option {
	return func(r *Runner) {
		r.observer = o
	}
}

// WithLogger sets the logger for the runner and the games it plays.
// Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithSessionIDs sets the generator for session ids. Default:
// board.UUIDv7Generator.
func WithSessionIDs(ids board.IDGenerator) Option {
	return func(r *Runner) {
		r.ids = ids
	}
}

// NewRunner creates a runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.ids == nil {
		r.ids = board.UUIDv7Generator{}
	}
	return r
}

// Run plays actions on a fresh game for rs and seed. With a store, the
// session, each applied action and each event are journaled as they happen,
// and the digest is stored at the end.
func (r *Runner) Run(ctx context.Context, rs *ruleset.Ruleset, seed uint64, actions []Action) (*Result, error) {
	res := &Result{SessionID: r.ids.Generate(), Seed: seed}

	if r.store != nil {
		pieces, err := store.MarshalPieces(rs.Set)
		if err != nil {
			return nil, fmt.Errorf("run session: %w", err)
		}
		err = r.store.CreateSession(ctx, store.Session{
			ID:      res.SessionID,
			Seed:    seed,
			Columns: rs.Columns,
			Rows:    rs.Rows,
			Ruleset: rs.Name,
			Pieces:  pieces,
		})
		if err != nil {
			return nil, fmt.Errorf("run session: %w", err)
		}
	}

	// Events are journaled as the game emits them. The first failed write
	// stops the session after the current action.
	var journalErr error
	var recOpts []trace.RecorderOption
	if r.store != nil {
		recOpts = append(recOpts, trace.WithSink(func(e trace.Event) {
			if journalErr == nil {
				journalErr = r.store.WriteEvent(ctx, res.SessionID, e)
			}
		}))
	}
	recorder := trace.NewRecorder(recOpts...)

	g, err := newGame(rs, seed, game.Observers{recorder, r.observer}, r.logger)
	if err != nil {
		return nil, fmt.Errorf("run session: %w", err)
	}

	r.logger.Info("session started", "session", res.SessionID, "seed", seed, "columns", rs.Columns, "rows", rs.Rows)

	for i, a := range actions {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run session %s: %w", res.SessionID, err)
		}
		if g.IsOver() {
			break
		}
		if err := a.Apply(g); err != nil {
			return nil, fmt.Errorf("run session %s: action %d: %w", res.SessionID, i+1, err)
		}
		res.Applied++

		if r.store == nil {
			continue
		}
		if journalErr != nil {
			return nil, fmt.Errorf("run session %s: %w", res.SessionID, journalErr)
		}
		if err := r.store.WriteAction(ctx, res.SessionID, int64(i+1), string(a)); err != nil {
			return nil, fmt.Errorf("run session %s: %w", res.SessionID, err)
		}
	}

	res.Events = recorder.Events()
	res.Over = g.IsOver()
	res.Board = g.Board()
	res.Digest, err = trace.Digest(res.Events)
	if err != nil {
		return nil, fmt.Errorf("run session %s: %w", res.SessionID, err)
	}

	if r.store != nil {
		if err := r.store.FinishSession(ctx, res.SessionID, res.Digest, res.Over); err != nil {
			return nil, fmt.Errorf("run session %s: %w", res.SessionID, err)
		}
	}

	r.logger.Info("session finished",
		"session", res.SessionID,
		"actions", res.Applied,
		"events", len(res.Events),
		"over", res.Over,
		"digest", res.Digest)
	return res, nil
}

// newGame builds the game a session plays. Everything random derives from
// seed, so the same seed and actions give the same trace.
func newGame(rs *ruleset.Ruleset, seed uint64, observer game.Observer, logger *slog.Logger) (*game.Game, error) {
	return game.New(rs.Columns, rs.Rows,
		game.WithSource(game.NewRandomSource(rs.Set, seed)),
		game.WithIDGenerator(board.NewSeededGenerator(seed)),
		game.WithObserver(observer),
		game.WithLogger(logger),
	)
}
