package game

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/rubengrill/blocks/internal/board"
	"github.com/rubengrill/blocks/internal/piece"
)

// kickOffsets are the horizontal offsets tried, in order, when rotating.
var kickOffsets = []int{0, -1, 1}

// Game orchestrates turns on one board.
//
// All operations are no-ops once the board is over.
type Game struct {
	board    *board.Board
	source   Source
	observer Observer
	ids      board.IDGenerator
	logger   *slog.Logger

	boardOpts []board.Option
}

// Option configures a Game at construction.
type Option func(*Game)

// WithSource sets the piece source. Default: a RandomSource over
// piece.Standard() with a random seed.
func WithSource(s Source) Option {
	return func(g *Game) {
		g.source = s
	}
}

// WithObserver registers the observer that receives events. Use Observers
// to register several.
func WithObserver(o Observer) Option {
	return func(g *Game) {
		g.observer = o
	}
}

// WithIDGenerator sets the generator for falling block identities. It is
// also handed to the board for brick identities unless WithBoardOptions
// overrides it. Default: board.UUIDv7Generator.
func WithIDGenerator(ids board.IDGenerator) Option {
	return func(g *Game) {
		g.ids = ids
	}
}

// WithLogger sets the logger for debug output. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(g *Game) {
		g.logger = l
	}
}

// WithBoardOptions passes options through to board.New.
func WithBoardOptions(opts ...board.Option) Option {
	return func(g *Game) {
		g.boardOpts = append(g.boardOpts, opts...)
	}
}

// New creates a game on an empty columns × rows board.
func New(columns, rows int, opts ...Option) (*Game, error) {
	g := &Game{
		ids: board.UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.source == nil {
		g.source = NewRandomSource(piece.Standard(), rand.Uint64())
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}

	boardOpts := append([]board.Option{board.WithIDGenerator(g.ids)}, g.boardOpts...)
	b, err := board.New(columns, rows, boardOpts...)
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}
	g.board = b
	g.boardOpts = nil

	if fs, ok := g.source.(FiniteSource); ok {
		for _, block := range fs.Blocks() {
			if !g.spawnFits(block) {
				return nil, fmt.Errorf("new game: %s/%s does not fit a %d-column board",
					block.Kind(), block.Rotation, columns)
			}
		}
	}
	return g, nil
}

// Board returns the board. Callers may use it directly; the game copes with
// states the player operations would never produce.
func (g *Game) Board() *board.Board { return g.board }

// IsOver reports whether the board is over.
func (g *Game) IsOver() bool { return g.board.IsOver() }

// SetSource replaces the piece source.
func (g *Game) SetSource(s Source) { g.source = s }

// SetObserver replaces the observer. nil disables events.
func (g *Game) SetObserver(o Observer) { g.observer = o }

// MoveLeft shifts the falling block one column left if it fits.
func (g *Game) MoveLeft() {
	current, ok := g.board.Current()
	if g.board.IsOver() || !ok || !g.board.CanMoveLeft() {
		return
	}
	g.moveSideways(current.MoveX(-1))
}

// MoveRight shifts the falling block one column right if it fits.
func (g *Game) MoveRight() {
	current, ok := g.board.Current()
	if g.board.IsOver() || !ok || !g.board.CanMoveRight() {
		return
	}
	g.moveSideways(current.MoveX(1))
}

// MoveDown shifts the falling block one row down unless it rests already.
// If that completes rows, the block is committed and the rows are cleared
// within the same call.
func (g *Game) MoveDown() {
	current, ok := g.board.Current()
	if g.board.IsOver() || !ok || g.board.CanCommit() {
		return
	}
	g.mustUpdate(current.MoveY(1))
	g.movedDown(false, false)
}

// MoveToBottom drops the falling block onto its projection and commits it.
func (g *Game) MoveToBottom() {
	projected, ok := g.board.Projected()
	if g.board.IsOver() || !ok {
		return
	}

	if !g.board.CanCommit() {
		g.mustUpdate(projected)
		g.movedDown(true, false)
	}

	// movedDown only commits when rows complete. Otherwise the block rests
	// here without full rows and is committed now.
	if g.board.CanCommit() {
		g.commit()
		if g.board.IsOver() {
			g.gameOver()
			return
		}
		if g.board.CanClearFullRows() {
			g.clearFullRows()
		}
	}
}

// RotateClockwise turns the falling block by 90°. If the turned block does
// not fit in place, one column left and then one column right are tried.
// When none fits the rotation is dropped without an event.
func (g *Game) RotateClockwise() {
	current, ok := g.board.Current()
	if g.board.IsOver() || !ok {
		return
	}

	rotated := current.RotateClockwise()
	for _, offset := range kickOffsets {
		candidate := rotated.MoveX(offset)
		err := g.board.UpdateCurrent(candidate)
		if err == nil {
			g.emit(MoveEvent{Block: candidate, Projected: g.projected()})
			return
		}
		code := board.CodeOf(err)
		if code != board.CodeOutOfBoard && code != board.CodeOverlaps {
			panic(fmt.Sprintf("game: rotate %s: %v", candidate, err))
		}
	}
	g.logger.Debug("rotation rejected", "piece", current.ID, "rotation", current.Rotation.String())
}

// Next advances the game by one tick.
//
// A block resting since the last tick is committed (and full rows cleared)
// first; the player had this tick to move it sideways. Without a falling
// block a new one spawns centered just above the grid. Otherwise the falling
// block moves down one row.
func (g *Game) Next() {
	if g.board.IsOver() {
		return
	}

	if g.board.CanCommit() {
		g.commit()
		if g.board.IsOver() {
			g.gameOver()
			return
		}
		// A sideways move or rotation can rest the block on rows it
		// completes. Clearing ends the tick.
		if g.board.CanClearFullRows() {
			g.clearFullRows()
			return
		}
	}

	if _, ok := g.board.Current(); !ok {
		if g.board.CanClearFullRows() {
			// Rows left pending by direct board use block the spawn.
			g.clearFullRows()
			return
		}

		spawned := g.spawn()
		g.mustUpdate(spawned)
		g.emit(SpawnEvent{Block: spawned, Projected: g.projected()})
		g.logger.Debug("block spawned", "piece", spawned.ID, "kind", spawned.Kind(), "x", spawned.X, "y", spawned.Y)

		if g.board.CanCommit() {
			// The block cannot enter at all. A block spawned above the grid
			// always ends the board on commit; the check covers odd shapes.
			g.commit()
			if g.board.IsOver() {
				g.gameOver()
				return
			}
			if g.board.CanClearFullRows() {
				g.clearFullRows()
			}
			return
		}
	}

	current, _ := g.board.Current()
	g.mustUpdate(current.MoveY(1))
	g.movedDown(false, true)
}

func (g *Game) moveSideways(candidate board.BoardBlock) {
	g.mustUpdate(candidate)
	g.emit(MoveEvent{Block: candidate, Projected: g.projected()})
}

// movedDown reports a downward move and, if it completed rows, commits and
// clears right away.
func (g *Game) movedDown(movedToBottom, movedByGame bool) {
	current, _ := g.board.Current()
	expectCommit := len(g.board.FullRows()) > 0

	g.emit(MoveEvent{
		Block:                        current,
		Projected:                    g.projected(),
		MovedToBottom:                movedToBottom,
		MovedByGame:                  movedByGame,
		ExpectCommitAndClearFullRows: expectCommit,
	})

	if !expectCommit {
		return
	}

	g.commit()
	if g.board.IsOver() {
		g.gameOver()
		return
	}
	g.clearFullRows()
}

// spawn takes the next block from the source and places it centered, with
// its lowest filled row just above row 0.
func (g *Game) spawn() board.BoardBlock {
	b := g.source.Next()
	block := b.Block()
	b.ID = g.ids.Generate()
	b.X = (g.board.Columns() - block.Size()) / 2
	b.Y = -block.RowBounds().Last - 1
	return b
}

// spawnFits reports whether b stays inside the columns when spawn centres it.
func (g *Game) spawnFits(b board.BoardBlock) bool {
	block := b.Block()
	x := (g.board.Columns() - block.Size()) / 2
	cols := block.ColumnBounds()
	return x+cols.First >= 0 && x+cols.Last < g.board.Columns()
}

func (g *Game) commit() {
	current, _ := g.board.Current()
	if err := g.board.Commit(); err != nil {
		panic(fmt.Sprintf("game: commit %s: %v", current, err))
	}
	g.logger.Debug("block committed", "piece", current.ID, "kind", current.Kind(), "x", current.X, "y", current.Y)
	g.emit(CommitEvent{Block: current})
}

func (g *Game) clearFullRows() {
	rows := g.board.FullRows()
	g.board.ClearFullRows()
	g.logger.Debug("rows cleared", "rows", rows)
	g.emit(ClearEvent{Rows: rows})
}

func (g *Game) gameOver() {
	g.logger.Debug("game over")
	g.emit(GameOverEvent{})
}

// mustUpdate applies a placement the flags already validated. A board error
// here is a bug in the game.
func (g *Game) mustUpdate(candidate board.BoardBlock) {
	if err := g.board.UpdateCurrent(candidate); err != nil {
		panic(fmt.Sprintf("game: update %s: %v", candidate, err))
	}
}

func (g *Game) projected() board.BoardBlock {
	p, _ := g.board.Projected()
	return p
}

func (g *Game) emit(e Event) {
	if g.observer == nil {
		return
	}
	Dispatch(g.observer, g, e)
}
