package board

import (
	"fmt"
	"slices"

	"github.com/kamstrup/intmap"
)

// cell is a grid coordinate covered by the falling block.
type cell struct {
	x, y int
}

// Board is the placed-cell grid plus the falling block.
//
// INVARIANTS:
//   - grid is always rows × columns
//   - over never resets
//   - fullRows is sorted and only non-empty when the last UpdateCurrent left
//     a resting block, or after the Commit that followed it
type Board struct {
	columns int
	rows    int
	grid    [][]*Brick
	ids     IDGenerator

	over         bool
	canCommit    bool
	canMoveLeft  bool
	canMoveRight bool
	fullRows     []int

	current      *BoardBlock
	currentCells []cell
	projected    *BoardBlock
}

// Option configures a Board at construction.
type Option func(*Board)

// WithIDGenerator sets the generator used for brick identities.
// Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(b *Board) {
		b.ids = g
	}
}

// WithGrid seeds the board with already placed bricks. The grid must match
// the board dimensions; it is copied. Bricks without an ID get one.
func WithGrid(grid [][]*Brick) Option {
	return func(b *Board) {
		b.grid = copyGrid(grid)
	}
}

// New creates an empty board with the given dimensions.
func New(columns, rows int, opts ...Option) (*Board, error) {
	if columns <= 0 || rows <= 0 {
		return nil, fmt.Errorf("new board: dimensions must be positive, got %dx%d", columns, rows)
	}

	b := &Board{
		columns: columns,
		rows:    rows,
		ids:     UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.grid == nil {
		b.grid = make([][]*Brick, rows)
		for y := range b.grid {
			b.grid[y] = make([]*Brick, columns)
		}
		return b, nil
	}

	if len(b.grid) != rows {
		return nil, fmt.Errorf("new board: grid has %d rows, want %d", len(b.grid), rows)
	}
	for y, row := range b.grid {
		if len(row) != columns {
			return nil, fmt.Errorf("new board: grid row %d has %d columns, want %d", y, len(row), columns)
		}
		for x, brick := range row {
			if brick != nil && brick.ID == "" {
				b.grid[y][x] = &Brick{ID: b.ids.Generate(), Kind: brick.Kind}
			}
		}
	}
	return b, nil
}

// Columns returns the grid width.
func (b *Board) Columns() int { return b.columns }

// Rows returns the grid height.
func (b *Board) Rows() int { return b.rows }

// IsOver reports whether a commit ended the game.
func (b *Board) IsOver() bool { return b.over }

// CanCommit reports whether the falling block rests on its projection.
func (b *Board) CanCommit() bool { return b.canCommit }

// CanMoveLeft reports whether the falling block fits one column to the left.
func (b *Board) CanMoveLeft() bool { return b.canMoveLeft }

// CanMoveRight reports whether the falling block fits one column to the right.
func (b *Board) CanMoveRight() bool { return b.canMoveRight }

// CanMoveHorizontally is CanMoveLeft || CanMoveRight.
func (b *Board) CanMoveHorizontally() bool { return b.canMoveLeft || b.canMoveRight }

// CanClearFullRows reports whether ClearFullRows would do anything. This is
// only the case right after a commit that completed rows.
func (b *Board) CanClearFullRows() bool {
	return !b.over && !b.canCommit && len(b.fullRows) > 0
}

// FullRows returns the sorted indices of the rows that are (or, before the
// commit, would be) completely filled.
//
// FullRows is already set by UpdateCurrent, so callers know before
// committing whether rows can be cleared afterwards.
func (b *Board) FullRows() []int {
	return slices.Clone(b.fullRows)
}

// Current returns the falling block, if any.
func (b *Board) Current() (BoardBlock, bool) {
	if b.current == nil {
		return BoardBlock{}, false
	}
	return *b.current, true
}

// Projected returns where the falling block would rest if dropped straight
// down, if there is a falling block.
func (b *Board) Projected() (BoardBlock, bool) {
	if b.projected == nil {
		return BoardBlock{}, false
	}
	return *b.projected, true
}

// Cell returns the brick at column x, row y, or nil when empty or outside.
func (b *Board) Cell(x, y int) *Brick {
	if x < 0 || y < 0 || x >= b.columns || y >= b.rows {
		return nil
	}
	return b.grid[y][x]
}

// Grid returns a snapshot of the placed bricks, indexed [row][column].
func (b *Board) Grid() [][]*Brick {
	return copyGrid(b.grid)
}

// UpdateCurrent makes candidate the falling block if it fits.
//
// Errors:
//   - GAME_OVER: the board is over
//   - FULL_ROWS_NOT_CLEARED: there is no falling block and rows left by the
//     last commit are still waiting for ClearFullRows
//   - OUT_OF_BOARD, OVERLAPS: the candidate does not fit
//
// The same falling block may be adjusted freely while full rows are pending;
// they only block introducing a new one.
func (b *Board) UpdateCurrent(candidate BoardBlock) error {
	if b.over {
		return newError(CodeGameOver, "cannot update %s", candidate)
	}
	if len(b.fullRows) > 0 && b.current == nil {
		return newError(CodeFullRowsNotCleared, "rows %v must be cleared first", b.fullRows)
	}

	cells, err := b.fits(candidate)
	if err != nil {
		return err
	}
	projected := b.project(candidate)

	b.current = &candidate
	b.currentCells = cells
	b.projected = &projected
	b.canCommit = candidate.Y == projected.Y
	b.canMoveLeft = b.check(candidate.MoveX(-1)) == nil
	b.canMoveRight = b.check(candidate.MoveX(1)) == nil
	b.fullRows = nil

	if b.canCommit {
		b.fullRows = b.rowsFilledBy(cells)
	}
	return nil
}

// Commit writes the resting falling block into the grid.
//
// Errors: GAME_OVER, NO_CURRENT_BOARD_BLOCK,
// CURRENT_BOARD_BLOCK_CAN_STILL_MOVE_DOWN.
//
// The board is over afterwards if the block's topmost filled row is above
// row 0. FullRows is left as computed by the last UpdateCurrent.
func (b *Board) Commit() error {
	if b.over {
		return newError(CodeGameOver, "cannot commit")
	}
	if b.current == nil {
		return newError(CodeNoCurrentBoardBlock, "nothing to commit")
	}
	if !b.canCommit {
		return newError(CodeCurrentBoardBlockCanStillMoveDown, "%s rests at row %d", b.current, b.projected.Y)
	}

	current := *b.current
	for _, c := range b.currentCells {
		b.grid[c.y][c.x] = &Brick{ID: b.ids.Generate(), Kind: current.Kind()}
	}

	if current.Y+current.Block().RowBounds().First < 0 {
		b.over = true
	}

	b.current = nil
	b.currentCells = nil
	b.projected = nil
	b.canCommit = false
	b.canMoveLeft = false
	b.canMoveRight = false
	return nil
}

// ClearFullRows removes the full rows found by the last UpdateCurrent and
// inserts empty rows on top. It is a no-op unless CanClearFullRows.
func (b *Board) ClearFullRows() {
	if !b.CanClearFullRows() {
		return
	}

	// Ascending order keeps the indices of the remaining full rows valid:
	// removing row y and inserting at the top only shifts rows above y.
	for _, y := range b.fullRows {
		b.grid = slices.Delete(b.grid, y, y+1)
		b.grid = slices.Insert(b.grid, 0, make([]*Brick, b.columns))
	}
	b.fullRows = nil
}

// fits checks candidate against the bounds and the placed bricks and
// returns the grid cells it covers (rows >= 0 only).
func (b *Board) fits(candidate BoardBlock) ([]cell, error) {
	block := candidate.Block()
	rowBounds := block.RowBounds()
	columnBounds := block.ColumnBounds()

	left := candidate.X + columnBounds.First
	right := candidate.X + columnBounds.Last
	if left < 0 || right >= b.columns {
		return nil, newError(CodeOutOfBoard, "%s spans columns %d..%d, board has %d", candidate, left, right, b.columns)
	}

	// Rows down to -rowBounds.Len() are allowed, so a block can enter from
	// above the visible grid.
	top := candidate.Y + rowBounds.First
	bottom := candidate.Y + rowBounds.Last
	if top < -rowBounds.Len() || bottom >= b.rows {
		return nil, newError(CodeOutOfBoard, "%s spans rows %d..%d, board has %d", candidate, top, bottom, b.rows)
	}

	var cells []cell
	for row := rowBounds.First; row <= rowBounds.Last; row++ {
		y := candidate.Y + row
		if y < 0 {
			continue
		}
		for col := columnBounds.First; col <= columnBounds.Last; col++ {
			if block.Filled(row, col) {
				cells = append(cells, cell{x: candidate.X + col, y: y})
			}
		}
	}

	for _, c := range cells {
		if b.grid[c.y][c.x] != nil {
			return nil, newError(CodeOverlaps, "%s overlaps brick at (%d,%d)", candidate, c.x, c.y)
		}
	}
	return cells, nil
}

func (b *Board) check(candidate BoardBlock) error {
	_, err := b.fits(candidate)
	return err
}

// project moves candidate down until the next step would no longer fit.
func (b *Board) project(candidate BoardBlock) BoardBlock {
	for b.check(candidate.MoveY(1)) == nil {
		candidate = candidate.MoveY(1)
	}
	return candidate
}

// rowsFilledBy returns the rows that would be full once cells are placed.
func (b *Board) rowsFilledBy(cells []cell) []int {
	perRow := intmap.New[int, int](4)
	for _, c := range cells {
		n, _ := perRow.Get(c.y)
		perRow.Put(c.y, n+1)
	}

	var full []int
	perRow.ForEach(func(y, added int) bool {
		placed := 0
		for _, brick := range b.grid[y] {
			if brick != nil {
				placed++
			}
		}
		if placed+added == b.columns {
			full = append(full, y)
		}
		return true
	})
	slices.Sort(full)
	return full
}

func copyGrid(grid [][]*Brick) [][]*Brick {
	out := make([][]*Brick, len(grid))
	for y, row := range grid {
		out[y] = slices.Clone(row)
	}
	return out
}
