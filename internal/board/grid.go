package board

import (
	"fmt"
	"strings"

	"github.com/rubengrill/blocks/internal/piece"
)

// EmptyCell is the text form of an empty grid cell.
const EmptyCell = '.'

// ParseGrid reads a grid from text rows, one string per row. '.' is an empty
// cell; a piece kind letter is a brick of that kind. All rows must have the
// same width. IDs are left empty and assigned by New.
func ParseGrid(lines []string) ([][]*Brick, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("parse grid: no rows")
	}

	width := len(lines[0])
	grid := make([][]*Brick, len(lines))
	for y, line := range lines {
		if len(line) != width {
			return nil, fmt.Errorf("parse grid: row %d has width %d, want %d", y, len(line), width)
		}
		grid[y] = make([]*Brick, width)
		for x, r := range line {
			if r == EmptyCell {
				continue
			}
			kind, err := piece.ParseKind(string(r))
			if err != nil {
				return nil, fmt.Errorf("parse grid: row %d column %d: %w", y, x, err)
			}
			grid[y][x] = &Brick{Kind: kind}
		}
	}
	return grid, nil
}

// FormatGrid renders a grid as text rows, the inverse of ParseGrid.
func FormatGrid(grid [][]*Brick) []string {
	lines := make([]string, len(grid))
	for y, row := range grid {
		var sb strings.Builder
		for _, brick := range row {
			if brick == nil {
				sb.WriteByte(EmptyCell)
				continue
			}
			sb.WriteString(brick.Kind.String())
		}
		lines[y] = sb.String()
	}
	return lines
}

// String renders the placed bricks, and the falling block as '@'.
func (b *Board) String() string {
	lines := FormatGrid(b.grid)
	for _, c := range b.currentCells {
		row := []byte(lines[c.y])
		row[c.x] = '@'
		lines[c.y] = string(row)
	}
	return strings.Join(lines, "\n")
}
