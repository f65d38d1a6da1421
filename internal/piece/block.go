package piece

import (
	"errors"
	"fmt"
	"strings"
)

// Bounds is an inclusive index range [First, Last].
type Bounds struct {
	First int
	Last  int
}

// Len returns the number of indices covered by b.
func (b Bounds) Len() int {
	return b.Last - b.First + 1
}

// Contains reports whether i lies within b.
func (b Bounds) Contains(i int) bool {
	return i >= b.First && i <= b.Last
}

// Block is one immutable rotation of a piece: a square bitmap of 0/1 cells
// plus the bounds of its filled content.
type Block struct {
	kind         Kind
	data         [][]int
	rowBounds    Bounds
	columnBounds Bounds
}

// ErrInvalidBitmap is returned for bitmaps that are not square, contain
// values other than 0 and 1, or have no filled cell.
var ErrInvalidBitmap = errors.New("invalid piece bitmap")

func newBlock(kind Kind, data [][]int) (*Block, error) {
	if err := validateData(data); err != nil {
		return nil, err
	}

	size := len(data)
	rows := Bounds{First: size, Last: -1}
	columns := Bounds{First: size, Last: -1}

	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if data[r][c] == 0 {
				continue
			}
			rows.First = min(rows.First, r)
			rows.Last = max(rows.Last, r)
			columns.First = min(columns.First, c)
			columns.Last = max(columns.Last, c)
		}
	}

	if rows.Last < 0 {
		return nil, fmt.Errorf("%w: no filled cell", ErrInvalidBitmap)
	}

	return &Block{
		kind:         kind,
		data:         copyData(data),
		rowBounds:    rows,
		columnBounds: columns,
	}, nil
}

func validateData(data [][]int) error {
	size := len(data)
	if size == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidBitmap)
	}
	for r, row := range data {
		if len(row) != size {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidBitmap, r, len(row), size)
		}
		for c, v := range row {
			if v != 0 && v != 1 {
				return fmt.Errorf("%w: cell (%d,%d) is %d", ErrInvalidBitmap, r, c, v)
			}
		}
	}
	return nil
}

func copyData(data [][]int) [][]int {
	out := make([][]int, len(data))
	for i, row := range data {
		out[i] = append([]int(nil), row...)
	}
	return out
}

// Kind returns the piece kind this block belongs to.
func (b *Block) Kind() Kind { return b.kind }

// Size returns the edge length of the square bitmap.
func (b *Block) Size() int { return len(b.data) }

// RowBounds returns the first and last row containing a filled cell.
func (b *Block) RowBounds() Bounds { return b.rowBounds }

// ColumnBounds returns the first and last column containing a filled cell.
func (b *Block) ColumnBounds() Bounds { return b.columnBounds }

// Filled reports whether the cell at (row, col) is part of the piece.
// Coordinates outside the bitmap are empty.
func (b *Block) Filled(row, col int) bool {
	if row < 0 || col < 0 || row >= len(b.data) || col >= len(b.data) {
		return false
	}
	return b.data[row][col] == 1
}

// Rows returns a copy of the bitmap.
func (b *Block) Rows() [][]int {
	return copyData(b.data)
}

// String renders the bitmap with '#' for filled and '.' for empty cells.
func (b *Block) String() string {
	var sb strings.Builder
	for r, row := range b.data {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for _, v := range row {
			if v == 1 {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}
