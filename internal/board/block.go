package board

import (
	"fmt"

	"github.com/rubengrill/blocks/internal/piece"
)

// BoardBlock is the placement of a falling piece: which shape, in which
// rotation, at which grid offset. Move and rotate return new values and keep
// the ID, which changes only when a new piece spawns.
type BoardBlock struct {
	ID       string
	Shape    *piece.Shape
	Rotation piece.Rotation
	X        int
	Y        int
}

// Block returns the rotated bitmap of the placement.
func (b BoardBlock) Block() *piece.Block {
	return b.Shape.Block(b.Rotation)
}

// Kind returns the piece kind of the placement.
func (b BoardBlock) Kind() piece.Kind {
	return b.Shape.Kind()
}

// MoveX returns a copy shifted by offset columns.
func (b BoardBlock) MoveX(offset int) BoardBlock {
	b.X += offset
	return b
}

// MoveY returns a copy shifted by offset rows.
func (b BoardBlock) MoveY(offset int) BoardBlock {
	b.Y += offset
	return b
}

// RotateClockwise returns a copy turned by 90° clockwise around the bitmap.
func (b BoardBlock) RotateClockwise() BoardBlock {
	b.Rotation = b.Rotation.Next()
	return b
}

func (b BoardBlock) String() string {
	return fmt.Sprintf("%s/%s@(%d,%d)", b.Kind(), b.Rotation, b.X, b.Y)
}

// Brick is one placed cell. It only remembers the kind it came from.
type Brick struct {
	ID   string
	Kind piece.Kind
}
