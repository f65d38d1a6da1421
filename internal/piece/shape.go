package piece

import "fmt"

// Shape holds the four precomputed rotations of one piece kind.
type Shape struct {
	kind   Kind
	blocks [4]*Block
}

// NewShape builds a Shape from its base bitmap and derives the 90°, 180° and
// 270° clockwise variants.
func NewShape(kind Kind, data [][]int) (*Shape, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("new shape: unknown piece kind %q", kind)
	}

	s := &Shape{kind: kind}
	current := data
	for i := range s.blocks {
		b, err := newBlock(kind, current)
		if err != nil {
			return nil, fmt.Errorf("new shape %s: %w", kind, err)
		}
		s.blocks[i] = b
		current = rotateClockwise(current)
	}
	return s, nil
}

// MustShape is NewShape for static data; it panics on invalid input.
func MustShape(kind Kind, data [][]int) *Shape {
	s, err := NewShape(kind, data)
	if err != nil {
		panic(err)
	}
	return s
}

// Kind returns the piece kind of the shape.
func (s *Shape) Kind() Kind { return s.kind }

// Block returns the cached block for rotation r.
func (s *Shape) Block(r Rotation) *Block {
	return s.blocks[((int(r)%4)+4)%4]
}

// rotateClockwise turns an N×N bitmap by 90°: out[row][col] = in[N-1-col][row].
func rotateClockwise(data [][]int) [][]int {
	size := len(data)
	out := make([][]int, size)
	for row := range out {
		out[row] = make([]int, size)
		for col := range out[row] {
			out[row][col] = data[size-1-col][row]
		}
	}
	return out
}
