package piece

import (
	"fmt"
	"sync"
)

// Set is an ordered collection of shapes, at most one per kind.
type Set struct {
	shapes []*Shape
	byKind map[Kind]*Shape
}

// NewSet collects shapes in the given order. Duplicate kinds are rejected.
func NewSet(shapes ...*Shape) (*Set, error) {
	if len(shapes) == 0 {
		return nil, fmt.Errorf("new set: no shapes")
	}
	s := &Set{byKind: make(map[Kind]*Shape, len(shapes))}
	for _, shape := range shapes {
		if _, dup := s.byKind[shape.Kind()]; dup {
			return nil, fmt.Errorf("new set: duplicate kind %s", shape.Kind())
		}
		s.byKind[shape.Kind()] = shape
		s.shapes = append(s.shapes, shape)
	}
	return s, nil
}

// Len returns the number of shapes in the set.
func (s *Set) Len() int { return len(s.shapes) }

// At returns the i-th shape in declaration order.
func (s *Set) At(i int) *Shape { return s.shapes[i] }

// Shape returns the shape registered for kind.
func (s *Set) Shape(kind Kind) (*Shape, bool) {
	shape, ok := s.byKind[kind]
	return shape, ok
}

// Kinds returns the kinds of the set in declaration order.
func (s *Set) Kinds() []Kind {
	kinds := make([]Kind, len(s.shapes))
	for i, shape := range s.shapes {
		kinds[i] = shape.Kind()
	}
	return kinds
}

// StandardBitmaps are the base bitmaps of the standard set.
var StandardBitmaps = map[Kind][][]int{
	KindL: {
		{0, 1, 0},
		{0, 1, 0},
		{0, 1, 1},
	},
	KindJ: {
		{0, 1, 0},
		{0, 1, 0},
		{1, 1, 0},
	},
	KindO: {
		{1, 1},
		{1, 1},
	},
	KindI: {
		{0, 1, 0, 0},
		{0, 1, 0, 0},
		{0, 1, 0, 0},
		{0, 1, 0, 0},
	},
	KindT: {
		{0, 1, 0},
		{0, 1, 1},
		{0, 1, 0},
	},
	KindZ: {
		{0, 0, 1},
		{0, 1, 1},
		{0, 1, 0},
	},
	KindS: {
		{0, 1, 0},
		{0, 1, 1},
		{0, 0, 1},
	},
}

// standardOrder is the declaration order of the standard set.
var standardOrder = []Kind{KindL, KindJ, KindO, KindI, KindT, KindZ, KindS}

var (
	standardOnce sync.Once
	standard     *Set
)

// Standard returns the shared standard set. It is built on first use and
// reused afterwards, so shape identity is stable for the process lifetime.
func Standard() *Set {
	standardOnce.Do(func() {
		shapes := make([]*Shape, len(standardOrder))
		for i, kind := range standardOrder {
			shapes[i] = MustShape(kind, StandardBitmaps[kind])
		}
		set, err := NewSet(shapes...)
		if err != nil {
			panic(err)
		}
		standard = set
	})
	return standard
}
