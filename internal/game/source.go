package game

import (
	"math/rand/v2"
	"slices"

	"github.com/rubengrill/blocks/internal/board"
	"github.com/rubengrill/blocks/internal/piece"
)

// Source yields the next falling block. Only Shape and Rotation matter; the
// game overwrites the identity and position when it spawns the block.
type Source interface {
	Next() board.BoardBlock
}

// FiniteSource is a Source that can list every block it may yield. New
// checks each of them against the board width.
type FiniteSource interface {
	Source
	Blocks() []board.BoardBlock
}

// SourceFunc adapts a function to Source.
type SourceFunc func() board.BoardBlock

// Next calls f.
func (f SourceFunc) Next() board.BoardBlock { return f() }

// RandomSource picks a uniformly random shape from a set and a uniformly
// random rotation. Two sources with the same set and seed yield the same
// sequence.
type RandomSource struct {
	set *piece.Set
	rng *rand.Rand
}

// NewRandomSource creates a source over set seeded with seed.
func NewRandomSource(set *piece.Set, seed uint64) *RandomSource {
	return &RandomSource{
		set: set,
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Next picks the next shape and rotation.
func (s *RandomSource) Next() board.BoardBlock {
	shape := s.set.At(s.rng.IntN(s.set.Len()))
	rotation := piece.Rotations[s.rng.IntN(len(piece.Rotations))]
	return board.BoardBlock{Shape: shape, Rotation: rotation}
}

// Blocks returns every shape of the set in every rotation.
func (s *RandomSource) Blocks() []board.BoardBlock {
	blocks := make([]board.BoardBlock, 0, s.set.Len()*len(piece.Rotations))
	for i := range s.set.Len() {
		for _, r := range piece.Rotations {
			blocks = append(blocks, board.BoardBlock{Shape: s.set.At(i), Rotation: r})
		}
	}
	return blocks
}

// FixedSource yields the given blocks in order and starts over after the
// last one. Mostly useful in tests and scripted scenarios.
type FixedSource struct {
	blocks []board.BoardBlock
	next   int
}

// NewFixedSource creates a source cycling through blocks. It panics if
// blocks is empty.
func NewFixedSource(blocks ...board.BoardBlock) *FixedSource {
	if len(blocks) == 0 {
		panic("game: NewFixedSource needs at least one block")
	}
	return &FixedSource{blocks: blocks}
}

// Next returns the next block of the cycle.
func (s *FixedSource) Next() board.BoardBlock {
	b := s.blocks[s.next]
	s.next = (s.next + 1) % len(s.blocks)
	return b
}

// Blocks returns the cycle.
func (s *FixedSource) Blocks() []board.BoardBlock {
	return slices.Clone(s.blocks)
}
