package board

import (
	"encoding/binary"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator produces unique identities for falling blocks and bricks.
// Implemented by UUIDv7Generator (production), SeededGenerator (replayable
// sessions) and testutil.SequenceGenerator (tests).
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 identities.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// SeededGenerator generates random (version 4) UUIDs from a seeded stream.
// Two generators with the same seed yield the same identities, so a session
// replayed from its seed reproduces its trace byte for byte.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SeededGenerator struct {
	mu  sync.Mutex
	rng *rand.ChaCha8
}

// NewSeededGenerator creates a generator for seed.
func NewSeededGenerator(seed uint64) *SeededGenerator {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	copy(key[8:], "blocks/ids")
	return &SeededGenerator{rng: rand.NewChaCha8(key)}
}

// Generate returns the next identity.
func (g *SeededGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return uuid.Must(uuid.NewRandomFromReader(g.rng)).String()
}
