// Package testutil holds deterministic stand-ins for the random and
// time-based collaborators of the game, so tests and golden traces produce
// byte-identical output on every run.
package testutil

import (
	"fmt"
	"sync"
)

// SequenceGenerator hands out identities "<prefix>-1", "<prefix>-2", ...
//
// It satisfies board.IDGenerator. Reset makes the same scenario produce the
// same identities when run twice in one test.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequenceGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequenceGenerator creates a generator. An empty prefix means "id".
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	if prefix == "" {
		prefix = "id"
	}
	return &SequenceGenerator{prefix: prefix}
}

// Generate returns the next identity.
func (g *SequenceGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}

// Count returns how many identities were handed out since the last Reset.
func (g *SequenceGenerator) Count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.n
}

// Reset starts the sequence over at 1.
func (g *SequenceGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = 0
}
