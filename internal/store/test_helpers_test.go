package store

import (
	"path/filepath"
	"testing"

	"github.com/rubengrill/blocks/internal/game"
	"github.com/rubengrill/blocks/internal/piece"
	"github.com/rubengrill/blocks/internal/trace"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestSession creates a session record with the standard pieces.
func createTestSession(t *testing.T, id string) Session {
	t.Helper()
	pieces, err := MarshalPieces(piece.Standard())
	if err != nil {
		t.Fatalf("MarshalPieces() failed: %v", err)
	}
	return Session{
		ID:      id,
		Seed:    42,
		Columns: 10,
		Rows:    20,
		Ruleset: "standard",
		Pieces:  pieces,
	}
}

// createTestEvents returns a short spawn/move/commit trace.
func createTestEvents() []trace.Event {
	block := &trace.Placement{ID: "b-1", Kind: "O", Rotation: "cw0", X: 4, Y: -2}
	landed := &trace.Placement{ID: "b-1", Kind: "O", Rotation: "cw0", X: 4, Y: 18}
	return []trace.Event{
		{Seq: 1, Type: game.EventSpawn, Block: block, Projected: landed},
		{Seq: 2, Type: game.EventMove, Block: landed, Projected: landed, MovedToBottom: true},
		{Seq: 3, Type: game.EventCommit, Block: landed},
		{Seq: 4, Type: game.EventClear, Rows: []int{18, 19}},
	}
}
