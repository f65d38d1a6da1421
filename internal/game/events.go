package game

import "github.com/rubengrill/blocks/internal/board"

// EventType names the kind of an Event.
type EventType string

const (
	EventSpawn    EventType = "spawn"
	EventMove     EventType = "move"
	EventCommit   EventType = "commit"
	EventClear    EventType = "clear"
	EventGameOver EventType = "game_over"
)

// Event is implemented by the five event payloads.
type Event interface {
	Type() EventType
}

// SpawnEvent is emitted when a new falling block enters the board.
type SpawnEvent struct {
	Block     board.BoardBlock
	Projected board.BoardBlock
}

// MoveEvent is emitted whenever the falling block changes position or
// rotation.
//
// ExpectCommitAndClearFullRows is set when the move left the block resting
// on rows it completes; a CommitEvent and a ClearEvent (or GameOverEvent)
// follow within the same call.
type MoveEvent struct {
	Block                        board.BoardBlock
	Projected                    board.BoardBlock
	MovedToBottom                bool
	MovedByGame                  bool
	ExpectCommitAndClearFullRows bool
}

// CommitEvent carries the block that was written into the grid.
type CommitEvent struct {
	Block board.BoardBlock
}

// ClearEvent carries the removed row indices, ascending, as they were
// numbered before the clear.
type ClearEvent struct {
	Rows []int
}

// GameOverEvent is emitted once, when the board ends.
type GameOverEvent struct{}

func (SpawnEvent) Type() EventType    { return EventSpawn }
func (MoveEvent) Type() EventType     { return EventMove }
func (CommitEvent) Type() EventType   { return EventCommit }
func (ClearEvent) Type() EventType    { return EventClear }
func (GameOverEvent) Type() EventType { return EventGameOver }
