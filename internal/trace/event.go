package trace

import (
	"fmt"
	"strings"

	"github.com/rubengrill/blocks/internal/board"
	"github.com/rubengrill/blocks/internal/game"
)

// Placement is the recorded form of a board.BoardBlock.
type Placement struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Rotation string `json:"rotation"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

// PlacementOf converts a board placement.
func PlacementOf(b board.BoardBlock) *Placement {
	return &Placement{
		ID:       b.ID,
		Kind:     b.Kind().String(),
		Rotation: b.Rotation.String(),
		X:        b.X,
		Y:        b.Y,
	}
}

// Value returns the canonical form.
func (p *Placement) Value() Object {
	return Object{
		"id":       String(p.ID),
		"kind":     String(p.Kind),
		"rotation": String(p.Rotation),
		"x":        Int(p.X),
		"y":        Int(p.Y),
	}
}

func (p *Placement) String() string {
	return fmt.Sprintf("%s/%s@(%d,%d)", p.Kind, p.Rotation, p.X, p.Y)
}

// Event is one recorded game event. Which fields are set depends on Type:
//
//	spawn:     Block, Projected
//	move:      Block, Projected, MovedToBottom, MovedByGame, ExpectCommit
//	commit:    Block
//	clear:     Rows
//	game_over: nothing
type Event struct {
	Seq           int64          `json:"seq"`
	Type          game.EventType `json:"type"`
	Block         *Placement     `json:"block,omitempty"`
	Projected     *Placement     `json:"projected,omitempty"`
	MovedToBottom bool           `json:"moved_to_bottom,omitempty"`
	MovedByGame   bool           `json:"moved_by_game,omitempty"`
	ExpectCommit  bool           `json:"expect_commit_and_clear_full_rows,omitempty"`
	Rows          []int          `json:"rows,omitempty"`
}

// FromGame converts a game event and stamps it with seq.
func FromGame(seq int64, e game.Event) Event {
	out := Event{Seq: seq, Type: e.Type()}
	switch e := e.(type) {
	case game.SpawnEvent:
		out.Block = PlacementOf(e.Block)
		out.Projected = PlacementOf(e.Projected)
	case game.MoveEvent:
		out.Block = PlacementOf(e.Block)
		out.Projected = PlacementOf(e.Projected)
		out.MovedToBottom = e.MovedToBottom
		out.MovedByGame = e.MovedByGame
		out.ExpectCommit = e.ExpectCommitAndClearFullRows
	case game.CommitEvent:
		out.Block = PlacementOf(e.Block)
	case game.ClearEvent:
		out.Rows = append([]int(nil), e.Rows...)
	}
	return out
}

// Value returns the canonical form. Move events always carry their three
// flags, so false and absent never mean different things.
func (e Event) Value() Object {
	obj := Object{
		"seq":  Int(e.Seq),
		"type": String(string(e.Type)),
	}
	if e.Block != nil {
		obj["block"] = e.Block.Value()
	}
	if e.Projected != nil {
		obj["projected"] = e.Projected.Value()
	}
	switch e.Type {
	case game.EventMove:
		obj["moved_to_bottom"] = Bool(e.MovedToBottom)
		obj["moved_by_game"] = Bool(e.MovedByGame)
		obj["expect_commit_and_clear_full_rows"] = Bool(e.ExpectCommit)
	case game.EventClear:
		obj["rows"] = Ints(e.Rows)
	}
	return obj
}

// MarshalCanonical encodes the event canonically.
func (e Event) MarshalCanonical() ([]byte, error) {
	return MarshalCanonical(e.Value())
}

// Values converts events to a canonical Array.
func Values(events []Event) Array {
	arr := make(Array, len(events))
	for i, e := range events {
		arr[i] = e.Value()
	}
	return arr
}

// String renders the event on one line for logs and the text CLI output.
func (e Event) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "#%d %s", e.Seq, e.Type)
	if e.Block != nil {
		fmt.Fprintf(&sb, " %s", e.Block)
	}
	if e.Projected != nil && e.Type != game.EventCommit {
		fmt.Fprintf(&sb, " -> %s", e.Projected)
	}
	if e.Type == game.EventMove {
		var flags []string
		if e.MovedToBottom {
			flags = append(flags, "bottom")
		}
		if e.MovedByGame {
			flags = append(flags, "game")
		}
		if e.ExpectCommit {
			flags = append(flags, "commit")
		}
		if len(flags) > 0 {
			fmt.Fprintf(&sb, " [%s]", strings.Join(flags, ","))
		}
	}
	if e.Type == game.EventClear {
		fmt.Fprintf(&sb, " rows=%v", e.Rows)
	}
	return sb.String()
}
