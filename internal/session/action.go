package session

import (
	"fmt"
	"strings"

	"github.com/rubengrill/blocks/internal/game"
)

// Action is one input to the game: a tick or a player move.
type Action string

const (
	ActionNext   Action = "next"
	ActionLeft   Action = "left"
	ActionRight  Action = "right"
	ActionDown   Action = "down"
	ActionDrop   Action = "drop"
	ActionRotate Action = "rotate"
)

// Actions lists every action.
var Actions = []Action{ActionNext, ActionLeft, ActionRight, ActionDown, ActionDrop, ActionRotate}

// ParseAction parses a single action name.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	if !a.Valid() {
		return "", fmt.Errorf("unknown action %q", s)
	}
	return a, nil
}

// ParseActions parses a list of actions separated by commas or whitespace.
func ParseActions(s string) ([]Action, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	actions := make([]Action, 0, len(fields))
	for _, f := range fields {
		a, err := ParseAction(f)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, nil
}

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	switch a {
	case ActionNext, ActionLeft, ActionRight, ActionDown, ActionDrop, ActionRotate:
		return true
	}
	return false
}

// Apply performs the action on g.
func (a Action) Apply(g *game.Game) error {
	switch a {
	case ActionNext:
		g.Next()
	case ActionLeft:
		g.MoveLeft()
	case ActionRight:
		g.MoveRight()
	case ActionDown:
		g.MoveDown()
	case ActionDrop:
		g.MoveToBottom()
	case ActionRotate:
		g.RotateClockwise()
	default:
		return fmt.Errorf("unknown action %q", string(a))
	}
	return nil
}
