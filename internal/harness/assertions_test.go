package harness

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubengrill/blocks/internal/game"
	"github.com/rubengrill/blocks/internal/trace"
)

func intp(n int) *int    { return &n }
func boolp(b bool) *bool { return &b }

func sampleTrace() []trace.Event {
	block := &trace.Placement{ID: "b-1", Kind: "O", Rotation: "cw0", X: 1, Y: -1}
	landed := &trace.Placement{ID: "b-1", Kind: "O", Rotation: "cw0", X: 1, Y: 2}
	return []trace.Event{
		{Seq: 1, Type: game.EventSpawn, Block: block, Projected: landed},
		{Seq: 2, Type: game.EventMove, Block: landed, Projected: landed, MovedToBottom: true, ExpectCommit: true},
		{Seq: 3, Type: game.EventCommit, Block: landed},
		{Seq: 4, Type: game.EventClear, Rows: []int{2, 3}},
	}
}

func TestAssertTraceContains_Found(t *testing.T) {
	err := assertTraceContains(sampleTrace(), Assertion{
		Type:          AssertTraceContains,
		Event:         "move",
		Block:         &BlockMatch{Kind: "O", X: intp(1), Y: intp(2)},
		MovedToBottom: boolp(true),
		ExpectCommit:  boolp(true),
	})
	assert.NoError(t, err)
}

func TestAssertTraceContains_NotFound(t *testing.T) {
	err := assertTraceContains(sampleTrace(), Assertion{
		Type:        AssertTraceContains,
		Event:       "move",
		MovedByGame: boolp(true),
	})
	require.Error(t, err)

	var assertErr *AssertionError
	require.True(t, errors.As(err, &assertErr))
	assert.Equal(t, "trace_contains", assertErr.Type)
	assert.Contains(t, assertErr.Expected, "moved_by_game=true")
	assert.Equal(t, "not found in trace", assertErr.Actual)
	assert.Len(t, assertErr.Trace, 4)
}

func TestAssertTraceContains_WrongField(t *testing.T) {
	tests := []struct {
		name      string
		assertion Assertion
	}{
		{"kind", Assertion{Event: "spawn", Block: &BlockMatch{Kind: "I"}}},
		{"rotation", Assertion{Event: "spawn", Block: &BlockMatch{Rotation: "cw90"}}},
		{"x", Assertion{Event: "spawn", Block: &BlockMatch{X: intp(0)}}},
		{"projected y", Assertion{Event: "spawn", Projected: &BlockMatch{Y: intp(3)}}},
		{"rows", Assertion{Event: "clear", Rows: []int{3}}},
		{"no projection on commit", Assertion{Event: "commit", Projected: &BlockMatch{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.assertion.Type = AssertTraceContains
			assert.Error(t, assertTraceContains(sampleTrace(), tt.assertion))
		})
	}
}

func TestAssertTraceOrder(t *testing.T) {
	events := sampleTrace()

	assert.NoError(t, assertTraceOrder(events, Assertion{Events: []string{"spawn", "clear"}}))
	assert.NoError(t, assertTraceOrder(events, Assertion{Events: []string{"spawn", "move", "commit", "clear"}}))

	err := assertTraceOrder(events, Assertion{Events: []string{"commit", "move"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no move after [commit]")

	// Each expected event consumes one occurrence.
	assert.Error(t, assertTraceOrder(events, Assertion{Events: []string{"spawn", "spawn"}}))
}

func TestAssertTraceCount(t *testing.T) {
	events := sampleTrace()

	assert.NoError(t, assertTraceCount(events, Assertion{Event: "commit", Count: 1}))
	assert.NoError(t, assertTraceCount(events, Assertion{Event: "game_over", Count: 0}))

	err := assertTraceCount(events, Assertion{Event: "move", Count: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 occurrences")
}

func TestAssertFinalGrid(t *testing.T) {
	result := &Result{Grid: []string{"....", ".OO."}}

	assert.NoError(t, assertFinalGrid(result, Assertion{Grid: []string{"....", ".OO."}}))

	err := assertFinalGrid(result, Assertion{Grid: []string{"....", "OO.."}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "    OO..")
	assert.Contains(t, err.Error(), "    .OO.")
}

func TestAssertFinalState(t *testing.T) {
	result := &Result{Over: true, Falling: false, FullRows: nil}

	assert.NoError(t, assertFinalState(result, Assertion{Over: boolp(true)}))
	assert.NoError(t, assertFinalState(result, Assertion{Falling: boolp(false), Rows: []int{}}))
	assert.Error(t, assertFinalState(result, Assertion{Over: boolp(false)}))
	assert.Error(t, assertFinalState(result, Assertion{Falling: boolp(true)}))
	assert.Error(t, assertFinalState(result, Assertion{Rows: []int{3}}))
}

func TestEvaluateAssertions(t *testing.T) {
	result := &Result{Trace: sampleTrace(), Grid: []string{"...."}}

	errs := EvaluateAssertions(result, []Assertion{
		{Type: AssertTraceCount, Event: "clear", Count: 1},
		{Type: AssertTraceOrder, Events: []string{"clear", "spawn"}},
		{Type: "eventually"},
	})
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "Assertion failed: trace_order")
	assert.Contains(t, errs[1], `unknown assertion type "eventually"`)
}
