package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rubengrill/blocks/internal/trace"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string        // Assertion type for categorization
	Expected string        // Human-readable expected outcome
	Actual   string        // Human-readable actual outcome
	Trace    []trace.Event // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  %s\n", event)
		}
	}

	return buf.String()
}

// assertTraceContains checks if the trace contains an event of the given
// type whose fields match every field set in the assertion.
func assertTraceContains(events []trace.Event, assertion Assertion) error {
	for _, event := range events {
		if string(event.Type) == assertion.Event && matchEvent(event, assertion) {
			return nil
		}
	}

	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: describeMatch(assertion),
		Actual:   "not found in trace",
		Trace:    events,
	}
}

// assertTraceOrder checks if event types appear in the specified order.
// Events don't need to be consecutive (intervening events are allowed), and
// each expected event must come after the one matched before it.
func assertTraceOrder(events []trace.Event, assertion Assertion) error {
	pos := 0
	for i, want := range assertion.Events {
		found := false
		for pos < len(events) {
			event := events[pos]
			pos++
			if string(event.Type) == want {
				found = true
				break
			}
		}
		if !found {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("events in order: %v", assertion.Events),
				Actual:   fmt.Sprintf("no %s after %v", want, assertion.Events[:i]),
				Trace:    events,
			}
		}
	}
	return nil
}

// assertTraceCount checks if the event type appears exactly the specified number of times.
func assertTraceCount(events []trace.Event, assertion Assertion) error {
	count := 0
	for _, event := range events {
		if string(event.Type) == assertion.Event {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", assertion.Count, assertion.Event),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    events,
		}
	}
	return nil
}

// assertFinalGrid compares the placed bricks row by row.
func assertFinalGrid(result *Result, assertion Assertion) error {
	if slices.Equal(result.Grid, assertion.Grid) {
		return nil
	}
	return &AssertionError{
		Type:     AssertFinalGrid,
		Expected: "\n" + indentGrid(assertion.Grid),
		Actual:   "\n" + indentGrid(result.Grid),
	}
}

// assertFinalState compares the board flags that are set in the assertion.
func assertFinalState(result *Result, assertion Assertion) error {
	if assertion.Over != nil && *assertion.Over != result.Over {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("over = %t", *assertion.Over),
			Actual:   fmt.Sprintf("over = %t", result.Over),
		}
	}
	if assertion.Falling != nil && *assertion.Falling != result.Falling {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("falling = %t", *assertion.Falling),
			Actual:   fmt.Sprintf("falling = %t", result.Falling),
		}
	}
	if assertion.Rows != nil && !slices.Equal(assertion.Rows, result.FullRows) {
		if len(assertion.Rows) > 0 || len(result.FullRows) > 0 {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("full rows %v", assertion.Rows),
				Actual:   fmt.Sprintf("full rows %v", result.FullRows),
			}
		}
	}
	return nil
}

// matchEvent checks the optional fields of assertion against event.
func matchEvent(event trace.Event, assertion Assertion) bool {
	if !matchBlock(event.Block, assertion.Block) || !matchBlock(event.Projected, assertion.Projected) {
		return false
	}
	if assertion.MovedToBottom != nil && *assertion.MovedToBottom != event.MovedToBottom {
		return false
	}
	if assertion.MovedByGame != nil && *assertion.MovedByGame != event.MovedByGame {
		return false
	}
	if assertion.ExpectCommit != nil && *assertion.ExpectCommit != event.ExpectCommit {
		return false
	}
	if assertion.Rows != nil && !slices.Equal(assertion.Rows, event.Rows) {
		return false
	}
	return true
}

// matchBlock checks if actual satisfies every field set in want.
// A nil want matches anything.
func matchBlock(actual *trace.Placement, want *BlockMatch) bool {
	if want == nil {
		return true
	}
	if actual == nil {
		return false
	}
	if want.Kind != "" && want.Kind != actual.Kind {
		return false
	}
	if want.Rotation != "" && want.Rotation != actual.Rotation {
		return false
	}
	if want.X != nil && *want.X != actual.X {
		return false
	}
	if want.Y != nil && *want.Y != actual.Y {
		return false
	}
	return true
}

// describeMatch renders a trace_contains assertion for error messages.
func describeMatch(a Assertion) string {
	parts := []string{a.Event}
	if a.Block != nil {
		parts = append(parts, "block "+describeBlock(a.Block))
	}
	if a.Projected != nil {
		parts = append(parts, "projected "+describeBlock(a.Projected))
	}
	if a.MovedToBottom != nil {
		parts = append(parts, fmt.Sprintf("moved_to_bottom=%t", *a.MovedToBottom))
	}
	if a.MovedByGame != nil {
		parts = append(parts, fmt.Sprintf("moved_by_game=%t", *a.MovedByGame))
	}
	if a.ExpectCommit != nil {
		parts = append(parts, fmt.Sprintf("expect_commit=%t", *a.ExpectCommit))
	}
	if a.Rows != nil {
		parts = append(parts, fmt.Sprintf("rows=%v", a.Rows))
	}
	return strings.Join(parts, " ")
}

func describeBlock(b *BlockMatch) string {
	field := func(s string) string {
		if s == "" {
			return "*"
		}
		return s
	}
	coord := func(n *int) string {
		if n == nil {
			return "*"
		}
		return fmt.Sprint(*n)
	}
	return fmt.Sprintf("%s/%s@(%s,%s)", field(b.Kind), field(b.Rotation), coord(b.X), coord(b.Y))
}

func indentGrid(grid []string) string {
	var buf strings.Builder
	for _, row := range grid {
		fmt.Fprintf(&buf, "    %s\n", row)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		case AssertFinalGrid:
			err = assertFinalGrid(result, assertion)
		case AssertFinalState:
			err = assertFinalState(result, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
