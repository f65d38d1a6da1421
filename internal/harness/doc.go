// Package harness provides conformance testing for the game rules.
//
// The harness plays scripted scenarios on a real game and checks the
// emitted trace and the final board.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: clear_two_rows
//	description: "Two squares side by side clear the bottom rows"
//	columns: 4
//	rows: 4
//	grid:            # optional, top row first; '.' is empty
//	  - "...."
//	  - "...."
//	  - "...."
//	  - "...."
//	pieces:          # dealt in order, then from the start again
//	  - kind: O
//	  - kind: L
//	    rotation: cw90
//	steps: [next, left, drop, next, right, drop]
//	assertions:
//	  - type: trace_contains
//	    event: clear
//	    rows: [2, 3]
//	  - type: final_grid
//	    grid: ["....", "....", "....", "...."]
//
// ruleset may name a CUE rule set file (relative to the scenario) whose
// pieces and dimensions are used instead of the standard ones.
//
// # Assertion Types
//
//   - trace_contains: an event of the given type matching all given fields
//   - trace_order: event types appear in the given order (gaps allowed)
//   - trace_count: an event type appears exactly count times
//   - final_grid: the placed bricks equal grid
//   - final_state: over, falling and full_rows match the board
//
// # Deterministic Testing
//
// Blocks are dealt from the scenario's piece list and identities come from
// testutil.SequenceGenerator, so the same scenario always yields the same
// trace. RunWithGolden compares that trace with a golden file, one canonical
// JSON event per line.
package harness
