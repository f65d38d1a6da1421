package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/rubengrill/blocks/internal/board"
	"github.com/rubengrill/blocks/internal/game"
	"github.com/rubengrill/blocks/internal/piece"
	"github.com/rubengrill/blocks/internal/ruleset"
	"github.com/rubengrill/blocks/internal/session"
	"github.com/rubengrill/blocks/internal/testutil"
	"github.com/rubengrill/blocks/internal/trace"
)

// Run plays a scenario on a real game and evaluates its assertions.
//
// Execution flow:
// 1. Resolve the rule set and the deal
// 2. Create the game with the scenario grid, a fixed source and
// deterministic identities
// 3. Apply the steps
// 4. Return result with pass/fail, trace, final board and errors
//
// An error is returned when the scenario cannot be played at all (bad grid,
// unknown piece); failed assertions only mark the result.
func Run(scenario *Scenario) (*Result, error) {
	rs, err := scenarioRuleset(scenario)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	blocks, err := deal(scenario.Pieces, rs.Set)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	recorder := trace.NewRecorder()
	opts := []game.Option{
		game.WithSource(game.NewFixedSource(blocks...)),
		game.WithIDGenerator(testutil.NewSequenceGenerator("b")),
		game.WithObserver(recorder),
		game.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), // Suppress logs in tests
	}
	if len(scenario.Grid) > 0 {
		grid, err := board.ParseGrid(scenario.Grid)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		opts = append(opts, game.WithBoardOptions(board.WithGrid(grid)))
	}

	g, err := game.New(rs.Columns, rs.Rows, opts...)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	for i, step := range scenario.Steps {
		action, err := session.ParseAction(step)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: steps[%d]: %w", scenario.Name, i, err)
		}
		if err := action.Apply(g); err != nil {
			return nil, fmt.Errorf("scenario %s: steps[%d]: %w", scenario.Name, i, err)
		}
	}

	result := NewResult()
	result.Trace = recorder.Events()
	result.Grid = board.FormatGrid(g.Board().Grid())
	result.Over = g.IsOver()
	_, result.Falling = g.Board().Current()
	result.FullRows = g.Board().FullRows()

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// scenarioRuleset loads the scenario's rule set, or the standard pieces.
// Dimensions given in the scenario win.
func scenarioRuleset(scenario *Scenario) (*ruleset.Ruleset, error) {
	rs := ruleset.Default()
	if scenario.Ruleset != "" {
		loaded, err := ruleset.Load(scenario.Ruleset)
		if err != nil {
			return nil, err
		}
		rs = loaded
	}
	if scenario.Columns > 0 {
		rs.Columns = scenario.Columns
	}
	if scenario.Rows > 0 {
		rs.Rows = scenario.Rows
	}
	return rs, nil
}

// deal resolves the piece list against set.
func deal(specs []PieceSpec, set *piece.Set) ([]board.BoardBlock, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("no pieces to deal")
	}
	blocks := make([]board.BoardBlock, len(specs))
	for i, spec := range specs {
		kind, err := piece.ParseKind(spec.Kind)
		if err != nil {
			return nil, fmt.Errorf("pieces[%d]: %w", i, err)
		}
		shape, ok := set.Shape(kind)
		if !ok {
			return nil, fmt.Errorf("pieces[%d]: kind %s is not in the rule set", i, kind)
		}
		rotation := piece.Clockwise0
		if spec.Rotation != "" {
			rotation, err = piece.ParseRotation(spec.Rotation)
			if err != nil {
				return nil, fmt.Errorf("pieces[%d]: %w", i, err)
			}
		}
		blocks[i] = board.BoardBlock{Shape: shape, Rotation: rotation}
	}
	return blocks, nil
}
