package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/rubengrill/blocks/internal/game"
	"github.com/rubengrill/blocks/internal/piece"
	"github.com/rubengrill/blocks/internal/session"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Ruleset is an optional CUE rule set file. Paths are relative to the
	// scenario file location when loaded with LoadScenario.
	Ruleset string `yaml:"ruleset,omitempty"`

	// Columns and Rows size the board. Required unless Ruleset is set.
	Columns int `yaml:"columns,omitempty"`
	Rows    int `yaml:"rows,omitempty"`

	// Grid pre-fills the board, top row first.
	Grid []string `yaml:"grid,omitempty"`

	// Pieces are dealt in order and cyclically.
	Pieces []PieceSpec `yaml:"pieces"`

	// Steps are action names applied in order (see session.Action).
	Steps []string `yaml:"steps"`

	// Assertions validate the final trace and state.
	// Supported types: trace_contains, trace_order, trace_count, final_grid,
	// final_state
	Assertions []Assertion `yaml:"assertions"`
}

// PieceSpec is one entry of the deal.
type PieceSpec struct {
	Kind     string `yaml:"kind"`
	Rotation string `yaml:"rotation,omitempty"` // default cw0
}

// BlockMatch selects placements. Unset fields match anything.
type BlockMatch struct {
	Kind     string `yaml:"kind,omitempty"`
	Rotation string `yaml:"rotation,omitempty"`
	X        *int   `yaml:"x,omitempty"`
	Y        *int   `yaml:"y,omitempty"`
}

// Assertion validates trace or final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": Check an event with matching fields appears
	// - "trace_order": Check event types appear in order
	// - "trace_count": Check an event type appears exactly Count times
	// - "final_grid": Compare the placed bricks
	// - "final_state": Compare board flags
	Type string `yaml:"type"`

	// Event is the event type (used by trace_contains, trace_count).
	Event string `yaml:"event,omitempty"`

	// Block and Projected select placements (used by trace_contains).
	Block     *BlockMatch `yaml:"block,omitempty"`
	Projected *BlockMatch `yaml:"projected,omitempty"`

	// Move flags (used by trace_contains on move events).
	MovedToBottom *bool `yaml:"moved_to_bottom,omitempty"`
	MovedByGame   *bool `yaml:"moved_by_game,omitempty"`
	ExpectCommit  *bool `yaml:"expect_commit,omitempty"`

	// Rows are the cleared rows (used by trace_contains on clear events) or
	// the pending full rows (used by final_state).
	Rows []int `yaml:"rows,omitempty"`

	// Count is the expected number of occurrences (used by trace_count).
	Count int `yaml:"count,omitempty"`

	// Events is the expected event order (used by trace_order).
	Events []string `yaml:"events,omitempty"`

	// Grid is the expected board, top row first (used by final_grid).
	Grid []string `yaml:"grid,omitempty"`

	// Over and Falling are the expected board state (used by final_state).
	Over    *bool `yaml:"over,omitempty"`
	Falling *bool `yaml:"falling,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalGrid     = "final_grid"
	AssertFinalState    = "final_state"
)

// LoadScenario reads and parses a scenario YAML file, resolving the rule
// set path relative to the file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving the rule set path relative to the provided base path.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Ruleset != "" && !filepath.IsAbs(scenario.Ruleset) && basePath != "" {
		scenario.Ruleset = filepath.Join(basePath, scenario.Ruleset)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// FindScenarios returns the .yaml and .yml files in dir, sorted.
func FindScenarios(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		ext := filepath.Ext(path)
		if !d.IsDir() && (ext == ".yaml" || ext == ".yml") {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Ruleset == "" {
		if s.Columns <= 0 || s.Rows <= 0 {
			return fmt.Errorf("columns and rows are required without a ruleset")
		}
	} else if _, err := os.Stat(s.Ruleset); os.IsNotExist(err) {
		return fmt.Errorf("ruleset file not found: %s", s.Ruleset)
	}

	if len(s.Grid) > 0 && s.Rows > 0 && len(s.Grid) != s.Rows {
		return fmt.Errorf("grid has %d rows, want %d", len(s.Grid), s.Rows)
	}

	if len(s.Pieces) == 0 {
		return fmt.Errorf("pieces list is required and must be non-empty")
	}
	for i, p := range s.Pieces {
		if _, err := piece.ParseKind(p.Kind); err != nil {
			return fmt.Errorf("pieces[%d]: %w", i, err)
		}
		if p.Rotation != "" {
			if _, err := piece.ParseRotation(p.Rotation); err != nil {
				return fmt.Errorf("pieces[%d]: %w", i, err)
			}
		}
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	for i, step := range s.Steps {
		if _, err := session.ParseAction(step); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validEvents are the event type names assertions may refer to.
var validEvents = map[string]bool{
	string(game.EventSpawn):    true,
	string(game.EventMove):     true,
	string(game.EventCommit):   true,
	string(game.EventClear):    true,
	string(game.EventGameOver): true,
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if !validEvents[a.Event] {
			return fmt.Errorf("assertions[%d]: valid event is required for trace_contains, got %q", index, a.Event)
		}
	case AssertTraceOrder:
		if len(a.Events) == 0 {
			return fmt.Errorf("assertions[%d]: events list is required for trace_order", index)
		}
		for _, e := range a.Events {
			if !validEvents[e] {
				return fmt.Errorf("assertions[%d]: unknown event %q in trace_order", index, e)
			}
		}
	case AssertTraceCount:
		if !validEvents[a.Event] {
			return fmt.Errorf("assertions[%d]: valid event is required for trace_count, got %q", index, a.Event)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalGrid:
		if len(a.Grid) == 0 {
			return fmt.Errorf("assertions[%d]: grid is required for final_grid", index)
		}
	case AssertFinalState:
		if a.Over == nil && a.Falling == nil && a.Rows == nil {
			return fmt.Errorf("assertions[%d]: over, falling or rows is required for final_state", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
