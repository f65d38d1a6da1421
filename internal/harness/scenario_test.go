package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScenario writes content to dir/test.yaml and returns the path.
func writeScenario(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, t.TempDir(), `
name: test_scenario
description: "Test scenario for validation"
columns: 4
rows: 4
pieces:
  - kind: O
  - kind: L
    rotation: cw90
steps: [next, left, drop]
assertions:
  - type: trace_count
    event: spawn
    count: 1
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, "Test scenario for validation", scenario.Description)
	assert.Equal(t, 4, scenario.Columns)
	assert.Equal(t, []PieceSpec{{Kind: "O"}, {Kind: "L", Rotation: "cw90"}}, scenario.Pieces)
	assert.Equal(t, []string{"next", "left", "drop"}, scenario.Steps)
	require.Len(t, scenario.Assertions, 1)
	assert.Equal(t, 1, scenario.Assertions[0].Count)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, t.TempDir(), `
name: typo
description: "assertion instead of assertions"
columns: 4
rows: 4
pieces: [{kind: O}]
steps: [next]
assertion:
  - type: trace_count
    event: spawn
    count: 1
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_RulesetRelativeToFile(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/custom_ruleset.yaml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("testdata", "rulesets", "narrow.cue"), scenario.Ruleset)
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "missing name",
			content: `
description: "x"
columns: 4
rows: 4
pieces: [{kind: O}]
steps: [next]
assertions: [{type: trace_count, event: spawn, count: 1}]
`,
			wantErr: "name is required",
		},
		{
			name: "missing dimensions",
			content: `
name: n
description: "x"
pieces: [{kind: O}]
steps: [next]
assertions: [{type: trace_count, event: spawn, count: 1}]
`,
			wantErr: "columns and rows are required",
		},
		{
			name: "missing ruleset file",
			content: `
name: n
description: "x"
ruleset: missing.cue
pieces: [{kind: O}]
steps: [next]
assertions: [{type: trace_count, event: spawn, count: 1}]
`,
			wantErr: "ruleset file not found",
		},
		{
			name: "grid height",
			content: `
name: n
description: "x"
columns: 4
rows: 4
grid: ["....", "...."]
pieces: [{kind: O}]
steps: [next]
assertions: [{type: trace_count, event: spawn, count: 1}]
`,
			wantErr: "grid has 2 rows, want 4",
		},
		{
			name: "unknown kind",
			content: `
name: n
description: "x"
columns: 4
rows: 4
pieces: [{kind: X}]
steps: [next]
assertions: [{type: trace_count, event: spawn, count: 1}]
`,
			wantErr: "pieces[0]",
		},
		{
			name: "unknown rotation",
			content: `
name: n
description: "x"
columns: 4
rows: 4
pieces: [{kind: O, rotation: cw45}]
steps: [next]
assertions: [{type: trace_count, event: spawn, count: 1}]
`,
			wantErr: "pieces[0]",
		},
		{
			name: "unknown step",
			content: `
name: n
description: "x"
columns: 4
rows: 4
pieces: [{kind: O}]
steps: [next, jump]
assertions: [{type: trace_count, event: spawn, count: 1}]
`,
			wantErr: "steps[1]",
		},
		{
			name: "no assertions",
			content: `
name: n
description: "x"
columns: 4
rows: 4
pieces: [{kind: O}]
steps: [next]
`,
			wantErr: "assertions list is required",
		},
		{
			name: "unknown event",
			content: `
name: n
description: "x"
columns: 4
rows: 4
pieces: [{kind: O}]
steps: [next]
assertions: [{type: trace_contains, event: explode}]
`,
			wantErr: "valid event is required for trace_contains",
		},
		{
			name: "empty final_state",
			content: `
name: n
description: "x"
columns: 4
rows: 4
pieces: [{kind: O}]
steps: [next]
assertions: [{type: final_state}]
`,
			wantErr: "over, falling or rows is required",
		},
		{
			name: "unknown assertion type",
			content: `
name: n
description: "x"
columns: 4
rows: 4
pieces: [{kind: O}]
steps: [next]
assertions: [{type: eventually}]
`,
			wantErr: `unknown assertion type "eventually"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScenario(t, t.TempDir(), tt.content)
			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFindScenarios(t *testing.T) {
	files, err := FindScenarios("testdata/scenarios")
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	assert.Equal(t, []string{
		"clear_two_rows.yaml",
		"custom_ruleset.yaml",
		"drop_square.yaml",
		"game_over.yaml",
		"rotate_line.yaml",
	}, names)
}
