package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runValidateCmd(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestValidateCommand_ValidRuleset(t *testing.T) {
	output, err := runValidateCmd(t, "text", "../ruleset/testdata/narrow.cue")
	require.NoError(t, err)
	assert.Contains(t, output, "✓ Rule set narrow valid")
	assert.Contains(t, output, "Board: 6x12")
}

func TestValidateCommand_ValidRulesetJSON(t *testing.T) {
	output, err := runValidateCmd(t, "json", "../ruleset/testdata/narrow.cue")
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, "narrow", resp.Data.Name)
	assert.Equal(t, 6, resp.Data.Columns)
	assert.Equal(t, 12, resp.Data.Rows)
	assert.ElementsMatch(t, []string{"I", "O"}, resp.Data.Pieces)
}

func TestValidateCommand_InvalidRuleset(t *testing.T) {
	output, err := runValidateCmd(t, "text", "../ruleset/testdata/invalid.cue")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, output, "✗ Validation failed")
}

func TestValidateCommand_InvalidRulesetJSON(t *testing.T) {
	output, err := runValidateCmd(t, "json", "../ruleset/testdata/invalid.cue")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeInvalid, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.Message)
}

func TestValidateCommand_BadBitmap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.cue")
	content := `columns: 8
rows: 16
pieces: {
	O: [[0, 0], [0, 0]]
}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := runValidateCmd(t, "text", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestValidateCommand_NotFound(t *testing.T) {
	output, err := runValidateCmd(t, "text", filepath.Join(t.TempDir(), "missing.cue"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, output, "Error [E_NOT_FOUND]")
	assert.Contains(t, err.Error(), "rule set not found")
}

func TestValidateCommand_RequiresArg(t *testing.T) {
	_, err := runValidateCmd(t, "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}
