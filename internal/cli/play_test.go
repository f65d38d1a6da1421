package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// playSession plays actions on a 10×20 board, journals it to dbPath and
// returns the session id.
func playSession(t *testing.T, dbPath, actions string) string {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewPlayCommand(&RootOptions{Format: "json", Config: testConfig(t)})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--db", dbPath, "--seed", "7", "--actions", actions})
	require.NoError(t, cmd.Execute())

	var resp struct {
		Status string     `json:"status"`
		Data   PlayResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.Equal(t, "ok", resp.Status)
	require.NotEmpty(t, resp.Data.SessionID)
	return resp.Data.SessionID
}

func TestPlayJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewPlayCommand(&RootOptions{Format: "json", Config: testConfig(t)})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", "", "--columns", "4", "--rows", "4", "--seed", "1", "--actions", "next,drop"})

	require.NoError(t, cmd.Execute())

	var resp struct {
		Status    string     `json:"status"`
		SessionID string     `json:"session_id"`
		Data      PlayResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, resp.Data.SessionID, resp.SessionID)
	assert.Equal(t, uint64(1), resp.Data.Seed)
	assert.Equal(t, 4, resp.Data.Columns)
	assert.Equal(t, 4, resp.Data.Rows)
	assert.Equal(t, 2, resp.Data.Applied)
	assert.GreaterOrEqual(t, resp.Data.Events, 3, "spawn, move and commit")
	assert.False(t, resp.Data.Over)
	assert.Len(t, resp.Data.Board, 4)
	assert.NotEmpty(t, resp.Data.Digest)
	assert.NotEmpty(t, resp.Data.Metrics, "JSON output always carries the counters")
}

func TestPlayDeterministicDigest(t *testing.T) {
	digest := func() string {
		buf := &bytes.Buffer{}
		cmd := NewPlayCommand(&RootOptions{Format: "json", Config: testConfig(t)})
		cmd.SetOut(buf)
		cmd.SetArgs([]string{"--db", "", "--seed", "99", "--ticks", "60"})
		require.NoError(t, cmd.Execute())

		var resp struct {
			Data PlayResult `json:"data"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
		return resp.Data.Digest
	}

	assert.Equal(t, digest(), digest())
}

func TestPlayTextWithDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "blocks.db")

	buf := &bytes.Buffer{}
	cmd := NewPlayCommand(&RootOptions{Format: "text", Config: testConfig(t)})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath, "--seed", "3", "--actions", "next,left,drop", "--metrics"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "Session: ")
	assert.Contains(t, output, "Seed: 3")
	assert.Contains(t, output, "Board: 10x20")
	assert.Contains(t, output, "Actions: 3 applied")
	assert.Contains(t, output, "blocks_pieces_spawned_total{kind=")
	assert.NotContains(t, output, "Not journaled")
	assert.True(t, fileExists(dbPath))
}

func TestPlayWithoutDatabase(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewPlayCommand(&RootOptions{Format: "text", Config: testConfig(t)})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", "", "--seed", "3", "--ticks", "5"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Not journaled (no database).")
}

func TestPlayRuleset(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewPlayCommand(&RootOptions{Format: "json", Config: testConfig(t)})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", "", "--ruleset", "../ruleset/testdata/narrow.cue", "--seed", "5", "--ticks", "10"})

	require.NoError(t, cmd.Execute())

	var resp struct {
		Data PlayResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "narrow", resp.Data.Ruleset)
	assert.Equal(t, 6, resp.Data.Columns)
	assert.Equal(t, 12, resp.Data.Rows)
}

func TestPlayErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"invalid_action", []string{"--db", "", "--actions", "next,jump"}},
		{"negative_ticks", []string{"--db", "", "--ticks", "-1"}},
		{"missing_ruleset", []string{"--db", "", "--ruleset", "does-not-exist.cue"}},
		{"narrow_board", []string{"--db", "", "--columns", "2", "--seed", "3"}},
		{"short_board", []string{"--db", "", "--rows", "3", "--seed", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewPlayCommand(&RootOptions{Format: "text", Config: testConfig(t)})
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}
