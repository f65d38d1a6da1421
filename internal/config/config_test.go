package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, Config{
		Columns: 10,
		Rows:    20,
		DB:      "blocks.db",
		Format:  "text",
	}, cfg)
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"BLOCKS_COLUMNS": "6",
		"BLOCKS_ROWS":    "12",
		"BLOCKS_DB":      "/tmp/j.db",
		"BLOCKS_SEED":    "18446744073709551615",
		"BLOCKS_RULESET": "rules.cue",
		"BLOCKS_FORMAT":  "json",
		"BLOCKS_VERBOSE": "true",
	})
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Columns)
	assert.Equal(t, 12, cfg.Rows)
	assert.Equal(t, "/tmp/j.db", cfg.DB)
	assert.Equal(t, uint64(18446744073709551615), cfg.Seed)
	assert.Equal(t, "rules.cue", cfg.Ruleset)
	assert.Equal(t, "json", cfg.Format)
	assert.True(t, cfg.Verbose)
}

func TestLoadFrom_Invalid(t *testing.T) {
	_, err := LoadFrom(map[string]string{"BLOCKS_COLUMNS": "wide"})
	assert.ErrorContains(t, err, "parse env")
}

func TestLoad_ProcessEnvironment(t *testing.T) {
	t.Setenv("BLOCKS_ROWS", "16")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Rows)
}

func TestConfig_LoadRuleset(t *testing.T) {
	rs, err := Config{Columns: 8, Rows: 14}.LoadRuleset()
	require.NoError(t, err)
	assert.Equal(t, 8, rs.Columns)
	assert.Equal(t, 14, rs.Rows)
	assert.Equal(t, 7, rs.Set.Len())

	_, err = Config{Ruleset: "missing.cue"}.LoadRuleset()
	assert.Error(t, err)
}

func TestConfig_LoadRulesetRejectsNarrowBoard(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{"BLOCKS_COLUMNS": "2"})
	require.NoError(t, err)

	_, err = cfg.LoadRuleset()
	assert.ErrorContains(t, err, "ruleset 2x20")

	_, err = Config{Columns: 10, Rows: 3}.LoadRuleset()
	assert.Error(t, err)
}
