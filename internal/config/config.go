// Package config reads CLI defaults from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/rubengrill/blocks/internal/ruleset"
)

// Config holds the defaults for CLI flags. Flags given on the command line
// win over the environment.
type Config struct {
	Columns int    `env:"BLOCKS_COLUMNS" envDefault:"10"`
	Rows    int    `env:"BLOCKS_ROWS"    envDefault:"20"`
	DB      string `env:"BLOCKS_DB"      envDefault:"blocks.db"`
	Seed    uint64 `env:"BLOCKS_SEED"`
	Ruleset string `env:"BLOCKS_RULESET"`
	Format  string `env:"BLOCKS_FORMAT"  envDefault:"text"`
	Verbose bool   `env:"BLOCKS_VERBOSE"`
}

// Load parses the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(environment map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environment}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// LoadRuleset returns the rule set named by cfg: the file at cfg.Ruleset if
// set, otherwise the default pieces on cfg.Columns × cfg.Rows. Both are
// checked against the rule set schema.
func (cfg Config) LoadRuleset() (*ruleset.Ruleset, error) {
	if cfg.Ruleset != "" {
		return ruleset.Load(cfg.Ruleset)
	}
	return ruleset.WithDimensions(cfg.Columns, cfg.Rows)
}
