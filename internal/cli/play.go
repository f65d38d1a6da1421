package cli

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/rubengrill/blocks/internal/metrics"
	"github.com/rubengrill/blocks/internal/session"
	"github.com/rubengrill/blocks/internal/store"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	Database string
	Ruleset  string
	Columns  int
	Rows     int
	Seed     uint64
	Ticks    int
	Actions  string
	Metrics  bool
}

// PlayResult holds the outcome of a played session.
type PlayResult struct {
	SessionID string           `json:"session_id"`
	Seed      uint64           `json:"seed"`
	Ruleset   string           `json:"ruleset,omitempty"`
	Columns   int              `json:"columns"`
	Rows      int              `json:"rows"`
	Applied   int              `json:"applied"`
	Events    int              `json:"events"`
	Over      bool             `json:"over"`
	Digest    string           `json:"digest"`
	Board     []string         `json:"board"`
	Metrics   []metrics.Sample `json:"metrics,omitempty"`
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}
	cfg := rootOpts.Config

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a headless session",
		Long: `Play a game from a seed and journal it.

Without --actions a seeded bot plays --ticks gravity ticks with a few
random player moves in between. The session, every applied action and
every emitted event are written to the database unless --db is empty.

Actions: next, left, right, down, drop, rotate (comma or space separated).

Examples:
  blocks play --seed 42 --ticks 200
  blocks play --db ./blocks.db --actions "next,left,left,drop,next"
  blocks play --ruleset ./narrow.cue --metrics --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("seed") && cfg.Seed == 0 {
				opts.Seed = rand.Uint64()
			}
			return runPlay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", cfg.DB, "path to SQLite database (empty to skip journaling)")
	cmd.Flags().StringVar(&opts.Ruleset, "ruleset", cfg.Ruleset, "CUE rule set file")
	cmd.Flags().IntVar(&opts.Columns, "columns", cfg.Columns, "board columns (without --ruleset)")
	cmd.Flags().IntVar(&opts.Rows, "rows", cfg.Rows, "board rows (without --ruleset)")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", cfg.Seed, "seed for pieces, identities and the bot (random if unset)")
	cmd.Flags().IntVar(&opts.Ticks, "ticks", 100, "gravity ticks the bot plays")
	cmd.Flags().StringVar(&opts.Actions, "actions", "", "explicit action list instead of the bot")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "print event counters")

	return cmd
}

func runPlay(opts *PlayOptions, cmd *cobra.Command) error {
	logger := opts.logger()

	cfg := opts.Config
	cfg.Ruleset = opts.Ruleset
	cfg.Columns = opts.Columns
	cfg.Rows = opts.Rows
	rs, err := cfg.LoadRuleset()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load rule set", err)
	}

	actions, err := playActions(opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid actions", err)
	}

	collector, err := metrics.NewCollector(prometheus.NewRegistry())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to register metrics", err)
	}

	runnerOpts := []session.Option{
		session.WithLogger(logger),
		session.WithObserver(collector),
	}
	if opts.Database != "" {
		logger.Debug("opening database", "path", opts.Database)
		st, err := store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
		runnerOpts = append(runnerOpts, session.WithStore(st))
	}

	res, err := session.NewRunner(runnerOpts...).Run(cmd.Context(), rs, opts.Seed, actions)
	if err != nil {
		return WrapExitError(ExitFailure, "session failed", err)
	}

	result := PlayResult{
		SessionID: res.SessionID,
		Seed:      res.Seed,
		Ruleset:   rs.Name,
		Columns:   rs.Columns,
		Rows:      rs.Rows,
		Applied:   res.Applied,
		Events:    len(res.Events),
		Over:      res.Over,
		Digest:    res.Digest,
		Board:     strings.Split(res.Board.String(), "\n"),
	}
	if opts.Metrics || opts.Format == "json" {
		result.Metrics, err = collector.Snapshot()
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to gather metrics", err)
		}
	}

	formatter := newFormatter(opts.RootOptions, cmd)
	if formatter.IsJSON() {
		return formatter.JSON(CLIResponse{Status: "ok", Data: result, SessionID: result.SessionID})
	}
	return outputPlayText(cmd, result, opts.Database != "")
}

// playActions parses --actions or lets the bot pick them.
func playActions(opts *PlayOptions) ([]session.Action, error) {
	if strings.TrimSpace(opts.Actions) != "" {
		return session.ParseActions(opts.Actions)
	}
	if opts.Ticks < 0 {
		return nil, fmt.Errorf("ticks must not be negative, got %d", opts.Ticks)
	}
	return session.NewBot(opts.Seed).Actions(opts.Ticks), nil
}

func outputPlayText(cmd *cobra.Command, result PlayResult, journaled bool) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Session: %s\n", result.SessionID)
	fmt.Fprintf(w, "Seed: %d\n", result.Seed)
	fmt.Fprintf(w, "Board: %dx%d\n", result.Columns, result.Rows)
	fmt.Fprintf(w, "Actions: %d applied\n", result.Applied)
	fmt.Fprintf(w, "Events: %d\n", result.Events)
	fmt.Fprintf(w, "Digest: %s\n", result.Digest)
	if result.Over {
		fmt.Fprintln(w, "Game over")
	}
	fmt.Fprintln(w)
	for _, line := range result.Board {
		fmt.Fprintf(w, "  %s\n", line)
	}

	if len(result.Metrics) > 0 {
		fmt.Fprintln(w)
		for _, s := range result.Metrics {
			fmt.Fprintf(w, "%s %g\n", s.Name, s.Value)
		}
	}

	if !journaled {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Not journaled (no database).")
	}
	return nil
}
