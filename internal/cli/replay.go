package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rubengrill/blocks/internal/session"
	"github.com/rubengrill/blocks/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database  string
	SessionID string // optional - latest session if empty
	All       bool
}

// ReplaySessionResult holds the replay result for a single session.
type ReplaySessionResult struct {
	SessionID     string `json:"session_id"`
	Seed          uint64 `json:"seed"`
	Actions       int    `json:"actions"`
	Events        int    `json:"events"`
	StoredDigest  string `json:"stored_digest"`
	Digest        string `json:"digest"`
	Deterministic bool   `json:"deterministic"`
	Divergence    int    `json:"divergence"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Sessions         []ReplaySessionResult `json:"sessions"`
	TotalSessions    int                   `json:"total_sessions"`
	AllDeterministic bool                  `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay journaled sessions and verify determinism",
		Long: `Replay journaled sessions to verify determinism.

Each session's actions are played again on a fresh game with the stored
seed, rule set and pieces. The digest of the new trace must equal the
stored digest.

Exit codes:
  0 - All sessions are deterministic
  1 - Determinism verification failed (differences detected)
  2 - Command error (database not found, etc.)

Examples:
  blocks replay --db ./blocks.db
  blocks replay --db ./blocks.db --session 0190f3c2-...
  blocks replay --db ./blocks.db --all --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", rootOpts.Config.DB, "path to SQLite database")
	cmd.Flags().StringVar(&opts.SessionID, "session", "", "replay a specific session (default: latest)")
	cmd.Flags().BoolVar(&opts.All, "all", false, "replay every session")
	cmd.MarkFlagsMutuallyExclusive("session", "all")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := newFormatter(opts.RootOptions, cmd)

	st, err := openExisting(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	sessionIDs, err := replaySessionIDs(cmd, st, opts)
	if err != nil {
		return err
	}

	if len(sessionIDs) == 0 {
		if formatter.IsJSON() {
			return formatter.JSON(CLIResponse{Status: "ok", Data: ReplayResult{
				Sessions:         []ReplaySessionResult{},
				AllDeterministic: true,
			}})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No sessions found in database.")
		return nil
	}

	result := ReplayResult{
		Sessions:         make([]ReplaySessionResult, 0, len(sessionIDs)),
		TotalSessions:    len(sessionIDs),
		AllDeterministic: true,
	}

	for _, id := range sessionIDs {
		formatter.VerboseLog("Replaying session %s", id)
		out, err := session.Replay(ctx, st, id, session.WithLogger(opts.logger()))
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay session %s", id), err)
		}

		result.Sessions = append(result.Sessions, ReplaySessionResult{
			SessionID:     id,
			Seed:          out.Session.Seed,
			Actions:       out.Actions,
			Events:        len(out.Replayed),
			StoredDigest:  out.Session.Digest,
			Digest:        out.Digest,
			Deterministic: out.Deterministic,
			Divergence:    out.Divergence,
		})
		if !out.Deterministic {
			result.AllDeterministic = false
		}
	}

	if formatter.IsJSON() {
		return outputReplayJSON(formatter, result)
	}
	return outputReplayText(cmd, result, opts.Verbose)
}

// openExisting opens a database that must already exist. store.Open would
// create an empty one.
func openExisting(path string) (*store.Store, error) {
	if path == "" {
		return nil, NewExitError(ExitCommandError, "--db is required")
	}
	if !fileExists(path) {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", path))
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func replaySessionIDs(cmd *cobra.Command, st *store.Store, opts *ReplayOptions) ([]string, error) {
	ctx := cmd.Context()

	switch {
	case opts.SessionID != "":
		return []string{opts.SessionID}, nil
	case opts.All:
		sessions, err := st.ListSessions(ctx)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to list sessions", err)
		}
		ids := make([]string, len(sessions))
		for i, s := range sessions {
			ids[i] = s.ID
		}
		return ids, nil
	default:
		latest, err := st.LatestSession(ctx)
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to read latest session", err)
		}
		return []string{latest.ID}, nil
	}
}

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(formatter *OutputFormatter, result ReplayResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}

	if !result.AllDeterministic {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeDeterminism,
			Message: "determinism verification failed",
		}
	}

	if err := formatter.JSON(response); err != nil {
		return err
	}

	if !result.AllDeterministic {
		// Determinism failure = exit code 1
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return nil
}

// outputReplayText outputs the replay result as text.
func outputReplayText(cmd *cobra.Command, result ReplayResult, verbose bool) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Replay Summary: %d session(s)\n", result.TotalSessions)
	fmt.Fprintln(w)

	for _, s := range result.Sessions {
		status := "✓"
		if !s.Deterministic {
			status = "✗"
		}

		fmt.Fprintf(w, "%s Session: %s\n", status, s.SessionID)
		fmt.Fprintf(w, "  Seed: %d, %d actions, %d events\n", s.Seed, s.Actions, s.Events)

		if verbose {
			fmt.Fprintf(w, "  Stored digest: %s\n", s.StoredDigest)
			fmt.Fprintf(w, "  Replay digest: %s\n", s.Digest)
		}

		if !s.Deterministic {
			fmt.Fprintln(w, "  Warning: Non-deterministic replay detected!")
			if s.Divergence >= 0 {
				fmt.Fprintf(w, "  First differing event: #%d\n", s.Divergence+1)
			}
		}
		fmt.Fprintln(w)
	}

	if result.AllDeterministic {
		fmt.Fprintln(w, "✓ All sessions verified deterministic")
		return nil
	}

	fmt.Fprintln(w, "✗ Determinism verification failed")
	// Determinism failure = exit code 1
	return NewExitError(ExitFailure, "determinism verification failed")
}
