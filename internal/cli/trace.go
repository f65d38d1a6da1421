package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rubengrill/blocks/internal/game"
	"github.com/rubengrill/blocks/internal/store"
	"github.com/rubengrill/blocks/internal/trace"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database  string
	SessionID string
	EventID   string // optional - show a single event by content id
	Type      string // optional - filter to one event type
}

// TraceEvent is a journaled event with its content id.
type TraceEvent struct {
	ID string `json:"id"`
	trace.Event
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	SessionID string       `json:"session_id"`
	Timeline  []TraceEvent `json:"timeline"`
	Stats     TraceStats   `json:"stats"`
}

// TraceStats holds summary statistics for the trace.
type TraceStats struct {
	TotalEvents int  `json:"total_events"`
	Spawned     int  `json:"spawned"`
	Moves       int  `json:"moves"`
	Committed   int  `json:"committed"`
	RowsCleared int  `json:"rows_cleared"`
	Over        bool `json:"over"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show the event trace of a session",
		Long: `Show the journaled events of a session in order.

The output includes:
- Timeline: every event with its sequence number and content id
- Stats: summary statistics for the session

With --event a single event is looked up by content id across all
sessions.

Examples:
  blocks trace --db ./blocks.db
  blocks trace --db ./blocks.db --session 0190f3c2-... --type clear
  blocks trace --db ./blocks.db --event 5f1c... --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", rootOpts.Config.DB, "path to SQLite database")
	cmd.Flags().StringVar(&opts.SessionID, "session", "", "session to trace (default: latest)")
	cmd.Flags().StringVar(&opts.EventID, "event", "", "show a single event by content id")
	cmd.Flags().StringVar(&opts.Type, "type", "", "filter to one event type (spawn|move|commit|clear|game_over)")
	cmd.MarkFlagsMutuallyExclusive("session", "event")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.Type != "" && !isEventType(opts.Type) {
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown event type %q", opts.Type))
	}

	st, err := openExisting(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	if opts.EventID != "" {
		sessionID, event, err := st.ReadEvent(ctx, opts.EventID)
		if errors.Is(err, store.ErrNotFound) {
			return traceNotFound(formatter, fmt.Sprintf("event not found: %s", opts.EventID))
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read event", err)
		}
		return outputTrace(cmd, formatter, buildTraceResult(sessionID, []trace.Event{event}, ""))
	}

	sessionID := opts.SessionID
	if sessionID == "" {
		latest, err := st.LatestSession(ctx)
		if errors.Is(err, store.ErrNotFound) {
			return traceNotFound(formatter, "no sessions in database")
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read latest session", err)
		}
		sessionID = latest.ID
	} else if _, err := st.ReadSession(ctx, sessionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return traceNotFound(formatter, fmt.Sprintf("session not found: %s", sessionID))
		}
		return WrapExitError(ExitCommandError, "failed to read session", err)
	}

	events, err := st.ReadEvents(ctx, sessionID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read events", err)
	}
	return outputTrace(cmd, formatter, buildTraceResult(sessionID, events, opts.Type))
}

// traceNotFound reports a missing session or event with exit code 2.
func traceNotFound(formatter *OutputFormatter, message string) error {
	if err := formatter.Error(ErrCodeNotFound, message, nil); err != nil {
		return err
	}
	return NewExitError(ExitCommandError, message)
}

// buildTraceResult computes content ids and stats. Stats always cover the
// whole trace; filter only narrows the timeline.
func buildTraceResult(sessionID string, events []trace.Event, filter string) TraceResult {
	result := TraceResult{
		SessionID: sessionID,
		Timeline:  make([]TraceEvent, 0, len(events)),
	}

	for _, e := range events {
		switch e.Type {
		case game.EventSpawn:
			result.Stats.Spawned++
		case game.EventMove:
			result.Stats.Moves++
		case game.EventCommit:
			result.Stats.Committed++
		case game.EventClear:
			result.Stats.RowsCleared += len(e.Rows)
		case game.EventGameOver:
			result.Stats.Over = true
		}
		result.Stats.TotalEvents++

		if filter != "" && string(e.Type) != filter {
			continue
		}
		// Events read back from the store always encode.
		id, _ := trace.EventID(e)
		result.Timeline = append(result.Timeline, TraceEvent{ID: id, Event: e})
	}
	return result
}

func isEventType(s string) bool {
	switch game.EventType(s) {
	case game.EventSpawn, game.EventMove, game.EventCommit, game.EventClear, game.EventGameOver:
		return true
	}
	return false
}

func outputTrace(cmd *cobra.Command, formatter *OutputFormatter, result TraceResult) error {
	if formatter.IsJSON() {
		return formatter.JSON(CLIResponse{Status: "ok", Data: result, SessionID: result.SessionID})
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Session: %s\n", result.SessionID)
	fmt.Fprintln(w)

	if len(result.Timeline) == 0 {
		fmt.Fprintln(w, "No events.")
	}
	for _, e := range result.Timeline {
		fmt.Fprintln(w, e.Event.String())
		if formatter.Verbose {
			fmt.Fprintf(w, "    id: %s\n", e.ID)
		}
	}

	s := result.Stats
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Stats: %d events, %d spawned, %d moves, %d committed, %d rows cleared\n",
		s.TotalEvents, s.Spawned, s.Moves, s.Committed, s.RowsCleared)
	if s.Over {
		fmt.Fprintln(w, "Game over")
	}
	return nil
}
