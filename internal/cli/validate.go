package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rubengrill/blocks/internal/piece"
	"github.com/rubengrill/blocks/internal/ruleset"
)

// ValidationError is one problem found in a rule set.
type ValidationError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool              `json:"valid"`
	Name    string            `json:"name,omitempty"`
	Columns int               `json:"columns,omitempty"`
	Rows    int               `json:"rows,omitempty"`
	Pieces  []string          `json:"pieces,omitempty"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <ruleset>",
		Short: "Validate a CUE rule set",
		Long: `Validate a CUE rule set file or directory.

Checks the board dimensions against the schema and that every piece
bitmap is square and has at least one filled cell.

Exit codes:
  0 - Rule set is valid
  1 - Rule set is invalid
  2 - Command error (file not found, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	if _, err := os.Stat(path); err != nil {
		return outputValidateError(formatter, ErrCodeNotFound, fmt.Sprintf("rule set not found: %s", path))
	}

	formatter.VerboseLog("Loading rule set %s", path)
	rs, err := ruleset.Load(path)
	if err != nil {
		return outputValidationErrors(formatter, []ValidationError{toValidationError(err)})
	}

	return outputValidateSuccess(formatter, rs)
}

// toValidationError keeps the position of a CompileError.
func toValidationError(err error) ValidationError {
	var ce *ruleset.CompileError
	if !errors.As(err, &ce) {
		return ValidationError{Message: err.Error()}
	}
	out := ValidationError{Field: ce.Field, Message: ce.Message}
	if ce.Pos.IsValid() {
		out.File = ce.Pos.Filename()
		out.Line = ce.Pos.Line()
		out.Column = ce.Pos.Column()
	}
	return out
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, rs *ruleset.Ruleset) error {
	result := ValidationResult{
		Valid:   true,
		Name:    rs.Name,
		Columns: rs.Columns,
		Rows:    rs.Rows,
		Pieces:  kindNames(rs.Set),
	}
	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	name := result.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(formatter.Writer, "✓ Rule set %s valid\n", name)
	fmt.Fprintf(formatter.Writer, "  Board: %dx%d\n", result.Columns, result.Rows)
	fmt.Fprintf(formatter.Writer, "  Pieces: %v\n", result.Pieces)
	return nil
}

func kindNames(set *piece.Set) []string {
	kinds := set.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return names
}

// outputValidateError outputs a single command error.
func outputValidateError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	// Missing input is a command-level error (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []ValidationError) error {
	if formatter.IsJSON() {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    ErrCodeInvalid,
				Message: errs[0].Message,
			},
		}
		if err := formatter.JSON(response); err != nil {
			return err
		}

		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n", err.File, err.Line, err.Column)
		}
		if err.Field != "" {
			fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", err.Field, err.Message)
			continue
		}
		fmt.Fprintf(formatter.Writer, "  %s\n\n", err.Message)
	}

	// Validation failures = exit code 1 (test/validation failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
