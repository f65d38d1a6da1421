package board

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the precondition a board operation violated.
type ErrorCode string

const (
	// CodeOutOfBoard means a filled cell would lie outside the allowed area.
	CodeOutOfBoard ErrorCode = "OUT_OF_BOARD"

	// CodeOverlaps means a filled cell would cover a placed brick.
	CodeOverlaps ErrorCode = "OVERLAPS"

	// CodeNoCurrentBoardBlock means there is no falling block to commit.
	CodeNoCurrentBoardBlock ErrorCode = "NO_CURRENT_BOARD_BLOCK"

	// CodeCurrentBoardBlockCanStillMoveDown means the falling block is not resting.
	CodeCurrentBoardBlockCanStillMoveDown ErrorCode = "CURRENT_BOARD_BLOCK_CAN_STILL_MOVE_DOWN"

	// CodeFullRowsNotCleared means a new block was offered before clearing.
	CodeFullRowsNotCleared ErrorCode = "FULL_ROWS_NOT_CLEARED"

	// CodeGameOver means the board is over and accepts no further changes.
	CodeGameOver ErrorCode = "GAME_OVER"
)

// Error is returned by every failing board operation.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches any *Error with the same code, so the sentinels below work with
// errors.Is regardless of the message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is.
var (
	ErrOutOfBoard                        = &Error{Code: CodeOutOfBoard}
	ErrOverlaps                          = &Error{Code: CodeOverlaps}
	ErrNoCurrentBoardBlock               = &Error{Code: CodeNoCurrentBoardBlock}
	ErrCurrentBoardBlockCanStillMoveDown = &Error{Code: CodeCurrentBoardBlockCanStillMoveDown}
	ErrFullRowsNotCleared                = &Error{Code: CodeFullRowsNotCleared}
	ErrGameOver                          = &Error{Code: CodeGameOver}
)

// CodeOf returns the code of a board error, or "" when err is not one.
// Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var be *Error
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

func newError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}
