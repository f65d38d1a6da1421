// Package game drives a board turn by turn.
//
// A Game owns one board.Board, a Source that yields the next piece and an
// Observer that receives one event per state change. Callers invoke the
// player operations (MoveLeft, MoveRight, MoveDown, MoveToBottom,
// RotateClockwise) and the gravity tick (Next); the game validates every
// step against the board flags before touching the board, so board errors
// never reach the caller.
//
// Event ordering: within one call events are delivered synchronously and in
// causal order (move, commit, clear, game over). When an observer receives
// an event the board already reflects it.
//
// Concurrency: single writer. A Game and its Board must be used from one
// goroutine at a time; callers sharing a game synchronize externally.
package game
