// Package board owns the grid of placed bricks and the placement of the
// currently falling block.
//
// # Protocol
//
// A Board is mutated only through three operations:
//
//   - UpdateCurrent replaces the falling block if the candidate fits and
//     recomputes the derived flags (CanCommit, CanMoveLeft, CanMoveRight) and
//     the rows that would be full if the block were committed now.
//   - Commit writes a resting block into the grid.
//   - ClearFullRows removes the rows found full by the last UpdateCurrent,
//     but only right after a commit.
//
// Full rows left by a commit block the introduction of a new falling block
// (FULL_ROWS_NOT_CLEARED) until ClearFullRows runs.
//
// # Coordinates
//
// Grid row 0 is the top row. A placement's X/Y is the top-left corner of the
// piece bitmap and may be negative while the piece enters the board from
// above; cells above row 0 are never checked for overlap.
//
// # Concurrency
//
// Board has a single-writer contract: all calls must come from one owner
// goroutine. There is no internal locking; callers sharing a Board between
// goroutines must synchronize externally.
package board
