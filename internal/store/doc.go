// Package store provides the SQLite journal of played sessions.
//
// A session row holds what is needed to play the game again: the seed, the
// board dimensions and the piece set. Alongside it the store keeps the
// actions in the order they were applied and every trace event as canonical
// JSON with its content id.
//
// # Ordering
//
// All ordering uses seq (the logical clock of the trace, or the action
// index), never timestamps. Reads are ORDER BY seq ASC.
//
// # Integrity
//
// ReadEvents recomputes each event's content id and fails with ErrCorrupt
// when it does not match the stored one.
//
// # Format
//
// Open stamps new journals with JournalFormat in user_version and refuses
// journals with a newer stamp. Connections run in WAL mode with
// synchronous=NORMAL, a 5 second busy timeout and foreign keys enforced.
package store
