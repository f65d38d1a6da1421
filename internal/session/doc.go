// Package session drives a game headlessly from a stream of actions.
//
// A session is fully determined by its rule set, its seed and its actions:
// the seed feeds both the random piece source and the identity generator.
// Run journals all three plus every trace event to the store; Replay plays
// the journaled actions again and compares the trace digests.
//
// Sessions are single-threaded. Run applies actions one at a time and writes
// to the store between them.
package session
