// Package trace records game events as a replayable, hashable sequence.
//
// A Recorder is a game.Observer that stamps every event with a sequence
// number counted from 1, never from wall time. The recorded Events have a canonical JSON
// form (sorted keys, NFC strings, integers only) so that two runs that
// behave the same produce byte-identical output and the same Digest.
//
// The canonical form is the only serialization used for content ids and
// digests; encoding/json is fine for reading events back.
package trace
