// Package ruleset compiles CUE rule sets into board dimensions and a piece
// set.
//
// A rule set file looks like:
//
//	name:    "narrow"
//	columns: 6
//	rows:    12
//	pieces: {
//		O: [[1, 1], [1, 1]]
//		I: [[0, 1, 0, 0], [0, 1, 0, 0], [0, 1, 0, 0], [0, 1, 0, 0]]
//	}
//
// pieces is optional; without it the standard set is used. Piece order in
// the file is the order of the resulting set, which a seeded random source
// depends on.
//
// The file is unified with an embedded schema. Violations are reported as
// *CompileError carrying the CUE position.
package ruleset
