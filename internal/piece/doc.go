// Package piece defines the geometry of the falling pieces.
//
// Every piece kind has one base bitmap. The three other 90° clockwise
// rotations are derived once, when the Shape is built, and shared by every
// placement of that kind. Lookups by Rotation never recompute anything.
//
// Shapes are immutable after construction and safe to share between
// goroutines. Identity (pointer equality) of *Shape and *Block is meaningful:
// two placements use the same piece shape iff they reference the same *Shape.
package piece
