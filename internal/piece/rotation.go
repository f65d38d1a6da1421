package piece

import "fmt"

// Rotation selects one of the four cached orientations of a Shape.
type Rotation int

const (
	Clockwise0 Rotation = iota
	Clockwise90
	Clockwise180
	Clockwise270
)

// Rotations lists all rotations in clockwise order.
var Rotations = []Rotation{Clockwise0, Clockwise90, Clockwise180, Clockwise270}

// Next returns the rotation reached by turning 90° clockwise.
func (r Rotation) Next() Rotation {
	return (r + 1) % 4
}

// Degrees returns the clockwise angle of r.
func (r Rotation) Degrees() int {
	return int(r) * 90
}

func (r Rotation) String() string {
	return fmt.Sprintf("cw%d", r.Degrees())
}

// ParseRotation accepts "cw0", "cw90", "cw180", "cw270" or the bare degrees.
func ParseRotation(s string) (Rotation, error) {
	for _, r := range Rotations {
		if s == r.String() || s == fmt.Sprint(r.Degrees()) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown rotation %q", s)
}
