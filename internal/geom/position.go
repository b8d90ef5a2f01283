package geom

import "fmt"

// Position is an entity's discrete location and orientation.
type Position struct {
	Cell  Vec   `yaml:"cell"`
	Angle Angle `yaml:"angle"`
}

// P is a convenience constructor for Position.
func P(x, y int, angle Angle) Position {
	return Position{Cell: V(x, y), Angle: angle}
}

// Normalize normalizes the angle; the cell is left untouched.
func (p Position) Normalize() Position {
	return Position{Cell: p.Cell, Angle: p.Angle.Normalize()}
}

// Equal compares two positions after normalization.
func (p Position) Equal(o Position) bool {
	return p.Normalize() == o.Normalize()
}

// Step returns the position moved one cell towards angle, keeping orientation.
func (p Position) Step(angle Angle) Position {
	return Position{Cell: p.Cell.Add(angle.Vec()), Angle: p.Angle}
}

// Rotate returns the position turned by delta quarter turns (counter-clockwise positive).
func (p Position) Rotate(delta Angle) Position {
	return Position{Cell: p.Cell, Angle: p.Angle.Add(delta)}
}

// WithInputDelta applies a horizontal input to the orientation.
// A block moving right rolls clockwise, so the angle turns by -delta.
func (p Position) WithInputDelta(delta int) Position {
	return p.Rotate(Angle(-delta))
}

// String returns a string representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("%s@%s", p.Cell, p.Angle)
}
