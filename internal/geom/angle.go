package geom

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Angle is a quarter-turn rotation counted counter-clockwise from Right.
// Values are interpreted mod 4; arithmetic may leave them denormalized and
// every comparison normalizes first.
type Angle int

const (
	Right Angle = iota
	Up
	Left
	Down
)

// Normalize returns the equivalent angle in [0, 4).
func (a Angle) Normalize() Angle {
	return Angle(((int(a) % 4) + 4) % 4)
}

// Int returns the normalized value as an int in {0,1,2,3}.
func (a Angle) Int() int {
	return int(a.Normalize())
}

// Add composes two rotations.
func (a Angle) Add(b Angle) Angle {
	return (a + b).Normalize()
}

// Sub returns the rotation taking b to a.
func (a Angle) Sub(b Angle) Angle {
	return (a - b).Normalize()
}

// Opposite returns the angle pointing the other way.
func (a Angle) Opposite() Angle {
	return (a + 2).Normalize()
}

// Equal compares two angles after normalization.
func (a Angle) Equal(b Angle) bool {
	return a.Normalize() == b.Normalize()
}

// IsUp returns true if the angle points up.
func (a Angle) IsUp() bool {
	return a.Normalize() == Up
}

// IsHorizontal returns true for Left and Right.
func (a Angle) IsHorizontal() bool {
	n := a.Normalize()
	return n == Right || n == Left
}

// Vec returns the unit vector for this angle.
func (a Angle) Vec() Vec {
	switch a.Normalize() {
	case Right:
		return V(1, 0)
	case Up:
		return V(0, 1)
	case Left:
		return V(-1, 0)
	default:
		return V(0, -1)
	}
}

// AngleFromVec converts a unit axis vector back into an angle.
// Returns false for the zero vector and for anything that is not a unit axis step.
func AngleFromVec(v Vec) (Angle, bool) {
	switch v {
	case V(1, 0):
		return Right, true
	case V(0, 1):
		return Up, true
	case V(-1, 0):
		return Left, true
	case V(0, -1):
		return Down, true
	}
	return Right, false
}

var angleNames = [4]string{"right", "up", "left", "down"}

// String returns the lowercase name of the normalized angle.
func (a Angle) String() string {
	return angleNames[a.Int()]
}

// ParseAngle accepts a direction name or an integer (taken mod 4).
func ParseAngle(s string) (Angle, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range angleNames {
		if s == name {
			return Angle(i), nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return Right, fmt.Errorf("geom: unknown angle %q", s)
	}
	return Angle(n).Normalize(), nil
}

// MarshalYAML writes the angle as its direction name.
func (a Angle) MarshalYAML() (any, error) {
	return a.String(), nil
}

// UnmarshalYAML reads either a direction name or an integer.
func (a *Angle) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseAngle(node.Value)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
