// Package geom provides the spatial primitives of the puzzle: integer cell
// vectors, quarter-turn angles and positions combining both.
// Only yaml.v3 is imported, for the text form used by level and save files.
package geom

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Vec represents an integer 2D vector.
// X increases to the right, Y increases upward (gravity points to -Y).
type Vec struct {
	X int
	Y int
}

// Zero is the zero vector.
var Zero = Vec{}

// V is a convenience constructor for Vec.
func V(x, y int) Vec {
	return Vec{X: x, Y: y}
}

// String returns a string representation of the vector.
func (v Vec) String() string {
	return fmt.Sprintf("(%d,%d)", v.X, v.Y)
}

// Add returns the sum of two vectors.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns the difference of two vectors.
func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

// Neg returns the vector pointing the other way.
func (v Vec) Neg() Vec {
	return Vec{X: -v.X, Y: -v.Y}
}

// Scale multiplies both components by k.
func (v Vec) Scale(k int) Vec {
	return Vec{X: v.X * k, Y: v.Y * k}
}

// IsZero returns true for the zero vector.
func (v Vec) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Less orders vectors by row then column, used for deterministic iteration.
func (v Vec) Less(o Vec) bool {
	if v.Y != o.Y {
		return v.Y < o.Y
	}
	return v.X < o.X
}

// MarshalYAML writes the vector as a flow sequence: [x, y].
func (v Vec) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, c := range [2]int{v.X, v.Y} {
		node.Content = append(node.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!int",
			Value: fmt.Sprint(c),
		})
	}
	return node, nil
}

// UnmarshalYAML reads [x, y] or {x: .., y: ..}.
func (v *Vec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var xy []int
		if err := node.Decode(&xy); err != nil {
			return err
		}
		if len(xy) != 2 {
			return fmt.Errorf("geom: vector needs 2 components, got %d", len(xy))
		}
		*v = V(xy[0], xy[1])
		return nil
	case yaml.MappingNode:
		var m struct {
			X int `yaml:"x"`
			Y int `yaml:"y"`
		}
		if err := node.Decode(&m); err != nil {
			return err
		}
		*v = V(m.X, m.Y)
		return nil
	}
	return fmt.Errorf("geom: cannot decode vector from %q", node.Value)
}
