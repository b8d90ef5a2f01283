// Package model holds the puzzle's data model: tiles, entities with their four
// effect-bearing sides, powerups, goals, the game state and the per-turn move
// records produced by the simulation.
package model

import (
	"fmt"
	"strings"
)

// Input is the single player input for one turn.
type Input int

const (
	InputLeft Input = iota - 1
	InputSkip
	InputRight
)

// Delta returns the signed horizontal step (-1, 0, +1).
func (i Input) Delta() int {
	return int(i)
}

// InputFromDelta returns the input matching the sign of d.
func InputFromDelta(d int) Input {
	switch {
	case d < 0:
		return InputLeft
	case d > 0:
		return InputRight
	default:
		return InputSkip
	}
}

// String returns a human-readable name for the input.
func (i Input) String() string {
	switch i {
	case InputLeft:
		return "Left"
	case InputRight:
		return "Right"
	default:
		return "Skip"
	}
}

// Letter returns the one-letter code used in solution strings.
func (i Input) Letter() byte {
	switch i {
	case InputLeft:
		return 'L'
	case InputRight:
		return 'R'
	default:
		return 'S'
	}
}

// ParseInputs parses a solution string such as "RRSL".
// Whitespace is ignored; any other character is an error.
func ParseInputs(s string) ([]Input, error) {
	inputs := make([]Input, 0, len(s))
	for i, r := range strings.ToUpper(s) {
		switch r {
		case 'L':
			inputs = append(inputs, InputLeft)
		case 'R':
			inputs = append(inputs, InputRight)
		case 'S', '.':
			inputs = append(inputs, InputSkip)
		case ' ', '\t', '\n', '\r':
		default:
			return nil, fmt.Errorf("model: invalid input %q at offset %d", r, i)
		}
	}
	return inputs, nil
}

// FormatInputs is the inverse of ParseInputs.
func FormatInputs(inputs []Input) string {
	var sb strings.Builder
	for _, in := range inputs {
		sb.WriteByte(in.Letter())
	}
	return sb.String()
}
