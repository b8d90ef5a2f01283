package levels

import (
	"fmt"

	"github.com/vovakirdan/sideways/internal/geom"
	"github.com/vovakirdan/sideways/internal/model"
	"github.com/vovakirdan/sideways/internal/sim"
)

// ValidationError contains details about validation failure.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Validation codes.
const (
	CodeNoPlayer    = "NO_PLAYER"
	CodeNoGoal      = "NO_GOAL"
	CodeBottomless  = "BOTTOMLESS"
	CodeOverlap     = "OVERLAP"
	CodeBadSolution = "BAD_SOLUTION"
	CodeUnsolved    = "UNSOLVED"
)

// Validate checks a level and returns every problem found.
// Checks:
//   - At least one player and one goal
//   - Every movable entity has something blocking below it
//   - No two blocking things share a cell
//   - The stored solution, if any, finishes the level
func Validate(l *Level, cfg model.Config, maxSettle int) []ValidationError {
	var errs []ValidationError

	s := l.NewState()
	if len(s.PlayerIDs()) == 0 {
		errs = append(errs, ValidationError{Code: CodeNoPlayer, Message: "level has no player"})
	}
	if len(s.Goals) == 0 {
		errs = append(errs, ValidationError{Code: CodeNoGoal, Message: "level has no goal"})
	}

	errs = append(errs, validateOverlap(s)...)
	errs = append(errs, validateBottomless(s)...)

	if len(errs) > 0 {
		return errs
	}

	inputs, err := l.Inputs()
	if err != nil {
		return append(errs, ValidationError{Code: CodeBadSolution, Message: err.Error()})
	}
	if inputs == nil {
		return nil
	}
	result := sim.RunSolution(s, cfg, inputs, maxSettle)
	if !result.Finished {
		msg := fmt.Sprintf("solution %q leaves %d goal(s) after %d turns", l.Solution, len(s.Goals), result.Turns)
		errs = append(errs, ValidationError{Code: CodeUnsolved, Message: msg})
	}
	return errs
}

// validateOverlap reports cells holding two blocking things.
func validateOverlap(s *model.GameState) []ValidationError {
	var errs []ValidationError
	occupied := make(map[geom.Vec]model.ID)
	for _, id := range s.SortedEntityIDs() {
		e := s.Entities[id]
		if !e.Properties.Block {
			continue
		}
		cell := e.Pos.Cell
		if s.Tile(cell).IsBlocking() {
			errs = append(errs, ValidationError{
				Code:    CodeOverlap,
				Message: fmt.Sprintf("%s at %s is inside a %s tile", e.Identifier, cell, s.Tile(cell)),
			})
		}
		if other, ok := occupied[cell]; ok {
			errs = append(errs, ValidationError{
				Code:    CodeOverlap,
				Message: fmt.Sprintf("%s and %s share %s", s.Entities[other].Identifier, e.Identifier, cell),
			})
			continue
		}
		occupied[cell] = id
	}
	return errs
}

// validateBottomless reports movable entities that could fall forever.
func validateBottomless(s *model.GameState) []ValidationError {
	floor := make(map[int]int) // column -> lowest blocking row
	mark := func(c geom.Vec) {
		if y, ok := floor[c.X]; !ok || c.Y < y {
			floor[c.X] = c.Y
		}
	}
	for c, t := range s.Tiles {
		if t.IsBlocking() {
			mark(c)
		}
	}
	for _, e := range s.Entities {
		if e.Properties.Static && e.Properties.Block {
			mark(e.Pos.Cell)
		}
	}

	var errs []ValidationError
	for _, id := range s.SortedEntityIDs() {
		e := s.Entities[id]
		if e.Properties.Static {
			continue
		}
		if y, ok := floor[e.Pos.Cell.X]; !ok || y >= e.Pos.Cell.Y {
			errs = append(errs, ValidationError{
				Code:    CodeBottomless,
				Message: fmt.Sprintf("%s at %s has nothing below it", e.Identifier, e.Pos.Cell),
			})
		}
	}
	return errs
}
