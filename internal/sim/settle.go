package sim

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/sideways/internal/model"
)

// ErrUnsettled is returned when a state keeps moving on its own for longer
// than the allowed number of turns.
var ErrUnsettled = errors.New("sim: state did not settle")

// DefaultMaxSettle bounds auto-advancing when no limit is configured.
const DefaultMaxSettle = 64

var logger = log.New(io.Discard)

// SetLogger routes turn logging (debug level) to l. A nil logger disables it.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	logger = l
}

// Settle plays Skip turns until the state is stable, at most maxTurns of
// them. It returns the move records of the turns that did something.
func Settle(s *model.GameState, cfg model.Config, maxTurns int) ([]*model.Moves, error) {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxSettle
	}
	var history []*model.Moves
	for turns := 0; !s.Stable; turns++ {
		if turns >= maxTurns {
			return history, fmt.Errorf("%w after %d turns", ErrUnsettled, maxTurns)
		}
		if mv := ProcessTurn(s, cfg, model.InputSkip); mv != nil {
			history = append(history, mv)
		}
	}
	return history, nil
}

// SolutionResult summarises a played input sequence.
type SolutionResult struct {
	Inputs    int // Inputs consumed before the level finished or ran out
	Turns     int // Turns that produced moves, settling included
	Unsettled int // Inputs after which the state was still moving
	Finished  bool
}

// RunSolution plays inputs from the given state the way the play loop does:
// after each input it auto-advances with Skip until the state settles or
// maxSettle turns pass. A state that keeps moving (a jump pad bouncing) does
// not stop the run; the next input simply lands on the moving state.
// It stops early once the level is finished.
func RunSolution(s *model.GameState, cfg model.Config, inputs []model.Input, maxSettle int) SolutionResult {
	var result SolutionResult

	settle := func() bool {
		settled, err := Settle(s, cfg, maxSettle)
		result.Turns += len(settled)
		return err == nil
	}

	UpdateStable(s, cfg)
	settle()

	for _, in := range inputs {
		if s.Finished() {
			break
		}
		result.Inputs++
		if mv := ProcessTurn(s, cfg, in); mv != nil {
			result.Turns++
		}
		if !settle() {
			result.Unsettled++
		}
	}

	result.Finished = s.Finished()
	return result
}
