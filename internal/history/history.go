// Package history keeps the linear timeline of a play session: one game state
// per turn plus the moves that led to it, for undo, redo and replaying a turn.
package history

import "github.com/vovakirdan/sideways/internal/model"

// Entry is one point of the timeline. Moves is nil for the initial state and
// for turns where nothing moved.
type Entry struct {
	State *model.GameState
	Moves *model.Moves
}

// History is a linear undo/redo stack. Recording after an undo drops the
// undone entries.
type History struct {
	entries []Entry
	cursor  int
}

// New starts a timeline at the given state.
func New(initial *model.GameState) *History {
	h := &History{}
	h.Reset(initial)
	return h
}

// Reset drops everything and starts over at state.
func (h *History) Reset(state *model.GameState) {
	h.entries = []Entry{{State: state.Clone()}}
	h.cursor = 0
}

// Record appends the state reached by a turn.
func (h *History) Record(state *model.GameState, moves *model.Moves) {
	h.entries = append(h.entries[:h.cursor+1], Entry{State: state.Clone(), Moves: moves})
	h.cursor = len(h.entries) - 1
}

// Current returns a copy of the state at the cursor.
func (h *History) Current() *model.GameState {
	return h.entries[h.cursor].State.Clone()
}

// CanUndo reports whether there is an earlier state.
func (h *History) CanUndo() bool {
	return h.cursor > 0
}

// CanRedo reports whether an undone state can be restored.
func (h *History) CanRedo() bool {
	return h.cursor < len(h.entries)-1
}

// Undo steps back one turn and returns a copy of that state.
// Returns nil, false at the start of the timeline.
func (h *History) Undo() (*model.GameState, bool) {
	if !h.CanUndo() {
		return nil, false
	}
	h.cursor--
	return h.Current(), true
}

// Redo steps forward one turn.
func (h *History) Redo() (*model.GameState, bool) {
	if !h.CanRedo() {
		return nil, false
	}
	h.cursor++
	return h.Current(), true
}

// Len returns the number of recorded states, the initial one included.
func (h *History) Len() int {
	return len(h.entries)
}

// Cursor returns the index of the current state.
func (h *History) Cursor() int {
	return h.cursor
}

// MovesAt returns the moves that led to entry i, for animated playback.
func (h *History) MovesAt(i int) *model.Moves {
	if i < 0 || i >= len(h.entries) {
		return nil
	}
	return h.entries[i].Moves
}

// Turns counts the recorded turns up to the cursor that moved something.
func (h *History) Turns() int {
	n := 0
	for _, e := range h.entries[1 : h.cursor+1] {
		if e.Moves != nil {
			n++
		}
	}
	return n
}
