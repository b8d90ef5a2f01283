package sim

import (
	"fmt"

	"github.com/vovakirdan/sideways/internal/model"
)

// ProcessTurn resolves one input, applies the resulting moves to s and
// updates s.Stable by probing a Skip turn on a clone.
// Returns nil if nothing moved and nothing was collected.
func ProcessTurn(s *model.GameState, cfg model.Config, input model.Input) *model.Moves {
	moves := processTurn(s, cfg, input)
	UpdateStable(s, cfg)

	if moves != nil {
		logger.Debug("turn",
			"input", input,
			"moves", len(moves.EntityMoves),
			"collected", len(moves.CollectedPowerups),
			"stable", s.Stable,
			"finished", s.Finished(),
		)
	}
	return moves
}

// UpdateStable recomputes s.Stable without touching anything else: the
// state is stable if a Skip turn on a clone would do nothing.
func UpdateStable(s *model.GameState, cfg model.Config) bool {
	probe := s.Clone()
	s.Stable = processTurn(probe, cfg, model.InputSkip) == nil
	return s.Stable
}

// processTurn is one turn without the stability probe.
func processTurn(s *model.GameState, cfg model.Config, input model.Input) *model.Moves {
	moves := model.NewMoves()

	ids := s.SortedEntityIDs()
	for _, id := range ids {
		e := s.Entities[id]
		if e.Properties.Static || moves.Has(id) {
			continue
		}
		in := model.InputSkip
		if s.IsSelected(id) {
			in = input
		}
		for _, mv := range resolveEntity(s, cfg, e, in) {
			moves.Add(mv)
		}
	}

	for _, id := range ids {
		e := s.Entities[id]
		e.PrevPos = e.Pos
		e.PrevMove = nil
		if mv, ok := moves.EntityMoves[id]; ok {
			e.PrevMove = &mv
		}
	}

	applyMoves(s, moves)
	collectPowerups(s, moves)

	if moves.Empty() {
		return nil
	}
	return moves
}

// resolveEntity runs the rule systems in priority order; the first one that
// produces a move wins. Only walking can move more than one entity.
func resolveEntity(s *model.GameState, cfg model.Config, e *model.Entity, input model.Input) []model.EntityMove {
	if mv := magnetContinue(s, cfg, e, input); mv != nil {
		return []model.EntityMove{*mv}
	}

	effects := ActiveEffects(s, e.ID)
	if mv := sideEffects(s, e, input, effects); mv != nil {
		return []model.EntityMove{*mv}
	}
	if mv := gravityMove(s, e, input, effects); mv != nil {
		return []model.EntityMove{*mv}
	}
	if mv := goalMove(s, e, input); mv != nil {
		return []model.EntityMove{*mv}
	}
	return justMove(s, e, input, effects)
}

// applyMoves moves every entity and consumes goals.
// A move that does not start from the entity's position is a resolver bug.
func applyMoves(s *model.GameState, moves *model.Moves) {
	for _, mv := range moves.Sorted() {
		e := s.Entities[mv.EntityID]
		if e == nil {
			panic(fmt.Sprintf("sim: move for unknown entity %d", mv.EntityID))
		}
		if !e.Pos.Equal(mv.PrevPos) {
			panic(fmt.Sprintf("sim: entity %d is at %s but move starts at %s", e.ID, e.Pos, mv.PrevPos))
		}
		e.Pos = mv.NewPos.Normalize()

		if mv.Type.Kind == model.MoveEnterGoal {
			delete(s.Goals, mv.Type.GoalID)
			delete(s.Entities, e.ID)
		}
	}

	if s.SelectedPlayer != nil && s.SelectedEntity() == nil {
		s.EnsureSelection()
	}
}

// collectPowerups attaches every powerup sharing a cell with an entity to
// the entity side facing the powerup's angle, if that side is free.
func collectPowerups(s *model.GameState, moves *model.Moves) {
	for _, eid := range s.SortedEntityIDs() {
		e := s.Entities[eid]
		if e.Properties.Static {
			continue
		}
		for _, pid := range s.SortedPowerupIDs() {
			p := s.Powerups[pid]
			if p.Pos.Cell != e.Pos.Cell {
				continue
			}
			side := e.SideIndex(p.Pos.Angle)
			if e.Sides[side].HasEffect() {
				continue
			}
			attachEffect(e, side, p.Effect)
			delete(s.Powerups, pid)
			moves.CollectedPowerups = append(moves.CollectedPowerups, model.CollectedPowerup{
				Entity:     eid,
				EntitySide: side,
				Powerup:    *p,
			})
		}
	}
}

func attachEffect(e *model.Entity, side int, effect model.Effect) {
	if e.Sides[side].HasEffect() {
		panic(fmt.Sprintf("sim: entity %d side %d already carries %s", e.ID, side, *e.Sides[side].Effect))
	}
	e.Sides[side] = model.WithEffect(effect)
}
