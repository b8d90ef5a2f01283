package sim

import (
	"github.com/vovakirdan/sideways/internal/geom"
	"github.com/vovakirdan/sideways/internal/model"
)

// sideEffects returns the first move produced by an active effect.
// Magnets and the Disable* effects never move the entity themselves.
func sideEffects(s *model.GameState, e *model.Entity, input model.Input, effects []ActiveEffect) *model.EntityMove {
	for _, ae := range effects {
		var mv *model.EntityMove
		switch ae.Effect {
		case model.EffectJump:
			mv = jumpMove(s, e, ae.Angle, input)
		case model.EffectSlide:
			mv = slideMove(s, e, ae.Angle, input)
		case model.EffectMagnet, model.EffectDisableGravity, model.EffectDisableTrigger:
		}
		if mv != nil {
			return mv
		}
	}
	return nil
}

// overrideInput keeps a slide or jump going the way it went last turn.
// A purely horizontal last step repeats its direction; a rotation in place
// repeats the input that would produce the same turn. Anything else passes
// the raw input through.
func overrideInput(e *model.Entity, input model.Input) model.Input {
	delta := e.Pos.Cell.Sub(e.PrevPos.Cell)
	if delta.X != 0 && delta.Y == 0 {
		return model.InputFromDelta(delta.X)
	}
	if delta.IsZero() {
		switch e.Pos.Angle.Sub(e.PrevPos.Angle) {
		case geom.Up: // +1 quarter turn
			return model.InputLeft
		case geom.Down: // -1 quarter turn
			return model.InputRight
		}
	}
	return input
}

// jumpMove launches the entity away from the side at angle from.
// The path is two cells straight out, plus one sideways step in the input's
// direction when jumping up. The entity stops before the first blocked cell.
func jumpMove(s *model.GameState, e *model.Entity, from geom.Angle, input model.Input) *model.EntityMove {
	input = overrideInput(e, input)
	to := from.Opposite()

	path := []geom.Vec{to.Vec(), to.Vec()}
	if to.IsUp() && input != model.InputSkip {
		path = append(path, geom.V(input.Delta(), 0))
	}

	cell := e.Pos.Cell
	traveled := 0
	var blocked *geom.Angle
	for _, step := range path {
		next := cell.Add(step)
		if IsBlocked(s, next) {
			if a, ok := geom.AngleFromVec(step); ok {
				blocked = &a
			}
			break
		}
		cell = next
		traveled++
	}

	newPos := geom.Position{Cell: cell, Angle: e.Pos.Angle}
	if to.IsUp() {
		newPos = newPos.WithInputDelta(input.Delta())
	}
	if newPos.Equal(e.Pos) {
		return nil
	}

	return &model.EntityMove{
		EntityID:  e.ID,
		UsedInput: input,
		PrevPos:   e.Pos,
		NewPos:    newPos,
		Type:      model.JumpType(from, blocked, traveled),
	}
}

// slideMove moves the entity one cell sideways while its bottom side slides.
func slideMove(s *model.GameState, e *model.Entity, from geom.Angle, input model.Input) *model.EntityMove {
	if !from.Equal(geom.Down) {
		return nil
	}

	kind := model.MoveSlideStart
	if e.PrevMove != nil && e.PrevMove.Type.IsSlide() {
		kind = model.MoveSlideContinue
	}

	for _, in := range []model.Input{overrideInput(e, input), input} {
		if in == model.InputSkip {
			continue
		}
		target := e.Pos.Cell.Add(geom.V(in.Delta(), 0))
		if IsBlocked(s, target) {
			continue
		}
		return &model.EntityMove{
			EntityID:  e.ID,
			UsedInput: in,
			PrevPos:   e.Pos,
			NewPos:    geom.Position{Cell: target, Angle: e.Pos.Angle},
			Type:      model.Simple(kind),
		}
	}
	return nil
}
