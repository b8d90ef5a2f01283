package sim

import (
	"github.com/vovakirdan/sideways/internal/geom"
	"github.com/vovakirdan/sideways/internal/model"
)

// magnetContinue carries a magnet move around the corner it just crawled
// over: if the cell in the previous magnet direction is free, the entity
// steps into it without turning.
func magnetContinue(s *model.GameState, cfg model.Config, e *model.Entity, input model.Input) *model.EntityMove {
	prev := e.PrevMove
	if prev == nil || prev.Type.Kind != model.MoveMagnet || prev.Type.MoveDir.IsZero() {
		return nil
	}

	switch cfg.MagnetContinue {
	case model.ContinueNever:
		return nil
	case model.ContinueInput:
		if input != prev.UsedInput {
			return nil
		}
	case model.ContinueAlways:
	}

	magnet := prev.Type.MagnetAngle
	target := e.Pos.Cell.Add(magnet.Vec())
	if IsBlocked(s, target) {
		return nil
	}

	return &model.EntityMove{
		EntityID:  e.ID,
		UsedInput: prev.UsedInput,
		PrevPos:   e.Pos,
		NewPos:    geom.Position{Cell: target, Angle: e.Pos.Angle},
		Type:      model.Simple(model.MoveMagnetContinue),
	}
}

// gravityMove drops the entity one cell unless something holds it up.
func gravityMove(s *model.GameState, e *model.Entity, input model.Input, effects []ActiveEffect) *model.EntityMove {
	if gravityDisabled(effects) {
		return nil
	}
	below := e.Pos.Step(geom.Down)
	if IsBlocked(s, below.Cell) {
		return nil
	}
	return &model.EntityMove{
		EntityID:  e.ID,
		UsedInput: input,
		PrevPos:   e.Pos,
		NewPos:    below,
		Type:      model.Simple(model.MoveGravity),
	}
}

// goalMove signals that a player stands on a goal with matching orientation.
// The move does not relocate the entity.
func goalMove(s *model.GameState, e *model.Entity, input model.Input) *model.EntityMove {
	if !e.Properties.Player {
		return nil
	}
	for _, id := range s.SortedGoalIDs() {
		if s.Goals[id].Pos.Equal(e.Pos) {
			return &model.EntityMove{
				EntityID:  e.ID,
				UsedInput: input,
				PrevPos:   e.Pos,
				NewPos:    e.Pos,
				Type:      model.EnterGoalType(id),
			}
		}
	}
	return nil
}

// justMove handles plain walking, magnet crawling and pushing.
//
// Magnet sides act as ground: for every magnet angle the input is turned
// into a crawl direction (clockwise for Left, counter-clockwise for Right).
// A direction that points at another magnet is unusable, so two adjacent
// magnets never both offer a crawl. Magnets on opposite sides lock the
// entity in place and it only turns. A crawl rolls the entity like a walk.
// Without a crawl the entity walks if it stands on something or clings to a
// magnet, pushing a pushable neighbour if the cell behind it is free.
func justMove(s *model.GameState, e *model.Entity, input model.Input, effects []ActiveEffect) []model.EntityMove {
	if input == model.InputSkip {
		return nil
	}

	rolled := e.Pos.WithInputDelta(input.Delta())
	self := model.EntityMove{
		EntityID:  e.ID,
		UsedInput: input,
		PrevPos:   e.Pos,
		NewPos:    rolled,
		Type:      model.Simple(model.MoveMove),
	}

	magnets := magnetAngles(effects)
	if magnetLocked(magnets) {
		self.Type = model.MagnetType(magnets[0], geom.Zero)
		return []model.EntityMove{self}
	}

	for _, m := range magnets {
		dir := m.Add(1)
		if input == model.InputLeft {
			dir = m.Sub(1)
		}
		if containsAngle(magnets, dir) || IsBlocked(s, e.Pos.Cell.Add(dir.Vec())) {
			continue
		}
		self.NewPos = geom.Position{Cell: e.Pos.Cell.Add(dir.Vec()), Angle: rolled.Angle}
		self.Type = model.MagnetType(m, dir.Vec())
		return []model.EntityMove{self}
	}

	supported := IsBlocked(s, e.Pos.Cell.Add(geom.Down.Vec())) || len(magnets) > 0
	if !supported {
		return nil
	}

	dir := geom.Right
	if input == model.InputLeft {
		dir = geom.Left
	}
	target := e.Pos.Cell.Add(dir.Vec())

	if !IsBlocked(s, target) {
		self.NewPos = geom.Position{Cell: target, Angle: rolled.Angle}
		return []model.EntityMove{self}
	}

	if pushed := pushableAt(s, target); pushed != nil && !IsBlocked(s, target.Add(dir.Vec())) {
		self.NewPos = geom.Position{Cell: target, Angle: rolled.Angle}
		return []model.EntityMove{self, {
			EntityID:  pushed.ID,
			UsedInput: model.InputSkip,
			PrevPos:   pushed.Pos,
			NewPos:    pushed.Pos.Step(dir),
			Type:      model.Simple(model.MovePushed),
		}}
	}

	// Blocked: turn in place.
	return []model.EntityMove{self}
}

// magnetLocked reports magnets on two opposite sides.
func magnetLocked(magnets []geom.Angle) bool {
	for _, m := range magnets {
		if containsAngle(magnets, m.Opposite()) {
			return true
		}
	}
	return false
}

// pushableAt returns the entity blocking cell if it is the only thing there
// and can be pushed.
func pushableAt(s *model.GameState, cell geom.Vec) *model.Entity {
	if s.Tile(cell).IsBlocking() {
		return nil
	}
	var found *model.Entity
	for _, e := range s.EntitiesAt(cell) {
		if !e.Properties.Block {
			continue
		}
		if found != nil || !e.Properties.Pushable || e.Properties.Static {
			return nil
		}
		found = e
	}
	return found
}
