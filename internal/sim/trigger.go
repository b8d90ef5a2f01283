// Package sim is the turn resolver of the puzzle. It decides, for one input,
// how every entity moves (effects, gravity, goals, walking and pushing),
// applies the moves to the state and probes one Skip turn ahead to tell
// whether the level has settled.
//
// The package is deterministic: entities are always visited in ascending id
// order and nothing depends on map iteration order.
package sim

import (
	"github.com/vovakirdan/sideways/internal/geom"
	"github.com/vovakirdan/sideways/internal/model"
)

// ActiveEffect is an effect currently firing on one side of an entity.
// Self is false when the effect was handed over by a neighbour.
type ActiveEffect struct {
	Angle  geom.Angle
	Effect model.Effect
	Self   bool
}

// IsBlocked reports whether cell is occupied by a blocking tile or entity.
func IsBlocked(s *model.GameState, cell geom.Vec) bool {
	if s.Tile(cell).IsBlocking() {
		return true
	}
	for _, e := range s.Entities {
		if e.Pos.Cell == cell && e.Properties.Block {
			return true
		}
	}
	return false
}

// IsTrigger reports whether cell activates effects when probed from angle.
// An entity counts when it is a trigger and its side facing angle does not
// suppress triggering.
func IsTrigger(s *model.GameState, cell geom.Vec, angle geom.Angle) bool {
	if s.Tile(cell).IsTrigger() {
		return true
	}
	for _, e := range s.Entities {
		if e.Pos.Cell != cell || !e.Properties.Trigger {
			continue
		}
		side := e.SideAtAngle(angle)
		if !side.HasEffect() || side.Effect.AllowTrigger() {
			return true
		}
	}
	return false
}

// ActiveEffects lists the effects firing on an entity, in side index order
// and, per side, its own effect before the one handed over by a neighbour.
func ActiveEffects(s *model.GameState, id model.ID) []ActiveEffect {
	e := s.Entity(id)
	if e == nil {
		return nil
	}

	var result []ActiveEffect
	for i := range model.SideCount {
		angle := e.SideAngle(i)
		adjacent := e.Pos.Cell.Add(angle.Vec())

		if side := e.Sides[i]; side.HasEffect() && side.Effect.ActivateSelf() &&
			IsTrigger(s, adjacent, angle.Opposite()) {
			result = append(result, ActiveEffect{Angle: angle, Effect: *side.Effect, Self: true})
		}

		if !IsTrigger(s, e.Pos.Cell, angle) {
			continue
		}
		for _, other := range s.EntitiesAt(adjacent) {
			if other.ID == e.ID {
				continue
			}
			if facing := other.SideAtAngle(angle.Opposite()); facing.HasEffect() {
				if handed, ok := facing.Effect.ActivateOther(); ok {
					result = append(result, ActiveEffect{Angle: angle, Effect: handed})
				}
			}
			break
		}
	}
	return result
}

// magnetAngles returns the distinct angles the entity is magneted to.
func magnetAngles(effects []ActiveEffect) []geom.Angle {
	var angles []geom.Angle
	for _, ae := range effects {
		if ae.Effect != model.EffectMagnet || containsAngle(angles, ae.Angle) {
			continue
		}
		angles = append(angles, ae.Angle.Normalize())
	}
	return angles
}

// gravityDisabled reports whether any active effect holds the entity up.
func gravityDisabled(effects []ActiveEffect) bool {
	for _, ae := range effects {
		if ae.Effect == model.EffectMagnet || ae.Effect == model.EffectDisableGravity {
			return true
		}
	}
	return false
}

func containsAngle(angles []geom.Angle, a geom.Angle) bool {
	for _, b := range angles {
		if b.Equal(a) {
			return true
		}
	}
	return false
}
