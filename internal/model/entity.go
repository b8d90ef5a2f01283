package model

import "github.com/vovakirdan/sideways/internal/geom"

// ID identifies an entity, powerup or goal for its whole lifetime.
type ID uint64

// IDs hands out ids. It only ever counts up.
type IDs struct {
	Next ID
}

// NextID returns a fresh id.
func (g *IDs) NextID() ID {
	id := g.Next
	g.Next++
	return id
}

// SideCount is the number of sides every entity has.
const SideCount = 4

// Side is one face of an entity.
type Side struct {
	Effect *Effect
}

// HasEffect reports whether the side carries an effect.
func (s Side) HasEffect() bool {
	return s.Effect != nil
}

// WithEffect returns a side carrying e.
func WithEffect(e Effect) Side {
	return Side{Effect: &e}
}

// Properties are fixed capability flags set when the entity is created.
type Properties struct {
	Block    bool `yaml:"block,omitempty"`
	Trigger  bool `yaml:"trigger,omitempty"`
	Player   bool `yaml:"player,omitempty"`
	Pushable bool `yaml:"pushable,omitempty"`
	Static   bool `yaml:"static,omitempty"`
}

// Entity is a mobile (or static) block with four sides.
// Side i faces angle i before the entity's own rotation is applied.
type Entity struct {
	ID         ID
	Index      *int
	Identifier string
	Properties Properties
	Pos        geom.Position
	PrevPos    geom.Position
	PrevMove   *EntityMove
	Sides      [SideCount]Side
}

// SideAngle returns the absolute angle side i currently faces.
func (e *Entity) SideAngle(i int) geom.Angle {
	return geom.Angle(i).Add(e.Pos.Angle)
}

// SideIndex returns the index of the side facing the absolute angle.
func (e *Entity) SideIndex(angle geom.Angle) int {
	return angle.Sub(e.Pos.Angle).Int()
}

// SideAtAngle returns the side facing the absolute angle.
func (e *Entity) SideAtAngle(angle geom.Angle) Side {
	return e.Sides[e.SideIndex(angle)]
}

// Clone returns a deep copy of the entity.
func (e *Entity) Clone() *Entity {
	c := *e
	if e.Index != nil {
		idx := *e.Index
		c.Index = &idx
	}
	if e.PrevMove != nil {
		mv := *e.PrevMove
		c.PrevMove = &mv
	}
	for i, s := range e.Sides {
		if s.Effect != nil {
			c.Sides[i] = WithEffect(*s.Effect)
		}
	}
	return &c
}

// Powerup attaches its effect to whichever side faces it when picked up.
type Powerup struct {
	ID     ID
	Pos    geom.Position
	Effect Effect
}

// Goal is consumed together with the player entity that reaches it.
type Goal struct {
	ID  ID
	Pos geom.Position
}
