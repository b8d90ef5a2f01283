package model

import (
	"fmt"
	"sort"

	"github.com/vovakirdan/sideways/internal/geom"
)

// MoveKind tags why an entity moved during a turn.
type MoveKind int

const (
	MoveMagnet MoveKind = iota
	MoveEnterGoal
	MoveGravity
	MoveMove
	MovePushed
	MoveSlideStart
	MoveSlideContinue
	MoveJump
	MoveMagnetContinue
)

// String returns a human-readable name for the move kind.
func (k MoveKind) String() string {
	switch k {
	case MoveMagnet:
		return "Magnet"
	case MoveEnterGoal:
		return "EnterGoal"
	case MoveGravity:
		return "Gravity"
	case MoveMove:
		return "Move"
	case MovePushed:
		return "Pushed"
	case MoveSlideStart:
		return "SlideStart"
	case MoveSlideContinue:
		return "SlideContinue"
	case MoveJump:
		return "Jump"
	case MoveMagnetContinue:
		return "MagnetContinue"
	default:
		return "Unknown"
	}
}

// JumpForce is the fixed force recorded on every jump.
const JumpForce = 3

// EntityMoveType is a tagged variant; only the fields of Kind are meaningful.
type EntityMoveType struct {
	Kind MoveKind

	// MoveMagnet
	MagnetAngle geom.Angle
	MoveDir     geom.Vec

	// MoveEnterGoal
	GoalID ID

	// MoveJump
	From          geom.Angle
	Blocked       bool
	BlockedAngle  geom.Angle
	CellsTraveled int
	JumpForce     int
}

// Simple returns a move type that carries no payload.
func Simple(kind MoveKind) EntityMoveType {
	return EntityMoveType{Kind: kind}
}

// MagnetType returns a Magnet move type.
// A zero moveDir records a rotation in place between two magnets.
func MagnetType(magnetAngle geom.Angle, moveDir geom.Vec) EntityMoveType {
	return EntityMoveType{Kind: MoveMagnet, MagnetAngle: magnetAngle.Normalize(), MoveDir: moveDir}
}

// EnterGoalType returns an EnterGoal move type.
func EnterGoalType(goal ID) EntityMoveType {
	return EntityMoveType{Kind: MoveEnterGoal, GoalID: goal}
}

// JumpType returns a Jump move type. blocked is nil when the path was clear.
func JumpType(from geom.Angle, blocked *geom.Angle, cellsTraveled int) EntityMoveType {
	t := EntityMoveType{
		Kind:          MoveJump,
		From:          from.Normalize(),
		CellsTraveled: cellsTraveled,
		JumpForce:     JumpForce,
	}
	if blocked != nil {
		t.Blocked = true
		t.BlockedAngle = blocked.Normalize()
	}
	return t
}

// IsSlide returns true for both slide kinds.
func (t EntityMoveType) IsSlide() bool {
	return t.Kind == MoveSlideStart || t.Kind == MoveSlideContinue
}

// String returns a compact description including the payload.
func (t EntityMoveType) String() string {
	switch t.Kind {
	case MoveMagnet:
		return fmt.Sprintf("Magnet{%s %s}", t.MagnetAngle, t.MoveDir)
	case MoveEnterGoal:
		return fmt.Sprintf("EnterGoal{%d}", t.GoalID)
	case MoveJump:
		blocked := "none"
		if t.Blocked {
			blocked = t.BlockedAngle.String()
		}
		return fmt.Sprintf("Jump{from %s blocked %s cells %d force %d}",
			t.From, blocked, t.CellsTraveled, t.JumpForce)
	default:
		return t.Kind.String()
	}
}

// EntityMove records one entity's move during a turn.
type EntityMove struct {
	EntityID  ID
	UsedInput Input
	PrevPos   geom.Position
	NewPos    geom.Position
	Type      EntityMoveType
}

// CollectedPowerup records a powerup attached to an entity side.
type CollectedPowerup struct {
	Entity     ID
	EntitySide int
	Powerup    Powerup
}

// Moves is everything that happened during one turn.
type Moves struct {
	EntityMoves       map[ID]EntityMove
	CollectedPowerups []CollectedPowerup
}

// NewMoves creates an empty move set.
func NewMoves() *Moves {
	return &Moves{EntityMoves: make(map[ID]EntityMove)}
}

// Add records a move unless the entity already has one this turn.
// Returns false if the move was dropped.
func (m *Moves) Add(move EntityMove) bool {
	if _, exists := m.EntityMoves[move.EntityID]; exists {
		return false
	}
	m.EntityMoves[move.EntityID] = move
	return true
}

// Has reports whether the entity already moved this turn.
func (m *Moves) Has(id ID) bool {
	_, ok := m.EntityMoves[id]
	return ok
}

// Empty returns true if nothing moved and nothing was collected.
func (m *Moves) Empty() bool {
	return len(m.EntityMoves) == 0 && len(m.CollectedPowerups) == 0
}

// Sorted returns the entity moves in ascending entity id order.
func (m *Moves) Sorted() []EntityMove {
	result := make([]EntityMove, 0, len(m.EntityMoves))
	for _, mv := range m.EntityMoves {
		result = append(result, mv)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].EntityID < result[j].EntityID
	})
	return result
}
