package model

import (
	"sort"

	"github.com/vovakirdan/sideways/internal/geom"
)

// GameState is the complete mutable state of a level in play.
type GameState struct {
	IDs            IDs
	Tiles          map[geom.Vec]Tile
	Entities       map[ID]*Entity
	Powerups       map[ID]*Powerup
	Goals          map[ID]*Goal
	SelectedPlayer *ID
	Stable         bool
}

// NewGameState creates an empty state.
func NewGameState() *GameState {
	return &GameState{
		Tiles:    make(map[geom.Vec]Tile),
		Entities: make(map[ID]*Entity),
		Powerups: make(map[ID]*Powerup),
		Goals:    make(map[ID]*Goal),
	}
}

// Tile returns the tile at cell, TileNothing if unset.
func (s *GameState) Tile(cell geom.Vec) Tile {
	return s.Tiles[cell]
}

// SetTile places a tile. Setting TileNothing clears the cell.
func (s *GameState) SetTile(cell geom.Vec, t Tile) {
	if t == TileNothing {
		delete(s.Tiles, cell)
		return
	}
	s.Tiles[cell] = t
}

// AddEntity assigns a fresh id to e, stores it and returns the id.
// PrevPos starts equal to Pos so a new entity has no continuation.
func (s *GameState) AddEntity(e Entity) ID {
	e.ID = s.IDs.NextID()
	e.PrevPos = e.Pos
	e.PrevMove = nil
	s.Entities[e.ID] = &e
	return e.ID
}

// AddPowerup stores a powerup under a fresh id.
func (s *GameState) AddPowerup(pos geom.Position, effect Effect) ID {
	id := s.IDs.NextID()
	s.Powerups[id] = &Powerup{ID: id, Pos: pos, Effect: effect}
	return id
}

// AddGoal stores a goal under a fresh id.
func (s *GameState) AddGoal(pos geom.Position) ID {
	id := s.IDs.NextID()
	s.Goals[id] = &Goal{ID: id, Pos: pos}
	return id
}

// Entity returns the entity with the given id, or nil.
func (s *GameState) Entity(id ID) *Entity {
	return s.Entities[id]
}

// EntitiesAt returns the entities occupying cell in ascending id order.
func (s *GameState) EntitiesAt(cell geom.Vec) []*Entity {
	var result []*Entity
	for _, id := range s.SortedEntityIDs() {
		e := s.Entities[id]
		if e.Pos.Cell == cell {
			result = append(result, e)
		}
	}
	return result
}

// SortedEntityIDs returns all entity ids in ascending order.
func (s *GameState) SortedEntityIDs() []ID {
	return sortedKeys(s.Entities)
}

// SortedPowerupIDs returns all powerup ids in ascending order.
func (s *GameState) SortedPowerupIDs() []ID {
	return sortedKeys(s.Powerups)
}

// SortedGoalIDs returns all goal ids in ascending order.
func (s *GameState) SortedGoalIDs() []ID {
	return sortedKeys(s.Goals)
}

func sortedKeys[V any](m map[ID]V) []ID {
	ids := make([]ID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Finished returns true once every goal has been consumed.
func (s *GameState) Finished() bool {
	return len(s.Goals) == 0
}

// Clone returns a deep copy of the state, id generator included.
func (s *GameState) Clone() *GameState {
	c := &GameState{
		IDs:      s.IDs,
		Tiles:    make(map[geom.Vec]Tile, len(s.Tiles)),
		Entities: make(map[ID]*Entity, len(s.Entities)),
		Powerups: make(map[ID]*Powerup, len(s.Powerups)),
		Goals:    make(map[ID]*Goal, len(s.Goals)),
		Stable:   s.Stable,
	}
	for cell, t := range s.Tiles {
		c.Tiles[cell] = t
	}
	for id, e := range s.Entities {
		c.Entities[id] = e.Clone()
	}
	for id, p := range s.Powerups {
		cp := *p
		c.Powerups[id] = &cp
	}
	for id, g := range s.Goals {
		cg := *g
		c.Goals[id] = &cg
	}
	if s.SelectedPlayer != nil {
		sel := *s.SelectedPlayer
		c.SelectedPlayer = &sel
	}
	return c
}

// PlayerIDs returns the ids of player entities in ascending order.
func (s *GameState) PlayerIDs() []ID {
	var ids []ID
	for _, id := range s.SortedEntityIDs() {
		if s.Entities[id].Properties.Player {
			ids = append(ids, id)
		}
	}
	return ids
}

// SelectedEntity returns the selected player entity, or nil.
func (s *GameState) SelectedEntity() *Entity {
	if s.SelectedPlayer == nil {
		return nil
	}
	return s.Entities[*s.SelectedPlayer]
}

// IsSelected reports whether id is the selected player.
func (s *GameState) IsSelected(id ID) bool {
	return s.SelectedPlayer != nil && *s.SelectedPlayer == id
}

func (s *GameState) selectionAllowed(cfg Config) bool {
	return s.Stable || cfg.AllowUnstablePlayerSelection
}

// SelectPlayer selects the index-th player (wrapping around).
// Refused while the state is unstable unless the config allows it.
// Returns true if the selection changed.
func (s *GameState) SelectPlayer(cfg Config, index int) bool {
	if !s.selectionAllowed(cfg) {
		return false
	}
	players := s.PlayerIDs()
	if len(players) == 0 {
		return false
	}
	id := players[wrapIndex(index, len(players))]
	if s.IsSelected(id) {
		return false
	}
	s.SelectedPlayer = &id
	return true
}

// ChangePlayerSelection moves the selection by delta through the ordered
// player list, wrapping around. With no current selection the count starts
// before the first player.
func (s *GameState) ChangePlayerSelection(cfg Config, delta int) bool {
	if !s.selectionAllowed(cfg) {
		return false
	}
	players := s.PlayerIDs()
	if len(players) == 0 {
		return false
	}
	current := -1
	for i, id := range players {
		if s.IsSelected(id) {
			current = i
			break
		}
	}
	if current < 0 {
		if delta > 0 {
			delta--
		}
		current = 0
	}
	return s.SelectPlayer(cfg, current+delta)
}

// EnsureSelection points the selection at the first player when it refers to
// nothing. It bypasses the stability check and is used after loading and
// after a selected player left the level.
func (s *GameState) EnsureSelection() {
	if s.SelectedEntity() != nil {
		return
	}
	s.SelectedPlayer = nil
	if players := s.PlayerIDs(); len(players) > 0 {
		id := players[0]
		s.SelectedPlayer = &id
	}
}

func wrapIndex(i, n int) int {
	return ((i % n) + n) % n
}
