package formats

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/sideways/internal/geom"
	"github.com/vovakirdan/sideways/internal/model"
)

// SaveVersion is the version written by EncodeSave.
const SaveVersion = 2

// SaveV1 is the first save layout: a tile list next to entities that still
// carry their runtime ids and continuation state.
type SaveV1 struct {
	NextID         uint64          `yaml:"next_id"`
	Tiles          []SaveTileV1    `yaml:"tiles"`
	Entities       []SaveEntityV1  `yaml:"entities"`
	Powerups       []SavePowerupV1 `yaml:"powerups,omitempty"`
	Goals          []SaveGoalV1    `yaml:"goals,omitempty"`
	SelectedPlayer *uint64         `yaml:"selected_player,omitempty"`
}

// SaveTileV1 is one non-empty grid cell.
type SaveTileV1 struct {
	Cell geom.Vec   `yaml:"cell"`
	Tile model.Tile `yaml:"tile"`
}

// SaveEntityV1 is an entity with its volatile fields.
type SaveEntityV1 struct {
	ID         uint64           `yaml:"id"`
	Index      *int             `yaml:"index,omitempty"`
	Identifier string           `yaml:"identifier"`
	Properties model.Properties `yaml:"properties"`
	Pos        geom.Position    `yaml:"pos"`
	PrevPos    geom.Position    `yaml:"prev_pos"`
	PrevMove   *yaml.Node       `yaml:"prev_move,omitempty"`
	Sides      []*model.Effect  `yaml:"sides,omitempty"`
}

// SavePowerupV1 is a powerup with its id.
type SavePowerupV1 struct {
	ID     uint64        `yaml:"id"`
	Pos    geom.Position `yaml:"pos"`
	Effect model.Effect  `yaml:"effect"`
}

// SaveGoalV1 is a goal with its id.
type SaveGoalV1 struct {
	ID  uint64        `yaml:"id"`
	Pos geom.Position `yaml:"pos"`
}

// Save is the current save layout. Tiles are stored as static entities and
// nothing that only matters mid-turn is kept.
type Save struct {
	Version        int             `yaml:"version"`
	Entities       []SaveEntity    `yaml:"entities"`
	Powerups       []SavePowerup   `yaml:"powerups,omitempty"`
	Goals          []geom.Position `yaml:"goals,omitempty"`
	SelectedPlayer *int            `yaml:"selected_player,omitempty"` // index into the players
}

// SaveEntity is an entity without runtime fields.
type SaveEntity struct {
	Identifier string           `yaml:"identifier"`
	Index      *int             `yaml:"index,omitempty"`
	Properties model.Properties `yaml:"properties"`
	Pos        geom.Position    `yaml:"pos"`
	Sides      []*model.Effect  `yaml:"sides,omitempty"`
}

// SavePowerup is a powerup without its id.
type SavePowerup struct {
	Pos    geom.Position `yaml:"pos"`
	Effect model.Effect  `yaml:"effect"`
}

var errWrongVersion = errors.New("not a current save")

// DecodeSave reads a save of any known version and returns it migrated to
// the current layout.
func DecodeSave(data []byte) (Save, error) {
	save, errV2 := decodeCurrent(data)
	if errV2 == nil {
		return save, nil
	}

	var v1 SaveV1
	if err := decodeStrict(data, &v1); err != nil {
		return Save{}, fmt.Errorf("save: unrecognised format: %w", errors.Join(errV2, err))
	}
	return MigrateV1(v1), nil
}

func decodeCurrent(data []byte) (Save, error) {
	var save Save
	if err := decodeStrict(data, &save); err != nil {
		return Save{}, err
	}
	if save.Version != SaveVersion {
		return Save{}, fmt.Errorf("%w: version %d", errWrongVersion, save.Version)
	}
	return save, nil
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(out)
}

// EncodeSave writes the state in the current layout.
func EncodeSave(s *model.GameState) ([]byte, error) {
	data, err := yaml.Marshal(FromState(s))
	if err != nil {
		return nil, fmt.Errorf("save: encode: %w", err)
	}
	return data, nil
}

// MigrateV1 converts a version 1 save. Tiles become static entities placed
// before every other entity, in row order.
func MigrateV1(v1 SaveV1) Save {
	save := Save{Version: SaveVersion}

	tiles := append([]SaveTileV1(nil), v1.Tiles...)
	sort.Slice(tiles, func(i, j int) bool { return tiles[i].Cell.Less(tiles[j].Cell) })
	for _, t := range tiles {
		if t.Tile == model.TileNothing {
			continue
		}
		save.Entities = append(save.Entities, tileEntity(t.Cell, t.Tile))
	}

	entities := append([]SaveEntityV1(nil), v1.Entities...)
	sort.Slice(entities, func(i, j int) bool { return entities[i].ID < entities[j].ID })
	players := 0
	for _, e := range entities {
		if e.Properties.Player {
			if v1.SelectedPlayer != nil && *v1.SelectedPlayer == e.ID {
				idx := players
				save.SelectedPlayer = &idx
			}
			players++
		}
		save.Entities = append(save.Entities, SaveEntity{
			Identifier: e.Identifier,
			Index:      e.Index,
			Properties: e.Properties,
			Pos:        e.Pos.Normalize(),
			Sides:      trimSides(e.Sides),
		})
	}

	powerups := append([]SavePowerupV1(nil), v1.Powerups...)
	sort.Slice(powerups, func(i, j int) bool { return powerups[i].ID < powerups[j].ID })
	for _, p := range powerups {
		save.Powerups = append(save.Powerups, SavePowerup{Pos: p.Pos.Normalize(), Effect: p.Effect})
	}

	goals := append([]SaveGoalV1(nil), v1.Goals...)
	sort.Slice(goals, func(i, j int) bool { return goals[i].ID < goals[j].ID })
	for _, g := range goals {
		save.Goals = append(save.Goals, g.Pos.Normalize())
	}
	return save
}

// tileEntity is the static entity standing in for a tile.
func tileEntity(cell geom.Vec, t model.Tile) SaveEntity {
	return SaveEntity{
		Identifier: t.String(),
		Properties: model.Properties{Block: true, Trigger: t.IsTrigger(), Static: true},
		Pos:        geom.Position{Cell: cell},
	}
}

// FromState captures a state in the current layout.
func FromState(s *model.GameState) Save {
	save := Save{Version: SaveVersion}

	cells := make([]geom.Vec, 0, len(s.Tiles))
	for cell, t := range s.Tiles {
		if t != model.TileNothing {
			cells = append(cells, cell)
		}
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i].Less(cells[j]) })
	for _, cell := range cells {
		save.Entities = append(save.Entities, tileEntity(cell, s.Tiles[cell]))
	}

	players := 0
	for _, id := range s.SortedEntityIDs() {
		e := s.Entities[id]
		if e.Properties.Player {
			if s.IsSelected(id) {
				idx := players
				save.SelectedPlayer = &idx
			}
			players++
		}
		se := SaveEntity{
			Identifier: e.Identifier,
			Properties: e.Properties,
			Pos:        e.Pos.Normalize(),
		}
		if e.Index != nil {
			idx := *e.Index
			se.Index = &idx
		}
		sides := make([]*model.Effect, model.SideCount)
		for i, side := range e.Sides {
			if side.HasEffect() {
				effect := *side.Effect
				sides[i] = &effect
			}
		}
		se.Sides = trimSides(sides)
		save.Entities = append(save.Entities, se)
	}

	for _, id := range s.SortedPowerupIDs() {
		p := s.Powerups[id]
		save.Powerups = append(save.Powerups, SavePowerup{Pos: p.Pos.Normalize(), Effect: p.Effect})
	}
	for _, id := range s.SortedGoalIDs() {
		save.Goals = append(save.Goals, s.Goals[id].Pos.Normalize())
	}
	return save
}

// trimSides drops trailing empty sides so plain entities have no side list.
func trimSides(sides []*model.Effect) []*model.Effect {
	n := len(sides)
	for n > 0 && sides[n-1] == nil {
		n--
	}
	if n == 0 {
		return nil
	}
	return sides[:n]
}

// ToState builds a fresh game state from the save. Ids are newly assigned.
func (save Save) ToState() (*model.GameState, error) {
	s := model.NewGameState()
	var players []model.ID
	for i, se := range save.Entities {
		if len(se.Sides) > model.SideCount {
			return nil, fmt.Errorf("save: entity %d has %d sides", i, len(se.Sides))
		}
		e := model.Entity{
			Identifier: se.Identifier,
			Index:      se.Index,
			Properties: se.Properties,
			Pos:        se.Pos,
		}
		for j, effect := range se.Sides {
			if effect != nil {
				e.Sides[j] = model.WithEffect(*effect)
			}
		}
		id := s.AddEntity(e)
		if e.Properties.Player {
			players = append(players, id)
		}
	}
	for _, p := range save.Powerups {
		s.AddPowerup(p.Pos, p.Effect)
	}
	for _, g := range save.Goals {
		s.AddGoal(g)
	}

	if save.SelectedPlayer != nil {
		idx := *save.SelectedPlayer
		if idx < 0 || idx >= len(players) {
			return nil, fmt.Errorf("save: selected player %d out of range", idx)
		}
		id := players[idx]
		s.SelectedPlayer = &id
	}
	return s, nil
}
